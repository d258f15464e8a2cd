package indicators

// Default returns a registry populated with the built-in indicator set
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(builtins()...)
	return r
}

func builtins() []Definition {
	return []Definition{
		// Moving averages
		{Name: "sma_20", Category: CategoryMovingAverage, Description: "Simple moving average", Compute: SMA, Defaults: Params{"period": 20}},
		{Name: "sma_50", Category: CategoryMovingAverage, Description: "Simple moving average", Compute: SMA, Defaults: Params{"period": 50}},
		{Name: "sma_200", Category: CategoryMovingAverage, Description: "Simple moving average", Compute: SMA, Defaults: Params{"period": 200}},
		{Name: "ema_8", Category: CategoryMovingAverage, Description: "Exponential moving average", Compute: EMA, Defaults: Params{"period": 8}},
		{Name: "ema_20", Category: CategoryMovingAverage, Description: "Exponential moving average", Compute: EMA, Defaults: Params{"period": 20}, Core: true},
		{Name: "ema_50", Category: CategoryMovingAverage, Description: "Exponential moving average", Compute: EMA, Defaults: Params{"period": 50}},
		{Name: "ema_200", Category: CategoryMovingAverage, Description: "Exponential moving average", Compute: EMA, Defaults: Params{"period": 200}},
		{Name: "wma_20", Category: CategoryMovingAverage, Description: "Weighted moving average", Compute: WMA, Defaults: Params{"period": 20}},
		{Name: "hma_20", Category: CategoryMovingAverage, Description: "Hull moving average", Compute: HMA, Defaults: Params{"period": 20}},
		{Name: "dema_20", Category: CategoryMovingAverage, Description: "Double exponential moving average", Compute: DEMA, Defaults: Params{"period": 20}},
		{Name: "tema_20", Category: CategoryMovingAverage, Description: "Triple exponential moving average", Compute: TEMA, Defaults: Params{"period": 20}},
		{Name: "kama_10", Category: CategoryMovingAverage, Description: "Kaufman adaptive moving average", Compute: KAMA, Defaults: Params{"period": 10}},
		{Name: "t3_5", Category: CategoryMovingAverage, Description: "Tillson T3", Compute: T3, Defaults: Params{"period": 5, "vfactor": 0.7}},
		{Name: "vwma_20", Category: CategoryMovingAverage, Description: "Volume weighted moving average", Compute: VWMA, Defaults: Params{"period": 20}},
		{Name: "alma_9", Category: CategoryMovingAverage, Description: "Arnaud Legoux moving average", Compute: ALMA, Defaults: Params{"period": 9, "offset": 0.85, "sigma": 6}},
		{Name: "mcginley_14", Category: CategoryMovingAverage, Description: "McGinley dynamic", Compute: McGinley, Defaults: Params{"period": 14, "constant": 0.6}},
		{Name: "ema_cross", Category: CategoryMovingAverage, Description: "Fast/slow EMA crossover", Compute: EMACross, Defaults: Params{"fast": 8, "slow": 20}},
		{Name: "golden_cross", Category: CategoryMovingAverage, Description: "50/200 SMA golden/death cross", Compute: GoldenCross, Defaults: Params{"fast": 50, "slow": 200}},
		{Name: "ema_ribbon", Category: CategoryMovingAverage, Description: "EMA ribbon alignment", Compute: EMARibbon, Defaults: Params{"fast": 9, "medium": 21, "slow": 55, "long": 200}},

		// Momentum
		{Name: "rsi", Category: CategoryMomentum, Description: "Relative strength index", Compute: RSI, Defaults: Params{"period": 14}, Core: true},
		{Name: "stoch_rsi", Category: CategoryMomentum, Description: "Stochastic RSI", Compute: StochRSI, Defaults: Params{"rsi_period": 14, "stoch_period": 14, "k": 3, "d": 3}},
		{Name: "macd", Category: CategoryMomentum, Description: "Moving average convergence divergence", Compute: MACD, Defaults: Params{"fast": 12, "slow": 26, "signal": 9}, Core: true},
		{Name: "stochastic", Category: CategoryMomentum, Description: "Stochastic oscillator", Compute: Stochastic, Defaults: Params{"period": 14, "k": 3, "d": 3}},
		{Name: "williams_r", Category: CategoryMomentum, Description: "Williams %R", Compute: WilliamsR, Defaults: Params{"period": 14}},
		{Name: "cci", Category: CategoryMomentum, Description: "Commodity channel index", Compute: CCI, Defaults: Params{"period": 20}},
		{Name: "roc", Category: CategoryMomentum, Description: "Rate of change", Compute: ROC, Defaults: Params{"period": 12}},
		{Name: "momentum", Category: CategoryMomentum, Description: "Price momentum", Compute: Momentum, Defaults: Params{"period": 10}},
		{Name: "awesome_oscillator", Category: CategoryMomentum, Description: "Awesome oscillator", Compute: AwesomeOscillator, Defaults: Params{"fast": 5, "slow": 34}},
		{Name: "accelerator_oscillator", Category: CategoryMomentum, Description: "Accelerator oscillator", Compute: AcceleratorOscillator, Defaults: Params{"fast": 5, "slow": 34, "signal": 5}},
		{Name: "tsi", Category: CategoryMomentum, Description: "True strength index", Compute: TSI, Defaults: Params{"long": 25, "short": 13, "signal": 7}},
		{Name: "ultimate_oscillator", Category: CategoryMomentum, Description: "Ultimate oscillator", Compute: UltimateOscillator, Defaults: Params{"short": 7, "medium": 14, "long": 28}},
		{Name: "cmo", Category: CategoryMomentum, Description: "Chande momentum oscillator", Compute: CMO, Defaults: Params{"period": 14}},
		{Name: "ppo", Category: CategoryMomentum, Description: "Percentage price oscillator", Compute: PPO, Defaults: Params{"fast": 12, "slow": 26, "signal": 9}},
		{Name: "trix", Category: CategoryMomentum, Description: "Triple smoothed EMA rate of change", Compute: TRIX, Defaults: Params{"period": 15, "signal": 9}},
		{Name: "kst", Category: CategoryMomentum, Description: "Know sure thing", Compute: KST, Defaults: Params{
			"roc1": 10, "roc2": 15, "roc3": 20, "roc4": 30,
			"sma1": 10, "sma2": 10, "sma3": 10, "sma4": 15,
			"signal": 9,
		}},
		{Name: "coppock", Category: CategoryMomentum, Description: "Coppock curve", Compute: Coppock, Defaults: Params{"long_roc": 14, "short_roc": 11, "wma": 10}},
		{Name: "dpo", Category: CategoryMomentum, Description: "Detrended price oscillator", Compute: DPO, Defaults: Params{"period": 20}},
		{Name: "elder_ray", Category: CategoryMomentum, Description: "Elder ray bull/bear power", Compute: ElderRay, Defaults: Params{"period": 13}},
		{Name: "bop", Category: CategoryMomentum, Description: "Balance of power", Compute: BOP, Defaults: Params{"period": 14}},
		{Name: "rvi", Category: CategoryMomentum, Description: "Relative vigor index", Compute: RVI, Defaults: Params{"period": 10}},
		{Name: "schaff_trend_cycle", Category: CategoryMomentum, Description: "Schaff trend cycle", Compute: SchaffTrendCycle, Defaults: Params{"fast": 23, "slow": 50, "cycle": 10, "factor": 0.5}},
		{Name: "fisher_transform", Category: CategoryMomentum, Description: "Ehlers Fisher transform", Compute: FisherTransform, Defaults: Params{"period": 10}},
		{Name: "connors_rsi", Category: CategoryMomentum, Description: "Connors RSI", Compute: ConnorsRSI, Defaults: Params{"rsi_period": 3, "streak_period": 2, "rank_period": 100}},
		{Name: "smi", Category: CategoryMomentum, Description: "Stochastic momentum index", Compute: SMI, Defaults: Params{"period": 10, "k": 3, "d": 3}},
		{Name: "wt_mfi_hybrid", Category: CategoryMomentum, Description: "WaveTrend / MFI hybrid oscillator", Compute: WTMFIHybrid, Defaults: Params{
			"channel": 10, "average": 8, "smooth": 5, "mfi": 10, "wt_weight": 0.3, "mfi_scale": 1.5,
		}},
		{Name: "rsi_divergence", Category: CategoryMomentum, Description: "RSI/price divergence", Compute: RSIDivergence, Defaults: Params{"period": 14, "lookback": 30}},

		// Trend
		{Name: "adx", Category: CategoryTrend, Description: "Average directional index", Compute: ADX, Defaults: Params{"period": 14}, Core: true},
		{Name: "aroon", Category: CategoryTrend, Description: "Aroon up/down", Compute: Aroon, Defaults: Params{"period": 25}},
		{Name: "vortex", Category: CategoryTrend, Description: "Vortex indicator", Compute: Vortex, Defaults: Params{"period": 14}},
		{Name: "supertrend", Category: CategoryTrend, Description: "SuperTrend", Compute: SuperTrend, Defaults: Params{"period": 10, "multiplier": 3}},
		{Name: "parabolic_sar", Category: CategoryTrend, Description: "Parabolic stop and reverse", Compute: ParabolicSAR, Defaults: Params{"acceleration": 0.02, "maximum": 0.2}},
		{Name: "ichimoku", Category: CategoryTrend, Description: "Ichimoku cloud", Compute: Ichimoku, Defaults: Params{"tenkan": 9, "kijun": 26, "senkou": 52}},
		{Name: "alligator", Category: CategoryTrend, Description: "Williams alligator", Compute: Alligator, Defaults: Params{
			"jaw": 13, "jaw_shift": 8, "teeth": 8, "teeth_shift": 5, "lips": 5, "lips_shift": 3,
		}},
		{Name: "linear_regression", Category: CategoryTrend, Description: "Least squares regression line", Compute: LinearRegression, Defaults: Params{"period": 20}},
		{Name: "choppiness_index", Category: CategoryTrend, Description: "Choppiness index", Compute: ChoppinessIndex, Defaults: Params{"period": 14}},
		{Name: "mass_index", Category: CategoryTrend, Description: "Mass index", Compute: MassIndex, Defaults: Params{"ema": 9, "sum": 25}},
		{Name: "heikin_ashi", Category: CategoryTrend, Description: "Heikin Ashi candle", Compute: HeikinAshi},
		{Name: "trend_direction", Category: CategoryTrend, Description: "Higher-high / lower-low trend count", Compute: TrendDirection, Defaults: Params{"period": 20}},
		{Name: "qstick", Category: CategoryTrend, Description: "QStick", Compute: QStick, Defaults: Params{"period": 14}},

		// Volatility
		{Name: "atr", Category: CategoryVolatility, Description: "Average true range", Compute: ATR, Defaults: Params{"period": 14}, Core: true},
		{Name: "natr", Category: CategoryVolatility, Description: "Normalized average true range", Compute: NATR, Defaults: Params{"period": 14}},
		{Name: "bollinger", Category: CategoryVolatility, Description: "Bollinger bands", Compute: Bollinger, Defaults: Params{"period": 20, "stddev": 2}, Core: true},
		{Name: "keltner", Category: CategoryVolatility, Description: "Keltner channels", Compute: Keltner, Defaults: Params{"period": 20, "atr_period": 10, "multiplier": 2}},
		{Name: "donchian", Category: CategoryVolatility, Description: "Donchian channels", Compute: Donchian, Defaults: Params{"period": 20}},
		{Name: "bb_squeeze", Category: CategoryVolatility, Description: "Bollinger/Keltner squeeze", Compute: BBSqueeze, Defaults: Params{"period": 20, "stddev": 2, "keltner_multiplier": 1.5}},
		{Name: "historical_volatility", Category: CategoryVolatility, Description: "Annualised close-to-close volatility", Compute: HistoricalVolatility, Defaults: Params{"period": 20, "annualization": 365}},
		{Name: "chaikin_volatility", Category: CategoryVolatility, Description: "Chaikin volatility", Compute: ChaikinVolatility, Defaults: Params{"ema": 10, "roc": 10}},
		{Name: "ulcer_index", Category: CategoryVolatility, Description: "Ulcer index", Compute: UlcerIndex, Defaults: Params{"period": 14}},
		{Name: "std_dev", Category: CategoryVolatility, Description: "Standard deviation of closes", Compute: StdDev, Defaults: Params{"period": 20}},

		// Volume
		{Name: "obv", Category: CategoryVolume, Description: "On-balance volume", Compute: OBV, Defaults: Params{"lookback": 10}},
		{Name: "cmf", Category: CategoryVolume, Description: "Chaikin money flow", Compute: CMF, Defaults: Params{"period": 20}},
		{Name: "mfi", Category: CategoryVolume, Description: "Money flow index", Compute: MFI, Defaults: Params{"period": 14}},
		{Name: "force_index", Category: CategoryVolume, Description: "Elder force index", Compute: ForceIndex, Defaults: Params{"period": 13}},
		{Name: "ad_line", Category: CategoryVolume, Description: "Accumulation/distribution line", Compute: ADLine, Defaults: Params{"lookback": 10}},
		{Name: "chaikin_oscillator", Category: CategoryVolume, Description: "Chaikin A/D oscillator", Compute: ChaikinOscillator, Defaults: Params{"fast": 3, "slow": 10}},
		{Name: "vwap", Category: CategoryVolume, Description: "Volume weighted average price", Compute: VWAP, Defaults: Params{"period": 24}},
		{Name: "volume_ratio", Category: CategoryVolume, Description: "Volume versus trailing average", Compute: VolumeRatio, Defaults: Params{"period": 20}},
		{Name: "ease_of_movement", Category: CategoryVolume, Description: "Ease of movement", Compute: EaseOfMovement, Defaults: Params{"period": 14, "divisor": 10000}},
		{Name: "pvt", Category: CategoryVolume, Description: "Price volume trend", Compute: PVT, Defaults: Params{"signal": 10}},
		{Name: "nvi", Category: CategoryVolume, Description: "Negative volume index", Compute: NVI, Defaults: Params{"signal": 255, "base": 1000}},
		{Name: "pvi", Category: CategoryVolume, Description: "Positive volume index", Compute: PVI, Defaults: Params{"signal": 255, "base": 1000}},
		{Name: "klinger", Category: CategoryVolume, Description: "Klinger volume oscillator", Compute: Klinger, Defaults: Params{"fast": 34, "slow": 55, "signal": 13}},
		{Name: "vroc", Category: CategoryVolume, Description: "Volume rate of change", Compute: VROC, Defaults: Params{"period": 14}},
		{Name: "cvd", Category: CategoryVolume, Description: "Cumulative volume delta", Compute: CVD, Defaults: Params{"lookback": 20}},
		{Name: "volume_profile", Category: CategoryVolume, Description: "Volume profile point of control and value area", Compute: VolumeProfile, Defaults: Params{"bins": 20, "value_area": 0.7}},
		{Name: "delta_volume", Category: CategoryVolume, Description: "Candle-direction buy/sell delta", Compute: DeltaVolume, Defaults: Params{"lookback": 20}},

		// Levels and statistics
		{Name: "pivot_points", Category: CategoryLevels, Description: "Classic, fibonacci and camarilla pivots", Compute: PivotPoints},
		{Name: "fibonacci", Category: CategoryLevels, Description: "Fibonacci retracements of the recent swing", Compute: Fibonacci, Defaults: Params{"lookback": 50}},
		{Name: "support_resistance", Category: CategoryLevels, Description: "Nearest swing support and resistance", Compute: SupportResistance, Defaults: Params{"lookback": 20, "strength": 2}},
		{Name: "price_position", Category: CategoryLevels, Description: "Price position in the recent range", Compute: PricePosition, Defaults: Params{"lookback": 24}},
		{Name: "zscore", Category: CategoryLevels, Description: "Z-score of price", Compute: ZScore, Defaults: Params{"period": 20}},
		{Name: "price_volume_correlation", Category: CategoryLevels, Description: "Close/volume correlation", Compute: PriceVolumeCorrelation, Defaults: Params{"period": 20}},
		{Name: "benchmark_correlation", Category: CategoryLevels, Description: "Return correlation and beta against a benchmark", Compute: BenchmarkCorrelation, Defaults: Params{"period": 20}},

		// Breadth
		{Name: "advance_decline_line", Category: CategoryBreadth, Description: "Cumulative net advances", Compute: AdvanceDeclineLine, Defaults: Params{"lookback": 10}},
		{Name: "mcclellan_oscillator", Category: CategoryBreadth, Description: "McClellan oscillator", Compute: McClellan, Defaults: Params{"fast": 19, "slow": 39}},
		{Name: "arms_index", Category: CategoryBreadth, Description: "Arms index (TRIN)", Compute: ArmsIndex},

		// Derivatives
		{Name: "funding_rate", Category: CategoryDerivatives, Description: "Perpetual funding rate", Compute: FundingRate, Defaults: Params{"intervals_per_year": 3 * 365}},
		{Name: "long_short_ratio", Category: CategoryDerivatives, Description: "Long/short account ratio", Compute: LongShortRatio},
	}
}
