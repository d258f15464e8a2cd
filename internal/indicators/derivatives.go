package indicators

import (
	"tasignals/internal/indicators/signals"
	"tasignals/pkg/errors"
)

// FundingRate grades the perpetual funding rate; crowded extremes read contrarian
func FundingRate(in *Input, p Params) Result {
	if in.Derivatives == nil || in.Derivatives.FundingRate == nil {
		return unavailable("funding rate")
	}
	rate := *in.Derivatives.FundingRate
	if !finite(rate) {
		return absent(errors.Wrapf(errors.ErrInvalidInput, "funding rate %v", rate))
	}
	intervals, err := p.Positive("intervals_per_year", 3*365)
	if err != nil {
		return absent(err)
	}
	extremity := signals.FundingRate.Classify(rate)
	r := record(rate, map[string]float64{
		"rate_pct":       rate * 100,
		"annualized_pct": rate * intervals * 100,
	})
	return r.withSignal(signals.Contrarian(extremity)).withLabel("extremity", extremity)
}

// LongShortRatio converts the long/short account ratio to a long share and grades crowding
func LongShortRatio(in *Input, p Params) Result {
	if in.Derivatives == nil || in.Derivatives.LongShortRatio == nil {
		return unavailable("long/short ratio")
	}
	ratio := *in.Derivatives.LongShortRatio
	if !finite(ratio) || ratio < 0 {
		return absent(errors.Wrapf(errors.ErrInvalidInput, "long/short ratio %v", ratio))
	}
	share := ratio / (1 + ratio)
	extremity := signals.LongShare.Classify(share)
	r := record(ratio, map[string]float64{
		"long_share":  share,
		"short_share": 1 - share,
	})
	return r.withSignal(signals.Contrarian(extremity)).withLabel("extremity", extremity)
}
