package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"tasignals/pkg/errors"
)

// go-talib returns full-length arrays with zeros over the warm-up window and
// panics on inputs shorter than the lookback, so callers check length first.

// talibTail drops the warm-up prefix of a go-talib output
func talibTail(values []float64, lookback int) []float64 {
	if lookback < 0 || lookback >= len(values) {
		return nil
	}
	return values[lookback:]
}

// talibLast returns the most recent value of a go-talib output
func talibLast(values []float64, lookback int) (float64, error) {
	tail := talibTail(values, lookback)
	if len(tail) == 0 {
		return 0, errors.Wrapf(errors.ErrInsufficientData, "no values returned from indicator")
	}
	v := tail[len(tail)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(errors.ErrComputationFailure, "non-finite indicator output")
	}
	return v, nil
}

func talibDEMA(values []float64, period int) ([]float64, int) {
	return talib.Dema(values, period), 2 * (period - 1)
}

func talibTEMA(values []float64, period int) ([]float64, int) {
	return talib.Tema(values, period), 3 * (period - 1)
}

func talibKAMA(values []float64, period int) ([]float64, int) {
	return talib.Kama(values, period), period
}

func talibT3(values []float64, period int, vfactor float64) ([]float64, int) {
	return talib.T3(values, period, vfactor), 6 * (period - 1)
}
