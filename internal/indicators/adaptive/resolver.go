// Package adaptive shrinks indicator lookback periods when the series is shorter
// than the indicator's nominal requirement.
package adaptive

import (
	"math"

	"tasignals/pkg/errors"
)

const (
	DefaultMinPeriod    = 2
	DefaultShallowFloor = 5
)

// Resolver is the shared degradation policy. The zero value is not usable; use Default.
type Resolver struct {
	MinPeriod    int // smallest period a degraded parameter may take
	ShallowFloor int // no indicator degrades below this many candles
}

// Default returns the resolver used when no configuration is supplied
func Default() Resolver {
	return Resolver{MinPeriod: DefaultMinPeriod, ShallowFloor: DefaultShallowFloor}
}

// Validate checks resolver settings
func (r Resolver) Validate() error {
	if r.MinPeriod < 1 {
		return errors.NewValidationError("min_period", "must be at least 1", r.MinPeriod)
	}
	if r.ShallowFloor < r.MinPeriod {
		return errors.NewValidationError("shallow_floor", "must not be below min_period", r.ShallowFloor)
	}
	return nil
}

// Requirement describes how much history an indicator wants and the least it accepts
type Requirement struct {
	Required int // candles needed at nominal periods
	Floor    int // indicator-specific floor; Floor >= Required disables degradation
}

// Fixed returns a requirement that never degrades
func Fixed(required int) Requirement {
	return Requirement{Required: required, Floor: required}
}

// Shallow returns a requirement that degrades down to floor candles
func Shallow(required, floor int) Requirement {
	return Requirement{Required: required, Floor: floor}
}

// Scale is the outcome of resolving one requirement against a series length
type Scale struct {
	Ratio     float64
	minPeriod int
}

// Period maps a nominal period to its effective value
func (s Scale) Period(nominal int) int {
	if s.Ratio >= 1 {
		return nominal
	}
	return max(s.minPeriod, int(math.Round(float64(nominal)*s.Ratio)))
}

// Periods maps several nominal periods at once
func (s Scale) Periods(nominals ...int) []int {
	out := make([]int, len(nominals))
	for i, n := range nominals {
		out[i] = s.Period(n)
	}
	return out
}

// Degraded reports whether periods were shrunk
func (s Scale) Degraded() bool { return s.Ratio < 1 }

// Resolve computes the scale for a series of the given length.
// It returns ErrInsufficientData when length is below the effective floor.
func (r Resolver) Resolve(length int, req Requirement) (Scale, error) {
	if req.Required <= 0 {
		return Scale{Ratio: 1, minPeriod: r.MinPeriod}, nil
	}
	if length >= req.Required {
		return Scale{Ratio: 1, minPeriod: r.MinPeriod}, nil
	}
	floor := max(r.ShallowFloor, req.Floor)
	if req.Floor >= req.Required || length < floor {
		return Scale{}, errors.Wrapf(errors.ErrInsufficientData, "have %d candles, need %d", length, min(floor, req.Required))
	}
	return Scale{
		Ratio:     math.Min(1, float64(length)/float64(req.Required)),
		minPeriod: r.MinPeriod,
	}, nil
}
