package indicators

import (
	"math"

	"tasignals/pkg/errors"
)

// Params holds named numeric knobs of one indicator (period, multiplier, smoothing)
type Params map[string]float64

// Merge returns a copy of p with every key of over applied on top
func (p Params) Merge(over Params) Params {
	out := make(Params, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Float returns the value for key or def when unset
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Period returns a positive integer period for key
func (p Params) Period(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		if def < 1 {
			return 0, errors.Wrapf(errors.ErrInternal, "default for %s must be positive, got %d", key, def)
		}
		return def, nil
	}
	if !finite(v) || v < 1 || v != math.Trunc(v) {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "param %s must be a positive integer, got %v", key, v)
	}
	return int(v), nil
}

// Positive returns a finite positive float for key
func (p Params) Positive(key string, def float64) (float64, error) {
	v := p.Float(key, def)
	if !finite(v) || v <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "param %s must be positive, got %v", key, v)
	}
	return v, nil
}
