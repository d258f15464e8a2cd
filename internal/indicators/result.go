package indicators

import (
	"encoding/json"
	"math"
	"sort"

	"tasignals/pkg/errors"
)

// Result is the latest-point output of one indicator.
// A result with a non-nil Err is absent: none of the other fields are meaningful.
type Result struct {
	Value  float64
	Fields map[string]float64
	Labels map[string]string
	Signal string
	Err    error
}

// Absent reports whether the indicator could not be computed
func (r Result) Absent() bool { return r.Err != nil }

// Field returns a named field
func (r Result) Field(name string) (float64, bool) {
	if r.Absent() {
		return 0, false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Label returns a named categorical attribute
func (r Result) Label(name string) string {
	if r.Absent() {
		return ""
	}
	return r.Labels[name]
}

// Finite reports whether every number in the result is finite
func (r Result) Finite() bool {
	if !finite(r.Value) {
		return false
	}
	for _, v := range r.Fields {
		if !finite(v) {
			return false
		}
	}
	return true
}

// FieldNames returns field names in sorted order
func (r Result) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type resultJSON struct {
	Value  float64            `json:"value"`
	Fields map[string]float64 `json:"fields,omitempty"`
	Labels map[string]string  `json:"labels,omitempty"`
	Signal string             `json:"signal,omitempty"`
}

// MarshalJSON writes absent results as null
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Absent() {
		return []byte("null"), nil
	}
	return json.Marshal(resultJSON{Value: r.Value, Fields: r.Fields, Labels: r.Labels, Signal: r.Signal})
}

// UnmarshalJSON reads null as an absent result
func (r *Result) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Result{Err: errors.ErrUnavailable}
		return nil
	}
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode indicator result")
	}
	*r = Result{Value: raw.Value, Fields: raw.Fields, Labels: raw.Labels, Signal: raw.Signal}
	return nil
}

// value builds a plain numeric result
func value(v float64) Result {
	return Result{Value: v}
}

// record builds a result whose primary value is also exposed as a field
func record(primary float64, fields map[string]float64) Result {
	return Result{Value: primary, Fields: fields}
}

func (r Result) withSignal(signal string) Result {
	r.Signal = signal
	return r
}

func (r Result) withLabel(name, v string) Result {
	if r.Labels == nil {
		r.Labels = make(map[string]string)
	}
	r.Labels[name] = v
	return r
}

// absent builds an absent result
func absent(err error) Result {
	return Result{Err: err}
}

// insufficient builds an absent result for a series below the indicator floor
func insufficient(format string, args ...interface{}) Result {
	return absent(errors.Wrapf(errors.ErrInsufficientData, format, args...))
}

// unavailable builds an absent result for a missing optional input
func unavailable(what string) Result {
	return absent(errors.Wrapf(errors.ErrUnavailable, "%s not supplied", what))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
