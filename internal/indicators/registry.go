package indicators

import (
	"sync"

	"tasignals/pkg/errors"
)

// Category groups indicators for listing and presentation
type Category string

const (
	CategoryMovingAverage Category = "moving_average"
	CategoryMomentum      Category = "momentum"
	CategoryTrend         Category = "trend"
	CategoryVolatility    Category = "volatility"
	CategoryVolume        Category = "volume"
	CategoryLevels        Category = "levels"
	CategoryBreadth       Category = "breadth"
	CategoryDerivatives   Category = "derivatives"
)

// Func computes one indicator at the latest candle
type Func func(in *Input, p Params) Result

// Definition is one registry entry
type Definition struct {
	Name        string
	Category    Category
	Description string
	Compute     Func
	Defaults    Params
	Core        bool // the snapshot is unusable when every core indicator is absent
}

// Params merges caller overrides over the defaults
func (d Definition) Params(overrides Params) Params {
	return d.Defaults.Merge(overrides)
}

// Registry stores indicator definitions in registration order
type Registry struct {
	defs  map[string]Definition
	order []string
	mu    sync.RWMutex
}

// NewRegistry constructs an empty indicator registry
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]Definition),
	}
}

// Register adds a definition; names must be unique
func (r *Registry) Register(def Definition) error {
	if def.Name == "" || def.Compute == nil {
		return errors.Wrapf(errors.ErrInvalidInput, "indicator definition needs a name and a compute func")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return errors.Wrapf(errors.ErrInvalidInput, "indicator %s already registered", def.Name)
	}
	if def.Defaults == nil {
		def.Defaults = Params{}
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister registers or panics; used for the built-in set
func (r *Registry) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// Get retrieves a definition by name
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// List returns every definition in registration order
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Names returns the names of all registered indicators
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Core returns the names of core indicators
func (r *Registry) Core() []string {
	var out []string
	for _, d := range r.List() {
		if d.Core {
			out = append(out, d.Name)
		}
	}
	return out
}

// ByCategory returns definitions of one category
func (r *Registry) ByCategory(c Category) []Definition {
	var out []Definition
	for _, d := range r.List() {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of registered indicators
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
