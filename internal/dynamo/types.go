package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

// MaxAbs returns the largest absolute component. A NaN component counts
// as +Inf, so a diverged state exceeds every finite bound.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if math.IsNaN(v) {
			return math.Inf(1)
		}
		m = math.Max(m, math.Abs(v))
	}
	return m
}

func (s State) Add(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Add(result[:n], other[:n])
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

// AddScaled returns s + alpha*other. Lengths must match.
func (s State) AddScaled(alpha float64, other State) (State, error) {
	if err := CheckDim("derivative", len(other), len(s)); err != nil {
		return nil, err
	}
	result := s.Clone()
	floats.AddScaled(result, alpha, other)
	return result, nil
}

type Control []float64

func (u Control) Clone() Control {
	c := make(Control, len(u))
	copy(c, u)
	return c
}

// System is the derivative form consumed by integrators.
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// SecondOrder systems name the state components that are generalized
// coordinates, i.e. whose derivative is itself a state component.
type SecondOrder interface {
	Coordinates() []int
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Integrator advances x by one fixed step. Implementations return
// ErrDimensionMismatch when the system's derivative does not match x.
type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) (State, error)
}

// DynamicalSystem is a plant that owns its state.
//
// State returns a copy; callers never observe internal storage. Update
// advances the plant by exactly dt and leaves the state unchanged on error.
type DynamicalSystem interface {
	State() State
	SetState(x State) error
	Update(u Control, dt float64) error
}

// StatelessController computes an input purely from the measured state and
// its stored reference. Calling Actuate twice with the same arguments yields
// the same output.
type StatelessController interface {
	Actuate(x State, dt float64) (Control, error)
}

// StatefulController carries memory between calls (integrators, error
// history) that only Reset clears.
type StatefulController interface {
	StatelessController
	Reset()
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Config struct {
	Dt    float64
	Steps int
	// Bound aborts the run with ErrUnstable once any state component exceeds
	// it in magnitude. Zero disables the check.
	Bound         float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Steps:         1000,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Controls   []Control
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}

// Channel extracts component idx of every recorded state.
func (r *Result) Channel(idx int) []float64 {
	out := make([]float64, 0, len(r.States))
	for _, s := range r.States {
		if idx < len(s) {
			out = append(out, s[idx])
		}
	}
	return out
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
