package physics

import (
	"fmt"

	"github.com/san-kum/openpid/internal/dynamo"
)

// DerivativeFunc returns dx/dt for state x under input u.
type DerivativeFunc func(x dynamo.State, u dynamo.Control) dynamo.State

// GenericSystem integrates an injected derivative function. The state
// length is fixed by the initial state.
type GenericSystem struct {
	stepper
	fn    DerivativeFunc
	state dynamo.State
}

func NewGenericSystem(fn DerivativeFunc, x0 dynamo.State) *GenericSystem {
	return &GenericSystem{
		stepper: newStepper(),
		fn:      fn,
		state:   x0.Clone(),
	}
}

func (g *GenericSystem) StateDim() int { return len(g.state) }

// ControlDim is zero: the input length is whatever fn consumes.
func (g *GenericSystem) ControlDim() int { return 0 }

// Derive hands fn a copy of x, so fn cannot reach the plant's state.
func (g *GenericSystem) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return g.fn(x.Clone(), u)
}

// Reset replaces the state wholesale and rewinds the clock.
func (g *GenericSystem) Reset(x0 dynamo.State) error {
	if err := setState(g.state, x0); err != nil {
		return err
	}
	g.t = 0
	return nil
}

func (g *GenericSystem) State() dynamo.State { return g.state.Clone() }

func (g *GenericSystem) SetState(x dynamo.State) error { return setState(g.state, x) }

func (g *GenericSystem) Update(u dynamo.Control, dt float64) error {
	if g.fn == nil {
		return fmt.Errorf("%w: generic system has no derivative function", dynamo.ErrParameterBounds)
	}
	next, err := g.advance(g, g.state, u, dt)
	if err != nil {
		return err
	}
	copy(g.state, next)
	return nil
}
