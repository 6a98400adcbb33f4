package physics

import (
	"fmt"

	"github.com/san-kum/openpid/internal/dynamo"
)

// MassSpringDamper is a single linear oscillator with state
// (position, velocity) driven by a scalar force.
type MassSpringDamper struct {
	stepper
	mass, damping, stiffness float64
	state                    dynamo.State
}

func NewMassSpringDamper(mass, damping, stiffness float64) *MassSpringDamper {
	return &MassSpringDamper{
		stepper:   newStepper(),
		mass:      mass,
		damping:   damping,
		stiffness: stiffness,
		state:     make(dynamo.State, 2),
	}
}

// NewMassSpringDamperChecked rejects non-physical parameters.
func NewMassSpringDamperChecked(mass, damping, stiffness float64) (*MassSpringDamper, error) {
	if mass <= 0 || damping < 0 || stiffness < 0 {
		return nil, fmt.Errorf("%w: mass=%g damping=%g stiffness=%g", dynamo.ErrParameterBounds, mass, damping, stiffness)
	}
	return NewMassSpringDamper(mass, damping, stiffness), nil
}

func (s *MassSpringDamper) StateDim() int      { return 2 }
func (s *MassSpringDamper) ControlDim() int    { return 1 }
func (s *MassSpringDamper) Coordinates() []int { return []int{0} }

func (s *MassSpringDamper) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}
	pos, vel := x[0], x[1]
	return dynamo.State{vel, (force - s.damping*vel - s.stiffness*pos) / s.mass}
}

func (s *MassSpringDamper) Energy(x dynamo.State) float64 {
	pos, vel := x[0], x[1]
	return 0.5*s.mass*vel*vel + 0.5*s.stiffness*pos*pos
}

func (s *MassSpringDamper) Reset(x0, v0 float64) {
	s.state[0], s.state[1] = x0, v0
	s.t = 0
}

func (s *MassSpringDamper) Position() float64 { return s.state[0] }
func (s *MassSpringDamper) Velocity() float64 { return s.state[1] }

func (s *MassSpringDamper) State() dynamo.State { return s.state.Clone() }

func (s *MassSpringDamper) SetState(x dynamo.State) error { return setState(s.state, x) }

// ApplyForce advances the plant by dt under a constant force.
func (s *MassSpringDamper) ApplyForce(force, dt float64) error {
	return s.Update(dynamo.Control{force}, dt)
}

func (s *MassSpringDamper) Update(u dynamo.Control, dt float64) error {
	next, err := s.advance(s, s.state, u, dt)
	if err != nil {
		return err
	}
	copy(s.state, next)
	return nil
}

func (s *MassSpringDamper) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.mass,
		"damping":   s.damping,
		"stiffness": s.stiffness,
	}
}
