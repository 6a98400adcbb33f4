package physics

import (
	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/integrators"
)

const DefaultGravity = 9.81

// stepper carries the integration scheme and simulated clock shared by
// every plant.
type stepper struct {
	integ dynamo.Integrator
	t     float64
}

func newStepper() stepper {
	return stepper{integ: integrators.NewEuler()}
}

// SetIntegrator replaces the default explicit Euler scheme.
func (s *stepper) SetIntegrator(integ dynamo.Integrator) {
	if integ != nil {
		s.integ = integ
	}
}

// Time returns the simulated time accumulated by successful updates.
func (s *stepper) Time() float64 { return s.t }

func (s *stepper) advance(dyn dynamo.System, x dynamo.State, u dynamo.Control, dt float64) (dynamo.State, error) {
	if err := dynamo.CheckStep(dt); err != nil {
		return nil, err
	}
	if want := dyn.ControlDim(); want > 0 {
		if err := dynamo.CheckDim("input", len(u), want); err != nil {
			return nil, err
		}
	}
	next, err := s.integ.Step(dyn, x, u, s.t, dt)
	if err != nil {
		return nil, err
	}
	s.t += dt
	return next, nil
}

func setState(dst dynamo.State, x dynamo.State) error {
	if err := dynamo.CheckDim("state", len(x), len(dst)); err != nil {
		return err
	}
	copy(dst, x)
	return nil
}
