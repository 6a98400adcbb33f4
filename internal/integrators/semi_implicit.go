package integrators

import "github.com/san-kum/openpid/internal/dynamo"

// SemiImplicitEuler updates velocities first and then advances the
// coordinates with the new velocities. Systems that do not implement
// dynamo.SecondOrder are stepped with explicit Euler.
type SemiImplicitEuler struct {
	scratch dynamo.State
	coord   []bool
}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) ensureScratch(n int) {
	if len(s.scratch) != n {
		s.scratch = make(dynamo.State, n)
		s.coord = make([]bool, n)
	}
}

func (s *SemiImplicitEuler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) (dynamo.State, error) {
	so, ok := dyn.(dynamo.SecondOrder)
	if !ok {
		return x.AddScaled(dt, dyn.Derive(x, u, t))
	}

	n := len(x)
	s.ensureScratch(n)
	for i := range s.coord {
		s.coord[i] = false
	}
	for _, idx := range so.Coordinates() {
		if idx >= 0 && idx < n {
			s.coord[idx] = true
		}
	}

	dx := dyn.Derive(x, u, t)
	if err := dynamo.CheckDim("derivative", len(dx), n); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		s.scratch[i] = x[i]
		if !s.coord[i] {
			s.scratch[i] += dt * dx[i]
		}
	}

	dxNew := dyn.Derive(s.scratch, u, t)
	if err := dynamo.CheckDim("derivative", len(dxNew), n); err != nil {
		return nil, err
	}

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		if s.coord[i] {
			result[i] = x[i] + dt*dxNew[i]
		} else {
			result[i] = s.scratch[i]
		}
	}
	return result, nil
}
