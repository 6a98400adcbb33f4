package integrators

import "github.com/san-kum/openpid/internal/dynamo"

// Euler is the fixed-step explicit scheme x ← x + f(x, u, t)·dt.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) (dynamo.State, error) {
	return x.AddScaled(dt, dyn.Derive(x, u, t))
}
