package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/openpid/internal/dynamo"
)

type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) stage(dst dynamo.State, dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64) error {
	k := dyn.Derive(x, u, t)
	if err := dynamo.CheckDim("derivative", len(k), len(dst)); err != nil {
		return err
	}
	copy(dst, k)
	return nil
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) (dynamo.State, error) {
	n := len(x)
	r.ensureScratch(n)

	if err := r.stage(r.k1, dyn, x, u, t); err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, dt*0.5, r.k1)
	if err := r.stage(r.k2, dyn, r.scratch, u, t+dt*0.5); err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, dt*0.5, r.k2)
	if err := r.stage(r.k3, dyn, r.scratch, u, t+dt*0.5); err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, dt, r.k3)
	if err := r.stage(r.k4, dyn, r.scratch, u, t+dt); err != nil {
		return nil, err
	}

	// k1 + 2k2 + 2k3 + k4
	floats.AddScaledTo(r.scratch, r.k1, 2, r.k2)
	floats.AddScaled(r.scratch, 2, r.k3)
	floats.Add(r.scratch, r.k4)

	result := make(dynamo.State, n)
	floats.AddScaledTo(result, x, dt/6.0, r.scratch)

	return result, nil
}
