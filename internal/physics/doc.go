// Package physics provides the plant models of the engine.
//
// Each plant implements [dynamo.System] (its derivative) and
// [dynamo.DynamicalSystem] (it owns and advances its state):
//
//   - [GenericSystem]: injected derivative function
//   - [MassSpringDamper]: linear single-degree-of-freedom oscillator
//   - [PendulumOnCart]: underactuated cart-pendulum
//   - [Missile6DOFQuat]: rigid body with quaternion attitude
//
// Plants integrate with explicit Euler unless another [dynamo.Integrator]
// is installed with SetIntegrator. The missile additionally exposes its
// pure Dynamics so callers may integrate externally:
//
//	m := physics.NewMissile6DOFQuat()
//	x := m.State()
//	dx, _ := m.Dynamics(x, u)
//	next, _ := x.AddScaled(dt, dx)
//	_ = m.SetState(next)
//
// External integration does not renormalise the attitude quaternion; Update
// does.
package physics
