// Package dynamo provides the core primitives shared by plants and controllers.
//
// The package defines the common currency of the engine:
//
//   - [State]: fixed-length vector describing a system's instantaneous condition
//   - [Control]: actuation input (force, torque, or a scalar command)
//   - [System]: derivative form dX/dt = f(X, u, t), consumed by integrators
//   - [DynamicalSystem]: a plant that owns its state and advances it in place
//   - [StatelessController] / [StatefulController]: control-law capabilities
//   - [Integrator]: fixed-step numerical integration scheme
//
// # Example
//
//	pend := physics.NewPendulumOnCart(0.5, 0.2, 0.3, 0.1, 0.006, physics.DefaultGravity)
//	sf := control.NewStateFeedback(-1.0, -1.6567, 18.6854, 3.4594)
//	sf.SetReference(math.Pi)
//	for i := 0; i < 160; i++ {
//	    f, _ := sf.Compute(pend.State())
//	    _ = pend.ApplyForce(f, 0.05)
//	}
//
// # Thread Safety
//
// Nothing in the engine is thread-safe. Each plant and controller is owned
// by a single sequential stepping loop.
package dynamo
