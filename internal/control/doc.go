// Package control provides the feedback controllers that close the loop
// around a plant.
//
//   - [PID]: direct and recursive realisations with independent memory
//   - [PIDLoop]: a PID measuring one state component, with optional saturation
//   - [StateFeedback]: u = −K·(x − r)
//   - [GenericController]: an injected [ControlLaw]
//   - [Constant]: open-loop input
//
// PIDLoop implements [dynamo.StatefulController]; the others are
// [dynamo.StatelessController] and have nothing to reset.
//
//	sf := control.NewStateFeedback(-1.0, -1.6567, 18.6854, 3.4594)
//	sf.SetReference(math.Pi)
//	u, err := sf.Compute(pend.State())
package control
