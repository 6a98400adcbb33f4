package physics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/integrators"
)

func doubleIntegrator(x dynamo.State, u dynamo.Control) dynamo.State {
	return dynamo.State{x[1], u[0]}
}

var _ = Describe("GenericSystem", func() {
	var sys *GenericSystem

	BeforeEach(func() {
		sys = NewGenericSystem(doubleIntegrator, dynamo.State{1.0, 0.0})
	})

	It("follows the explicit Euler recurrence of a double integrator", func() {
		dt := 0.05
		for k := 0; k < 100; k++ {
			Expect(sys.Update(dynamo.Control{1.0}, dt)).To(Succeed())
		}
		x := sys.State()
		// v_k = k·dt, x_k = 1 + dt²·k(k-1)/2
		Expect(x[1]).To(BeNumerically("~", 5.0, 1e-9))
		Expect(x[0]).To(BeNumerically("~", 13.375, 1e-9))
		Expect(sys.Time()).To(BeNumerically("~", 5.0, 1e-9))
	})

	It("returns the state by value", func() {
		x := sys.State()
		x[0] = 42
		Expect(sys.State()[0]).To(Equal(1.0))
	})

	It("rejects a derivative of the wrong length and keeps the state", func() {
		bad := NewGenericSystem(func(x dynamo.State, u dynamo.Control) dynamo.State {
			return dynamo.State{1, 2, 3}
		}, dynamo.State{1.0, 0.0})
		err := bad.Update(dynamo.Control{0}, 0.1)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(bad.State()).To(Equal(dynamo.State{1.0, 0.0}))
		Expect(bad.Time()).To(BeZero())
	})

	It("keeps the state when the derivative writes to its argument and fails", func() {
		bad := NewGenericSystem(func(x dynamo.State, u dynamo.Control) dynamo.State {
			x[0] = 99
			return dynamo.State{1}
		}, dynamo.State{1.0, 0.0})
		err := bad.Update(dynamo.Control{0}, 0.1)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(bad.State()).To(Equal(dynamo.State{1.0, 0.0}))
	})

	It("rejects a missing derivative function", func() {
		empty := NewGenericSystem(nil, dynamo.State{1.0, 0.0})
		Expect(empty.Update(dynamo.Control{0}, 0.1)).To(MatchError(dynamo.ErrParameterBounds))
		Expect(empty.State()).To(Equal(dynamo.State{1.0, 0.0}))
	})

	DescribeTable("rejects non-positive time steps",
		func(dt float64) {
			Expect(sys.Update(dynamo.Control{1}, dt)).To(MatchError(dynamo.ErrInvalidTimeStep))
			Expect(sys.State()).To(Equal(dynamo.State{1.0, 0.0}))
		},
		Entry("zero", 0.0),
		Entry("negative", -0.01),
	)

	It("resets wholesale but keeps its dimension", func() {
		Expect(sys.Update(dynamo.Control{1}, 0.1)).To(Succeed())
		Expect(sys.Reset(dynamo.State{3, 4})).To(Succeed())
		Expect(sys.State()).To(Equal(dynamo.State{3, 4}))
		Expect(sys.Time()).To(BeZero())
		Expect(sys.Reset(dynamo.State{1, 2, 3})).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(sys.SetState(dynamo.State{1})).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("integrates exactly with RK4 for constant acceleration", func() {
		sys.SetIntegrator(integrators.NewRK4())
		for k := 0; k < 10; k++ {
			Expect(sys.Update(dynamo.Control{2.0}, 0.1)).To(Succeed())
		}
		// x = 1 + t², v = 2t at t = 1
		Expect(sys.State()[0]).To(BeNumerically("~", 2.0, 1e-12))
		Expect(sys.State()[1]).To(BeNumerically("~", 2.0, 1e-12))
	})
})
