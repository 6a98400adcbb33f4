package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/openpid/internal/dynamo"
)

var _ = Describe("PendulumOnCart", func() {
	var pend *PendulumOnCart

	BeforeEach(func() {
		pend = NewPendulumOnCart(0.5, 0.2, 0.3, 0.1, 0.006, DefaultGravity)
	})

	It("starts just off the upright position", func() {
		Expect(pend.State()).To(Equal(dynamo.State{0, 0, math.Pi + 0.01, 0}))
	})

	It("exposes each state component", func() {
		pend.Reset(1.5, -0.25, 3.0, 0.2)
		Expect(pend.Position()).To(Equal(1.5))
		Expect(pend.Velocity()).To(Equal(-0.25))
		Expect(pend.Angle()).To(Equal(3.0))
		Expect(pend.AngularVelocity()).To(Equal(0.2))
	})

	DescribeTable("is at rest in both equilibria",
		func(theta float64) {
			accel, alpha, clamped := pend.Accelerations(dynamo.State{0, 0, theta, 0}, 0)
			Expect(math.Abs(accel)).To(BeNumerically("<", 1e-12))
			Expect(math.Abs(alpha)).To(BeNumerically("<", 1e-12))
			Expect(clamped).To(BeFalse())
		},
		Entry("hanging", 0.0),
		Entry("upright", math.Pi),
	)

	It("matches the closed-form accelerations", func() {
		M, m, l, b, I, g := 0.5, 0.2, 0.3, 0.1, 0.006, DefaultGravity
		x := dynamo.State{0.3, 0.4, 2.5, -0.7}
		F := 1.3
		v, th, w := x[1], x[2], x[3]
		den := (I+m*l*l)*(m+M) - m*m*l*l*math.Cos(th)*math.Cos(th)
		wantA := ((-b*v+F)*(I+m*l*l) + m*l*math.Sin(th)*(w*w*(I+m*l*l)+g*m*l*math.Cos(th))) / den
		wantAlpha := (2 * l * m * (g*(M+m)*math.Sin(th) + math.Cos(th)*(-b*v+F+w*w*l*m*math.Sin(th)))) /
			(-2*I*(m+M) - l*l*m*(m+2*M) + l*l*m*m*math.Cos(2*th))

		accel, alpha, _ := pend.Accelerations(x, F)
		Expect(accel).To(BeNumerically("~", wantA, 1e-9))
		Expect(alpha).To(BeNumerically("~", wantAlpha, 1e-9))
	})

	It("takes one explicit Euler step on all four components", func() {
		pend.Reset(0.1, 0.2, math.Pi+0.05, -0.1)
		before := pend.State()
		accel, alpha, _ := pend.Accelerations(before, 0.7)

		Expect(pend.ApplyForce(0.7, 0.05)).To(Succeed())
		Expect(pend.Position()).To(BeNumerically("~", 0.1+0.05*0.2, 1e-12))
		Expect(pend.Velocity()).To(BeNumerically("~", 0.2+0.05*accel, 1e-12))
		Expect(pend.Angle()).To(BeNumerically("~", math.Pi+0.05-0.05*0.1, 1e-12))
		Expect(pend.AngularVelocity()).To(BeNumerically("~", -0.1+0.05*alpha, 1e-12))
	})

	It("falls away from upright without control", func() {
		pend.Reset(0, 0, math.Pi+0.01, 0)
		for i := 0; i < 20; i++ {
			Expect(pend.ApplyForce(0, 0.01)).To(Succeed())
		}
		Expect(pend.Angle() - math.Pi).To(BeNumerically(">", 0.01))
	})

	Describe("denominator floor", func() {
		It("is pinned at 1e-6", func() {
			Expect(DenominatorFloor).To(Equal(1e-6))
		})

		DescribeTable("clamps small magnitudes and keeps the sign",
			func(in, want float64, clamped bool) {
				got, c := clampDenominator(in)
				Expect(got).To(Equal(want))
				Expect(c).To(Equal(clamped))
			},
			Entry("zero", 0.0, 1e-6, true),
			Entry("small positive", 5e-7, 1e-6, true),
			Entry("small negative", -5e-7, -1e-6, true),
			Entry("at the floor", 1e-6, 1e-6, false),
			Entry("just above", 2e-6, 2e-6, false),
			Entry("large negative", -3.0, -3.0, false),
		)

		It("keeps stepping through an exactly singular configuration", func() {
			// M = 0, I = 0, m = l = 1, θ = 0 makes (I+ml²)(m+M) = m²l²cos²θ
			singular := NewPendulumOnCart(0, 1, 1, 0.1, 0, DefaultGravity)
			singular.Reset(0, 0, 0, 0)

			accel, alpha, clamped := singular.Accelerations(singular.State(), 0.001)
			Expect(clamped).To(BeTrue())
			Expect(accel).To(BeNumerically("~", 1000, 1e-6))
			Expect(alpha).To(BeNumerically("~", -1000, 1e-6))

			Expect(singular.ApplyForce(0.001, 0.01)).To(Succeed())
			Expect(singular.Clamps()).To(Equal(1))
			Expect(singular.State().IsValid()).To(BeTrue())
			Expect(singular.Velocity()).To(BeNumerically("~", 10, 1e-6))
			Expect(singular.AngularVelocity()).To(BeNumerically("~", -10, 1e-6))
		})
	})

	It("rejects a multi-channel input", func() {
		Expect(pend.Update(dynamo.Control{1, 2}, 0.05)).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("validates parameters in the checked constructor", func() {
		_, err := NewPendulumOnCartChecked(0.5, 0, 0.3, 0.1, 0.006, DefaultGravity)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})
