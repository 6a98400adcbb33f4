package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/openpid/internal/analysis"
	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/integrators"
)

var _ = Describe("MassSpringDamper", func() {
	var msd *MassSpringDamper

	BeforeEach(func() {
		msd = NewMassSpringDamper(1.0, 0.5, 5.0)
	})

	It("stays at rest at equilibrium", func() {
		dx := msd.Derive(dynamo.State{0, 0}, dynamo.Control{0}, 0)
		Expect(dx).To(Equal(dynamo.State{0, 0}))
	})

	It("computes spring, damper and force terms", func() {
		dx := msd.Derive(dynamo.State{1.0, 2.0}, dynamo.Control{3.0}, 0)
		Expect(dx[0]).To(Equal(2.0))
		Expect(dx[1]).To(BeNumerically("~", 3.0-0.5*2.0-5.0*1.0, 1e-12))
	})

	It("applies one explicit Euler step per update", func() {
		msd.Reset(1.0, 0.5)
		Expect(msd.ApplyForce(2.0, 0.1)).To(Succeed())
		a := (2.0 - 0.5*0.5 - 5.0*1.0) / 1.0
		Expect(msd.Position()).To(BeNumerically("~", 1.0+0.1*0.5, 1e-12))
		Expect(msd.Velocity()).To(BeNumerically("~", 0.5+0.1*a, 1e-12))
	})

	It("matches the velocity-first update with the semi-implicit integrator", func() {
		msd.SetIntegrator(integrators.NewSemiImplicitEuler())
		msd.Reset(1.0, 0.5)
		Expect(msd.ApplyForce(2.0, 0.1)).To(Succeed())
		v := 0.5 + 0.1*(2.0-0.5*0.5-5.0*1.0)
		Expect(msd.Velocity()).To(BeNumerically("~", v, 1e-12))
		Expect(msd.Position()).To(BeNumerically("~", 1.0+0.1*v, 1e-12))
	})

	It("dissipates energy: peak amplitude decays every damped period", func() {
		msd.Reset(1.0, 0.0)
		dt := 0.01
		wd := math.Sqrt(5.0/1.0 - math.Pow(0.5/2.0, 2))
		period := int(math.Round(2 * math.Pi / wd / dt))

		positions := make([]float64, 0, 6*period)
		for i := 0; i < 6*period; i++ {
			Expect(msd.ApplyForce(0, dt)).To(Succeed())
			positions = append(positions, msd.Position())
		}

		peaks := analysis.WindowPeaks(positions, period)
		Expect(peaks).To(HaveLen(6))
		for i := 1; i < len(peaks); i++ {
			Expect(peaks[i]).To(BeNumerically("<", peaks[i-1]))
		}
		Expect(msd.Energy(msd.State())).To(BeNumerically("<", 0.5*5.0*1.0))
	})

	It("advances time by exactly dt and rejects bad input", func() {
		Expect(msd.ApplyForce(0, 0.25)).To(Succeed())
		Expect(msd.Time()).To(Equal(0.25))
		Expect(msd.ApplyForce(0, 0)).To(MatchError(dynamo.ErrInvalidTimeStep))
		Expect(msd.Update(dynamo.Control{1, 2}, 0.1)).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(msd.Time()).To(Equal(0.25))
	})

	It("validates parameters in the checked constructor", func() {
		_, err := NewMassSpringDamperChecked(0, 0.5, 5)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		_, err = NewMassSpringDamperChecked(1, 0.5, 5)
		Expect(err).NotTo(HaveOccurred())
	})
})
