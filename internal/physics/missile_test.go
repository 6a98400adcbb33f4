package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/openpid/internal/dynamo"
)

var _ = Describe("Missile6DOFQuat", func() {
	var (
		missile *Missile6DOFQuat
		zero    dynamo.Control
	)

	BeforeEach(func() {
		missile = NewMissile6DOFQuat()
		zero = make(dynamo.Control, MissileInputDim)
	})

	It("resets to rest with identity attitude", func() {
		Expect(missile.SetState(make(dynamo.State, MissileStateDim))).To(Succeed())
		missile.ResetState()
		x := missile.State()
		Expect(x).To(HaveLen(13))
		Expect(missile.Attitude()).To(Equal([4]float64{1, 0, 0, 0}))
		for i, v := range x {
			if i != MissileQuatW {
				Expect(v).To(BeZero())
			}
		}
	})

	It("has only gravity in the derivative at rest", func() {
		dx, err := missile.Dynamics(missile.State(), zero)
		Expect(err).NotTo(HaveOccurred())
		for i, v := range dx {
			if i == MissileVelZ {
				Expect(v).To(Equal(-DefaultGravity))
				continue
			}
			Expect(v).To(BeZero(), "component %d", i)
		}
	})

	It("does not mutate its argument or its state", func() {
		x := missile.State()
		x[MissileRateP] = 0.4
		x[MissileQuatW] = 2
		snapshot := x.Clone()
		_, err := missile.Dynamics(x, dynamo.Control{100, 0, 0, 10, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(x).To(Equal(snapshot))
		Expect(missile.Attitude()).To(Equal([4]float64{1, 0, 0, 0}))
	})

	It("accelerates along the body axis rotated into the world frame", func() {
		x := missile.State()
		dx, err := missile.Dynamics(x, dynamo.Control{22000, 0, 0, 0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(dx[MissileVelX]).To(BeNumerically("~", 22000/2513.74, 1e-12))

		// yaw by 90°: body x points along world y
		x[MissileQuatW], x[MissileQuatZ] = math.Cos(math.Pi/4), math.Sin(math.Pi/4)
		dx, err = missile.Dynamics(x, dynamo.Control{22000, 0, 0, 0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(dx[MissileVelX]).To(BeNumerically("~", 0, 1e-9))
		Expect(dx[MissileVelY]).To(BeNumerically("~", 22000/2513.74, 1e-9))
		Expect(dx[MissileVelZ]).To(BeNumerically("~", -DefaultGravity, 1e-9))
	})

	It("propagates the quaternion as ½ q ⊗ (0, ω)", func() {
		x := missile.State()
		x[MissileRateR] = 1
		dx, err := missile.Dynamics(x, zero)
		Expect(err).NotTo(HaveOccurred())
		Expect(dx[MissileQuatW]).To(BeZero())
		Expect(dx[MissileQuatX]).To(BeZero())
		Expect(dx[MissileQuatY]).To(BeZero())
		Expect(dx[MissileQuatZ]).To(Equal(0.5))
	})

	It("solves Euler's rigid-body equation", func() {
		p := DefaultMissileParams()
		ixx, iyy := p.Inertia[0], p.Inertia[4]

		dx, err := missile.Dynamics(missile.State(), dynamo.Control{0, 0, 0, ixx, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(dx[MissileRateP]).To(BeNumerically("~", 1, 1e-12))

		x := missile.State()
		x[MissileRateP], x[MissileRateQ] = 1, 1
		dx, err = missile.Dynamics(x, zero)
		Expect(err).NotTo(HaveOccurred())
		// ω × Jω = (0, 0, Iyy - Ixx) for ω = (1, 1, 0)
		Expect(dx[MissileRateR]).To(BeNumerically("~", (ixx-iyy)/iyy, 1e-12))
		Expect(dx[MissileRateP]).To(BeNumerically("~", 0, 1e-12))
	})

	It("accepts a general inertia tensor", func() {
		p := DefaultMissileParams()
		p.Inertia = [9]float64{2, 1, 0, 1, 2, 0, 0, 0, 1}
		m, err := NewMissile6DOFQuatWith(p)
		Expect(err).NotTo(HaveOccurred())
		dx, err := m.Dynamics(m.State(), dynamo.Control{0, 0, 0, 3, 3, 0})
		Expect(err).NotTo(HaveOccurred())
		// J⁻¹ (3, 3, 0) = (1, 1, 0)
		Expect(dx[MissileRateP]).To(BeNumerically("~", 1, 1e-12))
		Expect(dx[MissileRateQ]).To(BeNumerically("~", 1, 1e-12))
		Expect(dx[MissileRateR]).To(BeNumerically("~", 0, 1e-12))
	})

	It("rejects non-physical parameters", func() {
		p := DefaultMissileParams()
		p.Inertia = [9]float64{1, 0, 0, 0, 0, 0, 0, 0, 1}
		_, err := NewMissile6DOFQuatWith(p)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))

		p = DefaultMissileParams()
		p.Mass = 0
		_, err = NewMissile6DOFQuatWith(p)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("reports dimension and attitude faults", func() {
		_, err := missile.Dynamics(make(dynamo.State, 12), zero)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		_, err = missile.Dynamics(missile.State(), dynamo.Control{1, 2, 3})
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		_, err = missile.Dynamics(make(dynamo.State, 13), zero)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))

		Expect(missile.SetState(make(dynamo.State, 13))).To(Succeed())
		Expect(missile.Update(zero, 0.01)).To(MatchError(dynamo.ErrInvalidState))
		Expect(missile.SetState(make(dynamo.State, 4))).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	Describe("quaternion drift", func() {
		var spinning dynamo.State

		BeforeEach(func() {
			spinning = missile.State()
			spinning[MissileRateP], spinning[MissileRateQ], spinning[MissileRateR] = 0.3, -0.2, 0.5
			Expect(missile.SetState(spinning)).To(Succeed())
		})

		It("stays unit-norm under the self-integrating update", func() {
			for i := 0; i < 1000; i++ {
				Expect(missile.Update(zero, 0.01)).To(Succeed())
			}
			Expect(math.Abs(QuaternionNorm(missile.State()) - 1)).To(BeNumerically("<", 1e-12))
			Expect(missile.Time()).To(BeNumerically("~", 10, 1e-9))
		})

		It("drifts when integrated externally through Dynamics", func() {
			x := spinning
			for i := 0; i < 1000; i++ {
				dx, err := missile.Dynamics(x, zero)
				Expect(err).NotTo(HaveOccurred())
				x, err = x.AddScaled(0.01, dx)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(QuaternionNorm(x)).To(BeNumerically(">", 1+1e-3))
		})
	})

	It("falls under gravity when coasting", func() {
		for i := 0; i < 100; i++ {
			Expect(missile.Update(zero, 0.05)).To(Succeed())
		}
		x := missile.State()
		Expect(x[MissileVelZ]).To(BeNumerically("~", -DefaultGravity*5, 1e-9))
		Expect(x[MissilePosZ]).To(BeNumerically("<", 0))
	})
})
