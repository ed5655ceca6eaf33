package propagation_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/soypat/geometry/md3"

	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/san-kum/orbitprop/internal/propagation"
)

const mu = orbit.EarthMu

func stateFrom(el elements.Classical) orbit.State {
	s, err := elements.ClassicalToState(el, mu)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func run(kind string, s orbit.State, tf, step float64) *orbit.History {
	p, err := propagation.New(kind, propagation.DefaultOptions())
	Expect(err).NotTo(HaveOccurred())
	Expect(p.Configure(s, tf, step)).To(Succeed())
	Expect(p.Propagate(context.Background())).To(Succeed())
	Expect(p.Phase()).To(Equal(propagation.Propagated))
	return p.History()
}

func relDiff(a, b md3.Vec) float64 {
	return md3.Norm(md3.Sub(a, b)) / md3.Norm(b)
}

func expectConserved(h *orbit.History, initial orbit.State) {
	e0 := initial.SpecificEnergy()
	h0 := initial.AngularMomentum()
	for _, sm := range h.Samples() {
		st := sm.State(initial.Mu)
		Expect(math.Abs(st.SpecificEnergy()-e0)/math.Abs(e0)).To(BeNumerically("<", 1e-6), "energy at t=%g", sm.Time)
		Expect(relDiff(st.AngularMomentum(), h0)).To(BeNumerically("<", 1e-6), "angular momentum at t=%g", sm.Time)
	}
}

var _ = Describe("Two-body propagation", func() {
	for _, kind := range propagation.Kinds() {
		kind := kind

		Context("with the "+kind+" propagator", func() {
			It("returns a circular LEO to its initial state after one period", func() {
				el := elements.Classical{SemiMajorAxis: 7e6}
				s := stateFrom(el)
				period, err := elements.Period(el.SemiMajorAxis, mu)
				Expect(err).NotTo(HaveOccurred())
				Expect(period).To(BeNumerically("~", 5828.5, 0.1))

				h := run(kind, s, period, 0)
				Expect(h.Len()).To(Equal(propagation.DefaultStepDivisor + 1))

				last := h.Last()
				Expect(last.Time).To(BeNumerically("~", period, 1e-6))
				Expect(relDiff(last.Position, s.Position)).To(BeNumerically("<", 1e-6))
				Expect(relDiff(last.Velocity, s.Velocity)).To(BeNumerically("<", 1e-6))
				expectConserved(h, s)
			})

			It("reaches apoapsis of an eccentric orbit after half a period", func() {
				el := elements.Classical{SemiMajorAxis: 1e7, Eccentricity: 0.1, RAAN: 0.3, ArgPeriapsis: 0.5, Inclination: 0.4}
				s := stateFrom(el)
				period, err := elements.Period(el.SemiMajorAxis, mu)
				Expect(err).NotTo(HaveOccurred())

				h := run(kind, s, period/2, 0)
				final, err := elements.StateToClassical(h.Last().State(mu))
				Expect(err).NotTo(HaveOccurred())

				Expect(final.TrueAnomaly).To(BeNumerically("~", math.Pi, 1e-6))
				Expect(md3.Norm(h.Last().Position)).To(BeNumerically("~", el.SemiMajorAxis*(1+el.Eccentricity), 1e-6*el.SemiMajorAxis))
				Expect(final.RAAN).To(BeNumerically("~", el.RAAN, 1e-9))
				Expect(final.Inclination).To(BeNumerically("~", el.Inclination, 1e-9))
				expectConserved(h, s)
			})

			It("speeds up monotonically on an inbound hyperbolic leg", func() {
				el := elements.Classical{SemiMajorAxis: -8e6, Eccentricity: 1.5, RAAN: 1.0, ArgPeriapsis: 0.2, Inclination: 0.3, TrueAnomaly: -2}
				s := stateFrom(el)

				h := run(kind, s, 1000, 10)
				Expect(h.Len()).To(Equal(101))

				samples := h.Samples()
				for i := 1; i < len(samples); i++ {
					Expect(md3.Norm(samples[i].Velocity)).To(BeNumerically(">", md3.Norm(samples[i-1].Velocity)), "sample %d", i)
				}
				expectConserved(h, s)
			})

			DescribeTable("converges when one step spans a large arc",
				func(el elements.Classical, step float64) {
					s := stateFrom(el)
					h := run(kind, s, s.Epoch+step, step)
					Expect(h.Len()).To(Equal(2))
					expectConserved(h, s)
				},
				Entry("hyperbolic, e=1.5", elements.Classical{SemiMajorAxis: -8e6, Eccentricity: 1.5, Inclination: 0.3}, 1e5),
				Entry("elliptic, e=0.99", elements.Classical{SemiMajorAxis: 2e7, Eccentricity: 0.99, Inclination: 0.3}, 7000.0),
				Entry("elliptic, e=0.9", elements.Classical{SemiMajorAxis: 2e7, Eccentricity: 0.9, Inclination: 0.3}, 3e4),
			)
		})
	}

	It("agrees across strategies after a single coarse hyperbolic step", func() {
		s := stateFrom(elements.Classical{SemiMajorAxis: -8e6, Eccentricity: 1.5, Inclination: 0.3})
		u := run(propagation.KindUniversal, s, s.Epoch+1e5, 1e5)
		c := run(propagation.KindClassical, s, s.Epoch+1e5, 1e5)
		Expect(relDiff(u.Last().Position, c.Last().Position)).To(BeNumerically("<", 1e-6))
		Expect(relDiff(u.Last().Velocity, c.Last().Velocity)).To(BeNumerically("<", 1e-6))
	})

	It("keeps the two strategies in agreement on an elliptic orbit", func() {
		el := elements.Classical{SemiMajorAxis: 1e7, Eccentricity: 0.3, RAAN: 0.3, ArgPeriapsis: 0.5, Inclination: 0.4, TrueAnomaly: 1}
		s := stateFrom(el)
		period, err := elements.Period(el.SemiMajorAxis, mu)
		Expect(err).NotTo(HaveOccurred())

		u := run(propagation.KindUniversal, s, 1.5*period, period/200)
		c := run(propagation.KindClassical, s, 1.5*period, period/200)
		Expect(u.Len()).To(Equal(c.Len()))

		for i := 0; i < u.Len(); i++ {
			us, cs := u.At(i), c.At(i)
			Expect(us.Time).To(Equal(cs.Time))
			Expect(relDiff(us.Position, cs.Position)).To(BeNumerically("<", 1e-6), "position at t=%g", us.Time)
			Expect(relDiff(us.Velocity, cs.Velocity)).To(BeNumerically("<", 1e-6), "velocity at t=%g", us.Time)
		}
	})

	It("does not diverge on a near-parabolic orbit with the universal propagator", func() {
		rp, e := 7e6, 0.999999
		el := elements.Classical{SemiMajorAxis: rp / (1 - e), Eccentricity: e, Inclination: 0.2}
		s := stateFrom(el)

		h := run(propagation.KindUniversal, s, 20000, 100)
		Expect(h.Len()).To(Equal(201))

		scale := mu / rp
		h0 := s.AngularMomentum()
		prev := rp
		for _, sm := range h.Samples()[1:] {
			st := sm.State(mu)
			Expect(st.Validate()).To(Succeed())
			Expect(math.Abs(st.SpecificEnergy() - s.SpecificEnergy())).To(BeNumerically("<", 1e-9*scale))
			Expect(relDiff(st.AngularMomentum(), h0)).To(BeNumerically("<", 1e-9))
			Expect(st.Radius()).To(BeNumerically(">", prev))
			prev = st.Radius()
		}
	})

	It("returns the initial state when final time equals the epoch", func() {
		s := stateFrom(elements.Classical{SemiMajorAxis: 7e6, Eccentricity: 0.01, Inclination: 0.5})
		h := run(propagation.KindUniversal, s, s.Epoch, 0)
		Expect(h.Len()).To(Equal(1))
		Expect(h.At(0)).To(Equal(s.Sample()))
	})
})
