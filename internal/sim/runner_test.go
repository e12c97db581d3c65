package sim

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamics"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

type nanController struct{ after float64 }

func (c *nanController) Name() string { return "NaN" }

func (c *nanController) Control(x dynamo.State, m *vehicle.Mission, dt float64) dynamo.GncCommand {
	if x.Time >= c.after {
		return dynamo.GncCommand{GimbalY: math.NaN()}
	}
	return dynamo.GncCommand{}
}

type faultyEOM struct{ after float64 }

func (f *faultyEOM) Derive(x dynamo.State, cmd dynamo.GncCommand) (dynamo.Derivative, error) {
	if x.Time >= f.after {
		return dynamo.Derivative{DTime: 1}, dynamo.ErrInvalidConfig
	}
	return dynamo.Derivative{DTime: 1}, nil
}

type tickCounter struct{ n float64 }

func (c *tickCounter) Name() string                                        { return "ticks" }
func (c *tickCounter) Observe(prev, cur dynamo.State, _ dynamo.GncCommand) { c.n++ }
func (c *tickCounter) Value() float64                                      { return c.n }
func (c *tickCounter) Reset()                                              { c.n = 0 }

func pathfinder() *vehicle.Mission {
	m, err := vehicle.Preset("pathfinder")
	Expect(err).NotTo(HaveOccurred())
	return m
}

// flightConfig runs full flights to landing with a step fine enough for
// the rate damping during re-entry.
func flightConfig() dynamo.Config {
	return dynamo.Config{Dt: 0.002, MaxTime: 1500}
}

var _ = Describe("Runner", func() {
	Describe("a guided two-stage flight", Ordered, func() {
		var (
			m      *vehicle.Mission
			result *Result
		)

		BeforeAll(func() {
			m = pathfinder()
			r := New(m, control.NewTVCController(m), WithDetector(NewAltitudeDetector(1000)))
			var err error
			result, err = r.Run(context.Background(), flightConfig())
			Expect(err).NotTo(HaveOccurred())
		})

		It("lands without error", func() {
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(OutcomeLanded))
			Expect(result.Complete()).To(BeTrue())
			Expect(result.Final().Altitude()).To(BeNumerically("==", 0))
			Expect(result.Mission).To(Equal("Pathfinder"))
			Expect(result.Controller).To(Equal("TVCController"))
		})

		It("records the initial state with a zero command", func() {
			Expect(result.States).To(HaveLen(len(result.Commands)))
			Expect(result.States).To(HaveLen(result.StepsTaken + 1))
			Expect(result.States[0].Mass).To(BeNumerically("~", m.TotalMass(), 1e-12))
			Expect(result.Commands[0]).To(Equal(dynamo.GncCommand{}))
		})

		It("burns mass monotonically and drops the spent stage at staging", func() {
			s1, _ := m.Stage(0)
			maxBurn := s1.MassFlow() * result.Dt
			for i := 1; i < len(result.States); i++ {
				prev, cur := result.States[i-1], result.States[i]
				drop := prev.Mass - cur.Mass
				Expect(drop).To(BeNumerically(">=", 0), "mass rose at t=%.3f", cur.Time)
				if cur.Stage != prev.Stage {
					Expect(drop - s1.DryMass).To(BeNumerically(">=", -1e-9))
					Expect(drop - s1.DryMass).To(BeNumerically("<=", maxBurn+dynamics.PropellantReserve+1e-9))
				} else {
					Expect(drop).To(BeNumerically("<=", maxBurn+1e-9))
				}
			}
		})

		It("keeps the attitude quaternion normalized", func() {
			for _, x := range result.States {
				Expect(math.Abs(x.Att.Len() - 1)).To(BeNumerically("<", 1e-9))
			}
		})

		It("stages exactly once with monotone stage indices", func() {
			staging := result.EventsOf(EventStaging)
			Expect(staging).To(HaveLen(1))
			Expect(staging[0].Stage).To(Equal(0))
			Expect(staging[0].ToStage).To(Equal(1))

			burnouts := result.EventsOf(EventBurnout)
			Expect(burnouts).To(HaveLen(2))
			Expect(burnouts[0].Stage).To(Equal(0))
			Expect(burnouts[1].Stage).To(Equal(1))
			Expect(burnouts[0].Time).To(BeNumerically("<=", staging[0].Time))

			for i := 1; i < len(result.States); i++ {
				Expect(result.States[i].Stage).To(BeNumerically(">=", result.States[i-1].Stage))
			}
			Expect(result.Final().Stage).To(Equal(1))
		})

		It("detects apogee at the vertical speed sign change", func() {
			liftoff, ok := result.FirstEvent(EventLiftoff)
			Expect(ok).To(BeTrue())
			landing, ok := result.FirstEvent(EventLanding)
			Expect(ok).To(BeTrue())

			apogees := result.EventsOf(EventApogee)
			Expect(apogees).To(HaveLen(1))
			apogee := apogees[0]
			Expect(apogee.Time).To(BeNumerically(">", liftoff.Time))
			Expect(apogee.Time).To(BeNumerically("<", landing.Time))

			var maxAlt float64
			for i, x := range result.States {
				maxAlt = math.Max(maxAlt, x.Altitude())
				if x.Time == apogee.Time {
					Expect(x.VerticalSpeed()).To(BeNumerically("<=", 0))
					Expect(result.States[i-1].VerticalSpeed()).To(BeNumerically(">", 0))
				}
			}
			Expect(apogee.Altitude).To(BeNumerically("~", maxAlt, 1))
		})

		It("orders the flight events", func() {
			Expect(result.Events[0].Kind).To(Equal(EventLiftoff))
			Expect(result.Events[len(result.Events)-1].Kind).To(Equal(EventLanding))
			for i := 1; i < len(result.Events); i++ {
				Expect(result.Events[i].Time).To(BeNumerically(">=", result.Events[i-1].Time))
			}
		})

		It("fires each altitude marker once", func() {
			markers := result.EventsOf(EventAltitude)
			Expect(markers).To(HaveLen(1))
			Expect(markers[0].Label).To(Equal("1000m"))
			Expect(markers[0].Altitude).To(BeNumerically(">=", 1000))
		})
	})

	It("reproduces the ballistic parabola in vacuum", func() {
		m, err := vehicle.NewMission("Drop").
			Stage(vehicle.NewStage("Ballast").Thrust(0).Propellant(0).Cd(0).Area(0)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		cfg := dynamo.DefaultConfig()
		cfg.InitialAltitude = 1000
		cfg.MaxTime = 60

		result, err := New(m, control.NewZero()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeLanded))
		Expect(result.EventsOf(EventBurnout)).To(HaveLen(1))
		Expect(result.EventsOf(EventStaging)).To(BeEmpty())
		Expect(result.EventsOf(EventApogee)).To(BeEmpty())
		Expect(result.EventsOf(EventLiftoff)).To(BeEmpty())

		for _, x := range result.States[:len(result.States)-1] {
			want := 1000 - 0.5*physics.G0*x.Time*x.Time
			Expect(x.Altitude()).To(BeNumerically("~", want, 0.5))
			Expect(x.Pos.X()).To(BeZero())
			Expect(x.Pos.Y()).To(BeZero())
		}

		landing, _ := result.FirstEvent(EventLanding)
		Expect(landing.Time).To(BeNumerically("~", math.Sqrt(2000/physics.G0), 0.05))
	})

	It("flies an unguided ascent straight up with the zero controller", func() {
		m := pathfinder()
		result, err := New(m, control.NewZero()).Run(context.Background(), flightConfig())
		Expect(err).NotTo(HaveOccurred())

		apogee, ok := result.FirstEvent(EventApogee)
		Expect(ok).To(BeTrue())
		for _, x := range result.States {
			if x.Time > apogee.Time {
				break
			}
			Expect(x.Omega.Len()).To(BeNumerically("<", 1e-12))
			Expect(math.Abs(x.Pos.X())).To(BeNumerically("<", 1e-9))
			Expect(math.Abs(x.Pos.Y())).To(BeNumerically("<", 1e-9))
		}
		Expect(result.Outcome).To(Equal(OutcomeLanded))
	})

	It("aborts on a non-finite command and keeps the last valid state", func() {
		m := pathfinder()
		result, err := New(m, &nanController{after: 1}).Run(context.Background(), flightConfig())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Outcome).To(Equal(OutcomeAborted))
		Expect(result.Complete()).To(BeFalse())
		Expect(errors.Is(result.Err, dynamo.ErrInvalidCommand)).To(BeTrue())

		var simErr *dynamo.SimulationError
		Expect(errors.As(result.Err, &simErr)).To(BeTrue())
		Expect(simErr.State.IsValid()).To(BeTrue())
		Expect(simErr.Time).To(BeNumerically("~", 1, 0.01))
		Expect(result.Final()).To(Equal(simErr.State))
	})

	It("aborts on an equations of motion fault", func() {
		m := pathfinder()
		result, err := New(m, control.NewZero(), WithEOM(&faultyEOM{after: 0.5})).Run(context.Background(), flightConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeAborted))
		Expect(errors.Is(result.Err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})

	It("stops at the time limit without an error", func() {
		m := pathfinder()
		cfg := dynamo.DefaultConfig()
		cfg.MaxTime = 5

		r := New(m, control.NewTVCController(m))
		counter := &tickCounter{}
		r.AddMetric(counter)

		result, err := r.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeTimeLimit))
		Expect(result.Complete()).To(BeFalse())
		Expect(result.Err).NotTo(HaveOccurred())
		Expect(result.Final().Time).To(BeNumerically("~", 5, cfg.Dt))
		Expect(result.Metrics).To(HaveKeyWithValue("ticks", float64(result.StepsTaken)))
	})

	It("rejects an invalid config", func() {
		m := pathfinder()
		for _, cfg := range []dynamo.Config{{Dt: 0, MaxTime: 10}, {Dt: 0.01, MaxTime: -1}} {
			_, err := New(m, control.NewZero()).Run(context.Background(), cfg)
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		}
	})

	It("returns a partial result when the context is canceled", func() {
		m := pathfinder()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := New(m, control.NewZero()).Run(ctx, flightConfig())
		Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(result.Outcome).To(Equal(OutcomeCanceled))
		Expect(result.States).To(HaveLen(1))
	})

	It("accepts an alternative integrator", func() {
		m := pathfinder()
		cfg := dynamo.DefaultConfig()
		cfg.MaxTime = 3

		euler := integrators.NewEuler[dynamo.State, dynamo.Derivative]()
		a, err := New(m, control.NewZero(), WithIntegrator(euler)).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := New(m, control.NewZero()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Final().Altitude()).To(BeNumerically("~", b.Final().Altitude(), 1))
		Expect(a.Final().Mass).To(BeNumerically("~", b.Final().Mass, 1e-6))
	})

	It("holds the vehicle on the pad until thrust exceeds weight", func() {
		m, err := vehicle.NewMission("Underpowered").
			Stage(vehicle.NewStage("Weak").Thrust(10)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		cfg := dynamo.DefaultConfig()
		cfg.MaxTime = 2
		result, err := New(m, control.NewZero()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Final().Altitude()).To(BeNumerically("==", 0))
		Expect(result.EventsOf(EventLiftoff)).To(BeEmpty())
		Expect(result.Final().Mass).To(BeNumerically("<", m.TotalMass()))
	})
})

var _ = Describe("Staging bookkeeping", func() {
	It("never jettisons the final stage", func() {
		m, err := vehicle.NewMission("Hop").
			Stage(vehicle.NewStage("Only").Thrust(2000).Propellant(1)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		result, err := New(m, control.NewZero()).Run(context.Background(), flightConfig())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.EventsOf(EventStaging)).To(BeEmpty())
		Expect(result.EventsOf(EventBurnout)).To(HaveLen(1))
		s, _ := m.Stage(0)
		Expect(result.Final().Mass).To(BeNumerically("~", s.DryMass, dynamics.PropellantReserve+s.MassFlow()*0.002))
		Expect(result.Final().Stage).To(Equal(0))
	})

	It("stages past a stage that produces no thrust", func() {
		m, err := vehicle.NewMission("Inert").
			Stage(vehicle.NewStage("Ballast").Thrust(0).Propellant(5)).
			Stage(vehicle.NewStage("Upper").Thrust(2000).Propellant(1)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		cfg := dynamo.Config{Dt: 0.01, MaxTime: 20}
		result, err := New(m, control.NewZero()).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())

		staging := result.EventsOf(EventStaging)
		Expect(staging).To(HaveLen(1))
		Expect(staging[0].Time).To(BeNumerically("~", cfg.Dt, 1e-9))
		Expect(staging[0].ToStage).To(Equal(1))

		ballast, _ := m.Stage(0)
		Expect(result.States[1].Mass).To(BeNumerically("~", m.TotalMass()-ballast.TotalMass(), 1e-9))
		Expect(result.EventsOf(EventLiftoff)).To(HaveLen(1))
		Expect(result.Final().Stage).To(Equal(1))
	})

	It("burns out a stage when its burn time elapses", func() {
		s := vehicle.Stage{Thrust: 1000, Isp: 200, PropellantMass: 10}
		burn := s.BurnTime()

		Expect(spent(s, burn/2, 5)).To(BeFalse())
		Expect(spent(s, burn, 5)).To(BeTrue())
		Expect(spent(s, 0, dynamics.PropellantReserve)).To(BeTrue())
		Expect(spent(vehicle.Stage{PropellantMass: 10}, 0, 10)).To(BeTrue())
	})
})
