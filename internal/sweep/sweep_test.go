package sweep_test

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/metrics"
	"github.com/san-kum/isingsim/internal/sweep"
)

func expectConsistent(s *sweep.State) {
	GinkgoHelper()
	Expect(s.Lattice.TotalEnergy()).To(BeNumerically("~", s.Energy, 1e-9*math.Max(1, math.Abs(s.Energy))))
	Expect(s.Lattice.TotalMagnetization()).To(Equal(s.Magnetization))
}

var _ = Describe("Initialize", func() {
	It("caches the full energy and magnetization", func() {
		s, err := sweep.Initialize(12, 7, 99)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Lattice.Rows()).To(Equal(12))
		Expect(s.Lattice.Columns()).To(Equal(7))
		expectConsistent(s)
	})

	It("is reproducible from the seed", func() {
		a, _ := sweep.Initialize(10, 10, 5)
		b, _ := sweep.Initialize(10, 10, 5)
		c, _ := sweep.Initialize(10, 10, 6)
		Expect(a.Lattice.Spins()).To(Equal(b.Lattice.Spins()))
		Expect(a.Lattice.Spins()).NotTo(Equal(c.Lattice.Spins()))
	})

	It("supports an ordered start", func() {
		s, err := sweep.Initialize(4, 4, 1, sweep.WithOrderedStart(ising.Down))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Magnetization).To(Equal(-16.0))
		Expect(s.Energy).To(Equal(-32.0))
	})

	It("wraps a prepared lattice", func() {
		lat, err := lattice.FromSpins(2, 2, []ising.Spin{1, 1, 1, 1})
		Expect(err).NotTo(HaveOccurred())
		s := sweep.FromLattice(lat, sweep.NewSource(3))
		Expect(s.Energy).To(Equal(-8.0))
		Expect(s.Magnetization).To(Equal(4.0))

		_, err = sweep.RunTemperaturePoint(s, 1.0, 1_000)
		Expect(err).NotTo(HaveOccurred())
		expectConsistent(s)
	})

	It("rejects a state assembled by hand", func() {
		lat, err := lattice.Uniform(2, 2, ising.Up)
		Expect(err).NotTo(HaveOccurred())
		s := &sweep.State{Lattice: lat, Energy: lat.TotalEnergy(), Magnetization: lat.TotalMagnetization()}

		_, err = sweep.RunTemperaturePoint(s, 1.0, 10)
		Expect(err).To(MatchError(sweep.ErrUninitializedState))
		Expect(sweep.Thermalize(s, 1.0, 10)).To(MatchError(sweep.ErrUninitializedState))
		_, err = sweep.RunTemperaturePoint(nil, 1.0, 10)
		Expect(err).To(MatchError(sweep.ErrUninitializedState))
	})

	It("rejects non-positive dimensions", func() {
		_, err := sweep.Initialize(0, 3, 1)
		Expect(err).To(MatchError(ising.ErrInvalidDimension))
		_, err = sweep.Initialize(3, -1, 1)
		Expect(err).To(MatchError(ising.ErrInvalidDimension))
	})
})

var _ = Describe("RunTemperaturePoint", func() {
	It("keeps the cached totals equal to a recomputation", func() {
		s, _ := sweep.Initialize(16, 16, 11)
		for _, temp := range []float64{0.8, 2.3, 4.5} {
			rec, err := sweep.RunTemperaturePoint(s, temp, 50_000)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Temperature).To(Equal(temp))
			Expect(rec.Steps).To(Equal(50_000))
			Expect(rec.Accepted).To(BeNumerically(">", 0))
			Expect(rec.HeatCapacity).To(BeNumerically(">=", 0))
			expectConsistent(s)
		}
	})

	It("bounds the averages by the lattice size", func() {
		s, _ := sweep.Initialize(8, 8, 3)
		rec, err := sweep.RunTemperaturePoint(s, 3.0, 20_000)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.Abs(rec.AvgMagnetization)).To(BeNumerically("<=", 64))
		Expect(rec.AvgEnergy).To(BeNumerically(">=", -128))
		Expect(rec.AvgEnergy).To(BeNumerically("<=", 128))
	})

	It("is reproducible from the seed", func() {
		a, _ := sweep.Initialize(20, 20, 42)
		b, _ := sweep.Initialize(20, 20, 42)
		ra, _ := sweep.RunTemperaturePoint(a, 2.0, 30_000)
		rb, _ := sweep.RunTemperaturePoint(b, 2.0, 30_000)
		Expect(ra).To(Equal(rb))
		Expect(a.Lattice.Spins()).To(Equal(b.Lattice.Spins()))
	})

	It("rejects invalid input before touching the lattice", func() {
		s, _ := sweep.Initialize(6, 6, 8)
		before := s.Lattice.Spins()

		_, err := sweep.RunTemperaturePoint(s, 0, 100)
		Expect(err).To(MatchError(ising.ErrInvalidTemperature))
		_, err = sweep.RunTemperaturePoint(s, -1.5, 100)
		Expect(err).To(MatchError(ising.ErrInvalidTemperature))
		_, err = sweep.RunTemperaturePoint(s, 1.0, 0)
		Expect(err).To(MatchError(ising.ErrInvalidSteps))

		Expect(s.Lattice.Spins()).To(Equal(before))
	})

	It("reports attached metrics", func() {
		s, _ := sweep.Initialize(10, 10, 4)
		rate := metrics.NewAcceptanceRate()
		rec, err := sweep.RunTemperaturePoint(s, 2.5, 10_000, rate, metrics.NewAbsMagnetization(), metrics.NewSusceptibility())
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Metrics).To(HaveKey("abs_magnetization"))
		Expect(rec.Metrics).To(HaveKey("susceptibility"))
		Expect(rec.Metrics["acceptance_rate"]).To(BeNumerically("~", rec.AcceptanceRatio(), 1e-12))
	})

	It("aligns almost completely at low temperature", func() {
		if testing.Short() {
			Skip("long run")
		}
		s, err := sweep.Initialize(100, 100, 2024, sweep.WithOrderedStart(ising.Up))
		Expect(err).NotTo(HaveOccurred())
		rec, err := sweep.RunTemperaturePoint(s, 0.2, 1_000_000)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.Abs(rec.AvgMagnetization) / 10000).To(BeNumerically(">", 0.9))
		expectConsistent(s)
	})

	It("stays disordered at high temperature", func() {
		s, _ := sweep.Initialize(20, 20, 77)
		rec, err := sweep.RunTemperaturePoint(s, 6.0, 200_000)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.Abs(rec.AvgMagnetization) / 400).To(BeNumerically("<", 0.2))
	})
})

var _ = Describe("Driver", func() {
	var cfg sweep.Config

	BeforeEach(func() {
		cfg = sweep.Config{
			Rows:    12,
			Columns: 12,
			Steps:   5_000,
			Seed:    17,
			Start:   1.0,
			End:     3.0,
			Step:    0.5,
		}
	})

	It("emits one record per temperature in order", func() {
		var seen []float64
		d := sweep.New(cfg)
		d.AddObserver(ising.ObserverFunc(func(rec ising.Record) error {
			seen = append(seen, rec.Temperature)
			return nil
		}))

		records, err := d.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(5))
		Expect(seen).To(Equal([]float64{1.0, 1.5, 2.0, 2.5, 3.0}))
		expectConsistent(d.State())
	})

	It("carries the lattice from one temperature to the next", func() {
		records, err := sweep.New(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		s, _ := sweep.Initialize(cfg.Rows, cfg.Columns, cfg.Seed)
		temps, _ := sweep.Temperatures(cfg.Start, cfg.End, cfg.Step)
		for i, temp := range temps {
			rec, err := sweep.RunTemperaturePoint(s, temp, cfg.Steps)
			Expect(err).NotTo(HaveOccurred())
			Expect(records[i]).To(Equal(rec))
		}
	})

	It("can restart every temperature from a fresh lattice", func() {
		cfg.ResetEachTemperature = true
		records, err := sweep.New(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for i, temp := range []float64{1.0, 1.5, 2.0, 2.5, 3.0} {
			s, _ := sweep.Initialize(cfg.Rows, cfg.Columns, cfg.Seed+uint64(i))
			rec, err := sweep.RunTemperaturePoint(s, temp, cfg.Steps)
			Expect(err).NotTo(HaveOccurred())
			Expect(records[i]).To(Equal(rec))
		}
	})

	It("does not count burn-in trials", func() {
		cfg.BurnInSteps = 2_000
		records, err := sweep.New(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		for _, rec := range records {
			Expect(rec.Steps).To(Equal(cfg.Steps))
		}
	})

	It("rejects an invalid configuration", func() {
		bad := cfg
		bad.Rows = 0
		_, err := sweep.New(bad).Run(context.Background())
		Expect(err).To(MatchError(ising.ErrInvalidDimension))

		bad = cfg
		bad.Steps = 0
		_, err = sweep.New(bad).Run(context.Background())
		Expect(err).To(MatchError(ising.ErrInvalidSteps))

		bad = cfg
		bad.Start = 0
		_, err = sweep.New(bad).Run(context.Background())
		Expect(err).To(MatchError(ising.ErrInvalidTemperature))
	})

	It("wraps observer failures with the temperature", func() {
		boom := errors.New("sink closed")
		d := sweep.New(cfg)
		d.AddObserver(ising.ObserverFunc(func(rec ising.Record) error {
			if rec.Temperature > 1.9 {
				return boom
			}
			return nil
		}))

		records, err := d.Run(context.Background())
		Expect(err).To(MatchError(boom))
		var te *sweep.TemperatureError
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(te.Index).To(Equal(2))
		Expect(te.Temperature).To(Equal(2.0))
		Expect(records).To(HaveLen(3))
	})

	It("stops between points when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		d := sweep.New(cfg)
		d.AddObserver(ising.ObserverFunc(func(ising.Record) error {
			cancel()
			return nil
		}))

		records, err := d.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(records).To(HaveLen(1))
	})
})
