package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/isingsim/internal/ising"
)

// Config describes one sweep. Temperatures run from Start to End inclusive.
type Config struct {
	Rows    int
	Columns int
	Steps   int
	Seed    uint64

	Start float64
	End   float64
	Step  float64

	// BurnInSteps unmeasured trials precede each point. Zero measures from the first trial.
	BurnInSteps int
	// ResetEachTemperature starts every point from a fresh lattice seeded with Seed+index.
	ResetEachTemperature bool
	// OrderedStart, when non-zero, replaces the random initial lattice with an aligned one.
	OrderedStart ising.Spin
}

func (c Config) Validate() error {
	if c.Rows <= 0 || c.Columns <= 0 {
		return fmt.Errorf("%w: %dx%d", ising.ErrInvalidDimension, c.Rows, c.Columns)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: %d", ising.ErrInvalidSteps, c.Steps)
	}
	if c.BurnInSteps < 0 {
		return fmt.Errorf("%w: burn-in %d", ising.ErrInvalidSteps, c.BurnInSteps)
	}
	if c.OrderedStart != 0 && !c.OrderedStart.Valid() {
		return fmt.Errorf("ordered start: %w (got %d)", ising.ErrInvalidSpin, c.OrderedStart)
	}
	_, err := Temperatures(c.Start, c.End, c.Step)
	return err
}

type Driver struct {
	cfg       Config
	log       zerolog.Logger
	metrics   []ising.Metric
	observers []ising.Observer
	state     *State
}

type Option func(*Driver)

func WithLogger(l zerolog.Logger) Option {
	return func(d *Driver) { d.log = l }
}

func New(cfg Config, opts ...Option) *Driver {
	d := &Driver{
		cfg:       cfg,
		log:       zerolog.Nop(),
		metrics:   make([]ising.Metric, 0),
		observers: make([]ising.Observer, 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) AddMetric(m ising.Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o ising.Observer) { d.observers = append(d.observers, o) }

// State returns the chain as the last Run left it.
func (d *Driver) State() *State { return d.state }

// Run measures every temperature of the sweep in order. The context is checked
// between points; a point that has started always runs to completion.
func (d *Driver) Run(ctx context.Context) ([]ising.Record, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}
	temps, err := Temperatures(d.cfg.Start, d.cfg.End, d.cfg.Step)
	if err != nil {
		return nil, err
	}

	state, err := d.initialize(0)
	if err != nil {
		return nil, err
	}
	d.state = state

	d.log.Info().
		Int("rows", d.cfg.Rows).
		Int("columns", d.cfg.Columns).
		Int("steps", d.cfg.Steps).
		Uint64("seed", d.cfg.Seed).
		Int("points", len(temps)).
		Msg("sweep started")

	records := make([]ising.Record, 0, len(temps))
	began := time.Now()

	for i, temp := range temps {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		if d.cfg.ResetEachTemperature && i > 0 {
			if state, err = d.initialize(i); err != nil {
				return records, &TemperatureError{Index: i, Temperature: temp, Wrapped: err}
			}
			d.state = state
		}

		pointStart := time.Now()
		if d.cfg.BurnInSteps > 0 {
			if err := Thermalize(state, temp, d.cfg.BurnInSteps); err != nil {
				return records, &TemperatureError{Index: i, Temperature: temp, Wrapped: err}
			}
		}

		rec, err := RunTemperaturePoint(state, temp, d.cfg.Steps, d.metrics...)
		if err != nil {
			return records, &TemperatureError{Index: i, Temperature: temp, Wrapped: err}
		}

		d.log.Debug().
			Float64("temperature", temp).
			Float64("magnetization", rec.AvgMagnetization).
			Float64("energy", rec.AvgEnergy).
			Float64("heat_capacity", rec.HeatCapacity).
			Float64("acceptance", rec.AcceptanceRatio()).
			Dur("elapsed", time.Since(pointStart)).
			Msg("temperature point done")

		records = append(records, rec)
		for _, o := range d.observers {
			if err := o.OnRecord(rec); err != nil {
				return records, &TemperatureError{Index: i, Temperature: temp, Wrapped: err}
			}
		}
	}

	d.log.Info().Dur("elapsed", time.Since(began)).Msg("sweep finished")
	return records, nil
}

func (d *Driver) initialize(index int) (*State, error) {
	var opts []InitOption
	if d.cfg.OrderedStart != 0 {
		opts = append(opts, WithOrderedStart(d.cfg.OrderedStart))
	}
	return Initialize(d.cfg.Rows, d.cfg.Columns, d.cfg.Seed+uint64(index), opts...)
}
