package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/isingsim/internal/config"
	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/metrics"
	"github.com/san-kum/isingsim/internal/storage"
	"github.com/san-kum/isingsim/internal/sweep"
)

// Scenario is a scripted list of sweeps.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun starts from a preset (or the defaults) and overlays Sweep on it.
type ScenarioRun struct {
	Name    string    `yaml:"name"`
	Preset  string    `yaml:"preset"`
	Sweep   yaml.Node `yaml:"sweep"`
	Metrics bool      `yaml:"metrics"`
}

// Resolve builds the sweep configuration of one run.
func (r *ScenarioRun) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		if cfg = config.GetPreset(r.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", r.Preset, config.ListPresets())
		}
	}
	if !r.Sweep.IsZero() {
		if err := r.Sweep.Decode(cfg); err != nil {
			return nil, fmt.Errorf("sweep overrides: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %q has no runs", scenario.Name)
	}
	return &scenario, nil
}

// Outcome is the result of one scenario run. RunID is empty when nothing was stored.
type Outcome struct {
	Name    string
	RunID   string
	Records []ising.Record
	Elapsed time.Duration
}

type Options struct {
	Store     *storage.Store
	Logger    zerolog.Logger
	Observers func(run string, cfg sweep.Config) []ising.Observer
}

// RunScenario executes every run in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i := range scenario.Runs {
		run := &scenario.Runs[i]
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}

		cfg, err := run.Resolve()
		if err != nil {
			return outcomes, fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}
		sc, err := cfg.Sweep()
		if err != nil {
			return outcomes, fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}

		opts.Logger.Info().Str("scenario", scenario.Name).Str("run", name).
			Int("index", i+1).Int("total", len(scenario.Runs)).Msg("starting run")

		d := sweep.New(sc, sweep.WithLogger(opts.Logger.With().Str("run", name).Logger()))
		if run.Metrics {
			d.AddMetric(metrics.NewAbsMagnetization())
			d.AddMetric(metrics.NewSusceptibility())
			d.AddMetric(metrics.NewAcceptanceRate())
		}
		if opts.Observers != nil {
			for _, o := range opts.Observers(name, sc) {
				d.AddObserver(o)
			}
		}

		began := time.Now()
		records, err := d.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}
		out := Outcome{Name: name, Records: records, Elapsed: time.Since(began)}

		if opts.Store != nil {
			if out.RunID, err = opts.Store.Save(sc, records, out.Elapsed); err != nil {
				return outcomes, fmt.Errorf("run %d (%s) save: %w", i+1, name, err)
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}
