package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/sweep"
)

const (
	DefaultRows      = 100
	DefaultColumns   = 100
	DefaultSteps     = 1_000_000
	DefaultSeed      = 1
	DefaultTempStart = 0.2
	DefaultTempEnd   = 6.0
	DefaultTempStep  = 0.2
)

// Initial lattice choices.
const (
	InitialRandom = "random"
	InitialUp     = "up"
	InitialDown   = "down"
)

type Config struct {
	Rows                 int               `yaml:"rows"`
	Columns              int               `yaml:"columns"`
	Steps                int               `yaml:"steps"`
	Seed                 uint64            `yaml:"seed"`
	Initial              string            `yaml:"initial"`
	BurnIn               int               `yaml:"burn_in"`
	ResetEachTemperature bool              `yaml:"reset_each_temperature"`
	Temperature          TemperatureConfig `yaml:"temperature"`
}

type TemperatureConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Step  float64 `yaml:"step"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:    DefaultRows,
		Columns: DefaultColumns,
		Steps:   DefaultSteps,
		Seed:    DefaultSeed,
		Initial: InitialRandom,
		Temperature: TemperatureConfig{
			Start: DefaultTempStart,
			End:   DefaultTempEnd,
			Step:  DefaultTempStep,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	sc, err := c.Sweep()
	if err != nil {
		return err
	}
	return sc.Validate()
}

// Sweep converts the file form into the driver configuration.
func (c *Config) Sweep() (sweep.Config, error) {
	var ordered ising.Spin
	switch c.Initial {
	case "", InitialRandom:
	case InitialUp:
		ordered = ising.Up
	case InitialDown:
		ordered = ising.Down
	default:
		return sweep.Config{}, fmt.Errorf("unknown initial lattice %q (want %s, %s or %s)", c.Initial, InitialRandom, InitialUp, InitialDown)
	}

	return sweep.Config{
		Rows:                 c.Rows,
		Columns:              c.Columns,
		Steps:                c.Steps,
		Seed:                 c.Seed,
		Start:                c.Temperature.Start,
		End:                  c.Temperature.End,
		Step:                 c.Temperature.Step,
		BurnInSteps:          c.BurnIn,
		ResetEachTemperature: c.ResetEachTemperature,
		OrderedStart:         ordered,
	}, nil
}
