package config

import "sort"

var Presets = map[string]*Config{
	// 100x100, 1e6 trials at each of 0.2, 0.4, ..., 6.0
	"reference": DefaultConfig(),
	"quick": {
		Rows: 20, Columns: 20, Steps: 20_000, Seed: 1, Initial: InitialRandom,
		Temperature: TemperatureConfig{Start: 0.5, End: 5.0, Step: 0.5},
	},
	"critical": {
		Rows: 64, Columns: 64, Steps: 2_000_000, Seed: 1, Initial: InitialUp, BurnIn: 200_000,
		Temperature: TemperatureConfig{Start: 2.0, End: 2.6, Step: 0.05},
	},
	"cold": {
		Rows: 50, Columns: 50, Steps: 500_000, Seed: 1, Initial: InitialUp,
		Temperature: TemperatureConfig{Start: 0.2, End: 3.0, Step: 0.2},
	},
	"independent": {
		Rows: 50, Columns: 50, Steps: 500_000, Seed: 1, Initial: InitialRandom,
		BurnIn: 100_000, ResetEachTemperature: true,
		Temperature: TemperatureConfig{Start: 1.0, End: 4.0, Step: 0.25},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
