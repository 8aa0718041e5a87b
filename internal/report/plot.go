package report

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/isingsim/internal/ising"
)

type Observable string

const (
	Magnetization    Observable = "magnetization"
	AbsMagnetization Observable = "abs_magnetization"
	Energy           Observable = "energy"
	HeatCapacity     Observable = "heat_capacity"
	Acceptance       Observable = "acceptance"
)

var observableAliases = map[string]Observable{
	"m":                 Magnetization,
	"s":                 Magnetization,
	"magnetization":     Magnetization,
	"abs":               AbsMagnetization,
	"abs_magnetization": AbsMagnetization,
	"e":                 Energy,
	"energy":            Energy,
	"cv":                HeatCapacity,
	"heat_capacity":     HeatCapacity,
	"acc":               Acceptance,
	"acceptance":        Acceptance,
}

func ParseObservable(s string) (Observable, error) {
	o, ok := observableAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown observable: %s (want m, abs, e, cv or acc)", s)
	}
	return o, nil
}

// Value extracts o from rec. AbsMagnetization falls back to |<M>| when the
// record carries no abs_magnetization metric.
func (o Observable) Value(rec ising.Record) float64 {
	switch o {
	case Magnetization:
		return rec.AvgMagnetization
	case AbsMagnetization:
		if v, ok := rec.Metrics[string(AbsMagnetization)]; ok {
			return v
		}
		if rec.AvgMagnetization < 0 {
			return -rec.AvgMagnetization
		}
		return rec.AvgMagnetization
	case Energy:
		return rec.AvgEnergy
	case HeatCapacity:
		return rec.HeatCapacity
	case Acceptance:
		return rec.AcceptanceRatio()
	default:
		return 0
	}
}

// Plot charts o across the sweep; the x axis is the temperature index.
func Plot(records []ising.Record, o Observable, width, height int) string {
	if len(records) == 0 {
		return ""
	}

	data := make([]float64, len(records))
	for i, rec := range records {
		data[i] = o.Value(rec)
	}

	caption := fmt.Sprintf("%s vs T (%.2f .. %.2f)", o, records[0].Temperature, records[len(records)-1].Temperature)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
