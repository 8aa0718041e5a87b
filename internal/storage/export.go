package storage

import "github.com/san-kum/isingsim/internal/ising"

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Records []ExportRecord `json:"records"`
}

type ExportRecord struct {
	Temperature      float64            `json:"temperature"`
	AvgMagnetization float64            `json:"magnetization"`
	AvgEnergy        float64            `json:"energy"`
	HeatCapacity     float64            `json:"heat_capacity"`
	Steps            int                `json:"steps"`
	Accepted         int                `json:"accepted"`
	Metrics          map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes a saved run and its records as a single JSON document.
func (s *Store) ExportJSON(path, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	records, err := s.LoadRecords(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Records: make([]ExportRecord, len(records))}
	for i, rec := range records {
		data.Records[i] = exportRecord(rec)
	}
	return writeJSON(path, data)
}

func exportRecord(rec ising.Record) ExportRecord {
	return ExportRecord{
		Temperature:      rec.Temperature,
		AvgMagnetization: rec.AvgMagnetization,
		AvgEnergy:        rec.AvgEnergy,
		HeatCapacity:     rec.HeatCapacity,
		Steps:            rec.Steps,
		Accepted:         rec.Accepted,
		Metrics:          rec.Metrics,
	}
}
