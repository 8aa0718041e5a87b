package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/sweep"
)

const (
	metadataFile = "metadata.json"
	resultsFile  = "results.csv"
)

var baseColumns = []string{"temperature", "magnetization", "energy", "heat_capacity", "steps", "accepted"}

// Store keeps one directory per sweep under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                   string        `json:"id"`
	Timestamp            time.Time     `json:"timestamp"`
	Rows                 int           `json:"rows"`
	Columns              int           `json:"columns"`
	Steps                int           `json:"steps"`
	Seed                 uint64        `json:"seed"`
	TempStart            float64       `json:"temp_start"`
	TempEnd              float64       `json:"temp_end"`
	TempStep             float64       `json:"temp_step"`
	BurnIn               int           `json:"burn_in"`
	ResetEachTemperature bool          `json:"reset_each_temperature"`
	OrderedStart         int           `json:"ordered_start"`
	Points               int           `json:"points"`
	Elapsed              time.Duration `json:"elapsed_ns"`
	Metrics              []string      `json:"metrics,omitempty"`
}

func newRunID() string {
	return fmt.Sprintf("sweep_%s_%s", time.Now().Format("20060102-150405"), strings.Split(uuid.New().String(), "-")[0])
}

// Save writes the sweep's metadata and one CSV row per record and returns the run ID.
func (s *Store) Save(cfg sweep.Config, records []ising.Record, elapsed time.Duration) (string, error) {
	runID := newRunID()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	names := metricNames(records)
	meta := RunMetadata{
		ID:                   runID,
		Timestamp:            time.Now(),
		Rows:                 cfg.Rows,
		Columns:              cfg.Columns,
		Steps:                cfg.Steps,
		Seed:                 cfg.Seed,
		TempStart:            cfg.Start,
		TempEnd:              cfg.End,
		TempStep:             cfg.Step,
		BurnIn:               cfg.BurnInSteps,
		ResetEachTemperature: cfg.ResetEachTemperature,
		OrderedStart:         int(cfg.OrderedStart),
		Points:               len(records),
		Elapsed:              elapsed,
		Metrics:              names,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeRecords(filepath.Join(runDir, resultsFile), records, names); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecords(path string, records []ising.Record, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append(append([]string{}, baseColumns...), names...)); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			formatFloat(rec.Temperature),
			formatFloat(rec.AvgMagnetization),
			formatFloat(rec.AvgEnergy),
			formatFloat(rec.HeatCapacity),
			strconv.Itoa(rec.Steps),
			strconv.Itoa(rec.Accepted),
		}
		for _, name := range names {
			row = append(row, formatFloat(rec.Metrics[name]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func metricNames(records []ising.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Metrics {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reads back the records of a saved run.
func (s *Store) LoadRecords(runID string) ([]ising.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, resultsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("run %s: empty results file", runID)
	}

	header := rows[0]
	if len(header) < len(baseColumns) {
		return nil, fmt.Errorf("run %s: unexpected header %v", runID, header)
	}
	names := header[len(baseColumns):]

	records := make([]ising.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRecord(row, names)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(row []string, names []string) (ising.Record, error) {
	var (
		rec  ising.Record
		vals [4]float64
		err  error
	)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(row[i], 64); err != nil {
			return rec, err
		}
	}
	rec.Temperature, rec.AvgMagnetization, rec.AvgEnergy, rec.HeatCapacity = vals[0], vals[1], vals[2], vals[3]

	if rec.Steps, err = strconv.Atoi(row[4]); err != nil {
		return rec, err
	}
	if rec.Accepted, err = strconv.Atoi(row[5]); err != nil {
		return rec, err
	}

	rec.Metrics = make(map[string]float64, len(names))
	for j, name := range names {
		v, err := strconv.ParseFloat(row[len(baseColumns)+j], 64)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", name, err)
		}
		rec.Metrics[name] = v
	}
	return rec, nil
}
