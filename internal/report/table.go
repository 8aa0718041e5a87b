package report

import (
	"fmt"
	"io"

	"github.com/san-kum/isingsim/internal/ising"
)

const (
	tableHeader = "  T                           <S>                           <E>                            Cv"
	rowFormat   = "%3.1f%30.5f%30.5f%30.5f\n"
)

// Table prints one fixed-width row per record. It implements ising.Observer
// so rows appear while the sweep is still running.
type Table struct {
	w       io.Writer
	styled  bool
	perSpin int
	started bool
}

type TableOption func(*Table)

// Plain disables terminal styling of the header.
func Plain() TableOption {
	return func(t *Table) { t.styled = false }
}

// PerSpin divides magnetization, energy and heat capacity by the number of sites.
func PerSpin(sites int) TableOption {
	return func(t *Table) { t.perSpin = sites }
}

func NewTable(w io.Writer, opts ...TableOption) *Table {
	t := &Table{w: w, styled: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) writeHeader() error {
	header := tableHeader
	if t.styled {
		header = HeaderStyle.Render(header)
	}
	_, err := fmt.Fprintln(t.w, header)
	return err
}

func (t *Table) OnRecord(rec ising.Record) error {
	if !t.started {
		if err := t.writeHeader(); err != nil {
			return err
		}
		t.started = true
	}

	m, e, cv := rec.AvgMagnetization, rec.AvgEnergy, rec.HeatCapacity
	if t.perSpin > 0 {
		n := float64(t.perSpin)
		m, e, cv = m/n, e/n, cv/n
	}
	_, err := fmt.Fprintf(t.w, rowFormat, rec.Temperature, m, e, cv)
	return err
}

// WriteTable prints records in one go, header included.
func WriteTable(w io.Writer, records []ising.Record, opts ...TableOption) error {
	t := NewTable(w, opts...)
	if len(records) == 0 {
		return t.writeHeader()
	}
	for _, rec := range records {
		if err := t.OnRecord(rec); err != nil {
			return err
		}
	}
	return nil
}
