package lattice

import (
	"fmt"

	"github.com/san-kum/isingsim/internal/ising"
)

// Lattice is a rows×columns grid of spins with periodic boundaries.
// Spins live in one buffer indexed row*columns+column.
type Lattice struct {
	rows, columns int
	spins         []ising.Spin
}

// New allocates a lattice whose spins are drawn independently from rng,
// one IntN(2) per site in row-major order.
func New(rows, columns int, rng ising.Source) (*Lattice, error) {
	l, err := alloc(rows, columns)
	if err != nil {
		return nil, err
	}
	for i := range l.spins {
		l.spins[i] = ising.Spin(rng.IntN(2)*2 - 1)
	}
	return l, nil
}

// Uniform returns a fully aligned lattice.
func Uniform(rows, columns int, s ising.Spin) (*Lattice, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("uniform lattice: %w (got %d)", ising.ErrInvalidSpin, s)
	}
	l, err := alloc(rows, columns)
	if err != nil {
		return nil, err
	}
	for i := range l.spins {
		l.spins[i] = s
	}
	return l, nil
}

// FromSpins builds a lattice from explicit row-major spins. The slice is copied.
func FromSpins(rows, columns int, spins []ising.Spin) (*Lattice, error) {
	l, err := alloc(rows, columns)
	if err != nil {
		return nil, err
	}
	if len(spins) != len(l.spins) {
		return nil, fmt.Errorf("expected %d spins for %dx%d lattice, got %d", len(l.spins), rows, columns, len(spins))
	}
	for i, s := range spins {
		if !s.Valid() {
			return nil, fmt.Errorf("site %d: %w (got %d)", i, ising.ErrInvalidSpin, s)
		}
	}
	copy(l.spins, spins)
	return l, nil
}

func alloc(rows, columns int) (*Lattice, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ising.ErrInvalidDimension, rows, columns)
	}
	return &Lattice{rows: rows, columns: columns, spins: make([]ising.Spin, rows*columns)}, nil
}

func (l *Lattice) Rows() int    { return l.rows }
func (l *Lattice) Columns() int { return l.columns }
func (l *Lattice) Size() int    { return len(l.spins) }

// At returns the spin at (r, c).
func (l *Lattice) At(r, c int) ising.Spin { return l.spins[l.index(r, c)] }

// Spins returns a copy of the row-major spin buffer.
func (l *Lattice) Spins() []ising.Spin {
	out := make([]ising.Spin, len(l.spins))
	copy(out, l.spins)
	return out
}

func (l *Lattice) Clone() *Lattice {
	return &Lattice{rows: l.rows, columns: l.columns, spins: l.Spins()}
}

func (l *Lattice) index(r, c int) int { return r*l.columns + c }

func (l *Lattice) up(r int) int    { return (r - 1 + l.rows) % l.rows }
func (l *Lattice) down(r int) int  { return (r + 1) % l.rows }
func (l *Lattice) left(c int) int  { return (c - 1 + l.columns) % l.columns }
func (l *Lattice) right(c int) int { return (c + 1) % l.columns }

// TotalEnergy sums the up and left bond of every site, so each of the
// 2·rows·columns bonds is counted once.
func (l *Lattice) TotalEnergy() float64 {
	e := 0
	for r := 0; r < l.rows; r++ {
		up := l.up(r)
		for c := 0; c < l.columns; c++ {
			s := int(l.spins[l.index(r, c)])
			e -= s * int(l.spins[l.index(up, c)])
			e -= s * int(l.spins[l.index(r, l.left(c))])
		}
	}
	return float64(e)
}

func (l *Lattice) TotalMagnetization() float64 {
	m := 0
	for _, s := range l.spins {
		m += int(s)
	}
	return float64(m)
}

// NeighborSum is the sum of the four toroidal neighbors of (r, c).
func (l *Lattice) NeighborSum(r, c int) int {
	return int(l.spins[l.index(l.up(r), c)]) +
		int(l.spins[l.index(l.down(r), c)]) +
		int(l.spins[l.index(r, l.left(c))]) +
		int(l.spins[l.index(r, l.right(c))])
}

// LocalEnergyDelta is the energy change that flipping (r, c) would cause:
// 2·s·NeighborSum. Along an axis of length 1 the site is its own neighbor and
// that self-bond is unchanged by a flip, so it is left out of the sum.
func (l *Lattice) LocalEnergyDelta(r, c int) float64 {
	if l.rows > 1 && l.columns > 1 {
		return float64(2 * int(l.spins[l.index(r, c)]) * l.NeighborSum(r, c))
	}
	sum := 0
	if l.rows > 1 {
		sum += int(l.spins[l.index(l.up(r), c)]) + int(l.spins[l.index(l.down(r), c)])
	}
	if l.columns > 1 {
		sum += int(l.spins[l.index(r, l.left(c))]) + int(l.spins[l.index(r, l.right(c))])
	}
	return float64(2 * int(l.spins[l.index(r, c)]) * sum)
}

// LocalMagnetizationDelta is the magnetization change that flipping (r, c) would cause.
func (l *Lattice) LocalMagnetizationDelta(r, c int) float64 {
	return float64(-2 * int(l.spins[l.index(r, c)]))
}

// Flip negates the spin at (r, c). Cached totals held by callers are not updated.
func (l *Lattice) Flip(r, c int) {
	i := l.index(r, c)
	l.spins[i] = -l.spins[i]
}
