package perturb

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/orbitprop/internal/orbit"
	"gonum.org/v1/gonum/mat"
)

// Table is an immutable coefficient grid, e.g. gravity-field C/S
// coefficients indexed by degree and order.
type Table struct {
	m *mat.Dense
}

// LoadTable reads a comma-separated numeric grid from path. The file is
// closed before LoadTable returns.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable reads a rectangular numeric CSV grid. Lines starting with '#'
// are skipped.
func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty coefficient table", orbit.ErrInvalidArgument)
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, rec := range records {
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", orbit.ErrInvalidArgument, i, j, err)
			}
			data = append(data, v)
		}
	}
	return &Table{m: mat.NewDense(rows, cols, data)}, nil
}

func (t *Table) Dims() (rows, cols int) { return t.m.Dims() }

// At returns the coefficient at (row, col).
func (t *Table) At(row, col int) (float64, error) {
	r, c := t.m.Dims()
	if row < 0 || row >= r || col < 0 || col >= c {
		return 0, fmt.Errorf("%w: index (%d, %d) outside %dx%d table", orbit.ErrInvalidArgument, row, col, r, c)
	}
	return t.m.At(row, col), nil
}

// Matrix returns a copy of the grid.
func (t *Table) Matrix() *mat.Dense { return mat.DenseCopyOf(t.m) }
