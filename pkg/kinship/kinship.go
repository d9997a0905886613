// Package kinship defines the precomputed pedigree layout mutmap consumes.
//
// The layout is produced by an external layout engine (for example kinship2's
// align.pedigree) and arrives as a ragged row/column grid plus parent-index
// side channels:
//
//	{
//	  "layout":   {"n": [2, 1], "nid": [[1, 2], [3, 0]], "pos": [[0, 1], [0.5, 0]], "spouse": [[1, 0], [0, 0]]},
//	  "pedigree": {"findex": [0, 0, 1], "mindex": [0, 0, 2]}
//	}
//
// Row r has N[r] occupied columns. NID[r][c] is the person id at a cell,
// Pos[r][c] its horizontal rank, and Spouse[r][c] == 1 marks the person as
// married to the person in the next column of the same row. FIndex[i] and
// MIndex[i] hold the father and mother id of person i+1, with 0 meaning
// unknown.
package kinship

import (
	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/pedigree"
)

// NoParent is the parent-index sentinel for an unknown parent.
const NoParent = 0

// Layout is the row/column grid of a kinship layout.
type Layout struct {
	N      []int           `json:"n"`
	NID    [][]pedigree.ID `json:"nid"`
	Pos    [][]float64     `json:"pos"`
	Spouse [][]int         `json:"spouse"`
}

// Pedigree holds the parent-index arrays of a kinship layout.
type Pedigree struct {
	FIndex []pedigree.ID `json:"findex"`
	MIndex []pedigree.ID `json:"mindex"`
}

// Data is the complete layout input.
type Data struct {
	Layout   Layout   `json:"layout"`
	Pedigree Pedigree `json:"pedigree"`
}

// Cell addresses one occupied layout cell.
type Cell struct {
	Row int
	Col int
}

// Rows returns the number of layout rows.
func (d *Data) Rows() int { return len(d.Layout.N) }

// ID returns the person id at cell c.
func (d *Data) ID(c Cell) pedigree.ID { return d.Layout.NID[c.Row][c.Col] }

// Pos returns the horizontal rank at cell c.
func (d *Data) Pos(c Cell) float64 { return d.Layout.Pos[c.Row][c.Col] }

// IsSpouse reports whether the person at c is married to the person in the
// next column.
func (d *Data) IsSpouse(c Cell) bool { return d.Layout.Spouse[c.Row][c.Col] == 1 }

// Cells returns every occupied cell in row-major, column-ascending order.
func (d *Data) Cells() []Cell {
	var cells []Cell
	for r, n := range d.Layout.N {
		for c := 0; c < n; c++ {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// Father returns the father id recorded for id, or NoParent when unknown or
// when id lies outside the parent-index arrays.
func (d *Data) Father(id pedigree.ID) pedigree.ID { return parentAt(d.Pedigree.FIndex, id) }

// Mother returns the mother id recorded for id, or NoParent.
func (d *Data) Mother(id pedigree.ID) pedigree.ID { return parentAt(d.Pedigree.MIndex, id) }

func parentAt(index []pedigree.ID, id pedigree.ID) pedigree.ID {
	i := int(id) - 1
	if i < 0 || i >= len(index) {
		return NoParent
	}
	return index[i]
}

// Validate checks that the grid is large enough for the occupied counts and
// that the parent-index arrays agree in length. It does not check spouse
// adjacency; the layout mapper reports that per cell.
func (d *Data) Validate() error {
	l := d.Layout
	if len(l.NID) < len(l.N) || len(l.Pos) < len(l.N) || len(l.Spouse) < len(l.N) {
		return errors.New(errors.ErrCodeLayoutInconsistent,
			"layout has %d rows but nid/pos/spouse have %d/%d/%d", len(l.N), len(l.NID), len(l.Pos), len(l.Spouse))
	}
	for r, n := range l.N {
		if n < 0 {
			return errors.New(errors.ErrCodeLayoutInconsistent, "row %d: negative column count %d", r, n)
		}
		if len(l.NID[r]) < n || len(l.Pos[r]) < n || len(l.Spouse[r]) < n {
			return errors.New(errors.ErrCodeLayoutInconsistent,
				"row %d: %d occupied columns but nid/pos/spouse have %d/%d/%d", r, n, len(l.NID[r]), len(l.Pos[r]), len(l.Spouse[r]))
		}
	}
	if len(d.Pedigree.FIndex) != len(d.Pedigree.MIndex) {
		return errors.New(errors.ErrCodeLayoutInconsistent,
			"findex has %d entries, mindex has %d", len(d.Pedigree.FIndex), len(d.Pedigree.MIndex))
	}
	return nil
}
