package layout

import (
	"fmt"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/kinship"
	"github.com/matzehuels/mutmap/pkg/pedigree"
)

// Default spacing between layout columns and rows.
const (
	DefaultColumnSpacing = 80
	DefaultRowSpacing    = 100
)

// Options controls node placement.
type Options struct {
	ColumnSpacing float64
	RowSpacing    float64
}

// ValidateAndSetDefaults fills zero spacings with the defaults and rejects
// negative ones. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.ColumnSpacing < 0 || o.RowSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spacing must not be negative (column %g, row %g)", o.ColumnSpacing, o.RowSpacing)
	}
	if o.ColumnSpacing == 0 {
		o.ColumnSpacing = DefaultColumnSpacing
	}
	if o.RowSpacing == 0 {
		o.RowSpacing = DefaultRowSpacing
	}
	return nil
}

// entry is one arena slot: a person node and the cell it was laid out in.
type entry struct {
	cell kinship.Cell
	node *graph.Node
}

type spousePair struct {
	a, b *entry
}

// Build maps the layout onto ped and returns the visual graph. Every marriage
// it detects is registered on ped.
//
// Errors are fatal: a layout that fails validation, a spouse flag without a
// partner in the next column, or a layout id unknown to ped aborts the build
// before anything is returned. Marriages registered before the failure stay
// on ped.
func Build(ped *pedigree.Graph, data *kinship.Data, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	arena, index, err := buildArena(ped, data, opts)
	if err != nil {
		return nil, err
	}
	pairs, err := findSpousePairs(data, arena, index)
	if err != nil {
		return nil, err
	}

	g := graph.New()
	for i := range arena {
		g.AddNode(arena[i].node)
	}
	for _, p := range pairs {
		if err := addMarriage(g, ped, data, arena, p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// =============================================================================
// Passes
// =============================================================================

func buildArena(ped *pedigree.Graph, data *kinship.Data, opts Options) ([]entry, map[kinship.Cell]int, error) {
	cells := data.Cells()
	arena := make([]entry, 0, len(cells))
	index := make(map[kinship.Cell]int, len(cells))

	for _, c := range cells {
		person, err := ped.Person(data.ID(c))
		if err != nil {
			return nil, nil, fmt.Errorf("cell (%d,%d): %w", c.Row, c.Col, err)
		}
		index[c] = len(arena)
		arena = append(arena, entry{
			cell: c,
			node: &graph.Node{
				Type:   graph.NodePerson,
				X:      opts.ColumnSpacing * data.Pos(c),
				Y:      opts.RowSpacing * float64(c.Row),
				Person: person,
			},
		})
	}
	return arena, index, nil
}

func findSpousePairs(data *kinship.Data, arena []entry, index map[kinship.Cell]int) ([]spousePair, error) {
	var pairs []spousePair
	for i := range arena {
		e := &arena[i]
		if !data.IsSpouse(e.cell) {
			continue
		}
		next, ok := index[kinship.Cell{Row: e.cell.Row, Col: e.cell.Col + 1}]
		if !ok {
			return nil, errors.New(errors.ErrCodeLayoutInconsistent,
				"cell (%d,%d): person %d is flagged as married but has no spouse in the next column",
				e.cell.Row, e.cell.Col, e.node.Person.ID())
		}
		pairs = append(pairs, spousePair{a: e, b: &arena[next]})
	}
	return pairs, nil
}

func addMarriage(g *graph.Graph, ped *pedigree.Graph, data *kinship.Data, arena []entry, p spousePair) error {
	m, err := pedigree.NewMarriageBuilder().
		Spouse(p.a.node.Person).
		Spouse(p.b.node.Person).
		Build()
	if err != nil {
		return fmt.Errorf("marriage at row %d: %w", p.a.cell.Row, err)
	}
	ped.AddMarriage(m)

	mnode := g.AddNode(&graph.Node{
		Type:     graph.NodeMarriage,
		X:        (p.a.node.X + p.b.node.X) / 2,
		Y:        p.a.node.Y,
		Marriage: m,
	})
	g.AddLink(&graph.Link{Type: graph.LinkSpouse, Source: p.a.node, Target: mnode})
	g.AddLink(&graph.Link{Type: graph.LinkSpouse, Source: p.b.node, Target: mnode})

	father, mother := m.Parents()
	for i := range arena {
		child := arena[i].node
		id := child.Person.ID()
		if data.Father(id) != father.ID() || data.Mother(id) != mother.ID() {
			continue
		}
		link := m.AddChild(child.Person)
		g.AddLink(&graph.Link{Type: graph.LinkChild, Source: child, Target: mnode, DataLink: link})
	}
	return nil
}
