package pedigree

import (
	"fmt"
	"slices"

	"github.com/matzehuels/mutmap/pkg/errors"
)

// Graph owns the persons and marriages of a pedigree.
//
// The zero value is not usable - use New to create a graph.
type Graph struct {
	persons   map[ID]*Person
	order     []*Person
	marriages []*Marriage
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{persons: make(map[ID]*Person)}
}

// AddPerson inserts a person. Returns a DUPLICATE_ID error if a person with
// the same id already exists.
func (g *Graph) AddPerson(p *Person) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidInput, "person must not be nil")
	}
	if _, exists := g.persons[p.id]; exists {
		return errors.New(errors.ErrCodeDuplicateID, "person %d already exists", p.id)
	}
	g.persons[p.id] = p
	g.order = append(g.order, p)
	return nil
}

// Person returns the person with the given id, or a NOT_FOUND error.
func (g *Graph) Person(id ID) (*Person, error) {
	p, ok := g.persons[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "person %d not found", id)
	}
	return p, nil
}

// Persons returns all persons in insertion order.
func (g *Graph) Persons() []*Person { return slices.Clone(g.order) }

// PersonCount returns the number of persons.
func (g *Graph) PersonCount() int { return len(g.order) }

// AddMarriage registers a marriage. Spouse pairs are not checked for
// uniqueness.
func (g *Graph) AddMarriage(m *Marriage) {
	g.marriages = append(g.marriages, m)
}

// Marriages returns all marriages in registration order.
func (g *Graph) Marriages() []*Marriage { return slices.Clone(g.marriages) }

// MarriageCount returns the number of registered marriages.
func (g *Graph) MarriageCount() int { return len(g.marriages) }

// Validate checks referential integrity: every person referenced by a
// marriage or parentage link must be the same person registered under its id.
func (g *Graph) Validate() error {
	for i, m := range g.marriages {
		a, b := m.Spouses()
		for _, s := range []*Person{a, b} {
			if err := g.checkRegistered(s); err != nil {
				return fmt.Errorf("marriage %d spouse: %w", i, err)
			}
		}
		for _, l := range m.links {
			if err := g.checkRegistered(l.child); err != nil {
				return fmt.Errorf("marriage %d child: %w", i, err)
			}
		}
	}
	return nil
}

func (g *Graph) checkRegistered(p *Person) error {
	registered, err := g.Person(p.id)
	if err != nil {
		return err
	}
	if registered != p {
		return errors.New(errors.ErrCodeNotFound, "person %d is not the registered instance", p.id)
	}
	return nil
}
