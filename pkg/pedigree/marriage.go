package pedigree

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/mutmap/pkg/errors"
)

// MutationData is the mutation descriptor attached to a parentage link.
type MutationData struct {
	Mutation string `json:"mutation"`
}

// ParentageLink records one child's membership in a marriage. It is created
// by [Marriage.AddChild] and owned by the marriage.
type ParentageLink struct {
	marriage *Marriage
	child    *Person
	data     *MutationData
}

// Marriage returns the marriage the child belongs to.
func (l *ParentageLink) Marriage() *Marriage { return l.marriage }

// Child returns the child person.
func (l *ParentageLink) Child() *Person { return l.child }

// Data returns the link's mutation descriptor, or nil if none was set.
func (l *ParentageLink) Data() *MutationData { return l.data }

// SetMutation replaces the link's mutation descriptor.
func (l *ParentageLink) SetMutation(descriptor string) {
	l.data = &MutationData{Mutation: descriptor}
}

// Mutation returns the link's mutation descriptor string.
func (l *ParentageLink) Mutation() (string, bool) {
	if l.data == nil {
		return "", false
	}
	return l.data.Mutation, true
}

// MarshalJSON encodes the link as the renderer's dataLink object: the
// mutation descriptor, or an empty object.
func (l *ParentageLink) MarshalJSON() ([]byte, error) {
	if l.data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l.data)
}

// Marriage joins two spouses and lists their children. Spouse order is the
// order the builder received them in.
type Marriage struct {
	spouses [2]*Person
	links   []*ParentageLink
}

// Spouses returns both spouses in builder order.
func (m *Marriage) Spouses() (*Person, *Person) { return m.spouses[0], m.spouses[1] }

// Parents returns the spouses as father and mother. The first spouse is the
// father if male; otherwise the second spouse is taken as the father.
func (m *Marriage) Parents() (father, mother *Person) {
	a, b := m.spouses[0], m.spouses[1]
	if a.Sex() == SexMale {
		return a, b
	}
	return b, a
}

// AddChild appends a new parentage link for child and returns it. The link is
// also recorded on the child. Adding the same child twice creates two links.
func (m *Marriage) AddChild(child *Person) *ParentageLink {
	link := &ParentageLink{marriage: m, child: child}
	m.links = append(m.links, link)
	child.parentage = append(child.parentage, link)
	return link
}

// Children returns the marriage's parentage links in insertion order.
func (m *Marriage) Children() []*ParentageLink { return slices.Clone(m.links) }

// MarriageBuilder assembles a Marriage from exactly two spouses.
type MarriageBuilder struct {
	spouses []*Person
	err     error
}

// NewMarriageBuilder returns an empty builder.
func NewMarriageBuilder() *MarriageBuilder {
	return &MarriageBuilder{}
}

// Spouse adds a spouse. A third call records an error returned by Build.
func (b *MarriageBuilder) Spouse(p *Person) *MarriageBuilder {
	switch {
	case b.err != nil:
	case p == nil:
		b.err = errors.New(errors.ErrCodeInvalidInput, "marriage spouse must not be nil")
	case len(b.spouses) == 2:
		b.err = errors.New(errors.ErrCodeInvalidInput, "marriage already has two spouses (got person %d)", p.ID())
	default:
		b.spouses = append(b.spouses, p)
	}
	return b
}

// Build returns the marriage with an empty child list.
func (b *MarriageBuilder) Build() (*Marriage, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.spouses) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "marriage needs two spouses, got %d", len(b.spouses))
	}
	return &Marriage{spouses: [2]*Person{b.spouses[0], b.spouses[1]}}, nil
}
