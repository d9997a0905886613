package pedigree

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/mutmap/pkg/errors"
)

// ID identifies a person. Kinship layouts index parents by id-1, so valid
// ids start at 1; 0 is the "unknown parent" sentinel.
type ID int

// Sex is the categorical sex of a person.
type Sex int

const (
	SexUnknown Sex = iota
	SexMale
	SexFemale
)

// String returns "male", "female" or "unknown".
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

// ParseSex accepts the textual forms used by pedigree parsers as well as the
// numeric PED codes (1 male, 2 female, 0 or "" unknown).
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "1":
		return SexMale, nil
	case "female", "f", "2":
		return SexFemale, nil
	case "unknown", "u", "0", "":
		return SexUnknown, nil
	}
	return SexUnknown, errors.New(errors.ErrCodeInvalidInput, "invalid sex %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Sex) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sex) UnmarshalText(b []byte) error {
	v, err := ParseSex(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Person is one individual of the pedigree.
//
// Identity, sex and sample tree are fixed at construction. OutputData is the
// mutable annotation written by the mutation overlay.
type Person struct {
	id        ID
	sex       Sex
	sampleIDs *SampleNode
	parentage []*ParentageLink

	// OutputData holds the per-sample variant format data of the person's
	// own sample column, if the variant record has one.
	OutputData map[string]any
}

// ID returns the person's identifier.
func (p *Person) ID() ID { return p.id }

// Sex returns the person's sex.
func (p *Person) Sex() Sex { return p.sex }

// SampleIDs returns the root of the person's sample tree, or nil.
func (p *Person) SampleIDs() *SampleNode { return p.sampleIDs }

// ParentageLinks returns the links recording this person as a child, in the
// order they were created. The slice must not be modified.
func (p *Person) ParentageLinks() []*ParentageLink { return p.parentage }

// ParentageLink returns the person's first parentage link. Persons are
// expected to have at most one parentage relationship; additional links are
// not disambiguated.
func (p *Person) ParentageLink() (*ParentageLink, bool) {
	if len(p.parentage) == 0 {
		return nil, false
	}
	return p.parentage[0], true
}

type personJSON struct {
	ID         ID             `json:"id"`
	Sex        Sex            `json:"sex"`
	SampleIDs  *SampleNode    `json:"sampleIds,omitempty"`
	OutputData map[string]any `json:"dngOutputData,omitempty"`
}

// MarshalJSON encodes the person as the renderer's dataNode object.
func (p *Person) MarshalJSON() ([]byte, error) {
	return json.Marshal(personJSON{
		ID:         p.id,
		Sex:        p.sex,
		SampleIDs:  p.sampleIDs,
		OutputData: p.OutputData,
	})
}

// PersonBuilder assembles a Person.
type PersonBuilder struct {
	p Person
}

// NewPersonBuilder starts a person with the given id and unknown sex.
func NewPersonBuilder(id ID) *PersonBuilder {
	return &PersonBuilder{p: Person{id: id}}
}

// Sex sets the person's sex.
func (b *PersonBuilder) Sex(s Sex) *PersonBuilder {
	b.p.sex = s
	return b
}

// SampleIDs sets the person's sample tree.
func (b *PersonBuilder) SampleIDs(tree *SampleNode) *PersonBuilder {
	b.p.sampleIDs = tree
	return b
}

// Build returns the assembled person. The builder may not be reused.
func (b *PersonBuilder) Build() *Person {
	p := b.p
	return &p
}
