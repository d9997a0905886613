package pedigree

import (
	"fmt"

	"github.com/matzehuels/mutmap/pkg/errors"
)

// Record is one parsed pedigree entry, as produced by a pedigree file parser.
type Record struct {
	IndividualID ID          `json:"individualId"`
	Sex          string      `json:"sex"`
	SampleIDs    *SampleNode `json:"sampleIds,omitempty"`
}

// BuildGraph creates a graph with one person per record, in record order.
// Marriages are not created here; they come from the kinship layout.
func BuildGraph(records []Record) (*Graph, error) {
	g := New()
	for i, r := range records {
		if r.IndividualID <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "record %d: individual id must be positive, got %d", i, r.IndividualID)
		}
		sex, err := ParseSex(r.Sex)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		p := NewPersonBuilder(r.IndividualID).
			Sex(sex).
			SampleIDs(r.SampleIDs).
			Build()
		if err := g.AddPerson(p); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return g, nil
}
