// Package store defines the stored form of a built graph.
//
// Backends live in subpackages: [mongo] keeps built graphs as documents for
// the API server, [neo4j] exports the pedigree data graph for querying.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mutmap/pkg/graph"
)

// Record is one stored pipeline result.
type Record struct {
	ID        string         `json:"id" bson:"_id"`
	CreatedAt time.Time      `json:"createdAt" bson:"created_at"`
	GraphHash string         `json:"graphHash" bson:"graph_hash"`
	Graph     graph.Document `json:"graph" bson:"graph"`
	Mutation  string         `json:"mutation,omitempty" bson:"mutation,omitempty"`
	Notices   []string       `json:"notices,omitempty" bson:"notices,omitempty"`
	Unmatched []string       `json:"unmatched,omitempty" bson:"unmatched,omitempty"`
}

// NewRecord returns a Record with a fresh random id.
func NewRecord(doc graph.Document, graphHash string) Record {
	return Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		GraphHash: graphHash,
		Graph:     doc,
	}
}

// ValidID reports whether id has the form NewRecord produces.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store saves and loads records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	// Get returns a NOT_FOUND error for unknown ids.
	Get(ctx context.Context, id string) (Record, error)
	Close(ctx context.Context) error
}
