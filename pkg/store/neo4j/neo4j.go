// Package neo4j exports a pedigree data graph into Neo4j.
//
// Persons become (:Person) nodes, marriages (:Marriage) nodes joined to both
// spouses by [:SPOUSE_OF], and every parentage link a
// (:Person)-[:CHILD_OF {mutation}]->(:Marriage) relationship. All nodes carry
// a dataset property so several pedigrees can share one database; an export
// replaces the previous contents of its dataset.
package neo4j

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/mutmap/pkg/observability"
	"github.com/matzehuels/mutmap/pkg/pedigree"
)

const backend = "neo4j"

// Exporter loads pedigree graphs with batched UNWIND queries.
type Exporter struct {
	driver neo4j.DriverWithContext
	logger *log.Logger
}

// NewExporter connects to Neo4j and verifies connectivity. A nil logger
// discards output.
func NewExporter(ctx context.Context, uri, user, password string, logger *log.Logger) (*Exporter, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connect neo4j: %w", err)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Exporter{driver: driver, logger: logger}, nil
}

// Close releases the driver.
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// Export replaces dataset with the contents of ped.
func (e *Exporter) Export(ctx context.Context, ped *pedigree.Graph, dataset string) error {
	start := time.Now()
	err := e.export(ctx, ped, dataset)
	observability.Store().OnStoreWrite(ctx, backend, ped.PersonCount(), time.Since(start), err)
	return err
}

func (e *Exporter) export(ctx context.Context, ped *pedigree.Graph, dataset string) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"clean", func() error { return e.CleanDataset(ctx, dataset) }},
		{"indexes", func() error { return e.CreateIndexes(ctx) }},
		{"persons", func() error { return e.LoadPersons(ctx, personBatch(ped, dataset)) }},
		{"marriages", func() error { return e.LoadMarriages(ctx, marriageBatch(ped, dataset)) }},
		{"parentage", func() error { return e.LoadParentage(ctx, parentageBatch(ped, dataset)) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	e.logger.Info("exported pedigree", "dataset", dataset, "persons", ped.PersonCount(), "marriages", ped.MarriageCount())
	return nil
}

func (e *Exporter) run(ctx context.Context, cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, e.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// CleanDataset removes every node of dataset and its relationships.
func (e *Exporter) CleanDataset(ctx context.Context, dataset string) error {
	e.logger.Debug("cleaning dataset", "dataset", dataset)
	params := map[string]any{"dataset": dataset}
	for _, q := range []string{
		"MATCH (n:Marriage {dataset: $dataset}) DETACH DELETE n",
		"MATCH (n:Person {dataset: $dataset}) DETACH DELETE n",
	} {
		if err := e.run(ctx, q, params); err != nil {
			return err
		}
	}
	return nil
}

// CreateIndexes ensures the lookup indexes exist.
func (e *Exporter) CreateIndexes(ctx context.Context) error {
	for _, q := range []string{
		"CREATE INDEX person_key IF NOT EXISTS FOR (n:Person) ON (n.dataset, n.id)",
		"CREATE INDEX marriage_key IF NOT EXISTS FOR (n:Marriage) ON (n.dataset, n.key)",
	} {
		if err := e.run(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

// LoadPersons upserts Person nodes.
func (e *Exporter) LoadPersons(ctx context.Context, batch []map[string]any) error {
	e.logger.Debug("loading persons", "count", len(batch))
	return e.run(ctx,
		`UNWIND $batch AS row
		 MERGE (n:Person {dataset: row.dataset, id: row.id})
		 SET n.sex = row.sex, n.samples = row.samples`,
		map[string]any{"batch": batch},
	)
}

// LoadMarriages upserts Marriage nodes and their SPOUSE_OF relationships.
func (e *Exporter) LoadMarriages(ctx context.Context, batch []map[string]any) error {
	e.logger.Debug("loading marriages", "count", len(batch))
	return e.run(ctx,
		`UNWIND $batch AS row
		 MERGE (m:Marriage {dataset: row.dataset, key: row.key})
		 WITH m, row
		 MATCH (a:Person {dataset: row.dataset, id: row.spouseA})
		 MATCH (b:Person {dataset: row.dataset, id: row.spouseB})
		 MERGE (a)-[:SPOUSE_OF]->(m)
		 MERGE (b)-[:SPOUSE_OF]->(m)`,
		map[string]any{"batch": batch},
	)
}

// LoadParentage creates the CHILD_OF relationships.
func (e *Exporter) LoadParentage(ctx context.Context, batch []map[string]any) error {
	e.logger.Debug("loading parentage links", "count", len(batch))
	return e.run(ctx,
		`UNWIND $batch AS row
		 MATCH (c:Person {dataset: row.dataset, id: row.child})
		 MATCH (m:Marriage {dataset: row.dataset, key: row.marriage})
		 CREATE (c)-[r:CHILD_OF]->(m)
		 SET r.mutation = row.mutation`,
		map[string]any{"batch": batch},
	)
}

// =============================================================================
// Batch builders
// =============================================================================

func marriageKey(i int) string { return fmt.Sprintf("m%d", i) }

func personBatch(ped *pedigree.Graph, dataset string) []map[string]any {
	persons := ped.Persons()
	batch := make([]map[string]any, 0, len(persons))
	for _, p := range persons {
		samples := p.SampleIDs().Names()
		if samples == nil {
			samples = []string{}
		}
		batch = append(batch, map[string]any{
			"dataset": dataset,
			"id":      int64(p.ID()),
			"sex":     p.Sex().String(),
			"samples": samples,
		})
	}
	return batch
}

func marriageBatch(ped *pedigree.Graph, dataset string) []map[string]any {
	marriages := ped.Marriages()
	batch := make([]map[string]any, 0, len(marriages))
	for i, m := range marriages {
		a, b := m.Spouses()
		batch = append(batch, map[string]any{
			"dataset": dataset,
			"key":     marriageKey(i),
			"spouseA": int64(a.ID()),
			"spouseB": int64(b.ID()),
		})
	}
	return batch
}

func parentageBatch(ped *pedigree.Graph, dataset string) []map[string]any {
	var batch []map[string]any
	for i, m := range ped.Marriages() {
		for _, l := range m.Children() {
			row := map[string]any{
				"dataset":  dataset,
				"child":    int64(l.Child().ID()),
				"marriage": marriageKey(i),
				"mutation": nil,
			}
			if mut, ok := l.Mutation(); ok {
				row["mutation"] = mut
			}
			batch = append(batch, row)
		}
	}
	return batch
}
