package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/pedigree"
	"github.com/matzehuels/mutmap/pkg/store"
)

func TestByID(t *testing.T) {
	f := byID("abc")
	if len(f) != 1 || f[0].Key != "_id" || f[0].Value != "abc" {
		t.Errorf("byID = %v", f)
	}
}

func TestRecordBSON(t *testing.T) {
	rec := store.NewRecord(graph.Document{
		Nodes: []graph.NodeDoc{
			{Index: 0, Type: graph.NodePerson, PersonID: 1, Sex: "male", SampleIDs: &pedigree.SampleNode{Name: "S1"}},
			{Index: 1, Type: graph.NodeMarriage, X: 40, Spouses: []pedigree.ID{1, 2}},
		},
		Links: []graph.LinkDoc{{Type: graph.LinkChild, Source: 0, Target: 1, Mutation: "A>T"}},
	}, "hash")
	rec.Notices = []string{"no mutation found"}

	raw, err := bson.Marshal(rec)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m["_id"] != rec.ID {
		t.Errorf("_id = %v, want %s", m["_id"], rec.ID)
	}
	if m["graph_hash"] != "hash" {
		t.Errorf("graph_hash = %v", m["graph_hash"])
	}

	var back store.Record
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if back.Graph.Links[0].Mutation != "A>T" || back.Graph.Nodes[0].SampleIDs.Name != "S1" {
		t.Errorf("decoded record = %+v", back.Graph)
	}
}
