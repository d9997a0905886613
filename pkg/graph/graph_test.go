package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/mutmap/pkg/pedigree"
)

func trioGraph(t *testing.T) *Graph {
	t.Helper()
	dad := pedigree.NewPersonBuilder(1).Sex(pedigree.SexMale).SampleIDs(&pedigree.SampleNode{Name: "S1"}).Build()
	mom := pedigree.NewPersonBuilder(2).Sex(pedigree.SexFemale).Build()
	kid := pedigree.NewPersonBuilder(3).Sex(pedigree.SexMale).Build()
	m, err := pedigree.NewMarriageBuilder().Spouse(dad).Spouse(mom).Build()
	if err != nil {
		t.Fatal(err)
	}
	pl := m.AddChild(kid)
	pl.SetMutation("A>T")

	g := New()
	a := g.AddNode(&Node{Type: NodePerson, X: 0, Y: 0, Person: dad})
	b := g.AddNode(&Node{Type: NodePerson, X: 80, Y: 0, Person: mom})
	c := g.AddNode(&Node{Type: NodePerson, X: 40, Y: 100, Person: kid})
	mn := g.AddNode(&Node{Type: NodeMarriage, X: 40, Y: 0, Marriage: m})
	g.AddLink(&Link{Type: LinkSpouse, Source: a, Target: mn})
	g.AddLink(&Link{Type: LinkSpouse, Source: b, Target: mn})
	g.AddLink(&Link{Type: LinkChild, Source: c, Target: mn, DataLink: pl})
	return g
}

func TestFromGraph(t *testing.T) {
	doc := FromGraph(trioGraph(t))
	if len(doc.Nodes) != 4 || len(doc.Links) != 3 {
		t.Fatalf("doc = %d nodes, %d links", len(doc.Nodes), len(doc.Links))
	}

	dad := doc.Nodes[0]
	if !dad.IsPerson() || dad.PersonID != 1 || dad.Sex != "male" || dad.SampleIDs.Name != "S1" {
		t.Errorf("node 0 = %+v", dad)
	}
	m := doc.Nodes[3]
	if m.IsPerson() || m.PersonID != 0 || len(m.Spouses) != 2 || m.Spouses[0] != 1 {
		t.Errorf("marriage node = %+v", m)
	}

	child := doc.Links[2]
	if child.Type != LinkChild || child.Source != 2 || child.Target != 3 || child.Mutation != "A>T" {
		t.Errorf("child link = %+v", child)
	}
	if got := doc.Mutations(); len(got) != 1 {
		t.Errorf("Mutations() = %v", got)
	}
}

func TestQueries(t *testing.T) {
	g := trioGraph(t)
	if n := len(g.PersonNodes()); n != 3 {
		t.Errorf("PersonNodes = %d", n)
	}
	if n := len(g.MarriageNodes()); n != 1 {
		t.Errorf("MarriageNodes = %d", n)
	}
	if n := len(g.LinksOf(LinkSpouse)); n != 2 {
		t.Errorf("spouse links = %d", n)
	}
	nodes := g.NodesFor(3)
	if len(nodes) != 1 || nodes[0].Index() != 2 {
		t.Errorf("NodesFor(3) = %v", nodes)
	}
	if k := g.Nodes[3].Key(); k != "m3" {
		t.Errorf("marriage key = %q", k)
	}
}

func TestWriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(trioGraph(t), &buf); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if doc.Links[2].Mutation != "A>T" {
		t.Errorf("mutation lost: %+v", doc.Links[2])
	}
}

func TestReadDocumentErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [`},
		{"dangling link", `{"nodes": [{"index": 0, "type": "person"}], "links": [{"type": "spouse", "source": 0, "target": 5}]}`},
		{"negative index", `{"nodes": [], "links": [{"type": "child", "source": -1, "target": 0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadDocument(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
