package graph_test

import (
	"fmt"

	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/pedigree"
)

func ExampleFromGraph() {
	dad := pedigree.NewPersonBuilder(1).Sex(pedigree.SexMale).Build()
	mom := pedigree.NewPersonBuilder(2).Sex(pedigree.SexFemale).Build()
	m, _ := pedigree.NewMarriageBuilder().Spouse(dad).Spouse(mom).Build()

	g := graph.New()
	a := g.AddNode(&graph.Node{Type: graph.NodePerson, X: 0, Person: dad})
	b := g.AddNode(&graph.Node{Type: graph.NodePerson, X: 80, Person: mom})
	mn := g.AddNode(&graph.Node{Type: graph.NodeMarriage, X: 40, Marriage: m})
	g.AddLink(&graph.Link{Type: graph.LinkSpouse, Source: a, Target: mn})
	g.AddLink(&graph.Link{Type: graph.LinkSpouse, Source: b, Target: mn})

	doc := graph.FromGraph(g)
	for _, n := range doc.Nodes {
		fmt.Println(n.Index, n.Type, n.X, n.PersonID)
	}
	for _, l := range doc.Links {
		fmt.Printf("%s %d→%d\n", l.Type, l.Source, l.Target)
	}
	// Output:
	// 0 person 0 1
	// 1 person 80 2
	// 2 marriage 40 0
	// spouse 0→2
	// spouse 1→2
}
