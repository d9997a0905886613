package graph

import (
	"fmt"

	"github.com/matzehuels/mutmap/pkg/pedigree"
)

// =============================================================================
// Constants
// =============================================================================

// Node types.
const (
	NodePerson   = "person"
	NodeMarriage = "marriage"
)

// Link types.
const (
	LinkSpouse = "spouse"
	LinkChild  = "child"
)

// =============================================================================
// Graph - Visual Node/Link Structure
// =============================================================================

// Graph is the positioned node/link structure handed to rendering.
// Person nodes come first, in layout order, followed by marriage nodes.
type Graph struct {
	Nodes []*Node
	Links []*Link
}

// Node is a positioned visual node.
//
// Person nodes are bound to their pedigree Person. Marriage nodes carry the
// Marriage they stand for; their serialized data node is an empty object.
type Node struct {
	Type     string
	X        float64
	Y        float64
	Person   *pedigree.Person
	Marriage *pedigree.Marriage

	index int
}

// Link connects two visual nodes. Child links reference the ParentageLink
// they were created for; the reference is lookup-only.
type Link struct {
	Type     string
	Source   *Node
	Target   *Node
	DataLink *pedigree.ParentageLink
}

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// AddNode appends n and records its position in the node list.
func (g *Graph) AddNode(n *Node) *Node {
	n.index = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddLink appends a link.
func (g *Graph) AddLink(l *Link) *Link {
	g.Links = append(g.Links, l)
	return l
}

// Index returns the position of n in its graph's node list.
func (n *Node) Index() int { return n.index }

// IsPerson reports whether n is a person node.
func (n *Node) IsPerson() bool { return n.Type == NodePerson }

// IsMarriage reports whether n is a marriage node.
func (n *Node) IsMarriage() bool { return n.Type == NodeMarriage }

// Key returns a stable identifier for n, usable as a DOT node name.
func (n *Node) Key() string {
	if n.IsPerson() && n.Person != nil {
		return fmt.Sprintf("p%d_%d", n.Person.ID(), n.index)
	}
	return fmt.Sprintf("m%d", n.index)
}

// PersonNodes returns the person nodes in list order.
func (g *Graph) PersonNodes() []*Node { return g.filter(NodePerson) }

// MarriageNodes returns the marriage nodes in list order.
func (g *Graph) MarriageNodes() []*Node { return g.filter(NodeMarriage) }

// LinksOf returns the links of the given type in list order.
func (g *Graph) LinksOf(typ string) []*Link {
	var out []*Link
	for _, l := range g.Links {
		if l.Type == typ {
			out = append(out, l)
		}
	}
	return out
}

// NodesFor returns every person node bound to id. A person laid out in more
// than one cell has one node per cell.
func (g *Graph) NodesFor(id pedigree.ID) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.IsPerson() && n.Person != nil && n.Person.ID() == id {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) filter(typ string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// Document - Serialization Format
// =============================================================================

// Document is the canonical serialization of a Graph, used for JSON output,
// API responses, caching and document storage. Links refer to nodes by index.
type Document struct {
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Links []LinkDoc `json:"links" bson:"links"`
}

// NodeDoc is a serialized visual node. Person fields are empty for marriage
// nodes; Spouses is set only for marriage nodes.
type NodeDoc struct {
	Index      int                  `json:"index" bson:"index"`
	Type       string               `json:"type" bson:"type"`
	X          float64              `json:"x" bson:"x"`
	Y          float64              `json:"y" bson:"y"`
	PersonID   pedigree.ID          `json:"id,omitempty" bson:"id,omitempty"`
	Sex        string               `json:"sex,omitempty" bson:"sex,omitempty"`
	SampleIDs  *pedigree.SampleNode `json:"sampleIds,omitempty" bson:"sample_ids,omitempty"`
	OutputData map[string]any       `json:"dngOutputData,omitempty" bson:"output_data,omitempty"`
	Spouses    []pedigree.ID        `json:"spouses,omitempty" bson:"spouses,omitempty"`
}

// LinkDoc is a serialized visual link.
type LinkDoc struct {
	Type     string `json:"type" bson:"type"`
	Source   int    `json:"source" bson:"source"`
	Target   int    `json:"target" bson:"target"`
	Mutation string `json:"mutation,omitempty" bson:"mutation,omitempty"`
}

// IsPerson reports whether the document node is a person node.
func (n *NodeDoc) IsPerson() bool { return n.Type == NodePerson }

// FromGraph converts a Graph to its serialization format.
func FromGraph(g *Graph) Document {
	out := Document{
		Nodes: make([]NodeDoc, len(g.Nodes)),
		Links: make([]LinkDoc, len(g.Links)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = nodeDoc(i, n)
	}
	for i, l := range g.Links {
		ld := LinkDoc{Type: l.Type, Source: l.Source.index, Target: l.Target.index}
		if l.DataLink != nil {
			ld.Mutation, _ = l.DataLink.Mutation()
		}
		out.Links[i] = ld
	}
	return out
}

// Mutations returns the child links that carry a mutation.
func (d *Document) Mutations() []LinkDoc {
	var out []LinkDoc
	for _, l := range d.Links {
		if l.Mutation != "" {
			out = append(out, l)
		}
	}
	return out
}

func nodeDoc(i int, n *Node) NodeDoc {
	doc := NodeDoc{Index: i, Type: n.Type, X: n.X, Y: n.Y}
	if p := n.Person; p != nil {
		doc.PersonID = p.ID()
		doc.Sex = p.Sex().String()
		doc.SampleIDs = p.SampleIDs()
		doc.OutputData = p.OutputData
	}
	if m := n.Marriage; m != nil {
		a, b := m.Spouses()
		doc.Spouses = []pedigree.ID{a.ID(), b.ID()}
	}
	return doc
}
