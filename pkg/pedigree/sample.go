package pedigree

// SampleNode is a node of a person's sample identifier tree. Leaves are
// sequencing samples; inner nodes group them. A tree may consist of a single
// node with no children.
type SampleNode struct {
	Name     string        `json:"name"`
	Children []*SampleNode `json:"children,omitempty"`

	// OutputData holds the variant format data of the sample column that
	// matched this node.
	OutputData map[string]any `json:"dngOutputData,omitempty"`
}

// Find searches the tree depth-first in pre-order for a node whose name
// equals name exactly. The node itself is checked before its children, and
// children are visited in order. Returns false if no node matches.
func (n *SampleNode) Find(name string) (*SampleNode, bool) {
	if n == nil {
		return nil, false
	}
	if n.Name == name {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := c.Find(name); ok {
			return found, true
		}
	}
	return nil, false
}

// IsLeaf reports whether the node has no children.
func (n *SampleNode) IsLeaf() bool { return len(n.Children) == 0 }

// Leaves returns the leaves of the tree in pre-order.
func (n *SampleNode) Leaves() []*SampleNode {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []*SampleNode{n}
	}
	var out []*SampleNode
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Names returns every node name of the tree in pre-order.
func (n *SampleNode) Names() []string {
	if n == nil {
		return nil
	}
	names := []string{n.Name}
	for _, c := range n.Children {
		names = append(names, c.Names()...)
	}
	return names
}
