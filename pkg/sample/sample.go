// Package sample resolves variant-call sample column names to pedigree
// persons and sample-tree nodes.
//
// Column names carry a 3-character prefix. Person columns use [PersonPrefix]
// followed by the person id and a ':'-delimited suffix ("GL-3:lib"). Other
// columns name a sample or library node in some person's sample tree
// ("LB-NA12878:Solexa-135852").
package sample

import (
	"strconv"
	"strings"

	"github.com/matzehuels/mutmap/pkg/pedigree"
)

// Naming convention.
const (
	PersonPrefix = "GL-"
	PrefixLen    = 3
)

// IsPersonColumn reports whether name is a person column.
func IsPersonColumn(name string) bool {
	return len(name) >= PrefixLen && name[:PrefixLen] == PersonPrefix
}

// StripPrefix removes the prefix and, for person columns, everything from the
// first ':'. Names shorter than the prefix strip to "".
func StripPrefix(name string) string {
	if len(name) < PrefixLen {
		return ""
	}
	rest := name[PrefixLen:]
	if IsPersonColumn(name) {
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			rest = rest[:i]
		}
	}
	return rest
}

// PersonID parses the person id of a person column.
func PersonID(name string) (pedigree.ID, bool) {
	if !IsPersonColumn(name) {
		return 0, false
	}
	n, err := strconv.Atoi(StripPrefix(name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return pedigree.ID(n), true
}

// Match is the result of a sample-tree search.
type Match struct {
	Person *pedigree.Person
	Node   *pedigree.SampleNode
}

// Matcher searches the sample trees of a pedigree.
//
// Persons are scanned in insertion order and the first tree containing the
// name wins. Sample names are assumed unique across the pedigree; this is
// not checked.
type Matcher struct {
	Graph *pedigree.Graph
}

// New returns a Matcher over g.
func New(g *pedigree.Graph) *Matcher { return &Matcher{Graph: g} }

// FindOwner returns the person whose sample tree contains stripped.
func (m *Matcher) FindOwner(stripped string) (*pedigree.Person, bool) {
	match, ok := m.Find(stripped)
	return match.Person, ok
}

// FindSampleLeaf returns the sample-tree node named stripped.
func (m *Matcher) FindSampleLeaf(stripped string) (*pedigree.SampleNode, bool) {
	match, ok := m.Find(stripped)
	return match.Node, ok
}

// Find returns both the owning person and the matched node.
func (m *Matcher) Find(stripped string) (Match, bool) {
	if m == nil || m.Graph == nil {
		return Match{}, false
	}
	for _, p := range m.Graph.Persons() {
		if n, ok := p.SampleIDs().Find(stripped); ok {
			return Match{Person: p, Node: n}, true
		}
	}
	return Match{}, false
}
