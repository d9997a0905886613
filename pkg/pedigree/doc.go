// Package pedigree provides the family graph that mutmap annotates.
//
// A [Graph] owns every [Person] and [Marriage] of a pedigree. Persons are
// created once per pedigree record and keep their identity for the lifetime
// of the graph; marriages are registered later, when the kinship layout
// reveals a spouse pair. Each child of a marriage is recorded by a
// [ParentageLink], which is also the carrier for a de-novo mutation
// annotation.
//
// # Building
//
// Graphs are usually built from flat records:
//
//	g, err := pedigree.BuildGraph([]pedigree.Record{
//	    {IndividualID: 1, Sex: "male", SampleIDs: &pedigree.SampleNode{Name: "S1"}},
//	    {IndividualID: 2, Sex: "female", SampleIDs: &pedigree.SampleNode{Name: "S2"}},
//	})
//
// Marriages are assembled with a builder that accepts exactly two spouses:
//
//	m, err := pedigree.NewMarriageBuilder().Spouse(dad).Spouse(mom).Build()
//	g.AddMarriage(m)
//	link := m.AddChild(kid)
//	link.SetMutation("A>T")
//
// # Known Edge Cases
//
// Neither [Graph.AddMarriage] nor [Marriage.AddChild] de-duplicates: registering
// the same spouse pair twice creates two marriages, and adding the same child
// twice creates two parentage links.
//
// # Sample Trees
//
// Each person carries a [SampleNode] tree. Leaves are sequencing samples and
// inner nodes are groupings (for example a library grouping several read
// groups). The overlay writes per-sample variant data onto persons and leaves
// via their OutputData fields.
//
// # Concurrency
//
// A Graph is built and annotated by a single goroutine. It is not safe for
// concurrent mutation.
package pedigree
