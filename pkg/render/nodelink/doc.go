// Package nodelink dumps a mutmap visual graph as a Graphviz diagram.
//
// The dump is a debugging and review aid, not a pedigree drawing: Graphviz
// places the nodes, only the rows of the kinship layout are kept as ranks.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Persons carrying a mutation on their parentage link are highlighted and the
// child edge is labeled with the mutation descriptor.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
