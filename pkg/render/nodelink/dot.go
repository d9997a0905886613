package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/pedigree"
)

// Options configures graph dump rendering.
type Options struct {
	// Detailed adds sample names and per-sample output data to person
	// labels. When false, only the person id is shown.
	Detailed bool
}

// ToDOT converts a visual graph to Graphviz DOT format.
//
// Persons are drawn as boxes (male), ellipses (female) or diamonds (unknown);
// marriages as points. Nodes of one layout row share a rank. Spouse edges run
// from each spouse into the marriage point, child edges from the marriage
// point down to the child and carry the mutation label, if any.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=18, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key(), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, row := range rows(g) {
		keys := make([]string, len(row))
		for i, n := range row {
			keys[i] = strconv.Quote(n.Key())
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(keys, "; "))
	}

	buf.WriteString("\n")
	for _, l := range g.Links {
		switch l.Type {
		case graph.LinkSpouse:
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source.Key(), l.Target.Key())
		case graph.LinkChild:
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", l.Target.Key(), l.Source.Key(), fmtMutation(l.DataLink))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *graph.Node, detailed bool) []string {
	if n.IsMarriage() {
		return []string{"shape=point", "width=0.08", `label=""`}
	}

	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n.Person, detailed))}
	switch n.Person.Sex() {
	case pedigree.SexMale:
		attrs = append(attrs, "shape=box")
	case pedigree.SexFemale:
		attrs = append(attrs, "shape=ellipse")
	default:
		attrs = append(attrs, "shape=diamond")
	}
	if mutated(n.Person) {
		attrs = append(attrs, "fillcolor=\"#fde2e2\"", "color=\"#c0392b\"")
	}
	return attrs
}

func fmtLabel(p *pedigree.Person, detailed bool) string {
	id := strconv.Itoa(int(p.ID()))
	if !detailed {
		return id
	}

	parts := []string{id}
	if names := p.SampleIDs().Names(); len(names) > 0 {
		parts = append(parts, strings.Join(names, ", "))
	}
	for _, k := range slices.Sorted(maps.Keys(p.OutputData)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, p.OutputData[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtMutation(l *pedigree.ParentageLink) string {
	if l == nil {
		return ""
	}
	m, ok := l.Mutation()
	if !ok {
		return ""
	}
	return fmt.Sprintf(" [label=%q, color=\"#c0392b\", fontcolor=\"#c0392b\", penwidth=2]", m)
}

func mutated(p *pedigree.Person) bool {
	for _, l := range p.ParentageLinks() {
		if _, ok := l.Mutation(); ok {
			return true
		}
	}
	return false
}

// rows groups nodes by y coordinate, top row first.
func rows(g *graph.Graph) [][]*graph.Node {
	byY := make(map[float64][]*graph.Node)
	for _, n := range g.Nodes {
		byY[n.Y] = append(byY[n.Y], n)
	}
	var out [][]*graph.Node
	for _, y := range slices.Sorted(maps.Keys(byY)) {
		if len(byY[y]) > 1 {
			out = append(out, byY[y])
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
