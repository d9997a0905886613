package io

import (
	"io"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/graph"
)

// WriteGraph encodes the visual graph as indented JSON and writes it to w.
func WriteGraph(g *graph.Graph, w io.Writer) error {
	return graph.WriteGraph(g, w)
}

// ExportGraph writes the visual graph to a JSON file at path.
func ExportGraph(g *graph.Graph, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	return graph.WriteGraphFile(g, path)
}
