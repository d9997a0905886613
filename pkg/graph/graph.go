package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentTo(FromGraph(g), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDocumentTo(FromGraph(g), f)
}

// WriteGraph writes a Graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeDocumentTo(FromGraph(g), w)
}

// ReadDocument decodes a serialized graph. The result is data only; it is not
// bound to a pedigree.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if err := doc.check(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDocumentTo(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (d *Document) check() error {
	for i, l := range d.Links {
		if l.Source < 0 || l.Source >= len(d.Nodes) || l.Target < 0 || l.Target >= len(d.Nodes) {
			return fmt.Errorf("link %d: endpoint out of range (%d→%d, %d nodes)", i, l.Source, l.Target, len(d.Nodes))
		}
	}
	return nil
}
