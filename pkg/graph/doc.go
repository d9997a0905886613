// Package graph defines the positioned node/link structure produced by the
// layout mapper, and its serialization format.
//
// # Core Types
//
//   - [Graph]: in-memory visual graph, bound to pedigree entities
//   - [Node]: a person or marriage node with x/y coordinates
//   - [Link]: a spouse link (spouse → marriage) or a child link
//     (child → marriage) carrying its ParentageLink
//   - [Document]: the wire format used for JSON files, API responses, the
//     artifact cache and the document store
//
// # Serialization
//
// Links refer to nodes by their index in the node list:
//
//	{
//	  "nodes": [
//	    {"index": 0, "type": "person", "x": 0, "y": 0, "id": 1, "sex": "male", "sampleIds": {"name": "S1"}},
//	    {"index": 1, "type": "person", "x": 80, "y": 0, "id": 2, "sex": "female", "sampleIds": {"name": "S2"}},
//	    {"index": 2, "type": "person", "x": 40, "y": 100, "id": 3, "sex": "male", "sampleIds": {"name": "S3"}},
//	    {"index": 3, "type": "marriage", "x": 40, "y": 0, "spouses": [1, 2]}
//	  ],
//	  "links": [
//	    {"type": "spouse", "source": 0, "target": 3},
//	    {"type": "spouse", "source": 1, "target": 3},
//	    {"type": "child", "source": 2, "target": 3, "mutation": "A>T"}
//	  ]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)         // Graph → []byte
//	graph.WriteGraphFile(g, "graph.json")     // Graph → file
//	doc, _ := graph.UnmarshalDocument(data)  // []byte → Document
//
// # Concurrency
//
// A Graph is built once and not mutated afterwards except by the overlay,
// which runs before any reader sees it. Concurrent reads are safe.
package graph
