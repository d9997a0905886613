// Package layout maps a precomputed kinship layout onto a pedigree graph.
//
// [Build] turns the row/column grid of a [kinship.Data] into positioned person
// nodes, recovers spouse pairs from the spouse flags and parentage from the
// parent-index arrays, registers a [pedigree.Marriage] per pair and emits the
// spouse and child links of the visual [graph.Graph].
//
// Person nodes are created first into a fixed arena, in row-major,
// column-ascending order. Spouse adjacency is resolved through an explicit
// (row, col) index into that arena, so marriage nodes never disturb the scan.
// Marriage nodes follow all person nodes in the output.
//
// Positions:
//
//	person:   x = ColumnSpacing * pos[r][c], y = RowSpacing * r
//	marriage: x = midpoint of the two spouses, y = the spouses' y
package layout
