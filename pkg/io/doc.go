// Package io reads the already-parsed mutmap inputs from JSON and writes the
// resulting visual graph.
//
// # Inputs
//
// Pedigree records, one per individual:
//
//	[
//	  {"individualId": 1, "sex": "male",   "sampleIds": {"name": "S1"}},
//	  {"individualId": 2, "sex": "female", "sampleIds": {"name": "S2"}},
//	  {"individualId": 3, "sex": "male",   "sampleIds": {"name": "S3", "children": [{"name": "LIB3"}]}}
//	]
//
// A kinship layout, see [kinship.Data]:
//
//	{"layout": {"n": [2, 1], "nid": [[1, 2], [3]], "pos": [[0, 1], [0.5]], "spouse": [[1, 0], [0]]},
//	 "pedigree": {"findex": [0, 0, 1], "mindex": [0, 0, 2]}}
//
// Variant-call data, see [vcf.Data].
//
// # Errors
//
// A missing file yields FILE_NOT_FOUND, malformed JSON INVALID_FORMAT and a
// layout with inconsistent row lengths LAYOUT_INCONSISTENT. Readers never
// close their input.
package io
