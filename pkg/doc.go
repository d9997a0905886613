// Package pkg provides the core libraries of mutmap.
//
// # Overview
//
// mutmap places a de-novo mutation on a pedigree graph. It takes three
// already-parsed inputs: the pedigree records, a kinship layout computed by an
// external layout engine, and the de-novo variant calls. The pkg directory is
// organized into four areas:
//
//  1. Domain: [pedigree], [kinship], [vcf], [sample], [layout], [overlay]
//  2. Output: [graph] (positioned nodes and links), [render/nodelink]
//  3. Infrastructure: [cache], [store], [observability], [errors]
//  4. Orchestration: [pipeline], [io]
//
// # Architecture
//
// The data flow through mutmap:
//
//	pedigree records      kinship layout      variant calls
//	        ↓                    ↓                   ↓
//	[pedigree] graph ──→ [layout] mapper ──→ [overlay] (via [sample])
//	                             ↓
//	                  [graph] nodes and links
//	                             ↓
//	              JSON / DOT / SVG, [store], Neo4j
//
// # Quick Start
//
//	records, _ := io.ImportPedigree("family.pedigree.json")
//	layout, _ := io.ImportLayout("family.layout.json")
//	variants, _ := io.ImportVariants("family.vcf.json")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Inputs{
//	    Records:  records,
//	    Layout:   layout,
//	    Variants: variants,
//	}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, notice := range result.Notices() {
//	    fmt.Println(notice) // e.g. "no mutation found"
//	}
//	os.WriteFile("family.json", result.Artifacts["json"], 0o644)
package pkg
