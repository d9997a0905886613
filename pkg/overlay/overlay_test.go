package overlay

import (
	"context"
	"testing"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/pedigree"
	"github.com/matzehuels/mutmap/pkg/vcf"
)

// threeGenerations returns grandparents 4+5 with child 1, who married 2 and
// had 3. Person 1 owns library NA12878:Solexa-1.
func threeGenerations(t *testing.T) *pedigree.Graph {
	t.Helper()
	g, err := pedigree.BuildGraph([]pedigree.Record{
		{IndividualID: 1, Sex: "male", SampleIDs: &pedigree.SampleNode{
			Name:     "1",
			Children: []*pedigree.SampleNode{{Name: "NA12878:Solexa-1"}},
		}},
		{IndividualID: 2, Sex: "female", SampleIDs: &pedigree.SampleNode{Name: "2"}},
		{IndividualID: 3, Sex: "male", SampleIDs: &pedigree.SampleNode{Name: "3"}},
		{IndividualID: 4, Sex: "male", SampleIDs: &pedigree.SampleNode{Name: "4"}},
		{IndividualID: 5, Sex: "female", SampleIDs: &pedigree.SampleNode{Name: "5"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	marry := func(a, b, child pedigree.ID) {
		pa, _ := g.Person(a)
		pb, _ := g.Person(b)
		pc, _ := g.Person(child)
		m, err := pedigree.NewMarriageBuilder().Spouse(pa).Spouse(pb).Build()
		if err != nil {
			t.Fatal(err)
		}
		g.AddMarriage(m)
		m.AddChild(pc)
	}
	marry(4, 5, 1)
	marry(1, 2, 3)
	return g
}

func variants(location string, columns ...string) *vcf.Data {
	rec := vcf.Record{
		Chrom:   "1",
		Pos:     1000,
		Info:    map[string]any{vcf.InfoLocation: location, vcf.InfoDescriptor: "A>T"},
		Samples: map[string]vcf.SampleData{},
	}
	for _, c := range columns {
		rec.Samples[c] = vcf.SampleData{"GT": "0/1", "col": c}
	}
	return &vcf.Data{
		Header:  vcf.Header{SampleNames: columns},
		Records: []vcf.Record{rec},
	}
}

func mutations(g *pedigree.Graph) map[pedigree.ID]string {
	out := map[pedigree.ID]string{}
	for _, p := range g.Persons() {
		for _, l := range p.ParentageLinks() {
			if m, ok := l.Mutation(); ok {
				out[p.ID()] = m
			}
		}
	}
	return out
}

func TestApplyAttachesMutation(t *testing.T) {
	g := threeGenerations(t)
	report, err := Apply(context.Background(), g, variants("LB-NA12878:Solexa-1", "GL-1", "GL-3", "LB-NA12878:Solexa-1"), Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !report.Applied || report.OwnerID() != 1 || report.Mutation != "A>T" {
		t.Fatalf("report = %+v", report)
	}

	got := mutations(g)
	if len(got) != 1 || got[1] != "A>T" {
		t.Errorf("mutations = %v, want only person 1 = A>T", got)
	}
	p1, _ := g.Person(1)
	if data := p1.ParentageLinks()[0].Data(); data == nil || data.Mutation != "A>T" {
		t.Errorf("person 1 link data = %+v", data)
	}

	p3, _ := g.Person(3)
	if p3.OutputData["col"] != "GL-3" {
		t.Errorf("person 3 output data = %v", p3.OutputData)
	}
	leaf, _ := p1.SampleIDs().Find("NA12878:Solexa-1")
	if leaf.OutputData["col"] != "LB-NA12878:Solexa-1" {
		t.Errorf("library output data = %v", leaf.OutputData)
	}
	if len(report.Annotated) != 3 || len(report.Unmatched) != 0 {
		t.Errorf("annotated %v, unmatched %v", report.Annotated, report.Unmatched)
	}
}

func TestApplyOwnerNotFound(t *testing.T) {
	g := threeGenerations(t)
	before := mutations(g)

	report, err := Apply(context.Background(), g, variants("LB-NOBODY", "GL-1"), Options{})
	if !errors.Is(err, errors.ErrCodeOverlayNotFound) || errors.IsFatal(err) {
		t.Fatalf("Apply() error = %v, want non-fatal %s", err, errors.ErrCodeOverlayNotFound)
	}
	if report.Applied || report.Notice != NoticeNotFound {
		t.Errorf("report = %+v, want notice %q", report, NoticeNotFound)
	}
	if after := mutations(g); len(after) != len(before) {
		t.Errorf("mutations changed: %v", after)
	}
	p1, _ := g.Person(1)
	if p1.OutputData != nil {
		t.Error("person column annotated although overlay was skipped")
	}
}

func TestApplyFounderOwner(t *testing.T) {
	g := threeGenerations(t)
	report, err := Apply(context.Background(), g, variants("SM-4", "GL-4"), Options{})
	if !errors.Is(err, errors.ErrCodeOverlayNotFound) {
		t.Fatalf("Apply() error = %v, want %s", err, errors.ErrCodeOverlayNotFound)
	}
	if report.Applied || report.OwnerID() != 4 || report.Notice == "" {
		t.Errorf("report = %+v", report)
	}
	p4, _ := g.Person(4)
	if p4.OutputData != nil {
		t.Error("founder annotated")
	}
}

func TestApplyUnmatchedColumn(t *testing.T) {
	g := threeGenerations(t)
	v := variants("LB-NA12878:Solexa-1", "LB-UNKNOWN", "GL-99", "GL-2")
	report, err := Apply(context.Background(), g, v, Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !report.Applied {
		t.Fatal("overlay not applied")
	}
	if len(report.Unmatched) != 2 || report.Unmatched[0] != "LB-UNKNOWN" || report.Unmatched[1] != "GL-99" {
		t.Errorf("unmatched = %v", report.Unmatched)
	}
	p2, _ := g.Person(2)
	if p2.OutputData["col"] != "GL-2" {
		t.Errorf("column after the misses not processed: %v", p2.OutputData)
	}
}

func TestApplyMissingLocation(t *testing.T) {
	tests := []struct {
		name string
		data *vcf.Data
	}{
		{"nil", nil},
		{"no records", &vcf.Data{}},
		{"no location", &vcf.Data{Records: []vcf.Record{{Info: map[string]any{vcf.InfoDescriptor: "A>T"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := threeGenerations(t)
			report, err := Apply(context.Background(), g, tt.data, Options{})
			if !errors.Is(err, errors.ErrCodeOverlayNotFound) || errors.IsFatal(err) {
				t.Fatalf("Apply() error = %v, want non-fatal %s", err, errors.ErrCodeOverlayNotFound)
			}
			if report.Applied || report.Notice != NoticeNotFound {
				t.Errorf("report = %+v, want notice %q", report, NoticeNotFound)
			}
			if got := mutations(g); len(got) != 0 {
				t.Errorf("mutations = %v, want none", got)
			}
		})
	}
}

func TestApplyRejectsMalformedColumnNames(t *testing.T) {
	g := threeGenerations(t)
	p2, _ := g.Person(2)
	p2.SampleIDs().Children = []*pedigree.SampleNode{{Name: "S 2"}}

	v := variants("LB-NA12878:Solexa-1", "AB", "LB-S 2", "GL-1")
	report, err := Apply(context.Background(), g, v, Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Unmatched) != 2 || report.Unmatched[0] != "AB" || report.Unmatched[1] != "LB-S 2" {
		t.Errorf("unmatched = %v, want [AB LB-S 2]", report.Unmatched)
	}
	if leaf, _ := p2.SampleIDs().Find("S 2"); leaf.OutputData != nil {
		t.Errorf("column with whitespace annotated: %v", leaf.OutputData)
	}
	p1, _ := g.Person(1)
	if p1.OutputData["col"] != "GL-1" {
		t.Errorf("person 1 output data = %v", p1.OutputData)
	}
}

func TestApplyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Apply(ctx, threeGenerations(t), variants("x"), Options{}); err == nil {
		t.Error("Apply with canceled context succeeded")
	}
}
