package vcf

import (
	"encoding/json"
	"testing"
)

const sampleJSON = `{
  "header": {"sampleNames": ["GL-1", "LB-NA12878:Solexa-135852"]},
  "records": [{
    "CHROM": "1", "POS": 1234, "ID": ".", "REF": "A", "ALT": ["T", "G"],
    "INFO": {"DNL": "LB-NA12878:Solexa-135852", "DNT": "A>T", "DNQ": 42, "SOMATIC": true},
    "GL-1": {"GT": "0/1"},
    "LB-NA12878:Solexa-135852": {"AD": "3,9"}
  }]
}`

func TestDecode(t *testing.T) {
	var d Data
	if err := json.Unmarshal([]byte(sampleJSON), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(d.Header.SampleNames) != 2 {
		t.Fatalf("len(SampleNames) = %d, want 2", len(d.Header.SampleNames))
	}
	if len(d.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(d.Records))
	}

	r := d.Records[0]
	if r.Chrom != "1" || r.Pos != 1234 || r.Ref != "A" || r.Alt != "T,G" {
		t.Errorf("fixed columns = %q %d %q %q", r.Chrom, r.Pos, r.Ref, r.Alt)
	}
	if len(r.Samples) != 2 {
		t.Errorf("len(Samples) = %d, want 2", len(r.Samples))
	}
	if s, ok := r.Sample("GL-1"); !ok || s["GT"] != "0/1" {
		t.Errorf("Sample(GL-1) = %v, %v", s, ok)
	}
}

func TestInfoString(t *testing.T) {
	var d Data
	if err := json.Unmarshal([]byte(sampleJSON), &d); err != nil {
		t.Fatal(err)
	}
	r := d.Records[0]

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{InfoLocation, "LB-NA12878:Solexa-135852", true},
		{InfoDescriptor, "A>T", true},
		{"DNQ", "42", true},
		{"SOMATIC", "SOMATIC", true},
		{"MISSING", "", false},
	}
	for _, tt := range tests {
		got, ok := r.InfoString(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("InfoString(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	in := Record{
		Chrom:   "2",
		Pos:     99,
		Ref:     "C",
		Alt:     "G",
		Info:    map[string]any{"DNT": "C>G"},
		Samples: map[string]SampleData{"GL-3": {"GT": "0/1"}},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Chrom != in.Chrom || out.Pos != in.Pos || out.Alt != in.Alt {
		t.Errorf("round trip = %+v", out)
	}
	if v, _ := out.InfoString("DNT"); v != "C>G" {
		t.Errorf("DNT = %q, want C>G", v)
	}
	if _, ok := out.Sample("GL-3"); !ok {
		t.Error("sample GL-3 lost in round trip")
	}
}
