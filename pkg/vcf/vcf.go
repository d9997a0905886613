// Package vcf defines the parsed variant-call data mutmap consumes.
//
// Variant text is parsed elsewhere; this package only describes the parsed
// shape. A record keeps the fixed VCF columns, the INFO map and one format
// object per sample column, keyed by the sample name:
//
//	{
//	  "header":  {"sampleNames": ["GL-1", "LB-NA12878:Solexa-135852"]},
//	  "records": [{
//	    "CHROM": "1", "POS": 1234, "REF": "A", "ALT": "T",
//	    "INFO": {"DNL": "LB-NA12878:Solexa-135852", "DNT": "A>T"},
//	    "GL-1": {"GT": "0/1"},
//	    "LB-NA12878:Solexa-135852": {"AD": "3,9"}
//	  }]
//	}
package vcf

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// INFO fields written by the de-novo caller.
const (
	// InfoLocation names the sample (library) the mutation was called in.
	InfoLocation = "DNL"
	// InfoDescriptor holds the mutation descriptor, e.g. "A>T".
	InfoDescriptor = "DNT"
)

// Header is the parsed VCF header.
type Header struct {
	SampleNames []string `json:"sampleNames"`
}

// SampleData is the per-sample FORMAT object of a record.
type SampleData map[string]any

// Record is one parsed VCF data line.
type Record struct {
	Chrom  string
	Pos    int64
	ID     string
	Ref    string
	Alt    string
	Qual   string
	Filter string
	Format string
	Info   map[string]any

	// Samples maps sample column names to their format data.
	Samples map[string]SampleData
}

// Data is a parsed VCF file.
type Data struct {
	Header  Header   `json:"header"`
	Records []Record `json:"records"`
}

var fixedColumns = map[string]bool{
	"CHROM": true, "POS": true, "ID": true, "REF": true, "ALT": true,
	"QUAL": true, "FILTER": true, "FORMAT": true, "INFO": true,
}

// InfoString returns an INFO value as a string. List values are joined with
// commas, as they appear in VCF text. Flags (true) yield the key itself.
func (r *Record) InfoString(key string) (string, bool) {
	v, ok := r.Info[key]
	if !ok || v == nil {
		return "", false
	}
	if b, ok := v.(bool); ok {
		if !b {
			return "", false
		}
		return key, true
	}
	return scalarString(v), true
}

// Sample returns the format data of the named sample column.
func (r *Record) Sample(name string) (SampleData, bool) {
	s, ok := r.Samples[name]
	return s, ok
}

// UnmarshalJSON decodes a flat record object. Keys other than the fixed VCF
// columns whose values are objects are taken as sample columns.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{}
	for key, msg := range raw {
		if !fixedColumns[key] {
			var sample SampleData
			if err := json.Unmarshal(msg, &sample); err != nil {
				continue // not an object; not a sample column
			}
			if r.Samples == nil {
				r.Samples = make(map[string]SampleData)
			}
			r.Samples[key] = sample
			continue
		}

		if key == "INFO" {
			if err := json.Unmarshal(msg, &r.Info); err != nil {
				return fmt.Errorf("INFO: %w", err)
			}
			continue
		}

		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s := scalarString(v)
		switch key {
		case "CHROM":
			r.Chrom = s
		case "POS":
			if s != "" {
				pos, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return fmt.Errorf("POS: %w", err)
				}
				r.Pos = pos
			}
		case "ID":
			r.ID = s
		case "REF":
			r.Ref = s
		case "ALT":
			r.Alt = s
		case "QUAL":
			r.Qual = s
		case "FILTER":
			r.Filter = s
		case "FORMAT":
			r.Format = s
		}
	}
	return nil
}

// MarshalJSON encodes the record in the same flat shape UnmarshalJSON reads.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Samples)+9)
	for name, s := range r.Samples {
		out[name] = s
	}
	out["CHROM"] = r.Chrom
	out["POS"] = r.Pos
	out["INFO"] = r.Info
	for key, v := range map[string]string{
		"ID": r.ID, "REF": r.Ref, "ALT": r.Alt, "QUAL": r.Qual, "FILTER": r.Filter, "FORMAT": r.Format,
	} {
		if v != "" {
			out[key] = v
		}
	}
	return json.Marshal(out)
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = scalarString(e)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}
