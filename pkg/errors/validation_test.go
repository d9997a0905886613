package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/family.ped.json", false},
		{"absolute", "/tmp/layout.json", false},
		{"with spaces", "my data/vcf.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateSampleName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"person column", "GL-1", false},
		{"library column", "LB-NA12878:Solexa-135852", false},

		{"empty", "", true},
		{"prefix only", "GL-", true},
		{"space", "GL- 1", true},
		{"tab", "LB-a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSampleName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSampleName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
