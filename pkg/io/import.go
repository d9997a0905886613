package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/kinship"
	"github.com/matzehuels/mutmap/pkg/pedigree"
	"github.com/matzehuels/mutmap/pkg/vcf"
)

// ReadPedigree decodes a JSON array of pedigree records:
//
//	[{"individualId": 1, "sex": "male", "sampleIds": {"name": "S1"}}, ...]
//
// ReadPedigree does not build the graph; pass the records to
// [pedigree.BuildGraph]. It does not close r.
func ReadPedigree(r io.Reader) ([]pedigree.Record, error) {
	var records []pedigree.Record
	if err := decode(r, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadLayout decodes a kinship layout document and validates its shape.
func ReadLayout(r io.Reader) (*kinship.Data, error) {
	var data kinship.Data
	if err := decode(r, &data); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// ReadVariants decodes parsed variant-call data.
func ReadVariants(r io.Reader) (*vcf.Data, error) {
	var data vcf.Data
	if err := decode(r, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ImportPedigree reads pedigree records from the JSON file at path.
func ImportPedigree(path string) ([]pedigree.Record, error) {
	return importFile(path, ReadPedigree)
}

// ImportLayout reads a kinship layout from the JSON file at path.
func ImportLayout(path string) (*kinship.Data, error) {
	return importFile(path, ReadLayout)
}

// ImportVariants reads variant-call data from the JSON file at path.
func ImportVariants(path string) (*vcf.Data, error) {
	return importFile(path, ReadVariants)
}

func importFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	if err := errors.ValidatePath(path); err != nil {
		return zero, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return nil
}
