// Package pipeline provides the mutmap graph pipeline.
//
// This package implements the complete build → layout → overlay → render
// pipeline used by the CLI and the API server, so both entry points share
// one behavior.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: construct the pedigree graph from flat records
//  2. Layout: map the kinship layout onto positioned nodes and links
//  3. Overlay: attach the de-novo mutation of the first variant record
//  4. Render: produce artifacts (graph JSON, DOT, SVG)
//
// Stages 1 to 3 are cheap, deterministic and always run. Rendered artifacts
// are cached by the hash of the graph JSON.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Inputs{
//	    Records:  records,
//	    Layout:   kinshipData,
//	    Variants: variants,
//	}, pipeline.Options{Formats: []string{"json", "svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mutmap/pkg/cache"
	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/kinship"
	"github.com/matzehuels/mutmap/pkg/layout"
	"github.com/matzehuels/mutmap/pkg/overlay"
	"github.com/matzehuels/mutmap/pkg/pedigree"
	"github.com/matzehuels/mutmap/pkg/vcf"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Inputs and Options
// =============================================================================

// Inputs are the three already-parsed pipeline inputs. Variants is optional.
type Inputs struct {
	Records  []pedigree.Record `json:"pedigree"`
	Layout   *kinship.Data     `json:"layout"`
	Variants *vcf.Data         `json:"variants,omitempty"`
}

// Validate checks that the required inputs are present.
func (in *Inputs) Validate() error {
	if len(in.Records) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pedigree records are required")
	}
	if in.Layout == nil {
		return errors.New(errors.ErrCodeInvalidInput, "layout is required")
	}
	return nil
}

// Options configures a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	ColumnSpacing float64 `json:"column_spacing,omitempty"`
	RowSpacing    float64 `json:"row_spacing,omitempty"`

	// OverlayStrict fails the run when the mutation cannot be placed instead
	// of reporting the "no mutation found" notice.
	OverlayStrict bool `json:"overlay_strict,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pedigree is the pedigree graph, with marriages and overlay output.
	Pedigree *pedigree.Graph

	// Graph is the positioned node/link structure.
	Graph *graph.Graph

	// Overlay reports the mutation overlay; zero when no variants were given.
	Overlay overlay.Report

	// GraphHash is the content hash of the graph JSON.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Notices returns the user-visible notices of the run.
func (r *Result) Notices() []string {
	if r.Overlay.Notice == "" {
		return nil
	}
	return []string{r.Overlay.Notice}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Persons     int
	Marriages   int
	Nodes       int
	Links       int
	BuildTime   time.Duration
	LayoutTime  time.Duration
	OverlayTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	lo := o.LayoutOptions()
	if err := lo.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.ColumnSpacing, o.RowSpacing = lo.ColumnSpacing, lo.RowSpacing

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutOptions returns the layout mapper options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{ColumnSpacing: o.ColumnSpacing, RowSpacing: o.RowSpacing}
}

// OverlayOptions returns the overlay options.
func (o *Options) OverlayOptions() overlay.Options {
	return overlay.Options{Logger: o.Logger}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
