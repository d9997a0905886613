package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/io"
	"github.com/matzehuels/mutmap/pkg/pipeline"
)

// buildCommand creates the build command, which runs the full pipeline and
// writes the requested artifacts.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		inputs     inputFlags
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the pedigree graph and attach the de-novo mutation",
		Long: `Build the pedigree graph and attach the de-novo mutation.

The build command reads a parsed pedigree, a precomputed kinship layout and,
optionally, parsed de-novo variant calls. It maps the layout onto person and
marriage nodes, attaches the mutation of the first variant record to the
parentage link of its owner, and writes the graph as JSON, DOT or SVG.

An unresolved mutation owner is reported as a warning; the graph is still
written. Rendered artifacts are cached locally.`,
		Example: `  mutmap build -p family.pedigree.json -l family.layout.json --variants family.vcf.json
  mutmap build -c mutmap.toml -f json,svg -o out/family`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), &inputs, opts, output, noCache)
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show sample names and per-person format data in DOT/SVG labels")
	cmd.Flags().BoolVar(&opts.OverlayStrict, "strict-overlay", false, "fail when the mutation cannot be placed")
	cmd.Flags().Float64Var(&opts.ColumnSpacing, "column-spacing", 0, "horizontal spacing per layout position (default 80)")
	cmd.Flags().Float64Var(&opts.RowSpacing, "row-spacing", 0, "vertical spacing per generation (default 100)")

	return cmd
}

// runBuild loads the inputs, runs the pipeline and writes the artifacts.
func (c *CLI) runBuild(ctx context.Context, flags *inputFlags, opts pipeline.Options, output string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	paths := flags.resolve(cfg)
	in, err := readInputs(ctx, paths)
	if err != nil {
		return err
	}
	layoutOptions(cfg, &opts)

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Building pedigree graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	written, err := writeArtifacts(artifactWriteParams{
		graph:     result.Graph,
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     paths.Pedigree,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Graph built")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.Persons, result.Stats.Marriages, result.Stats.Links, result.CacheInfo.RenderHit)
	if result.Overlay.Applied {
		printMutation(int(result.Overlay.OwnerID()), result.Overlay.Mutation)
	}
	for _, notice := range result.Notices() {
		printWarning("%s", notice)
	}
	if n := len(result.Overlay.Unmatched); n > 0 {
		printDetail("%d sample column(s) matched nobody: %s", n, strings.Join(result.Overlay.Unmatched, ", "))
	}
	printNewline()
	printNextStep("Inspect", fmt.Sprintf("%s inspect -p %s -l %s", appName, paths.Pedigree, paths.Layout))

	return nil
}

// artifactWriteParams describes where build output goes.
type artifactWriteParams struct {
	graph     *graph.Graph // when set, JSON is exported from the graph itself
	artifacts map[string][]byte
	formats   []string
	input     string // pedigree path, used to derive the default base path
	output    string
}

// writeArtifacts writes one file per format and returns the paths written.
// A single format with an explicit output is written to exactly that path;
// otherwise files are named <base>.<format>, where base is the output or the
// pedigree path without its extension(s).
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	formats := append([]string(nil), p.formats...)
	sort.Strings(formats)

	if len(formats) == 1 && p.output != "" {
		if err := p.write(formats[0], p.output); err != nil {
			return nil, err
		}
		return []string{p.output}, nil
	}

	base := p.output
	if base == "" {
		base = basePath(p.input)
	}
	var written []string
	for _, format := range formats {
		path := base + "." + format
		if err := p.write(format, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (p artifactWriteParams) write(format, path string) error {
	if format == pipeline.FormatJSON && p.graph != nil {
		if err := ensureDir(path); err != nil {
			return err
		}
		if err := io.ExportGraph(p.graph, path); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		return nil
	}
	data, ok := p.artifacts[format]
	if !ok {
		return errors.New(errors.ErrCodeInternal, "no %s artifact produced", format)
	}
	return writeFile(path, data)
}

// basePath strips ".json" and a ".pedigree" infix: family.pedigree.json
// becomes family.
func basePath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return strings.TrimSuffix(base, ".pedigree")
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}
