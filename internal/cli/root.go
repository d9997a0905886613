package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mutmap/internal/config"
	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/io"
	"github.com/matzehuels/mutmap/pkg/pipeline"
)

// loadConfig reads the --config file, or ./mutmap.toml when present, and
// applies .env and environment overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	cfg.LoadEnv(c.Logger)
	return cfg, nil
}

// inputFlags are the input file flags shared by build, inspect and export.
// Flags override the [inputs] section of the config file.
type inputFlags struct {
	pedigree string
	layout   string
	variants string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.pedigree, "pedigree", "p", "", "parsed pedigree JSON file")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "kinship layout JSON file")
	cmd.Flags().StringVar(&f.variants, "variants", "", "parsed variant-call JSON file (optional)")
}

// resolve merges the flags over cfg.Inputs.
func (f *inputFlags) resolve(cfg *config.Config) config.Inputs {
	in := cfg.Inputs
	if f.pedigree != "" {
		in.Pedigree = f.pedigree
	}
	if f.layout != "" {
		in.Layout = f.layout
	}
	if f.variants != "" {
		in.Variants = f.variants
	}
	return in
}

// readInputs imports the files named by paths.
func readInputs(ctx context.Context, paths config.Inputs) (pipeline.Inputs, error) {
	if paths.Pedigree == "" || paths.Layout == "" {
		return pipeline.Inputs{}, errors.New(errors.ErrCodeInvalidInput,
			"both a pedigree and a layout file are required (--pedigree, --layout or [inputs] in the config)")
	}
	if err := ctx.Err(); err != nil {
		return pipeline.Inputs{}, err
	}

	records, err := io.ImportPedigree(paths.Pedigree)
	if err != nil {
		return pipeline.Inputs{}, fmt.Errorf("load pedigree %s: %w", paths.Pedigree, err)
	}
	layout, err := io.ImportLayout(paths.Layout)
	if err != nil {
		return pipeline.Inputs{}, fmt.Errorf("load layout %s: %w", paths.Layout, err)
	}
	in := pipeline.Inputs{Records: records, Layout: layout}
	if paths.Variants != "" {
		variants, err := io.ImportVariants(paths.Variants)
		if err != nil {
			return pipeline.Inputs{}, fmt.Errorf("load variants %s: %w", paths.Variants, err)
		}
		in.Variants = variants
	}
	return in, nil
}

// layoutOptions copies the config's spacing into opts where opts is unset.
func layoutOptions(cfg *config.Config, opts *pipeline.Options) {
	if opts.ColumnSpacing == 0 {
		opts.ColumnSpacing = cfg.Layout.ColumnSpacing
	}
	if opts.RowSpacing == 0 {
		opts.RowSpacing = cfg.Layout.RowSpacing
	}
}
