package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/pipeline"
	"github.com/matzehuels/mutmap/pkg/store/neo4j"
)

// exportCommand creates the export command group.
func (c *CLI) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a built pedigree to an external system",
	}
	cmd.AddCommand(c.exportNeo4jCommand())
	return cmd
}

// exportNeo4jCommand creates the "export neo4j" subcommand.
func (c *CLI) exportNeo4jCommand() *cobra.Command {
	var (
		inputs   inputFlags
		dataset  string
		uri      string
		user     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "neo4j",
		Short: "Load the pedigree data graph into Neo4j",
		Long: `Load the pedigree data graph into Neo4j.

Persons become (:Person) nodes and marriages (:Marriage) nodes linked by
[:SPOUSE_OF]; each child is linked to its parents' marriage by [:CHILD_OF],
carrying the mutation descriptor when one was attached. All nodes are tagged
with the dataset name; exporting a dataset again replaces it.`,
		Example: `  mutmap export neo4j -p family.pedigree.json -l family.layout.json --variants family.vcf.json \
    --uri neo4j://localhost:7687 --dataset family`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExportNeo4j(cmd.Context(), &inputs, dataset, uri, user, password)
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (default: pedigree file name)")
	cmd.Flags().StringVar(&uri, "uri", "", "Neo4j URI (default from [neo4j] or MUTMAP_NEO4J_URI)")
	cmd.Flags().StringVar(&user, "user", "", "Neo4j user")
	cmd.Flags().StringVar(&password, "password", "", "Neo4j password")

	return cmd
}

func (c *CLI) runExportNeo4j(ctx context.Context, flags *inputFlags, dataset, uri, user, password string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if uri == "" {
		uri = cfg.Neo4j.URI
	}
	if user == "" {
		user = cfg.Neo4j.User
	}
	if password == "" {
		password = cfg.Neo4j.Password
	}
	if uri == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no Neo4j URI (use --uri, [neo4j] uri or MUTMAP_NEO4J_URI)")
	}

	paths := flags.resolve(cfg)
	in, err := readInputs(ctx, paths)
	if err != nil {
		return err
	}
	if dataset == "" {
		dataset = filepath.Base(basePath(paths.Pedigree))
	}

	opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}
	layoutOptions(cfg, &opts)
	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	exporter, err := neo4j.NewExporter(connectCtx, uri, user, password, c.Logger)
	cancel()
	if err != nil {
		return err
	}
	defer exporter.Close(context.Background())

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s to Neo4j...", dataset))
	spinner.Start()
	if err := exporter.Export(ctx, result.Pedigree, dataset); err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("export neo4j: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Exported %d persons", result.Stats.Persons))

	printSuccess("Exported dataset %s", StyleValue.Render(dataset))
	printStats(result.Stats.Persons, result.Stats.Marriages, result.Stats.Links, false)
	for _, notice := range result.Notices() {
		printWarning("%s", notice)
	}
	return nil
}
