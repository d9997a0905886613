package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mutmap/pkg/pedigree"
	"github.com/matzehuels/mutmap/pkg/pipeline"
)

// inspectCommand creates the inspect command, which prints the built pedigree
// as a person table or opens an interactive browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		inputs      inputFlags
		interactive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the persons, marriages and mutation of a pedigree",
		Long: `Show the persons, marriages and mutation of a pedigree.

Runs the same pipeline as 'build' and prints one row per person: sex, sample
leaves, the marriage they descend from, and the mutation on that parentage
link. With -i the table opens in an interactive browser that also shows each
person's sample tree and variant format data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), &inputs, opts, interactive)
		},
	}

	inputs.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse persons interactively")
	cmd.Flags().BoolVar(&opts.OverlayStrict, "strict-overlay", false, "fail when the mutation cannot be placed")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, flags *inputFlags, opts pipeline.Options, interactive bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	in, err := readInputs(ctx, flags.resolve(cfg))
	if err != nil {
		return err
	}
	layoutOptions(cfg, &opts)
	opts.Formats = []string{pipeline.FormatJSON}

	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	if interactive {
		model := NewPersonListModel(result.Pedigree.Persons())
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
		return err
	}

	fmt.Println(renderPersonTable(personRows(result.Pedigree.Persons()), -1))
	printStats(result.Stats.Persons, result.Stats.Marriages, result.Stats.Links, false)
	if result.Overlay.Applied {
		printMutation(int(result.Overlay.OwnerID()), result.Overlay.Mutation)
	}
	for _, notice := range result.Notices() {
		printWarning("%s", notice)
	}
	return nil
}

// =============================================================================
// Person Rows
// =============================================================================

// personRow is one display row of the person table.
type personRow struct {
	ID       string
	Sex      string
	Samples  string
	Parents  string
	Mutation string
	Data     string
}

func (r personRow) cells() []string {
	return []string{r.ID, r.Sex, r.Samples, r.Parents, r.Mutation, r.Data}
}

var personHeaders = []string{"ID", "Sex", "Samples", "Parents", "Mutation", "Data"}

const emptyCell = "—"

// personRows builds one row per person, in graph order.
func personRows(persons []*pedigree.Person) []personRow {
	rows := make([]personRow, len(persons))
	for i, p := range persons {
		rows[i] = personRow{
			ID:       strconv.Itoa(int(p.ID())),
			Sex:      p.Sex().String(),
			Samples:  orEmpty(strings.Join(leafNames(p.SampleIDs()), ", ")),
			Parents:  emptyCell,
			Mutation: emptyCell,
			Data:     emptyCell,
		}
		if link, ok := p.ParentageLink(); ok {
			father, mother := link.Marriage().Parents()
			rows[i].Parents = fmt.Sprintf("%d × %d", father.ID(), mother.ID())
			if m, ok := link.Mutation(); ok {
				rows[i].Mutation = m
			}
		}
		if n := annotatedSamples(p); n > 0 {
			rows[i].Data = fmt.Sprintf("%d", n)
		}
	}
	return rows
}

// annotatedSamples counts the person's own format data plus every sample
// node carrying format data.
func annotatedSamples(p *pedigree.Person) int {
	n := 0
	if p.OutputData != nil {
		n++
	}
	var walk func(s *pedigree.SampleNode)
	walk = func(s *pedigree.SampleNode) {
		if s == nil {
			return
		}
		if s.OutputData != nil {
			n++
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(p.SampleIDs())
	return n
}

func leafNames(tree *pedigree.SampleNode) []string {
	var names []string
	for _, leaf := range tree.Leaves() {
		names = append(names, leaf.Name)
	}
	return names
}

func orEmpty(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}

// renderPersonTable renders rows as a bordered table. The row at cursor, if
// any, is highlighted; mutated rows are always highlighted in red.
func renderPersonTable(rows []personRow, cursor int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(personHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			if rows[row].Mutation != emptyCell && col == 4 {
				base = base.Foreground(colorRed).Bold(true)
			} else if col == 5 || col == 3 {
				base = base.Foreground(colorGray)
			}
			if row == cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})
	return t.Render()
}
