package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mutmap/pkg/pedigree"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray)
	detailPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// PersonListModel - Interactive pedigree browser
// =============================================================================

// PersonListModel is the bubbletea model for browsing the persons of a
// pedigree. The selected person's sample tree and format data are shown
// below the table.
type PersonListModel struct {
	Persons []*pedigree.Person
	Rows    []personRow
	Cursor  int
	Height  int
	Offset  int
}

// NewPersonListModel creates a new person list model.
func NewPersonListModel(persons []*pedigree.Person) PersonListModel {
	return PersonListModel{
		Persons: persons,
		Rows:    personRows(persons),
		Height:  12,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "m":
			m.jumpToMutation()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 16
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// jumpToMutation moves the cursor to the first person carrying a mutation.
func (m *PersonListModel) jumpToMutation() {
	for i, r := range m.Rows {
		if r.Mutation != emptyCell {
			m.Cursor = i
			if m.Cursor < m.Offset || m.Cursor >= m.Offset+m.Height {
				m.Offset = max(0, m.Cursor-m.Height/2)
			}
			return
		}
	}
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pedigree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  m jump to mutation  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no persons"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(renderPersonTable(m.Rows[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n")
	b.WriteString(detailPaneStyle.Render(personDetail(m.Persons[m.Cursor])))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// personDetail renders the sample tree and format data of p.
func personDetail(p *pedigree.Person) string {
	var b strings.Builder
	b.WriteString(StyleValue.Render(fmt.Sprintf("Person %d", p.ID())))
	b.WriteString(StyleDim.Render(" (" + p.Sex().String() + ")"))
	b.WriteString("\n")
	if p.OutputData != nil {
		b.WriteString(detailKeyStyle.Render("format  "))
		b.WriteString(formatData(p.OutputData))
		b.WriteString("\n")
	}
	writeSampleTree(&b, p.SampleIDs(), 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeSampleTree(b *strings.Builder, n *pedigree.SampleNode, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(StyleDim.Render("└ "))
	b.WriteString(n.Name)
	if n.OutputData != nil {
		b.WriteString("  ")
		b.WriteString(formatData(n.OutputData))
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		writeSampleTree(b, c, depth+1)
	}
}

// formatData renders format data as sorted key=value pairs.
func formatData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return StyleHighlight.Render(strings.Join(parts, " "))
}
