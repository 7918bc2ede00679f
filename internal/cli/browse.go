package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "browse [dir]",
		Short: "Explore a project's metadata and every guess behind it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.runPipeline(cmd.Context(), dirArg(args), &flags)
			if err != nil {
				return err
			}
			if result.Record.Len() == 0 {
				printInfo(c.Out, "No upstream metadata found in %d artifacts", len(result.Artifacts))
				return nil
			}
			p := tea.NewProgram(NewRecordModel(result.Record, result.Guesses),
				tea.WithContext(cmd.Context()), tea.WithOutput(c.Out))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// RecordModel - Interactive record browser
// =============================================================================

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// RecordModel is the bubbletea model for browsing a record. The upper
// table lists the fields; the box below shows the selected field's
// winning entry and every guess made for it.
type RecordModel struct {
	Record *upstream.Record
	Fields []upstream.Field
	Cursor int
	Offset int
	Height int

	guesses map[upstream.Field][]upstream.Guess
}

// NewRecordModel creates a browser over rec and the guesses that built it.
func NewRecordModel(rec *upstream.Record, guesses []upstream.Guess) RecordModel {
	m := RecordModel{
		Record:  rec,
		Fields:  rec.Fields(),
		Height:  12,
		guesses: make(map[upstream.Field][]upstream.Guess),
	}
	for _, g := range guesses {
		m.guesses[g.Field()] = append(m.guesses[g.Field()], g)
	}
	return m
}

func (m RecordModel) Init() tea.Cmd {
	return nil
}

func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = min(m.Offset, m.Cursor)
			}
		case "down", "j":
			if m.Cursor < len(m.Fields)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Fields)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		// Leave room for the title and the detail box.
		m.Height = max(msg.Height-16, 5)
	}
	return m, nil
}

func (m RecordModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Upstream Metadata"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Fields))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		f := m.Fields[i]
		e, _ := m.Record.Get(f)
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, f.String(), truncateCell(e.Value.String(), 48), e.Certainty.String(), fmt.Sprint(len(m.guesses[f]))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Field", "Value", "Certainty", "Guesses").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 || col == 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Fields) > 0 {
		b.WriteString(detailBoxStyle.Render(m.detail(m.Fields[m.Cursor])))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Fields))))

	return b.String()
}

// detail describes the chosen entry for f and lists the guesses behind it.
func (m RecordModel) detail(f upstream.Field) string {
	e, _ := m.Record.Get(f)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", StyleTitle.Render(f.String()), StyleValue.Render(e.Value.String()))
	fmt.Fprintf(&b, "%s from %s\n", renderCertainty(e.Certainty), e.Origin)
	if e.Note != "" {
		b.WriteString(listDimStyle.Render(e.Note))
		b.WriteString("\n")
	}
	if gs := m.guesses[f]; len(gs) > 0 {
		b.WriteString("\n")
		for _, g := range gs {
			marker := "  "
			if g.Value().Key() == e.Value.Key() {
				marker = styleIconSuccess.Render(iconSuccess) + " "
			}
			fmt.Fprintf(&b, "%s%-10s %-28s %s\n", marker, g.Certainty(), g.Origin(), truncateCell(g.Value().String(), 40))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncateCell(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
