package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"templegraph/backend/internal/graph"
)

// Theme holds the console styles for text reports
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color

	TitleStyle lipgloss.Style
	LabelStyle lipgloss.Style
	ValueStyle lipgloss.Style
	EmptyStyle lipgloss.Style
}

// NewTheme builds the styles on renderer so colors follow the output's capabilities
func NewTheme(renderer *lipgloss.Renderer) *Theme {
	theme := &Theme{
		Primary: lipgloss.Color("#FF9933"),
		Accent:  lipgloss.Color("#FFD966"),
		Muted:   lipgloss.Color("#805800"),
	}

	theme.TitleStyle = renderer.NewStyle().
		Bold(true).
		Foreground(theme.Primary).
		MarginTop(1)

	theme.LabelStyle = renderer.NewStyle().
		Foreground(theme.Muted).
		Width(22).
		PaddingLeft(2)

	theme.ValueStyle = renderer.NewStyle().
		Foreground(theme.Accent)

	theme.EmptyStyle = renderer.NewStyle().
		Foreground(theme.Muted).
		Italic(true).
		PaddingLeft(2)

	return theme
}

func (r *Reporter) writeStatsText(stats *graph.Stats) error {
	rows := []struct {
		label string
		count int64
	}{
		{"Temple nodes", stats.Temples},
		{"Region nodes", stats.Regions},
		{"Deity nodes", stats.Deities},
		{"Scripture nodes", stats.Scriptures},
		{"Style nodes", stats.ArchitecturalStyles},
		{"Festival nodes", stats.Festivals},
		{"Relationships", stats.Relationships},
	}

	lines := []string{r.theme.TitleStyle.Render("Graph Statistics")}
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			r.theme.LabelStyle.Render(row.label+":"),
			r.theme.ValueStyle.Render(fmt.Sprintf("%d", row.count)),
		))
	}

	_, err := fmt.Fprintln(r.out, strings.Join(lines, "\n"))
	return err
}

func (r *Reporter) writeQueriesText(results []QueryResult) error {
	var b strings.Builder
	for _, res := range results {
		b.WriteString(r.theme.TitleStyle.Render(res.Title + ":"))
		b.WriteString("\n")

		if len(res.Rows) == 0 {
			b.WriteString(r.theme.EmptyStyle.Render("(none)"))
			b.WriteString("\n")
			continue
		}

		for _, row := range res.Rows {
			b.WriteString("  - ")
			b.WriteString(r.theme.ValueStyle.Render(row[0]))
			if len(row) > 1 {
				b.WriteString(" ")
				b.WriteString(r.theme.LabelStyle.UnsetWidth().UnsetPaddingLeft().Render("(" + strings.Join(row[1:], ", ") + ")"))
			}
			b.WriteString("\n")
		}
	}

	_, err := fmt.Fprint(r.out, b.String())
	return err
}
