package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/upstreamer/pkg/pipeline"
	"github.com/matzehuels/upstreamer/pkg/reconcile"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// certaintyStyles colours a certainty word from dim (possible) to green
// (certain).
var certaintyStyles = map[upstream.Certainty]lipgloss.Style{
	upstream.Certain:   lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	upstream.Confident: lipgloss.NewStyle().Foreground(colorGreen),
	upstream.Likely:    lipgloss.NewStyle().Foreground(colorCyan),
	upstream.Possible:  lipgloss.NewStyle().Foreground(colorYellow),
}

func renderCertainty(c upstream.Certainty) string {
	if style, ok := certaintyStyles[c]; ok {
		return style.Render(c.String())
	}
	return StyleDim.Render(c.String())
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// =============================================================================
// Records
// =============================================================================

// recordTable renders the record as a bordered table, one row per field.
func recordTable(rec *upstream.Record) string {
	var rows [][]string
	for f, e := range rec.All() {
		rows = append(rows, []string{
			f.String(),
			e.Value.String(),
			renderCertainty(e.Certainty),
			e.Origin.String(),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Field", "Value", "Certainty", "Origin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func printProblems(w io.Writer, problems []reconcile.Problem) {
	for _, p := range problems {
		printWarning(w, "%s", p)
	}
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints a one-line summary of a run.
func printStats(w io.Writer, result *pipeline.Result) {
	hits := 0
	for _, hit := range result.CacheHits {
		if hit {
			hits++
		}
	}
	parts := []string{
		fmt.Sprintf("%d artifacts", len(result.Artifacts)),
		fmt.Sprintf("%d guesses", len(result.Guesses)),
		fmt.Sprintf("%d fields", result.Record.Len()),
	}
	status := styleComputed.Render(iconFresh)
	if hits > 0 && hits == len(result.Artifacts) {
		status = styleCached.Render(iconCached)
	} else if hits > 0 {
		status = styleCached.Render(fmt.Sprintf("%d %s", hits, iconCached))
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			line.WriteString(StyleDim.Render(" · "))
		}
		line.WriteString(StyleDim.Render(part))
	}
	line.WriteString(StyleDim.Render(" · ") + status)
	fmt.Fprintln(w, line.String())
}
