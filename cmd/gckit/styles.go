package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/gckit/gc"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFA500")
	mutedColor   = lipgloss.Color("#666666")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(successColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warningColor)
)

// row is one label/value line of a report section.
type row struct {
	Label string
	Value string
	Warn  bool
}

func kv(label string, value any) row {
	return row{Label: label, Value: fmt.Sprint(value)}
}

// renderSection renders a titled block of rows, styled unless --no-color is set.
func renderSection(title string, rows []row) string {
	var b strings.Builder
	if noColor {
		b.WriteString(title + "\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "  %-22s %s\n", r.Label+":", r.Value)
		}
		return b.String()
	}

	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	for _, r := range rows {
		vs := valueStyle
		if r.Warn {
			vs = warnStyle
		}
		b.WriteString("  " + labelStyle.Render(r.Label+":") + " " + vs.Render(r.Value) + "\n")
	}
	return b.String()
}

// statsRows turns collector counters into report rows.
func statsRows(st gc.Stats) []row {
	return []row{
		kv("Objects", st.Objects),
		kv("Active", st.Active),
		kv("Free", st.Free),
		kv("Roots", st.Roots),
		kv("Protected", st.Protected),
		kv("Allocations", st.Allocs),
		{Label: "Exhausted", Value: fmt.Sprint(st.Exhausted), Warn: st.Exhausted > 0},
		kv("Collections", st.Collections),
		kv("Implicit collections", st.ImplicitCollections),
		kv("Marked", st.Marked),
		kv("Swept", st.Swept),
	}
}
