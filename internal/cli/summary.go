package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gmendonca/selo/internal/engine"
	"github.com/gmendonca/selo/internal/model"
)

// RenderSummary formats the end-of-run report: row count, diagnostics, and
// the label distribution sorted by frequency.
func RenderSummary(diag engine.Diagnostics, counts map[model.Label]int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Classification summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d\n", BoldStyle.Render("Rows:"), diag.Rows))

	if diag.CappedPrices > 0 {
		b.WriteString(WarningStyle.Render(
			fmt.Sprintf("%d implausible price(s) treated as missing", diag.CappedPrices)))
		b.WriteString("\n")
	}
	if diag.CappedMeans > 0 {
		b.WriteString(WarningStyle.Render(
			fmt.Sprintf("%d category mean(s) discarded as unreliable", diag.CappedMeans)))
		b.WriteString("\n")
	}
	if diag.MissingPrices > 0 {
		b.WriteString(SubtleStyle.Render(
			fmt.Sprintf("%d row(s) without a usable price", diag.MissingPrices)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-64s %6s", "label", "count")))
	b.WriteString("\n")
	for _, lc := range sortedCounts(counts) {
		line := fmt.Sprintf("%-64s %6d", lc.label, lc.count)
		b.WriteString(labelStyle(lc.label).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

type labelCount struct {
	label model.Label
	count int
}

// sortedCounts orders labels by descending count, then name for stable output.
func sortedCounts(counts map[model.Label]int) []labelCount {
	out := make([]labelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, labelCount{label, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].label < out[j].label
	})
	return out
}

func labelStyle(label model.Label) lipgloss.Style {
	s := string(label)
	switch {
	case strings.HasPrefix(s, "pirata_provavel"), s == string(model.LabelDeclaredNotOriginal):
		return ErrorStyle
	case strings.HasPrefix(s, "avaliar_manual"):
		return WarningStyle
	case strings.HasPrefix(s, "original"):
		return SuccessStyle
	default:
		return SubtleStyle
	}
}
