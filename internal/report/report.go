// Package report renders extraction results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lintindex/rules-index/internal/domain"
	"github.com/lintindex/rules-index/internal/extractor"
)

var (
	accent  = lipgloss.Color("#4B32C3") // eslint purple
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	okStyle      = lipgloss.NewStyle().Foreground(success)
	warnTagStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
)

// Summary returns the one-line completion message
func Summary(result *extractor.Result) string {
	return fmt.Sprintf("Wrote %d rules (%d plugin(s)) to %s", len(result.Catalog.Rules), result.PluginCount(), result.OutPath)
}

// Render writes the styled summary box, the package table and any warnings
func Render(w io.Writer, result *extractor.Result) error {
	var b strings.Builder

	header := titleStyle.Render("rules-index extract") + "\n" +
		okStyle.Render(fmt.Sprintf("%d rules", len(result.Catalog.Rules))) +
		dimStyle.Render(fmt.Sprintf("  from %d package(s)", result.PluginCount()))
	if n := len(result.Warnings); n > 0 {
		header += "  " + warnTagStyle.Render(fmt.Sprintf("%d warnings", n))
	}
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if err := PackageTable(w, result.Packages); err != nil {
		return err
	}

	if len(result.Warnings) > 0 {
		var wb strings.Builder
		wb.WriteString("\n")
		for _, warn := range result.Warnings {
			wb.WriteString("  ")
			wb.WriteString(warnTagStyle.Render(string(warn.Kind)))
			wb.WriteString(" ")
			wb.WriteString(warn.Package)
			wb.WriteString(dimStyle.Render(": " + warn.Message))
			wb.WriteString("\n")
		}
		if _, err := io.WriteString(w, wb.String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "\n"+Summary(result))
	return err
}

// PackageTable renders one row per contributing package
func PackageTable(w io.Writer, packages []domain.PackageSummary) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Package", "Version", "Prefix", "Rules"})
	total := 0
	for _, p := range packages {
		prefix := p.Prefix
		if p.Core {
			prefix = "(core)"
		}
		version := p.Version
		if version == "" {
			version = "-"
		}
		t.AppendRow(table.Row{p.Name, version, prefix, p.RuleCount})
		total += p.RuleCount
	}
	t.AppendFooter(table.Row{"", "", "Total", total})

	t.Render()
	return nil
}
