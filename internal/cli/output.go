package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/neilotoole/jsoncolor"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chemsafe/chemsafe/internal/chem"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// Truncation limits for property values in text output. Verbose output
// allows longer values before cutting.
const (
	valueLimit        = 100
	verboseValueLimit = 500
)

//nolint:gochecknoglobals // Static display styles
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	titleCaser   = cases.Title(language.English)
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// printJSON writes v as indented JSON, colorized when w is a terminal that
// supports it.
func printJSON(w io.Writer, v any) error {
	if f, ok := w.(*os.File); ok && jsoncolor.IsColorTerminal(f) {
		enc := jsoncolor.NewEncoder(f)
		enc.SetColors(jsoncolor.DefaultColors())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to at most limit runes, marking the cut with an
// ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// propertyLabel renders a snake_case property name as a display label,
// e.g. "melting_point" becomes "Melting Point".
func propertyLabel(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// writeChemicalText renders a record grouped by display category. Verbose
// categories are skipped unless verbose is set.
func writeChemicalText(w io.Writer, c *chem.Chemical, verbose bool) {
	props := c.Properties()
	limit := valueLimit
	if verbose {
		limit = verboseValueLimit
	}

	for _, cat := range chem.DisplayCategories {
		if cat.Verbose && !verbose {
			continue
		}

		var lines []string
		for _, name := range cat.Properties {
			v, ok := props[name]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %s: %s",
				labelStyle.Render(propertyLabel(name)),
				truncate(fmt.Sprint(v), limit)))
		}
		if len(lines) == 0 {
			continue
		}

		fmt.Fprintln(w, headingStyle.Render(cat.Name))
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	if verbose {
		writeHazardClassification(w, c)
	}

	if c.SourceName != "" && c.SourceURL != "" {
		fmt.Fprintln(w, chem.FormatCitation(c.SourceName, c.SourceURL))
	}
}

// writeHazardClassification breaks the GHS hazard statements down into
// individual codes with their hazard class.
func writeHazardClassification(w io.Writer, c *chem.Chemical) {
	codes := chem.ExtractHazardCodes(c.HazardStatements)
	if len(codes) == 0 {
		return
	}

	fmt.Fprintln(w, headingStyle.Render("Hazard Classification"))
	for _, code := range sortedKeys(codes) {
		fmt.Fprintf(w, "  %s [%s]: %s\n",
			labelStyle.Render(code), chem.CategorizeHazard(code), codes[code])
	}
	fmt.Fprintln(w)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeChemicalTable renders records as a summary table.
func writeChemicalTable(w io.Writer, records []*chem.Chemical) {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tCAS\tNAME\tFORMULA\tMOL WEIGHT\tSIGNAL WORD")
	for _, c := range records {
		weight := ""
		if c.MolecularWeight != 0 {
			weight = fmt.Sprintf("%.2f", c.MolecularWeight)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.CASNumber, c.Name, c.Formula, weight, c.SignalWord)
	}
	_ = tw.Flush()
}
