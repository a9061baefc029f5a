package chem

import (
	"regexp"
	"strings"
)

// LD50/LC50 statements appear in free-form toxicity notes in several
// layouts, e.g. "LD50: 5628 mg/kg (Oral, rat)" or "LD50 Mouse iv 2.0 g/L".
// One pattern cannot cover them all, so each extractor tries a small set.
//
//nolint:gochecknoglobals // Compiled once
var (
	ld50Patterns = []*regexp.Regexp{
		regexp.MustCompile(`LD50.*?(\d+[\d.]*).*?(mg/kg|g/kg|mg/L|g/L).*?\(([^)]+)\)`),
		regexp.MustCompile(`LD50\s+(\w+)\s+(\w+)\s+([\d.]+)\s+(g/[lL]|mg/kg)`),
		regexp.MustCompile(`LD50:\s*([\d.]+)\s*(mg/kg|g/kg|mg/L|g/L).*?\(([^)]+)\)`),
	}

	lc50Patterns = []*regexp.Regexp{
		regexp.MustCompile(`LC50.*?(\d+[\d.]*).*?(ppm|mg/[lL]|g/[lL]|mg/m3|g/m3).*?\(([^)]+)\)`),
		regexp.MustCompile(`LC50\s+(\w+)\s+(\w+)\s+([\d.]+)\s+(g/cu m|ppm)`),
		regexp.MustCompile(`LC50.*?(\d+[\d.]*)\s*(ppm|mg/[lL]|g/cu m)`),
	}
)

// ExtractLD50 pulls LD50 statements out of free text and joins the distinct
// matches with "; ". Returns "" when the text carries no LD50 data.
func ExtractLD50(text string) string {
	return extractToxicityValues(text, ld50Patterns)
}

// ExtractLC50 pulls LC50 statements out of free text and joins the distinct
// matches with "; ". Returns "" when the text carries no LC50 data.
func ExtractLC50(text string) string {
	return extractToxicityValues(text, lc50Patterns)
}

func extractToxicityValues(text string, patterns []*regexp.Regexp) string {
	if text == "" {
		return ""
	}

	var values []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllString(text, -1) {
			value := strings.TrimSpace(match)
			if value != "" && !seen[value] {
				seen[value] = true
				values = append(values, value)
			}
		}
	}

	return strings.Join(values, "; ")
}

// Enrich fills the LD50 and LC50 fields from the acute toxicity notes when
// they are not already set. Existing values are never overwritten.
func Enrich(c *Chemical) {
	if c == nil || c.AcuteToxicityNotes == "" {
		return
	}

	if c.LD50 == "" {
		c.LD50 = ExtractLD50(c.AcuteToxicityNotes)
	}
	if c.LC50 == "" {
		c.LC50 = ExtractLC50(c.AcuteToxicityNotes)
	}
}
