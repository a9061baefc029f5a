package chem

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

//nolint:gochecknoglobals // Compiled once
var (
	casPattern      = regexp.MustCompile(`(\d{1,7})-(\d{2})-(\d)`)
	casExactPattern = regexp.MustCompile(`^\d{1,7}-\d{2}-\d$`)
	propertyPattern = regexp.MustCompile(`([-+]?\d*\.?\d+)\s*([^\d\s].*)?`)
	hazardCode      = regexp.MustCompile(`H\d{3}(?:\+H\d{3})*`)
	precautionCode  = regexp.MustCompile(`P\d{3}(?:\+P\d{3})*`)
)

// ParseCASNumber extracts a checksum-valid CAS registry number from text.
// Returns "" when no valid CAS number is present.
func ParseCASNumber(text string) string {
	match := casPattern.FindString(text)
	if match == "" || !IsValidCAS(match) {
		return ""
	}
	return match
}

// IsValidCAS validates a CAS registry number (XXXXXXX-YY-Z) against its
// checksum digit.
func IsValidCAS(casNumber string) bool {
	if !casExactPattern.MatchString(casNumber) {
		return false
	}

	parts := strings.Split(casNumber, "-")
	checkDigit, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}

	digits := parts[0] + parts[1]
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * (len(digits) - i)
	}

	return sum%10 == checkDigit
}

// ParsePhysicalProperty splits text like "100.5 °C" or "1.2 g/cm³" into a
// numeric value and a unit. The unit may be empty; ok is false when no
// number is present at all.
func ParsePhysicalProperty(text string) (value float64, unit string, ok bool) {
	match := propertyPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, "", false
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, "", false
	}

	return value, strings.TrimSpace(match[2]), true
}

// ConvertToStandardUnit converts a physical property to its standard unit:
// temperatures to K, pressures to Pa, densities to g/cm³. Unknown units or
// property types pass through unchanged.
func ConvertToStandardUnit(value float64, unit, propertyType string) (float64, string) {
	switch propertyType {
	case "temperature":
		switch unit {
		case "°C", "C":
			return value + 273.15, "K"
		case "°F", "F":
			return (value-32)*5/9 + 273.15, "K"
		case "K":
			return value, "K"
		}
	case "pressure":
		switch unit {
		case "atm":
			return value * 101325, "Pa"
		case "mmHg", "torr":
			return value * 133.322, "Pa"
		case "bar":
			return value * 100000, "Pa"
		case "psi":
			return value * 6894.76, "Pa"
		case "Pa":
			return value, "Pa"
		}
	case "density":
		switch unit {
		case "kg/m³":
			return value / 1000, "g/cm³"
		case "g/cm³", "g/cc", "g/mL":
			return value, "g/cm³"
		}
	}

	return value, unit
}

// ExtractHazardCodes maps GHS H-codes (including combined codes like
// H315+H319) to their descriptions in free text.
func ExtractHazardCodes(text string) map[string]string {
	return extractCodes(text, hazardCode)
}

// ExtractPrecautionaryCodes maps GHS P-codes to their descriptions in free
// text.
func ExtractPrecautionaryCodes(text string) map[string]string {
	return extractCodes(text, precautionCode)
}

// extractCodes finds every code occurrence and takes the text between one
// code and the next (or end of line) as its description, after trimming the
// separator. RE2 has no lookahead, so this works on match indices instead
// of the lookahead the statement format suggests.
func extractCodes(text string, codeRe *regexp.Regexp) map[string]string {
	codes := map[string]string{}
	if text == "" {
		return codes
	}

	locs := codeRe.FindAllStringIndex(text, -1)
	for i, loc := range locs {
		code := text[loc[0]:loc[1]]

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		desc := text[loc[1]:end]
		if nl := strings.IndexByte(desc, '\n'); nl >= 0 {
			desc = desc[:nl]
		}

		desc = strings.TrimLeft(desc, " \t")
		desc = strings.TrimLeft(desc, ":;-")
		desc = strings.Trim(desc, " \t")
		desc = strings.TrimRight(desc, ";,")
		desc = strings.TrimSpace(desc)

		if desc != "" {
			codes[code] = desc
		}
	}

	return codes
}

// CategorizeHazard classifies a GHS hazard code as Physical (H2xx),
// Health (H3xx), or Environmental (H4xx).
func CategorizeHazard(code string) string {
	if !strings.HasPrefix(code, "H") {
		return "Unknown"
	}

	// Combined codes like H315+H319 categorize by their first code.
	first := strings.SplitN(code[1:], "+", 2)[0]
	num, err := strconv.Atoi(first)
	if err != nil {
		return "Unknown"
	}

	switch {
	case num >= 200 && num <= 290:
		return "Physical"
	case num >= 300 && num <= 373:
		return "Health"
	case num >= 400 && num <= 420:
		return "Environmental"
	default:
		return "Unknown"
	}
}

//nolint:gochecknoglobals // Compiled once
var (
	namePrefixes    = []string{"n-", "tert-", "sec-", "iso-", "cis-", "trans-"}
	nonWordPattern  = regexp.MustCompile(`[^\w\s]`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeName lowercases a chemical name, strips common structural
// prefixes, and collapses punctuation and whitespace, for consistent
// searching.
func NormalizeName(name string) string {
	normalized := strings.ToLower(name)

	for _, prefix := range namePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}

	normalized = nonWordPattern.ReplaceAllString(normalized, " ")
	normalized = multiSpaceRegex.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// Variations returns alternative names worth trying when a database lookup
// for a common chemical misses (e.g. "ethyl alcohol" for "ethanol").
func Variations(name string) []string {
	known := [][]string{
		{"water", "oxidane", "H2O"},
		{"ethanol", "ethyl alcohol", "C2H6O", "alcohol"},
		{"hydrochloric acid", "chlorane", "HCl"},
		{"methanol", "methyl alcohol", "CH3OH", "wood alcohol"},
		{"acetone", "propanone", "dimethyl ketone"},
		{"benzene", "C6H6"},
	}

	lower := strings.ToLower(name)
	for _, group := range known {
		for _, variant := range group {
			if strings.ToLower(variant) == lower {
				var others []string
				for _, v := range group {
					if strings.ToLower(v) != lower {
						others = append(others, v)
					}
				}
				return others
			}
		}
	}
	return nil
}

// FormatCitation renders the provenance line recorded alongside exported
// data.
func FormatCitation(sourceName, sourceURL string) string {
	return fmt.Sprintf("Data retrieved from %s (%s) on %s",
		sourceName, sourceURL, time.Now().Format("2006-01-02"))
}
