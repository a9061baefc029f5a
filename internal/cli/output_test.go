package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemsafe/chemsafe/internal/chem"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))

	// Rune-aware, not byte-aware.
	assert.Equal(t, "°°°...", truncate("°°°°°", 3))
}

func TestPropertyLabel(t *testing.T) {
	assert.Equal(t, "Melting Point", propertyLabel("melting_point"))
	assert.Equal(t, "Name", propertyLabel("name"))
	assert.Equal(t, "Ghs Pictograms", propertyLabel("ghs_pictograms"))
}

func TestWriteChemicalText(t *testing.T) {
	c := &chem.Chemical{
		ID:         1,
		CASNumber:  "64-17-5",
		Name:       "ethanol",
		FlashPoint: "13 °C",
		TPSA:       20.23,
	}

	t.Run("default hides verbose categories", func(t *testing.T) {
		var buf bytes.Buffer
		writeChemicalText(&buf, c, false)

		out := buf.String()
		assert.Contains(t, out, "Identifiers")
		assert.Contains(t, out, "13 °C")
		assert.NotContains(t, out, "Tpsa")
	})

	t.Run("verbose shows chemical properties", func(t *testing.T) {
		var buf bytes.Buffer
		writeChemicalText(&buf, c, true)
		assert.Contains(t, buf.String(), "20.23")
	})

	t.Run("verbose classifies hazard codes", func(t *testing.T) {
		hazardous := &chem.Chemical{
			Name:             "ethanol",
			HazardStatements: "H225: Highly flammable liquid and vapour; H319: Causes serious eye irritation",
		}
		var buf bytes.Buffer
		writeChemicalText(&buf, hazardous, true)

		out := buf.String()
		assert.Contains(t, out, "Hazard Classification")
		assert.Contains(t, out, "[Physical]")
		assert.Contains(t, out, "[Health]")
	})

	t.Run("citation printed when source known", func(t *testing.T) {
		sourced := &chem.Chemical{
			Name:       "ethanol",
			SourceName: "PubChem",
			SourceURL:  "https://pubchem.ncbi.nlm.nih.gov/compound/702",
		}
		var buf bytes.Buffer
		writeChemicalText(&buf, sourced, false)
		assert.Contains(t, buf.String(), "Data retrieved from PubChem")
	})

	t.Run("long values are truncated", func(t *testing.T) {
		long := &chem.Chemical{Name: "x", HazardStatements: strings.Repeat("H", 300)}
		var buf bytes.Buffer
		writeChemicalText(&buf, long, false)
		assert.Contains(t, buf.String(), "...")
	})
}

func TestWriteChemicalTable(t *testing.T) {
	var buf bytes.Buffer
	writeChemicalTable(&buf, []*chem.Chemical{
		{ID: 1, CASNumber: "64-17-5", Name: "ethanol", Formula: "C2H6O", MolecularWeight: 46.07},
	})

	out := buf.String()
	assert.Contains(t, out, "CAS")
	assert.Contains(t, out, "64-17-5")
	assert.Contains(t, out, "46.07")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "eof declines", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirm(&out, strings.NewReader(tt.input), "Proceed?")
			assert.Equal(t, tt.want, got)
			require.Contains(t, out.String(), "[y/N]")
		})
	}
}
