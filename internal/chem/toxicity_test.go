package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLD50(t *testing.T) {
	t.Run("labelled with species", func(t *testing.T) {
		got := ExtractLD50("LD50: 5628 mg/kg (Oral, rat)")
		assert.Contains(t, got, "5628")
		assert.Contains(t, got, "mg/kg")
	})

	t.Run("inline species format", func(t *testing.T) {
		got := ExtractLD50("LD50 Mouse iv 2.0 g/L")
		assert.Contains(t, got, "2.0 g/L")
	})

	t.Run("multiple distinct values joined", func(t *testing.T) {
		text := "LD50: 5628 mg/kg (Oral, rat). Other studies: LD50 Mouse iv 2.0 g/L"
		got := ExtractLD50(text)
		assert.Contains(t, got, "; ")
	})

	t.Run("no data", func(t *testing.T) {
		assert.Empty(t, ExtractLD50(""))
		assert.Empty(t, ExtractLD50("No acute toxicity information available."))
	})
}

func TestExtractLC50(t *testing.T) {
	t.Run("ppm", func(t *testing.T) {
		got := ExtractLC50("LC50 Rat inhalation 20000 ppm")
		assert.Contains(t, got, "20000 ppm")
	})

	t.Run("with exposure annotation", func(t *testing.T) {
		got := ExtractLC50("LC50 for rats 39 g/cu m (4 hr exposure)")
		assert.Contains(t, got, "39")
	})

	t.Run("no data", func(t *testing.T) {
		assert.Empty(t, ExtractLC50("Flammable liquid."))
	})
}

func TestEnrich(t *testing.T) {
	t.Run("fills toxicity from notes", func(t *testing.T) {
		c := &Chemical{
			Name:               "ethanol",
			AcuteToxicityNotes: "LD50: 7060 mg/kg (Oral, rat). LC50 Rat inhalation 20000 ppm",
		}
		Enrich(c)
		assert.NotEmpty(t, c.LD50)
		assert.NotEmpty(t, c.LC50)
	})

	t.Run("does not overwrite existing values", func(t *testing.T) {
		c := &Chemical{
			LD50:               "already set",
			AcuteToxicityNotes: "LD50: 7060 mg/kg (Oral, rat)",
		}
		Enrich(c)
		assert.Equal(t, "already set", c.LD50)
	})

	t.Run("nil and empty notes are no-ops", func(t *testing.T) {
		Enrich(nil)
		c := &Chemical{Name: "water"}
		Enrich(c)
		assert.Empty(t, c.LD50)
	})
}
