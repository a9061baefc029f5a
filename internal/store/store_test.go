package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemsafe/chemsafe/internal/chem"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chemicals.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ethanol() *chem.Chemical {
	return &chem.Chemical{
		CASNumber:       "64-17-5",
		Name:            "ethanol",
		Formula:         "C2H6O",
		MolecularWeight: 46.07,
		FlashPoint:      "13 °C",
		SignalWord:      "Danger",
		SourceURL:       "https://pubchem.ncbi.nlm.nih.gov/compound/702",
		SourceName:      "PubChem",
	}
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("insert", func(t *testing.T) {
		id, err := s.Upsert(ctx, ethanol())
		require.NoError(t, err)
		assert.Positive(t, id)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("update by CAS keeps id", func(t *testing.T) {
		updated := ethanol()
		updated.LD50 = "LD50: 7060 mg/kg (Oral, rat)"

		id, err := s.Upsert(ctx, updated)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		got, err := s.GetByCAS(ctx, "64-17-5")
		require.NoError(t, err)
		assert.Equal(t, "LD50: 7060 mg/kg (Oral, rat)", got.LD50)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("update by name and formula when no CAS", func(t *testing.T) {
		noCAS := ethanol()
		noCAS.CASNumber = ""
		noCAS.Name = "benzaldehyde"
		noCAS.Formula = "C7H6O"

		first, err := s.Upsert(ctx, noCAS)
		require.NoError(t, err)

		noCAS.Color = "colorless"
		second, err := s.Upsert(ctx, noCAS)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestGetByCAS(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Upsert(ctx, ethanol())
	require.NoError(t, err)

	got, err := s.GetByCAS(ctx, "64-17-5")
	require.NoError(t, err)
	assert.Equal(t, "ethanol", got.Name)
	assert.InDelta(t, 46.07, got.MolecularWeight, 1e-9)
	assert.False(t, got.UpdatedAt.IsZero())

	_, err = s.GetByCAS(ctx, "50-00-0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Upsert(ctx, ethanol())
	require.NoError(t, err)

	methanol := &chem.Chemical{CASNumber: "67-56-1", Name: "methanol", Formula: "CH4O"}
	_, err = s.Upsert(ctx, methanol)
	require.NoError(t, err)

	t.Run("by name case-insensitive", func(t *testing.T) {
		matches, err := s.Search(ctx, "ETHANOL")
		require.NoError(t, err)
		// "methanol" contains "ethanol" as a substring, so both match.
		assert.Len(t, matches, 2)
	})

	t.Run("by CAS fragment", func(t *testing.T) {
		matches, err := s.Search(ctx, "64-17")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "ethanol", matches[0].Name)
	})

	t.Run("by formula", func(t *testing.T) {
		matches, err := s.Search(ctx, "CH4O")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "methanol", matches[0].Name)
	})

	t.Run("no matches", func(t *testing.T) {
		matches, err := s.Search(ctx, "xenon")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestAllAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Upsert(ctx, ethanol())
	require.NoError(t, err)
	_, err = s.Upsert(ctx, &chem.Chemical{CASNumber: "67-56-1", Name: "methanol", Formula: "CH4O"})
	require.NoError(t, err)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.Delete(ctx, id))

	all, err = s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestParsedValueColumnsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	density := 0.789
	c := ethanol()
	c.DensityValue = &density
	c.DensityUnit = "g/cm³"

	_, err := s.Upsert(ctx, c)
	require.NoError(t, err)

	got, err := s.GetByCAS(ctx, c.CASNumber)
	require.NoError(t, err)
	require.NotNil(t, got.DensityValue)
	assert.InDelta(t, density, *got.DensityValue, 1e-9)
	assert.Equal(t, "g/cm³", got.DensityUnit)

	// Unset parsed values stay NULL.
	assert.Nil(t, got.FlashPointValue)
}

func TestSchemaVersioning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemicals.db")

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	t.Run("reopen at same version", func(t *testing.T) {
		s2, err := Open(path, zerolog.Nop())
		require.NoError(t, err)
		assert.NoError(t, s2.Close())
	})

	t.Run("refuses newer schema", func(t *testing.T) {
		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		_, err = db.Exec("UPDATE meta SET value = '9.0.0' WHERE key = 'schema_version'")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = Open(path, zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("upgrades older schema", func(t *testing.T) {
		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		_, err = db.Exec("UPDATE meta SET value = '1.0.0' WHERE key = 'schema_version'")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		s3, err := Open(path, zerolog.Nop())
		require.NoError(t, err)
		assert.NoError(t, s3.Close())
	})
}

func TestColumnHelpers(t *testing.T) {
	cols := splitColumns()
	assert.Len(t, cols, chemicalColumnCount)
	assert.Equal(t, "cas_number", cols[0])
	assert.Equal(t, "updated_at", cols[len(cols)-1])

	assert.Equal(t, "?,?,?", placeholders(3))
}
