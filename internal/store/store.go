// Package store persists chemical safety records in a local SQLite
// database and supports the lookup, search, and export queries the CLI
// needs. The driver is modernc.org/sqlite, so the binary stays pure Go.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // database/sql driver

	"github.com/chemsafe/chemsafe/internal/chem"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("chemical not found")

// Store wraps the chemicals database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema is present and compatible.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug().Str("path", path).Msg("database initialized")
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// chemicalColumns is every column except id, in insert order.
const chemicalColumns = `cas_number, name, formula, molecular_weight,
	canonical_smiles, isomeric_smiles, inchi, inchikey,
	xlogp, exact_mass, monoisotopic_mass, tpsa, complexity, charge,
	h_bond_donor_count, h_bond_acceptor_count, rotatable_bond_count, heavy_atom_count,
	physical_state, color, density, melting_point, boiling_point, flash_point,
	solubility, vapor_pressure,
	hazard_statements, precautionary_statements, ghs_pictograms, signal_word,
	source_url, source_name,
	density_value, density_unit, melting_point_value, melting_point_unit,
	boiling_point_value, boiling_point_unit, flash_point_value, flash_point_unit,
	vapor_pressure_value, vapor_pressure_unit,
	ld50, lc50, acute_toxicity_notes, updated_at`

const chemicalColumnCount = 46

func chemicalArgs(c *chem.Chemical) []any {
	return []any{
		c.CASNumber, c.Name, c.Formula, c.MolecularWeight,
		c.CanonicalSMILES, c.IsomericSMILES, c.InChI, c.InChIKey,
		c.XLogP, c.ExactMass, c.MonoisotopicMass, c.TPSA, c.Complexity, c.Charge,
		c.HBondDonorCount, c.HBondAcceptorCount, c.RotatableBondCount, c.HeavyAtomCount,
		c.PhysicalState, c.Color, c.Density, c.MeltingPoint, c.BoilingPoint, c.FlashPoint,
		c.Solubility, c.VaporPressure,
		c.HazardStatements, c.PrecautionaryStatements, c.GHSPictograms, c.SignalWord,
		c.SourceURL, c.SourceName,
		c.DensityValue, c.DensityUnit, c.MeltingPointValue, c.MeltingPointUnit,
		c.BoilingPointValue, c.BoilingPointUnit, c.FlashPointValue, c.FlashPointUnit,
		c.VaporPressureValue, c.VaporPressureUnit,
		c.LD50, c.LC50, c.AcuteToxicityNotes, time.Now().UTC(),
	}
}

func scanChemical(row interface{ Scan(...any) error }) (*chem.Chemical, error) {
	var c chem.Chemical
	var updatedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.CASNumber, &c.Name, &c.Formula, &c.MolecularWeight,
		&c.CanonicalSMILES, &c.IsomericSMILES, &c.InChI, &c.InChIKey,
		&c.XLogP, &c.ExactMass, &c.MonoisotopicMass, &c.TPSA, &c.Complexity, &c.Charge,
		&c.HBondDonorCount, &c.HBondAcceptorCount, &c.RotatableBondCount, &c.HeavyAtomCount,
		&c.PhysicalState, &c.Color, &c.Density, &c.MeltingPoint, &c.BoilingPoint, &c.FlashPoint,
		&c.Solubility, &c.VaporPressure,
		&c.HazardStatements, &c.PrecautionaryStatements, &c.GHSPictograms, &c.SignalWord,
		&c.SourceURL, &c.SourceName,
		&c.DensityValue, &c.DensityUnit, &c.MeltingPointValue, &c.MeltingPointUnit,
		&c.BoilingPointValue, &c.BoilingPointUnit, &c.FlashPointValue, &c.FlashPointUnit,
		&c.VaporPressureValue, &c.VaporPressureUnit,
		&c.LD50, &c.LC50, &c.AcuteToxicityNotes, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}

func placeholders(n int) string {
	out := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}

// Upsert stores a chemical record. An existing record matched by CAS
// number, or failing that by name and formula, is fully updated in place;
// otherwise a new row is inserted. Returns the record's ID.
func (s *Store) Upsert(ctx context.Context, c *chem.Chemical) (int64, error) {
	existingID, err := s.findExistingID(ctx, c)
	if err != nil {
		return 0, err
	}

	if existingID != 0 {
		return existingID, s.updateByID(ctx, existingID, c)
	}

	query := fmt.Sprintf("INSERT INTO chemicals (%s) VALUES (%s)",
		chemicalColumns, placeholders(chemicalColumnCount))
	res, err := s.db.ExecContext(ctx, query, chemicalArgs(c)...)
	if err != nil {
		return 0, fmt.Errorf("inserting chemical %q: %w", c.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}

	s.logger.Info().Str("name", c.Name).Str("cas", c.CASNumber).Int64("id", id).Msg("added chemical")
	return id, nil
}

func (s *Store) findExistingID(ctx context.Context, c *chem.Chemical) (int64, error) {
	var id int64

	if c.CASNumber != "" {
		err := s.db.QueryRowContext(ctx,
			"SELECT id FROM chemicals WHERE cas_number = ?", c.CASNumber).Scan(&id)
		switch {
		case err == nil:
			return id, nil
		case !errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("looking up CAS %s: %w", c.CASNumber, err)
		}
	}

	if c.Name != "" && c.Formula != "" {
		err := s.db.QueryRowContext(ctx,
			"SELECT id FROM chemicals WHERE name = ? AND formula = ?", c.Name, c.Formula).Scan(&id)
		switch {
		case err == nil:
			return id, nil
		case !errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("looking up %q: %w", c.Name, err)
		}
	}

	return 0, nil
}

//nolint:gochecknoglobals // Built once from the shared column list
var updateAssignments = buildUpdateAssignments()

func buildUpdateAssignments() string {
	cols := ""
	for i, col := range splitColumns() {
		if i > 0 {
			cols += ", "
		}
		cols += col + " = ?"
	}
	return cols
}

func splitColumns() []string {
	var cols []string
	field := ""
	for _, r := range chemicalColumns {
		switch r {
		case ',':
			cols = append(cols, field)
			field = ""
		case ' ', '\n', '\t':
			// skip
		default:
			field += string(r)
		}
	}
	if field != "" {
		cols = append(cols, field)
	}
	return cols
}

func (s *Store) updateByID(ctx context.Context, id int64, c *chem.Chemical) error {
	query := fmt.Sprintf("UPDATE chemicals SET %s WHERE id = ?", updateAssignments)
	args := append(chemicalArgs(c), id)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating chemical %d: %w", id, err)
	}

	s.logger.Info().Str("name", c.Name).Int64("id", id).Msg("updated existing chemical")
	return nil
}

// GetByCAS returns the record with the given CAS registry number, or
// ErrNotFound.
func (s *Store) GetByCAS(ctx context.Context, casNumber string) (*chem.Chemical, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, %s FROM chemicals WHERE cas_number = ?", chemicalColumns),
		casNumber)

	c, err := scanChemical(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving CAS %s: %w", casNumber, err)
	}
	return c, nil
}

// Search returns records whose name or CAS number contains the query
// (case-insensitively) or whose formula contains it (case-sensitively).
func (s *Store) Search(ctx context.Context, query string) ([]*chem.Chemical, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, %s FROM chemicals
		 WHERE name LIKE ? COLLATE NOCASE
		    OR cas_number LIKE ? COLLATE NOCASE
		    OR formula LIKE ?
		 ORDER BY id`, chemicalColumns),
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	defer rows.Close()

	matches, err := collectChemicals(rows)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	s.logger.Debug().Str("query", query).Int("matches", len(matches)).Msg("database search")
	return matches, nil
}

// All returns every record in the database ordered by ID.
func (s *Store) All(ctx context.Context) ([]*chem.Chemical, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, %s FROM chemicals ORDER BY id", chemicalColumns))
	if err != nil {
		return nil, fmt.Errorf("listing chemicals: %w", err)
	}
	defer rows.Close()

	all, err := collectChemicals(rows)
	if err != nil {
		return nil, fmt.Errorf("listing chemicals: %w", err)
	}
	return all, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chemicals").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chemicals: %w", err)
	}
	return count, nil
}

// Delete removes the record with the given ID. Deleting an absent ID
// returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chemicals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting chemical %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting chemical %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info().Int64("id", id).Msg("deleted chemical")
	return nil
}

func collectChemicals(rows *sql.Rows) ([]*chem.Chemical, error) {
	var out []*chem.Chemical
	for rows.Next() {
		c, err := scanChemical(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
