package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SchemaVersion is the schema this build writes. Bump the minor version
// when adding columns; the upgrade path below must know how to reach it.
const SchemaVersion = "1.2.0"

const createChemicalsTable = `
CREATE TABLE IF NOT EXISTS chemicals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cas_number TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	formula TEXT NOT NULL DEFAULT '',
	molecular_weight REAL NOT NULL DEFAULT 0,
	canonical_smiles TEXT NOT NULL DEFAULT '',
	isomeric_smiles TEXT NOT NULL DEFAULT '',
	inchi TEXT NOT NULL DEFAULT '',
	inchikey TEXT NOT NULL DEFAULT '',
	xlogp REAL NOT NULL DEFAULT 0,
	exact_mass REAL NOT NULL DEFAULT 0,
	monoisotopic_mass REAL NOT NULL DEFAULT 0,
	tpsa REAL NOT NULL DEFAULT 0,
	complexity REAL NOT NULL DEFAULT 0,
	charge INTEGER NOT NULL DEFAULT 0,
	h_bond_donor_count INTEGER NOT NULL DEFAULT 0,
	h_bond_acceptor_count INTEGER NOT NULL DEFAULT 0,
	rotatable_bond_count INTEGER NOT NULL DEFAULT 0,
	heavy_atom_count INTEGER NOT NULL DEFAULT 0,
	physical_state TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	density TEXT NOT NULL DEFAULT '',
	melting_point TEXT NOT NULL DEFAULT '',
	boiling_point TEXT NOT NULL DEFAULT '',
	flash_point TEXT NOT NULL DEFAULT '',
	solubility TEXT NOT NULL DEFAULT '',
	vapor_pressure TEXT NOT NULL DEFAULT '',
	hazard_statements TEXT NOT NULL DEFAULT '',
	precautionary_statements TEXT NOT NULL DEFAULT '',
	ghs_pictograms TEXT NOT NULL DEFAULT '',
	signal_word TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	source_name TEXT NOT NULL DEFAULT '',
	density_value REAL,
	density_unit TEXT NOT NULL DEFAULT '',
	melting_point_value REAL,
	melting_point_unit TEXT NOT NULL DEFAULT '',
	boiling_point_value REAL,
	boiling_point_unit TEXT NOT NULL DEFAULT '',
	flash_point_value REAL,
	flash_point_unit TEXT NOT NULL DEFAULT '',
	vapor_pressure_value REAL,
	vapor_pressure_unit TEXT NOT NULL DEFAULT '',
	ld50 TEXT NOT NULL DEFAULT '',
	lc50 TEXT NOT NULL DEFAULT '',
	acute_toxicity_notes TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_chemicals_cas_number ON chemicals (cas_number);
CREATE INDEX IF NOT EXISTS idx_chemicals_name ON chemicals (name);

CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// ensureSchema creates the tables on first open and reconciles the stored
// schema version with SchemaVersion. A database written by a newer build is
// refused rather than silently misread.
func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(createChemicalsTable); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	stored, err := storedSchemaVersion(db)
	if err != nil {
		return err
	}
	if stored == "" {
		return setSchemaVersion(db, SchemaVersion)
	}

	storedVer, err := semver.NewVersion(stored)
	if err != nil {
		return fmt.Errorf("parsing stored schema version %q: %w", stored, err)
	}
	currentVer := semver.MustParse(SchemaVersion)

	switch {
	case storedVer.GreaterThan(currentVer):
		return fmt.Errorf("database schema %s is newer than this build supports (%s)", stored, SchemaVersion)
	case storedVer.LessThan(currentVer):
		if err := upgradeSchema(db, storedVer); err != nil {
			return err
		}
		return setSchemaVersion(db, SchemaVersion)
	default:
		return nil
	}
}

// upgradeSchema brings an older database up to the current layout.
// Versions before 1.2.0 predate the toxicity columns.
func upgradeSchema(db *sql.DB, from *semver.Version) error {
	if from.LessThan(semver.MustParse("1.2.0")) {
		for _, col := range []struct{ name, ddl string }{
			{"ld50", "ld50 TEXT NOT NULL DEFAULT ''"},
			{"lc50", "lc50 TEXT NOT NULL DEFAULT ''"},
			{"acute_toxicity_notes", "acute_toxicity_notes TEXT NOT NULL DEFAULT ''"},
		} {
			if err := addColumnIfMissing(db, col.name, col.ddl); err != nil {
				return err
			}
		}
	}
	return nil
}

func addColumnIfMissing(db *sql.DB, name, ddl string) error {
	exists, err := columnExists(db, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := db.Exec("ALTER TABLE chemicals ADD COLUMN " + ddl); err != nil {
		return fmt.Errorf("adding column %s: %w", name, err)
	}
	return nil
}

func columnExists(db *sql.DB, name string) (bool, error) {
	rows, err := db.Query("PRAGMA table_info(chemicals)")
	if err != nil {
		return false, fmt.Errorf("inspecting schema: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			colName   string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("inspecting schema: %w", err)
		}
		if strings.EqualFold(colName, name) {
			return true, nil
		}
	}
	return false, rows.Err()
}

func storedSchemaVersion(db *sql.DB) (string, error) {
	var version string
	err := db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func setSchemaVersion(db *sql.DB, version string) error {
	_, err := db.Exec(
		"INSERT INTO meta (key, value) VALUES ('schema_version', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		version)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}
