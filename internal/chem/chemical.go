// Package chem defines the chemical record model and the text-extraction
// helpers that enrich scraped safety data.
package chem

import "time"

// Chemical is one chemical safety record. Field names mirror the columns of
// the chemicals table; string fields hold the raw text PubChem reports,
// while the *Value/*Unit pairs hold values parsed out of that text.
type Chemical struct {
	ID              int64   `json:"id,omitempty"`
	CASNumber       string  `json:"cas_number,omitempty"`
	Name            string  `json:"name"`
	Formula         string  `json:"formula,omitempty"`
	MolecularWeight float64 `json:"molecular_weight,omitempty"`

	CanonicalSMILES  string  `json:"canonical_smiles,omitempty"`
	IsomericSMILES   string  `json:"isomeric_smiles,omitempty"`
	InChI            string  `json:"inchi,omitempty"`
	InChIKey         string  `json:"inchikey,omitempty"`
	XLogP            float64 `json:"xlogp,omitempty"`
	ExactMass        float64 `json:"exact_mass,omitempty"`
	MonoisotopicMass float64 `json:"monoisotopic_mass,omitempty"`
	TPSA             float64 `json:"tpsa,omitempty"`
	Complexity       float64 `json:"complexity,omitempty"`
	Charge           int     `json:"charge,omitempty"`

	HBondDonorCount    int `json:"h_bond_donor_count,omitempty"`
	HBondAcceptorCount int `json:"h_bond_acceptor_count,omitempty"`
	RotatableBondCount int `json:"rotatable_bond_count,omitempty"`
	HeavyAtomCount     int `json:"heavy_atom_count,omitempty"`

	PhysicalState string `json:"physical_state,omitempty"`
	Color         string `json:"color,omitempty"`
	Density       string `json:"density,omitempty"`
	MeltingPoint  string `json:"melting_point,omitempty"`
	BoilingPoint  string `json:"boiling_point,omitempty"`
	FlashPoint    string `json:"flash_point,omitempty"`
	Solubility    string `json:"solubility,omitempty"`
	VaporPressure string `json:"vapor_pressure,omitempty"`

	HazardStatements        string `json:"hazard_statements,omitempty"`
	PrecautionaryStatements string `json:"precautionary_statements,omitempty"`
	GHSPictograms           string `json:"ghs_pictograms,omitempty"`
	SignalWord              string `json:"signal_word,omitempty"`

	SourceURL  string `json:"source_url,omitempty"`
	SourceName string `json:"source_name,omitempty"`

	DensityValue       *float64 `json:"density_value,omitempty"`
	DensityUnit        string   `json:"density_unit,omitempty"`
	MeltingPointValue  *float64 `json:"melting_point_value,omitempty"`
	MeltingPointUnit   string   `json:"melting_point_unit,omitempty"`
	BoilingPointValue  *float64 `json:"boiling_point_value,omitempty"`
	BoilingPointUnit   string   `json:"boiling_point_unit,omitempty"`
	FlashPointValue    *float64 `json:"flash_point_value,omitempty"`
	FlashPointUnit     string   `json:"flash_point_unit,omitempty"`
	VaporPressureValue *float64 `json:"vapor_pressure_value,omitempty"`
	VaporPressureUnit  string   `json:"vapor_pressure_unit,omitempty"`

	LD50               string `json:"ld50,omitempty"`
	LC50               string `json:"lc50,omitempty"`
	AcuteToxicityNotes string `json:"acute_toxicity_notes,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Category groups related properties for display.
type Category struct {
	Name       string
	Properties []string
	// Verbose categories are only shown when detailed output is requested.
	Verbose bool
}

// DisplayCategories is the ordered grouping used by the query command's
// text output.
//
//nolint:gochecknoglobals // Static display metadata
var DisplayCategories = []Category{
	{Name: "Identifiers", Properties: []string{"id", "cas_number", "name", "formula"}},
	{Name: "Physical Properties", Properties: []string{
		"molecular_weight", "physical_state", "color", "density", "melting_point",
		"boiling_point", "flash_point", "solubility", "vapor_pressure",
	}},
	{Name: "Toxicity Data", Properties: []string{"ld50", "lc50"}},
	{Name: "Safety Information", Properties: []string{
		"hazard_statements", "precautionary_statements", "ghs_pictograms", "signal_word",
	}},
	{Name: "Chemical Properties", Verbose: true, Properties: []string{
		"xlogp", "exact_mass", "monoisotopic_mass", "tpsa", "complexity", "charge",
		"h_bond_donor_count", "h_bond_acceptor_count", "rotatable_bond_count", "heavy_atom_count",
	}},
	{Name: "Source Information", Properties: []string{"source_url", "source_name"}},
	{Name: "Computed Values", Verbose: true, Properties: []string{
		"density_value", "density_unit", "melting_point_value", "melting_point_unit",
		"boiling_point_value", "boiling_point_unit", "flash_point_value", "flash_point_unit",
		"vapor_pressure_value", "vapor_pressure_unit",
	}},
	{Name: "Chemical Identifiers", Verbose: true, Properties: []string{
		"canonical_smiles", "isomeric_smiles", "inchi", "inchikey",
	}},
}

// QueryableProperties lists the property names accepted by the query
// command's --property flag.
//
//nolint:gochecknoglobals // Static display metadata
var QueryableProperties = []string{
	"cas_number", "name", "formula", "molecular_weight",
	"flash_point", "boiling_point", "melting_point", "density",
	"vapor_pressure", "solubility", "physical_state", "color",
	"hazard_statements", "precautionary_statements", "ghs_pictograms", "signal_word",
	"ld50", "lc50", "acute_toxicity_notes",
}

// Properties returns the record as a property-name → value map, using the
// same snake_case names the display categories and --property flag use.
// Zero values are omitted so callers can distinguish set from unset.
func (c *Chemical) Properties() map[string]any {
	props := map[string]any{}

	putStr := func(name, v string) {
		if v != "" {
			props[name] = v
		}
	}
	putFloat := func(name string, v float64) {
		if v != 0 {
			props[name] = v
		}
	}
	putInt := func(name string, v int) {
		if v != 0 {
			props[name] = v
		}
	}
	putPtr := func(name string, v *float64) {
		if v != nil {
			props[name] = *v
		}
	}

	if c.ID != 0 {
		props["id"] = c.ID
	}
	putStr("cas_number", c.CASNumber)
	putStr("name", c.Name)
	putStr("formula", c.Formula)
	putFloat("molecular_weight", c.MolecularWeight)
	putStr("canonical_smiles", c.CanonicalSMILES)
	putStr("isomeric_smiles", c.IsomericSMILES)
	putStr("inchi", c.InChI)
	putStr("inchikey", c.InChIKey)
	putFloat("xlogp", c.XLogP)
	putFloat("exact_mass", c.ExactMass)
	putFloat("monoisotopic_mass", c.MonoisotopicMass)
	putFloat("tpsa", c.TPSA)
	putFloat("complexity", c.Complexity)
	putInt("charge", c.Charge)
	putInt("h_bond_donor_count", c.HBondDonorCount)
	putInt("h_bond_acceptor_count", c.HBondAcceptorCount)
	putInt("rotatable_bond_count", c.RotatableBondCount)
	putInt("heavy_atom_count", c.HeavyAtomCount)
	putStr("physical_state", c.PhysicalState)
	putStr("color", c.Color)
	putStr("density", c.Density)
	putStr("melting_point", c.MeltingPoint)
	putStr("boiling_point", c.BoilingPoint)
	putStr("flash_point", c.FlashPoint)
	putStr("solubility", c.Solubility)
	putStr("vapor_pressure", c.VaporPressure)
	putStr("hazard_statements", c.HazardStatements)
	putStr("precautionary_statements", c.PrecautionaryStatements)
	putStr("ghs_pictograms", c.GHSPictograms)
	putStr("signal_word", c.SignalWord)
	putStr("source_url", c.SourceURL)
	putStr("source_name", c.SourceName)
	putPtr("density_value", c.DensityValue)
	putStr("density_unit", c.DensityUnit)
	putPtr("melting_point_value", c.MeltingPointValue)
	putStr("melting_point_unit", c.MeltingPointUnit)
	putPtr("boiling_point_value", c.BoilingPointValue)
	putStr("boiling_point_unit", c.BoilingPointUnit)
	putPtr("flash_point_value", c.FlashPointValue)
	putStr("flash_point_unit", c.FlashPointUnit)
	putPtr("vapor_pressure_value", c.VaporPressureValue)
	putStr("vapor_pressure_unit", c.VaporPressureUnit)
	putStr("ld50", c.LD50)
	putStr("lc50", c.LC50)
	putStr("acute_toxicity_notes", c.AcuteToxicityNotes)

	return props
}
