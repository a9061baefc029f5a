package chem

import (
	"fmt"

	"github.com/asaskevich/govalidator/v11"
)

// Validate checks a record for the problems that would make it useless in
// the database: a missing name, a CAS number that fails its checksum, a
// non-positive molecular weight, or a malformed source URL. It returns the
// list of problems found; an empty list means the record is storable.
func Validate(c *Chemical) []string {
	var problems []string

	if c.Name == "" {
		problems = append(problems, "chemical name is required")
	}

	if c.CASNumber != "" && !IsValidCAS(c.CASNumber) {
		problems = append(problems, fmt.Sprintf("invalid CAS number: %s", c.CASNumber))
	}

	if c.MolecularWeight < 0 {
		problems = append(problems, "molecular weight must be a positive number")
	}

	if c.SourceURL != "" && !govalidator.IsURL(c.SourceURL) {
		problems = append(problems, fmt.Sprintf("invalid source URL: %s", c.SourceURL))
	}

	for field, count := range map[string]int{
		"h_bond_donor_count":    c.HBondDonorCount,
		"h_bond_acceptor_count": c.HBondAcceptorCount,
		"rotatable_bond_count":  c.RotatableBondCount,
		"heavy_atom_count":      c.HeavyAtomCount,
	} {
		if count < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", field))
		}
	}

	return problems
}
