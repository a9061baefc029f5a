package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/chemsafe/chemsafe/internal/chem"
	"github.com/chemsafe/chemsafe/internal/store"
)

// findChemical resolves an identifier to a stored record, trying in order:
// exact CAS number, the identifier as a search term, its normalized form,
// and any known alternative names.
func findChemical(ctx context.Context, db *store.Store, ident string) (*chem.Chemical, error) {
	c, err := db.GetByCAS(ctx, ident)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	candidates := []string{ident}
	if norm := chem.NormalizeName(ident); norm != "" && norm != ident {
		candidates = append(candidates, norm)
	}
	candidates = append(candidates, chem.Variations(ident)...)

	for _, candidate := range candidates {
		matches, err := db.Search(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}

	return nil, fmt.Errorf("no stored chemical matches %q", ident)
}
