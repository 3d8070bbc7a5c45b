package resolver

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/8agana/photography-mind/pkg/normalizers"
)

// FamilyKeyStrategy derives the family id for a roster record. Pluggable so
// the grouping rule can change without touching the resolver.
type FamilyKeyStrategy interface {
	FamilyKey(skaters []ParsedName) (string, error)
}

// SurnameKeyStrategy keys a family on the first skater's canonicalized last
// name. It does not merge sibling households with different surnames; no
// merge policy exists yet.
type SurnameKeyStrategy struct{}

func (SurnameKeyStrategy) FamilyKey(skaters []ParsedName) (string, error) {
	if len(skaters) == 0 {
		return "", httperror.NewHTTPError(http.StatusBadRequest, "no skaters to derive a family from")
	}
	key := normalizers.FamilyKey(skaters[0].Last)
	if key == "" {
		return "", httperror.NewHTTPError(http.StatusBadRequest, "skater last name is empty")
	}
	return key, nil
}
