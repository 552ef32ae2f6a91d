package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/debemdeboas/second-chance/internal/model"
)

// Filter returns the listings matching f, in catalog order. A non-empty search
// matches case-insensitively against title or category; a non-empty category
// must match exactly. Both conditions must hold.
func Filter(listings []model.Listing, f model.FilterState) []model.Listing {
	// A Caser keeps state and is not safe for concurrent use.
	fold := cases.Fold()
	needle := fold.String(f.Search)

	matches := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(l.Title), needle) &&
			!strings.Contains(fold.String(l.Category), needle) {
			continue
		}
		matches = append(matches, l)
	}
	return matches
}
