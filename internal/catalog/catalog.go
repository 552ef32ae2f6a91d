// Package catalog serves the seeded listings: the filterable card grid, the
// partial used for in-place filtering and the listing detail page.
package catalog

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/repository"
)

var catalogLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	catalogLogger = l
}

// Catalog is immutable after construction and safe to share between requests.
type Catalog struct {
	listings []model.Listing
	byID     map[model.ListingID]int
}

func New(listings []model.Listing) *Catalog {
	c := &Catalog{
		listings: append([]model.Listing(nil), listings...),
		byID:     make(map[model.ListingID]int, len(listings)),
	}
	for i, l := range c.listings {
		c.byID[l.ID] = i
	}
	return c
}

// Load builds a catalog from repo.
func Load(repo repository.ListingRepository) (*Catalog, error) {
	listings, err := repo.GetListings()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	catalogLogger.Info().Int("listings", len(listings)).Msg("Catalog loaded")
	return New(listings), nil
}

func (c *Catalog) Filter(f model.FilterState) []model.Listing {
	return Filter(c.listings, f)
}

func (c *Catalog) Get(id model.ListingID) (model.Listing, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Listing{}, false
	}
	return c.listings[i], true
}

func (c *Catalog) Len() int {
	return len(c.listings)
}

// Descriptions lists the Markdown descriptions, for cache warming.
func (c *Catalog) Descriptions() []string {
	d := make([]string, 0, len(c.listings))
	for _, l := range c.listings {
		d = append(d, l.Description)
	}
	return d
}
