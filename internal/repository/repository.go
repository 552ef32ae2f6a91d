// Package repository loads the catalog listings from their configured source.
package repository

import (
	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/model"
)

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

// ListingRepository returns listings in catalog order.
type ListingRepository interface {
	GetListings() ([]model.Listing, error)
}

type MemoryListingRepository struct { // implements ListingRepository
	listings []model.Listing
}

func NewMemoryListingRepository(listings []model.Listing) *MemoryListingRepository {
	return &MemoryListingRepository{listings: listings}
}

func (r *MemoryListingRepository) GetListings() ([]model.Listing, error) {
	return append([]model.Listing(nil), r.listings...), nil
}
