// Package model defines core data structures and types for the marketplace.
package model

import (
	"strconv"

	"github.com/debemdeboas/second-chance/internal/routes"
)

type ListingID int

// Listing is a single catalog record describing an item for sale or give-away.
// Listings are immutable once the catalog is loaded.
type Listing struct {
	ID          ListingID `yaml:"id" toml:"id"`
	Title       string    `yaml:"title" toml:"title"`
	Category    string    `yaml:"category" toml:"category"`
	Price       string    `yaml:"price" toml:"price"`
	ImageRef    string    `yaml:"image" toml:"image"`
	Description string    `yaml:"description" toml:"description"`

	// Contact is an opaque external reference, typically a messaging deep link.
	Contact string `yaml:"contact" toml:"contact"`
}

func (l *Listing) URL() string {
	return routes.ListingPrefix + strconv.Itoa(int(l.ID))
}

const DefaultContact = "https://wa.me/4917612345678"

// DefaultListings is the catalog used when no seed file or database is configured.
func DefaultListings() []Listing {
	return []Listing{
		{
			ID:          1,
			Title:       "Vintage Waschmaschine",
			Category:    "Elektronik & Werkzeuge",
			Price:       "120€",
			ImageRef:    "/static/sample-washer.svg",
			Description: "Gut erhaltene Waschmaschine aus den 90ern",
			Contact:     DefaultContact,
		},
	}
}
