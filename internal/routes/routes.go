// Package routes defines HTTP route constants for the application.
package routes

const (
	// Static and assets
	RobotsPath  = "/robots.txt"
	ThemeToggle = "/theme/toggle"

	// Catalog
	Index         = "/"
	PartialsCards = "/partials/listings"
	Listing       = "/listings/{id}"
	ListingPrefix = "/listings/"

	// Upload form, admin view only
	DraftImages  = "/drafts/images"
	DraftSubmit  = "/drafts/submit"
	DraftDiscard = "/drafts/discard"

	// Preview handles
	Preview       = "/previews/{id}"
	PreviewPrefix = "/previews/"
)
