package config

const (
	// Catalog errors
	ErrLoadCatalogFmt  = "Failed to load catalog: %v"
	ErrListingNotFound = "Listing not found"
	ErrInitializeDBFmt = "Failed to initialize database: %v"
	ErrReadSeedFileFmt = "Failed to read seed file: %v"

	// Draft errors
	ErrNoImagesSelected    = "Bitte mindestens ein Bild auswählen"
	ErrUploadTooLarge      = "Upload too large"
	ErrUnsupportedImage    = "Unsupported image type"
	ErrTooManyImages       = "Too many images"
	ErrMalformedForm       = "Malformed form"
	ErrInternalServerError = "Internal server error"
)
