package repository

import (
	"fmt"

	"github.com/debemdeboas/second-chance/internal/db"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/util"
	"github.com/debemdeboas/second-chance/internal/util/compression"
)

// DBListingRepository reads listings from sqlite. Descriptions are stored
// zstd-compressed next to a hash of the compressed bytes.
type DBListingRepository struct { // implements ListingRepository
	db         db.Db
	compressor compression.Compressor
}

func NewDBListingRepository(db db.Db) *DBListingRepository {
	return &DBListingRepository{
		db:         db,
		compressor: compression.ZstdCompressor{},
	}
}

func (r *DBListingRepository) GetListings() ([]model.Listing, error) {
	rows, err := r.db.Query(
		`SELECT id, title, category, price, image, description, description_hash, contact FROM listings ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("error querying listings: %w", err)
	}
	defer rows.Close()

	listings := make([]model.Listing, 0)
	for rows.Next() {
		var l model.Listing
		var compressed []byte
		var hash *string

		err := rows.Scan(&l.ID, &l.Title, &l.Category, &l.Price, &l.ImageRef, &compressed, &hash, &l.Contact)
		if err != nil {
			return nil, fmt.Errorf("error scanning listing: %w", err)
		}

		if hash != nil && *hash != util.ContentHash(compressed) {
			repoLogger.Warn().Int("listing_id", int(l.ID)).Msg("Listing description hash mismatch")
		}

		description, err := r.compressor.Decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("error decompressing description of listing %d: %w", l.ID, err)
		}
		l.Description = string(description)

		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

// ReplaceAll swaps the stored catalog for listings in one transaction.
func (r *DBListingRepository) ReplaceAll(listings []model.Listing) error {
	tx, err := r.db.Get().Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM listings`); err != nil {
		return fmt.Errorf("error clearing listings: %w", err)
	}

	for i, l := range listings {
		compressed, err := r.compressor.Compress([]byte(l.Description))
		if err != nil {
			return fmt.Errorf("error compressing description of listing %d: %w", l.ID, err)
		}

		_, err = tx.Exec(
			`INSERT INTO listings (id, position, title, category, price, image, description, description_hash, contact) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, i, l.Title, l.Category, l.Price, l.ImageRef, compressed, util.ContentHash(compressed), l.Contact,
		)
		if err != nil {
			return fmt.Errorf("error saving listing %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing listings: %w", err)
	}

	repoLogger.Info().Int("listings", len(listings)).Msg("Catalog replaced")
	return nil
}
