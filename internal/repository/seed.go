package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/second-chance/internal/model"
)

var ErrUnsupportedSeedFormat = errors.New("unsupported seed file format")

// seedFile is the document layout of a seed file: a top-level listings array.
type seedFile struct {
	Listings []model.Listing `yaml:"listings" toml:"listings"`
}

// ParseSeed decodes a seed document. ext selects the format: .yaml, .yml or .toml.
// Listings without an id are numbered by position; duplicate ids are an error.
func ParseSeed(data []byte, ext string) ([]model.Listing, error) {
	var seed seedFile

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml seed: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &seed); err != nil {
			return nil, fmt.Errorf("decode toml seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSeedFormat, ext)
	}

	seen := make(map[model.ListingID]bool, len(seed.Listings))
	for i := range seed.Listings {
		l := &seed.Listings[i]
		if l.ID == 0 {
			l.ID = model.ListingID(i + 1)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("duplicate listing id %d", l.ID)
		}
		seen[l.ID] = true
	}
	return seed.Listings, nil
}

// LoadSeed reads and parses the seed file at path.
func LoadSeed(path string) ([]model.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	listings, err := ParseSeed(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	repoLogger.Info().Str("path", path).Int("listings", len(listings)).Msg("Seed file loaded")
	return listings, nil
}

type FSListingRepository struct { // implements ListingRepository
	seedPath string
}

func NewFSListingRepository(seedPath string) *FSListingRepository {
	return &FSListingRepository{seedPath: seedPath}
}

func (r *FSListingRepository) GetListings() ([]model.Listing, error) {
	return LoadSeed(r.seedPath)
}
