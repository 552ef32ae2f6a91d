// Package draft keeps the transient state of the listing upload form, one draft
// per visitor, and validates it before handing it to a sink.
package draft

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/preview"
)

var draftLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	draftLogger = l
}

var (
	// ErrNoImages is the only validation error: a draft needs at least one image.
	ErrNoImages = errors.New(config.ErrNoImagesSelected)
	ErrNotFound = errors.New("draft not found")
)

type ID string

// Fields are the free-form inputs of the upload form. None of them is validated.
type Fields struct {
	Title       string `schema:"title"`
	Category    string `schema:"category"`
	Price       string `schema:"price"`
	Location    string `schema:"location"`
	Description string `schema:"description"`
}

type Draft struct {
	ID ID
	Fields

	// Images and Previews are parallel: Previews[i] shows Images[i].
	Images   []model.ImageFile
	Previews []preview.Ref

	LastTouched time.Time
}

func (d *Draft) Validate() error {
	if len(d.Images) == 0 {
		return ErrNoImages
	}
	return nil
}

func (d *Draft) Submission() model.Submission {
	return model.Submission{
		DraftID:     string(d.ID),
		Title:       d.Title,
		Category:    d.Category,
		Price:       d.Price,
		Location:    d.Location,
		Description: d.Description,
		Images:      append([]model.ImageFile(nil), d.Images...),
	}
}

func (d *Draft) clone() *Draft {
	c := *d
	c.Images = append([]model.ImageFile(nil), d.Images...)
	c.Previews = append([]preview.Ref(nil), d.Previews...)
	return &c
}
