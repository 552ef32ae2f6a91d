// Package page holds the view models of the marketplace pages and renders them
// with the embedded templates.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/preview"
)

const (
	MessageNotice  = "notice"
	MessageWarning = "warning"
)

// Message is a user-visible banner.
type Message struct {
	Kind string
	Text string
}

// Card is a listing in the result grid. Link keeps the admin view.
type Card struct {
	model.Listing
	Link string
}

type CategoryButton struct {
	Label    string
	Selected bool
	URL      string
}

// Index is the catalog page, optionally with the upload form.
type Index struct {
	*model.PageData

	Filter            model.FilterState
	SearchPlaceholder string
	SearchAction      string
	CardsURL          string
	Categories        []CategoryButton
	Cards             []Card

	// Gate parameter carried by the search form when the admin view is on.
	GateParam string
	GateValue string
	HasGate   bool

	// Upload is nil unless the admin capability was granted; the template omits
	// the whole form in that case.
	Upload *UploadView

	Message *Message
}

type UploadView struct {
	Title       string
	Category    string
	Price       string
	Location    string
	Description string

	Categories []string
	Previews   []preview.Ref

	ImagesAction  string
	SubmitAction  string
	DiscardAction string

	Accept   string
	MaxFiles int
}

type ListingPage struct {
	*model.PageData

	Listing     model.Listing
	Description template.HTML
	BackURL     string
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

type Renderer struct {
	index   *template.Template
	listing *template.Template
	cards   *template.Template
}

func tmplPath(name string) string {
	return path.Join(config.TemplatesLocalDir, name)
}

// NewRenderer parses the templates below config.TemplatesLocalDir in fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	index, err := template.New(config.TemplateIndex).Funcs(funcs).ParseFS(fsys,
		tmplPath(config.TemplateLayout),
		tmplPath(config.TemplateIndex),
		tmplPath(config.TemplateCards),
		tmplPath(config.TemplateUpload),
	)
	if err != nil {
		return nil, fmt.Errorf("parse index templates: %w", err)
	}

	listing, err := template.New(config.TemplateListing).Funcs(funcs).ParseFS(fsys,
		tmplPath(config.TemplateLayout),
		tmplPath(config.TemplateListing),
	)
	if err != nil {
		return nil, fmt.Errorf("parse listing templates: %w", err)
	}

	cards, err := template.New(config.TemplateCards).Funcs(funcs).ParseFS(fsys, tmplPath(config.TemplateCards))
	if err != nil {
		return nil, fmt.Errorf("parse card templates: %w", err)
	}

	return &Renderer{index: index, listing: listing, cards: cards}, nil
}

func execute(w http.ResponseWriter, status int, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return fmt.Errorf("execute %s: %w", name, err)
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) Index(w http.ResponseWriter, status int, data *Index) error {
	return execute(w, status, r.index, "layout", data)
}

func (r *Renderer) Listing(w http.ResponseWriter, data *ListingPage) error {
	return execute(w, http.StatusOK, r.listing, "layout", data)
}

// Cards renders only the result grid, used for in-place filtering.
func (r *Renderer) Cards(w http.ResponseWriter, cards []Card) error {
	return execute(w, http.StatusOK, r.cards, "cards", cards)
}
