package catalog

import (
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/admin"
	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/draft"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/page"
	"github.com/debemdeboas/second-chance/internal/render"
	"github.com/debemdeboas/second-chance/internal/routes"
)

var notices = map[string]string{
	draft.NoticeSubmitted: "Produkt hochgeladen",
}

// UploadViewer builds the upload form for the admin view.
type UploadViewer interface {
	UploadView(w http.ResponseWriter, r *http.Request) (*page.UploadView, error)
}

type Handler struct {
	catalog     *Catalog
	renderer    *page.Renderer
	uploads     UploadViewer
	placeholder string
	decoder     *schema.Decoder
}

func NewHandler(c *Catalog, renderer *page.Renderer, uploads UploadViewer, placeholder string) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Handler{
		catalog:     c,
		renderer:    renderer,
		uploads:     uploads,
		placeholder: placeholder,
		decoder:     decoder,
	}
}

func (h *Handler) filterState(r *http.Request) model.FilterState {
	var f model.FilterState
	if err := h.decoder.Decode(&f, r.URL.Query()); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Ignoring malformed filter query")
		return model.FilterState{}
	}
	return f
}

func categoryButtons(c admin.Capability, f model.FilterState) []page.CategoryButton {
	buttons := make([]page.CategoryButton, 0, len(model.Categories))
	for _, category := range model.Categories {
		buttons = append(buttons, page.CategoryButton{
			Label:    category,
			Selected: f.IsSelected(category),
			URL:      c.URL(routes.Index, f.Toggle(category).Values()),
		})
	}
	return buttons
}

func cards(c admin.Capability, listings []model.Listing) []page.Card {
	cards := make([]page.Card, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, page.Card{Listing: l, Link: c.URL(l.URL(), nil)})
	}
	return cards
}

// RenderIndex renders the catalog page for the request's filter with an optional
// banner. The upload form is included only for the admin view.
func (h *Handler) RenderIndex(w http.ResponseWriter, r *http.Request, status int, msg *page.Message) {
	log := zerolog.Ctx(r.Context())
	c := admin.CapabilityFromContext(r.Context())
	f := h.filterState(r)

	data := &page.Index{
		PageData:          model.NewPageData(r),
		Filter:            f,
		SearchPlaceholder: h.placeholder,
		SearchAction:      routes.Index,
		CardsURL:          routes.PartialsCards,
		Categories:        categoryButtons(c, f),
		Cards:             cards(c, h.catalog.Filter(f)),
		Message:           msg,
	}
	data.GateParam, data.GateValue, data.HasGate = c.Hidden()

	if c.Granted() && h.uploads != nil {
		upload, err := h.uploads.UploadView(w, r)
		if err != nil {
			log.Error().Err(err).Msg("Failed to build upload form")
			http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
			return
		}
		data.Upload = upload
	}

	if err := h.renderer.Index(w, status, data); err != nil {
		log.Error().Err(err).Msg("Failed to render index")
	}
}

func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	var msg *page.Message
	if text, ok := notices[r.URL.Query().Get("notice")]; ok {
		msg = &page.Message{Kind: page.MessageNotice, Text: text}
	}
	h.RenderIndex(w, r, http.StatusOK, msg)
}

// ServeCards renders only the matching cards.
func (h *Handler) ServeCards(w http.ResponseWriter, r *http.Request) {
	c := admin.CapabilityFromContext(r.Context())
	if err := h.renderer.Cards(w, cards(c, h.catalog.Filter(h.filterState(r)))); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render cards")
	}
}

func (h *Handler) ServeListing(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, config.ErrListingNotFound, http.StatusNotFound)
		return
	}
	listing, ok := h.catalog.Get(model.ListingID(id))
	if !ok {
		log.Debug().Int("listing_id", id).Msg("Listing not found")
		http.Error(w, config.ErrListingNotFound, http.StatusNotFound)
		return
	}

	c := admin.CapabilityFromContext(r.Context())
	err = h.renderer.Listing(w, &page.ListingPage{
		PageData:    model.NewPageData(r),
		Listing:     listing,
		Description: render.Description(listing.Description),
		BackURL:     c.URL(routes.Index, nil),
	})
	if err != nil {
		log.Error().Err(err).Int("listing_id", id).Msg("Failed to render listing")
	}
}
