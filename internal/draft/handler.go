package draft

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/admin"
	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/page"
	"github.com/debemdeboas/second-chance/internal/routes"
	"github.com/debemdeboas/second-chance/internal/sink"
)

// NoticeSubmitted is the value of the notice query parameter after a successful
// submission.
const NoticeSubmitted = "submitted"

const acceptImages = "image/*"

// IndexRenderer re-renders the catalog page, upload form included, with a banner.
type IndexRenderer interface {
	RenderIndex(w http.ResponseWriter, r *http.Request, status int, msg *page.Message)
}

type Handler struct {
	repo    *Repository
	sink    sink.Sink
	limits  Limits
	index   IndexRenderer
	decoder *schema.Decoder
}

func NewHandler(repo *Repository, s sink.Sink, limits Limits) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	// A cleared input must clear the field.
	decoder.ZeroEmpty(true)

	return &Handler{
		repo:    repo,
		sink:    s,
		limits:  limits,
		decoder: decoder,
	}
}

// SetIndexRenderer sets the page used to answer with a warning. The catalog
// handler renders the upload form through this handler, so it is wired after
// both exist.
func (h *Handler) SetIndexRenderer(index IndexRenderer) {
	h.index = index
}

type draftKey struct{}

// draftFromRequest resolves the visitor's draft from the cookie, creating one
// when needed. The returned request remembers the draft so a page rendered later
// in the same request shows it even before the browser stores the cookie.
func (h *Handler) draftFromRequest(w http.ResponseWriter, r *http.Request) (*Draft, *http.Request) {
	if id, ok := r.Context().Value(draftKey{}).(ID); ok {
		if d, err := h.repo.Get(id); err == nil {
			return d, r
		}
	}

	var id ID
	if c, err := r.Cookie(config.CookieDraftID); err == nil {
		id = ID(c.Value)
	}

	d, created := h.repo.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     config.CookieDraftID,
			Value:    string(d.ID),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return d, r.WithContext(context.WithValue(r.Context(), draftKey{}, d.ID))
}

// UploadView builds the upload form of the requesting visitor's draft.
func (h *Handler) UploadView(w http.ResponseWriter, r *http.Request) (*page.UploadView, error) {
	c := admin.CapabilityFromContext(r.Context())
	if !c.Granted() {
		return nil, nil
	}

	d, _ := h.draftFromRequest(w, r)
	filter := h.filterQuery(r)
	return &page.UploadView{
		Title:         d.Title,
		Category:      d.Category,
		Price:         d.Price,
		Location:      d.Location,
		Description:   d.Description,
		Categories:    model.Categories,
		Previews:      d.Previews,
		ImagesAction:  c.URL(routes.DraftImages, filter),
		SubmitAction:  c.URL(routes.DraftSubmit, filter),
		DiscardAction: c.URL(routes.DraftDiscard, filter),
		Accept:        acceptImages,
		MaxFiles:      h.limits.MaxFiles,
	}, nil
}

// readForm parses the request body as a multipart form, stores the posted text
// fields on d and returns the posted images. Plain url-encoded posts are
// accepted too; they carry no files. Fields are stored before the images are
// checked so a rejected file does not lose what was typed.
func (h *Handler) readForm(w http.ResponseWriter, r *http.Request, d *Draft) ([]model.ImageFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxBodyBytes)

	err := r.ParseMultipartForm(h.limits.MaxBodyBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	// Fields missing from the form keep their current value.
	fields := d.Fields
	if err := h.decoder.Decode(&fields, r.PostForm); err != nil {
		return nil, err
	}
	if _, err := h.repo.Update(d.ID, fields); err != nil {
		return nil, err
	}

	if r.MultipartForm == nil {
		return nil, nil
	}
	return ReadImages(r.MultipartForm.File[FormFieldImages], h.limits)
}

func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, ErrNoImages):
		return http.StatusUnprocessableEntity, config.ErrNoImagesSelected
	case errors.As(err, &maxBytes), errors.Is(err, ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, config.ErrUploadTooLarge
	case errors.Is(err, ErrTooManyImages):
		return http.StatusRequestEntityTooLarge, config.ErrTooManyImages
	case errors.Is(err, ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, config.ErrUnsupportedImage
	default:
		return http.StatusBadRequest, config.ErrMalformedForm
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, text := statusFor(err)
	zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("Draft form rejected")

	if h.index == nil {
		http.Error(w, text, status)
		return
	}
	h.index.RenderIndex(w, r, status, &page.Message{Kind: page.MessageWarning, Text: text})
}

// filterQuery returns the catalog filter in the request URL. Form actions carry
// it so the page comes back with the same results.
func (h *Handler) filterQuery(r *http.Request) url.Values {
	var f model.FilterState
	if err := h.decoder.Decode(&f, r.URL.Query()); err != nil {
		return url.Values{}
	}
	return f.Values()
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request, extra url.Values) {
	query := h.filterQuery(r)
	for k, v := range extra {
		query[k] = v
	}
	c := admin.CapabilityFromContext(r.Context())
	http.Redirect(w, r, c.URL(routes.Index, query), http.StatusSeeOther)
}

// ServeSelectImages replaces the draft's image selection with the posted files.
// The text fields come along so nothing typed so far is lost.
func (h *Handler) ServeSelectImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	d, r := h.draftFromRequest(w, r)
	files, err := h.readForm(w, r, d)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.repo.SelectImages(d.ID, files); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirectHome(w, r, nil)
}

// ServeSubmit stores the posted fields, replaces the selection when files came
// along, and hands the draft to the sink.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	log := zerolog.Ctx(r.Context())

	d, r := h.draftFromRequest(w, r)
	files, err := h.readForm(w, r, d)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(files) > 0 {
		if _, err := h.repo.SelectImages(d.ID, files); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	err = h.repo.Submit(r.Context(), d.ID, h.sink)
	switch {
	case errors.Is(err, ErrNoImages):
		h.fail(w, r, err)
		return
	case err != nil:
		log.Error().Err(err).Str("draft_id", string(d.ID)).Msg("Failed to submit draft")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	log.Info().Str("draft_id", string(d.ID)).Msg("Draft submitted")
	h.redirectHome(w, r, url.Values{"notice": {NoticeSubmitted}})
}

// ServeDiscard resets the form: previews are released and the draft is dropped.
func (h *Handler) ServeDiscard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	if c, err := r.Cookie(config.CookieDraftID); err == nil {
		if err := h.repo.Discard(ID(c.Value)); err != nil && !errors.Is(err, ErrNotFound) {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to discard draft")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieDraftID,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.redirectHome(w, r, nil)
}
