// Package preview keeps transient handles to selected images so the upload form
// can show thumbnails before anything is submitted.
//
// Every handle is owned by exactly one draft. The owner must call Release when
// the selection is replaced, the draft is discarded or expires, and ReleaseAll
// runs on shutdown.
package preview

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/cache"
	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/model"
)

var previewLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	previewLogger = l
}

type ID string

// Ref is what the page needs to render one thumbnail.
type Ref struct {
	ID   ID
	URL  string
	Name string
}

type Registry struct {
	handles   *cache.Cache[ID, model.ImageFile]
	urlPrefix string
}

// NewRegistry serves handles below urlPrefix, e.g. "/previews/".
func NewRegistry(urlPrefix string) *Registry {
	return &Registry{
		handles:   cache.NewCache[ID, model.ImageFile](),
		urlPrefix: urlPrefix,
	}
}

// Acquire creates one handle per file, in selection order.
func (r *Registry) Acquire(files []model.ImageFile) []Ref {
	refs := make([]Ref, 0, len(files))
	for _, f := range files {
		id := ID(uuid.New().String())
		r.handles.Set(id, f)
		refs = append(refs, Ref{ID: id, URL: r.urlPrefix + string(id), Name: f.Name})
	}
	if len(refs) > 0 {
		previewLogger.Debug().Int("count", len(refs)).Msg("Preview handles acquired")
	}
	return refs
}

// Release drops the given handles. Releasing an already released handle is a no-op.
func (r *Registry) Release(refs []Ref) int {
	released := 0
	for _, ref := range refs {
		if _, ok := r.handles.Take(ref.ID); ok {
			released++
		}
	}
	if released > 0 {
		previewLogger.Debug().Int("count", released).Msg("Preview handles released")
	}
	return released
}

// ReleaseAll drops every outstanding handle and reports how many there were.
func (r *Registry) ReleaseAll() int {
	n := len(r.handles.Drain())
	if n > 0 {
		previewLogger.Info().Int("count", n).Msg("Released all preview handles")
	}
	return n
}

func (r *Registry) Get(id ID) (model.ImageFile, bool) {
	return r.handles.Get(id)
}

// Outstanding is the number of live handles.
func (r *Registry) Outstanding() int {
	return r.handles.Len()
}

// ServeHTTP serves the image behind the {id} path value. Released handles are 404.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	img, ok := r.Get(ID(req.PathValue("id")))
	if !ok {
		http.NotFound(w, req)
		return
	}

	w.Header().Set(config.HCType, img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set(config.HCacheControl, "private, no-store")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodGet {
		w.Write(img.Data)
	}
}
