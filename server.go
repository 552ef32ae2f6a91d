package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/second-chance/internal/admin"
	"github.com/debemdeboas/second-chance/internal/cache"
	"github.com/debemdeboas/second-chance/internal/catalog"
	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/draft"
	"github.com/debemdeboas/second-chance/internal/page"
	"github.com/debemdeboas/second-chance/internal/preview"
	"github.com/debemdeboas/second-chance/internal/render"
	"github.com/debemdeboas/second-chance/internal/repository"
	"github.com/debemdeboas/second-chance/internal/routes"
	"github.com/debemdeboas/second-chance/internal/sink"
	"github.com/debemdeboas/second-chance/internal/theme"
	"github.com/debemdeboas/second-chance/internal/util"
)

// app holds everything a running server shares between requests.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	static fs.FS

	catalog  *catalog.Catalog
	previews *preview.Registry
	drafts   *draft.Repository

	catalogHandler *catalog.Handler
	draftHandler   *draft.Handler
	gate           *admin.Gate
}

// newApp wires the catalog, the draft repository and the page renderer. fsys must
// contain the static and templates directories.
func newApp(cfg *config.Config, fsys fs.FS, listings repository.ListingRepository, s sink.Sink, logger zerolog.Logger) (*app, error) {
	renderer, err := page.NewRenderer(fsys)
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(fsys, config.StaticLocalDir)
	if err != nil {
		return nil, fmt.Errorf("static files: %w", err)
	}

	c, err := catalog.Load(listings)
	if err != nil {
		return nil, err
	}
	render.WarmCache(c.Descriptions())

	previews := preview.NewRegistry(routes.PreviewPrefix)
	drafts := draft.NewRepository(previews)

	draftHandler := draft.NewHandler(drafts, s, draft.LimitsFromConfig(cfg.Uploads))
	catalogHandler := catalog.NewHandler(c, renderer, draftHandler, cfg.Site.SearchPlaceholder)
	draftHandler.SetIndexRenderer(catalogHandler)

	a := &app{
		cfg:            cfg,
		logger:         logger,
		static:         static,
		catalog:        c,
		previews:       previews,
		drafts:         drafts,
		catalogHandler: catalogHandler,
		draftHandler:   draftHandler,
		gate:           admin.NewGate(cfg.Admin.Param, cfg.Admin.Secret),
	}
	a.hashStatic()
	return a, nil
}

// hashStatic records a content hash per static file for the ETag header.
func (a *app) hashStatic() {
	fs.WalkDir(a.static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(a.static, path)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("Failed to hash static file")
			return nil
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash(data))
		return nil
	})
}

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+routes.RobotsPath, a.serveRobots)
	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(a.static))))
	mux.HandleFunc("POST "+routes.ThemeToggle, serveThemePostToggle)

	mux.HandleFunc("GET "+routes.Index+"{$}", a.catalogHandler.ServeIndex)
	mux.HandleFunc("GET "+routes.PartialsCards, a.catalogHandler.ServeCards)
	mux.HandleFunc("GET "+routes.Listing, a.catalogHandler.ServeListing)
	mux.Handle("GET "+routes.Preview, a.previews)

	// Any method reaches the handlers so a request without the capability gets
	// the same 404 as an unknown path.
	mux.HandleFunc(routes.DraftImages, admin.Require(a.draftHandler.ServeSelectImages))
	mux.HandleFunc(routes.DraftSubmit, admin.Require(a.draftHandler.ServeSubmit))
	mux.HandleFunc(routes.DraftDiscard, admin.Require(a.draftHandler.ServeDiscard))

	var h http.Handler = a.gate.Middleware(mux)
	h = secureHeaders(h)
	h = cacheIt(h)
	if a.cfg.Server.Compression {
		h = gzhttp.GzipHandler(h)
	}

	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	})(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(a.logger)(h)

	return h
}

func (a *app) serveRobots(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(a.static, "robots.txt")
	if err != nil {
		data = []byte("User-agent: *\nDisallow:")
	}
	w.Header().Set(config.HCType, config.CTypePlain)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// close releases every draft and preview handle.
func (a *app) close() {
	a.drafts.Close()
	if n := a.previews.ReleaseAll(); n > 0 {
		a.logger.Warn().Int("count", n).Msg("Released orphaned preview handles")
	}
}

func cacheIt(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h.ServeHTTP(w, r)
	})
}

func secureHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		h.ServeHTTP(w, r)
	})
}

func serveThemePostToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := theme.Opposite(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    newTheme,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Hx-Refresh", "true")
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}
