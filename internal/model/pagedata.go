package model

import (
	"html/template"
	"net/http"

	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/theme"
)

type PageData struct {
	SiteName        string
	SiteTagline     string
	SiteDescription string

	PageURL string

	Theme          string
	AllowSwitching bool
}

func NewPageData(r *http.Request) *PageData {
	cfg := config.AppConfig
	if cfg == nil {
		cfg = config.Default()
	}

	return &PageData{
		SiteName:        cfg.Site.Name,
		SiteTagline:     cfg.Site.Tagline,
		SiteDescription: cfg.Site.Description,
		PageURL:         r.URL.Path,
		Theme:           theme.GetThemeFromRequest(r),
		AllowSwitching:  cfg.Theme.AllowSwitching,
	}
}

func (pd *PageData) ThemeIcon() template.HTML {
	return template.HTML(theme.GetThemeIcon(pd.Theme))
}
