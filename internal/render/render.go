// Package render turns listing descriptions written in Markdown into HTML.
package render

import (
	"html/template"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/cache"
	"github.com/debemdeboas/second-chance/internal/util"
)

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// Descriptions come from the seed data, not from visitors, but raw HTML is still
// dropped and links open in a new tab without referrer.
const htmlFlags = md_html.SkipHTML | md_html.Safelink | md_html.HrefTargetBlank |
	md_html.NofollowLinks | md_html.NoreferrerLinks

const extensions = parser.NoIntraEmphasis | parser.Tables | parser.Autolink |
	parser.Strikethrough | parser.SpaceHeadings | parser.HardLineBreak

func RenderMarkdown(md []byte) []byte {
	md = markdown.NormalizeNewlines(md)
	doc := parser.NewWithExtensions(extensions).Parse(md)
	return markdown.Render(doc, md_html.NewRenderer(md_html.RendererOptions{Flags: htmlFlags}))
}

// Mutex to protect the check-render-set operation in Description
var renderCacheMutex sync.Mutex

// Description renders md, caching the result by content hash.
func Description(md string) template.HTML {
	if strings.TrimSpace(md) == "" {
		return ""
	}

	contentHash := util.ContentHashString(md)
	if cached, found := cache.GetRenderedDescription(contentHash); found {
		renderLogger.Debug().Str("contentHash", contentHash).Msg("Cache hit for rendered description")
		return cached
	}

	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	if cached, found := cache.GetRenderedDescription(contentHash); found {
		return cached
	}

	renderLogger.Debug().Str("contentHash", contentHash).Msg("Cache miss for rendered description")
	rendered := template.HTML(RenderMarkdown([]byte(md)))
	cache.SetRenderedDescription(contentHash, rendered)

	return rendered
}

// WarmCache pre-renders every description asynchronously.
func WarmCache(descriptions []string) {
	go func() {
		for _, d := range descriptions {
			Description(d)
		}
		renderLogger.Debug().Int("count", len(descriptions)).Msg("Cache warming completed")
	}()
}
