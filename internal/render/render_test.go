package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/debemdeboas/second-chance/internal/cache"
	"github.com/debemdeboas/second-chance/internal/util"
)

// Test helpers
func setupTest() {
	cache.ClearRenderedDescriptionCache()
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			markdown: "Gut **erhalten**",
			contains: []string{"<strong>erhalten</strong>"},
		},
		{
			name:     "line breaks are kept",
			markdown: "Abholung in Berlin\nNur Barzahlung",
			contains: []string{"<br"},
		},
		{
			name:     "raw html is dropped",
			markdown: "Schön & <script>alert('xss')</script>",
			contains: []string{"Schön &amp;"},
			excludes: []string{"<script>"},
		},
		{
			name:     "links open in a new tab",
			markdown: "[Anleitung](https://example.com/manual)",
			contains: []string{`href="https://example.com/manual"`, `target="_blank"`, "nofollow", "noreferrer"},
		},
		{
			name:     "javascript links are not linked",
			markdown: "[click](javascript:alert(1))",
			excludes: []string{`href="javascript:`},
		},
		{
			name:     "tables",
			markdown: "| Maß | Wert |\n|---|---|\n| Breite | 60cm |",
			contains: []string{"<table>", "<td>60cm</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderMarkdown([]byte(tt.markdown)))
			for _, c := range tt.contains {
				if !strings.Contains(out, c) {
					t.Errorf("Expected output to contain %q, got %q", c, out)
				}
			}
			for _, e := range tt.excludes {
				if strings.Contains(out, e) {
					t.Errorf("Expected output not to contain %q, got %q", e, out)
				}
			}
		})
	}
}

func TestDescription(t *testing.T) {
	setupTest()

	t.Run("Empty description", func(t *testing.T) {
		if got := Description("  \n"); got != "" {
			t.Errorf("Expected empty HTML, got %q", got)
		}
	})

	t.Run("Result is cached by content hash", func(t *testing.T) {
		md := "Gut erhaltene *Waschmaschine*"
		first := Description(md)
		if !strings.Contains(string(first), "<em>Waschmaschine</em>") {
			t.Fatalf("Unexpected HTML %q", first)
		}

		cached, found := cache.GetRenderedDescription(util.ContentHashString(md))
		if !found {
			t.Fatal("Expected description to be cached")
		}
		if cached != first {
			t.Errorf("Cached HTML mismatch. Expected %q, got %q", first, cached)
		}

		cache.SetRenderedDescription(util.ContentHashString(md), "<p>from cache</p>")
		if got := Description(md); got != "<p>from cache</p>" {
			t.Errorf("Expected cached HTML to be served, got %q", got)
		}
	})

	t.Run("Concurrent rendering", func(t *testing.T) {
		setupTest()
		var wg sync.WaitGroup
		results := make([]string, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = string(Description("Sofa, **neu** bezogen"))
			}(i)
		}
		wg.Wait()

		for i, r := range results {
			if r != results[0] {
				t.Errorf("Result %d differs: %q vs %q", i, r, results[0])
			}
		}
	})
}

func TestWarmCache(t *testing.T) {
	setupTest()
	descriptions := []string{"Eins", "Zwei"}
	WarmCache(descriptions)

	// Description blocks on the render mutex while warming is in progress, so
	// rendering afterwards either hits the cache or produces the same HTML.
	for _, d := range descriptions {
		if got := Description(d); !strings.Contains(string(got), d) {
			t.Errorf("Expected %q in %q", d, got)
		}
	}
}
