package catalog

import (
	"reflect"
	"testing"

	"github.com/debemdeboas/second-chance/internal/model"
)

func marketListings() []model.Listing {
	return []model.Listing{
		{ID: 1, Title: "Vintage Waschmaschine", Category: "Elektronik & Werkzeuge", Price: "120€"},
		{ID: 2, Title: "Sofa", Category: "Möbel", Price: "50€"},
		{ID: 3, Title: "Taschenuhr", Category: "Uhren", Price: "80€"},
		{ID: 4, Title: "Bauernschrank", Category: "Möbel", Price: "200€"},
		{ID: 5, Title: "STRASSE Schild", Category: "Sammlerstücke"},
	}
}

func titles(listings []model.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	listings := marketListings()

	testCases := []struct {
		name     string
		filter   model.FilterState
		expected []string
	}{
		{
			name:     "Empty filter keeps everything",
			filter:   model.FilterState{},
			expected: []string{"Vintage Waschmaschine", "Sofa", "Taschenuhr", "Bauernschrank", "STRASSE Schild"},
		},
		{
			name:     "Search is case-insensitive on the title",
			filter:   model.FilterState{Search: "wasch"},
			expected: []string{"Vintage Waschmaschine"},
		},
		{
			name:     "Search matches the category",
			filter:   model.FilterState{Search: "möbel"},
			expected: []string{"Sofa", "Bauernschrank"},
		},
		{
			name:     "Search with upper case umlaut",
			filter:   model.FilterState{Search: "MÖBEL"},
			expected: []string{"Sofa", "Bauernschrank"},
		},
		{
			name:     "Search folds sharp s",
			filter:   model.FilterState{Search: "straße"},
			expected: []string{"STRASSE Schild"},
		},
		{
			name:     "Category is an exact match",
			filter:   model.FilterState{Category: "Möbel"},
			expected: []string{"Sofa", "Bauernschrank"},
		},
		{
			name:     "Category is not folded",
			filter:   model.FilterState{Category: "möbel"},
			expected: []string{},
		},
		{
			name:     "Search and category combine",
			filter:   model.FilterState{Search: "sofa", Category: "Möbel"},
			expected: []string{"Sofa"},
		},
		{
			name:     "Search outside the category",
			filter:   model.FilterState{Search: "uhr", Category: "Möbel"},
			expected: []string{},
		},
		{
			name:     "No match",
			filter:   model.FilterState{Search: "fahrrad"},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := titles(Filter(listings, tc.filter))
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestFilterProperties(t *testing.T) {
	listings := marketListings()

	t.Run("Empty filter is the identity", func(t *testing.T) {
		if got := Filter(listings, model.FilterState{}); !reflect.DeepEqual(got, listings) {
			t.Errorf("Expected %v, got %v", listings, got)
		}
	})

	t.Run("Result is an ordered subset", func(t *testing.T) {
		for _, search := range []string{"", "a", "e", "s", "uhr"} {
			for _, category := range append([]string{""}, model.Categories...) {
				got := Filter(listings, model.FilterState{Search: search, Category: category})
				j := 0
				for _, l := range got {
					for j < len(listings) && listings[j].ID != l.ID {
						j++
					}
					if j == len(listings) {
						t.Fatalf("Result for %q/%q is not an ordered subset: %v", search, category, titles(got))
					}
					j++
				}
			}
		}
	})

	t.Run("Input is not modified", func(t *testing.T) {
		before := marketListings()
		Filter(listings, model.FilterState{Search: "sofa"})
		if !reflect.DeepEqual(listings, before) {
			t.Error("Expected listings to be unchanged")
		}
	})

	t.Run("Toggling a category twice clears it", func(t *testing.T) {
		f := model.FilterState{}.Toggle("Möbel").Toggle("Möbel")
		if !reflect.DeepEqual(Filter(listings, f), listings) {
			t.Error("Expected the full catalog after toggling twice")
		}
	})
}

// The catalog holds the washing machine only. Searching for "sofa" shows
// nothing, and then selecting Möbel still shows nothing.
func TestFilterScenario(t *testing.T) {
	c := New(model.DefaultListings())

	f := model.FilterState{Search: "Waschmaschine"}
	if got := titles(c.Filter(f)); !reflect.DeepEqual(got, []string{"Vintage Waschmaschine"}) {
		t.Errorf("Expected the washing machine, got %v", got)
	}

	f.Search = "sofa"
	if got := c.Filter(f); len(got) != 0 {
		t.Errorf("Expected no cards for sofa, got %v", titles(got))
	}

	f = f.Toggle("Möbel")
	if f.Category != "Möbel" {
		t.Fatalf("Expected Möbel to be selected, got %q", f.Category)
	}
	if got := c.Filter(f); len(got) != 0 {
		t.Errorf("Expected no cards for sofa in Möbel, got %v", titles(got))
	}

	f.Search = ""
	f = f.Toggle("Möbel")
	if got := c.Filter(f); len(got) != 1 {
		t.Errorf("Expected the full catalog again, got %v", titles(got))
	}
}

func TestCatalog(t *testing.T) {
	c := New(marketListings())

	if c.Len() != 5 {
		t.Errorf("Expected 5 listings, got %d", c.Len())
	}

	l, ok := c.Get(3)
	if !ok || l.Title != "Taschenuhr" {
		t.Errorf("Expected Taschenuhr, got %+v (%v)", l, ok)
	}
	if _, ok := c.Get(99); ok {
		t.Error("Expected unknown id to be missing")
	}

	all := c.Filter(model.FilterState{})
	all[0].Title = "changed"
	if c.Filter(model.FilterState{})[0].Title != "Vintage Waschmaschine" {
		t.Error("Expected catalog to be unaffected by caller mutation")
	}

	if d := c.Descriptions(); len(d) != 5 {
		t.Errorf("Expected 5 descriptions, got %d", len(d))
	}
}
