package model

import "net/url"

// FilterState is the user's current search text and selected category.
// An empty Category means no category filter.
type FilterState struct {
	Search   string `schema:"q"`
	Category string `schema:"category"`
}

// ToggleCategory returns the selection after clicking c: clicking the selected
// category clears it, anything else replaces it.
func ToggleCategory(selected, c string) string {
	if c == selected {
		return ""
	}
	return c
}

func (f FilterState) Toggle(c string) FilterState {
	f.Category = ToggleCategory(f.Category, c)
	return f
}

func (f FilterState) IsSelected(c string) bool {
	return f.Category != "" && f.Category == c
}

// Values encodes the state as query parameters, omitting empty fields.
func (f FilterState) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	return v
}
