package model

import "slices"

// Categories is the fixed, ordered set of listing categories. It drives both the
// filter buttons and the category select of the upload form.
var Categories = []string{
	"Antiquitäten",
	"Möbel",
	"Schmuck",
	"Uhren",
	"Elektronik & Werkzeuge",
	"Kleidung",
	"Unsortiert & spannend",
	"Sammlerstücke",
}

func IsCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// DefaultCategory is preselected in a fresh draft.
func DefaultCategory() string {
	return Categories[0]
}
