// Command browse prints the filtered catalog to the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/second-chance/internal/catalog"
	"github.com/debemdeboas/second-chance/internal/db"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/repository"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	priceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cardStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(48)
)

func renderCard(l model.Listing) string {
	lines := []string{
		titleStyle.Render(l.Title),
		categoryStyle.Render(l.Category),
	}
	if l.Price != "" {
		lines = append(lines, priceStyle.Render(l.Price))
	}
	if l.Contact != "" {
		lines = append(lines, mutedStyle.Render(l.Contact))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// renderListings lays out the cards matching f, or a hint when nothing matches.
func renderListings(listings []model.Listing, f model.FilterState) string {
	matches := catalog.Filter(listings, f)
	if len(matches) == 0 {
		return mutedStyle.Render("Keine Treffer")
	}

	cards := make([]string, 0, len(matches))
	for _, l := range matches {
		cards = append(cards, renderCard(l))
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d von %d Angeboten", len(matches), len(listings)))
	return lipgloss.JoinVertical(lipgloss.Left, append(cards, summary)...)
}

func loadListings(seedPath, dbPath string) ([]model.Listing, error) {
	switch {
	case dbPath != "":
		sqlite := db.NewSQLite(dbPath)
		if err := sqlite.InitDb(); err != nil {
			return nil, err
		}
		defer sqlite.Close()
		return repository.NewDBListingRepository(sqlite).GetListings()
	case seedPath != "":
		return repository.LoadSeed(seedPath)
	default:
		return model.DefaultListings(), nil
	}
}

func main() {
	search := flag.String("q", "", "Search text, matched against title and category")
	category := flag.String("category", "", "Exact category, e.g. Möbel")
	seedPath := flag.String("seed", "", "Read listings from a .yaml, .yml or .toml seed file")
	dbPath := flag.String("db", "", "Read listings from a sqlite catalog")
	flag.Parse()

	if *category != "" && !model.IsCategory(*category) {
		fmt.Fprintf(os.Stderr, "Unknown category %q, known categories: %s\n", *category, strings.Join(model.Categories, ", "))
	}

	listings, err := loadListings(*seedPath, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading listings: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(renderListings(listings, model.FilterState{Search: *search, Category: *category}))
}
