package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/keystonebuyers/propsite/internal/content"
	"github.com/keystonebuyers/propsite/internal/listings"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// Listings prints one page of filtered, sorted listings
func Listings(args []string) error {
	fs := newFlagSet("listings")
	beds := fs.String("beds", "", "minimum bedrooms")
	maxPrice := fs.String("max-price", "", "maximum price")
	location := fs.String("location", "", "city or state substring")
	propertyType := fs.String("type", "", "property type")
	status := fs.String("status", "", "for-sale, for-rent, sold or rented")
	sortBy := fs.String("sort", string(listings.SortNewest), "newest, oldest, price-asc, price-desc, beds-asc, beds-desc")
	includeSold := fs.Bool("include-sold", false, "include sold listings")
	page := fs.Int("page", 1, "page number")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	filters := listings.DefaultFilters()
	inputs := []struct {
		field listings.Field
		value string
	}{
		{listings.FieldMinBedrooms, *beds},
		{listings.FieldMaxPrice, *maxPrice},
		{listings.FieldLocation, *location},
		{listings.FieldPropertyType, *propertyType},
		{listings.FieldStatus, *status},
		{listings.FieldSortBy, *sortBy},
		{listings.FieldIncludeSold, fmt.Sprintf("%t", *includeSold)},
	}
	for _, in := range inputs {
		if err := filters.Set(in.field, in.value); err != nil {
			return fail("Invalid filter", err)
		}
	}

	cfg, log, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	src, ctx, cancel, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer cancel()
	defer src.Close()

	start := time.Now()
	all, err := src.Listings(ctx)
	if err != nil {
		log.SourceError("listings", err)
		return fail("Error loading listings", err)
	}
	log.ContentLoaded(cfg.Source, len(all), 0, time.Since(start))

	result := listings.Apply(all, filters, *page, cfg.PageSize)
	log.ListingsQueried(result.Total, result.Page, result.TotalPages)

	fmt.Print(formatListings(result, filters))
	return nil
}

// formatListings renders a result page as a table with a summary line
func formatListings(result listings.Result, filters listings.FilterState) string {
	var b strings.Builder

	if result.Total == 0 {
		b.WriteString(styles.DimStyle.Render("No listings match your filters."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(result.Visible))
	for _, l := range result.Visible {
		rows = append(rows, listingRow(l))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Border))).
		Headers("TITLE", "PRICE", "BEDS", "LOCATION", "TYPE", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(styles.HeaderStyle)
			}
			switch col {
			case 1:
				return style.Inherit(styles.PriceStyle)
			case 5:
				return style.Inherit(styles.StatusStyle(string(result.Visible[row].Status)))
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Page %d of %d • %d listings • sort: %s",
		result.Page, result.TotalPages, result.Total, filters.SortBy.Label())))
	b.WriteString("\n")
	return b.String()
}

func listingRow(l content.Listing) []string {
	beds := "—"
	if l.Bedrooms != nil {
		beds = fmt.Sprintf("%d", *l.Bedrooms)
	}
	return []string{
		l.Title,
		content.FormatPrice(l.Price),
		beds,
		l.Location.String(),
		l.PropertyType,
		l.Status.Label(),
	}
}
