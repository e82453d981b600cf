package listings

import (
	"cmp"
	"slices"
	"strings"

	"github.com/keystonebuyers/propsite/internal/content"
)

// DefaultPageSize is the number of listings per page on the public site
const DefaultPageSize = 6

// Result is one computed page of listings
type Result struct {
	Visible    []content.Listing
	TotalPages int
	// Page is the 1-based page actually returned after clamping
	Page int
	// Total is the number of listings matching the filters
	Total int
}

// Apply filters, sorts and paginates listings. The input slice is not modified.
// Out-of-range pages are clamped and a non-positive pageSize uses DefaultPageSize.
func Apply(all []content.Listing, filters FilterState, page, pageSize int) Result {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	matched := Filter(all, filters)
	Sort(matched, filters.SortBy)

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	if start > total {
		start = total
	}

	return Result{
		Visible:    matched[start:end],
		TotalPages: totalPages,
		Page:       page,
		Total:      total,
	}
}

// Filter returns the listings matching every active criterion, in input order
func Filter(all []content.Listing, f FilterState) []content.Listing {
	location := strings.ToLower(strings.TrimSpace(f.Location))

	out := make([]content.Listing, 0, len(all))
	for _, l := range all {
		if l.Status == content.StatusSold && !f.IncludeSold {
			continue
		}
		if f.MinBedrooms > 0 && (l.Bedrooms == nil || *l.Bedrooms < f.MinBedrooms) {
			continue
		}
		if f.MaxPrice > 0 && l.Price != nil && *l.Price > f.MaxPrice {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(l.Location.City+", "+l.Location.State), location) {
			continue
		}
		if f.PropertyType != "" && l.PropertyType != f.PropertyType {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Sort orders listings in place by key. Ties keep their relative order.
func Sort(ls []content.Listing, key SortKey) {
	var compare func(a, b content.Listing) int

	switch key {
	case SortOldest:
		compare = func(a, b content.Listing) int { return a.PublishedOrEpoch().Compare(b.PublishedOrEpoch()) }
	case SortPriceAsc:
		compare = func(a, b content.Listing) int { return cmp.Compare(a.PriceOrZero(), b.PriceOrZero()) }
	case SortPriceDesc:
		compare = func(a, b content.Listing) int { return cmp.Compare(b.PriceOrZero(), a.PriceOrZero()) }
	case SortBedsAsc:
		compare = func(a, b content.Listing) int { return cmp.Compare(a.BedroomsOrZero(), b.BedroomsOrZero()) }
	case SortBedsDesc:
		compare = func(a, b content.Listing) int { return cmp.Compare(b.BedroomsOrZero(), a.BedroomsOrZero()) }
	default:
		compare = func(a, b content.Listing) int { return b.PublishedOrEpoch().Compare(a.PublishedOrEpoch()) }
	}

	slices.SortStableFunc(ls, compare)
}
