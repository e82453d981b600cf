package listings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keystonebuyers/propsite/internal/content"
)

// SortKey orders the visible listings
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortBedsAsc   SortKey = "beds-asc"
	SortBedsDesc  SortKey = "beds-desc"
)

// SortKeys lists every sort key in the order the UI cycles through them
var SortKeys = []SortKey{SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortBedsAsc, SortBedsDesc}

// ParseSortKey maps input to a SortKey, falling back to newest
func ParseSortKey(s string) SortKey {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range SortKeys {
		if string(k) == s {
			return k
		}
	}
	return SortNewest
}

// Next returns the sort key after k, wrapping around
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortNewest
}

// Label returns a human-readable sort description
func (k SortKey) Label() string {
	switch k {
	case SortOldest:
		return "Oldest first"
	case SortPriceAsc:
		return "Price: low to high"
	case SortPriceDesc:
		return "Price: high to low"
	case SortBedsAsc:
		return "Bedrooms: fewest first"
	case SortBedsDesc:
		return "Bedrooms: most first"
	default:
		return "Newest first"
	}
}

// Field names a FilterState field that user input can set
type Field string

const (
	FieldMinBedrooms  Field = "beds"
	FieldMaxPrice     Field = "max-price"
	FieldLocation     Field = "location"
	FieldPropertyType Field = "type"
	FieldStatus       Field = "status"
	FieldSortBy       Field = "sort"
	FieldIncludeSold  Field = "include-sold"
)

// FilterState is the listings page filter configuration.
// Zero values mean the criterion is inactive.
type FilterState struct {
	MinBedrooms  int
	MaxPrice     float64
	Location     string
	PropertyType string
	Status       content.Status
	SortBy       SortKey
	IncludeSold  bool
}

// DefaultFilters returns the state the page starts with
func DefaultFilters() FilterState {
	return FilterState{SortBy: SortNewest}
}

// Reset restores the default filters
func (f *FilterState) Reset() {
	*f = DefaultFilters()
}

// Set updates one field from raw user input. Blank input clears the field.
// Unparsable input returns an error and leaves the field unchanged.
func (f *FilterState) Set(field Field, raw string) error {
	raw = strings.TrimSpace(raw)

	switch field {
	case FieldMinBedrooms:
		if raw == "" {
			f.MinBedrooms = 0
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid bedroom count %q", raw)
		}
		f.MinBedrooms = n

	case FieldMaxPrice:
		if raw == "" {
			f.MaxPrice = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.NewReplacer(",", "", "$", "").Replace(raw), 64)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid price %q", raw)
		}
		f.MaxPrice = v

	case FieldLocation:
		f.Location = raw

	case FieldPropertyType:
		f.PropertyType = raw

	case FieldStatus:
		if raw == "" {
			f.Status = ""
			return nil
		}
		st := content.ParseStatus(raw)
		if st == "" {
			return fmt.Errorf("invalid status %q", raw)
		}
		f.Status = st

	case FieldSortBy:
		f.SortBy = ParseSortKey(raw)

	case FieldIncludeSold:
		if raw == "" {
			f.IncludeSold = false
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid include-sold value %q", raw)
		}
		f.IncludeSold = b

	default:
		return fmt.Errorf("unknown filter field %q", field)
	}

	return nil
}

// Active reports whether any criterion other than sorting is set
func (f FilterState) Active() bool {
	return f.MinBedrooms > 0 || f.MaxPrice > 0 || f.Location != "" ||
		f.PropertyType != "" || f.Status != "" || f.IncludeSold
}
