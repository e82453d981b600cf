package content

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Status is the market status of a listing
type Status string

const (
	StatusForSale Status = "for-sale"
	StatusForRent Status = "for-rent"
	StatusSold    Status = "sold"
	StatusRented  Status = "rented"
)

// Statuses lists every known status in display order
var Statuses = []Status{StatusForSale, StatusForRent, StatusSold, StatusRented}

// ParseStatus maps user input to a Status. Blank or unknown input yields "".
func ParseStatus(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if string(st) == s {
			return st
		}
	}
	return ""
}

// Label returns a human-readable status
func (s Status) Label() string {
	switch s {
	case StatusForSale:
		return "For Sale"
	case StatusForRent:
		return "For Rent"
	case StatusSold:
		return "Sold"
	case StatusRented:
		return "Rented"
	}
	return "Unknown"
}

// Location is where a property sits
type Location struct {
	City  string `json:"city,omitempty" yaml:"city,omitempty"`
	State string `json:"state,omitempty" yaml:"state,omitempty"`
}

// String formats the location as "City, ST", omitting missing parts
func (l Location) String() string {
	city := strings.TrimSpace(l.City)
	state := strings.TrimSpace(l.State)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

// Listing is a property record shown on the public listings page.
// Optional numeric fields are pointers so missing differs from zero.
type Listing struct {
	ID           string     `json:"_id" yaml:"_id"`
	Slug         string     `json:"slug,omitempty" yaml:"slug,omitempty"`
	Title        string     `json:"title" yaml:"title"`
	Price        *float64   `json:"price,omitempty" yaml:"price,omitempty"`
	Bedrooms     *int       `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"`
	Bathrooms    *float64   `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty"`
	Area         *float64   `json:"area,omitempty" yaml:"area,omitempty"`
	Location     Location   `json:"location" yaml:"location"`
	PropertyType string     `json:"propertyType,omitempty" yaml:"propertyType,omitempty"`
	Status       Status     `json:"status,omitempty" yaml:"status,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	Description  []Block    `json:"description,omitempty" yaml:"description,omitempty"`
}

// PriceOrZero returns the price, or 0 when unknown
func (l Listing) PriceOrZero() float64 {
	if l.Price == nil {
		return 0
	}
	return *l.Price
}

// FormatPrice renders an optional price as whole dollars, "—" when unknown
func FormatPrice(p *float64) string {
	if p == nil {
		return "—"
	}
	return "$" + humanize.Comma(int64(math.Round(*p)))
}

// BedroomsOrZero returns the bedroom count, or 0 when unknown
func (l Listing) BedroomsOrZero() int {
	if l.Bedrooms == nil {
		return 0
	}
	return *l.Bedrooms
}

// PublishedOrEpoch returns the publish time, or the Unix epoch when unknown
func (l Listing) PublishedOrEpoch() time.Time {
	if l.PublishedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *l.PublishedAt
}
