// Package modal holds the single contact modal of a site session. Components
// that want to collect a lead are handed the Controller instead of reaching for
// shared globals.
package modal

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keystonebuyers/propsite/internal/leads"
)

var (
	// ErrNoModal is returned when submitting while no modal is open
	ErrNoModal = errors.New("no modal is open")
	// ErrInvalid wraps every validation failure
	ErrInvalid = errors.New("invalid submission")
)

// FormKind is the form a modal shows
type FormKind int

const (
	FormContact FormKind = iota + 1
	FormCashOffer
	FormViewing
)

// FormKinds lists every form kind
var FormKinds = []FormKind{FormContact, FormCashOffer, FormViewing}

// ParseFormKind maps a form name to a FormKind
func ParseFormKind(s string) (FormKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range FormKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown form kind %q", s)
}

func (k FormKind) String() string {
	switch k {
	case FormContact:
		return "contact"
	case FormCashOffer:
		return "cash-offer"
	case FormViewing:
		return "book-viewing"
	}
	return fmt.Sprintf("FormKind(%d)", int(k))
}

// Title is the heading shown on the modal
func (k FormKind) Title() string {
	switch k {
	case FormContact:
		return "Get in Touch"
	case FormCashOffer:
		return "Get Your Cash Offer"
	case FormViewing:
		return "Book a Viewing"
	}
	return "Contact Us"
}

// Fields are the values a visitor typed into the form
type Fields struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Address string
}

func (f Fields) trimmed() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Message: strings.TrimSpace(f.Message),
		Address: strings.TrimSpace(f.Address),
	}
}

// Payload is what the opening component passes to the modal
type Payload struct {
	ListingID    string
	ListingTitle string
	// Source names the component that opened the modal, e.g. "hero" or "listing-card"
	Source string
}

// Validate checks the fields required by the form kind
func (k FormKind) Validate(f Fields, p Payload) error {
	f = f.trimmed()

	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if f.Email != "" {
		if _, err := mail.ParseAddress(f.Email); err != nil {
			return fmt.Errorf("%w: email %q is not valid", ErrInvalid, f.Email)
		}
	}
	reachable := f.Email != "" || f.Phone != ""

	switch k {
	case FormContact:
		if !reachable {
			return fmt.Errorf("%w: email or phone is required", ErrInvalid)
		}
		return nil
	case FormCashOffer:
		if f.Phone == "" {
			return fmt.Errorf("%w: phone is required for a cash offer", ErrInvalid)
		}
		if f.Address == "" && p.ListingID == "" {
			return fmt.Errorf("%w: property address is required", ErrInvalid)
		}
		return nil
	case FormViewing:
		if !reachable {
			return fmt.Errorf("%w: email or phone is required", ErrInvalid)
		}
		if p.ListingID == "" {
			return fmt.Errorf("%w: a viewing needs a listing", ErrInvalid)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown form kind %d", ErrInvalid, int(k))
}

// State is the open modal
type State struct {
	Kind    FormKind
	Payload Payload
}

// Recorder persists submitted leads
type Recorder interface {
	Add(l leads.Lead) error
}

// Controller owns the one modal of a session
type Controller struct {
	recorder Recorder
	state    State
	open     bool

	now   func() time.Time
	newID func() string
}

// NewController creates a controller that records leads with r
func NewController(r Recorder) *Controller {
	return &Controller{
		recorder: r,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Open shows the modal for kind, replacing whatever was open
func (c *Controller) Open(kind FormKind, p Payload) {
	c.state = State{Kind: kind, Payload: p}
	c.open = true
}

// Close hides the modal
func (c *Controller) Close() {
	c.state = State{}
	c.open = false
}

// Current returns the open modal, if any
func (c *Controller) Current() (State, bool) {
	return c.state, c.open
}

// IsOpen reports whether a modal is showing
func (c *Controller) IsOpen() bool {
	return c.open
}

// Submit validates f against the open form, records the lead and closes the modal.
// On validation failure the modal stays open.
func (c *Controller) Submit(f Fields) (leads.Lead, error) {
	if !c.open {
		return leads.Lead{}, ErrNoModal
	}
	if err := c.state.Kind.Validate(f, c.state.Payload); err != nil {
		return leads.Lead{}, err
	}

	f = f.trimmed()
	lead := leads.Lead{
		ID:           c.newID(),
		Kind:         c.state.Kind.String(),
		Name:         f.Name,
		Email:        f.Email,
		Phone:        f.Phone,
		Message:      f.Message,
		Address:      f.Address,
		ListingID:    c.state.Payload.ListingID,
		ListingTitle: c.state.Payload.ListingTitle,
		Source:       c.state.Payload.Source,
		CreatedAt:    c.now().UTC(),
	}

	if err := c.recorder.Add(lead); err != nil {
		return leads.Lead{}, fmt.Errorf("failed to record lead: %w", err)
	}

	c.Close()
	return lead, nil
}
