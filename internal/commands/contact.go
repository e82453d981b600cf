package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/keystonebuyers/propsite/internal/config"
	"github.com/keystonebuyers/propsite/internal/leads"
	"github.com/keystonebuyers/propsite/internal/logger"
	"github.com/keystonebuyers/propsite/internal/modal"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// Contact submits one lead through the contact modal
func Contact(args []string) error {
	fs := newFlagSet("contact")
	kind := fs.String("kind", modal.FormContact.String(), "contact, cash-offer or book-viewing")
	name := fs.String("name", "", "visitor name")
	email := fs.String("email", "", "visitor email")
	phone := fs.String("phone", "", "visitor phone")
	message := fs.String("message", "", "free-form message")
	address := fs.String("address", "", "property address for cash offers")
	listingID := fs.String("listing", "", "listing id the enquiry is about")
	origin := fs.String("source", "cli", "component that opened the form")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	formKind, err := modal.ParseFormKind(*kind)
	if err != nil {
		return fail("Invalid form", err)
	}

	cfg, log, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	payload := modal.Payload{ListingID: *listingID, Source: *origin}
	if *listingID != "" {
		title, err := listingTitle(cfg, log, *listingID)
		if err != nil {
			return err
		}
		payload.ListingTitle = title
	}

	store, err := leads.Load(config.LeadsFilePath())
	if err != nil {
		return fail("Error loading leads", err)
	}

	ctrl := modal.NewController(store)
	ctrl.Open(formKind, payload)

	lead, err := ctrl.Submit(modal.Fields{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Message: *message,
		Address: *address,
	})
	if errors.Is(err, modal.ErrInvalid) {
		return fail(err.Error(), nil)
	}
	if err != nil {
		return fail("Error saving lead", err)
	}

	log.LeadCaptured(lead.ID, lead.Kind, lead.ListingID)
	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ %s request saved for %s", formKind.Title(), lead.Name)))
	fmt.Println(styles.DimStyle.Render("  Lead " + lead.ID))
	return nil
}

// listingTitle looks up a listing title; an unknown id is an error
func listingTitle(cfg *config.Config, log *logger.Logger, id string) (string, error) {
	src, ctx, cancel, err := openSource(cfg, log)
	if err != nil {
		return "", err
	}
	defer cancel()
	defer src.Close()

	all, err := src.Listings(ctx)
	if err != nil {
		log.SourceError("listings", err)
		return "", fail("Error loading listings", err)
	}
	for _, l := range all {
		if l.ID == id {
			return l.Title, nil
		}
	}
	return "", fail(fmt.Sprintf("No listing with id %q", id), nil)
}

// Leads prints captured leads, newest first
func Leads(args []string) error {
	fs := newFlagSet("leads")
	asJSON := fs.Bool("json", false, "print leads as JSON")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	store, err := leads.Load(config.LeadsFilePath())
	if err != nil {
		return fail("Error loading leads", err)
	}

	list := store.List()

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fail("Error encoding leads", err)
		}
		return nil
	}

	if len(list) == 0 {
		fmt.Println(styles.DimStyle.Render("No leads captured yet"))
		return nil
	}

	fmt.Print(formatLeads(list))
	fmt.Println(styles.DimStyle.Render(fmt.Sprintf("%d lead(s) in %s", len(list), store.Path())))
	return nil
}

func formatLeads(list []leads.Lead) string {
	rows := make([][]string, 0, len(list))
	for _, l := range list {
		reach := l.Email
		if reach == "" {
			reach = l.Phone
		}
		about := l.ListingTitle
		if about == "" {
			about = l.Address
		}
		rows = append(rows, []string{
			l.CreatedAt.Local().Format("2006-01-02 15:04"),
			l.Kind,
			l.Name,
			reach,
			about,
			l.Source,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Border))).
		Headers("WHEN", "KIND", "NAME", "CONTACT", "ABOUT", "FROM").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(styles.HeaderStyle)
			}
			return style
		})

	return t.Render() + "\n"
}
