package leads

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Lead is one enquiry captured from the contact modal
type Lead struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Message      string    `json:"message,omitempty"`
	Address      string    `json:"address,omitempty"`
	ListingID    string    `json:"listing_id,omitempty"`
	ListingTitle string    `json:"listing_title,omitempty"`
	Source       string    `json:"source,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store is the local queue of captured leads, persisted as JSON
type Store struct {
	path  string
	Leads []Lead `json:"leads"`
}

// NewStore creates an empty store that saves to path
func NewStore(path string) *Store {
	return &Store{path: path, Leads: []Lead{}}
}

// Load reads the store at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(path), nil
		}
		return nil, err
	}

	s := NewStore(path)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse leads file: %w", err)
	}
	if s.Leads == nil {
		s.Leads = []Lead{}
	}

	return s, nil
}

// Save writes the store to its path
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create leads directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal leads: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write leads file: %w", err)
	}

	return nil
}

// Add appends a lead and persists the store
func (s *Store) Add(l Lead) error {
	s.Leads = append(s.Leads, l)
	if err := s.Save(); err != nil {
		s.Leads = s.Leads[:len(s.Leads)-1]
		return err
	}
	return nil
}

// List returns the captured leads, newest first
func (s *Store) List() []Lead {
	out := make([]Lead, len(s.Leads))
	for i, l := range s.Leads {
		out[len(s.Leads)-1-i] = l
	}
	return out
}

// Path returns where the store is persisted
func (s *Store) Path() string {
	return s.path
}
