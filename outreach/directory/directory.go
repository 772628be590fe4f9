// Package directory holds the two read-only lookup tables: contacts
// and team members. Both are loaded once at process start and never
// mutated, so resolution needs no synchronization.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

// Source loads both tables. Implementations: CSVSource (default) and
// PostgresSource.
type Source interface {
	Load(ctx context.Context) ([]contractx.Contact, []contractx.TeamMember, error)
}

type Directory struct {
	contacts []contractx.Contact
	team     []contractx.TeamMember
}

func New(ctx context.Context, src Source) (*Directory, error) {
	if src == nil {
		return nil, errors.New("directory: source is required")
	}

	contacts, team, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("directory: load tables: %w", err)
	}

	return &Directory{contacts: contacts, team: team}, nil
}

// ResolveContact matches first and last name case-insensitively.
func (d *Directory) ResolveContact(first, last string) (contractx.Contact, error) {
	for _, c := range d.contacts {
		if strings.EqualFold(c.FirstName, first) && strings.EqualFold(c.LastName, last) {
			return c, nil
		}
	}
	return contractx.Contact{}, fmt.Errorf("contact %q: %w", first+" "+last, contractx.ErrNotFound)
}

// ResolveTeamMember matches the name case-insensitively.
func (d *Directory) ResolveTeamMember(name string) (contractx.TeamMember, error) {
	for _, m := range d.team {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return contractx.TeamMember{}, fmt.Errorf("team member %q: %w", name, contractx.ErrNotFound)
}
