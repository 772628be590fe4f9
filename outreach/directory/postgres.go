package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

type PostgresConfig struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

type contactRow struct {
	bun.BaseModel `bun:"table:contacts"`

	FirstName string `bun:"first_name"`
	LastName  string `bun:"last_name"`
	Company   string `bun:"company"`
	Notes     string `bun:"notes"`
}

type teamMemberRow struct {
	bun.BaseModel `bun:"table:team_members"`

	Name  string `bun:"name"`
	Email string `bun:"email"`
	Role  string `bun:"role"`
}

// PostgresSource loads the same two tables from Postgres. The tables
// are still treated as read-only snapshots: rows are fetched once and
// the connection is closed.
type PostgresSource struct {
	db *bun.DB
}

func NewPostgresSource(cfg PostgresConfig) (*PostgresSource, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres source: dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &PostgresSource{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (s *PostgresSource) Load(ctx context.Context) ([]contractx.Contact, []contractx.TeamMember, error) {
	defer s.db.Close()

	var contactRows []contactRow
	if err := s.db.NewSelect().Model(&contactRows).Scan(ctx); err != nil {
		return nil, nil, fmt.Errorf("select contacts: %w", err)
	}

	var teamRows []teamMemberRow
	if err := s.db.NewSelect().Model(&teamRows).Scan(ctx); err != nil {
		return nil, nil, fmt.Errorf("select team members: %w", err)
	}

	contacts := make([]contractx.Contact, 0, len(contactRows))
	for _, row := range contactRows {
		contacts = append(contacts, contractx.Contact{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Company:   row.Company,
			Notes:     row.Notes,
		})
	}

	team := make([]contractx.TeamMember, 0, len(teamRows))
	for _, row := range teamRows {
		team = append(team, contractx.TeamMember{
			Name:  row.Name,
			Email: row.Email,
			Role:  row.Role,
		})
	}

	return contacts, team, nil
}
