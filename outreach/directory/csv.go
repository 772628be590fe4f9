package directory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

type CSVConfig struct {
	ContactsPath string `envconfig:"CONTACTS_PATH" split_words:"true" default:"data/contacts.csv"`
	TeamPath     string `envconfig:"TEAM_PATH" split_words:"true" default:"data/team.csv"`
}

// CSVSource reads the two tables from ';'-delimited files with a header
// row. A UTF-8 BOM on the first header cell is tolerated; the files are
// exported from spreadsheets that write one.
type CSVSource struct {
	contactsPath string
	teamPath     string
}

func NewCSVSource(cfg CSVConfig) *CSVSource {
	return &CSVSource{
		contactsPath: cfg.ContactsPath,
		teamPath:     cfg.TeamPath,
	}
}

func (s *CSVSource) Load(ctx context.Context) ([]contractx.Contact, []contractx.TeamMember, error) {
	contactRows, err := readTable(s.contactsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read contacts table: %w", err)
	}
	teamRows, err := readTable(s.teamPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read team table: %w", err)
	}

	contacts := make([]contractx.Contact, 0, len(contactRows))
	for _, row := range contactRows {
		contacts = append(contacts, contractx.Contact{
			FirstName: row["first_name"],
			LastName:  row["last_name"],
			Company:   row["company"],
			Notes:     row["notes"],
		})
	}

	team := make([]contractx.TeamMember, 0, len(teamRows))
	for _, row := range teamRows {
		team = append(team, contractx.TeamMember{
			Name:  row["name"],
			Email: row["email"],
			Role:  row["role"],
		})
	}

	return contacts, team, nil
}

func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[strings.TrimSpace(name)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
