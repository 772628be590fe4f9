// Package draft composes the outreach email from validated research.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
	"github.com/kiboventures/outreach/outreach/prompt"
)

// Drafter generates the two-field email draft. The generation call is
// made once; a response that does not parse into exactly
// {subject, body} fails the stage, with no retry and no partial accept.
type Drafter struct {
	gen contractx.Generator
}

func NewDrafter(gen contractx.Generator) (*Drafter, error) {
	if gen == nil {
		return nil, errors.New("draft: generator is required")
	}
	return &Drafter{gen: gen}, nil
}

func (d *Drafter) Draft(ctx context.Context, contact contractx.Contact, research contractx.ValidatedResearch, member contractx.TeamMember) (contractx.Draft, error) {
	log.Info().Str("contact", contact.FullName()).Str("sender", member.Name).Msg("drafting outreach email")

	rendered, err := prompt.RenderDrafter(prompt.DrafterData{
		ContactFirstName: contact.FirstName,
		ContactLastName:  contact.LastName,
		Company:          contact.Company,
		Notes:            contact.Notes,
		PersonContext:    research.Person,
		ActivityContext:  research.Activity,
		CompanyContext:   research.CompanyNews,
		SenderName:       member.Name,
		SenderRole:       member.Role,
	})
	if err != nil {
		return contractx.Draft{}, err
	}

	raw, err := d.gen.Complete(ctx, rendered)
	if err != nil {
		return contractx.Draft{}, fmt.Errorf("%w: draft email: %v", contractx.ErrUnavailable, err)
	}

	return ParseDraft(raw)
}

// ParseDraft decodes generation output into the strict two-field draft.
// Code fences are stripped first; unknown fields, trailing content, and
// empty subject or body all violate the contract.
func ParseDraft(raw string) (contractx.Draft, error) {
	clean := stripFences(raw)

	decoder := json.NewDecoder(bytes.NewReader([]byte(clean)))
	decoder.DisallowUnknownFields()

	var parsed contractx.Draft
	if err := decoder.Decode(&parsed); err != nil {
		return contractx.Draft{}, fmt.Errorf("%w: decode draft: %v", contractx.ErrInvalidResponse, err)
	}
	if decoder.More() {
		return contractx.Draft{}, fmt.Errorf("%w: trailing content after draft object", contractx.ErrInvalidResponse)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return contractx.Draft{}, fmt.Errorf("%w: draft subject is empty", contractx.ErrInvalidResponse)
	}
	if strings.TrimSpace(parsed.Body) == "" {
		return contractx.Draft{}, fmt.Errorf("%w: draft body is empty", contractx.ErrInvalidResponse)
	}
	return parsed, nil
}

func stripFences(raw string) string {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return strings.TrimSpace(clean)
}
