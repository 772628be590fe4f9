package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
	"github.com/kiboventures/outreach/outreach/prompt"
)

// Sentinel strings stand in for absent content so every stage keeps its
// fixed output shape. NoInformationFound is produced locally without a
// generation call; NoVerifiedInformation is the wording the model is
// instructed to return when nothing survives filtering.
const (
	NoInformationFound    = "No information found."
	NoVerifiedInformation = "No verified information found. Utilise internal notes for context."
)

const (
	sectionPerson   = "person background, role, previous employers and education"
	sectionActivity = "recent public activity, interviews, publications and social media presence"
	sectionCompany  = "company news, funding and product updates"
)

// Validator reduces raw research to content genuinely about the contact
// via a text-generation capability.
type Validator struct {
	gen contractx.Generator
}

func NewValidator(gen contractx.Generator) (*Validator, error) {
	if gen == nil {
		return nil, errors.New("research: generator is required")
	}
	return &Validator{gen: gen}, nil
}

func (v *Validator) Validate(ctx context.Context, bundle contractx.ResearchBundle, notes string) (contractx.ValidatedResearch, error) {
	log.Info().Str("contact", bundle.ContactName).Str("company", bundle.Company).Msg("validating research")

	person, err := v.validateSection(ctx, bundle.PersonContext, sectionPerson, bundle.ContactName, bundle.Company, notes)
	if err != nil {
		return contractx.ValidatedResearch{}, err
	}

	activity, err := v.validateSection(ctx, bundle.ActivityContext, sectionActivity, bundle.ContactName, bundle.Company, notes)
	if err != nil {
		return contractx.ValidatedResearch{}, err
	}

	companyNews, err := v.validateSection(ctx, bundle.CompanyContext, sectionCompany, bundle.ContactName, bundle.Company, notes)
	if err != nil {
		return contractx.ValidatedResearch{}, err
	}

	return contractx.ValidatedResearch{
		ContactName: bundle.ContactName,
		Company:     bundle.Company,
		Person:      person,
		Activity:    activity,
		CompanyNews: companyNews,
	}, nil
}

// validateSection short-circuits on empty input: absence of research is
// a designed no-op, not an error, and no generation call is made.
func (v *Validator) validateSection(ctx context.Context, content, sectionType, fullName, company, notes string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return NoInformationFound, nil
	}

	rendered, err := prompt.RenderValidator(prompt.ValidatorData{
		FullName:    fullName,
		Company:     company,
		SectionType: sectionType,
		Notes:       strings.TrimSpace(notes),
		Content:     content,
		Sentinel:    NoVerifiedInformation,
	})
	if err != nil {
		return "", err
	}

	summary, err := v.gen.Complete(ctx, rendered)
	if err != nil {
		return "", fmt.Errorf("%w: validate section %q: %v", contractx.ErrUnavailable, sectionType, err)
	}
	return strings.TrimSpace(summary), nil
}
