// Package strategy composes the internal connection-strategy note: a
// second email to the team member with concrete relationship-building
// angles for a contact.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
	"github.com/kiboventures/outreach/outreach/draft"
	"github.com/kiboventures/outreach/outreach/prompt"
	"github.com/kiboventures/outreach/outreach/research"
)

const (
	eventsResults  = 3
	contentResults = 3

	defaultRetryDelay = 2 * time.Second
)

// Strategist runs two extra targeted searches (events, published
// content) and generates the strategy note under the same two-field
// contract as the drafter.
type Strategist struct {
	search     contractx.Searcher
	gen        contractx.Generator
	retryDelay time.Duration
}

type Option func(*Strategist)

func WithRetryDelay(d time.Duration) Option {
	return func(s *Strategist) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

func New(search contractx.Searcher, gen contractx.Generator, opts ...Option) (*Strategist, error) {
	if search == nil {
		return nil, errors.New("strategy: searcher is required")
	}
	if gen == nil {
		return nil, errors.New("strategy: generator is required")
	}

	s := &Strategist{
		search:     search,
		gen:        gen,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Strategist) Compose(ctx context.Context, contact contractx.Contact, validated contractx.ValidatedResearch, member contractx.TeamMember) (contractx.Draft, error) {
	fullName := contact.FullName()
	log.Info().Str("contact", fullName).Str("company", contact.Company).Msg("generating connection strategy")

	eventsHits, err := research.Query(ctx, s.search, contractx.SearchQuery{
		Query:      fullName + " " + contact.Company + " conference panel speaker event 2024 2025",
		NumResults: eventsResults,
	}, s.retryDelay)
	if err != nil {
		return contractx.Draft{}, err
	}

	contentHits, err := research.Query(ctx, s.search, contractx.SearchQuery{
		Query:      fullName + " " + contact.Company + " blog post article podcast linkedin post",
		NumResults: contentResults,
	}, s.retryDelay)
	if err != nil {
		return contractx.Draft{}, err
	}

	rendered, err := prompt.RenderStrategy(prompt.StrategyData{
		FullName:       fullName,
		Company:        contact.Company,
		SenderName:     member.Name,
		PersonContext:  validated.Person,
		CompanyContext: validated.CompanyNews,
		Notes:          strings.TrimSpace(contact.Notes),
		EventsContext:  joinTexts(eventsHits),
		ContentContext: joinTexts(contentHits),
	})
	if err != nil {
		return contractx.Draft{}, err
	}

	raw, err := s.gen.Complete(ctx, rendered)
	if err != nil {
		return contractx.Draft{}, fmt.Errorf("%w: compose strategy: %v", contractx.ErrUnavailable, err)
	}

	return draft.ParseDraft(raw)
}

func joinTexts(results []contractx.SearchResult) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	return strings.Join(texts, " ")
}
