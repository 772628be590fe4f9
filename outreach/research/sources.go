package research

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
	"github.com/kiboventures/outreach/pkg/cala"
	"github.com/kiboventures/outreach/pkg/exa"
)

// ExaSource adapts the Exa client to the Searcher port, translating
// client errors into the port's failure signals.
type ExaSource struct {
	client *exa.Client
}

func NewExaSource(client *exa.Client) (*ExaSource, error) {
	if client == nil {
		return nil, errors.New("research: exa client is required")
	}
	return &ExaSource{client: client}, nil
}

func (s *ExaSource) Search(ctx context.Context, q contractx.SearchQuery) ([]contractx.SearchResult, error) {
	results, err := s.client.Search(ctx, q.Query, q.NumResults, q.IncludeDomains)
	if err != nil {
		switch {
		case errors.Is(err, exa.ErrRateLimited):
			return nil, fmt.Errorf("%w: %v", contractx.ErrRateLimited, err)
		case errors.Is(err, exa.ErrTimeout):
			return nil, fmt.Errorf("%w: %v", contractx.ErrSearchTimeout, err)
		default:
			return nil, err
		}
	}

	out := make([]contractx.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, contractx.SearchResult{
			Title: r.Title,
			URL:   r.URL,
			Text:  r.Text,
		})
	}
	return out, nil
}

// CalaSource adapts the experimental Cala knowledge backend to the same
// port. Free queries go through knowledge search; the site-restricted
// person sub-query is served from the entity graph instead, since Cala
// has no domain filtering. Entity lookups are best effort: a contact
// missing from the graph yields no results, not an error.
type CalaSource struct {
	client *cala.Client
}

func NewCalaSource(client *cala.Client) (*CalaSource, error) {
	if client == nil {
		return nil, errors.New("research: cala client is required")
	}
	return &CalaSource{client: client}, nil
}

func (s *CalaSource) Search(ctx context.Context, q contractx.SearchQuery) ([]contractx.SearchResult, error) {
	if len(q.IncludeDomains) > 0 {
		return s.entityProfile(ctx, q.Query)
	}

	content, err := s.client.KnowledgeSearch(ctx, q.Query)
	if err != nil {
		return nil, mapCalaErr(err)
	}
	if content == "" {
		return nil, nil
	}
	return []contractx.SearchResult{{Text: content}}, nil
}

func (s *CalaSource) entityProfile(ctx context.Context, query string) ([]contractx.SearchResult, error) {
	entity, err := s.client.EntitySearch(ctx, query, "PERSON")
	if err != nil {
		return nil, mapCalaErr(err)
	}
	if entity == nil {
		return nil, nil
	}

	profile, err := s.client.GetEntity(ctx, entity.ID)
	if err != nil {
		log.Warn().Err(err).Str("entity", entity.Name).Msg("entity profile lookup failed, continuing without it")
		return nil, nil
	}
	if profile.Description == "" {
		return nil, nil
	}
	return []contractx.SearchResult{{Title: profile.Name, Text: profile.Description}}, nil
}

func mapCalaErr(err error) error {
	switch {
	case errors.Is(err, cala.ErrRateLimited):
		return fmt.Errorf("%w: %v", contractx.ErrRateLimited, err)
	case errors.Is(err, cala.ErrTimeout):
		return fmt.Errorf("%w: %v", contractx.ErrSearchTimeout, err)
	default:
		return err
	}
}
