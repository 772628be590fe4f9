// Package research gathers and validates web research for a contact.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

const (
	snippetMaxLen     = 500
	defaultRetryDelay = 2 * time.Second

	personResults   = 3
	activityResults = 3
	companyResults  = 2
)

// professionalNetworkDomains restricts the first person sub-query so
// profile pages rank ahead of general web results.
var professionalNetworkDomains = []string{"linkedin.com"}

// Aggregator builds a ResearchBundle from three categories of search
// queries: person background, recent activity, and company news.
type Aggregator struct {
	search     contractx.Searcher
	retryDelay time.Duration
}

type AggregatorOption func(*Aggregator)

// WithRetryDelay overrides the pause before the single rate-limit
// retry. Tests use this to avoid real sleeps.
func WithRetryDelay(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if d >= 0 {
			a.retryDelay = d
		}
	}
}

func NewAggregator(search contractx.Searcher, opts ...AggregatorOption) (*Aggregator, error) {
	if search == nil {
		return nil, errors.New("research: searcher is required")
	}

	a := &Aggregator{
		search:     search,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// Research runs the category queries sequentially and joins the
// retrieved snippets. Any query failure aborts the whole step; a
// partial bundle is never returned.
func (a *Aggregator) Research(ctx context.Context, contact contractx.Contact) (contractx.ResearchBundle, error) {
	fullName := contact.FullName()
	company := contact.Company

	log.Info().Str("contact", fullName).Str("company", company).Msg("researching contact")

	// Person category: the site-restricted sub-query comes first so
	// profile results lead the context, then the general sub-query.
	profileResults, err := Query(ctx, a.search, contractx.SearchQuery{
		Query:          fullName + " " + company,
		NumResults:     personResults,
		IncludeDomains: professionalNetworkDomains,
	}, a.retryDelay)
	if err != nil {
		return contractx.ResearchBundle{}, err
	}

	generalResults, err := Query(ctx, a.search, contractx.SearchQuery{
		Query:      fullName + " " + company,
		NumResults: personResults,
	}, a.retryDelay)
	if err != nil {
		return contractx.ResearchBundle{}, err
	}

	activityHits, err := Query(ctx, a.search, contractx.SearchQuery{
		Query:      fullName + " " + company + " recent activity interview publication 2024 2025",
		NumResults: activityResults,
	}, a.retryDelay)
	if err != nil {
		return contractx.ResearchBundle{}, err
	}

	companyHits, err := Query(ctx, a.search, contractx.SearchQuery{
		Query:      company + " recent news 2024 2025",
		NumResults: companyResults,
	}, a.retryDelay)
	if err != nil {
		return contractx.ResearchBundle{}, err
	}

	return contractx.ResearchBundle{
		ContactName:     fullName,
		Company:         company,
		PersonContext:   joinSnippets(append(profileResults, generalResults...)),
		ActivityContext: joinSnippets(activityHits),
		CompanyContext:  joinSnippets(companyHits),
	}, nil
}

// Query runs one search with the narrow retry policy: a rate-limited
// response is retried exactly once after delay; a second rate limit, a
// timeout, or any other failure maps to ErrUnavailable.
func Query(ctx context.Context, search contractx.Searcher, q contractx.SearchQuery, delay time.Duration) ([]contractx.SearchResult, error) {
	results, err := search.Search(ctx, q)
	if errors.Is(err, contractx.ErrRateLimited) {
		log.Warn().Str("query", q.Query).Dur("delay", delay).Msg("search rate limited, retrying once")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: query %q: %v", contractx.ErrUnavailable, q.Query, ctx.Err())
		}
		results, err = search.Search(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", contractx.ErrUnavailable, q.Query, err)
	}
	return results, nil
}

func joinSnippets(results []contractx.SearchResult) string {
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		text := r.Text
		if text == "" {
			continue
		}
		if len(text) > snippetMaxLen {
			text = text[:snippetMaxLen]
		}
		snippets = append(snippets, text)
	}
	return strings.Join(snippets, " ")
}
