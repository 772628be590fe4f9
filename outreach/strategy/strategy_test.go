package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

type scripted struct {
	results []contractx.SearchResult
	err     error
}

type fakeSearcher struct {
	responses []scripted
	calls     []contractx.SearchQuery
}

func (f *fakeSearcher) Search(ctx context.Context, q contractx.SearchQuery) ([]contractx.SearchResult, error) {
	f.calls = append(f.calls, q)
	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		return nil, fmt.Errorf("no scripted response at call=%d", idx+1)
	}
	return f.responses[idx].results, f.responses[idx].err
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var (
	testContact = contractx.Contact{
		FirstName: "Maria",
		LastName:  "Gonzalez",
		Company:   "Solarplay",
		Notes:     "Met at South Summit",
	}
	testResearch = contractx.ValidatedResearch{
		ContactName: "Maria Gonzalez",
		Company:     "Solarplay",
		Person:      "Founder, ex solar engineer",
		CompanyNews: "Raised an angel round",
	}
	testMember = contractx.TeamMember{
		Name:  "Juan",
		Email: "juan@kiboventures.com",
		Role:  "Investment Associate",
	}
)

func TestComposeRunsTargetedSearches(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{responses: []scripted{
		{results: []contractx.SearchResult{{Text: "speaking at a Lisbon panel"}}},
		{results: []contractx.SearchResult{{Text: "wrote about storage pricing"}}},
	}}
	gen := &fakeGenerator{reply: `{"subject":"Connection strategy: Maria Gonzalez / Solarplay","body":"WARM INTRODUCTION ANGLES..."}`}

	s, err := New(searcher, gen, WithRetryDelay(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	draft, err := s.Compose(context.Background(), testContact, testResearch, testMember)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(draft.Subject, "Connection strategy") {
		t.Fatalf("Subject = %q", draft.Subject)
	}

	if len(searcher.calls) != 2 {
		t.Fatalf("search calls = %d, want 2", len(searcher.calls))
	}
	if !strings.Contains(searcher.calls[0].Query, "event") {
		t.Fatalf("events query = %q", searcher.calls[0].Query)
	}
	if !strings.Contains(searcher.calls[1].Query, "podcast") {
		t.Fatalf("content query = %q", searcher.calls[1].Query)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{
		"speaking at a Lisbon panel",
		"wrote about storage pricing",
		"Founder, ex solar engineer",
		"Juan",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestComposeEmptySearchesFallBackToPlaceholders(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{responses: []scripted{{}, {}}}
	gen := &fakeGenerator{reply: `{"subject":"s","body":"b"}`}

	s, err := New(searcher, gen, WithRetryDelay(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := s.Compose(context.Background(), testContact, testResearch, testMember); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(gen.prompts[0], "No specific events found.") {
		t.Fatalf("prompt missing events placeholder:\n%s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "No specific content found.") {
		t.Fatalf("prompt missing content placeholder:\n%s", gen.prompts[0])
	}
}

func TestComposeSearchFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{responses: []scripted{
		{err: fmt.Errorf("%w: deadline", contractx.ErrSearchTimeout)},
	}}
	gen := &fakeGenerator{reply: `{"subject":"s","body":"b"}`}

	s, err := New(searcher, gen, WithRetryDelay(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = s.Compose(context.Background(), testContact, testResearch, testMember)
	if !errors.Is(err, contractx.ErrUnavailable) {
		t.Fatalf("Compose() error = %v, want ErrUnavailable", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("generation calls = %d, want 0", len(gen.prompts))
	}
}

func TestComposeMalformedResponseIsInvalid(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{responses: []scripted{{}, {}}}
	gen := &fakeGenerator{reply: "not json"}

	s, err := New(searcher, gen, WithRetryDelay(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = s.Compose(context.Background(), testContact, testResearch, testMember)
	if !errors.Is(err, contractx.ErrInvalidResponse) {
		t.Fatalf("Compose() error = %v, want ErrInvalidResponse", err)
	}
}
