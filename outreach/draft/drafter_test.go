package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

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
		Activity:    "Spoke on a climate podcast",
		CompanyNews: "Raised an angel round",
	}
	testMember = contractx.TeamMember{
		Name:  "Juan",
		Email: "juan@kiboventures.com",
		Role:  "Investment Associate",
	}
)

func TestDraftParsesTwoFieldResponse(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: `{"subject":"Solarplay's angel round","body":"Hi Maria,\n\nShort note.\n\nJuan"}`}
	d, err := NewDrafter(gen)
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	draft, err := d.Draft(context.Background(), testContact, testResearch, testMember)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if draft.Subject != "Solarplay's angel round" {
		t.Fatalf("Subject = %q", draft.Subject)
	}
	if !strings.HasPrefix(draft.Body, "Hi Maria") {
		t.Fatalf("Body = %q", draft.Body)
	}
}

func TestDraftPromptCarriesResearchAndSender(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: `{"subject":"s","body":"b"}`}
	d, err := NewDrafter(gen)
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	if _, err := d.Draft(context.Background(), testContact, testResearch, testMember); err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{
		"Juan",
		"Investment Associate",
		"Maria Gonzalez",
		"Founder, ex solar engineer",
		"Raised an angel round",
		"Met at South Summit",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestDraftGeneratorErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: errors.New("model down")}
	d, err := NewDrafter(gen)
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	_, err = d.Draft(context.Background(), testContact, testResearch, testMember)
	if !errors.Is(err, contractx.ErrUnavailable) {
		t.Fatalf("Draft() error = %v, want ErrUnavailable", err)
	}
}

func TestParseDraftStripsCodeFences(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"subject\":\"s\",\"body\":\"b\"}\n```"
	draft, err := ParseDraft(raw)
	if err != nil {
		t.Fatalf("ParseDraft() error = %v", err)
	}
	if draft.Subject != "s" || draft.Body != "b" {
		t.Fatalf("ParseDraft() = %+v", draft)
	}
}

func TestParseDraftRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"prose", "Here is your email: hi Maria"},
		{"unknown field", `{"subject":"s","body":"b","tone":"warm"}`},
		{"missing body", `{"subject":"s"}`},
		{"empty subject", `{"subject":"","body":"b"}`},
		{"trailing content", `{"subject":"s","body":"b"} extra`},
		{"array", `[{"subject":"s","body":"b"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDraft(tc.raw)
			if !errors.Is(err, contractx.ErrInvalidResponse) {
				t.Fatalf("ParseDraft(%q) error = %v, want ErrInvalidResponse", tc.raw, err)
			}
		})
	}
}
