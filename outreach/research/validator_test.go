package research

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

func TestValidateEmptySectionShortCircuits(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "summary"}
	v, err := NewValidator(gen)
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	bundle := contractx.ResearchBundle{
		ContactName:     "Maria Gonzalez",
		Company:         "Solarplay",
		PersonContext:   "real content",
		ActivityContext: "   \n\t ",
		CompanyContext:  "",
	}

	validated, err := v.Validate(context.Background(), bundle, "notes")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if validated.Activity != NoInformationFound {
		t.Fatalf("Activity = %q, want sentinel", validated.Activity)
	}
	if validated.CompanyNews != NoInformationFound {
		t.Fatalf("CompanyNews = %q, want sentinel", validated.CompanyNews)
	}
	if validated.Person != "summary" {
		t.Fatalf("Person = %q", validated.Person)
	}
	// Only the non-empty section reaches the generator.
	if len(gen.prompts) != 1 {
		t.Fatalf("generation calls = %d, want 1", len(gen.prompts))
	}
}

func TestValidateAllEmptyMakesNoGenerationCall(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{}
	v, err := NewValidator(gen)
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	validated, err := v.Validate(context.Background(), contractx.ResearchBundle{
		ContactName: "Maria Gonzalez",
		Company:     "Solarplay",
	}, "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("generation calls = %d, want 0", len(gen.prompts))
	}
	for _, got := range []string{validated.Person, validated.Activity, validated.CompanyNews} {
		if got != NoInformationFound {
			t.Fatalf("section = %q, want sentinel", got)
		}
	}
}

func TestValidatePromptCarriesContext(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "summary"}
	v, err := NewValidator(gen)
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	bundle := contractx.ResearchBundle{
		ContactName:   "Maria Gonzalez",
		Company:       "Solarplay",
		PersonContext: "raw snippet about maria",
	}
	if _, err := v.Validate(context.Background(), bundle, "met at South Summit"); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{
		"Maria Gonzalez",
		"Solarplay",
		"raw snippet about maria",
		"met at South Summit",
		NoVerifiedInformation,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestValidateOmitsNotesBlockWhenEmpty(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "summary"}
	v, err := NewValidator(gen)
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	bundle := contractx.ResearchBundle{
		ContactName:   "Maria Gonzalez",
		Company:       "Solarplay",
		PersonContext: "raw",
	}
	if _, err := v.Validate(context.Background(), bundle, "   "); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if strings.Contains(gen.prompts[0], "INTERNAL NOTES") {
		t.Fatalf("prompt should omit notes block when notes are blank:\n%s", gen.prompts[0])
	}
}

func TestValidateGeneratorErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: errors.New("model down")}
	v, err := NewValidator(gen)
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	_, err = v.Validate(context.Background(), contractx.ResearchBundle{
		ContactName:   "Maria Gonzalez",
		Company:       "Solarplay",
		PersonContext: "raw",
	}, "")
	if !errors.Is(err, contractx.ErrUnavailable) {
		t.Fatalf("Validate() error = %v, want ErrUnavailable", err)
	}
}
