// Package prompt holds the embedded generation prompts and renders them
// with per-run data.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

var (
	//go:embed template/validator.txt
	validatorRaw string

	//go:embed template/drafter.txt
	drafterRaw string

	//go:embed template/strategy.txt
	strategyRaw string
)

var (
	validatorTmpl = template.Must(template.New("validator").Parse(strings.TrimSpace(validatorRaw)))
	drafterTmpl   = template.Must(template.New("drafter").Parse(strings.TrimSpace(drafterRaw)))
	strategyTmpl  = template.Must(template.New("strategy").Parse(strings.TrimSpace(strategyRaw)))
)

// ValidatorData fills the research-validation prompt for one section.
type ValidatorData struct {
	FullName    string
	Company     string
	SectionType string
	Notes       string
	Content     string
	Sentinel    string
}

// DrafterData fills the cold-outreach email prompt.
type DrafterData struct {
	ContactFirstName string
	ContactLastName  string
	Company          string
	Notes            string
	PersonContext    string
	ActivityContext  string
	CompanyContext   string
	SenderName       string
	SenderRole       string
}

// StrategyData fills the connection-strategy prompt.
type StrategyData struct {
	FullName       string
	Company        string
	SenderName     string
	PersonContext  string
	CompanyContext string
	Notes          string
	EventsContext  string
	ContentContext string
}

func RenderValidator(d ValidatorData) (string, error) {
	return render(validatorTmpl, d)
}

func RenderDrafter(d DrafterData) (string, error) {
	return render(drafterTmpl, d)
}

func RenderStrategy(d StrategyData) (string, error) {
	return render(strategyTmpl, d)
}

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("prompt: render %s: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}
