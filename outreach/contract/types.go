package contract

// Contact is a prospective outreach target. Identity is the
// (first name, last name) pair, compared case-insensitively. Immutable
// once loaded.
type Contact struct {
	FirstName string
	LastName  string
	Company   string
	Notes     string
}

func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// TeamMember is an internal sender on whose behalf mail is composed.
type TeamMember struct {
	Name  string
	Email string
	Role  string
}

// ResearchBundle aggregates raw search snippets for a contact across
// the three research categories. Any field may be empty.
type ResearchBundle struct {
	ContactName     string
	Company         string
	PersonContext   string
	ActivityContext string
	CompanyContext  string
}

// ValidatedResearch is the bundle after relevance filtering. Each field
// holds either a condensed factual summary or a sentinel string meaning
// no verifiable content survived.
type ValidatedResearch struct {
	ContactName string
	Company     string
	Person      string
	Activity    string
	CompanyNews string
}

// Draft is a generated email: exactly a subject and a plain-prose body.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DeliveryReceipt confirms a completed send.
type DeliveryReceipt struct {
	MessageID string
	Status    string
}

// OutreachRequest is the trimmed inbound request.
type OutreachRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	TeamMember string `json:"team_member"`
}

// OutreachResult is the confirmation returned on a successful run.
type OutreachResult struct {
	Status       string `json:"status"`
	SentTo       string `json:"sent_to"`
	ContactName  string `json:"contact_name"`
	EmailPreview string `json:"email_preview"`
}

// SearchQuery is one semantic-search request. IncludeDomains, when set,
// restricts results to those sites.
type SearchQuery struct {
	Query          string
	NumResults     int
	IncludeDomains []string
}

// SearchResult is one ordered search hit; Text is empty when the
// provider returned no page contents.
type SearchResult struct {
	Title string
	URL   string
	Text  string
}
