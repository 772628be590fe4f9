package contract

import "context"

// Directory resolves contacts and team members from the read-only
// lookup tables. Safe for concurrent use.
type Directory interface {
	ResolveContact(first, last string) (Contact, error)
	ResolveTeamMember(name string) (TeamMember, error)
}

// Searcher is the semantic-search port. Implementations surface
// ErrRateLimited and ErrSearchTimeout as distinguishable signals and
// preserve provider result order.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) ([]SearchResult, error)
}

// Generator is the text-generation port shared by the validator, the
// drafter, and the strategist.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Researcher produces the raw research bundle for a contact.
type Researcher interface {
	Research(ctx context.Context, contact Contact) (ResearchBundle, error)
}

// Validator filters a bundle down to content genuinely about the
// contact, using internal notes as a corroborating signal.
type Validator interface {
	Validate(ctx context.Context, bundle ResearchBundle, notes string) (ValidatedResearch, error)
}

// Drafter composes the outreach email.
type Drafter interface {
	Draft(ctx context.Context, contact Contact, research ValidatedResearch, member TeamMember) (Draft, error)
}

// Strategist composes the internal connection-strategy note.
type Strategist interface {
	Compose(ctx context.Context, contact Contact, research ValidatedResearch, member TeamMember) (Draft, error)
}

// Deliverer sends a draft to a recipient. At most one attempt per call.
type Deliverer interface {
	Deliver(ctx context.Context, to string, draft Draft) (DeliveryReceipt, error)
}
