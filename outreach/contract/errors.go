package contract

import "errors"

var (
	// ErrNotFound marks a contact or team member missing from the
	// directory.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a search or generation collaborator failure,
	// including a rate limit that persisted past the single retry.
	ErrUnavailable = errors.New("collaborator unavailable")
	// ErrInvalidResponse marks generation output that does not conform
	// to the consumer's contract.
	ErrInvalidResponse = errors.New("model response violates contract")
	// ErrDeliveryFailed marks a rejected or incomplete email send.
	ErrDeliveryFailed = errors.New("email delivery failed")

	// ErrRateLimited and ErrSearchTimeout are the distinguishable
	// failure signals a Searcher must surface so the research step can
	// apply its retry policy.
	ErrRateLimited   = errors.New("search rate limited")
	ErrSearchTimeout = errors.New("search timed out")
)
