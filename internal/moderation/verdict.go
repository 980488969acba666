// Package moderation decides whether submitted content is safe to publish.
// Classification runs through an ordered chain of providers: an external
// classifier, a deterministic rule engine, and a last-resort provider that
// always asks for manual review. Policy short-circuits and an emergency
// keyword override sit in front of the chain.
package moderation

import "context"

// Flag is the outcome of a moderation pass.
type Flag string

const (
	Green Flag = "green"
	Red   Flag = "red"
)

// Verdict sources, recorded on every moderation pass.
const (
	SourcePolicy     = "policy"
	SourceOverride   = "override"
	SourceClassifier = "classifier"
	SourceRules      = "rules"
	SourceDefault    = "default"
	SourceReview     = "review"
)

// Verdict is the outcome of one moderation pass over a piece of content.
type Verdict struct {
	Flag       Flag    `json:"flag"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Source     string  `json:"source"`
	// Emergency marks verdicts forced by the emergency keyword override;
	// flagged posts carrying it jump to the front of the review queue.
	Emergency bool `json:"emergency,omitempty"`
}

// Provider classifies content. Implementations may fail; the orchestrator
// falls through to the next provider in the chain on error.
type Provider interface {
	Name() string
	Classify(ctx context.Context, content string) (Verdict, error)
}
