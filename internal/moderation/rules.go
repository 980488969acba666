package moderation

import (
	"context"
	"fmt"
)

// Composite score weights for the deterministic rule engine. Content scoring
// above the threshold is approved; everything else is held for review.
const (
	profanityWeight  = 0.4
	sentimentWeight  = 0.3
	ageWeight        = 0.2
	socialWeight     = 0.1
	approveThreshold = 0.7
)

// RulesProvider is the deterministic fallback classifier. It never talks to
// the network and always terminates with a verdict.
type RulesProvider struct {
	lex *Lexicon
}

// NewRulesProvider returns a rule engine over the given lexicon.
func NewRulesProvider(lex *Lexicon) *RulesProvider {
	return &RulesProvider{lex: lex}
}

func (p *RulesProvider) Name() string { return "rules" }

// Classify scores content against the keyword lexicon. A blocklist hit is an
// immediate Red; otherwise a weighted composite of profanity, sentiment, age
// appropriateness and social context decides.
func (p *RulesProvider) Classify(_ context.Context, content string) (Verdict, error) {
	tokens := Tokenize(content)

	if word, ok := p.lex.BlocklistMatch(tokens); ok {
		return Verdict{
			Flag:       Red,
			Confidence: 0.95,
			Reason:     fmt.Sprintf("blocked keyword %q", word),
			Source:     SourceRules,
		}, nil
	}

	score := p.compositeScore(tokens)
	if score > approveThreshold {
		return Verdict{
			Flag:       Green,
			Confidence: score,
			Reason:     fmt.Sprintf("safety score %.2f", score),
			Source:     SourceRules,
		}, nil
	}
	return Verdict{
		Flag:       Red,
		Confidence: 1 - score,
		Reason:     fmt.Sprintf("safety score %.2f below threshold", score),
		Source:     SourceRules,
	}, nil
}

func (p *RulesProvider) compositeScore(tokens []string) float64 {
	profanity := clamp01(0.25 * float64(countIn(p.lex.profanity, tokens)))
	sentiment := sentimentOf(countIn(p.lex.positive, tokens), countIn(p.lex.negative, tokens))
	age := clamp01(1 - 0.5*float64(countIn(p.lex.ageSensitive, tokens)))

	// Social context is weakly informative: content anchored in school life
	// gets full credit, everything else sits at neutral.
	social := 0.5
	if countIn(p.lex.social, tokens) > 0 {
		social = 1
	}

	return profanityWeight*(1-profanity) +
		sentimentWeight*((sentiment+1)/2) +
		ageWeight*age +
		socialWeight*social
}

// sentimentOf maps positive/negative word counts onto [-1, 1].
func sentimentOf(pos, neg int) float64 {
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lastResortProvider terminates every chain. It cannot fail and holds the
// content for manual review.
type lastResortProvider struct{}

// NewLastResortProvider returns the terminal chain provider.
func NewLastResortProvider() Provider { return lastResortProvider{} }

func (lastResortProvider) Name() string { return "last-resort" }

func (lastResortProvider) Classify(_ context.Context, _ string) (Verdict, error) {
	return Verdict{
		Flag:       Red,
		Confidence: 0,
		Reason:     "requires manual review",
		Source:     SourceDefault,
	}, nil
}
