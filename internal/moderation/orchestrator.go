package moderation

import (
	"context"
	"log/slog"
	"time"

	"campus/internal/models"
	"campus/internal/observability"
)

// Service runs the moderation pipeline. Classify never returns an error:
// every submission ends in a definitive verdict, and provider failures are
// absorbed internally.
type Service struct {
	lex                 *Lexicon
	providers           []Provider
	autoApproveTeachers bool
	timeout             time.Duration
	logger              *slog.Logger
}

// NewService builds the orchestrator over the given provider chain. The
// chain must end in a provider that cannot fail; DefaultChain guarantees
// this.
func NewService(lex *Lexicon, providers []Provider, autoApproveTeachers bool, timeout time.Duration) *Service {
	return &Service{
		lex:                 lex,
		providers:           providers,
		autoApproveTeachers: autoApproveTeachers,
		timeout:             timeout,
		logger:              observability.Logger.With("component", "moderation"),
	}
}

// DefaultChain returns the standard provider ordering: external classifier
// (when configured), deterministic rules, last resort.
func DefaultChain(classifierURL string, timeout time.Duration, lex *Lexicon) []Provider {
	var chain []Provider
	if classifierURL != "" {
		chain = append(chain, NewOracleProvider(classifierURL, timeout))
	}
	chain = append(chain, NewRulesProvider(lex), NewLastResortProvider())
	return chain
}

// Classify produces a verdict for the given content and author role.
//
// Trusted publishers bypass classification entirely: their verdict is Green
// with full confidence regardless of content. For everyone else the
// emergency keyword sets are scanned first, then the provider chain runs
// until a provider succeeds.
func (s *Service) Classify(ctx context.Context, content string, role models.Role) Verdict {
	if role == models.RoleInstitution || (role == models.RoleTeacher && s.autoApproveTeachers) {
		return s.record(Verdict{
			Flag:       Green,
			Confidence: 1.0,
			Reason:     "trusted publisher",
			Source:     SourcePolicy,
		})
	}

	if category, ok := s.lex.EmergencyCategory(content); ok {
		return s.record(Verdict{
			Flag:       Red,
			Confidence: 1.0,
			Reason:     "emergency keyword match: " + category,
			Source:     SourceOverride,
			Emergency:  true,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, p := range s.providers {
		verdict, err := p.Classify(ctx, content)
		if err != nil {
			observability.ClassifierFallbacks.WithLabelValues(p.Name()).Inc()
			s.logger.WarnContext(ctx, "moderation provider failed, falling back",
				"provider", p.Name(), "err", err)
			continue
		}
		return s.record(verdict)
	}

	// Unreachable with a well-formed chain; kept so a misconfigured chain
	// still fails safe.
	return s.record(Verdict{
		Flag:       Red,
		Confidence: 0,
		Reason:     "requires manual review",
		Source:     SourceDefault,
	})
}

func (s *Service) record(v Verdict) Verdict {
	observability.ModerationVerdicts.WithLabelValues(v.Source, string(v.Flag)).Inc()
	return v
}
