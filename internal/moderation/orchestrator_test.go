package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// providerStub is a scriptable chain member.
type providerStub struct {
	name    string
	verdict Verdict
	err     error
	calls   int
}

func (p *providerStub) Name() string { return p.name }

func (p *providerStub) Classify(_ context.Context, _ string) (Verdict, error) {
	p.calls++
	if p.err != nil {
		return Verdict{}, p.err
	}
	return p.verdict, nil
}

func greenStub(name string) *providerStub {
	return &providerStub{name: name, verdict: Verdict{
		Flag: Green, Confidence: 0.9, Reason: "ok", Source: SourceClassifier,
	}}
}

func failingStub(name string) *providerStub {
	return &providerStub{name: name, err: errors.New("boom")}
}

func newTestService(providers ...Provider) *Service {
	return NewService(NewLexicon(LexiconWords{}), providers, true, time.Second)
}

func TestService_Classify_TrustedRolesBypassContent(t *testing.T) {
	t.Parallel()

	chain := failingStub("classifier")
	svc := newTestService(chain, NewLastResortProvider())

	// Even content that would trip the emergency override approves for
	// trusted publishers.
	content := "reminder: lockdown drill, do not be alarmed by the word gun"

	for _, role := range []models.Role{models.RoleTeacher, models.RoleInstitution} {
		v := svc.Classify(context.Background(), content, role)
		assert.Equal(t, Green, v.Flag, role)
		assert.InDelta(t, 1.0, v.Confidence, 1e-9)
		assert.Equal(t, SourcePolicy, v.Source)
		assert.False(t, v.Emergency)
	}
	assert.Zero(t, chain.calls, "policy verdicts never reach the chain")
}

func TestService_Classify_TeacherBypassIsConfigurable(t *testing.T) {
	t.Parallel()

	chain := greenStub("classifier")
	svc := NewService(NewLexicon(LexiconWords{}), []Provider{chain, NewLastResortProvider()}, false, time.Second)

	v := svc.Classify(context.Background(), "hello class", models.RoleTeacher)
	assert.Equal(t, SourceClassifier, v.Source, "with auto-approve off, teachers go through the chain")
	assert.Equal(t, 1, chain.calls)

	// Institutions are always trusted.
	v = svc.Classify(context.Background(), "hello class", models.RoleInstitution)
	assert.Equal(t, SourcePolicy, v.Source)
	assert.Equal(t, 1, chain.calls)
}

func TestService_Classify_EmergencyOverridesChain(t *testing.T) {
	t.Parallel()

	chain := greenStub("classifier")
	svc := newTestService(chain, NewLastResortProvider())

	v := svc.Classify(context.Background(), "someone is bullying me every day", models.RoleStudent)

	assert.Equal(t, Red, v.Flag)
	assert.InDelta(t, 1.0, v.Confidence, 1e-9)
	assert.Equal(t, SourceOverride, v.Source)
	assert.True(t, v.Emergency)
	assert.Contains(t, v.Reason, "harassment")
	assert.Zero(t, chain.calls, "override verdicts never reach the chain")
}

func TestService_Classify_ChainFallsThroughOnError(t *testing.T) {
	t.Parallel()

	first := failingStub("classifier")
	second := greenStub("rules")
	svc := newTestService(first, second, NewLastResortProvider())

	v := svc.Classify(context.Background(), "a normal sentence", models.RoleStudent)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, Green, v.Flag)
}

func TestService_Classify_AllProvidersFailingStillYieldsVerdict(t *testing.T) {
	t.Parallel()

	svc := newTestService(failingStub("classifier"), failingStub("rules"), NewLastResortProvider())

	v := svc.Classify(context.Background(), "a normal sentence", models.RoleStudent)

	assert.Equal(t, Red, v.Flag)
	assert.Equal(t, SourceDefault, v.Source)
	assert.Zero(t, v.Confidence)
}

func TestService_Classify_StudentContentGoesThroughChain(t *testing.T) {
	t.Parallel()

	chain := greenStub("classifier")
	svc := newTestService(chain, NewLastResortProvider())

	v := svc.Classify(context.Background(), "had a great time at practice", models.RoleStudent)
	require.Equal(t, 1, chain.calls)
	assert.Equal(t, SourceClassifier, v.Source)
}

func TestDefaultChain(t *testing.T) {
	t.Parallel()

	lex := NewLexicon(LexiconWords{})

	// Without a classifier URL the chain is rules + last resort.
	chain := DefaultChain("", time.Second, lex)
	require.Len(t, chain, 2)
	assert.Equal(t, "rules", chain[0].Name())
	assert.Equal(t, "last-resort", chain[1].Name())

	chain = DefaultChain("http://classifier.local", time.Second, lex)
	require.Len(t, chain, 3)
	assert.Equal(t, "classifier", chain[0].Name())
}

func TestService_Classify_BlocklistedContentWithDeadClassifier(t *testing.T) {
	t.Parallel()

	// The external classifier is unreachable; the rule engine must still
	// catch blocklisted content.
	svc := newTestService(
		failingStub("classifier"),
		NewRulesProvider(NewLexicon(LexiconWords{})),
		NewLastResortProvider(),
	)

	v := svc.Classify(context.Background(), "selling vape pods behind the gym", models.RoleStudent)

	assert.Equal(t, Red, v.Flag)
	assert.Equal(t, SourceRules, v.Source)
	assert.Contains(t, v.Reason, "vape")
}
