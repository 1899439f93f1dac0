package agent

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/governance"
	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/prompt"
	"github.com/sells-group/sdr-ops/internal/scoring"
	"github.com/sells-group/sdr-ops/internal/store"
	"github.com/sells-group/sdr-ops/pkg/llm"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeGenerator counts calls and replays a scripted output or error.
type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	output llm.ModelOutput
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (llm.ModelOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return llm.ModelOutput{}, f.err
	}
	return f.output, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func newTestQualifier(st store.Store, gen Generator) *Qualifier {
	return NewQualifier(
		st,
		gen,
		scoring.DefaultConfig(70),
		governance.NewEvaluator([]string{"salesforce", "hubspot"}),
		prompt.VariantA,
	)
}

func seedLead(t *testing.T, st store.Store, nl model.NewLead) *model.Lead {
	t.Helper()
	lead, err := st.CreateLead(context.Background(), nl)
	require.NoError(t, err)
	return lead
}

// strongLead scores base 50 + industry 20 + size 20 + completeness 10 = 100.
func strongLead() model.NewLead {
	return model.NewLead{
		CompanyName:  "Acme SaaS",
		Industry:     "SaaS",
		CompanySize:  "50-500",
		ContactEmail: "jane@acme.io",
		ContactName:  "Jane Doe",
	}
}

func TestQualify_LeadNotFound(t *testing.T) {
	st := newTestStore(t)
	gen := &fakeGenerator{}
	q := newTestQualifier(st, gen)

	_, err := q.Qualify(context.Background(), "missing", prompt.VariantA)
	assert.ErrorIs(t, err, store.ErrLeadNotFound)
	assert.Zero(t, gen.callCount())
}

func TestQualify_InvalidVariant(t *testing.T) {
	st := newTestStore(t)
	q := newTestQualifier(st, &fakeGenerator{})

	_, err := q.Qualify(context.Background(), "any", "Z")
	assert.Error(t, err)
}

func TestQualify_DataQualityShortCircuit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{output: llm.ModelOutput{Reasoning: "r", Email: "e"}}
	q := newTestQualifier(st, gen)

	// Invalid email: scoring rejects before any model involvement.
	lead := seedLead(t, st, model.NewLead{
		CompanyName:  "Acme",
		Industry:     "SaaS",
		ContactEmail: "not-an-email",
	})

	in, err := q.Qualify(ctx, lead.ID, prompt.VariantA)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionDisqualified, in.Decision)
	assert.Contains(t, in.Reasoning, "data quality failure")
	assert.Zero(t, in.Score)
	assert.False(t, in.Escalated)
	assert.Zero(t, gen.callCount(), "model must not be called on bad input data")

	got, err := st.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusDisqualified, got.Status)
}

func TestQualify_BelowThresholdNoModelCall(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{}
	q := newTestQualifier(st, gen)

	// Unknown industry and size: base 50 + completeness 0 = 50 < 70.
	lead := seedLead(t, st, model.NewLead{
		CompanyName:  "Tiny Co",
		ContactEmail: "a@tiny.co",
	})

	in, err := q.Qualify(ctx, lead.ID, prompt.VariantA)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionDisqualified, in.Decision)
	assert.Equal(t, 50, in.Score)
	assert.Zero(t, gen.callCount())

	got, err := st.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusDisqualified, got.Status)
	assert.Equal(t, 50, got.Score)
}

func TestQualify_QualifiedCleanContent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{output: llm.ModelOutput{
		Reasoning: "Strong industry and size fit.",
		Email:     "Hi Jane, would love to connect about your growth plans.",
	}}
	q := newTestQualifier(st, gen)

	lead := seedLead(t, st, strongLead())

	in, err := q.Qualify(ctx, lead.ID, prompt.VariantA)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionQualified, in.Decision)
	assert.Equal(t, 100, in.Score)
	assert.False(t, in.Escalated)
	assert.Empty(t, in.FiredRules)
	assert.Equal(t, "Strong industry and size fit.", in.Reasoning)
	assert.Equal(t, 1, gen.callCount())

	got, err := st.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusQualified, got.Status)
	assert.Equal(t, 100, got.Score)
}

func TestQualify_PricingContentEscalatesButStaysQualified(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{output: llm.ModelOutput{
		Reasoning: "Good fit.",
		Email:     "Our pricing starts at competitive rates.",
	}}
	q := newTestQualifier(st, gen)

	lead := seedLead(t, st, strongLead())

	in, err := q.Qualify(ctx, lead.ID, prompt.VariantA)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionQualified, in.Decision, "escalation must not change the decision")
	assert.True(t, in.Escalated)
	assert.Contains(t, in.FiredRules, governance.RulePricingMention)
	assert.Contains(t, in.Reasoning, "flagged for review")
}

func TestQualify_ModelFailureDecisionStands(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{err: &llm.ModelError{Kind: llm.ErrUnavailable}}
	q := newTestQualifier(st, gen)

	lead := seedLead(t, st, strongLead())

	in, err := q.Qualify(ctx, lead.ID, prompt.VariantA)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionQualified, in.Decision)
	assert.False(t, in.Escalated)
	assert.Empty(t, in.EmailContent)
	assert.Contains(t, in.Reasoning, "email generation failed")

	got, err := st.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusQualified, got.Status)
}

func TestQualify_InteractionPersisted(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{output: llm.ModelOutput{Reasoning: "fit", Email: "hello there"}}
	q := newTestQualifier(st, gen)

	lead := seedLead(t, st, strongLead())

	in, err := q.Qualify(ctx, lead.ID, prompt.VariantB)
	require.NoError(t, err)
	require.NotEmpty(t, in.ID)

	history, err := st.ListLeadInteractions(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, in.ID, history[0].ID)
	assert.Equal(t, prompt.VariantB, history[0].Variant)
}

func TestRunner_CampaignRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{output: llm.ModelOutput{Reasoning: "fit", Email: "hello"}}
	q := newTestQualifier(st, gen)
	runner := NewRunner(st, q, RunnerConfig{MaxLeads: 10, Concurrency: 2})

	seedLead(t, st, strongLead())
	seedLead(t, st, model.NewLead{CompanyName: "Weak", ContactEmail: "w@w.co"})

	campaign, err := st.CreateCampaign(ctx, "run-test", prompt.VariantB)
	require.NoError(t, err)

	report, err := runner.Run(ctx, campaign.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Qualified)
	assert.Empty(t, report.Failures)

	got, err := st.GetCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusCompleted, got.Status)

	// Interactions carry the campaign id and its variant.
	recent, err := st.ListRecentInteractions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	for _, in := range recent {
		assert.Equal(t, campaign.ID, in.CampaignID)
		assert.Equal(t, prompt.VariantB, in.Variant)
	}
}

func TestRunner_CompletedCampaignRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	q := newTestQualifier(st, &fakeGenerator{})
	runner := NewRunner(st, q, RunnerConfig{})

	campaign, err := st.CreateCampaign(ctx, "done", prompt.VariantA)
	require.NoError(t, err)
	require.NoError(t, st.UpdateCampaignStatus(ctx, campaign.ID, model.CampaignStatusCompleted))

	_, err = runner.Run(ctx, campaign.ID, nil)
	assert.Error(t, err)
}

func TestRunner_ExplicitLeadIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	gen := &fakeGenerator{output: llm.ModelOutput{Reasoning: "fit", Email: "hello"}}
	q := newTestQualifier(st, gen)
	runner := NewRunner(st, q, RunnerConfig{})

	a := seedLead(t, st, strongLead())
	seedLead(t, st, strongLead())

	campaign, err := st.CreateCampaign(ctx, "explicit", prompt.VariantA)
	require.NoError(t, err)

	report, err := runner.Run(ctx, campaign.ID, []string{a.ID, "missing-lead"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Qualified)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "missing-lead", report.Failures[0].LeadID)
}
