package scenario

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/governance"
	"github.com/sells-group/sdr-ops/internal/scoring"
	"github.com/sells-group/sdr-ops/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const sampleSuite = `
name: governance
cases:
  - name: clean qualified lead
    lead:
      company_name: Acme
      industry: SaaS
      company_size: 50-500
      contact_email: jane@acme.io
    model_email: "Hi Jane, worth a quick chat about your growth plans?"
    expect:
      decision: qualified
      escalated: false
      min_score: 70
  - name: pricing question escalates
    lead:
      company_name: Acme
      industry: SaaS
      company_size: 50-500
      contact_email: jane@acme.io
    model_email: "Our pricing starts low."
    expect:
      decision: qualified
      escalated: true
      rules: [pricing_mention]
  - name: weak lead disqualified without model
    lead:
      company_name: Tiny
      contact_email: a@tiny.co
    expect:
      decision: disqualified
      escalated: false
      max_score: 50
  - name: bad email is a data quality rejection
    lead:
      company_name: Broken
      contact_email: nope
    expect:
      decision: disqualified
      escalated: false
`

func newTestRunner(st store.Store) *Runner {
	return NewRunner(
		scoring.DefaultConfig(70),
		governance.NewEvaluator([]string{"salesforce"}),
		st,
	)
}

func TestLoadSuite(t *testing.T) {
	suite, err := LoadSuite(strings.NewReader(sampleSuite))
	require.NoError(t, err)
	assert.Equal(t, "governance", suite.Name)
	assert.Len(t, suite.Cases, 4)
	require.NotNil(t, suite.Cases[0].Expect.MinScore)
	assert.Equal(t, 70, *suite.Cases[0].Expect.MinScore)
}

func TestLoadSuite_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "cases:\n  - name: x\n    expect: {decision: qualified}"},
		{"no cases", "name: empty"},
		{"unnamed case", "name: s\ncases:\n  - expect: {decision: qualified}"},
		{"bad decision", "name: s\ncases:\n  - name: x\n    expect: {decision: maybe}"},
		{"unknown field", "name: s\nbogus: true\ncases:\n  - name: x\n    expect: {decision: qualified}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSuite(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRun_AllCasesPass(t *testing.T) {
	suite, err := LoadSuite(strings.NewReader(sampleSuite))
	require.NoError(t, err)

	runs, err := newTestRunner(nil).Run(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	for _, run := range runs {
		assert.True(t, run.Passed, "case %q: %s", run.Scenario, run.Details)
	}
}

func TestRun_FailureCarriesDetails(t *testing.T) {
	suite := &Suite{
		Name: "failing",
		Cases: []Case{{
			Name: "expects escalation that never happens",
			Lead: LeadInput{
				CompanyName:  "Acme",
				Industry:     "SaaS",
				CompanySize:  "50-500",
				ContactEmail: "jane@acme.io",
			},
			ModelEmail: "Hi Jane, just a friendly hello.",
			Expect: Expectation{
				Decision:  "qualified",
				Escalated: true,
			},
		}},
	}

	runs, err := newTestRunner(nil).Run(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Passed)
	assert.Contains(t, runs[0].Details, "escalated")
}

func TestRun_PersistsResults(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	suite, err := LoadSuite(strings.NewReader(sampleSuite))
	require.NoError(t, err)

	_, err = newTestRunner(st).Run(context.Background(), suite)
	require.NoError(t, err)

	saved, err := st.ListScenarioRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, saved, 4)
	for _, run := range saved {
		assert.Equal(t, "governance", run.Suite)
	}
}
