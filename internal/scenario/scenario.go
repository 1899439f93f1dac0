// Package scenario runs YAML-defined regression scenarios against the
// deterministic qualification core: scoring plus governance over scripted
// model output. No external model calls are made; each case supplies the
// content the model is assumed to have produced.
package scenario

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/sdr-ops/internal/governance"
	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/scoring"
	"github.com/sells-group/sdr-ops/internal/store"
	"github.com/sells-group/sdr-ops/pkg/llm"
)

// LeadInput is the lead under test.
type LeadInput struct {
	CompanyName  string `yaml:"company_name"`
	Industry     string `yaml:"industry"`
	CompanySize  string `yaml:"company_size"`
	ContactEmail string `yaml:"contact_email"`
	ContactName  string `yaml:"contact_name"`
}

// Expectation is the asserted outcome of one case. Score bounds are
// optional; nil means unchecked.
type Expectation struct {
	Decision  string   `yaml:"decision"` // qualified | disqualified
	Escalated bool     `yaml:"escalated"`
	Rules     []string `yaml:"rules,omitempty"` // exact fired-rule list, order-sensitive
	MinScore  *int     `yaml:"min_score,omitempty"`
	MaxScore  *int     `yaml:"max_score,omitempty"`
}

// Case is one scenario: an input lead, the scripted model output and the
// expected outcome.
type Case struct {
	Name           string      `yaml:"name"`
	Lead           LeadInput   `yaml:"lead"`
	ModelReasoning string      `yaml:"model_reasoning"`
	ModelEmail     string      `yaml:"model_email"`
	Expect         Expectation `yaml:"expect"`
}

// Suite is a named collection of cases.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// LoadSuite decodes and validates a YAML suite.
func LoadSuite(r io.Reader) (*Suite, error) {
	var suite Suite
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&suite); err != nil {
		return nil, eris.Wrap(err, "scenario: decode suite")
	}

	if strings.TrimSpace(suite.Name) == "" {
		return nil, eris.New("scenario: suite name is required")
	}
	if len(suite.Cases) == 0 {
		return nil, eris.Errorf("scenario: suite %q has no cases", suite.Name)
	}
	for i, c := range suite.Cases {
		if strings.TrimSpace(c.Name) == "" {
			return nil, eris.Errorf("scenario: case %d in suite %q has no name", i, suite.Name)
		}
		switch c.Expect.Decision {
		case string(model.DecisionQualified), string(model.DecisionDisqualified):
		default:
			return nil, eris.Errorf("scenario: case %q expects unknown decision %q", c.Name, c.Expect.Decision)
		}
	}
	return &suite, nil
}

// Runner executes suites against a scoring config and governance evaluator
// and records results. A nil store skips persistence.
type Runner struct {
	scoringCfg scoring.Config
	evaluator  *governance.Evaluator
	store      store.Store
}

// NewRunner creates a scenario Runner.
func NewRunner(scoringCfg scoring.Config, ev *governance.Evaluator, st store.Store) *Runner {
	return &Runner{scoringCfg: scoringCfg, evaluator: ev, store: st}
}

// Run executes every case in the suite, persists each result and returns
// them in case order. Case failures are results, not errors; only
// persistence problems return an error.
func (r *Runner) Run(ctx context.Context, suite *Suite) ([]model.ScenarioRun, error) {
	runs := make([]model.ScenarioRun, 0, len(suite.Cases))

	for _, c := range suite.Cases {
		run := model.ScenarioRun{
			Suite:    suite.Name,
			Scenario: c.Name,
		}
		run.Passed, run.Details = r.execute(c)

		if r.store != nil {
			if err := r.store.RecordScenarioRun(ctx, run); err != nil {
				return nil, err
			}
		}
		runs = append(runs, run)
	}

	passed := 0
	for _, run := range runs {
		if run.Passed {
			passed++
		}
	}
	zap.L().Info("scenario: suite complete",
		zap.String("suite", suite.Name),
		zap.Int("cases", len(runs)),
		zap.Int("passed", passed),
	)
	return runs, nil
}

// execute runs one case through scoring and governance and diffs the
// outcome against the expectation.
func (r *Runner) execute(c Case) (bool, string) {
	lead := model.Lead{
		CompanyName:  c.Lead.CompanyName,
		Industry:     c.Lead.Industry,
		CompanySize:  c.Lead.CompanySize,
		ContactEmail: c.Lead.ContactEmail,
		ContactName:  c.Lead.ContactName,
	}

	var problems []string

	res, err := scoring.Score(lead, r.scoringCfg)
	if err != nil {
		// Data-quality rejection: disqualified, never escalated.
		if c.Expect.Decision != string(model.DecisionDisqualified) {
			problems = append(problems, fmt.Sprintf("expected decision %s, got disqualified (%v)", c.Expect.Decision, err))
		}
		if c.Expect.Escalated {
			problems = append(problems, "expected escalation but data-quality rejections never escalate")
		}
		return report(problems)
	}

	decision := model.DecisionDisqualified
	escalated := false
	var fired []string

	if res.MeetsThreshold {
		decision = model.DecisionQualified
		verdict := r.evaluator.Evaluate(llm.ModelOutput{
			Reasoning: c.ModelReasoning,
			Email:     c.ModelEmail,
		}, lead)
		escalated = verdict.Escalate
		fired = verdict.Rules
	}

	if string(decision) != c.Expect.Decision {
		problems = append(problems, fmt.Sprintf("expected decision %s, got %s (score %d)", c.Expect.Decision, decision, res.Score))
	}
	if escalated != c.Expect.Escalated {
		problems = append(problems, fmt.Sprintf("expected escalated=%t, got %t (rules %v)", c.Expect.Escalated, escalated, fired))
	}
	if c.Expect.Rules != nil && !equalStrings(fired, c.Expect.Rules) {
		problems = append(problems, fmt.Sprintf("expected rules %v, got %v", c.Expect.Rules, fired))
	}
	if c.Expect.MinScore != nil && res.Score < *c.Expect.MinScore {
		problems = append(problems, fmt.Sprintf("expected score >= %d, got %d", *c.Expect.MinScore, res.Score))
	}
	if c.Expect.MaxScore != nil && res.Score > *c.Expect.MaxScore {
		problems = append(problems, fmt.Sprintf("expected score <= %d, got %d", *c.Expect.MaxScore, res.Score))
	}

	return report(problems)
}

func report(problems []string) (bool, string) {
	if len(problems) == 0 {
		return true, ""
	}
	return false, strings.Join(problems, "; ")
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
