// Package governance evaluates generated outreach content against compliance
// rules and decides whether a qualification must be escalated to human review.
package governance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/pkg/llm"
)

// Rule name codes, reported in verdicts and persisted on interactions.
const (
	RulePricingMention      = "pricing_mention"
	RuleCompetitorMention   = "competitor_mention"
	RulePrivacyIdentifier   = "privacy_identifier"
	RuleMissingCriticalData = "missing_critical_data"
)

// pricingLexicon is fixed by policy: outreach must never discuss pricing
// without approval. Matching is case-insensitive substring.
var pricingLexicon = []string{
	"price", "pricing", "cost", "quote", "$", "dollar", "payment", "fee",
}

// ssnPattern flags digit groups resembling US social security numbers.
var ssnPattern = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b|\b\d{9}\b`)

// Verdict is the immutable outcome of one governance evaluation. Escalate is
// true if any rule fired; Rules lists every fired rule in evaluation order.
type Verdict struct {
	Escalate    bool     `json:"escalate"`
	Rules       []string `json:"rules,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// rule pairs a stable name with a pure predicate. Rules are held in a fixed
// ordered list so adding one is a data change, not a control-flow change.
type rule struct {
	name  string
	check func(out llm.ModelOutput, lead model.Lead) (bool, string)
}

// Evaluator applies the governance rule set. The competitor list is
// operator-configured; the remaining rules are fixed.
type Evaluator struct {
	rules []rule
}

// NewEvaluator creates an Evaluator with the standard rule order:
// pricing_mention, competitor_mention, privacy_identifier,
// missing_critical_data. Order determines which rule is reported first when
// several fire; all rules are always evaluated.
func NewEvaluator(competitors []string) *Evaluator {
	folded := make([]string, 0, len(competitors))
	for _, c := range competitors {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			folded = append(folded, c)
		}
	}

	return &Evaluator{
		rules: []rule{
			{RulePricingMention, checkPricing},
			{RuleCompetitorMention, checkCompetitors(folded)},
			{RulePrivacyIdentifier, checkPrivacy},
			{RuleMissingCriticalData, checkCriticalData},
		},
	}
}

// Evaluate runs every rule over the model output and lead. It is a pure
// function of its inputs; no rule short-circuits the others.
func (e *Evaluator) Evaluate(out llm.ModelOutput, lead model.Lead) Verdict {
	var v Verdict
	var reasons []string

	for _, r := range e.rules {
		fired, detail := r.check(out, lead)
		if fired {
			v.Rules = append(v.Rules, r.name)
			reasons = append(reasons, detail)
		}
	}

	if len(v.Rules) > 0 {
		v.Escalate = true
		v.Explanation = strings.Join(reasons, "; ")
	}
	return v
}

func checkPricing(out llm.ModelOutput, _ model.Lead) (bool, string) {
	content := strings.ToLower(out.Email)
	for _, term := range pricingLexicon {
		if strings.Contains(content, term) {
			return true, fmt.Sprintf("email mentions pricing term %q", term)
		}
	}
	return false, ""
}

func checkCompetitors(competitors []string) func(llm.ModelOutput, model.Lead) (bool, string) {
	return func(out llm.ModelOutput, lead model.Lead) (bool, string) {
		content := strings.ToLower(out.Email + " " + out.Reasoning)
		for _, c := range competitors {
			if strings.Contains(content, c) {
				return true, fmt.Sprintf("competitor %q mentioned", c)
			}
		}
		return false, ""
	}
}

func checkPrivacy(out llm.ModelOutput, _ model.Lead) (bool, string) {
	if ssnPattern.MatchString(out.Email) {
		return true, "email contains a pattern resembling a personal identifier"
	}
	return false, ""
}

func checkCriticalData(_ llm.ModelOutput, lead model.Lead) (bool, string) {
	if strings.TrimSpace(lead.Industry) == "" && strings.TrimSpace(lead.CompanySize) == "" {
		return true, "lead lacks both industry and company size"
	}
	return false, ""
}
