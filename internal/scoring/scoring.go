// Package scoring implements the deterministic lead-scoring rules that gate
// the qualification pipeline.
package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/sdr-ops/internal/model"
)

// Config holds the scoring tables and the qualification threshold. It is
// passed in explicitly; rule functions never read ambient process state.
type Config struct {
	// Threshold is the minimum score for a lead to qualify.
	Threshold int `yaml:"threshold" mapstructure:"threshold"`

	// BaseScore is the starting score before fit adjustments.
	BaseScore int `yaml:"base_score" mapstructure:"base_score"`

	// IndustryFit maps case-folded industry names to score points.
	IndustryFit map[string]int `yaml:"industry_fit" mapstructure:"industry_fit"`

	// SizeFit maps company-size brackets to score points.
	SizeFit map[string]int `yaml:"size_fit" mapstructure:"size_fit"`

	// CompletenessBonus is added when industry and company size are both present.
	CompletenessBonus int `yaml:"completeness_bonus" mapstructure:"completeness_bonus"`
}

// DefaultConfig returns the standard scoring tables. Industry and size fit
// values mirror the SDR playbook: mid-market companies in SaaS, Finance,
// Healthcare or Technology are the target profile.
func DefaultConfig(threshold int) Config {
	if threshold <= 0 {
		threshold = 70
	}
	return Config{
		Threshold: threshold,
		BaseScore: 50,
		IndustryFit: map[string]int{
			"saas":       20,
			"finance":    20,
			"healthcare": 20,
			"technology": 20,
		},
		SizeFit: map[string]int{
			"50-500":   20,
			"500-2000": 20,
			"1-50":     5,
			"2000+":    10,
		},
		CompletenessBonus: 10,
	}
}

// Validate checks that a scoring Config is internally consistent.
func Validate(c Config) error {
	var errs []string
	if c.Threshold < 0 || c.Threshold > 100 {
		errs = append(errs, "threshold must be between 0 and 100")
	}
	if c.BaseScore < 0 || c.BaseScore > 100 {
		errs = append(errs, "base_score must be between 0 and 100")
	}
	for name, pts := range c.IndustryFit {
		if pts < 0 {
			errs = append(errs, fmt.Sprintf("industry_fit[%s] must be >= 0", name))
		}
	}
	for name, pts := range c.SizeFit {
		if pts < 0 {
			errs = append(errs, fmt.Sprintf("size_fit[%s] must be >= 0", name))
		}
	}
	if c.CompletenessBonus < 0 {
		errs = append(errs, "completeness_bonus must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("scoring: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Result is the outcome of scoring one lead.
type Result struct {
	Score          int  `json:"score"`
	MeetsThreshold bool `json:"meets_threshold"`
}

// DataQualityError marks a lead that cannot be scored because required
// contact data is missing or malformed. The orchestrator converts it into a
// disqualified interaction before any model call is made.
type DataQualityError struct {
	Field  string
	Reason string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("data quality: %s %s", e.Field, e.Reason)
}

// emailPattern is a format-level check only; deliverability is out of scope.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether addr passes the format-level email check.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

var fold = cases.Fold()

// Score maps lead attributes to a score in [0,100] and a threshold check.
// It is a pure function: calling it twice with the same lead and config
// yields the same result. Returns *DataQualityError when company name or
// contact email is missing, or the email is malformed.
func Score(lead model.Lead, cfg Config) (Result, error) {
	if strings.TrimSpace(lead.CompanyName) == "" {
		return Result{}, &DataQualityError{Field: "company_name", Reason: "is required"}
	}
	if strings.TrimSpace(lead.ContactEmail) == "" {
		return Result{}, &DataQualityError{Field: "contact_email", Reason: "is required"}
	}
	if !ValidEmail(lead.ContactEmail) {
		return Result{}, &DataQualityError{Field: "contact_email", Reason: "is malformed"}
	}

	score := cfg.BaseScore

	industry := fold.String(strings.TrimSpace(lead.Industry))
	if pts, ok := cfg.IndustryFit[industry]; ok {
		score += pts
	}

	size := strings.TrimSpace(lead.CompanySize)
	if pts, ok := cfg.SizeFit[size]; ok {
		score += pts
	}

	if industry != "" && size != "" {
		score += cfg.CompletenessBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Result{Score: score, MeetsThreshold: score >= cfg.Threshold}, nil
}
