// Package validation runs data-quality checks over stored leads: required
// fields, email format, recognized size brackets and duplicate detection.
package validation

import (
	"fmt"
	"strings"

	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/scoring"
)

// Severity levels for lead issues. Errors block qualification; warnings
// only reduce the quality score.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// knownSizeBrackets are the company-size values the scoring tables know
// about; anything else is flagged as a warning.
var knownSizeBrackets = []string{"1-50", "50-500", "500-2000", "2000+"}

// Issue is one finding on one lead.
type Issue struct {
	Field    string `json:"field"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// LeadReport is the validation outcome for a single lead. QualityScore
// starts at 100 and drops per issue: 30 per error, 10 per warning.
type LeadReport struct {
	LeadID       string  `json:"lead_id"`
	CompanyName  string  `json:"company_name"`
	Valid        bool    `json:"valid"`
	QualityScore int     `json:"quality_score"`
	Issues       []Issue `json:"issues,omitempty"`
}

// DuplicateGroup lists leads sharing one contact email.
type DuplicateGroup struct {
	Email   string   `json:"email"`
	LeadIDs []string `json:"lead_ids"`
}

// Report aggregates validation over a lead set.
type Report struct {
	Total      int              `json:"total"`
	Valid      int              `json:"valid"`
	Invalid    int              `json:"invalid"`
	AvgQuality float64          `json:"avg_quality"`
	Duplicates []DuplicateGroup `json:"duplicates,omitempty"`
	Leads      []LeadReport     `json:"leads,omitempty"`
}

// CheckLead validates a single lead. A lead is valid when it has no
// error-severity issues.
func CheckLead(lead model.Lead) LeadReport {
	report := LeadReport{
		LeadID:      lead.ID,
		CompanyName: lead.CompanyName,
	}

	if strings.TrimSpace(lead.CompanyName) == "" {
		report.add(Issue{Field: "company_name", Severity: SeverityError, Message: "company name is required"})
	}
	switch {
	case strings.TrimSpace(lead.ContactEmail) == "":
		report.add(Issue{Field: "contact_email", Severity: SeverityError, Message: "contact email is required"})
	case !scoring.ValidEmail(lead.ContactEmail):
		report.add(Issue{Field: "contact_email", Severity: SeverityError, Message: "contact email is malformed"})
	}

	if strings.TrimSpace(lead.Industry) == "" {
		report.add(Issue{Field: "industry", Severity: SeverityWarning, Message: "industry is missing; fit scoring will not apply"})
	}

	size := strings.TrimSpace(lead.CompanySize)
	if size == "" {
		report.add(Issue{Field: "company_size", Severity: SeverityWarning, Message: "company size is missing; fit scoring will not apply"})
	} else if !knownBracket(size) {
		report.add(Issue{Field: "company_size", Severity: SeverityWarning,
			Message: fmt.Sprintf("company size %q is not a recognized bracket (%s)", size, strings.Join(knownSizeBrackets, ", "))})
	}

	if strings.TrimSpace(lead.ContactName) == "" {
		report.add(Issue{Field: "contact_name", Severity: SeverityWarning, Message: "contact name is missing; outreach will use a generic greeting"})
	}

	report.QualityScore = 100
	for _, issue := range report.Issues {
		if issue.Severity == SeverityError {
			report.QualityScore -= 30
		} else {
			report.QualityScore -= 10
		}
	}
	if report.QualityScore < 0 {
		report.QualityScore = 0
	}
	report.Valid = !report.hasErrors()
	return report
}

// Run validates every lead and detects duplicate contact emails
// (case-insensitive). Only leads with issues are included in
// Report.Leads; clean leads just count toward totals.
func Run(leads []model.Lead) *Report {
	report := &Report{Total: len(leads)}

	byEmail := make(map[string][]string)
	var qualitySum int

	for _, lead := range leads {
		lr := CheckLead(lead)
		qualitySum += lr.QualityScore
		if lr.Valid {
			report.Valid++
		} else {
			report.Invalid++
		}
		if len(lr.Issues) > 0 {
			report.Leads = append(report.Leads, lr)
		}

		email := strings.ToLower(strings.TrimSpace(lead.ContactEmail))
		if email != "" {
			byEmail[email] = append(byEmail[email], lead.ID)
		}
	}

	for email, ids := range byEmail {
		if len(ids) > 1 {
			report.Duplicates = append(report.Duplicates, DuplicateGroup{Email: email, LeadIDs: ids})
		}
	}

	if report.Total > 0 {
		report.AvgQuality = float64(qualitySum) / float64(report.Total)
	}
	return report
}

func (r *LeadReport) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

func (r *LeadReport) hasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func knownBracket(size string) bool {
	for _, b := range knownSizeBrackets {
		if size == b {
			return true
		}
	}
	return false
}
