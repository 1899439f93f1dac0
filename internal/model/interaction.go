package model

import "time"

// Decision is the qualification outcome recorded on an interaction.
type Decision string

const (
	DecisionQualified    Decision = "qualified"
	DecisionDisqualified Decision = "disqualified"
)

// Interaction is the immutable audit record of one qualification attempt.
// Interactions are append-only: the store exposes no update or delete for them.
type Interaction struct {
	ID           string    `json:"id"`
	LeadID       string    `json:"lead_id"`
	CampaignID   string    `json:"campaign_id,omitempty"`
	ActionType   string    `json:"action_type"`
	Variant      string    `json:"variant"`
	Decision     Decision  `json:"decision"`
	Score        int       `json:"score"`
	Escalated    bool      `json:"escalated"`
	FiredRules   []string  `json:"fired_rules,omitempty"`
	Reasoning    string    `json:"reasoning"`
	EmailContent string    `json:"email_content,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ActionQualification is the action type for qualification interactions.
const ActionQualification = "qualification"

// InteractionSummary is an interaction joined with lead display fields,
// as returned by recent-activity listings.
type InteractionSummary struct {
	Interaction
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
}
