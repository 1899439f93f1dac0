package model

import "time"

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// ValidCampaignStatus reports whether s is a recognized campaign status.
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	}
	return false
}

// Campaign binds a named outreach effort to a prompt variant for A/B
// comparison. The variant is immutable once an interaction references the
// campaign, so historical runs stay reproducible.
type Campaign struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	PromptVariant string         `json:"prompt_variant"`
	Status        CampaignStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// CampaignStats aggregates interaction outcomes for one campaign.
type CampaignStats struct {
	TotalInteractions int `json:"total_interactions"`
	QualifiedCount    int `json:"qualified_count"`
	EscalatedCount    int `json:"escalated_count"`
}
