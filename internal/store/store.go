// Package store persists leads, interactions, campaigns and scenario runs.
// Two implementations exist: SQLite (default) and Postgres.
package store

import (
	"context"
	"errors"

	"github.com/sells-group/sdr-ops/internal/model"
)

// Sentinel errors surfaced to callers for missing records. Implementations
// wrap them with driver context; detect with errors.Is.
var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status   model.LeadStatus `json:"status,omitempty"`
	Industry string           `json:"industry,omitempty"`
	Limit    int              `json:"limit,omitempty"`
	Offset   int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for the SDR platform.
// Interactions are append-only: there is deliberately no update or delete.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, lead model.NewLead) (*model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	UpdateLeadOutcome(ctx context.Context, id string, status model.LeadStatus, score int) error
	UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error
	SetLeadSalesforceID(ctx context.Context, id string, sfID string) error
	DeleteLead(ctx context.Context, id string) error

	// Interactions
	AppendInteraction(ctx context.Context, in model.Interaction) (*model.Interaction, error)
	ListRecentInteractions(ctx context.Context, limit int) ([]model.InteractionSummary, error)
	ListLeadInteractions(ctx context.Context, leadID string) ([]model.Interaction, error)

	// Campaigns
	CreateCampaign(ctx context.Context, name, promptVariant string) (*model.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*model.Campaign, error)
	ListCampaigns(ctx context.Context, limit int) ([]model.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id string, status model.CampaignStatus) error
	CampaignStats(ctx context.Context, id string) (*model.CampaignStats, error)

	// Analytics
	DashboardMetrics(ctx context.Context) (*model.DashboardMetrics, error)
	DailyPerformance(ctx context.Context, days int) ([]model.DailyPerformance, error)
	VariantComparison(ctx context.Context) ([]model.VariantStats, error)
	Funnel(ctx context.Context) (*model.Funnel, error)
	CohortsByIndustry(ctx context.Context) ([]model.CohortRow, error)
	CohortsBySize(ctx context.Context) ([]model.CohortRow, error)

	// Scenario runs
	RecordScenarioRun(ctx context.Context, run model.ScenarioRun) error
	ListScenarioRuns(ctx context.Context, limit int) ([]model.ScenarioRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
