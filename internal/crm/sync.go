// Package crm pushes qualified leads into Salesforce as Lead SObjects.
// Sync is idempotent: leads already linked to a Salesforce record are
// skipped, and existing records are matched by contact email before
// creating new ones.
package crm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/store"
	"github.com/sells-group/sdr-ops/pkg/salesforce"
)

// maxSyncBatch caps how many qualified leads one sync pass scans.
const maxSyncBatch = 500

// Syncer links local qualified leads to Salesforce Lead records.
type Syncer struct {
	client salesforce.Client
	store  store.Store
}

// NewSyncer creates a Syncer.
func NewSyncer(client salesforce.Client, st store.Store) *Syncer {
	return &Syncer{client: client, store: st}
}

// SyncFailure records one lead that could not be synced.
type SyncFailure struct {
	LeadID string `json:"lead_id"`
	Error  string `json:"error"`
}

// SyncReport summarizes one sync pass.
type SyncReport struct {
	Scanned  int           `json:"scanned"`
	Created  int           `json:"created"`
	Linked   int           `json:"linked"`
	Skipped  int           `json:"skipped"`
	Failures []SyncFailure `json:"failures,omitempty"`
}

// SyncQualified pushes every qualified lead that has no Salesforce link yet.
// Existing Salesforce leads with a matching email are linked instead of
// duplicated, and their Rating is refreshed from the local score; the rest
// are created through the collections API in one batch. Per-lead failures
// are collected, not fatal.
func (s *Syncer) SyncQualified(ctx context.Context) (*SyncReport, error) {
	leads, err := s.store.ListLeads(ctx, store.LeadFilter{
		Status: model.LeadStatusQualified,
		Limit:  maxSyncBatch,
	})
	if err != nil {
		return nil, err
	}

	report := &SyncReport{}
	var pending []model.Lead
	for _, lead := range leads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Scanned++

		if lead.SalesforceID != "" {
			report.Skipped++
			continue
		}

		existing, err := salesforce.FindLeadByEmail(ctx, s.client, lead.ContactEmail)
		if err != nil {
			report.Failures = append(report.Failures, SyncFailure{LeadID: lead.ID, Error: err.Error()})
			continue
		}
		if existing == nil {
			pending = append(pending, lead)
			continue
		}
		if err := s.linkExisting(ctx, lead, existing.ID); err != nil {
			report.Failures = append(report.Failures, SyncFailure{LeadID: lead.ID, Error: err.Error()})
			continue
		}
		report.Linked++
	}

	s.createPending(ctx, pending, report)

	zap.L().Info("crm: sync complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("created", report.Created),
		zap.Int("linked", report.Linked),
		zap.Int("skipped", report.Skipped),
		zap.Int("failures", len(report.Failures)),
	)
	return report, nil
}

// linkExisting attaches a matched Salesforce record to the local lead and
// pushes the local qualification rating onto it.
func (s *Syncer) linkExisting(ctx context.Context, lead model.Lead, sfID string) error {
	if err := salesforce.UpdateLead(ctx, s.client, sfID, map[string]any{
		"Rating": rating(lead.Score),
	}); err != nil {
		return err
	}
	return s.store.SetLeadSalesforceID(ctx, lead.ID, sfID)
}

// createPending batch-creates the unmatched leads and links each created
// record back. Collection results arrive in request order.
func (s *Syncer) createPending(ctx context.Context, pending []model.Lead, report *SyncReport) {
	if len(pending) == 0 {
		return
	}

	records := make([]map[string]any, len(pending))
	for i, lead := range pending {
		records[i] = leadFields(lead)
	}

	results, err := salesforce.CreateLeads(ctx, s.client, records)
	if err != nil {
		for _, lead := range pending {
			report.Failures = append(report.Failures, SyncFailure{LeadID: lead.ID, Error: err.Error()})
		}
		return
	}

	for i, res := range results {
		lead := pending[i]
		if !res.Success || res.ID == "" {
			report.Failures = append(report.Failures, SyncFailure{
				LeadID: lead.ID,
				Error:  "sf: create lead: " + strings.Join(res.Errors, "; "),
			})
			continue
		}
		if err := s.store.SetLeadSalesforceID(ctx, lead.ID, res.ID); err != nil {
			report.Failures = append(report.Failures, SyncFailure{LeadID: lead.ID, Error: err.Error()})
			continue
		}
		report.Created++
	}
}

// leadFields maps a local lead onto Salesforce Lead fields. LastName and
// Company are required by Salesforce; a missing contact name falls back to
// a placeholder last name.
func leadFields(lead model.Lead) map[string]any {
	first, last := splitName(lead.ContactName)

	fields := map[string]any{
		"Company":    lead.CompanyName,
		"Email":      lead.ContactEmail,
		"LastName":   last,
		"LeadSource": "SDR Qualification",
		"Rating":     rating(lead.Score),
	}
	if first != "" {
		fields["FirstName"] = first
	}
	if lead.Industry != "" {
		fields["Industry"] = lead.Industry
	}
	return fields
}

func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "Unknown"
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func rating(score int) string {
	switch {
	case score >= 90:
		return "Hot"
	case score >= 70:
		return "Warm"
	default:
		return "Cold"
	}
}
