package agent

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/store"
)

// RunnerConfig bounds a campaign run.
type RunnerConfig struct {
	MaxLeads    int // cap when selecting all new leads; default 50
	Concurrency int // parallel qualifications; default 1
}

// Runner executes campaign runs through a Qualifier.
type Runner struct {
	store     store.Store
	qualifier *Qualifier
	cfg       RunnerConfig
}

// NewRunner creates a campaign Runner.
func NewRunner(st store.Store, q *Qualifier, cfg RunnerConfig) *Runner {
	if cfg.MaxLeads <= 0 {
		cfg.MaxLeads = 50
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Runner{store: st, qualifier: q, cfg: cfg}
}

// LeadFailure records a single lead that could not be qualified during a run.
type LeadFailure struct {
	LeadID string `json:"lead_id"`
	Error  string `json:"error"`
}

// RunReport summarizes a completed campaign run.
type RunReport struct {
	CampaignID string        `json:"campaign_id"`
	Processed  int           `json:"processed"`
	Qualified  int           `json:"qualified"`
	Escalated  int           `json:"escalated"`
	Failures   []LeadFailure `json:"failures,omitempty"`
}

// Run qualifies leads under a campaign. With explicit leadIDs those leads
// are processed; otherwise all leads in status new, capped at MaxLeads.
// The campaign moves draft→active for the duration and completes at the
// end. Individual lead failures do not abort the run.
func (r *Runner) Run(ctx context.Context, campaignID string, leadIDs []string) (*RunReport, error) {
	campaign, err := r.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status == model.CampaignStatusCompleted {
		return nil, eris.Errorf("agent: campaign %s already completed", campaignID)
	}

	if len(leadIDs) == 0 {
		leads, err := r.store.ListLeads(ctx, store.LeadFilter{
			Status: model.LeadStatusNew,
			Limit:  r.cfg.MaxLeads,
		})
		if err != nil {
			return nil, err
		}
		for _, l := range leads {
			leadIDs = append(leadIDs, l.ID)
		}
	} else if len(leadIDs) > r.cfg.MaxLeads {
		leadIDs = leadIDs[:r.cfg.MaxLeads]
	}

	if err := r.store.UpdateCampaignStatus(ctx, campaignID, model.CampaignStatusActive); err != nil {
		return nil, err
	}

	report := &RunReport{CampaignID: campaignID}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for _, leadID := range leadIDs {
		g.Go(func() error {
			in, err := r.qualifier.QualifyForCampaign(gctx, leadID, campaign)

			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			if err != nil {
				report.Failures = append(report.Failures, LeadFailure{LeadID: leadID, Error: err.Error()})
				return nil
			}
			if in.Decision == model.DecisionQualified {
				report.Qualified++
			}
			if in.Escalated {
				report.Escalated++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := r.store.UpdateCampaignStatus(ctx, campaignID, model.CampaignStatusCompleted); err != nil {
		return nil, err
	}

	zap.L().Info("agent: campaign run complete",
		zap.String("campaign_id", campaignID),
		zap.Int("processed", report.Processed),
		zap.Int("qualified", report.Qualified),
		zap.Int("escalated", report.Escalated),
		zap.Int("failures", len(report.Failures)),
	)
	return report, nil
}
