// Package agent orchestrates lead qualification: scoring, model-backed
// email generation, governance review and interaction recording.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/governance"
	"github.com/sells-group/sdr-ops/internal/metrics"
	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/prompt"
	"github.com/sells-group/sdr-ops/internal/scoring"
	"github.com/sells-group/sdr-ops/internal/store"
	"github.com/sells-group/sdr-ops/pkg/llm"
)

// Generator produces outreach content for a qualification prompt.
// *llm.Adapter implements it; tests substitute scripted fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (llm.ModelOutput, error)
}

// Qualifier runs the qualification pipeline for a single lead. Concurrent
// runs against the same lead are not serialized; the last completed run's
// status and score win.
type Qualifier struct {
	store          store.Store
	generator      Generator
	scoringCfg     scoring.Config
	evaluator      *governance.Evaluator
	defaultVariant string
}

// NewQualifier assembles a Qualifier from its collaborators.
func NewQualifier(st store.Store, gen Generator, scoringCfg scoring.Config, ev *governance.Evaluator, defaultVariant string) *Qualifier {
	if defaultVariant == "" {
		defaultVariant = prompt.VariantA
	}
	return &Qualifier{
		store:          st,
		generator:      gen,
		scoringCfg:     scoringCfg,
		evaluator:      ev,
		defaultVariant: defaultVariant,
	}
}

// Qualify scores a lead, generates outreach for leads meeting the threshold,
// applies governance rules to the generated content, and records an
// append-only interaction. The returned interaction reflects the recorded
// row including its assigned ID.
func (q *Qualifier) Qualify(ctx context.Context, leadID, variant string) (*model.Interaction, error) {
	return q.qualify(ctx, leadID, variant, "")
}

// QualifyForCampaign is Qualify with the interaction attributed to a
// campaign; the campaign's prompt variant is used.
func (q *Qualifier) QualifyForCampaign(ctx context.Context, leadID string, campaign *model.Campaign) (*model.Interaction, error) {
	return q.qualify(ctx, leadID, campaign.PromptVariant, campaign.ID)
}

func (q *Qualifier) qualify(ctx context.Context, leadID, variant, campaignID string) (*model.Interaction, error) {
	if variant == "" {
		variant = q.defaultVariant
	}
	if err := prompt.Validate(variant); err != nil {
		return nil, err
	}

	lead, err := q.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	in := model.Interaction{
		LeadID:     leadID,
		CampaignID: campaignID,
		ActionType: model.ActionQualification,
		Variant:    variant,
	}

	res, err := scoring.Score(*lead, q.scoringCfg)
	if err != nil {
		var dqe *scoring.DataQualityError
		if !errors.As(err, &dqe) {
			return nil, eris.Wrapf(err, "agent: score lead %s", leadID)
		}
		// Bad input data disqualifies without consuming a model call.
		in.Decision = model.DecisionDisqualified
		in.Reasoning = fmt.Sprintf("data quality failure: %v", dqe)
		return q.record(ctx, lead, in)
	}

	in.Score = res.Score

	if !res.MeetsThreshold {
		in.Decision = model.DecisionDisqualified
		in.Reasoning = fmt.Sprintf("score %d below qualification threshold %d", res.Score, q.scoringCfg.Threshold)
		return q.record(ctx, lead, in)
	}

	in.Decision = model.DecisionQualified

	p, err := prompt.Qualification(variant, *lead, res.Score)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := q.generator.Generate(ctx, p)
	metrics.ModelLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		var merr *llm.ModelError
		if errors.As(err, &merr) {
			metrics.ModelErrors.WithLabelValues(string(merr.Kind)).Inc()
		} else {
			metrics.ModelErrors.WithLabelValues("unknown").Inc()
		}
		zap.L().Warn("agent: email generation failed",
			zap.String("lead_id", leadID),
			zap.Error(err),
		)
		// The scoring decision stands; the interaction records the failure.
		in.Reasoning = fmt.Sprintf("qualified on score %d; email generation failed: %v", res.Score, err)
		return q.record(ctx, lead, in)
	}

	verdict := q.evaluator.Evaluate(out, *lead)
	in.Escalated = verdict.Escalate
	in.FiredRules = verdict.Rules
	in.Reasoning = out.Reasoning
	if verdict.Escalate {
		in.Reasoning = fmt.Sprintf("%s\n\nflagged for review: %s", out.Reasoning, verdict.Explanation)
	}
	in.EmailContent = out.Email

	return q.record(ctx, lead, in)
}

// record appends the interaction and moves the lead to its post-run status.
func (q *Qualifier) record(ctx context.Context, lead *model.Lead, in model.Interaction) (*model.Interaction, error) {
	status := model.LeadStatusDisqualified
	if in.Decision == model.DecisionQualified {
		status = model.LeadStatusQualified
	}

	saved, err := q.store.AppendInteraction(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := q.store.UpdateLeadOutcome(ctx, lead.ID, status, in.Score); err != nil {
		return nil, err
	}

	metrics.Qualifications.WithLabelValues(string(in.Decision)).Inc()
	if in.Escalated {
		metrics.Escalations.Inc()
	}

	zap.L().Info("agent: qualification recorded",
		zap.String("lead_id", lead.ID),
		zap.String("company", lead.CompanyName),
		zap.String("decision", string(in.Decision)),
		zap.Int("score", in.Score),
		zap.Bool("escalated", in.Escalated),
	)
	return saved, nil
}
