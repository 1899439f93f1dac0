package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sdr-ops/internal/model"
)

func newTestPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

var pgLeadCols = []string{
	"id", "company_name", "industry", "company_size", "contact_email",
	"contact_name", "status", "score", "salesforce_id", "created_at", "updated_at",
}

func TestPostgres_GetLead(t *testing.T) {
	st, mock := newTestPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM leads WHERE id = \$1`).
		WithArgs("lead-1").
		WillReturnRows(pgxmock.NewRows(pgLeadCols).AddRow(
			"lead-1", "Acme", "SaaS", "50-500", "jane@acme.io",
			"Jane", "new", 0, nil, now, now,
		))

	lead, err := st.GetLead(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", lead.CompanyName)
	assert.Equal(t, "SaaS", lead.Industry)
	assert.Equal(t, model.LeadStatusNew, lead.Status)
	assert.Empty(t, lead.SalesforceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetLead_Missing(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT .* FROM leads WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(pgLeadCols))

	_, err := st.GetLead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateLead(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "Acme", "SaaS", "50-500", "jane@acme.io", "Jane",
			"new", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	lead, err := st.CreateLead(context.Background(), model.NewLead{
		CompanyName:  "Acme",
		Industry:     "SaaS",
		CompanySize:  "50-500",
		ContactEmail: "jane@acme.io",
		ContactName:  "Jane",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, model.LeadStatusNew, lead.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateLeadOutcome(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE leads SET status = \$1, score = \$2`).
		WithArgs("qualified", 85, pgxmock.AnyArg(), "lead-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.UpdateLeadOutcome(context.Background(), "lead-1", model.LeadStatusQualified, 85)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateLeadOutcome_Missing(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`UPDATE leads SET status = \$1, score = \$2`).
		WithArgs("qualified", 85, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.UpdateLeadOutcome(context.Background(), "missing", model.LeadStatusQualified, 85)
	assert.ErrorIs(t, err, ErrLeadNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AppendInteraction(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO interactions`).
		WithArgs(pgxmock.AnyArg(), "lead-1", pgxmock.AnyArg(), model.ActionQualification, "A",
			"qualified", 85, true, pgxmock.AnyArg(), "fit", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	in, err := st.AppendInteraction(context.Background(), model.Interaction{
		LeadID:     "lead-1",
		ActionType: model.ActionQualification,
		Variant:    "A",
		Decision:   model.DecisionQualified,
		Score:      85,
		Escalated:  true,
		FiredRules: []string{"pricing_mention"},
		Reasoning:  "fit",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, in.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CampaignStats(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\),.*FROM interactions WHERE campaign_id = \$1`).
		WithArgs("camp-1").
		WillReturnRows(pgxmock.NewRows([]string{"count", "qualified", "escalated"}).AddRow(5, 3, 1))

	stats, err := st.CampaignStats(context.Background(), "camp-1")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalInteractions)
	assert.Equal(t, 3, stats.QualifiedCount)
	assert.Equal(t, 1, stats.EscalatedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Funnel(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\),.*FROM leads`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "qualified", "contacted", "replied", "meetings"}).
			AddRow(10, 6, 4, 2, 1))

	f, err := st.Funnel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, f.TotalLeads)
	assert.Equal(t, 6, f.Qualified)
	assert.Equal(t, 1, f.Meetings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_VariantComparison(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT variant,`).
		WillReturnRows(pgxmock.NewRows([]string{"variant", "total", "qualified", "avg_score", "escalated"}).
			AddRow("A", 4, 2, 72.5, 1).
			AddRow("B", 3, 2, 81.0, 0))

	stats, err := st.VariantComparison(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "A", stats[0].Variant)
	assert.InDelta(t, 72.5, stats[0].AvgScore, 0.01)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RecordScenarioRun(t *testing.T) {
	st, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO scenario_runs`).
		WithArgs(pgxmock.AnyArg(), "governance", "pricing question escalates", true, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := st.RecordScenarioRun(context.Background(), model.ScenarioRun{
		Suite:    "governance",
		Scenario: "pricing question escalates",
		Passed:   true,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
