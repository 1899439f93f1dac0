package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/sdr-ops/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	company_name  TEXT NOT NULL,
	industry      TEXT,
	company_size  TEXT,
	contact_email TEXT NOT NULL,
	contact_name  TEXT,
	status        TEXT NOT NULL DEFAULT 'new',
	score         INTEGER NOT NULL DEFAULT 0,
	salesforce_id TEXT,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS interactions (
	id            TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL REFERENCES leads(id),
	campaign_id   TEXT,
	action_type   TEXT NOT NULL,
	variant       TEXT NOT NULL,
	decision      TEXT NOT NULL,
	score         INTEGER NOT NULL DEFAULT 0,
	escalated     INTEGER NOT NULL DEFAULT 0,
	fired_rules   TEXT,
	reasoning     TEXT,
	email_content TEXT,
	timestamp     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS campaigns (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	prompt_variant TEXT NOT NULL DEFAULT 'A',
	status         TEXT NOT NULL DEFAULT 'draft',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at   DATETIME
);

CREATE TABLE IF NOT EXISTS scenario_runs (
	id          TEXT PRIMARY KEY,
	suite       TEXT NOT NULL,
	scenario    TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	details     TEXT,
	executed_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
CREATE INDEX IF NOT EXISTS idx_leads_contact_email ON leads(contact_email);
CREATE INDEX IF NOT EXISTS idx_interactions_lead_id ON interactions(lead_id);
CREATE INDEX IF NOT EXISTS idx_interactions_campaign_id ON interactions(campaign_id);
CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Leads ---

func (s *SQLiteStore) CreateLead(ctx context.Context, lead model.NewLead) (*model.Lead, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, company_name, industry, company_size, contact_email, contact_name, status, score, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		id, lead.CompanyName, lead.Industry, lead.CompanySize, lead.ContactEmail, lead.ContactName,
		string(model.LeadStatusNew), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert lead")
	}

	return &model.Lead{
		ID:           id,
		CompanyName:  lead.CompanyName,
		Industry:     lead.Industry,
		CompanySize:  lead.CompanySize,
		ContactEmail: lead.ContactEmail,
		ContactName:  lead.ContactName,
		Status:       model.LeadStatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

const sqliteLeadColumns = `id, company_name, industry, company_size, contact_email, contact_name, status, score, salesforce_id, created_at, updated_at`

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteLeadColumns+` FROM leads WHERE id = ?`, id,
	)
	return scanLead(row)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + sqliteLeadColumns + ` FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Industry != "" {
		query += ` AND industry = ? COLLATE NOCASE`
		args = append(args, filter.Industry)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) UpdateLeadOutcome(ctx context.Context, id string, status model.LeadStatus, score int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, score = ?, updated_at = ? WHERE id = ?`,
		string(status), score, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead outcome %s", id)
	}
	return checkRowsAffected(res, ErrLeadNotFound, id)
}

func (s *SQLiteStore) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead status %s", id)
	}
	return checkRowsAffected(res, ErrLeadNotFound, id)
}

func (s *SQLiteStore) SetLeadSalesforceID(ctx context.Context, id string, sfID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET salesforce_id = ?, updated_at = ? WHERE id = ?`,
		sfID, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set lead salesforce id %s", id)
	}
	return checkRowsAffected(res, ErrLeadNotFound, id)
}

func (s *SQLiteStore) DeleteLead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete lead %s", id)
	}
	return checkRowsAffected(res, ErrLeadNotFound, id)
}

// --- Interactions ---

func (s *SQLiteStore) AppendInteraction(ctx context.Context, in model.Interaction) (*model.Interaction, error) {
	in.ID = uuid.New().String()
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	rulesJSON, err := marshalRules(in.FiredRules)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, lead_id, campaign_id, action_type, variant, decision, score, escalated, fired_rules, reasoning, email_content, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.LeadID, nullString(in.CampaignID), in.ActionType, in.Variant, string(in.Decision),
		in.Score, in.Escalated, rulesJSON, in.Reasoning, in.EmailContent, in.Timestamp,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: append interaction for lead %s", in.LeadID)
	}
	return &in, nil
}

func (s *SQLiteStore) ListRecentInteractions(ctx context.Context, limit int) ([]model.InteractionSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.lead_id, i.campaign_id, i.action_type, i.variant, i.decision, i.score, i.escalated,
		        i.fired_rules, i.reasoning, i.email_content, i.timestamp, l.company_name, l.contact_email
		 FROM interactions i
		 JOIN leads l ON i.lead_id = l.id
		 ORDER BY i.timestamp DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recent interactions")
	}
	defer rows.Close()

	var out []model.InteractionSummary
	for rows.Next() {
		var sum model.InteractionSummary
		var campaignID, rulesJSON sql.NullString
		err := rows.Scan(&sum.ID, &sum.LeadID, &campaignID, &sum.ActionType, &sum.Variant, &sum.Decision,
			&sum.Score, &sum.Escalated, &rulesJSON, &sum.Reasoning, &sum.EmailContent, &sum.Timestamp,
			&sum.CompanyName, &sum.ContactEmail)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan interaction summary")
		}
		sum.CampaignID = campaignID.String
		if sum.FiredRules, err = unmarshalRules(rulesJSON); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list recent interactions iterate")
}

func (s *SQLiteStore) ListLeadInteractions(ctx context.Context, leadID string) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, campaign_id, action_type, variant, decision, score, escalated, fired_rules, reasoning, email_content, timestamp
		 FROM interactions WHERE lead_id = ? ORDER BY timestamp DESC`, leadID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list interactions for lead %s", leadID)
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list lead interactions iterate")
}

// --- Campaigns ---

func (s *SQLiteStore) CreateCampaign(ctx context.Context, name, promptVariant string) (*model.Campaign, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, name, prompt_variant, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, promptVariant, string(model.CampaignStatusDraft), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert campaign")
	}

	return &model.Campaign{
		ID:            id,
		Name:          name,
		PromptVariant: promptVariant,
		Status:        model.CampaignStatusDraft,
		CreatedAt:     now,
	}, nil
}

func (s *SQLiteStore) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, prompt_variant, status, created_at, completed_at FROM campaigns WHERE id = ?`, id,
	)
	return scanCampaign(row)
}

func (s *SQLiteStore) ListCampaigns(ctx context.Context, limit int) ([]model.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, prompt_variant, status, created_at, completed_at
		 FROM campaigns ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list campaigns")
	}
	defer rows.Close()

	var out []model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list campaigns iterate")
}

func (s *SQLiteStore) UpdateCampaignStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	var completedAt any
	if status == model.CampaignStatusCompleted {
		completedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE campaigns SET status = ?, completed_at = COALESCE(?, completed_at) WHERE id = ?`,
		string(status), completedAt, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update campaign status %s", id)
	}
	return checkRowsAffected(res, ErrCampaignNotFound, id)
}

func (s *SQLiteStore) CampaignStats(ctx context.Context, id string) (*model.CampaignStats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN escalated = 1 THEN 1 ELSE 0 END), 0)
		 FROM interactions WHERE campaign_id = ?`, id,
	)
	var stats model.CampaignStats
	if err := row.Scan(&stats.TotalInteractions, &stats.QualifiedCount, &stats.EscalatedCount); err != nil {
		return nil, eris.Wrapf(err, "sqlite: campaign stats %s", id)
	}
	return &stats, nil
}

// --- Analytics ---

func (s *SQLiteStore) DashboardMetrics(ctx context.Context) (*model.DashboardMetrics, error) {
	var m model.DashboardMetrics

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'qualified' THEN 1 ELSE 0 END), 0) FROM leads`,
	)
	if err := row.Scan(&m.TotalLeads, &m.QualifiedLeads); err != nil {
		return nil, eris.Wrap(err, "sqlite: dashboard lead counts")
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN escalated = 1 THEN 1 ELSE 0 END), 0)
		 FROM interactions WHERE timestamp >= datetime('now', '-7 days')`,
	)
	if err := row.Scan(&m.WeekInteractions, &m.WeekQualified, &m.WeekEscalated); err != nil {
		return nil, eris.Wrap(err, "sqlite: dashboard interaction counts")
	}

	recent, err := s.ListRecentInteractions(ctx, 10)
	if err != nil {
		return nil, err
	}
	m.RecentInteractions = recent

	return &m, nil
}

func (s *SQLiteStore) DailyPerformance(ctx context.Context, days int) ([]model.DailyPerformance, error) {
	if days <= 0 {
		days = 30
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT DATE(timestamp),
		        COUNT(*),
		        SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN decision = 'disqualified' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN escalated = 1 THEN 1 ELSE 0 END)
		 FROM interactions
		 WHERE timestamp >= datetime('now', ? || ' days')
		 GROUP BY DATE(timestamp)
		 ORDER BY DATE(timestamp) ASC`,
		fmt.Sprintf("-%d", days),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: daily performance")
	}
	defer rows.Close()

	var out []model.DailyPerformance
	for rows.Next() {
		var d model.DailyPerformance
		if err := rows.Scan(&d.Date, &d.Interactions, &d.Qualified, &d.Disqualified, &d.Escalated); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan daily performance")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: daily performance iterate")
}

func (s *SQLiteStore) VariantComparison(ctx context.Context) ([]model.VariantStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT variant,
		        COUNT(*),
		        SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END),
		        COALESCE(AVG(score), 0),
		        SUM(CASE WHEN escalated = 1 THEN 1 ELSE 0 END)
		 FROM interactions
		 GROUP BY variant
		 ORDER BY variant ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: variant comparison")
	}
	defer rows.Close()

	var out []model.VariantStats
	for rows.Next() {
		var v model.VariantStats
		if err := rows.Scan(&v.Variant, &v.TotalInteractions, &v.QualifiedCount, &v.AvgScore, &v.EscalatedCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan variant stats")
		}
		out = append(out, v)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: variant comparison iterate")
}

func (s *SQLiteStore) Funnel(ctx context.Context) (*model.Funnel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status IN ('qualified', 'contacted', 'replied', 'meeting_scheduled') THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN ('contacted', 'replied', 'meeting_scheduled') THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN ('replied', 'meeting_scheduled') THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'meeting_scheduled' THEN 1 ELSE 0 END), 0)
		 FROM leads`,
	)
	var f model.Funnel
	if err := row.Scan(&f.TotalLeads, &f.Qualified, &f.Contacted, &f.Replied, &f.Meetings); err != nil {
		return nil, eris.Wrap(err, "sqlite: funnel")
	}
	return &f, nil
}

func (s *SQLiteStore) CohortsByIndustry(ctx context.Context) ([]model.CohortRow, error) {
	return s.cohorts(ctx, "industry")
}

func (s *SQLiteStore) CohortsBySize(ctx context.Context) ([]model.CohortRow, error) {
	return s.cohorts(ctx, "company_size")
}

func (s *SQLiteStore) cohorts(ctx context.Context, column string) ([]model.CohortRow, error) {
	// column is one of the two fixed callers above, never user input.
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`,
		        COUNT(*),
		        COALESCE(AVG(score), 0),
		        SUM(CASE WHEN status = 'qualified' THEN 1 ELSE 0 END)
		 FROM leads
		 WHERE `+column+` IS NOT NULL AND `+column+` != ''
		 GROUP BY `+column+`
		 ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: cohorts by %s", column)
	}
	defer rows.Close()

	var out []model.CohortRow
	for rows.Next() {
		var c model.CohortRow
		if err := rows.Scan(&c.Cohort, &c.TotalLeads, &c.AvgScore, &c.QualifiedCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan cohort row")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: cohorts iterate")
}

// --- Scenario runs ---

func (s *SQLiteStore) RecordScenarioRun(ctx context.Context, run model.ScenarioRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.ExecutedAt.IsZero() {
		run.ExecutedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scenario_runs (id, suite, scenario, passed, details, executed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Suite, run.Scenario, run.Passed, run.Details, run.ExecutedAt,
	)
	return eris.Wrap(err, "sqlite: record scenario run")
}

func (s *SQLiteStore) ListScenarioRuns(ctx context.Context, limit int) ([]model.ScenarioRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, suite, scenario, passed, details, executed_at
		 FROM scenario_runs ORDER BY executed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scenario runs")
	}
	defer rows.Close()

	var out []model.ScenarioRun
	for rows.Next() {
		var r model.ScenarioRun
		if err := rows.Scan(&r.ID, &r.Suite, &r.Scenario, &r.Passed, &r.Details, &r.ExecutedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan scenario run")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list scenario runs iterate")
}

// --- helpers ---

func checkRowsAffected(res sql.Result, notFound error, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(notFound, "%s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var industry, size, contactName, sfID sql.NullString

	err := row.Scan(&l.ID, &l.CompanyName, &industry, &size, &l.ContactEmail, &contactName,
		&l.Status, &l.Score, &sfID, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan lead")
	}

	l.Industry = industry.String
	l.CompanySize = size.String
	l.ContactName = contactName.String
	l.SalesforceID = sfID.String
	return &l, nil
}

func scanInteraction(row scannable) (*model.Interaction, error) {
	var in model.Interaction
	var campaignID, rulesJSON sql.NullString

	err := row.Scan(&in.ID, &in.LeadID, &campaignID, &in.ActionType, &in.Variant, &in.Decision,
		&in.Score, &in.Escalated, &rulesJSON, &in.Reasoning, &in.EmailContent, &in.Timestamp)
	if err != nil {
		return nil, eris.Wrap(err, "scan interaction")
	}

	in.CampaignID = campaignID.String
	if in.FiredRules, err = unmarshalRules(rulesJSON); err != nil {
		return nil, err
	}
	return &in, nil
}

func scanCampaign(row scannable) (*model.Campaign, error) {
	var c model.Campaign
	var completedAt sql.NullTime

	err := row.Scan(&c.ID, &c.Name, &c.PromptVariant, &c.Status, &c.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan campaign")
	}

	if completedAt.Valid {
		t := completedAt.Time
		c.CompletedAt = &t
	}
	return &c, nil
}

func marshalRules(rules []string) (sql.NullString, error) {
	if len(rules) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(rules)
	if err != nil {
		return sql.NullString{}, eris.Wrap(err, "marshal fired rules")
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalRules(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var rules []string
	if err := json.Unmarshal([]byte(s.String), &rules); err != nil {
		return nil, eris.Wrap(err, "unmarshal fired rules")
	}
	return rules, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
