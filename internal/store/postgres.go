package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/sdr-ops/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store. pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot qualification-path operations.
var preparedStatements = map[string]string{
	"get_lead":            `SELECT ` + pgLeadColumns + ` FROM leads WHERE id = $1`,
	"insert_lead":         `INSERT INTO leads (id, company_name, industry, company_size, contact_email, contact_name, status, score, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)`,
	"update_lead_outcome": `UPDATE leads SET status = $1, score = $2, updated_at = $3 WHERE id = $4`,
	"insert_interaction":  `INSERT INTO interactions (id, lead_id, campaign_id, action_type, variant, decision, score, escalated, fired_rules, reasoning, email_content, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
}

const pgLeadColumns = `id, company_name, industry, company_size, contact_email, contact_name, status, score, salesforce_id, created_at, updated_at`

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	company_name  TEXT NOT NULL,
	industry      TEXT,
	company_size  TEXT,
	contact_email TEXT NOT NULL,
	contact_name  TEXT,
	status        TEXT NOT NULL DEFAULT 'new',
	score         INTEGER NOT NULL DEFAULT 0,
	salesforce_id TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS interactions (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id       TEXT NOT NULL REFERENCES leads(id),
	campaign_id   TEXT,
	action_type   TEXT NOT NULL,
	variant       TEXT NOT NULL,
	decision      TEXT NOT NULL,
	score         INTEGER NOT NULL DEFAULT 0,
	escalated     BOOLEAN NOT NULL DEFAULT false,
	fired_rules   JSONB,
	reasoning     TEXT,
	email_content TEXT,
	timestamp     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS campaigns (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name           TEXT NOT NULL,
	prompt_variant TEXT NOT NULL DEFAULT 'A',
	status         TEXT NOT NULL DEFAULT 'draft',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS scenario_runs (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	suite       TEXT NOT NULL,
	scenario    TEXT NOT NULL,
	passed      BOOLEAN NOT NULL,
	details     TEXT,
	executed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_industry ON leads(industry);
CREATE INDEX IF NOT EXISTS idx_leads_contact_email ON leads(contact_email);
CREATE INDEX IF NOT EXISTS idx_interactions_lead_id ON interactions(lead_id);
CREATE INDEX IF NOT EXISTS idx_interactions_campaign_id ON interactions(campaign_id);
CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// --- Leads ---

func (s *PostgresStore) CreateLead(ctx context.Context, lead model.NewLead) (*model.Lead, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO leads (id, company_name, industry, company_size, contact_email, contact_name, status, score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)`,
		id, lead.CompanyName, lead.Industry, lead.CompanySize, lead.ContactEmail, lead.ContactName,
		string(model.LeadStatusNew), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert lead")
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

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgLeadColumns+` FROM leads WHERE id = $1`, id,
	)
	l, err := scanPgLead(row)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			return nil, err
		}
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return l, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + pgLeadColumns + ` FROM leads WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.Industry != "" {
		query += ` AND lower(industry) = lower(` + arg(filter.Industry) + `)`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanPgLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) UpdateLeadOutcome(ctx context.Context, id string, status model.LeadStatus, score int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET status = $1, score = $2, updated_at = $3 WHERE id = $4`,
		string(status), score, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead outcome %s", id)
	}
	return checkPgRowsAffected(tag, ErrLeadNotFound, id)
}

func (s *PostgresStore) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead status %s", id)
	}
	return checkPgRowsAffected(tag, ErrLeadNotFound, id)
}

func (s *PostgresStore) SetLeadSalesforceID(ctx context.Context, id string, sfID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET salesforce_id = $1, updated_at = $2 WHERE id = $3`,
		sfID, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set lead salesforce id %s", id)
	}
	return checkPgRowsAffected(tag, ErrLeadNotFound, id)
}

func (s *PostgresStore) DeleteLead(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete lead %s", id)
	}
	return checkPgRowsAffected(tag, ErrLeadNotFound, id)
}

// --- Interactions ---

func (s *PostgresStore) AppendInteraction(ctx context.Context, in model.Interaction) (*model.Interaction, error) {
	in.ID = uuid.New().String()
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	rulesJSON, err := marshalRules(in.FiredRules)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO interactions (id, lead_id, campaign_id, action_type, variant, decision, score, escalated, fired_rules, reasoning, email_content, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		in.ID, in.LeadID, nullString(in.CampaignID), in.ActionType, in.Variant, string(in.Decision),
		in.Score, in.Escalated, rulesJSON, in.Reasoning, in.EmailContent, in.Timestamp,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: append interaction for lead %s", in.LeadID)
	}
	return &in, nil
}

func (s *PostgresStore) ListRecentInteractions(ctx context.Context, limit int) ([]model.InteractionSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT i.id, i.lead_id, i.campaign_id, i.action_type, i.variant, i.decision, i.score, i.escalated,
		        i.fired_rules, i.reasoning, i.email_content, i.timestamp, l.company_name, l.contact_email
		 FROM interactions i
		 JOIN leads l ON i.lead_id = l.id
		 ORDER BY i.timestamp DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recent interactions")
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
			return nil, eris.Wrap(err, "postgres: scan interaction summary")
		}
		sum.CampaignID = campaignID.String
		if sum.FiredRules, err = unmarshalRules(rulesJSON); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list recent interactions iterate")
}

func (s *PostgresStore) ListLeadInteractions(ctx context.Context, leadID string) ([]model.Interaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, lead_id, campaign_id, action_type, variant, decision, score, escalated, fired_rules, reasoning, email_content, timestamp
		 FROM interactions WHERE lead_id = $1 ORDER BY timestamp DESC`, leadID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list interactions for lead %s", leadID)
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan interaction")
		}
		out = append(out, *in)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list lead interactions iterate")
}

// --- Campaigns ---

func (s *PostgresStore) CreateCampaign(ctx context.Context, name, promptVariant string) (*model.Campaign, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO campaigns (id, name, prompt_variant, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, name, promptVariant, string(model.CampaignStatusDraft), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert campaign")
	}

	return &model.Campaign{
		ID:            id,
		Name:          name,
		PromptVariant: promptVariant,
		Status:        model.CampaignStatusDraft,
		CreatedAt:     now,
	}, nil
}

func (s *PostgresStore) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, prompt_variant, status, created_at, completed_at FROM campaigns WHERE id = $1`, id,
	)
	c, err := scanPgCampaign(row)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			return nil, err
		}
		return nil, eris.Wrapf(err, "postgres: get campaign %s", id)
	}
	return c, nil
}

func (s *PostgresStore) ListCampaigns(ctx context.Context, limit int) ([]model.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, prompt_variant, status, created_at, completed_at
		 FROM campaigns ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list campaigns")
	}
	defer rows.Close()

	var out []model.Campaign
	for rows.Next() {
		c, err := scanPgCampaign(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan campaign")
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list campaigns iterate")
}

func (s *PostgresStore) UpdateCampaignStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	var completedAt any
	if status == model.CampaignStatusCompleted {
		completedAt = time.Now().UTC()
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE campaigns SET status = $1, completed_at = COALESCE($2, completed_at) WHERE id = $3`,
		string(status), completedAt, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update campaign status %s", id)
	}
	return checkPgRowsAffected(tag, ErrCampaignNotFound, id)
}

func (s *PostgresStore) CampaignStats(ctx context.Context, id string) (*model.CampaignStats, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN escalated THEN 1 ELSE 0 END), 0)
		 FROM interactions WHERE campaign_id = $1`, id,
	)
	var stats model.CampaignStats
	if err := row.Scan(&stats.TotalInteractions, &stats.QualifiedCount, &stats.EscalatedCount); err != nil {
		return nil, eris.Wrapf(err, "postgres: campaign stats %s", id)
	}
	return &stats, nil
}

// --- Analytics ---

func (s *PostgresStore) DashboardMetrics(ctx context.Context) (*model.DashboardMetrics, error) {
	var m model.DashboardMetrics

	row := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'qualified' THEN 1 ELSE 0 END), 0) FROM leads`,
	)
	if err := row.Scan(&m.TotalLeads, &m.QualifiedLeads); err != nil {
		return nil, eris.Wrap(err, "postgres: dashboard lead counts")
	}

	row = s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN escalated THEN 1 ELSE 0 END), 0)
		 FROM interactions WHERE timestamp >= now() - interval '7 days'`,
	)
	if err := row.Scan(&m.WeekInteractions, &m.WeekQualified, &m.WeekEscalated); err != nil {
		return nil, eris.Wrap(err, "postgres: dashboard interaction counts")
	}

	recent, err := s.ListRecentInteractions(ctx, 10)
	if err != nil {
		return nil, err
	}
	m.RecentInteractions = recent

	return &m, nil
}

func (s *PostgresStore) DailyPerformance(ctx context.Context, days int) ([]model.DailyPerformance, error) {
	if days <= 0 {
		days = 30
	}
	rows, err := s.pool.Query(ctx,
		`SELECT to_char(timestamp, 'YYYY-MM-DD'),
		        COUNT(*),
		        SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN decision = 'disqualified' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN escalated THEN 1 ELSE 0 END)
		 FROM interactions
		 WHERE timestamp >= now() - make_interval(days => $1)
		 GROUP BY to_char(timestamp, 'YYYY-MM-DD')
		 ORDER BY to_char(timestamp, 'YYYY-MM-DD') ASC`, days,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: daily performance")
	}
	defer rows.Close()

	var out []model.DailyPerformance
	for rows.Next() {
		var d model.DailyPerformance
		if err := rows.Scan(&d.Date, &d.Interactions, &d.Qualified, &d.Disqualified, &d.Escalated); err != nil {
			return nil, eris.Wrap(err, "postgres: scan daily performance")
		}
		out = append(out, d)
	}
	return out, eris.Wrap(rows.Err(), "postgres: daily performance iterate")
}

func (s *PostgresStore) VariantComparison(ctx context.Context) ([]model.VariantStats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT variant,
		        COUNT(*),
		        SUM(CASE WHEN decision = 'qualified' THEN 1 ELSE 0 END),
		        COALESCE(AVG(score), 0),
		        SUM(CASE WHEN escalated THEN 1 ELSE 0 END)
		 FROM interactions
		 GROUP BY variant
		 ORDER BY variant ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: variant comparison")
	}
	defer rows.Close()

	var out []model.VariantStats
	for rows.Next() {
		var v model.VariantStats
		if err := rows.Scan(&v.Variant, &v.TotalInteractions, &v.QualifiedCount, &v.AvgScore, &v.EscalatedCount); err != nil {
			return nil, eris.Wrap(err, "postgres: scan variant stats")
		}
		out = append(out, v)
	}
	return out, eris.Wrap(rows.Err(), "postgres: variant comparison iterate")
}

func (s *PostgresStore) Funnel(ctx context.Context) (*model.Funnel, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status IN ('qualified', 'contacted', 'replied', 'meeting_scheduled') THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN ('contacted', 'replied', 'meeting_scheduled') THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN ('replied', 'meeting_scheduled') THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'meeting_scheduled' THEN 1 ELSE 0 END), 0)
		 FROM leads`,
	)
	var f model.Funnel
	if err := row.Scan(&f.TotalLeads, &f.Qualified, &f.Contacted, &f.Replied, &f.Meetings); err != nil {
		return nil, eris.Wrap(err, "postgres: funnel")
	}
	return &f, nil
}

func (s *PostgresStore) CohortsByIndustry(ctx context.Context) ([]model.CohortRow, error) {
	return s.cohorts(ctx, "industry")
}

func (s *PostgresStore) CohortsBySize(ctx context.Context) ([]model.CohortRow, error) {
	return s.cohorts(ctx, "company_size")
}

func (s *PostgresStore) cohorts(ctx context.Context, column string) ([]model.CohortRow, error) {
	// column is one of the two fixed callers above, never user input.
	rows, err := s.pool.Query(ctx,
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
		return nil, eris.Wrapf(err, "postgres: cohorts by %s", column)
	}
	defer rows.Close()

	var out []model.CohortRow
	for rows.Next() {
		var c model.CohortRow
		if err := rows.Scan(&c.Cohort, &c.TotalLeads, &c.AvgScore, &c.QualifiedCount); err != nil {
			return nil, eris.Wrap(err, "postgres: scan cohort row")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: cohorts iterate")
}

// --- Scenario runs ---

func (s *PostgresStore) RecordScenarioRun(ctx context.Context, run model.ScenarioRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.ExecutedAt.IsZero() {
		run.ExecutedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scenario_runs (id, suite, scenario, passed, details, executed_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.Suite, run.Scenario, run.Passed, run.Details, run.ExecutedAt,
	)
	return eris.Wrap(err, "postgres: record scenario run")
}

func (s *PostgresStore) ListScenarioRuns(ctx context.Context, limit int) ([]model.ScenarioRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, suite, scenario, passed, details, executed_at
		 FROM scenario_runs ORDER BY executed_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scenario runs")
	}
	defer rows.Close()

	var out []model.ScenarioRun
	for rows.Next() {
		var r model.ScenarioRun
		if err := rows.Scan(&r.ID, &r.Suite, &r.Scenario, &r.Passed, &r.Details, &r.ExecutedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan scenario run")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list scenario runs iterate")
}

// --- helpers ---

func checkPgRowsAffected(tag pgconn.CommandTag, notFound error, id string) error {
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(notFound, "%s", id)
	}
	return nil
}

func scanPgLead(row pgx.Row) (*model.Lead, error) {
	var l model.Lead
	var industry, size, contactName, sfID sql.NullString

	err := row.Scan(&l.ID, &l.CompanyName, &industry, &size, &l.ContactEmail, &contactName,
		&l.Status, &l.Score, &sfID, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	l.Industry = industry.String
	l.CompanySize = size.String
	l.ContactName = contactName.String
	l.SalesforceID = sfID.String
	return &l, nil
}

func scanPgCampaign(row pgx.Row) (*model.Campaign, error) {
	var c model.Campaign
	var completedAt sql.NullTime

	err := row.Scan(&c.ID, &c.Name, &c.PromptVariant, &c.Status, &c.CreatedAt, &completedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		c.CompletedAt = &t
	}
	return &c, nil
}
