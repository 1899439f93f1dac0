package model

// DashboardMetrics holds the headline KPIs for the dashboard view.
type DashboardMetrics struct {
	TotalLeads         int                  `json:"total_leads"`
	QualifiedLeads     int                  `json:"qualified_leads"`
	WeekInteractions   int                  `json:"week_interactions"`
	WeekQualified      int                  `json:"week_qualified"`
	WeekEscalated      int                  `json:"week_escalated"`
	RecentInteractions []InteractionSummary `json:"recent_interactions"`
}

// DailyPerformance is one day's interaction outcomes.
type DailyPerformance struct {
	Date         string `json:"date"`
	Interactions int    `json:"interactions"`
	Qualified    int    `json:"qualified"`
	Disqualified int    `json:"disqualified"`
	Escalated    int    `json:"escalated"`
}

// VariantStats compares qualification outcomes for one prompt variant.
type VariantStats struct {
	Variant           string  `json:"variant"`
	TotalInteractions int     `json:"total_interactions"`
	QualifiedCount    int     `json:"qualified_count"`
	AvgScore          float64 `json:"avg_score"`
	EscalatedCount    int     `json:"escalated_count"`
}

// Funnel counts leads at each stage of the outreach funnel. Stages are
// cumulative: a lead with a meeting also counts as contacted and qualified.
type Funnel struct {
	TotalLeads int `json:"total_leads"`
	Qualified  int `json:"qualified"`
	Contacted  int `json:"contacted"`
	Replied    int `json:"replied"`
	Meetings   int `json:"meetings"`
}

// CohortRow aggregates lead outcomes for one cohort value (an industry or a
// company-size bracket).
type CohortRow struct {
	Cohort         string  `json:"cohort"`
	TotalLeads     int     `json:"total_leads"`
	AvgScore       float64 `json:"avg_score"`
	QualifiedCount int     `json:"qualified_count"`
}
