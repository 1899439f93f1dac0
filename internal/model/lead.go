package model

import "time"

// LeadStatus represents the lifecycle state of a lead.
type LeadStatus string

const (
	LeadStatusNew              LeadStatus = "new"
	LeadStatusQualified        LeadStatus = "qualified"
	LeadStatusDisqualified     LeadStatus = "disqualified"
	LeadStatusContacted        LeadStatus = "contacted"
	LeadStatusReplied          LeadStatus = "replied"
	LeadStatusMeetingScheduled LeadStatus = "meeting_scheduled"
)

// ValidLeadStatus reports whether s is a recognized lead status.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusQualified, LeadStatusDisqualified,
		LeadStatusContacted, LeadStatusReplied, LeadStatusMeetingScheduled:
		return true
	}
	return false
}

// Lead is a prospective customer record under evaluation.
// Score is only meaningful once Status has left "new".
type Lead struct {
	ID           string     `json:"id"`
	CompanyName  string     `json:"company_name"`
	Industry     string     `json:"industry,omitempty"`
	CompanySize  string     `json:"company_size,omitempty"`
	ContactEmail string     `json:"contact_email"`
	ContactName  string     `json:"contact_name,omitempty"`
	Status       LeadStatus `json:"status"`
	Score        int        `json:"score"`
	SalesforceID string     `json:"salesforce_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewLead is the subset of Lead fields accepted at creation/import time.
type NewLead struct {
	CompanyName  string `json:"company_name"`
	Industry     string `json:"industry,omitempty"`
	CompanySize  string `json:"company_size,omitempty"`
	ContactEmail string `json:"contact_email"`
	ContactName  string `json:"contact_name,omitempty"`
}
