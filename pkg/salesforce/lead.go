package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// SFLead represents a Salesforce Lead record.
type SFLead struct {
	ID                string `json:"Id" salesforce:"Id"`
	Company           string `json:"Company" salesforce:"Company"`
	Email             string `json:"Email" salesforce:"Email"`
	FirstName         string `json:"FirstName" salesforce:"FirstName"`
	LastName          string `json:"LastName" salesforce:"LastName"`
	Industry          string `json:"Industry" salesforce:"Industry"`
	NumberOfEmployees int    `json:"NumberOfEmployees" salesforce:"NumberOfEmployees"`
	Rating            string `json:"Rating" salesforce:"Rating"`
	Status            string `json:"Status" salesforce:"Status"`
}

// leadFields are the SOQL fields selected for Lead queries.
var leadFields = []string{
	"Id", "Company", "Email", "FirstName", "LastName",
	"Industry", "NumberOfEmployees", "Rating", "Status",
}

// FindLeadByEmail queries Salesforce for a Lead matching the given email.
// Returns nil if no lead is found.
func FindLeadByEmail(ctx context.Context, c Client, email string) (*SFLead, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Lead WHERE Email = '%s' LIMIT 1",
		strings.Join(leadFields, ", "),
		escapeSoql(email),
	)

	var leads []SFLead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find lead by email %s", email))
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return &leads[0], nil
}

// CreateLeads inserts Lead SObjects through the collections API and returns
// one result per record, in request order.
func CreateLeads(ctx context.Context, c Client, records []map[string]any) ([]CollectionResult, error) {
	results, err := c.InsertCollection(ctx, "Lead", records)
	if err != nil {
		return nil, eris.Wrap(err, "sf: create leads")
	}
	if len(results) != len(records) {
		return nil, eris.Errorf("sf: create leads: %d results for %d records", len(results), len(records))
	}
	return results, nil
}

// UpdateLead updates fields on an existing Lead record.
func UpdateLead(ctx context.Context, c Client, leadID string, fields map[string]any) error {
	if err := c.UpdateOne(ctx, "Lead", leadID, fields); err != nil {
		return eris.Wrap(err, fmt.Sprintf("sf: update lead %s", leadID))
	}
	return nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
