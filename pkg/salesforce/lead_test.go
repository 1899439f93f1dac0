package salesforce

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements Client for testing.
type mockClient struct {
	queryFn            func(ctx context.Context, soql string, out any) error
	insertCollectionFn func(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error)
	updateOneFn        func(ctx context.Context, sObjectName string, id string, fields map[string]any) error
}

func (m *mockClient) Query(ctx context.Context, soql string, out any) error {
	if m.queryFn != nil {
		return m.queryFn(ctx, soql, out)
	}
	return nil
}

func (m *mockClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
	if m.insertCollectionFn != nil {
		return m.insertCollectionFn(ctx, sObjectName, records)
	}
	results := make([]CollectionResult, len(records))
	for i := range records {
		results[i] = CollectionResult{ID: "00Q" + string(rune('A'+i)), Success: true}
	}
	return results, nil
}

func (m *mockClient) UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error {
	if m.updateOneFn != nil {
		return m.updateOneFn(ctx, sObjectName, id, fields)
	}
	return nil
}

func TestMockClientImplementsInterface(t *testing.T) {
	var _ Client = (*mockClient)(nil)
	var _ Client = (*sfClient)(nil)
}

func TestFindLeadByEmail_Found(t *testing.T) {
	var gotSoql string
	c := &mockClient{queryFn: func(_ context.Context, soql string, out any) error {
		gotSoql = soql
		leads := out.(*[]SFLead)
		*leads = []SFLead{{ID: "00Q1", Company: "Acme", Email: "jane@acme.io"}}
		return nil
	}}

	lead, err := FindLeadByEmail(context.Background(), c, "jane@acme.io")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "00Q1", lead.ID)
	assert.Contains(t, gotSoql, "FROM Lead WHERE Email = 'jane@acme.io'")
}

func TestFindLeadByEmail_NotFound(t *testing.T) {
	c := &mockClient{}

	lead, err := FindLeadByEmail(context.Background(), c, "nobody@acme.io")
	require.NoError(t, err)
	assert.Nil(t, lead)
}

func TestFindLeadByEmail_EscapesQuotes(t *testing.T) {
	var gotSoql string
	c := &mockClient{queryFn: func(_ context.Context, soql string, _ any) error {
		gotSoql = soql
		return nil
	}}

	_, err := FindLeadByEmail(context.Background(), c, "o'brien@acme.io")
	require.NoError(t, err)
	assert.Contains(t, gotSoql, `o\'brien@acme.io`)
}

func TestCreateLeads(t *testing.T) {
	var gotObject string
	var gotRecords []map[string]any
	c := &mockClient{insertCollectionFn: func(_ context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
		gotObject = sObjectName
		gotRecords = records
		return []CollectionResult{
			{ID: "00Q2", Success: true},
			{Success: false, Errors: []string{"DUPLICATES_DETECTED"}},
		}, nil
	}}

	results, err := CreateLeads(context.Background(), c, []map[string]any{
		{"Company": "Acme", "Email": "jane@acme.io"},
		{"Company": "Beta", "Email": "bob@beta.io"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lead", gotObject)
	require.Len(t, gotRecords, 2)
	assert.Equal(t, "Acme", gotRecords[0]["Company"])

	require.Len(t, results, 2)
	assert.Equal(t, "00Q2", results[0].ID)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
}

func TestCreateLeads_Error(t *testing.T) {
	c := &mockClient{insertCollectionFn: func(_ context.Context, _ string, _ []map[string]any) ([]CollectionResult, error) {
		return nil, errors.New("STORAGE_LIMIT_EXCEEDED")
	}}

	_, err := CreateLeads(context.Background(), c, []map[string]any{{"Company": "Acme"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create leads")
}

func TestCreateLeads_ResultCountMismatch(t *testing.T) {
	c := &mockClient{insertCollectionFn: func(_ context.Context, _ string, _ []map[string]any) ([]CollectionResult, error) {
		return []CollectionResult{}, nil
	}}

	_, err := CreateLeads(context.Background(), c, []map[string]any{{"Company": "Acme"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 records")
}

func TestUpdateLead(t *testing.T) {
	var gotID string
	c := &mockClient{updateOneFn: func(_ context.Context, sObjectName, id string, _ map[string]any) error {
		assert.Equal(t, "Lead", sObjectName)
		gotID = id
		return nil
	}}

	err := UpdateLead(context.Background(), c, "00Q3", map[string]any{"Status": "Working"})
	require.NoError(t, err)
	assert.Equal(t, "00Q3", gotID)
}
