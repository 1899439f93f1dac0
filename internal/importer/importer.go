// Package importer loads leads in bulk from CSV and XLSX files, including
// files fetched from ftp:// sources. Rows are mapped by header name; rows
// that cannot be mapped are collected as errors without aborting the import.
package importer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/metrics"
	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/scoring"
	"github.com/sells-group/sdr-ops/internal/store"
)

// maxReportedErrors caps how many row errors a Result carries; the full
// count is still reported in TotalErrors.
const maxReportedErrors = 10

// headerAliases maps accepted column names (case-folded) to lead fields.
var headerAliases = map[string]string{
	"company_name":  "company_name",
	"company":       "company_name",
	"industry":      "industry",
	"company_size":  "company_size",
	"size":          "company_size",
	"employees":     "company_size",
	"contact_email": "contact_email",
	"email":         "contact_email",
	"contact_name":  "contact_name",
	"contact":       "contact_name",
	"name":          "contact_name",
}

// RowError records one rejected input row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarizes a completed import.
type Result struct {
	Source      string     `json:"source"`
	Total       int        `json:"total"`
	Created     int        `json:"created"`
	TotalErrors int        `json:"total_errors"`
	Errors      []RowError `json:"errors,omitempty"`
}

func (r *Result) addError(row int, msg string) {
	r.TotalErrors++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, RowError{Row: row, Message: msg})
	}
}

// columnMap resolves a header row to lead-field indexes. Unknown columns
// are ignored; company_name and contact_email must be present.
type columnMap map[string]int

func mapHeader(header []string) (columnMap, error) {
	cols := make(columnMap)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		if field, ok := headerAliases[key]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	for _, required := range []string{"company_name", "contact_email"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("importer: header is missing a %s column", required)
		}
	}
	return cols, nil
}

func (c columnMap) get(row []string, field string) string {
	i, ok := c[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// leadFromRow converts one mapped row into a NewLead, rejecting rows with
// missing or malformed required fields.
func leadFromRow(cols columnMap, row []string) (model.NewLead, error) {
	nl := model.NewLead{
		CompanyName:  cols.get(row, "company_name"),
		Industry:     cols.get(row, "industry"),
		CompanySize:  cols.get(row, "company_size"),
		ContactEmail: cols.get(row, "contact_email"),
		ContactName:  cols.get(row, "contact_name"),
	}
	if nl.CompanyName == "" {
		return nl, fmt.Errorf("company name is required")
	}
	if nl.ContactEmail == "" {
		return nl, fmt.Errorf("contact email is required")
	}
	if !scoring.ValidEmail(nl.ContactEmail) {
		return nl, fmt.Errorf("contact email %q is malformed", nl.ContactEmail)
	}
	return nl, nil
}

// Importer persists parsed leads.
type Importer struct {
	store store.Store
}

// New creates an Importer backed by st.
func New(st store.Store) *Importer {
	return &Importer{store: st}
}

// createAll stores the parsed rows, collecting per-row store failures.
// rowOffset is the 1-based row number of the first data row, used so error
// messages refer to positions in the source file.
func (imp *Importer) createAll(ctx context.Context, source string, rows []parsedRow, result *Result) error {
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := imp.store.CreateLead(ctx, row.lead); err != nil {
			result.addError(row.num, err.Error())
			continue
		}
		result.Created++
	}

	metrics.LeadsImported.WithLabelValues(source).Add(float64(result.Created))
	zap.L().Info("importer: import complete",
		zap.String("source", source),
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("errors", result.TotalErrors),
	)
	return nil
}

// parsedRow pairs a mapped lead with its source row number.
type parsedRow struct {
	num  int
	lead model.NewLead
}
