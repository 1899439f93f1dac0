package importer

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// ImportCSV reads header-mapped CSV data from r and creates a lead per
// valid row. Invalid rows are collected on the Result, not fatal.
func (imp *Importer) ImportCSV(ctx context.Context, r io.Reader) (*Result, error) {
	result := &Result{Source: "csv"}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("importer: csv is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv header")
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []parsedRow
	for rowNum := 2; ; rowNum++ {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "importer: csv import cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "importer: read csv row")
		}

		result.Total++
		lead, err := leadFromRow(cols, record)
		if err != nil {
			result.addError(rowNum, err.Error())
			continue
		}
		rows = append(rows, parsedRow{num: rowNum, lead: lead})
	}

	if err := imp.createAll(ctx, "csv", rows, result); err != nil {
		return nil, err
	}
	return result, nil
}
