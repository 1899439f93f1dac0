package importer

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ImportXLSX parses workbook bytes and creates a lead per valid row of the
// first sheet. The first row must be the header.
func (imp *Importer) ImportXLSX(ctx context.Context, data []byte) (*Result, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: xlsx has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("importer: xlsx sheet is empty")
	}

	cols, err := mapHeader(rowToStrings(sheet.Rows[0]))
	if err != nil {
		return nil, err
	}

	result := &Result{Source: "xlsx"}
	var rows []parsedRow
	for i, row := range sheet.Rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "importer: xlsx import cancelled")
		}

		cells := rowToStrings(row)
		if emptyRow(cells) {
			continue
		}

		rowNum := i + 2
		result.Total++
		lead, err := leadFromRow(cols, cells)
		if err != nil {
			result.addError(rowNum, err.Error())
			continue
		}
		rows = append(rows, parsedRow{num: rowNum, lead: lead})
	}

	if err := imp.createAll(ctx, "xlsx", rows, result); err != nil {
		return nil, err
	}
	return result, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
