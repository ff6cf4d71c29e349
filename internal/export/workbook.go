package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-batches/internal/plan"
)

// AssignmentsSheet is the first sheet of the workbook.
const AssignmentsSheet = "Assignments"

// BuildBatchWorkbook returns an XLSX file with the combined table on the
// first sheet followed by one sheet per batch.
func BuildBatchWorkbook(p *plan.Plan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), AssignmentsSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, AssignmentsSheet, 1, toAny(plan.Header(p.Weeks))); err != nil {
		return nil, err
	}
	for i, r := range p.Rows {
		if err := writeRow(f, AssignmentsSheet, i+2, toAny(r.Cells())); err != nil {
			return nil, err
		}
	}

	for _, b := range p.Batches {
		sheet := BatchSheetName(b)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", sheet, err)
		}
		if err := writeRow(f, sheet, 1, toAny(BatchHeader)); err != nil {
			return nil, err
		}
		for i, s := range b.Students {
			// scores stay numeric so spreadsheets can sort and chart them
			if err := writeRow(f, sheet, i+2, []any{s.Name, s.Score, s.Tier.String()}); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
