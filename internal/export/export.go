// Package export renders a plan as the combined assignment table and the
// per-batch files handed out to instructors.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mind-engage/mindengage-batches/internal/plan"
	"github.com/mind-engage/mindengage-batches/internal/roster"
)

// BatchHeader is the column set of every per-batch file.
var BatchHeader = []string{"name", "score", "category"}

// BatchSheetName is "Batch_<n>"; it names workbook sheets and, with a
// .csv suffix, archive entries.
func BatchSheetName(b plan.Batch) string { return fmt.Sprintf("Batch_%d", b.ID) }

// BatchFileName is the archive entry name for a batch.
func BatchFileName(b plan.Batch) string { return BatchSheetName(b) + ".csv" }

// FormatScore prints the percentage with the shortest exact representation.
func FormatScore(p float64) string { return strconv.FormatFloat(p, 'f', -1, 64) }

// WriteAssignmentsCSV writes the "Name, Batch, Week N Topic" table.
func WriteAssignmentsCSV(w io.Writer, p *plan.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(plan.Header(p.Weeks)); err != nil {
		return err
	}
	for _, r := range p.Rows {
		if err := cw.Write(r.Cells()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteBatchCSV(w io.Writer, b plan.Batch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BatchHeader); err != nil {
		return err
	}
	for _, s := range b.Students {
		if err := cw.Write(batchCells(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildBatchArchive zips one Batch_<n>.csv per batch, in batch order.
func BuildBatchArchive(batches []plan.Batch) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, b := range batches {
		w, err := zw.Create(BatchFileName(b))
		if err != nil {
			return nil, err
		}
		if err := WriteBatchCSV(w, b); err != nil {
			return nil, fmt.Errorf("write %s: %w", BatchFileName(b), err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func batchCells(s roster.StudentRecord) []string {
	return []string{s.Name, FormatScore(s.Score), s.Tier.String()}
}
