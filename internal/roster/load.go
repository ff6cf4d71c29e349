package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	columnName  = "name"
	columnScore = "score"
)

// FileReport summarises what happened to one input file.
type FileReport struct {
	Name     string `json:"name"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Err      error  `json:"-"`
}

// Report is the outcome of loading a set of roster files. Records from
// all accepted files are concatenated in input order.
type Report struct {
	Records   []StudentRecord
	Files     []FileReport
	RowErrors []*ParseError
	Warnings  []DataQualityWarning
}

// RejectedFiles lists the files that were discarded as a whole.
func (r *Report) RejectedFiles() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Err aggregates every file and row error, or returns nil.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, f := range r.Files {
		if f.Err != nil {
			merr = multierror.Append(merr, f.Err)
		}
	}
	for _, e := range r.RowErrors {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// Load parses every source independently. A file that cannot be read or
// lacks a required column is skipped; a malformed row only drops that row.
func Load(sources []Source) *Report {
	rep := &Report{}
	for _, src := range sources {
		fr := FileReport{Name: src.Name}
		records, rowErrs, warnings, err := LoadFile(src)
		if err != nil {
			fr.Err = err
		} else {
			fr.Accepted = len(records)
			fr.Rejected = len(rowErrs)
			rep.Records = append(rep.Records, records...)
			rep.RowErrors = append(rep.RowErrors, rowErrs...)
			rep.Warnings = append(rep.Warnings, warnings...)
		}
		rep.Files = append(rep.Files, fr)
	}
	return rep
}

// LoadFile parses a single roster. The returned error is non-nil only when
// the file is rejected in its entirety.
func LoadFile(src Source) ([]StudentRecord, []*ParseError, []DataQualityWarning, error) {
	rows, err := readRows(src)
	if err != nil {
		return nil, nil, nil, &ParseError{File: src.Name, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil, nil, &ParseError{File: src.Name, Err: fmt.Errorf("%w: file is empty", ErrMissingColumn)}
	}
	header := rows[0]
	nameCol := findColumn(header, columnName)
	scoreCol := findColumn(header, columnScore)
	var missing []string
	if nameCol < 0 {
		missing = append(missing, columnName)
	}
	if scoreCol < 0 {
		missing = append(missing, columnScore)
	}
	if len(missing) > 0 {
		return nil, nil, nil, &ParseError{
			File: src.Name,
			Err:  fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", ")),
		}
	}

	var (
		records  []StudentRecord
		rowErrs  []*ParseError
		warnings []DataQualityWarning
	)
	for i, row := range rows[1:] {
		rowNum := i + 1
		name := normalizeName(cell(row, nameCol))
		rawScore := cleanCell(cell(row, scoreCol))
		if name == "" && rawScore == "" {
			continue
		}
		if name == "" {
			rowErrs = append(rowErrs, &ParseError{File: src.Name, Row: rowNum, Column: columnName, Err: ErrMissingValue})
			continue
		}
		if rawScore == "" {
			rowErrs = append(rowErrs, &ParseError{File: src.Name, Row: rowNum, Column: columnScore, Err: ErrMissingValue})
			continue
		}
		pct, err := ParseScore(rawScore)
		if err != nil {
			rowErrs = append(rowErrs, &ParseError{File: src.Name, Row: rowNum, Column: columnScore, Raw: rawScore, Err: err})
			continue
		}
		if !InRange(pct) {
			warnings = append(warnings, DataQualityWarning{File: src.Name, Row: rowNum, Name: name, Score: pct})
		}
		records = append(records, StudentRecord{
			Name:   name,
			Score:  pct,
			Tier:   Categorize(pct),
			Source: src.Name,
			Row:    rowNum,
		})
	}
	return records, rowErrs, warnings, nil
}

func readRows(src Source) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(src.Name)) {
	case ".xlsx", ".xlsm":
		return readXLSX(src.Data)
	case ".tsv":
		return readDelimited(src.Data, '\t')
	default:
		return readDelimited(src.Data, ',')
	}
}

func readDelimited(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
