// Package domain defines the score tables, column choices and summary rows
// shared by the parser, the summarizer and the API contracts.
package domain

import "fmt"

// RawTable is a parsed score export. Rows may be ragged; a missing cell reads
// as the empty string through Cell.
type RawTable struct {
	// Headers holds one name per column, either read from the file or
	// synthesized ("Column 1", ...) when the first row carried data.
	Headers []string `json:"headers"`

	// Rows holds the data rows only; the header row is never included.
	Rows [][]string `json:"rows"`

	HasHeader bool `json:"has_header"`
	Delimiter rune `json:"-"`
}

// Width returns the widest of the header and every data row.
func (t *RawTable) Width() int {
	if t == nil {
		return 0
	}
	width := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the cell at (row, col), or "" when the row is short.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ColumnIndex returns the index of the header equal to name, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// ColumnChoice selects the ID column and the score column of a RawTable.
type ColumnChoice struct {
	IDColumn    int `json:"id_column" validate:"min=0"`
	ScoreColumn int `json:"score_column" validate:"min=0"`
}

// Validate reports whether both indices fall inside a table of the given width.
func (c ColumnChoice) Validate(width int) error {
	if c.IDColumn < 0 || c.IDColumn >= width {
		return fmt.Errorf("id column %d out of range [0,%d)", c.IDColumn, width)
	}
	if c.ScoreColumn < 0 || c.ScoreColumn >= width {
		return fmt.Errorf("score column %d out of range [0,%d)", c.ScoreColumn, width)
	}
	return nil
}

// SummaryRow is the aggregate for one competitor ID.
//
// Count only includes rows whose score parsed; Skipped counts the rows of this
// ID whose score did not. A group where nothing parsed reports zeros.
type SummaryRow struct {
	ID      string  `json:"id" csv:"ID" validate:"required"`
	Count   int     `json:"count" csv:"Count" validate:"min=0"`
	Sum     float64 `json:"sum" csv:"Sum"`
	Mean    float64 `json:"mean" csv:"Mean"`
	Min     float64 `json:"min" csv:"Min"`
	Max     float64 `json:"max" csv:"Max"`
	Median  float64 `json:"median" csv:"Median"`
	StdDev  float64 `json:"std_dev" csv:"StdDev"`
	Skipped int     `json:"skipped" csv:"Skipped" validate:"min=0"`
}

// SummaryTable is the ordered per-ID result of an aggregation. Every data
// row lands in exactly one of ParsedRows, SkippedRows (score did not parse)
// and BlankIDRows (no ID, so no group).
type SummaryTable struct {
	Rows        []SummaryRow `json:"rows"`
	ParsedRows  int          `json:"parsed_rows"`
	SkippedRows int          `json:"skipped_rows"`
	BlankIDRows int          `json:"blank_id_rows"`
	Warnings    []Warning    `json:"warnings,omitempty"`
}

// TotalCount sums Count over all rows.
func (s *SummaryTable) TotalCount() int {
	total := 0
	for _, r := range s.Rows {
		total += r.Count
	}
	return total
}

// WarningCode identifies a non-fatal condition found while analysing a file.
type WarningCode string

const (
	WarningNoUsableDelimiter  WarningCode = "NO_USABLE_DELIMITER"
	WarningAllRowsUnparseable WarningCode = "ALL_ROWS_UNPARSEABLE"
)

// Warning is surfaced to the caller alongside a successful result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// DecimalIntegerRow is the SIUS per-start-number summary of decimal and
// integer shot values. Count is every row of the start number; sums and
// means are nil when no row yielded that kind of value.
type DecimalIntegerRow struct {
	ID          string   `json:"id" csv:"id"`
	Count       int      `json:"count" csv:"count"`
	DecimalSum  *float64 `json:"decimal_sum" csv:"Decimal score_sum"`
	DecimalMean *float64 `json:"decimal_mean" csv:"Decimal score_mean"`
	IntegerSum  *float64 `json:"integer_sum" csv:"Integer score_sum"`
	IntegerMean *float64 `json:"integer_mean" csv:"Integer score_mean"`
}

// Shot is a single shot row of one start number. Index points into the
// rows the listing was computed from.
type Shot struct {
	Index     int      `json:"index"`
	Time      string   `json:"time"`
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary"`
	Decimal   *float64 `json:"decimal"`
	Integer   *float64 `json:"integer"`
}

// TargetPoint is a shot position for target plots.
type TargetPoint struct {
	ShotNum      int      `json:"shot_num"`
	X            *float64 `json:"x"`
	Y            *float64 `json:"y"`
	DecimalScore *float64 `json:"decimal_score"`
}

// Analysis is the result handed to front ends for one uploaded file.
type Analysis struct {
	Headers              []string      `json:"headers"`
	SampleRows           [][]string    `json:"sample_rows"`
	SuggestedIDColumn    int           `json:"suggested_id_column"`
	SuggestedScoreColumn int           `json:"suggested_score_column"`
	IDColumn             int           `json:"id_column"`
	ScoreColumn          int           `json:"score_column"`
	Summary              *SummaryTable `json:"summary"`
	Delimiter            string        `json:"delimiter"`
	Source               string        `json:"source"`
	HasHeader            bool          `json:"has_header"`
	RowCount             int           `json:"row_count"`
	Warnings             []Warning     `json:"warnings,omitempty"`
	Fingerprint          string        `json:"fingerprint"`
}

// SourceText is the Source of an Analysis read from delimited text.
const SourceText = "text"
