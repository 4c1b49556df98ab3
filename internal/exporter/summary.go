package exporter

import (
	"io"
	"log/slog"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// Column headings of the exported summaries.
var (
	summaryHeaders = []string{"ID", "Count", "Sum", "Mean", "Min", "Max", "Median", "StdDev", "Skipped"}

	decimalIntegerHeaders = []string{
		"id", "count",
		"Decimal score_sum", "Decimal score_mean",
		"Integer score_sum", "Integer score_mean",
	}
)

// Options controls the shape of an exported summary.
type Options struct {
	Delimiter rune
	BOM       bool
}

// SummaryExporter renders aggregation results as delimited text.
type SummaryExporter struct {
	csvWriter *CSVWriter
}

// NewSummaryExporter creates a new summary exporter
func NewSummaryExporter(logger *slog.Logger) *SummaryExporter {
	return &SummaryExporter{csvWriter: NewCSVWriter(logger)}
}

// WriteSummary writes per-ID summary rows to w in the order given.
func (e *SummaryExporter) WriteSummary(w io.Writer, rows []domain.SummaryRow, opts Options) error {
	return e.csvWriter.Write(w, writeOptions(summaryHeaders, SummaryRecords(rows), opts))
}

// WriteDecimalInteger writes SIUS decimal/integer rows to w.
func (e *SummaryExporter) WriteDecimalInteger(w io.Writer, rows []domain.DecimalIntegerRow, opts Options) error {
	return e.csvWriter.Write(w, writeOptions(decimalIntegerHeaders, DecimalIntegerRecords(rows), opts))
}

// WriteSummaryFile is WriteSummary to a file path.
func (e *SummaryExporter) WriteSummaryFile(path string, rows []domain.SummaryRow, opts Options) error {
	return e.csvWriter.WriteFile(path, writeOptions(summaryHeaders, SummaryRecords(rows), opts))
}

// WriteDecimalIntegerFile is WriteDecimalInteger to a file path.
func (e *SummaryExporter) WriteDecimalIntegerFile(path string, rows []domain.DecimalIntegerRow, opts Options) error {
	return e.csvWriter.WriteFile(path, writeOptions(decimalIntegerHeaders, DecimalIntegerRecords(rows), opts))
}

func writeOptions(headers []string, records [][]string, opts Options) WriteOptions {
	return WriteOptions{
		Headers:   headers,
		Records:   records,
		Delimiter: opts.Delimiter,
		BOMPrefix: opts.BOM,
	}
}

// SummaryRecords converts summary rows to CSV records
func SummaryRecords(rows []domain.SummaryRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.ID,
			formatInt(r.Count),
			formatFloat(r.Sum),
			formatFloat(r.Mean),
			formatFloat(r.Min),
			formatFloat(r.Max),
			formatFloat(r.Median),
			formatFloat(r.StdDev),
			formatInt(r.Skipped),
		})
	}
	return records
}

// DecimalIntegerRecords converts SIUS rows to CSV records. Missing sums
// and means are written as empty cells.
func DecimalIntegerRecords(rows []domain.DecimalIntegerRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.ID,
			formatInt(r.Count),
			formatOptional(r.DecimalSum),
			formatOptional(r.DecimalMean),
			formatOptional(r.IntegerSum),
			formatOptional(r.IntegerMean),
		})
	}
	return records
}
