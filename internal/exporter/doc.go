// Package exporter writes score summaries as flat delimited text.
//
// CSVWriter is the low level writer: it takes headers and records and
// writes them with a chosen delimiter and an optional UTF-8 BOM so that
// spreadsheet applications detect the encoding.
//
// SummaryExporter turns aggregation results into records:
//
//	exp := exporter.NewSummaryExporter(logger)
//	err := exp.WriteSummary(w, summary.Rows, exporter.Options{Delimiter: ';', BOM: true})
//
// Nothing in this package keeps state between calls.
package exporter
