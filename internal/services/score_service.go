package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/dataprocessing"
	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/exporter"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/infrastructure"
	api "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/api/v1"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/events"
)

// Operation names reported in metrics, logs and events.
const (
	OperationAnalyze = "analyze"
	OperationColumns = "columns"
	OperationSummary = "summary"
	OperationShots   = "shots"
	OperationTarget  = "target"
	OperationExport  = "export"
)

// EventPublisher delivers analysis events to connected front ends.
type EventPublisher interface {
	Publish(ctx context.Context, frame *events.Frame) error
}

// ScoreService runs the score use cases over uploaded file bytes. It keeps
// no state between calls.
type ScoreService struct {
	analyzer  *dataprocessing.Analyzer
	exporter  *exporter.SummaryExporter
	metrics   *infrastructure.BusinessMetrics
	publisher EventPublisher
	logger    *slog.Logger
}

// NewScoreService creates a score service. metrics and publisher may be nil.
func NewScoreService(analyzer *dataprocessing.Analyzer, metrics *infrastructure.BusinessMetrics, publisher EventPublisher, logger *slog.Logger) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NoopBusinessMetrics()
	}
	return &ScoreService{
		analyzer:  analyzer,
		exporter:  exporter.NewSummaryExporter(logger),
		metrics:   metrics,
		publisher: publisher,
		logger:    logger.With(slog.String("service", "score")),
	}
}

// outcome collects what a finished operation reports.
type outcome struct {
	operation string
	bytes     int
	loaded    *dataprocessing.LoadedTable
	rows      int
	groups    int
	parsed    int
	skipped   int
	warnings  []domain.Warning
}

// Analyze runs the full analysis contract on one upload.
func (s *ScoreService) Analyze(ctx context.Context, data []byte, req api.AnalyzeRequest) (result *domain.Analysis, err error) {
	start := time.Now()
	out := outcome{operation: OperationAnalyze, bytes: len(data)}
	defer func() { s.finish(ctx, start, data, &out, err) }()

	delim, err := optionalDelimiter(req.Delimiter)
	if err != nil {
		return nil, err
	}

	result, err = s.analyzer.Analyze(ctx, dataprocessing.AnalyzeRequest{
		Data:        data,
		Delimiter:   delim,
		IDColumn:    req.IDColumn,
		ScoreColumn: req.ScoreColumn,
		SampleSize:  req.SampleSize,
	})
	if err != nil {
		return nil, err
	}

	out.loaded = &dataprocessing.LoadedTable{Source: result.Source, Fingerprint: result.Fingerprint}
	out.rows = result.RowCount
	out.groups = len(result.Summary.Rows)
	out.parsed = result.Summary.ParsedRows
	out.skipped = result.Summary.SkippedRows
	out.warnings = result.Warnings
	return result, nil
}

// Columns describes an upload: headers, advisor suggestions, SIUS field
// matches and the relays and start numbers available for filtering.
func (s *ScoreService) Columns(ctx context.Context, data []byte, req api.ColumnsRequest) (resp *api.ColumnsResponse, err error) {
	start := time.Now()
	out := outcome{operation: OperationColumns, bytes: len(data)}
	defer func() { s.finish(ctx, start, data, &out, err) }()

	loaded, err := s.load(ctx, data, req.Delimiter)
	if err != nil {
		return nil, err
	}
	out.loaded = loaded
	out.rows = len(loaded.Table.Rows)
	out.warnings = loaded.Warnings

	table := loaded.Table
	choice := dataprocessing.SuggestTableColumns(table)
	fields := dataprocessing.SuggestFields(table.Headers)
	cols := dataprocessing.ResolveSIUSColumns(table.Headers)

	sample := table.Rows
	if n := dataprocessing.DefaultSampleSize; len(sample) > n {
		sample = sample[:n]
	}

	return &api.ColumnsResponse{
		Headers:              table.Headers,
		SampleRows:           sample,
		HasHeader:            table.HasHeader,
		Delimiter:            delimiterText(table.Delimiter),
		Source:               loaded.Source,
		RowCount:             len(table.Rows),
		SuggestedIDColumn:    choice.IDColumn,
		SuggestedScoreColumn: choice.ScoreColumn,
		Fields: api.FieldSuggestions{
			StartNr:   fields.StartNr,
			Primary:   fields.Primary,
			Secondary: fields.Secondary,
		},
		Relays:      dataprocessing.UniqueValues(table, cols.Relay),
		StartNrs:    dataprocessing.UniqueValues(table, cols.StartNr),
		Warnings:    loaded.Warnings,
		Fingerprint: loaded.Fingerprint,
	}, nil
}

// Summary aggregates the filtered rows of an upload, either per ID column
// (basic) or as the SIUS decimal/integer summary.
func (s *ScoreService) Summary(ctx context.Context, data []byte, req api.SummaryRequest) (resp *api.SummaryResponse, err error) {
	start := time.Now()
	out := outcome{operation: OperationSummary, bytes: len(data)}
	defer func() { s.finish(ctx, start, data, &out, err) }()

	resp, _, err = s.summarize(ctx, data, req, &out)
	return resp, err
}

func (s *ScoreService) summarize(ctx context.Context, data []byte, req api.SummaryRequest, out *outcome) (*api.SummaryResponse, *dataprocessing.LoadedTable, error) {
	loaded, err := s.load(ctx, data, req.Delimiter)
	if err != nil {
		return nil, nil, err
	}
	out.loaded = loaded
	out.rows = len(loaded.Table.Rows)

	table := loaded.Table
	cols := siusColumns(table, req.SIUSColumnsRequest)
	filtered := rowFilter(req.FilterRequest).Apply(table, cols)

	resp := &api.SummaryResponse{
		Mode:        req.Mode,
		Fingerprint: loaded.Fingerprint,
		Warnings:    loaded.Warnings,
	}
	if resp.Mode == "" {
		resp.Mode = api.ModeBasic
	}

	summarizer := s.analyzer.Summarizer()
	switch resp.Mode {
	case api.ModeSIUS:
		rows, err := summarizer.SummarizeDecimalInteger(ctx, filtered, cols)
		if err != nil {
			return nil, nil, err
		}
		resp.SIUSRows = rows
		resp.ParsedRows = len(filtered.Rows)
		out.groups = len(rows)

	default:
		choice := dataprocessing.SuggestTableColumns(filtered)
		if req.IDColumn != nil {
			choice.IDColumn = *req.IDColumn
		}
		if req.ScoreColumn != nil {
			choice.ScoreColumn = *req.ScoreColumn
		}
		summary, err := summarizer.Summarize(ctx, filtered, choice)
		if err != nil {
			return nil, nil, err
		}
		resp.Rows = summary.Rows
		resp.ParsedRows = summary.ParsedRows
		resp.SkippedRows = summary.SkippedRows
		resp.BlankIDRows = summary.BlankIDRows
		resp.Warnings = slices.Concat(resp.Warnings, summary.Warnings)
		out.groups = len(summary.Rows)
	}

	out.parsed = resp.ParsedRows
	out.skipped = resp.SkippedRows
	out.warnings = resp.Warnings
	return resp, loaded, nil
}

// Shots lists the shots of one start number, latest first.
func (s *ScoreService) Shots(ctx context.Context, data []byte, req api.ShotsRequest) (resp *api.ShotsResponse, err error) {
	start := time.Now()
	out := outcome{operation: OperationShots, bytes: len(data)}
	defer func() { s.finish(ctx, start, data, &out, err) }()

	table, cols, err := s.filtered(ctx, data, req, &out)
	if err != nil {
		return nil, err
	}

	shots := dataprocessing.ShotsFor(table, cols, req.StartNr)
	out.parsed = len(shots)
	return &api.ShotsResponse{StartNr: req.StartNr, Shots: shots}, nil
}

// Target returns the shot coordinates of one start number.
func (s *ScoreService) Target(ctx context.Context, data []byte, req api.ShotsRequest) (resp *api.TargetResponse, err error) {
	start := time.Now()
	out := outcome{operation: OperationTarget, bytes: len(data)}
	defer func() { s.finish(ctx, start, data, &out, err) }()

	table, cols, err := s.filtered(ctx, data, req, &out)
	if err != nil {
		return nil, err
	}

	points, err := dataprocessing.TargetData(table, cols, req.StartNr)
	if err != nil {
		return nil, err
	}
	out.parsed = len(points)
	return &api.TargetResponse{StartNr: req.StartNr, Points: points}, nil
}

func (s *ScoreService) filtered(ctx context.Context, data []byte, req api.ShotsRequest, out *outcome) (*domain.RawTable, dataprocessing.SIUSColumns, error) {
	loaded, err := s.load(ctx, data, req.Delimiter)
	if err != nil {
		return nil, dataprocessing.SIUSColumns{}, err
	}
	out.loaded = loaded
	out.rows = len(loaded.Table.Rows)
	out.warnings = loaded.Warnings

	cols := siusColumns(loaded.Table, req.SIUSColumnsRequest)
	out.groups = 1
	return rowFilter(req.FilterRequest).Apply(loaded.Table, cols), cols, nil
}

// Export writes the summary of an upload to w as delimited text with a BOM.
// The output delimiter defaults to the one the upload was read with.
func (s *ScoreService) Export(ctx context.Context, data []byte, req api.ExportRequest, w io.Writer) (err error) {
	start := time.Now()
	out := outcome{operation: OperationExport, bytes: len(data)}
	defer func() { s.finish(ctx, start, data, &out, err) }()

	outDelim, err := optionalDelimiter(req.OutputDelimiter)
	if err != nil {
		return err
	}

	resp, loaded, err := s.summarize(ctx, data, req.SummaryRequest, &out)
	if err != nil {
		return err
	}

	opts := exporter.Options{Delimiter: ',', BOM: true}
	switch {
	case outDelim != nil:
		opts.Delimiter = *outDelim
	case loaded.Table.Delimiter != 0:
		opts.Delimiter = loaded.Table.Delimiter
	}

	if resp.Mode == api.ModeSIUS {
		err = s.exporter.WriteDecimalInteger(w, resp.SIUSRows, opts)
	} else {
		err = s.exporter.WriteSummary(w, resp.Rows, opts)
	}
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func (s *ScoreService) load(ctx context.Context, data []byte, delimiter string) (*dataprocessing.LoadedTable, error) {
	delim, err := optionalDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Load(ctx, data, delim)
}

// finish records metrics, logs and publishes the event for one operation.
func (s *ScoreService) finish(ctx context.Context, start time.Time, data []byte, out *outcome, err error) {
	duration := time.Since(start)
	codes := warningCodes(out.warnings)

	source := ""
	fingerprint := ""
	if out.loaded != nil {
		source = out.loaded.Source
		fingerprint = out.loaded.Fingerprint
	}
	if fingerprint == "" && len(data) > 0 {
		fingerprint = dataprocessing.Fingerprint(data)
	}

	infrastructure.RecordAnalysisMetrics(ctx, s.metrics, infrastructure.AnalysisOutcome{
		Source:      source,
		Bytes:       out.bytes,
		ParsedRows:  out.parsed,
		SkippedRows: out.skipped,
		Warnings:    codes,
		Duration:    duration,
		Err:         err,
	})

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"score.operation":   out.operation,
		"score.fingerprint": fingerprint,
		"score.groups":      out.groups,
	})

	var (
		msgType events.MessageType
		payload interface{}
	)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Score operation failed",
			slog.String("operation", out.operation),
			slog.String("fingerprint", fingerprint),
			slog.String("error", err.Error()))
		msgType = events.MessageTypeAnalysisFailed
		payload = events.AnalysisFailed{
			Fingerprint: fingerprint,
			Operation:   out.operation,
			ErrorType:   errorType(err),
			Message:     err.Error(),
		}
	} else {
		s.logger.InfoContext(ctx, "Score operation completed",
			slog.String("operation", out.operation),
			slog.String("fingerprint", fingerprint),
			slog.Int("groups", out.groups),
			slog.Duration("duration", duration))
		msgType = events.MessageTypeAnalysisCompleted
		payload = events.AnalysisCompleted{
			Fingerprint: fingerprint,
			Operation:   out.operation,
			Source:      source,
			Rows:        out.rows,
			Groups:      out.groups,
			ParsedRows:  out.parsed,
			SkippedRows: out.skipped,
			Warnings:    codes,
			DurationMS:  duration.Milliseconds(),
		}
	}

	if s.publisher == nil {
		return
	}
	frame, ferr := events.NewFrame(msgType, payload, infrastructure.GetTraceID(ctx))
	if ferr != nil {
		s.logger.ErrorContext(ctx, "Failed to build event frame", slog.String("error", ferr.Error()))
		return
	}
	if perr := s.publisher.Publish(ctx, frame); perr != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			slog.String("type", string(msgType)),
			slog.String("error", perr.Error()))
	}
}

func optionalDelimiter(value string) (*rune, error) {
	if value == "" {
		return nil, nil
	}
	d, err := dataprocessing.ParseDelimiter(value)
	if err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}
	return &d, nil
}

func siusColumns(table *domain.RawTable, req api.SIUSColumnsRequest) dataprocessing.SIUSColumns {
	return dataprocessing.ResolveSIUSColumns(table.Headers).
		WithNamed(table.Headers, req.StartNrColumn, req.PrimaryColumn, req.SecondaryColumn)
}

func rowFilter(req api.FilterRequest) dataprocessing.RowFilter {
	return dataprocessing.RowFilter{
		Relay:           req.Relay,
		StartNrs:        req.StartNrs,
		ExcludedIndices: req.ExcludedIndices,
	}
}

func warningCodes(warnings []domain.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, string(w.Code))
	}
	return codes
}

func errorType(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Type)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "TIMEOUT"
	}
	return "INTERNAL"
}

func delimiterText(d rune) string {
	if d == 0 {
		return ""
	}
	return string(d)
}
