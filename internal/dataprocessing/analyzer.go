package dataprocessing

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/blake2b"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

const tracerName = "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/dataprocessing"

// advisorSampleRows is how many data rows the column advisor inspects.
const advisorSampleRows = 50

// AnalyzerConfig holds configuration for the analyzer
type AnalyzerConfig struct {
	SniffLines int
	SampleSize int
	// FieldNames names columns of headerless exports.
	FieldNames []string
	Summarizer SummarizerConfig
}

// DefaultAnalyzerConfig returns the default analyzer configuration
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SniffLines: DefaultSniffLines,
		SampleSize: DefaultSampleSize,
		Summarizer: DefaultSummarizerConfig(),
	}
}

// AnalyzeRequest carries one file and the caller's optional overrides.
type AnalyzeRequest struct {
	Data        []byte
	Delimiter   *rune
	IDColumn    *int
	ScoreColumn *int
	// SampleSize overrides the number of preview rows when positive.
	SampleSize int
}

// LoadedTable is a decoded and parsed file plus what was learned on the way.
type LoadedTable struct {
	Table       *domain.RawTable
	Source      string
	Warnings    []domain.Warning
	Fingerprint string
}

// Analyzer runs the full ingest and aggregation pipeline.
type Analyzer struct {
	logger     *slog.Logger
	config     AnalyzerConfig
	summarizer *Summarizer
}

// NewAnalyzer creates a new analyzer instance
func NewAnalyzer(logger *slog.Logger, config AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SniffLines <= 0 {
		config.SniffLines = DefaultSniffLines
	}
	if config.SampleSize <= 0 {
		config.SampleSize = DefaultSampleSize
	}
	return &Analyzer{
		logger:     logger.With(slog.String("component", "analyzer")),
		config:     config,
		summarizer: NewSummarizer(logger, config.Summarizer),
	}
}

// Summarizer returns the summarizer the analyzer aggregates with.
func (a *Analyzer) Summarizer() *Summarizer {
	return a.summarizer
}

// Fingerprint returns the hex BLAKE2b-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load decodes data and parses it into a table. The delimiter is sniffed
// unless one is given.
func (a *Analyzer) Load(ctx context.Context, data []byte, delimiter *rune) (*LoadedTable, error) {
	loaded := &LoadedTable{Fingerprint: Fingerprint(data)}
	opts := ParseOptions{FieldNames: a.config.FieldNames}

	text, err := DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	var delim rune
	if delimiter != nil {
		delim = *delimiter
	} else {
		sniffed := SniffDelimiterLines(text, a.config.SniffLines)
		delim = sniffed.Delimiter
		if !sniffed.Consistent {
			loaded.Warnings = append(loaded.Warnings, domain.Warning{
				Code:    domain.WarningNoUsableDelimiter,
				Message: "no delimiter split the file into several columns; reading it as a single column",
			})
			a.logger.WarnContext(ctx, "No usable delimiter found",
				slog.String("fingerprint", loaded.Fingerprint))
		}
	}

	table, err := ParseTable(text, delim, opts)
	if err != nil {
		return nil, err
	}
	loaded.Table = table
	loaded.Source = domain.SourceText
	return loaded, nil
}

// Analyze is the entry point front ends call with raw file bytes. Column
// overrides replace the advisor's suggestions for the summary; the
// suggestions are still reported.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*domain.Analysis, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dataprocessing.Analyze")
	defer span.End()
	start := time.Now()

	loaded, err := a.Load(ctx, req.Data, req.Delimiter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	table := loaded.Table

	sampleSize := a.config.SampleSize
	if req.SampleSize > 0 {
		sampleSize = req.SampleSize
	}

	suggested := SuggestTableColumns(table)
	choice := suggested
	if req.IDColumn != nil {
		choice.IDColumn = *req.IDColumn
	}
	if req.ScoreColumn != nil {
		choice.ScoreColumn = *req.ScoreColumn
	}

	summary, err := a.summarizer.Summarize(ctx, table, choice)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &domain.Analysis{
		Headers:              table.Headers,
		SampleRows:           headRows(table.Rows, sampleSize),
		SuggestedIDColumn:    suggested.IDColumn,
		SuggestedScoreColumn: suggested.ScoreColumn,
		IDColumn:             choice.IDColumn,
		ScoreColumn:          choice.ScoreColumn,
		Summary:              summary,
		Delimiter:            delimiterString(table.Delimiter),
		Source:               loaded.Source,
		HasHeader:            table.HasHeader,
		RowCount:             len(table.Rows),
		Warnings:             slices.Concat(loaded.Warnings, summary.Warnings),
		Fingerprint:          loaded.Fingerprint,
	}

	span.SetAttributes(
		attribute.String("scores.fingerprint", loaded.Fingerprint),
		attribute.Int("scores.rows", result.RowCount),
		attribute.Int("scores.groups", len(summary.Rows)),
	)
	a.logger.InfoContext(ctx, "File analyzed",
		slog.String("fingerprint", loaded.Fingerprint),
		slog.String("delimiter", result.Delimiter),
		slog.Int("rows", result.RowCount),
		slog.Int("groups", len(summary.Rows)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// SuggestTableColumns runs the column advisor over the leading rows of
// table.
func SuggestTableColumns(table *domain.RawTable) domain.ColumnChoice {
	return SuggestColumns(table.Headers, headRows(table.Rows, advisorSampleRows))
}

func headRows(rows [][]string, n int) [][]string {
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}

func delimiterString(d rune) string {
	if d == 0 {
		return ""
	}
	return string(d)
}
