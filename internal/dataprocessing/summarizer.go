package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

// DefaultPrecision is the number of decimals kept in sums and spread stats.
const DefaultPrecision = 4

// SummarizerConfig holds configuration for the summarizer
type SummarizerConfig struct {
	// Precision is the number of decimals sums and spread stats are rounded to.
	Precision int
}

// DefaultSummarizerConfig returns the default summarizer configuration
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{Precision: DefaultPrecision}
}

// Summarizer groups score rows by competitor ID.
type Summarizer struct {
	logger *slog.Logger
	config SummarizerConfig
}

// NewSummarizer creates a new summarizer instance
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		config: config,
	}
}

type scoreGroup struct {
	id      string
	values  []float64
	sum     float64
	skipped int
}

// Summarize aggregates table by choice.IDColumn, summing choice.ScoreColumn.
//
// Rows whose score does not parse are counted as skipped for their ID and
// left out of the sums. An ID whose rows all failed keeps a row with zero
// count and zero mean. Rows with a blank ID belong to no group and are
// counted in BlankIDRows whatever their score. When nothing parsed at all
// the result carries an AllRowsUnparseable warning.
func (s *Summarizer) Summarize(ctx context.Context, table *domain.RawTable, choice domain.ColumnChoice) (*domain.SummaryTable, error) {
	width := table.Width()
	if err := choice.Validate(width); err != nil {
		return nil, apperrors.NewInvalidColumnChoiceError(choice.IDColumn, choice.ScoreColumn, width, err)
	}

	start := time.Now()
	s.logger.DebugContext(ctx, "Summarizing score table",
		slog.Int("rows", len(table.Rows)),
		slog.Int("id_column", choice.IDColumn),
		slog.Int("score_column", choice.ScoreColumn))

	groups := make(map[string]*scoreGroup)
	result := &domain.SummaryTable{Rows: []domain.SummaryRow{}}
	withID := 0

	for i := range table.Rows {
		id := table.Cell(i, choice.IDColumn)
		if id == "" {
			result.BlankIDRows++
			continue
		}
		withID++

		g, ok := groups[id]
		if !ok {
			g = &scoreGroup{id: id}
			groups[id] = g
		}

		v, ok := ParseScore(table.Cell(i, choice.ScoreColumn))
		if !ok {
			g.skipped++
			result.SkippedRows++
			continue
		}
		g.values = append(g.values, v)
		g.sum += v
		result.ParsedRows++
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return compareIDs(ids[i], ids[j]) < 0 })

	for _, id := range ids {
		result.Rows = append(result.Rows, s.summarizeGroup(groups[id]))
	}

	if withID > 0 && result.ParsedRows == 0 {
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:    domain.WarningAllRowsUnparseable,
			Message: "no score cell in the selected column could be read as a number",
		})
		s.logger.WarnContext(ctx, "No score cell parsed",
			slog.Int("rows", withID),
			slog.Int("score_column", choice.ScoreColumn))
	}

	s.logger.InfoContext(ctx, "Summary generated",
		slog.Int("groups", len(result.Rows)),
		slog.Int("parsed_rows", result.ParsedRows),
		slog.Int("skipped_rows", result.SkippedRows),
		slog.Int("blank_id_rows", result.BlankIDRows),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (s *Summarizer) summarizeGroup(g *scoreGroup) domain.SummaryRow {
	row := domain.SummaryRow{ID: g.id, Count: len(g.values), Skipped: g.skipped}
	if row.Count == 0 {
		return row
	}

	p := s.config.Precision
	// Mean is derived from the rounded sum and left unrounded so that
	// Count*Mean reproduces Sum.
	row.Sum = round(g.sum, p)
	row.Mean = row.Sum / float64(row.Count)

	// stats only errors on empty input, which is ruled out above.
	lo, _ := stats.Min(g.values)
	hi, _ := stats.Max(g.values)
	median, _ := stats.Median(g.values)
	stddev, _ := stats.StandardDeviationPopulation(g.values)

	row.Min = round(lo, p)
	row.Max = round(hi, p)
	row.Median = round(median, p)
	row.StdDev = round(stddev, p)
	return row
}
