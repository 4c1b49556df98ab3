package dataprocessing

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/shared/testutil"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

func newTable(rows ...[]string) *domain.RawTable {
	if rows == nil {
		rows = [][]string{}
	}
	return &domain.RawTable{Headers: []string{"ID", "Score"}, HasHeader: true, Rows: rows}
}

var firstTwo = domain.ColumnChoice{IDColumn: 0, ScoreColumn: 1}

func TestNewSummarizer(t *testing.T) {
	tests := []struct {
		name   string
		logger *slog.Logger
		config SummarizerConfig
	}{
		{name: "default config", logger: slog.Default(), config: DefaultSummarizerConfig()},
		{name: "custom precision", logger: slog.Default(), config: SummarizerConfig{Precision: 2}},
		{name: "nil logger uses default", logger: nil, config: DefaultSummarizerConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(tt.logger, tt.config)
			require.NotNil(t, s)
			assert.NotNil(t, s.logger)
			assert.Equal(t, tt.config, s.config)
		})
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	tests := []struct {
		name        string
		table       *domain.RawTable
		wantRows    []domain.SummaryRow
		wantParsed  int
		wantSkipped int
		wantBlank   int
		wantWarning bool
	}{
		{
			name:  "groups by id",
			table: newTable([]string{"1", "10.5"}, []string{"1", "9.0"}, []string{"2", "8.0"}),
			wantRows: []domain.SummaryRow{
				{ID: "1", Count: 2, Sum: 19.5, Mean: 9.75, Min: 9, Max: 10.5, Median: 9.75, StdDev: 0.75},
				{ID: "2", Count: 1, Sum: 8, Mean: 8, Min: 8, Max: 8, Median: 8},
			},
			wantParsed: 3,
		},
		{
			name:  "unparseable cells are skipped per row",
			table: newTable([]string{"1", "n/a"}, []string{"1", ""}, []string{"1", "5"}),
			wantRows: []domain.SummaryRow{
				{ID: "1", Count: 1, Sum: 5, Mean: 5, Min: 5, Max: 5, Median: 5, Skipped: 2},
			},
			wantParsed:  1,
			wantSkipped: 2,
		},
		{
			name:  "comma decimals and short rows",
			table: newTable([]string{"7", "9,5"}, []string{"7"}),
			wantRows: []domain.SummaryRow{
				{ID: "7", Count: 1, Sum: 9.5, Mean: 9.5, Min: 9.5, Max: 9.5, Median: 9.5, Skipped: 1},
			},
			wantParsed:  1,
			wantSkipped: 1,
		},
		{
			name:  "all rows unparseable keeps zero groups",
			table: newTable([]string{"1", "x"}, []string{"2", "y"}),
			wantRows: []domain.SummaryRow{
				{ID: "1", Skipped: 1},
				{ID: "2", Skipped: 1},
			},
			wantSkipped: 2,
			wantWarning: true,
		},
		{
			name:     "header only",
			table:    newTable(),
			wantRows: []domain.SummaryRow{},
		},
		{
			name:  "blank ids belong to no group",
			table: newTable([]string{"", "5"}, []string{"", "x"}, []string{"1", "2"}),
			wantRows: []domain.SummaryRow{
				{ID: "1", Count: 1, Sum: 2, Mean: 2, Min: 2, Max: 2, Median: 2},
			},
			wantParsed: 1,
			wantBlank:  2,
		},
		{
			name:  "ids are case sensitive",
			table: newTable([]string{"a", "1"}, []string{"A", "2"}),
			wantRows: []domain.SummaryRow{
				{ID: "A", Count: 1, Sum: 2, Mean: 2, Min: 2, Max: 2, Median: 2},
				{ID: "a", Count: 1, Sum: 1, Mean: 1, Min: 1, Max: 1, Median: 1},
			},
			wantParsed: 2,
		},
		{
			name:  "results are rounded",
			table: newTable([]string{"1", "0.1"}, []string{"1", "0.2"}),
			wantRows: []domain.SummaryRow{
				{ID: "1", Count: 2, Sum: 0.3, Mean: 0.15, Min: 0.1, Max: 0.2, Median: 0.15, StdDev: 0.05},
			},
			wantParsed: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			s := NewSummarizer(logger, DefaultSummarizerConfig())

			got, err := s.Summarize(context.Background(), tt.table, firstTwo)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRows, got.Rows)
			assert.Equal(t, tt.wantParsed, got.ParsedRows)
			assert.Equal(t, tt.wantSkipped, got.SkippedRows)
			assert.Equal(t, tt.wantBlank, got.BlankIDRows)
			if tt.wantWarning {
				require.Len(t, got.Warnings, 1)
				assert.Equal(t, domain.WarningAllRowsUnparseable, got.Warnings[0].Code)
				assert.True(t, logs.ContainsMessage("No score cell parsed"))
			} else {
				assert.Empty(t, got.Warnings)
			}
			assert.True(t, logs.ContainsMessage("Summary generated"))
		})
	}
}

func TestSummarizer_Summarize_InvalidColumnChoice(t *testing.T) {
	s := NewSummarizer(nil, DefaultSummarizerConfig())
	table := newTable([]string{"1", "2"})

	for _, choice := range []domain.ColumnChoice{
		{IDColumn: 0, ScoreColumn: 2},
		{IDColumn: -1, ScoreColumn: 1},
		{IDColumn: 5, ScoreColumn: 0},
	} {
		got, err := s.Summarize(context.Background(), table, choice)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, apperrors.IsInvalidColumnChoice(err))
	}
}

func TestSummarizer_Summarize_Ordering(t *testing.T) {
	s := NewSummarizer(nil, DefaultSummarizerConfig())
	table := newTable(
		[]string{"b", "1"}, []string{"10", "1"}, []string{"2", "1"},
		[]string{"a", "1"}, []string{"1.5", "1"}, []string{"02", "1"},
	)

	got, err := s.Summarize(context.Background(), table, firstTwo)
	require.NoError(t, err)

	ids := make([]string, 0, len(got.Rows))
	for _, r := range got.Rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"1.5", "02", "2", "10", "a", "b"}, ids)
}

func TestSummarizer_Summarize_Properties(t *testing.T) {
	s := NewSummarizer(nil, DefaultSummarizerConfig())
	table := newTable(
		[]string{"101", "10.4"}, []string{"101", "9.8"}, []string{"102", "bad"},
		[]string{"102", "8,7"}, []string{"103", "10.9"}, []string{"101", "10.0"},
		[]string{"104", ""}, []string{"103", "7.33333"},
	)

	got, err := s.Summarize(context.Background(), table, firstTwo)
	require.NoError(t, err)

	assert.Equal(t, got.ParsedRows, got.TotalCount())
	assert.Equal(t, len(table.Rows)-got.SkippedRows-got.BlankIDRows, got.ParsedRows)
	for _, r := range got.Rows {
		if r.Count > 0 {
			assert.InDelta(t, r.Sum, float64(r.Count)*r.Mean, 1e-9, "id %s", r.ID)
		}
	}

	again, err := s.Summarize(context.Background(), table, firstTwo)
	require.NoError(t, err)
	first, _ := json.Marshal(got)
	second, _ := json.Marshal(again)
	assert.Equal(t, string(first), string(second))
}

func TestSummarizer_Summarize_LargeGroupSumMatchesMean(t *testing.T) {
	s := NewSummarizer(nil, DefaultSummarizerConfig())

	rows := make([][]string, 0, 3000+1200)
	for i := 0; i < 1000; i++ {
		rows = append(rows, []string{"1", "1"}, []string{"1", "1"}, []string{"1", "2"})
	}
	for i := 0; i < 400; i++ {
		rows = append(rows, []string{"2", "10.4"}, []string{"2", "9,7"}, []string{"2", "7.33333"})
	}
	table := newTable(rows...)

	got, err := s.Summarize(context.Background(), table, firstTwo)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)

	first := got.Rows[0]
	assert.Equal(t, 3000, first.Count)
	assert.Equal(t, 4000.0, first.Sum)
	assert.InDelta(t, 4000.0/3000, first.Mean, 1e-12)

	for _, r := range got.Rows {
		assert.InDelta(t, r.Sum, float64(r.Count)*r.Mean, 1e-9, "id %s", r.ID)
	}
}
