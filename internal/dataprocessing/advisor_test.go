package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

func TestSuggestColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		sample  [][]string
		want    domain.ColumnChoice
	}{
		{
			name:    "SIUS headers",
			headers: []string{"Start NR", "Primary score", "Secondary score"},
			sample:  [][]string{{"1", "10.5", "10"}},
			want:    domain.ColumnChoice{IDColumn: 0, ScoreColumn: 1},
		},
		{
			name:    "vocabulary anywhere in the row",
			headers: []string{"Name", "Shooter", "Points"},
			sample:  [][]string{{"Ann", "12", "95"}},
			want:    domain.ColumnChoice{IDColumn: 1, ScoreColumn: 2},
		},
		{
			name:    "start time is not an id",
			headers: []string{"Start time", "Start_No", "Decimal-Score"},
			want:    domain.ColumnChoice{IDColumn: 1, ScoreColumn: 2},
		},
		{
			name:    "content fallback finds integers and decimals",
			headers: []string{"Column 1", "Column 2", "Column 3"},
			sample:  [][]string{{"A", "1", "9.5"}, {"B", "2", "10.1"}},
			want:    domain.ColumnChoice{IDColumn: 1, ScoreColumn: 2},
		},
		{
			name:    "integer score when no column has decimals",
			headers: []string{"C1", "C2", "C3"},
			sample:  [][]string{{"1", "abc", "10"}, {"2", "def", "9"}},
			want:    domain.ColumnChoice{IDColumn: 0, ScoreColumn: 2},
		},
		{
			name:    "named id with content score",
			headers: []string{"Time", "Bib", "Value"},
			sample:  [][]string{{"10:00", "7", "9.5"}},
			want:    domain.ColumnChoice{IDColumn: 1, ScoreColumn: 2},
		},
		{
			name:    "nothing matches",
			headers: []string{"A", "B"},
			sample:  [][]string{{"x", "y"}},
			want:    domain.ColumnChoice{IDColumn: 0, ScoreColumn: 1},
		},
		{
			name:    "single column",
			headers: []string{"Score"},
			sample:  [][]string{{"x"}},
			want:    domain.ColumnChoice{IDColumn: 0, ScoreColumn: 0},
		},
		{
			name:    "id found at column 1 with no score",
			headers: []string{"Comment", "ID"},
			sample:  [][]string{{"ok", "4"}},
			want:    domain.ColumnChoice{IDColumn: 1, ScoreColumn: 0},
		},
		{
			name: "no headers at all",
			want: domain.ColumnChoice{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestColumns(tt.headers, tt.sample))
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "startnr", normalizeHeader(" Start_NR "))
	assert.Equal(t, "decimalscore", normalizeHeader("Decimal-Score"))
}
