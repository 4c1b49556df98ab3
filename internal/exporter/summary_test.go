package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
)

func f(v float64) *float64 { return &v }

func TestSummaryExporter_WriteSummary(t *testing.T) {
	rows := []domain.SummaryRow{
		{ID: "1", Count: 2, Sum: 19.5, Mean: 9.75, Min: 9, Max: 10.5, Median: 9.75, StdDev: 0.75},
		{ID: "2", Count: 1, Sum: 8, Mean: 8, Min: 8, Max: 8, Median: 8, Skipped: 1},
	}

	var buf bytes.Buffer
	err := NewSummaryExporter(nil).WriteSummary(&buf, rows, Options{Delimiter: ';', BOM: true})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	assert.Equal(t, [][]string{
		{"ID", "Count", "Sum", "Mean", "Min", "Max", "Median", "StdDev", "Skipped"},
		{"1", "2", "19.5", "9.75", "9", "10.5", "9.75", "0.75", "0"},
		{"2", "1", "8", "8", "8", "8", "8", "0", "1"},
	}, readRecords(t, buf.Bytes(), ';'))
}

func TestSummaryExporter_WriteDecimalInteger(t *testing.T) {
	rows := []domain.DecimalIntegerRow{
		{ID: "1", Count: 2, DecimalSum: f(19.5), DecimalMean: f(9.75), IntegerSum: f(19), IntegerMean: f(9.5)},
		{ID: "2", Count: 1},
	}

	var buf bytes.Buffer
	err := NewSummaryExporter(nil).WriteDecimalInteger(&buf, rows, Options{Delimiter: '\t'})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"id", "count", "Decimal score_sum", "Decimal score_mean", "Integer score_sum", "Integer score_mean"},
		{"1", "2", "19.5", "9.75", "19", "9.5"},
		{"2", "1", "", "", "", ""},
	}, readRecords(t, buf.Bytes(), '\t'))
}

func TestSummaryExporter_Files(t *testing.T) {
	dir := t.TempDir()
	exp := NewSummaryExporter(nil)

	basic := filepath.Join(dir, "basic.csv")
	require.NoError(t, exp.WriteSummaryFile(basic, []domain.SummaryRow{{ID: "A", Count: 1, Sum: 1, Mean: 1}}, Options{BOM: true}))

	sius := filepath.Join(dir, "sius.csv")
	require.NoError(t, exp.WriteDecimalIntegerFile(sius, []domain.DecimalIntegerRow{{ID: "A", Count: 3}}, Options{}))

	data, err := os.ReadFile(basic)
	require.NoError(t, err)
	assert.Len(t, readRecords(t, data, ','), 2)

	data, err = os.ReadFile(sius)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "3", "", "", "", ""}, readRecords(t, data, ',')[1])
}

func TestSummaryRecords_Empty(t *testing.T) {
	assert.Empty(t, SummaryRecords(nil))
	assert.Empty(t, DecimalIntegerRecords(nil))
}
