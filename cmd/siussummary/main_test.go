package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/shared/testutil"
	api "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/api/v1"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readSummary(t *testing.T, path string, comma rune) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "summary starts with a BOM")

	r := csv.NewReader(bytes.NewReader(data[3:]))
	r.Comma = comma
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, opts *options, inputs []string)
	}{
		{
			name: "defaults",
			args: []string{"a.csv"},
			check: func(t *testing.T, opts *options, inputs []string) {
				assert.Equal(t, api.ModeBasic, opts.mode)
				assert.Equal(t, ".", opts.outDir)
				assert.Equal(t, -1, opts.idColumn)
				assert.GreaterOrEqual(t, opts.concurrency, 1)
				assert.Equal(t, []string{"a.csv"}, inputs)

				req := opts.exportRequest()
				assert.Nil(t, req.IDColumn)
				assert.Nil(t, req.ScoreColumn)
			},
		},
		{
			name: "overrides",
			args: []string{"-mode", "sius", "-id-column", "1", "-score-column", "3", "-out-delimiter", "tab", "-relay", "2", "-concurrency", "0", "a.csv", "b.csv"},
			check: func(t *testing.T, opts *options, inputs []string) {
				assert.Equal(t, 1, opts.concurrency)
				assert.Len(t, inputs, 2)

				req := opts.exportRequest()
				assert.Equal(t, api.ModeSIUS, req.Mode)
				assert.Equal(t, "tab", req.OutputDelimiter)
				assert.Equal(t, "2", req.Relay)
				require.NotNil(t, req.IDColumn)
				assert.Equal(t, 1, *req.IDColumn)
				require.NotNil(t, req.ScoreColumn)
				assert.Equal(t, 3, *req.ScoreColumn)
			},
		},
		{name: "no inputs", args: nil, wantErr: true},
		{name: "unknown mode", args: []string{"-mode", "fancy", "a.csv"}, wantErr: true},
		{name: "unknown flag", args: []string{"-bogus", "a.csv"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, inputs, err := parseFlags(tt.args, &stderr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, opts, inputs)
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-h"}, &stdout, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, stderr.String(), "-delimiter")
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "SIUS Score Calculator v")
}

func TestRun_WritesSummaries(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "summaries")
	writeInput(t, in, "match 1.csv", testutil.ShotExport)
	writeInput(t, in, "match2.txt", testutil.SemicolonExport)
	writeInput(t, in, "notes.md", "not a score file")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-out", out, in}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), filepath.Join(out, "match1_summary.csv"))
	assert.Contains(t, stdout.String(), filepath.Join(out, "match2_summary.csv"))

	records := readSummary(t, filepath.Join(out, "match1_summary.csv"), ';')
	require.Len(t, records, 4)
	assert.Equal(t, "ID", records[0][0])
	assert.Equal(t, "101", records[1][0])

	records = readSummary(t, filepath.Join(out, "match2_summary.csv"), ';')
	require.Len(t, records, 4)
	assert.Equal(t, "1", records[1][0])

	_, err = os.Stat(filepath.Join(out, "notes_summary.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_SIUSMode(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	input := writeInput(t, in, "final.csv", testutil.ShotExport)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-mode", "sius", "-out-delimiter", "comma", "-out", out, input}, &stdout, &stderr)
	require.NoError(t, err)

	records := readSummary(t, filepath.Join(out, "final_summary.csv"), ',')
	require.Len(t, records, 4)
	assert.Equal(t, []string{"id", "count", "Decimal score_sum", "Decimal score_mean", "Integer score_sum", "Integer score_mean"}, records[0])
}

func TestRun_Stdout(t *testing.T) {
	input := writeInput(t, t.TempDir(), "final.csv", testutil.SemicolonExport)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-out", "", "-out-delimiter", ",", input}, &stdout, &stderr)
	require.NoError(t, err)

	data := stdout.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "ID", records[0][0])
}

func TestRun_PartialFailure(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	good := writeInput(t, in, "good.csv", testutil.SemicolonExport)
	empty := writeInput(t, in, "empty.csv", "")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-out", out, good, empty}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), empty)

	_, err = os.Stat(filepath.Join(out, "good_summary.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "empty_summary.csv"))
	assert.True(t, os.IsNotExist(err), "failed summaries are removed")
}

func TestRun_NoMatches(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{filepath.Join(t.TempDir(), "*.csv")}, &stdout, &stderr)
	require.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestRun_SameNameInputsKeepSeparateSummaries(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(in, "a"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(in, "b"), 0o755))
	first := writeInput(t, filepath.Join(in, "a"), "match.csv", "ID;Score\n1;10.5\n1;9.5\n")
	second := writeInput(t, filepath.Join(in, "b"), "match.csv", "ID;Score\n2;8.0\n")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-out", out, first, second}, &stdout, &stderr)
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	records := readSummary(t, filepath.Join(out, "match_summary.csv"), ';')
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[1][0])

	records = readSummary(t, filepath.Join(out, "match_2_summary.csv"), ';')
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[1][0])
}
