package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/dataprocessing"
	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/infrastructure"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/shared/testutil"
	api "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/api/v1"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/domain"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/events"
)

// MockPublisher records published frames
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, frame *events.Frame) error {
	args := m.Called(ctx, frame)
	return args.Error(0)
}

func ofType(t events.MessageType) interface{} {
	return mock.MatchedBy(func(f *events.Frame) bool { return f.Type == t })
}

func newTestService(t *testing.T, pub EventPublisher) *ScoreService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	analyzer := dataprocessing.NewAnalyzer(logger, dataprocessing.DefaultAnalyzerConfig())
	return NewScoreService(analyzer, infrastructure.NoopBusinessMetrics(), pub, logger)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestScoreService_Analyze(t *testing.T) {
	pub := &MockPublisher{}
	var published *events.Frame
	pub.On("Publish", mock.Anything, ofType(events.MessageTypeAnalysisCompleted)).
		Run(func(args mock.Arguments) { published = args.Get(1).(*events.Frame) }).
		Return(nil).Once()

	svc := newTestService(t, pub)
	ctx := infrastructure.WithTraceID(context.Background(), "trace-123")

	got, err := svc.Analyze(ctx, []byte(testutil.SemicolonExport), api.AnalyzeRequest{})
	require.NoError(t, err)

	assert.Equal(t, ";", got.Delimiter)
	require.Len(t, got.Summary.Rows, 3)
	assert.Equal(t, 19.5, got.Summary.Rows[0].Sum)
	pub.AssertExpectations(t)

	require.NotNil(t, published)
	assert.Equal(t, "trace-123", published.TraceID)

	var payload events.AnalysisCompleted
	require.NoError(t, published.Decode(&payload))
	assert.Equal(t, OperationAnalyze, payload.Operation)
	assert.Equal(t, got.Fingerprint, payload.Fingerprint)
	assert.Equal(t, domain.SourceText, payload.Source)
	assert.Equal(t, 5, payload.Rows)
	assert.Equal(t, 3, payload.Groups)
	assert.Equal(t, 4, payload.ParsedRows)
	assert.Equal(t, 1, payload.SkippedRows)
}

func TestScoreService_Analyze_Overrides(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.Analyze(context.Background(), []byte(testutil.SemicolonExport), api.AnalyzeRequest{
		UploadRequest: api.UploadRequest{Delimiter: "semicolon"},
		ScoreColumn:   intPtr(2),
		SampleSize:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.SuggestedScoreColumn)
	assert.Equal(t, 2, got.ScoreColumn)
	assert.Len(t, got.SampleRows, 2)
	assert.Equal(t, 19.0, got.Summary.Rows[0].Sum)
}

func TestScoreService_Analyze_Failures(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		req       api.AnalyzeRequest
		errorType string
		check     func(error) bool
	}{
		{
			name:      "empty upload",
			data:      "",
			errorType: string(apperrors.ErrTypeEmptyFile),
			check:     apperrors.IsEmptyFile,
		},
		{
			name:      "column out of range",
			data:      testutil.SemicolonExport,
			req:       api.AnalyzeRequest{IDColumn: intPtr(7)},
			errorType: string(apperrors.ErrTypeInvalidColumnChoice),
			check:     apperrors.IsInvalidColumnChoice,
		},
		{
			name:      "unknown delimiter",
			data:      testutil.SemicolonExport,
			req:       api.AnalyzeRequest{UploadRequest: api.UploadRequest{Delimiter: ":"}},
			errorType: string(apperrors.ErrTypeValidation),
			check: func(err error) bool {
				return apperrors.IsType(err, apperrors.ErrTypeValidation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &MockPublisher{}
			var published *events.Frame
			pub.On("Publish", mock.Anything, ofType(events.MessageTypeAnalysisFailed)).
				Run(func(args mock.Arguments) { published = args.Get(1).(*events.Frame) }).
				Return(nil).Once()

			svc := newTestService(t, pub)
			_, err := svc.Analyze(context.Background(), []byte(tt.data), tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			pub.AssertExpectations(t)

			var payload events.AnalysisFailed
			require.NoError(t, published.Decode(&payload))
			assert.Equal(t, OperationAnalyze, payload.Operation)
			assert.Equal(t, tt.errorType, payload.ErrorType)
		})
	}
}

func TestScoreService_PublishErrorIsNotFatal(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("hub stopped"))

	svc := newTestService(t, pub)
	_, err := svc.Analyze(context.Background(), []byte(testutil.SemicolonExport), api.AnalyzeRequest{})

	assert.NoError(t, err)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestScoreService_Columns(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.Columns(context.Background(), []byte(testutil.ShotExport), api.ColumnsRequest{})
	require.NoError(t, err)

	assert.Equal(t, ";", got.Delimiter)
	assert.Equal(t, 5, got.RowCount)
	assert.Len(t, got.SampleRows, 5)
	assert.Equal(t, 1, got.SuggestedIDColumn)
	assert.Equal(t, 3, got.SuggestedScoreColumn)
	assert.Equal(t, api.FieldSuggestions{
		StartNr:   "Start NR",
		Primary:   "Primary score",
		Secondary: "Secondary score",
	}, got.Fields)
	assert.Equal(t, []string{"1", "2"}, got.Relays)
	assert.Equal(t, []string{"101", "102", "201"}, got.StartNrs)
	assert.Len(t, got.Fingerprint, 64)
}

func TestScoreService_Summary(t *testing.T) {
	svc := newTestService(t, nil)
	data := []byte(testutil.ShotExport)

	tests := []struct {
		name string
		req  api.SummaryRequest
		want []domain.SummaryRow
	}{
		{
			name: "basic defaults",
			req:  api.SummaryRequest{},
			want: []domain.SummaryRow{
				{ID: "101", Count: 3, Sum: 30.2},
				{ID: "102", Count: 1, Sum: 8.7},
				{ID: "201", Count: 1, Sum: 10.9},
			},
		},
		{
			name: "relay filter",
			req:  api.SummaryRequest{FilterRequest: api.FilterRequest{Relay: "1"}},
			want: []domain.SummaryRow{
				{ID: "101", Count: 3, Sum: 30.2},
				{ID: "102", Count: 1, Sum: 8.7},
			},
		},
		{
			name: "start numbers and excluded rows",
			req: api.SummaryRequest{FilterRequest: api.FilterRequest{
				StartNrs:        []string{"101"},
				ExcludedIndices: []int{0},
			}},
			want: []domain.SummaryRow{
				{ID: "101", Count: 2, Sum: 19.8},
			},
		},
		{
			name: "empty start number selection",
			req:  api.SummaryRequest{FilterRequest: api.FilterRequest{StartNrs: []string{}}},
			want: []domain.SummaryRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Summary(context.Background(), data, tt.req)
			require.NoError(t, err)
			assert.Equal(t, api.ModeBasic, got.Mode)

			require.Len(t, got.Rows, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.ID, got.Rows[i].ID)
				assert.Equal(t, want.Count, got.Rows[i].Count)
				assert.InDelta(t, want.Sum, got.Rows[i].Sum, 1e-9)
			}
		})
	}
}

func TestScoreService_Summary_SIUS(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.Summary(context.Background(), []byte(testutil.ShotExport), api.SummaryRequest{Mode: api.ModeSIUS})
	require.NoError(t, err)

	assert.Equal(t, api.ModeSIUS, got.Mode)
	assert.Empty(t, got.Rows)
	require.Len(t, got.SIUSRows, 3)

	first := got.SIUSRows[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, 3, first.Count)
	assert.Equal(t, floatPtr(30.2), first.DecimalSum)
	require.NotNil(t, first.DecimalMean)
	assert.InDelta(t, 30.2/3, *first.DecimalMean, 1e-9)
	assert.Equal(t, floatPtr(29), first.IntegerSum)
	require.NotNil(t, first.IntegerMean)
	assert.InDelta(t, 29.0/3, *first.IntegerMean, 1e-9)
}

func TestScoreService_Summary_SIUSMissingColumns(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Summary(context.Background(), []byte("a;b\n1;2\n"), api.SummaryRequest{Mode: api.ModeSIUS})

	assert.True(t, apperrors.IsInvalidColumnChoice(err))
}

func TestScoreService_Shots(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.Shots(context.Background(), []byte(testutil.ShotExport), api.ShotsRequest{StartNr: "101"})
	require.NoError(t, err)

	assert.Equal(t, "101", got.StartNr)
	require.Len(t, got.Shots, 3)
	assert.Equal(t, []string{"10:01:30", "10:00:45", "10:00:01"},
		[]string{got.Shots[0].Time, got.Shots[1].Time, got.Shots[2].Time})
	assert.Equal(t, 4, got.Shots[0].Index)
	assert.Equal(t, floatPtr(10), got.Shots[0].Integer)
}

func TestScoreService_Shots_UnknownStartNr(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.Shots(context.Background(), []byte(testutil.ShotExport), api.ShotsRequest{StartNr: "999"})

	require.NoError(t, err)
	assert.Empty(t, got.Shots)
}

func TestScoreService_Target(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.Target(context.Background(), []byte(testutil.ShotExport), api.ShotsRequest{StartNr: "101"})
	require.NoError(t, err)

	require.Len(t, got.Points, 3)
	assert.Equal(t, domain.TargetPoint{ShotNum: 1, X: floatPtr(2), Y: floatPtr(2), DecimalScore: floatPtr(10)}, got.Points[0])
	assert.Equal(t, floatPtr(-3.25), got.Points[1].X)
	assert.Equal(t, 3, got.Points[2].ShotNum)
}

func TestScoreService_Target_MissingCoordinates(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Target(context.Background(), []byte(testutil.SemicolonExport), api.ShotsRequest{StartNr: "1"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingCoordinates))
}

func TestScoreService_Export(t *testing.T) {
	tests := []struct {
		name      string
		req       api.ExportRequest
		delimiter rune
		header    []string
	}{
		{
			name:      "basic keeps input delimiter",
			req:       api.ExportRequest{},
			delimiter: ';',
			header:    []string{"ID", "Count", "Sum", "Mean", "Min", "Max", "Median", "StdDev", "Skipped"},
		},
		{
			name:      "sius with tab output",
			req:       api.ExportRequest{SummaryRequest: api.SummaryRequest{Mode: api.ModeSIUS}, OutputDelimiter: "tab"},
			delimiter: '\t',
			header:    []string{"id", "count", "Decimal score_sum", "Decimal score_mean", "Integer score_sum", "Integer score_mean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil)

			var buf bytes.Buffer
			err := svc.Export(context.Background(), []byte(testutil.ShotExport), tt.req, &buf)
			require.NoError(t, err)

			data := buf.Bytes()
			require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

			r := csv.NewReader(bytes.NewReader(data[3:]))
			r.Comma = tt.delimiter
			records, err := r.ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 4)
			assert.Equal(t, tt.header, records[0])
			assert.Equal(t, "101", records[1][0])
		})
	}
}

func TestScoreService_Export_BadOutputDelimiter(t *testing.T) {
	svc := newTestService(t, nil)

	var buf bytes.Buffer
	err := svc.Export(context.Background(), []byte(testutil.ShotExport), api.ExportRequest{OutputDelimiter: "#"}, &buf)

	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Zero(t, buf.Len())
}
