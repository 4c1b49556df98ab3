package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  slog.Level
		expectedMsg    string
	}{
		{
			name:           "info entry with data",
			body:           `{"level":"info","message":"upload started","source":"web","data":{"file":"scores.csv"}}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
			expectedMsg:    "upload started",
		},
		{
			name:           "error entry",
			body:           `{"level":"error","message":"summary failed","request_id":"req-1"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelError,
			expectedMsg:    "summary failed",
		},
		{
			name:           "warning alias",
			body:           `{"level":"WARNING","message":"slow upload"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelWarn,
			expectedMsg:    "slow upload",
		},
		{
			name:           "unknown level falls back to info",
			body:           `{"level":"verbose","message":"hello"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
			expectedMsg:    "hello",
		},
		{
			name:           "empty message",
			body:           `{"level":"info","message":"  "}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           `{"level":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, records := testutil.NewTestLogger(t)
			handler := NewClientLogHandler(logger, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/log", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.Handle(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "success", body["status"])
			testutil.AssertLogContains(t, records, tt.expectedLevel, tt.expectedMsg)
		})
	}
}
