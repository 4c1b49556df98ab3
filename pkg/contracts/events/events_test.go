package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame(t *testing.T) {
	frame, err := NewFrame(MessageTypeAnalysisCompleted, AnalysisCompleted{
		Fingerprint: "abc",
		Operation:   "analyze",
		Rows:        4,
		Groups:      2,
		Warnings:    []string{"ALL_ROWS_UNPARSEABLE"},
	}, "trace-1")
	require.NoError(t, err)

	assert.Equal(t, ProtocolVersion, frame.Version)
	assert.Len(t, frame.ID, 36)
	assert.Equal(t, "trace-1", frame.TraceID)
	assert.False(t, frame.Timestamp.IsZero())

	var decoded AnalysisCompleted
	require.NoError(t, frame.Decode(&decoded))
	assert.Equal(t, "abc", decoded.Fingerprint)
	assert.Equal(t, 2, decoded.Groups)

	raw, err := json.Marshal(frame)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"analysis:completed"`)
	assert.Contains(t, string(raw), `"payload":{"fingerprint":"abc"`)
}

func TestNewFrame_UnmarshalablePayload(t *testing.T) {
	_, err := NewFrame(MessageTypeAnalysisFailed, map[string]interface{}{"bad": make(chan int)}, "")
	assert.Error(t, err)
}
