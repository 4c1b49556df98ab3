// Package events defines the messages streamed to front ends over /ws.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProtocolVersion is stamped on every frame.
const ProtocolVersion = "1.0"

// MessageType identifies the payload carried by a Frame.
type MessageType string

const (
	MessageTypeConnected         MessageType = "connection"
	MessageTypeAnalysisCompleted MessageType = "analysis:completed"
	MessageTypeAnalysisFailed    MessageType = "analysis:failed"
	MessageTypeHeartbeat         MessageType = "heartbeat"
)

// Frame is the envelope for every websocket message.
type Frame struct {
	Version   string          `json:"version"`
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	TraceID   string          `json:"trace_id,omitempty"`
}

// NewFrame marshals payload into a new frame.
func NewFrame(msgType MessageType, payload interface{}, traceID string) (*Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return &Frame{
		Version:   ProtocolVersion,
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   data,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
	}, nil
}

// Decode unmarshals the frame payload into v.
func (f *Frame) Decode(v interface{}) error {
	return json.Unmarshal(f.Payload, v)
}

// Connected greets a newly registered client.
type Connected struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status"`
}

// AnalysisCompleted reports a successful analysis. Uploads themselves are
// never echoed; only counts and the content fingerprint.
type AnalysisCompleted struct {
	Fingerprint string   `json:"fingerprint"`
	Operation   string   `json:"operation"`
	Source      string   `json:"source"`
	Rows        int      `json:"rows"`
	Groups      int      `json:"groups"`
	ParsedRows  int      `json:"parsed_rows"`
	SkippedRows int      `json:"skipped_rows"`
	Warnings    []string `json:"warnings,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
}

// AnalysisFailed reports an analysis that returned an error.
type AnalysisFailed struct {
	Fingerprint string `json:"fingerprint,omitempty"`
	Operation   string `json:"operation"`
	ErrorType   string `json:"error_type"`
	Message     string `json:"message"`
}
