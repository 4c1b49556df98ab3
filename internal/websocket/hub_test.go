package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/config"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/shared/testutil"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/events"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func newTestClient(t *testing.T, hub *Hub, conn Connection) *Client {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewClient(hub, conn, "trace-1", config.WebSocketConfig{}, logger)
}

func decodeFrame(t *testing.T, data []byte) events.Frame {
	t.Helper()
	var frame events.Frame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestHub_StartStop(t *testing.T) {
	hub := NewHub(nil, nil)
	assert.False(t, hub.Running())

	hub.Start()
	hub.Start()
	assert.True(t, hub.Running())

	hub.Stop()
	hub.Stop()
	assert.False(t, hub.Running())

	// A stopped hub stays stopped
	hub.Start()
	assert.False(t, hub.Running())
}

func TestHub_RegisterSendsConnectionFrame(t *testing.T) {
	hub := newTestHub(t)
	client := newTestClient(t, hub, NewMockConnection())

	require.NoError(t, hub.Register(client))

	select {
	case data := <-client.send:
		frame := decodeFrame(t, data)
		assert.Equal(t, events.MessageTypeConnected, frame.Type)
		assert.Equal(t, "trace-1", frame.TraceID)

		var payload events.Connected
		require.NoError(t, frame.Decode(&payload))
		assert.Equal(t, client.ID(), payload.ClientID)
		assert.Equal(t, "connected", payload.Status)
	case <-time.After(time.Second):
		t.Fatal("no connection frame")
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHub_PublishReachesEveryClient(t *testing.T) {
	hub := newTestHub(t)
	clients := []*Client{
		newTestClient(t, hub, NewMockConnection()),
		newTestClient(t, hub, NewMockConnection()),
	}
	for _, c := range clients {
		require.NoError(t, hub.Register(c))
		<-c.send // connection frame
	}

	frame, err := events.NewFrame(events.MessageTypeAnalysisCompleted, events.AnalysisCompleted{Fingerprint: "abc", Groups: 2}, "")
	require.NoError(t, err)
	require.NoError(t, hub.Publish(context.Background(), frame))

	for _, c := range clients {
		select {
		case data := <-c.send:
			got := decodeFrame(t, data)
			assert.Equal(t, frame.ID, got.ID)
			assert.Equal(t, events.MessageTypeAnalysisCompleted, got.Type)
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := newTestHub(t)
	client := newTestClient(t, hub, NewMockConnection())
	require.NoError(t, hub.Register(client))
	<-client.send

	hub.Unregister(client)

	_, open := <-client.send
	assert.False(t, open)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := newTestHub(t)
	client := newTestClient(t, hub, NewMockConnection())
	require.NoError(t, hub.Register(client))

	frame, err := events.NewFrame(events.MessageTypeHeartbeat, struct{}{}, "")
	require.NoError(t, err)

	// The connection frame already sits in the buffer; nobody drains it
	for i := 0; i < sendBufferSize+1; i++ {
		require.NoError(t, hub.Publish(context.Background(), frame))
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Start()
	hub.Stop()

	frame, err := events.NewFrame(events.MessageTypeHeartbeat, struct{}{}, "")
	require.NoError(t, err)

	assert.ErrorIs(t, hub.Publish(context.Background(), frame), ErrHubStopped)
	assert.ErrorIs(t, hub.Register(newTestClient(t, hub, NewMockConnection())), ErrHubStopped)
}

func TestHub_PublishHonoursContext(t *testing.T) {
	hub := NewHub(nil, nil) // never started, nothing drains broadcast
	frame, err := events.NewFrame(events.MessageTypeHeartbeat, struct{}{}, "")
	require.NoError(t, err)

	for i := 0; i < cap(hub.broadcast); i++ {
		require.NoError(t, hub.Publish(context.Background(), frame))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, hub.Publish(ctx, frame), context.Canceled)
}
