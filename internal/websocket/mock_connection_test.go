package websocket

import (
	"errors"
	"sync"
	"time"
)

var errConnClosed = errors.New("connection closed")

// MockConnection is an in-memory Connection. Reads block until a message is
// queued with Push or the connection is closed.
type MockConnection struct {
	mu       sync.Mutex
	written  []MockMessage
	incoming chan MockMessage
	closed   chan struct{}
	once     sync.Once
}

// MockMessage is one frame written to or read from a MockConnection
type MockMessage struct {
	Type int
	Data []byte
}

func NewMockConnection() *MockConnection {
	return &MockConnection{
		incoming: make(chan MockMessage, 16),
		closed:   make(chan struct{}),
	}
}

func (m *MockConnection) Push(msgType int, data []byte) {
	m.incoming <- MockMessage{Type: msgType, Data: data}
}

func (m *MockConnection) Written() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockMessage, len(m.written))
	copy(out, m.written)
	return out
}

func (m *MockConnection) IsClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func (m *MockConnection) WriteMessage(messageType int, data []byte) error {
	if m.IsClosed() {
		return errConnClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, MockMessage{Type: messageType, Data: data})
	return nil
}

func (m *MockConnection) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.incoming:
		return msg.Type, msg.Data, nil
	case <-m.closed:
		return 0, nil, errConnClosed
	}
}

func (m *MockConnection) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

func (m *MockConnection) SetReadDeadline(time.Time) error { return nil }
func (m *MockConnection) SetWriteDeadline(time.Time) error { return nil }
func (m *MockConnection) SetReadLimit(int64) {}
func (m *MockConnection) SetPongHandler(func(string) error) {}
func (m *MockConnection) RemoteAddr() string { return "127.0.0.1:9000" }
