package connections

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Vishnu448/chatbot/pkg/logger"
	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   30 * time.Second,
	PingPeriod: 27 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Client wraps a WebSocket connection so that data frames from different
// goroutines never interleave
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Conn() *websocket.Conn {
	return c.conn
}

// WriteJSON sends v as a text frame, giving up after wait
func (c *Client) WriteJSON(v interface{}, wait time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Manager handles WebSocket connection lifecycle
type Manager struct {
	connections sync.Map
	timeouts    TimeoutConfig
}

// NewManager creates a new connection manager with the specified timeouts
func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		timeouts: timeouts,
	}
}

// AddConnection registers a new WebSocket client
func (m *Manager) AddConnection(client *Client) {
	m.connections.Store(client, struct{}{})
}

// RemoveConnection removes a WebSocket client
func (m *Manager) RemoveConnection(client *Client) {
	m.connections.Delete(client)
}

// GetConnectionCount returns the current number of active connections
func (m *Manager) GetConnectionCount() int {
	count := 0
	m.connections.Range(func(key, value interface{}) bool {
		count++
		return true
	})
	return count
}

// Broadcast sends event to every registered client and returns how many
// writes succeeded. Clients are written to concurrently, so one stalled
// client costs at most one WriteWait. A client whose write fails is
// dropped and its connection closed, which ends its read loop.
func (m *Manager) Broadcast(event Event) int {
	wait := m.GetTimeouts().WriteWait

	var (
		wg        sync.WaitGroup
		delivered atomic.Int32
	)

	m.connections.Range(func(key, value interface{}) bool {
		client := key.(*Client)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.WriteJSON(event, wait); err != nil {
				logger.Warn(logger.WEBSOCKET, "Failed to deliver %s event, dropping client: %v", event.Type, err)
				m.RemoveConnection(client)
				client.Conn().Close()
				return
			}
			delivered.Add(1)
		}()
		return true
	})

	wg.Wait()
	return int(delivered.Load())
}

// GetTimeouts returns the timeout configuration
func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}
