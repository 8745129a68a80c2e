package stream

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/clipdeck/clipdeck/pkg/logger"
	"github.com/gorilla/websocket"
)

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateOpen
	stateClosed
)

// Client keeps a live websocket to the backend's job event stream and
// recovers from transport failure with a single owned reconnect timer.
// State moves disconnected -> connecting -> open -> disconnected; Close
// wins over everything and is idempotent.
type Client struct {
	wsURL          string
	reconnectDelay time.Duration
	logger         logger.Logger

	mu      sync.Mutex
	state   connState
	jobID   string
	conn    *websocket.Conn
	handler func(msg tracker.StreamMessage)
	timer   *time.Timer
}

func NewClient(wsURL string, reconnectDelay time.Duration, log logger.Logger) *Client {
	return &Client{
		wsURL:          strings.TrimRight(wsURL, "/"),
		reconnectDelay: reconnectDelay,
		logger:         log,
		state:          stateDisconnected,
	}
}

// OnMessage registers the single subscriber. Must be called before
// Connect; messages arriving without a handler are dropped.
func (c *Client) OnMessage(handler func(msg tracker.StreamMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateClosed {
		return
	}
	c.handler = handler
}

// Connect starts the connection attempt for jobID and returns
// immediately. Failures are retried through the reconnect timer.
func (c *Client) Connect(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateDisconnected {
		return
	}
	c.jobID = jobID
	c.state = stateConnecting
	go c.dial()
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateOpen
}

// Close detaches the handler before tearing the socket down, so a close
// event racing in from the transport can no longer reach the caller.
// Safe to call multiple times and from any state.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateClosed {
		return
	}
	c.state = stateClosed
	c.handler = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) dial() {
	c.mu.Lock()
	if c.state != stateConnecting {
		c.mu.Unlock()
		return
	}
	url := fmt.Sprintf("%s/ws/%s", c.wsURL, c.jobID)
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)

	c.mu.Lock()
	if c.state != stateConnecting {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.logger.Warnf("stream: connect to %s failed: %v", url, err)
		c.state = stateDisconnected
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		return
	}
	c.conn = conn
	c.state = stateOpen
	c.mu.Unlock()

	c.logger.Infof("stream: connected to %s", url)
	go c.readLoop(conn)
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		msg, err := parseMessage(data)
		if err != nil {
			c.logger.Debugf("stream: dropping frame: %v", err)
			continue
		}
		c.deliver(*msg)
	}
}

func (c *Client) deliver(msg tracker.StreamMessage) {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler != nil {
		handler(msg)
	}
}

func (c *Client) handleDisconnect(conn *websocket.Conn, err error) {
	conn.Close()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateClosed || c.conn != conn {
		return
	}
	c.logger.Warnf("stream: connection lost: %v, reconnecting in %s", err, c.reconnectDelay)
	c.conn = nil
	c.state = stateDisconnected
	c.scheduleReconnectLocked()
}

// scheduleReconnectLocked arms the reconnect timer. At most one timer
// exists at a time, which rules out duplicate connections.
func (c *Client) scheduleReconnectLocked() {
	if c.timer != nil {
		return
	}
	c.timer = time.AfterFunc(c.reconnectDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.timer = nil
		if c.state != stateDisconnected {
			return
		}
		c.state = stateConnecting
		go c.dial()
	})
}
