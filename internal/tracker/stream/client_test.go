package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/clipdeck/clipdeck/pkg/logger"
	"github.com/gorilla/websocket"
)

func testLogger() logger.Logger {
	cfg := &config.Config{Logger: config.Logger{Level: "fatal", Encoding: "console", Development: true}}
	l := logger.NewApiLogger(cfg)
	l.InitLogger()
	return l
}

var upgrader = websocket.Upgrader{}

// wsServer runs handler for every incoming stream connection and
// returns the ws:// base URL the client should dial.
func wsServer(t *testing.T, handler func(conn *websocket.Conn, connNum int)) (string, func()) {
	t.Helper()
	var mu sync.Mutex
	connNum := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		connNum++
		n := connNum
		mu.Unlock()
		handler(conn, n)
	}))
	return "ws" + strings.TrimPrefix(srv.URL, "http"), srv.Close
}

func collectMessages(c *Client) (<-chan tracker.StreamMessage, func() int) {
	var mu sync.Mutex
	count := 0
	ch := make(chan tracker.StreamMessage, 16)
	c.OnMessage(func(msg tracker.StreamMessage) {
		mu.Lock()
		count++
		mu.Unlock()
		ch <- msg
	})
	return ch, func() int {
		mu.Lock()
		defer mu.Unlock()
		return count
	}
}

func waitFor(t *testing.T, ch <-chan tracker.StreamMessage) tracker.StreamMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a stream message")
		return tracker.StreamMessage{}
	}
}

func TestClient_DeliversTypedMessagesAndDropsJunk(t *testing.T) {
	url, stop := wsServer(t, func(conn *websocket.Conn, _ int) {
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"timeline","timeline":[{"event":"Extracting audio","status":"in_progress"}]}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"telemetry","noise":true}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not even json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","level":"info","message":"working"}`))
		// hold the connection open until the test is done
		time.Sleep(time.Second)
	})
	defer stop()

	c := NewClient(url, 50*time.Millisecond, testLogger())
	defer c.Close()
	ch, _ := collectMessages(c)
	c.Connect("job-1")

	first := waitFor(t, ch)
	if first.Type != tracker.StreamTypeTimeline || len(first.Timeline) != 1 {
		t.Errorf("first message = %+v, want one timeline event", first)
	}
	second := waitFor(t, ch)
	if second.Type != tracker.StreamTypeLog || second.Log.Message != "working" {
		t.Errorf("second message = %+v, want the log entry", second)
	}
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	url, stop := wsServer(t, func(conn *websocket.Conn, connNum int) {
		defer conn.Close()
		if connNum == 1 {
			// first connection dies immediately
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","level":"info","message":"back"}`))
		time.Sleep(time.Second)
	})
	defer stop()

	c := NewClient(url, 20*time.Millisecond, testLogger())
	defer c.Close()
	ch, _ := collectMessages(c)
	c.Connect("job-1")

	msg := waitFor(t, ch)
	if msg.Log.Message != "back" {
		t.Errorf("message after reconnect = %+v", msg)
	}
	if !c.Connected() {
		t.Error("client not reporting connected after reconnect")
	}
}

func TestClient_CloseStopsDelivery(t *testing.T) {
	release := make(chan struct{})
	url, stop := wsServer(t, func(conn *websocket.Conn, _ int) {
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","level":"info","message":"one"}`))
		<-release
		// frames sent after the client closed must go nowhere
		for i := 0; i < 5; i++ {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","level":"info","message":"late"}`))
		}
	})
	defer stop()

	c := NewClient(url, 20*time.Millisecond, testLogger())
	ch, delivered := collectMessages(c)
	c.Connect("job-1")
	waitFor(t, ch)

	c.Close()
	c.Close() // idempotent
	close(release)
	time.Sleep(100 * time.Millisecond)

	if got := delivered(); got != 1 {
		t.Errorf("delivered = %d messages, want 1 (nothing after Close)", got)
	}
	if c.Connected() {
		t.Error("client reports connected after Close")
	}
}

func TestClient_CloseCancelsScheduledReconnect(t *testing.T) {
	// nothing listens here, so every dial fails and arms the timer
	c := NewClient("ws://127.0.0.1:1", 30*time.Millisecond, testLogger())
	_, delivered := collectMessages(c)
	c.Connect("job-1")

	time.Sleep(50 * time.Millisecond) // let at least one dial fail
	c.Close()
	time.Sleep(100 * time.Millisecond) // past several reconnect delays

	if got := delivered(); got != 0 {
		t.Errorf("delivered = %d messages from a dead endpoint", got)
	}
	if c.Connected() {
		t.Error("client reports connected after Close")
	}
}

func TestClient_ConnectAfterCloseIsNoop(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1", 30*time.Millisecond, testLogger())
	c.Close()
	c.Connect("job-1")
	if c.Connected() {
		t.Error("closed client accepted Connect")
	}
}
