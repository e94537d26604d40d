package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitClosed(t *testing.T, ch *Channel) CloseInfo {
	t.Helper()
	select {
	case info := <-ch.Closed():
		return info
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
		return CloseInfo{}
	}
}

func TestDialAndReceive(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"hello":"world"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	ch, err := Dial(context.Background(), wsURL(server), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer ch.Close()

	select {
	case msg := <-ch.Messages():
		if string(msg) != `{"hello":"world"}` {
			t.Errorf("message = %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestSendMarshalsJSON(t *testing.T) {
	received := make(chan []byte, 1)
	server := mockWSServer(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- msg
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	ch, err := Dial(context.Background(), wsURL(server), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer ch.Close()

	if err := ch.Send(map[string]int{"page": 3, "per_page": 30}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case msg := <-received:
		var got map[string]int
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("server received invalid JSON: %v", err)
		}
		if got["page"] != 3 || got["per_page"] != 30 {
			t.Errorf("server received %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server receive")
	}
}

func TestServerCleanClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second),
		)
		// Wait for the client's close response before dropping TCP.
		conn.ReadMessage()
	})
	defer server.Close()

	ch, err := Dial(context.Background(), wsURL(server), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	info := waitClosed(t, ch)
	if !info.Clean {
		t.Errorf("Clean = false (err=%v), want true for normal closure", info.Err)
	}
}

func TestServerAbruptClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.Close() // drop TCP without a close frame
	})
	defer server.Close()

	ch, err := Dial(context.Background(), wsURL(server), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	info := waitClosed(t, ch)
	if info.Clean {
		t.Error("Clean = true, want false for abrupt close")
	}
	if info.Err == nil {
		t.Error("Err = nil, want read error")
	}
}

func TestLocalClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	ch, err := Dial(context.Background(), wsURL(server), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	if err := ch.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	info := waitClosed(t, ch)
	if !info.Clean {
		t.Error("Clean = false, want true for local close")
	}
	if info.Err != nil {
		t.Errorf("Err = %v, want nil for local close", info.Err)
	}

	if err := ch.Send("late"); err != ErrNotOpen {
		t.Errorf("Send after Close = %v, want ErrNotOpen", err)
	}

	// Close twice is safe.
	if err := ch.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1", DefaultConfig(), nil)
	if err == nil {
		t.Fatal("Dial to closed port succeeded, want error")
	}
}
