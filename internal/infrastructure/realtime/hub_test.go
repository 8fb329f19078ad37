package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// testHarness upgrades incoming requests, attaches the server-side
// connection to the hub and hands it back to the test.
type testHarness struct {
	hub   *Hub
	srv   *httptest.Server
	conns chan *Connection
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{hub: NewHub(), conns: make(chan *Connection, 8)}
	upgrader := websocket.Upgrader{}

	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(r.URL.Query().Get("user"), ws)
		h.hub.Attach(conn)
		h.conns <- conn
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(func() {
		h.hub.Close()
		h.srv.Close()
	})
	return h
}

// dial opens a client socket for user and returns both ends.
func (h *testHarness) dial(t *testing.T, user string) (*websocket.Conn, *Connection) {
	t.Helper()
	url := strings.Replace(h.srv.URL, "http", "ws", 1) + "?user=" + user
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", user, err)
	}
	t.Cleanup(func() { _ = client.Close() })

	select {
	case conn := <-h.conns:
		return client, conn
	case <-time.After(2 * time.Second):
		t.Fatalf("server connection for %s never attached", user)
		return nil, nil
	}
}

func readWithin(t *testing.T, ws *websocket.Conn, d time.Duration) (string, bool) {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(d))
	_, data, err := ws.ReadMessage()
	if err != nil {
		return "", false
	}
	return string(data), true
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	h := newTestHarness(t)

	aliceWS, alice := h.dial(t, "alice")
	bobWS, bob := h.dial(t, "bob")

	channel := ChannelName("conv-1")
	h.hub.Subscribe(channel, alice)
	h.hub.Subscribe(channel, bob)

	delivered := h.hub.Broadcast(channel, []byte(`{"message":"hello"}`), "alice")
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1 (bob only)", delivered)
	}

	if msg, ok := readWithin(t, bobWS, 2*time.Second); !ok || msg != `{"message":"hello"}` {
		t.Errorf("bob read = %q ok=%v, want the payload", msg, ok)
	}
	if msg, ok := readWithin(t, aliceWS, 200*time.Millisecond); ok {
		t.Errorf("alice (the sender) must not receive an echo, got %q", msg)
	}
}

func TestHub_BroadcastOnlyReachesSubscribers(t *testing.T) {
	h := newTestHarness(t)

	_, alice := h.dial(t, "alice")
	bobWS, _ := h.dial(t, "bob")

	h.hub.Subscribe(ChannelName("conv-1"), alice)

	delivered := h.hub.Broadcast(ChannelName("conv-1"), []byte("x"), "")
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
	if msg, ok := readWithin(t, bobWS, 200*time.Millisecond); ok {
		t.Errorf("bob never subscribed but received %q", msg)
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := newTestHarness(t)

	aliceWS, alice := h.dial(t, "alice")
	channel := ChannelName("conv-1")

	h.hub.Subscribe(channel, alice)
	h.hub.Unsubscribe(channel, alice)

	if delivered := h.hub.Broadcast(channel, []byte("x"), ""); delivered != 0 {
		t.Errorf("delivered = %d, want 0 after unsubscribe", delivered)
	}
	if msg, ok := readWithin(t, aliceWS, 200*time.Millisecond); ok {
		t.Errorf("alice unsubscribed but received %q", msg)
	}
}

func TestHub_SessionReplacement(t *testing.T) {
	h := newTestHarness(t)

	oldWS, _ := h.dial(t, "alice")
	_, replacement := h.dial(t, "alice")

	channel := ChannelName("conv-1")
	h.hub.Subscribe(channel, replacement)

	// The replaced socket is closed by the hub.
	_ = oldWS.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := oldWS.ReadMessage(); err != nil {
			break
		}
	}

	if delivered := h.hub.Broadcast(channel, []byte("x"), ""); delivered != 1 {
		t.Errorf("delivered = %d, want 1 via the replacement session", delivered)
	}
}

func TestChannelName(t *testing.T) {
	if got := ChannelName("abc"); got != "conversation.abc" {
		t.Errorf("ChannelName = %q, want conversation.abc", got)
	}
}
