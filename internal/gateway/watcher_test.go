package gateway

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"pacer/internal/config"
	"pacer/internal/gateway/websocket"
)

// dialHub connects a real WebSocket client to the hub so broadcasts can
// be observed from the outside.
func dialHub(t *testing.T, hub *websocket.Hub) *gws.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(hub, w, r)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Allow the hub goroutine to register the client.
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestWatcherBroadcastsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gateway:\n  port: 18690\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	config.Reset()
	t.Cleanup(config.Reset)

	hub := websocket.NewHub()
	go hub.Run()
	conn := dialHub(t, hub)

	w, err := NewWatcher(hub, path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("gateway:\n  port: 18691\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg websocket.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != websocket.TypeConfig {
		t.Errorf("message type = %q, want %q", msg.Type, websocket.TypeConfig)
	}
	if len(msg.Data) == 0 {
		t.Error("config message has no data")
	}
}

func TestWatcherIgnoresBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gateway:\n  port: 18690\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	config.Reset()
	t.Cleanup(config.Reset)

	hub := websocket.NewHub()
	go hub.Run()
	conn := dialHub(t, hub)

	w, err := NewWatcher(hub, path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	// A failed reload must not reach clients.
	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var msg websocket.WSMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("unexpected broadcast after bad config: %+v", msg)
	}
}
