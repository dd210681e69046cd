package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playpool/billiards/internal/auth"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/game"
)

func setupServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret", FrameRate: 240, SessionIdleSeconds: 300, SessionExpiryMinutes: 60}

	game.InitializeManager(nil, nil, cfg, config.DefaultProfile())
	game.Manager.SetBroadcaster(SessionHub)
	t.Cleanup(func() { game.Manager.Shutdown(context.Background()) })

	r := gin.New()
	r.GET("/api/v1/sessions/:token/ws", HandleWebSocket(cfg))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func wsURL(srv *httptest.Server, token, pt string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + token + "/ws?pt=" + pt
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		var msg map[string]interface{}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message %s: %v", data, err)
		}
		if msg["type"] == typ {
			return msg
		}
	}
}

func TestWebSocketPointerFiresShot(t *testing.T) {
	srv, cfg := setupServer(t)
	ls, err := game.Manager.CreateSession(context.Background(), "ada")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	pt, _, err := auth.IssuePlayerToken(cfg.JWTSecret, ls.Token, "ada", time.Hour)
	if err != nil {
		t.Fatalf("IssuePlayerToken failed: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ls.Token, pt), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	readUntil(t, conn, "state")
	frame := readUntil(t, conn, "frame")
	if _, ok := frame["scene"]; !ok {
		t.Error("frame message without scene")
	}

	for _, p := range []PointerData{
		{Action: "press", X: 300, Y: 360},
		{Action: "move", X: 250, Y: 360},
		{Action: "release", X: 200, Y: 360},
	} {
		data, _ := json.Marshal(p)
		if err := conn.WriteJSON(WSMessage{Type: "pointer", Data: data}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	shot := readUntil(t, conn, "shot")
	if shot["token"] != ls.Token {
		t.Errorf("shot token = %v", shot["token"])
	}
}

func TestWebSocketRejectsForeignToken(t *testing.T) {
	srv, cfg := setupServer(t)
	ls, err := game.Manager.CreateSession(context.Background(), "ada")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	pt, _, _ := auth.IssuePlayerToken(cfg.JWTSecret, "some-other-session", "eve", time.Hour)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ls.Token, pt), nil)
	if err == nil {
		t.Fatal("dial should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %v, want 401", resp)
	}
}

func TestWebSocketUnknownMessage(t *testing.T) {
	srv, cfg := setupServer(t)
	ls, _ := game.Manager.CreateSession(context.Background(), "ada")
	pt, _, _ := auth.IssuePlayerToken(cfg.JWTSecret, ls.Token, "ada", time.Hour)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ls.Token, pt), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.WriteJSON(WSMessage{Type: "juggle"})
	msg := readUntil(t, conn, "error")
	if msg["message"] != "Unknown message type" {
		t.Errorf("error message = %v", msg["message"])
	}
}

func TestWebSocketEndSession(t *testing.T) {
	srv, cfg := setupServer(t)
	ls, _ := game.Manager.CreateSession(context.Background(), "ada")
	pt, _, _ := auth.IssuePlayerToken(cfg.JWTSecret, ls.Token, "ada", time.Hour)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ls.Token, pt), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	readUntil(t, conn, "state")

	conn.WriteJSON(WSMessage{Type: "end_session"})
	over := readUntil(t, conn, "session_over")
	data, _ := over["data"].(map[string]interface{})
	if data["status"] != string(game.StatusClosed) {
		t.Errorf("session_over = %v", over)
	}
}

func TestPointerDataButtons(t *testing.T) {
	ev, ok := PointerData{Action: "down", X: 1, Y: 2, Button: 2}.InputEvent()
	if !ok || ev.Action != game.PointerPress || ev.Button != game.ButtonSecondary || ev.Pos.X != 1 || ev.Pos.Y != 2 {
		t.Errorf("event = %+v ok = %v", ev, ok)
	}
	if _, ok := (PointerData{Action: "wiggle"}).InputEvent(); ok {
		t.Error("unknown action accepted")
	}
	if _, ok := (PointerData{Action: "press", Button: 7}).InputEvent(); ok {
		t.Error("unknown button accepted")
	}
}

func TestRelaySessionEvent(t *testing.T) {
	h := NewHub()
	c := &Client{id: "c1", sessionToken: "tok", send: make(chan []byte, 4)}
	h.clients[c.id] = c
	h.rooms["tok"] = map[string]*Client{c.id: c}

	relaySessionEvent(h, []byte(`{"type":"session_over","token":"tok","data":{"status":"ABANDONED"}}`))
	relaySessionEvent(h, []byte(`{"type":"session_over","token":"other"}`))
	relaySessionEvent(h, []byte(`not json`))

	if len(c.send) != 1 {
		t.Fatalf("queued %d messages, want 1", len(c.send))
	}
}
