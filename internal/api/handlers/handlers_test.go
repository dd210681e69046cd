package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiards/internal/admin"
	"github.com/playpool/billiards/internal/auth"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/game"
	"github.com/playpool/billiards/internal/models"
	"github.com/playpool/billiards/internal/storage"
)

type testEnv struct {
	router *gin.Engine
	store  *storage.Store
	cfg    *config.Config
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.OpenLocal(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("OpenLocal failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		JWTSecret:            "test-secret",
		FrameRate:            240,
		SessionIdleSeconds:   300,
		SessionExpiryMinutes: 60,
		SessionTimeoutMin:    30,
		MaxSessions:          2,
	}
	game.InitializeManager(store, nil, cfg, config.DefaultProfile())
	t.Cleanup(func() { game.Manager.Shutdown(context.Background()) })

	db := store.DB()
	r := gin.New()
	r.GET("/health", HealthCheck(db, nil))
	r.GET("/config", GetConfig(cfg, config.DefaultProfile()))
	r.GET("/leaderboard", GetLeaderboard())
	r.POST("/sessions", CreateSession(cfg))
	r.GET("/sessions/:token", GetSessionState(store))
	a := r.Group("/admin", AdminAuthMiddleware(db))
	a.GET("/sessions", AdminListSessions())
	a.DELETE("/sessions/:token", AdminCloseSession(db))
	a.GET("/audit", GetAdminAuditLogs(db))
	a.GET("/config", GetAdminRuntimeConfig(db))
	a.PUT("/config/:key", UpdateAdminRuntimeConfig(db, cfg))

	return &testEnv{router: r, store: store, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: bad JSON %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func TestHealthCheck(t *testing.T) {
	e := setup(t)
	code, body := e.do(t, http.MethodGet, "/health", nil, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" || body["service"] != "billiards-api" {
		t.Errorf("body = %v", body)
	}
}

func TestGetConfig(t *testing.T) {
	e := setup(t)
	code, body := e.do(t, http.MethodGet, "/config", nil, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["pixels_per_meter"].(float64) != 100 {
		t.Errorf("pixels_per_meter = %v", body["pixels_per_meter"])
	}
	if body["frame_rate"].(float64) != 240 {
		t.Errorf("frame_rate = %v", body["frame_rate"])
	}
}

func TestCreateSessionAndState(t *testing.T) {
	e := setup(t)
	code, body := e.do(t, http.MethodPost, "/sessions", map[string]string{"display_name": "ada"}, nil)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d body=%v", code, body)
	}
	token := body["token"].(string)

	claims, err := auth.ParsePlayerToken(e.cfg.JWTSecret, body["player_token"].(string))
	if err != nil {
		t.Fatalf("player token invalid: %v", err)
	}
	if claims.SessionToken != token || claims.Player != "ada" {
		t.Errorf("claims = %+v", claims)
	}

	code, state := e.do(t, http.MethodGet, "/sessions/"+token, nil, nil)
	if code != http.StatusOK || state["source"] != "live" {
		t.Fatalf("state status=%d body=%v", code, state)
	}

	if err := game.Manager.EndSession(context.Background(), token, game.StatusClosed); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	code, state = e.do(t, http.MethodGet, "/sessions/"+token, nil, nil)
	if code != http.StatusOK || state["source"] != "history" {
		t.Fatalf("history status=%d body=%v", code, state)
	}

	code, _ = e.do(t, http.MethodGet, "/sessions/nope", nil, nil)
	if code != http.StatusNotFound {
		t.Errorf("unknown session status = %d", code)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	e := setup(t)

	code, body := e.do(t, http.MethodPost, "/sessions", nil, nil)
	if code != http.StatusCreated || body["player"] != "guest" {
		t.Errorf("empty body: status=%d player=%v", code, body["player"])
	}

	code, _ = e.do(t, http.MethodPost, "/sessions", map[string]string{"display_name": "<script>"}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("bad name status = %d", code)
	}

	e.do(t, http.MethodPost, "/sessions", map[string]string{"display_name": "b"}, nil)
	code, _ = e.do(t, http.MethodPost, "/sessions", map[string]string{"display_name": "c"}, nil)
	if code != http.StatusServiceUnavailable {
		t.Errorf("over capacity status = %d", code)
	}
}

func TestLeaderboardFromStore(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	id, err := e.store.CreateSession(ctx, "tok1", "ada")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.store.FinishSession(ctx, models.SessionResult{SessionID: id, Status: models.SessionCleared, Score: 7, Shots: 3, Frames: 100}); err != nil {
		t.Fatal(err)
	}

	code, body := e.do(t, http.MethodGet, "/leaderboard?limit=500", nil, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["limit"].(float64) != 100 {
		t.Errorf("limit = %v, want clamp to 100", body["limit"])
	}
	entries := body["entries"].([]interface{})
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
}

func TestAdminAuthAndActions(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	db := e.store.DB()
	if err := admin.CreateAdminAccount(ctx, db, "ops", "Operator", "tok", []string{"super_admin"}); err != nil {
		t.Fatal(err)
	}
	hdr := map[string]string{"X-Admin-Name": "ops", "X-Admin-Token": "tok"}

	if code, _ := e.do(t, http.MethodGet, "/admin/sessions", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("no headers status = %d", code)
	}
	if code, _ := e.do(t, http.MethodGet, "/admin/sessions", nil, map[string]string{"X-Admin-Name": "ops", "X-Admin-Token": "bad"}); code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d", code)
	}

	ls, err := game.Manager.CreateSession(ctx, "ada")
	if err != nil {
		t.Fatal(err)
	}
	code, body := e.do(t, http.MethodGet, "/admin/sessions", nil, hdr)
	if code != http.StatusOK || body["active"].(float64) != 1 {
		t.Fatalf("list status=%d body=%v", code, body)
	}

	if code, _ := e.do(t, http.MethodDelete, "/admin/sessions/"+ls.Token, nil, hdr); code != http.StatusOK {
		t.Fatalf("close status = %d", code)
	}
	if code, _ := e.do(t, http.MethodDelete, "/admin/sessions/"+ls.Token, nil, hdr); code != http.StatusNotFound {
		t.Errorf("second close status = %d", code)
	}

	code, body = e.do(t, http.MethodGet, "/admin/audit", nil, hdr)
	if code != http.StatusOK {
		t.Fatalf("audit status = %d", code)
	}
	// failed auth + successful close + failed close
	if logs := body["logs"].([]interface{}); len(logs) != 3 {
		t.Errorf("audit entries = %d, want 3", len(logs))
	}
}

func TestAdminRuntimeConfig(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	db := e.store.DB()
	if err := admin.CreateAdminAccount(ctx, db, "ops", "Operator", "tok", nil); err != nil {
		t.Fatal(err)
	}
	hdr := map[string]string{"X-Admin-Name": "ops", "X-Admin-Token": "tok"}

	code, body := e.do(t, http.MethodGet, "/admin/config", nil, hdr)
	if code != http.StatusOK || len(body["configs"].([]interface{})) == 0 {
		t.Fatalf("config status=%d body=%v", code, body)
	}

	if code, _ := e.do(t, http.MethodPut, "/admin/config/max_sessions", map[string]string{"value": "-1"}, hdr); code != http.StatusBadRequest {
		t.Errorf("negative value status = %d", code)
	}
	if code, _ := e.do(t, http.MethodPut, "/admin/config/max_sessions", map[string]string{"value": "9"}, hdr); code != http.StatusOK {
		t.Fatalf("update status = %d", code)
	}
	if e.cfg.MaxSessions != 9 {
		t.Errorf("MaxSessions = %d, want 9 after update", e.cfg.MaxSessions)
	}
}

func TestParseLimit(t *testing.T) {
	cases := map[string]int{"": 10, "abc": 10, "-3": 10, "5": 5, "1000": 50}
	for in, want := range cases {
		if got := parseLimit(in, 10, 50); got != want {
			t.Errorf("parseLimit(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestNormalizePlayerName(t *testing.T) {
	cases := map[string]string{
		"":                                  "guest",
		"  ada  ":                           "ada",
		"jo_e.b-1":                          "jo_e.b-1",
		"bad;name":                          "",
		"ÉLodie 2":                          "ÉLodie 2",
		"x12345678901234567890123456789012": "",
	}
	for in, want := range cases {
		if got := normalizePlayerName(in); got != want {
			t.Errorf("normalizePlayerName(%q) = %q, want %q", in, got, want)
		}
	}
}
