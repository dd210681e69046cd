package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiards/internal/config"
)

func newEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/ws", WebSocketCORSCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func upgradeRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestWebSocketOriginDevelopment(t *testing.T) {
	r := newEngine(&config.Config{Environment: "development"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, upgradeRequest("http://localhost:5173"))
	if w.Code != http.StatusOK {
		t.Fatalf("localhost origin: got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, upgradeRequest("https://evil.example"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: got %d", w.Code)
	}
}

func TestWebSocketOriginProduction(t *testing.T) {
	r := newEngine(&config.Config{Environment: "production", FrontendURL: "https://pool.example, https://alt.example/"})

	for origin, want := range map[string]int{
		"https://pool.example":  http.StatusOK,
		"https://alt.example":   http.StatusOK,
		"http://localhost:5173": http.StatusForbidden,
		"":                      http.StatusOK,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, upgradeRequest(origin))
		if w.Code != want {
			t.Errorf("origin %q: got %d, want %d", origin, w.Code, want)
		}
	}
}

func TestCORSPreflightAllowsAdminHeaders(t *testing.T) {
	r := newEngine(&config.Config{Environment: "development"})
	req := httptest.NewRequest(http.MethodOptions, "/ws", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "X-Admin-Token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight: got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}
}
