package http

import (
	"chatrouter/internal/app/domain/message"
	"chatrouter/internal/app/domain/participants"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/pkg/logger"
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func newTestRouter(t *testing.T) (*Router, *participants.Tracker) {
	t.Helper()

	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	require.NoError(t, manager.Update(func(cfg *config.Config) {
		cfg.App.AuthToken = "secret"
		cfg.App.GinMode = gin.TestMode
		cfg.Twitch.Channel = "streamer"
	}))

	tracker := participants.New(0)
	ws := func(c *gin.Context) { c.String(http.StatusTeapot, "ws") }
	return NewRouter(logger.New(logger.Options{Stdout: io.Discard}), manager, tracker, ws), tracker
}

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_Participants(t *testing.T) {
	r, tracker := newTestRouter(t)
	tracker.MarkActive(message.ChatUser{ID: "1", Login: "alice"}, true)
	tracker.MarkActive(message.ChatUser{ID: "2", Login: "bob"}, true)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer secret", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/participants", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := serve(r, req)
			require.Equal(t, tt.want, w.Code)
			if tt.want != http.StatusOK {
				return
			}

			var body struct {
				Channel      string                `json:"channel"`
				Count        int                   `json:"count"`
				Participants []participants.Record `json:"participants"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "streamer", body.Channel)
			assert.Equal(t, 2, body.Count)
			assert.Len(t, body.Participants, 2)
		})
	}
}

func TestRouter_MetricsRequireBasicAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("admin", "secret")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_WebSocketRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
