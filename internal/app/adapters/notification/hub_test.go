package notification

import (
	"chatrouter/pkg/logger"
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logger.New(logger.Options{Stdout: io.Discard}))
	r := gin.New()
	r.GET("/ws", hub.Handler)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, hub *Hub, url string, want int) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Len() == want }, time.Second, 5*time.Millisecond)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestHub_BroadcastsInOrder(t *testing.T) {
	hub, url := newTestHub(t)
	a := dial(t, hub, url, 1)
	b := dial(t, hub, url, 2)

	require.NoError(t, hub.Notify("chat:rewardredemption", map[string]string{"id": "highlight-message"}))
	require.NoError(t, hub.Notify("chat:message", map[string]string{"text": "gg"}))

	for _, conn := range []*websocket.Conn{a, b} {
		first := readEnvelope(t, conn)
		assert.Equal(t, "chat:rewardredemption", first["event"])
		assert.Equal(t, map[string]any{"id": "highlight-message"}, first["data"])

		second := readEnvelope(t, conn)
		assert.Equal(t, "chat:message", second["event"])
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, url := newTestHub(t)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_NotifyWithoutClients(t *testing.T) {
	hub := NewHub(logger.New(logger.Options{Stdout: io.Discard}))
	assert.NoError(t, hub.Notify("chat:message", "hello"))
}

func TestHub_NotifyMarshalError(t *testing.T) {
	hub := NewHub(logger.New(logger.Options{Stdout: io.Discard}))
	assert.Error(t, hub.Notify("chat:message", make(chan int)))
}
