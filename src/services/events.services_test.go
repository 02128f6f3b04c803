package services

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *EventHub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", hub.WebSocketHandler)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestEventHub_LocalBroadcast(t *testing.T) {
	hub := NewEventHub(nil)
	conn := dial(t, hub)

	hub.Publish("movie.created", 7)

	ev := readEvent(t, conn)
	assert.Equal(t, "movie.created", ev.Type)
	assert.Equal(t, uint(7), ev.ID)
}

func TestEventHub_ThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hub := NewEventHub(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	conn := dial(t, hub)
	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels(EventsChannel)) == 1
	}, time.Second, 10*time.Millisecond)

	other := NewEventHub(rdb)
	other.Publish("recommended.deleted", 3)

	ev := readEvent(t, conn)
	assert.Equal(t, "recommended.deleted", ev.Type)
	assert.Equal(t, uint(3), ev.ID)
}
