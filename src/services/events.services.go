package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	EventsChannel = "movienest:events"
	writeWait     = 10 * time.Second
	pingPeriod    = 30 * time.Second
	sendBuffer    = 16
)

// Event is one catalog change pushed to websocket clients.
type Event struct {
	Type string    `json:"type"`
	ID   uint      `json:"id"`
	At   time.Time `json:"at"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// EventHub fans catalog events out to websocket clients. With a redis client
// events travel through EventsChannel so every API instance sees them;
// without one they stay local.
type EventHub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	rdb      *redis.Client
	upgrader websocket.Upgrader
}

func NewEventHub(rdb *redis.Client) *EventHub {
	return &EventHub{
		clients: make(map[*client]struct{}),
		rdb:     rdb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Publish implements utils.Notifier.
func (h *EventHub) Publish(eventType string, id uint) {
	payload, err := json.Marshal(Event{Type: eventType, ID: id, At: time.Now().UTC()})
	if err != nil {
		return
	}
	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := h.rdb.Publish(ctx, EventsChannel, payload).Err()
		if err == nil {
			return
		}
		log.Warn().Err(err).Msg("[WS] publish failed, broadcasting locally")
	}
	h.broadcast(payload)
}

// Run relays EventsChannel to local clients until ctx is done.
func (h *EventHub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	sub := h.rdb.Subscribe(ctx, EventsChannel)
	defer sub.Close()
	log.Info().Str("channel", EventsChannel).Msg("[WS] subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *EventHub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// slow client
			h.drop(c)
		}
	}
}

// ClientCount reports the number of connected websocket clients.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *EventHub) WebSocketHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[WS] upgrade failed")
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("[WS] client connected")

	go h.writeLoop(cl)
	h.readLoop(cl)
}

// readLoop discards client messages and unregisters the client on close.
func (h *EventHub) readLoop(cl *client) {
	defer func() {
		h.mu.Lock()
		h.drop(cl)
		h.mu.Unlock()
	}()
	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(2 * pingPeriod))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(2 * pingPeriod))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventHub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drop must be called with h.mu held.
func (h *EventHub) drop(cl *client) {
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}
