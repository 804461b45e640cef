package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/cafe-api/metrics"
	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event is what admin dashboards receive on the order feed. PlaySound is set
// for new orders so the dashboard can ring.
type Event struct {
	Type         string       `json:"type"`
	Order        models.Order `json:"order"`
	PendingCount int64        `json:"pending_count"`
	PlaySound    bool         `json:"play_sound,omitempty"`
}

// Publisher forwards an encoded event to other API instances.
type Publisher interface {
	Publish(ctx context.Context, data []byte) error
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans order events out to every connected admin websocket.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	publisher Publisher
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// SetPublisher makes Broadcast also forward events to p.
func (h *Hub) SetPublisher(p Publisher) {
	h.mu.Lock()
	h.publisher = p
	h.mu.Unlock()
}

// Broadcast delivers ev to local clients and, when a publisher is set, to
// the other instances.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("❌ Failed to encode order event")
		return
	}
	h.deliver(data)

	h.mu.Lock()
	p := h.publisher
	h.mu.Unlock()
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Publish(ctx, data); err != nil {
		log.WithError(err).Warn("Failed to publish order event")
	}
}

// deliver queues data on every client. A client whose buffer is full is
// dropped rather than stalling the others.
func (h *Hub) deliver(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			h.removeLocked(cl)
		}
	}
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		h.removeLocked(cl)
	}
}

func (h *Hub) add(cl *client) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.OrderFeedClients.Set(float64(n))
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	h.removeLocked(cl)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(cl *client) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
	metrics.OrderFeedClients.Set(float64(len(h.clients)))
}

// ServeWS upgrades the request and streams events until the client leaves.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Order feed upgrade failed")
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(cl)
	log.WithField("remote", c.ClientIP()).Info("🔌 Order feed client connected")

	go cl.writePump()
	cl.readPump()

	h.remove(cl)
	log.WithField("remote", c.ClientIP()).Info("Order feed client disconnected")
}

// readPump discards incoming messages; it exists to notice closes and pongs.
func (cl *client) readPump() {
	defer cl.conn.Close()
	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
