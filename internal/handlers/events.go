// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/screenflow/core/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Hub fans store changes out to websocket subscribers.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	origin   string
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	// version of the newest state queued, valid once queued is set.
	version uint64
	queued  bool
}

func NewHub(origin string) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		origin:  origin,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return h.origin == "*" || origin == "" || origin == h.origin
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends state to every subscriber. A subscriber that has fallen
// too far behind is disconnected.
func (h *Hub) Broadcast(state models.State) {
	msg, err := json.Marshal(state)
	if err != nil {
		log.Printf("Error encoding state: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.queueLocked(c, state.Version, msg)
	}
}

func (h *Hub) queue(c *client, version uint64, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.queueLocked(c, version, msg)
	}
}

// queueLocked hands msg to the client unless it already has the same or a
// newer state queued.
func (h *Hub) queueLocked(c *client, version uint64, msg []byte) {
	if c.queued && version <= c.version {
		return
	}
	select {
	case c.send <- msg:
		c.version, c.queued = version, true
	default:
		h.removeLocked(c)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// EventsHandler upgrades to a websocket and pushes the editor state after
// every change, starting with the current state.
func (a *API) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := a.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}

	// Registered before the state is read; queue drops a stale copy.
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	a.hub.add(c)

	state := a.coord.Store().State()
	initial, err := json.Marshal(state)
	if err != nil {
		log.Printf("Error encoding state: %v", err)
		a.hub.remove(c)
		conn.Close()
		return
	}
	a.hub.queue(c, state.Version, initial)

	go c.writePump()
	c.readPump(a.hub)
}

// readPump discards client messages and unregisters the client once the
// connection drops.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Event stream closed: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
