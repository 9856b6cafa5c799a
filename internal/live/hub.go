// Package live pushes order updates to customers over websockets.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client serialises writes on one connection; gorilla allows a single
// concurrent writer.
type client struct {
	wmu  sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub holds the open connections of every owner.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]*client)}
}

func (h *Hub) add(owner string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[owner] == nil {
		h.conns[owner] = make(map[*websocket.Conn]*client)
	}
	h.conns[owner][c] = &client{conn: c}
}

func (h *Hub) remove(owner string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(owner, c)
}

// drop requires h.mu.
func (h *Hub) drop(owner string, c *websocket.Conn) {
	if _, ok := h.conns[owner][c]; !ok {
		return
	}
	delete(h.conns[owner], c)
	if len(h.conns[owner]) == 0 {
		delete(h.conns, owner)
	}
	c.Close()
}

// Count is the number of open connections of owner.
func (h *Hub) Count(owner string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[owner])
}

// Notify writes v as JSON to every connection of owner. Writes happen
// outside the hub lock. Connections that fail the write are closed and
// forgotten.
func (h *Hub) Notify(owner string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[live] encode error: %v", err)
		return
	}
	h.mu.Lock()
	targets := make([]*client, 0, len(h.conns[owner]))
	for _, c := range h.conns[owner] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			log.Printf("[live] write error owner=%s: %v", owner, err)
			h.remove(owner, c.conn)
		}
	}
}

// Serve upgrades the request and keeps the connection registered under
// owner until the client goes away.
func (h *Hub) Serve(c *gin.Context, owner string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[live] upgrade error: %v", err)
		return
	}
	h.add(owner, conn)
	log.Printf("[live] subscribed owner=%s open=%d", owner, h.Count(owner))
	defer h.remove(owner, conn)

	// inbound frames are ignored; reading surfaces the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Handler serves the websocket for the owner ownerOf resolves.
func (h *Hub) Handler(ownerOf func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.Serve(c, ownerOf(c))
	}
}
