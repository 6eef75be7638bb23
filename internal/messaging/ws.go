package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type hub struct {
	threadID string
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
}

var (
	hubsMu sync.RWMutex
	hubs   = make(map[string]*hub)
)

func getHub(threadID string) *hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()
	if h, ok := hubs[threadID]; ok {
		return h
	}
	h := &hub{threadID: threadID, clients: make(map[*websocket.Conn]bool)}
	hubs[threadID] = h
	return h
}

func (h *hub) broadcast(evt wsEvent) {
	payload, _ := json.Marshal(evt)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.WriteMessage(websocket.TextMessage, payload)
	}
}

func (h *hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()
}

// BroadcastNewMessage pushes a message event to everyone watching the thread
func BroadcastNewMessage(threadID string, data interface{}) {
	getHub(threadID).broadcast(wsEvent{Type: "message:new", Data: data})
}

var upgrader = websocket.Upgrader{
	// The SPA is served from a different origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSThread - GET /ws/threads/:id; token comes via ?token= because browsers
// cannot set headers on websocket upgrades
func WSThread(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	threadID := c.Param("id")
	if threadID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing thread id"})
	}

	if _, err := threadParticipants(context.Background(), threadID, userID); err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "thread not found"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this thread"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h := getHub(threadID)
	h.register(conn)
	defer func() {
		h.unregister(conn)
		_ = conn.Close()
	}()

	// Read loop only detects disconnects; clients talk through the REST API
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}
