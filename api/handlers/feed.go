package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// FeedHub fans community feed events out to every connected client
type FeedHub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

// NewFeedHub returns an empty hub ready to accept connections
func NewFeedHub() *FeedHub {
	return &FeedHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeWS upgrades the request and registers the connection on the feed
func (h *FeedHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "error", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
	zap.S().Infow("client connected to /ws/feed", "remoteAddr", conn.RemoteAddr().String())

	// Drain the connection; the feed is write-only
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	h.mutex.Lock()
	delete(h.clients, conn)
	h.mutex.Unlock()
	conn.Close()
	zap.S().Infow("client disconnected from /ws/feed", "remoteAddr", conn.RemoteAddr().String())
}

// Broadcast delivers one event to all connected clients. Connections that
// fail to write are dropped from the hub.
func (h *FeedHub) Broadcast(event string, data interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.clients {
		err := conn.WriteJSON(map[string]interface{}{
			"event": event,
			"data":  data,
		})
		if err != nil {
			zap.S().Errorw("error broadcasting feed event", "event", event, "error", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Len returns the number of connected clients
func (h *FeedHub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
