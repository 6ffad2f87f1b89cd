package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes readings to connected websocket clients. Clients whose write
// fails are dropped.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool

	published atomic.Int64
	dropped   atomic.Int64
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	return clients
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Publish broadcasts r as a JSON text message.
func (h *Hub) Publish(r Reading) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	h.published.Add(1)
	for _, c := range h.snapshot() {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = c.Close()
			h.remove(c)
			h.dropped.Add(1)
		}
	}
	return nil
}

// Handler serves /ws and /metrics.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "readings %d\nclients %d\ndropped %d\n", h.published.Load(), h.Clients(), h.dropped.Load())
	})
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.add(conn)
	defer func() {
		h.remove(conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() error {
	for _, c := range h.snapshot() {
		_ = c.Close()
		h.remove(c)
	}
	return nil
}

// Serve runs the hub's HTTP endpoints on addr in the background. Shut the
// returned server down to stop it.
func (h *Hub) Serve(addr string, logger *slog.Logger) *http.Server {
	server := &http.Server{Addr: addr, Handler: h.Handler()}
	go func() {
		if logger != nil {
			logger.Info("publish http listening", "addr", addr)
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && logger != nil {
			logger.Error("publish http", "error", err)
		}
	}()
	return server
}
