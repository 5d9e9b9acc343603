// Package ws pushes analysis run progress to connected dashboard clients.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"PerpParity/internal/domain/models"
	applogger "PerpParity/pkg/logger"
)

// Event types pushed to clients.
const (
	TypeAssetDone   = "asset_done"
	TypeRunComplete = "run_complete"
)

type event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser dashboards connect cross-origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub maintains the set of active clients and broadcasts run progress.
// It implements repository.ProgressSink.
type Hub struct {
	log        *applogger.Logger
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	quit       chan struct{}
	once       sync.Once
}

// NewHub creates a progress hub. Call Start before serving connections.
func NewHub(log *applogger.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		quit:       make(chan struct{}),
	}
}

// Start runs the hub loop.
func (h *Hub) Start() {
	go h.run()
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.quit) })
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("ws client connected", applogger.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop it rather than stall the run.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Serve upgrades an HTTP request to a websocket connection.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", applogger.Error(err))
		return err
	}
	cl := newClient(h, conn)
	h.register <- cl
	go cl.writePump()
	go cl.readPump()
	return nil
}

// AssetDone broadcasts one finished per-asset analysis.
func (h *Hub) AssetDone(analysis models.AssetAnalysis) {
	h.send(event{Type: TypeAssetDone, Data: analysis})
}

// RunComplete broadcasts the final per-type summaries.
func (h *Hub) RunComplete(summaries []models.AssetTypeSummary) {
	h.send(event{Type: TypeRunComplete, Data: summaries})
}

func (h *Hub) send(ev event) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws marshal", applogger.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	default:
		h.log.Warn("ws broadcast buffer full, dropping event",
			applogger.String("type", ev.Type))
	}
}
