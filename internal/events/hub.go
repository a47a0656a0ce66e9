package events

import (
	"encoding/json"
	"log/slog"
)

// Hub fans serialized events out to connected dashboard sockets. Slow
// clients are dropped rather than allowed to block the rest.
type Hub struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	// closed is closed when Run exits so socket goroutines stop offering
	// register/unregister to a loop that no longer receives.
	closed chan struct{}
	log    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    map[*wsClient]bool{},
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 64),
		closed:     make(chan struct{}),
		log:        logger,
	}
}

// Run owns the client set. It exits when ctx from the caller is done; run
// it in its own goroutine.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			close(h.closed)
			for c := range h.clients {
				c.close()
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("dashboard socket connected", "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					c.close()
				}
			}
		}
	}
}

// Broadcast queues an event for all connected sockets. It never blocks: if
// the hub's queue is full the event is dropped and logged.
func (h *Hub) Broadcast(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal event", "type", ev.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- body:
	default:
		h.log.Warn("event feed backlogged, dropping event", "type", ev.Type)
	}
}
