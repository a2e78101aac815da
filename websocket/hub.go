package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	Address string
	Conn    Conn
}

type envelope struct {
	address string
	payload interface{}
}

// Hub fans notifications out to every live connection of an address.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}

	log zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 64),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds c to the hub. It is a no-op once Run has returned.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes and closes c. Once Run has returned it does so inline.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		h.remove(c)
	}
}

// Push queues payload for address. It never blocks the caller; when the
// queue is full the notification is still available from the inbox.
func (h *Hub) Push(address string, payload interface{}) {
	select {
	case h.broadcast <- envelope{address: address, payload: payload}:
	default:
		h.log.Warn().Str("address", address).Msg("broadcast queue full, dropping push")
	}
}

// DisconnectAddress closes every connection of address.
func (h *Hub) DisconnectAddress(address string) {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[address]))
	for c := range h.clients[address] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		h.Unregister(c)
	}
}

func (h *Hub) Connected(address string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[address])
}

// Run serves registrations and broadcasts until ctx is done. It must be
// called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.Address] == nil {
				h.clients[c.Address] = make(map[*Client]struct{})
			}
			h.clients[c.Address][c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug().Str("address", c.Address).Msg("client registered")
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.mu.RLock()
			targets := make([]*Client, 0, len(h.clients[msg.address]))
			for c := range h.clients[msg.address] {
				targets = append(targets, c)
			}
			h.mu.RUnlock()

			for _, c := range targets {
				if err := c.Conn.WriteJSON(msg.payload); err != nil {
					h.log.Warn().Err(err).Str("address", c.Address).Msg("error sending notification")
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.Address]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.Address)
	}
	_ = c.Conn.Close()
	h.log.Debug().Str("address", c.Address).Msg("client unregistered")
}
