package engine

import "sync"

// Hub tracks the spectator connections watching each hostel's allocation
// progress. Registrations are transient and never persisted.
type Hub struct {
	mu      sync.RWMutex
	viewers map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{viewers: make(map[string]map[*Client]struct{})}
}

// Subscribe registers the client as a viewer of the hostel.
func (h *Hub) Subscribe(hostelID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.viewers[hostelID]
	if !ok {
		set = make(map[*Client]struct{})
		h.viewers[hostelID] = set
	}
	set[c] = struct{}{}
}

// Unsubscribe removes the client from the hostel's viewer set.
func (h *Hub) Unsubscribe(hostelID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.viewers[hostelID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.viewers, hostelID)
	}
}

// Drop removes the client from every viewer set it belongs to. Called when
// the connection closes so no dangling reference survives.
func (h *Hub) Drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for hostelID, set := range h.viewers {
		delete(set, c)
		if len(set) == 0 {
			delete(h.viewers, hostelID)
		}
	}
}

// Broadcast sends the frame to every current viewer of the hostel.
func (h *Hub) Broadcast(hostelID string, frame Frame) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.viewers[hostelID]))
	for c := range h.viewers[hostelID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(frame)
	}
}

// ViewerCount reports how many connections watch the hostel.
func (h *Hub) ViewerCount(hostelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers[hostelID])
}
