package services

import (
	"sync"
	"time"
)

const (
	ProjectEventCreated = "created"
	ProjectEventUpdated = "updated"
	ProjectEventDeleted = "deleted"
	ProjectEventScanned = "scanned"
)

// ProjectEvent is pushed to SSE clients whenever the registry changes
type ProjectEvent struct {
	Type       string    `json:"type"` // created, updated, deleted, scanned
	ProjectID  uint      `json:"project_id"`
	Name       string    `json:"name,omitempty"`
	FolderName string    `json:"folder_name,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SSEHub manages SSE client connections and event broadcasting
type SSEHub struct {
	clients map[string]chan ProjectEvent
	mu      sync.RWMutex
}

// NewSSEHub creates a new SSE hub instance
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]chan ProjectEvent),
	}
}

// Subscribe registers a new client and returns a channel for receiving events
func (h *SSEHub) Subscribe(clientID string) <-chan ProjectEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan ProjectEvent, 100)
	h.clients[clientID] = ch
	return ch
}

// Unsubscribe removes a client from the hub
func (h *SSEHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[clientID]; ok {
		close(ch)
		delete(h.clients, clientID)
	}
}

// Publish broadcasts an event to all connected clients
func (h *SSEHub) Publish(event ProjectEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		// Non-blocking send - drop event if client buffer is full
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients
func (h *SSEHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var globalSSEHub *SSEHub
var sseHubOnce sync.Once

// GetSSEHub returns the global SSE hub singleton
func GetSSEHub() *SSEHub {
	sseHubOnce.Do(func() {
		globalSSEHub = NewSSEHub()
	})
	return globalSSEHub
}

// PublishProjectEvent is a convenience function to publish registry events
func PublishProjectEvent(eventType string, id uint, name, folderName string) {
	GetSSEHub().Publish(ProjectEvent{
		Type:       eventType,
		ProjectID:  id,
		Name:       name,
		FolderName: folderName,
		Timestamp:  time.Now().UTC(),
	})
}
