// Package ws fans simulated ride progress out to connected passenger
// clients over WebSocket.
package ws

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// ProgressMessage is the JSON frame pushed to a passenger for their active
// ride.
type ProgressMessage struct {
	Event       string `json:"event"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	Pickup      string `json:"pickup,omitempty"`
	Dropoff     string `json:"dropoff,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`
	DriverName  string `json:"driver_name,omitempty"`
}

// session wraps a connection with a write lock; gorilla/websocket allows
// one concurrent writer.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) send(msg ProgressMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(msg)
}

// Registry holds at most one live connection per rider.
type Registry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewRegistry creates an empty connection registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Add registers a rider's connection, replacing and closing any prior one.
func (r *Registry) Add(riderID string, conn *websocket.Conn) {
	r.mu.Lock()
	prev := r.sessions[riderID]
	r.sessions[riderID] = &session{conn: conn}
	r.mu.Unlock()

	if prev != nil {
		_ = prev.conn.Close()
	}
}

// Remove drops a rider's connection if it is still the registered one.
func (r *Registry) Remove(riderID string, conn *websocket.Conn) {
	r.mu.Lock()
	if s, ok := r.sessions[riderID]; ok && s.conn == conn {
		delete(r.sessions, riderID)
	}
	r.mu.Unlock()
}

// Publish sends a progress frame to the rider's connection, if any. A
// write failure drops the connection; the client reconnects and polls the
// REST snapshot in the meantime.
func (r *Registry) Publish(riderID string, msg ProgressMessage) {
	r.mu.RLock()
	s, ok := r.sessions[riderID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	if err := s.send(msg); err != nil {
		r.logger.Warn("ws send failed, dropping connection", "rider_id", riderID, "error", err)
		_ = s.conn.Close()
		r.Remove(riderID, s.conn)
	}
}
