package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrStationNotConnected is returned by Send when no connection is
// registered for the station.
var ErrStationNotConnected = errors.New("station not connected")

// Manager tracks the live websocket connection of each monitoring station.
// A station has at most one active connection; reconnecting under the same
// id replaces the previous one.
type Manager struct {
	mu       sync.RWMutex
	stations map[string]*websocket.Conn
}

func NewManager() *Manager {
	return &Manager{stations: make(map[string]*websocket.Conn)}
}

// Register makes conn the station's active connection. An existing
// connection for the same station is closed; its read loop will observe the
// close and unregister with the stale conn, which leaves the replacement
// untouched.
func (m *Manager) Register(stationID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.stations[stationID]; ok && old != conn && old != nil {
		_ = old.Close()
	}
	m.stations[stationID] = conn
}

// Unregister drops the station's registration, but only when conn is still
// the registered connection. The read loop of a replaced connection runs its
// cleanup after the replacement is already registered and must not tear the
// new session down.
func (m *Manager) Unregister(stationID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.stations[stationID]
	if !ok || current != conn {
		return
	}
	if current != nil {
		_ = current.Close()
	}
	delete(m.stations, stationID)
}

// Send writes a text message to the station's active connection.
func (m *Manager) Send(stationID string, payload []byte) error {
	m.mu.RLock()
	conn, ok := m.stations[stationID]
	m.mu.RUnlock()

	if !ok || conn == nil {
		return ErrStationNotConnected
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// IsConnected reports whether the station has an active connection.
func (m *Manager) IsConnected(stationID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.stations[stationID]
	return ok
}

// List returns the ids of all connected stations.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.stations))
	for id := range m.stations {
		ids = append(ids, id)
	}
	return ids
}
