package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server message types
const (
	MsgDiagnosisUpdated MessageType = "diagnosis_updated"
	MsgDiagnosisEnded   MessageType = "diagnosis_ended"
	MsgError            MessageType = "error"
)

// Client command types
const (
	CmdAnswer MessageType = "answer"
	CmdBack   MessageType = "back"
	CmdReset  MessageType = "reset"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans diagnosis updates out to every connection watching a session
type Hub struct {
	// sessionID -> connections
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to deliver. A nil To means every connection
// of the session. Close drops the session's connections instead.
type BroadcastMessage struct {
	SessionID string
	To        *Connection
	Message   *Message
	Close     bool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

// NewConnection creates a connection bound to sessionID
func (h *Hub) NewConnection(sessionID string) *Connection {
	return &Connection{
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		Hub:       h,
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id := range h.conns {
				h.closeSession(id)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]bool)
			}
			h.conns[conn.SessionID][conn] = true
			slog.Debug("ws connected", "session", conn.SessionID, "watchers", len(h.conns[conn.SessionID]))
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.SessionID]; ok && set[conn] {
				delete(set, conn)
				close(conn.Send)
				if len(set) == 0 {
					delete(h.conns, conn.SessionID)
				}
				slog.Debug("ws disconnected", "session", conn.SessionID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Close {
				h.mu.Lock()
				h.closeSession(msg.SessionID)
				h.mu.Unlock()
				continue
			}

			data, err := json.Marshal(msg.Message)
			if err != nil {
				slog.Error("failed to encode ws message", "type", msg.Message.Type, "error", err)
				continue
			}

			h.mu.RLock()
			set := h.conns[msg.SessionID]
			for conn := range set {
				if msg.To != nil && msg.To != conn {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// closeSession must be called with mu held
func (h *Hub) closeSession(id string) {
	for conn := range h.conns[id] {
		close(conn.Send)
	}
	delete(h.conns, id)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Watchers returns how many connections follow a session
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// BroadcastToSession sends a message to every connection of a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	h.enqueue(sessionID, nil, MessageType(msgType), payload)
}

// DisconnectSession closes every connection of a session (implements
// service.Broadcaster). Messages queued before the call are delivered first.
func (h *Hub) DisconnectSession(sessionID string) {
	select {
	case h.broadcast <- &BroadcastMessage{SessionID: sessionID, Close: true}:
	case <-h.done:
	}
}

// SendTo delivers a message to a single connection
func (h *Hub) SendTo(conn *Connection, msgType MessageType, payload interface{}) {
	h.enqueue(conn.SessionID, conn, msgType, payload)
}

// Close stops the hub and closes every connection
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) enqueue(sessionID string, to *Connection, msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode ws payload", "type", msgType, "error", err)
		return
	}
	msg := &BroadcastMessage{
		SessionID: sessionID,
		To:        to,
		Message:   &Message{Type: msgType, Payload: data},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}
