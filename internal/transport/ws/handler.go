package ws

import (
	"context"
	"dronediag/internal/service"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	commandTimeout = 5 * time.Second
)

// Command is a client request sent over the socket
type Command struct {
	Type       MessageType `json:"type"`
	QuestionID string      `json:"questionId,omitempty"`
	OptionKey  string      `json:"optionKey,omitempty"`
}

// Handler handles WebSocket connections
type Handler struct {
	hub          *Hub
	diagnosisSvc *service.DiagnosisService
	upgrader     websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. checkOrigin may be nil to
// accept any origin.
func NewHandler(hub *Hub, diagnosisSvc *service.DiagnosisService, checkOrigin func(*http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub:          hub,
		diagnosisSvc: diagnosisSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// DiagnosisWS handles GET /v1/ws/diagnoses/{sessionId}?token=
func (h *Handler) DiagnosisWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if err := h.diagnosisSvc.Tokens().Authorize(token, sessionID); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	view, err := h.diagnosisSvc.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "session", sessionID, "error", err)
		return
	}

	conn := h.hub.NewConnection(sessionID)
	h.hub.Register(conn)
	h.hub.SendTo(conn, MsgDiagnosisUpdated, view)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read failed", "session", conn.SessionID, "error", err)
			}
			break
		}
		h.handleCommand(conn, data)
	}
}

// handleCommand runs a client command. Successful transitions reach every
// watcher through the service's broadcaster; failures go back to the sender.
func (h *Handler) handleCommand(conn *Connection, data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		h.hub.SendTo(conn, MsgError, map[string]string{"error": "invalid command"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var err error
	switch cmd.Type {
	case CmdAnswer:
		_, err = h.diagnosisSvc.Answer(ctx, conn.SessionID, cmd.QuestionID, cmd.OptionKey)
	case CmdBack:
		_, err = h.diagnosisSvc.Back(ctx, conn.SessionID)
	case CmdReset:
		_, err = h.diagnosisSvc.Reset(ctx, conn.SessionID)
	default:
		h.hub.SendTo(conn, MsgError, map[string]string{"error": "unknown command " + string(cmd.Type)})
		return
	}
	if err != nil {
		h.hub.SendTo(conn, MsgError, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
