package service

// Message types pushed to session subscribers
const (
	MsgDiagnosisUpdated = "diagnosis_updated"
	MsgDiagnosisEnded   = "diagnosis_ended"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}
