package service

import (
	"context"
	"dronediag/internal/dataset"
	"dronediag/internal/model"
	"sync"
	"testing"
)

type memSessionCache struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{sessions: make(map[string]model.Session)}
}

func (c *memSessionCache) Set(_ context.Context, session *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *session
	cp.History = append([]model.AnswerRecord(nil), session.History...)
	c.sessions[session.ID] = cp
	return nil
}

func (c *memSessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	s.History = append([]model.AnswerRecord{}, s.History...)
	return &s, nil
}

func (c *memSessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

type broadcastCall struct {
	sessionID string
	msgType   string
	payload   interface{}
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	calls        []broadcastCall
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{sessionID, msgType, payload})
}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

func (b *recordingBroadcaster) count(msgType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.msgType == msgType {
			n++
		}
	}
	return n
}

func newTestDatasets(t *testing.T) *DatasetService {
	t.Helper()
	b, err := dataset.Default()
	if err != nil {
		t.Fatalf("failed to decode embedded dataset: %v", err)
	}
	ds := NewDatasetService(nil, nil, nil)
	if err := ds.Use(b); err != nil {
		t.Fatalf("failed to install dataset: %v", err)
	}
	return ds
}
