package rest

import (
	"bytes"
	"context"
	"dronediag/internal/dataset"
	"dronediag/internal/model"
	"dronediag/internal/service"
	"dronediag/internal/transport/ws"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type memSessionCache struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func (c *memSessionCache) Set(_ context.Context, s *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	cp.History = append([]model.AnswerRecord{}, s.History...)
	c.sessions[s.ID] = cp
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

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	b, err := dataset.Default()
	if err != nil {
		t.Fatalf("failed to decode dataset: %v", err)
	}
	datasets := service.NewDatasetService(nil, nil, nil)
	if err := datasets.Use(b); err != nil {
		t.Fatalf("failed to install dataset: %v", err)
	}

	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	diag := service.NewDiagnosisService(datasets,
		&memSessionCache{sessions: map[string]model.Session{}},
		service.NewTokenService("router-test", time.Hour))
	diag.SetBroadcaster(hub)

	return NewRouter(&Container{
		DatasetService:   datasets,
		DiagnosisService: diag,
		WSHub:            hub,
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func start(t *testing.T, h http.Handler) service.StartResponse {
	t.Helper()
	rec := do(t, h, "POST", "/v1/diagnoses", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp service.StartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	return resp
}

func TestHealthAndDocs(t *testing.T) {
	h := newTestRouter(t)

	if rec := do(t, h, "GET", "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", rec.Code)
	}

	rec := do(t, h, "GET", "/swagger/doc.json", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from doc.json, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/diagnoses/{sessionId}/answers") {
		t.Error("expected the answers route in the api doc")
	}
}

func TestDiagnosisLifecycle(t *testing.T) {
	h := newTestRouter(t)
	resp := start(t, h)
	base := "/v1/diagnoses/" + resp.SessionID

	if resp.View.Question == nil || resp.View.Question.ID != "q_scene" {
		t.Fatalf("expected q_scene, got %+v", resp.View.Question)
	}

	if rec := do(t, h, "GET", base, "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
	other := start(t, h)
	if rec := do(t, h, "GET", base, other.Token, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with another session's token, got %d", rec.Code)
	}

	rec := do(t, h, "POST", base+"/answers", resp.Token, map[string]string{"questionId": "q_scene", "optionKey": "personal"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var view service.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Mode != model.ModeLight || view.Progress.Answered != 1 {
		t.Errorf("unexpected view %+v", view)
	}

	badRequests := []map[string]string{
		{"questionId": "q_scene", "optionKey": ""},
		{"questionId": "q_scene", "optionKey": "nope"},
		{"questionId": "q_industry", "optionKey": "mapping"},
	}
	for _, body := range badRequests {
		if rec := do(t, h, "POST", base+"/answers", resp.Token, body); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %v, got %d", body, rec.Code)
		}
	}

	if rec := do(t, h, "POST", base+"/back", resp.Token, nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from back, got %d", rec.Code)
	}
	if rec := do(t, h, "POST", base+"/reset", resp.Token, nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from reset, got %d", rec.Code)
	}

	if rec := do(t, h, "DELETE", base, resp.Token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from delete, got %d", rec.Code)
	}
	if rec := do(t, h, "GET", base, resp.Token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestStartRejectsBadPreference(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, "POST", "/v1/diagnoses", "", map[string]string{"preferredWeight": "heavy"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	rec = do(t, h, "POST", "/v1/diagnoses", "", map[string]string{"questionSetId": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		path string
		want int
	}{
		{"/v1/categories", http.StatusOK},
		{"/v1/categories/survey", http.StatusOK},
		{"/v1/categories/nope", http.StatusNotFound},
		{"/v1/products", http.StatusOK},
		{"/v1/products?category=dev", http.StatusOK},
		{"/v1/products/mavic3e", http.StatusOK},
		{"/v1/products/nope", http.StatusNotFound},
		{"/v1/question-sets/dynamic", http.StatusOK},
		{"/v1/question-sets/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if rec := do(t, h, "GET", tt.path, "", nil); rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}

	rec := do(t, h, "GET", "/v1/categories/survey", "", nil)
	var detail service.CategoryDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode category: %v", err)
	}
	if detail.Primary == nil || detail.Primary.ID != "mavic3e" {
		t.Errorf("expected mavic3e primary, got %+v", detail.Primary)
	}
}

func TestPreflight(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, "OPTIONS", "/v1/diagnoses/anything/answers", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected wildcard origin")
	}
}

func TestDiagnosisWebSocket(t *testing.T) {
	h := newTestRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp := start(t, h)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/diagnoses/" + resp.SessionID

	if _, res, err := websocket.DefaultDialer.Dial(url+"?token=bad", nil); err == nil {
		t.Fatal("expected the dial to fail with a bad token")
	} else if res == nil || res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", res)
	}

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+resp.Token, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	type viewMsg struct {
		Type    ws.MessageType `json:"type"`
		Payload struct {
			Mode     model.Mode `json:"mode"`
			Progress struct {
				Answered int `json:"answered"`
			} `json:"progress"`
			Error string `json:"error"`
		} `json:"payload"`
	}
	read := func() viewMsg {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg viewMsg
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		return msg
	}

	if msg := read(); msg.Type != ws.MsgDiagnosisUpdated || msg.Payload.Mode != model.ModeUndetermined {
		t.Fatalf("expected the initial view, got %+v", msg)
	}

	if err := conn.WriteJSON(ws.Command{Type: ws.CmdAnswer, QuestionID: "q_scene", OptionKey: "work"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	msg := read()
	if msg.Type != ws.MsgDiagnosisUpdated || msg.Payload.Mode != model.ModePro || msg.Payload.Progress.Answered != 1 {
		t.Errorf("expected a pro update, got %+v", msg)
	}

	if err := conn.WriteJSON(ws.Command{Type: ws.CmdAnswer, QuestionID: "q_weight", OptionKey: "under100"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if msg := read(); msg.Type != ws.MsgError || msg.Payload.Error == "" {
		t.Errorf("expected an error for an inactive question, got %+v", msg)
	}

	if rec := do(t, h, "POST", "/v1/diagnoses/"+resp.SessionID+"/back", resp.Token, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from back, got %d", rec.Code)
	}
	if msg := read(); msg.Payload.Progress.Answered != 0 {
		t.Errorf("expected the REST back to reach the socket, got %+v", msg)
	}
}
