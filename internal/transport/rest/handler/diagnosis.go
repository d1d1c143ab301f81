package handler

import (
	"dronediag/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// AnswerRequest is the body of POST /v1/diagnoses/{sessionId}/answers
type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	OptionKey  string `json:"optionKey"`
}

// DiagnosisHandler handles diagnosis session endpoints
type DiagnosisHandler struct {
	diagnosisSvc *service.DiagnosisService
}

// NewDiagnosisHandler creates a new diagnosis handler
func NewDiagnosisHandler(diagnosisSvc *service.DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{diagnosisSvc: diagnosisSvc}
}

// Start handles POST /v1/diagnoses
//
//	@Summary	Start a diagnosis
//	@Tags		diagnoses
//	@Accept		json
//	@Produce	json
//	@Param		body	body		service.StartRequest	false	"entry preferences"
//	@Success	201		{object}	service.StartResponse
//	@Failure	400		{object}	map[string]string
//	@Router		/diagnoses [post]
func (h *DiagnosisHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req service.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.diagnosisSvc.Start(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/diagnoses/{sessionId}
//
//	@Summary	Current diagnosis view
//	@Tags		diagnoses
//	@Produce	json
//	@Param		sessionId	path		string	true	"session id"
//	@Success	200			{object}	service.View
//	@Failure	404			{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/diagnoses/{sessionId} [get]
func (h *DiagnosisHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.diagnosisSvc.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Answer handles POST /v1/diagnoses/{sessionId}/answers
//
//	@Summary	Answer a question
//	@Tags		diagnoses
//	@Accept		json
//	@Produce	json
//	@Param		sessionId	path		string			true	"session id"
//	@Param		body		body		AnswerRequest	true	"selected option"
//	@Success	200			{object}	service.View
//	@Failure	400			{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/diagnoses/{sessionId}/answers [post]
func (h *DiagnosisHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.diagnosisSvc.Answer(r.Context(), mux.Vars(r)["sessionId"], req.QuestionID, req.OptionKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Back handles POST /v1/diagnoses/{sessionId}/back
//
//	@Summary	Undo the last answer
//	@Tags		diagnoses
//	@Produce	json
//	@Param		sessionId	path		string	true	"session id"
//	@Success	200			{object}	service.View
//	@Security	BearerAuth
//	@Router		/diagnoses/{sessionId}/back [post]
func (h *DiagnosisHandler) Back(w http.ResponseWriter, r *http.Request) {
	view, err := h.diagnosisSvc.Back(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Reset handles POST /v1/diagnoses/{sessionId}/reset
//
//	@Summary	Clear every answer
//	@Tags		diagnoses
//	@Produce	json
//	@Param		sessionId	path		string	true	"session id"
//	@Success	200			{object}	service.View
//	@Security	BearerAuth
//	@Router		/diagnoses/{sessionId}/reset [post]
func (h *DiagnosisHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.diagnosisSvc.Reset(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// End handles DELETE /v1/diagnoses/{sessionId}
//
//	@Summary	Discard a diagnosis
//	@Tags		diagnoses
//	@Param		sessionId	path	string	true	"session id"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/diagnoses/{sessionId} [delete]
func (h *DiagnosisHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.diagnosisSvc.End(r.Context(), mux.Vars(r)["sessionId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
