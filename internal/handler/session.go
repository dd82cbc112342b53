package handler

import (
	"errors"
	"net/http"

	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// SessionHandler handles HTTP requests for generator sessions.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// HandleCreate handles POST /api/v1/sessions requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Create(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /api/v1/session requests.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateConfig handles PATCH /api/v1/session/config requests.
func (h *SessionHandler) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.UpdateConfigRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	resp, err := h.service.UpdateConfig(r.Context(), sessionID, req)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRegenerate handles POST /api/v1/session/regenerate requests.
func (h *SessionHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Regenerate(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/session requests.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), sessionID); err != nil {
		writeSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
