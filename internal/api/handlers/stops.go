package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"petex-service/internal/api/dto"
	"petex-service/internal/domain"
	"petex-service/internal/ports"
)

// StopHandler lets drivers record delivery attempt outcomes.
type StopHandler struct {
	Reader ports.RouteReader
}

// UpdateStatus serves POST /stops/{id}/status with a delivered/failed
// outcome and an optional note.
func (h *StopHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/stops/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}
	stopID := parts[0]

	var req dto.StopStatusRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if !domain.ValidStopTransition(req.Status) {
		writeError(w, r, http.StatusBadRequest, "status must be delivered or failed")
		return
	}

	err := h.Reader.UpdateStopStatus(r.Context(), stopID, req.Status, strings.TrimSpace(req.Note))
	if err != nil {
		if errors.Is(err, domain.ErrStopNotFound) {
			writeError(w, r, http.StatusNotFound, "stop not found")
			return
		}

		log.Printf("update stop status failed: stop_id=%s err=%v", stopID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
