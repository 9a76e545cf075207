package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/infra/queue"
)

type SolicitationHandler struct {
	Publisher queue.SolicitationPublisher
	Log       logrus.FieldLogger
}

type SolicitationResponse struct {
	Status   string `json:"status"`
	PersonID int64  `json:"person_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

func NewSolicitationHandler(publisher queue.SolicitationPublisher, log logrus.FieldLogger) *SolicitationHandler {
	return &SolicitationHandler{Publisher: publisher, Log: log}
}

// Handle queues a proactive review request for {personId}.
func (h *SolicitationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	personID, err := strconv.ParseInt(chi.URLParam(r, "personId"), 10, 64)
	if err != nil || personID <= 0 {
		writeJSON(w, http.StatusBadRequest, SolicitationResponse{Status: "INVALID", Message: "personId must be a positive integer"})
		return
	}

	if err := h.Publisher.PublishSolicitation(r.Context(), personID); err != nil {
		h.Log.WithError(err).WithField("person_id", personID).Error("failed to queue solicitation")
		writeJSON(w, http.StatusServiceUnavailable, SolicitationResponse{Status: "UNAVAILABLE", PersonID: personID})
		return
	}

	h.Log.WithField("person_id", personID).Info("solicitation queued")
	writeJSON(w, http.StatusAccepted, SolicitationResponse{Status: "QUEUED", PersonID: personID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
