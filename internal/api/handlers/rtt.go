package handlers

import (
	"context"
	"log"
	"net/http"

	"railannouncements/internal/rtt"
)

type ServiceLookup interface {
	Service(ctx context.Context, uid, date string) (*rtt.Service, error)
}

type RTTHandler struct {
	lookup ServiceLookup
	logger *log.Logger
}

func NewRTTHandler(lookup ServiceLookup, logger *log.Logger) *RTTHandler {
	return &RTTHandler{lookup: lookup, logger: logger}
}

// GetService follows the departures convention: always 200, errors in the body.
func (h *RTTHandler) GetService(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	date := r.URL.Query().Get("date")

	switch {
	case uid == "":
		writeError(w, http.StatusOK, "Missing uid")
		return
	case date == "":
		writeError(w, http.StatusOK, "Missing date")
		return
	case !rtt.ValidDate(date):
		writeError(w, http.StatusOK, "Invalid date")
		return
	}

	svc, err := h.lookup.Service(r.Context(), uid, date)
	if err != nil {
		h.logger.Printf("handler: rtt lookup failed | uid: %s | date: %s | error: %v", uid, date, err)
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
		writeError(w, http.StatusOK, msg)
		return
	}

	writeJSON(w, http.StatusOK, svc)
}
