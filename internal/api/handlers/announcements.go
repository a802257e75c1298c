package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"railannouncements/internal/announcement"
	"railannouncements/internal/audio"
)

type AnnouncementHandler struct {
	registry *announcement.Registry
	logger   *log.Logger
}

func NewAnnouncementHandler(registry *announcement.Registry, logger *log.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{registry: registry, logger: logger}
}

type systemSummary struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Type announcement.Kind `json:"type"`
	Tabs []string          `json:"tabs"`
}

func (h *AnnouncementHandler) ListSystems(w http.ResponseWriter, r *http.Request) {
	systems := h.registry.All()
	out := make([]systemSummary, 0, len(systems))
	for _, s := range systems {
		out = append(out, systemSummary{ID: s.ID(), Name: s.Name(), Type: s.Kind(), Tabs: s.Tabs()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "systems": out})
}

type buildResponse struct {
	Error    bool           `json:"error"`
	Sequence audio.Sequence `json:"sequence"`
	Files    []audio.File   `json:"files"`
}

// Build assembles one announcement from the options in the request body and
// returns both the clip ids and the files to play.
func (h *AnnouncementHandler) Build(w http.ResponseWriter, r *http.Request) {
	systemID := chi.URLParam(r, "systemID")
	tabID := chi.URLParam(r, "tabID")

	options, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSaveBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if len(options) > 0 && !json.Valid(options) {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	system, seq, err := h.registry.Build(systemID, tabID, options)
	if err != nil {
		var inputErr *announcement.InputError
		switch {
		case errors.Is(err, announcement.ErrUnknownSystem), errors.Is(err, announcement.ErrUnknownTab):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &inputErr):
			writeError(w, http.StatusBadRequest, inputErr.Message)
		default:
			h.logger.Printf("handler: build announcement failed | system: %s | tab: %s | error: %v", systemID, tabID, err)
			writeError(w, http.StatusInternalServerError, "Unknown error")
		}
		return
	}

	writeJSON(w, http.StatusOK, buildResponse{
		Sequence: seq,
		Files:    seq.Files(system.FilePrefix()),
	})
}
