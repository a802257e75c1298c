package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	"railannouncements/internal/presets"
)

const saveBodySchema = `{
  "type": "object",
  "properties": {
    "systemId": { "type": "string" },
    "tabId": { "type": "string" },
    "state": { "type": "object" }
  },
  "required": ["systemId", "tabId", "state"],
  "additionalProperties": false
}`

// request bodies larger than this can never pass the state size check
const maxSaveBodyBytes = 1 << 20

type PresetStore interface {
	Save(ctx context.Context, systemID, tabID string, state json.RawMessage) (string, error)
	Load(ctx context.Context, id string) (*presets.Preset, error)
}

type PresetHandler struct {
	store         PresetStore
	maxStateBytes int
	schema        *gojsonschema.Schema
	logger        *log.Logger
}

func NewPresetHandler(store PresetStore, maxStateBytes int, logger *log.Logger) (*PresetHandler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(saveBodySchema))
	if err != nil {
		return nil, err
	}
	return &PresetHandler{
		store:         store,
		maxStateBytes: maxStateBytes,
		schema:        schema,
		logger:        logger,
	}, nil
}

type validationDetail struct {
	Field       string `json:"field"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type saveRequest struct {
	SystemID string          `json:"systemId"`
	TabID    string          `json:"tabId"`
	State    json.RawMessage `json:"state"`
}

func (h *PresetHandler) Save(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSaveBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "Tab state too large (>100kB)")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error:   true,
			Message: "Invalid body",
			Detail:  []validationDetail{{Field: "(root)", Type: "invalid_json", Description: err.Error()}},
		})
		return
	}
	if !result.Valid() {
		detail := make([]validationDetail, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			detail = append(detail, validationDetail{Field: e.Field(), Type: e.Type(), Description: e.Description()})
		}
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: true, Message: "Invalid body", Detail: detail})
		return
	}

	var req saveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	var state bytes.Buffer
	if err := json.Compact(&state, req.State); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if state.Len() > h.maxStateBytes {
		writeError(w, http.StatusBadRequest, "Tab state too large (>100kB)")
		return
	}

	id, err := h.store.Save(r.Context(), req.SystemID, req.TabID, state.Bytes())
	if err != nil {
		h.logger.Printf("handler: save preset failed | system: %s | tab: %s | error: %v", req.SystemID, req.TabID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save announcement")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"error": false, "id": id})
}

type loadResponse struct {
	Error   bool       `json:"error"`
	Data    presetData `json:"data"`
	SavedAt string     `json:"savedAt"`
}

type presetData struct {
	SystemID string          `json:"systemId"`
	TabID    string          `json:"tabId"`
	State    json.RawMessage `json:"state"`
}

func (h *PresetHandler) Load(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("id") {
		writeError(w, http.StatusBadRequest, "No announcement ID provided")
		return
	}
	id := query.Get("id")

	p, err := h.store.Load(r.Context(), id)
	switch {
	case errors.Is(err, presets.ErrNotFound):
		writeError(w, http.StatusNotFound, "Announcement not found")
		return
	case err != nil:
		h.logger.Printf("handler: load preset failed | id: %s | error: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get announcement")
		return
	}

	writeJSON(w, http.StatusOK, loadResponse{
		Data: presetData{
			SystemID: p.SystemID,
			TabID:    p.TabID,
			State:    json.RawMessage(p.State),
		},
		SavedAt: p.CreatedAt,
	})
}
