package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"railannouncements/internal/darwin"
)

// DepartureSource returns a fully enriched departure board.
type DepartureSource interface {
	Departures(ctx context.Context, crs string, q darwin.BoardQuery) (*darwin.Board, error)
}

type DeparturesHandler struct {
	source DepartureSource
	logger *log.Logger
}

func NewDeparturesHandler(source DepartureSource, logger *log.Logger) *DeparturesHandler {
	return &DeparturesHandler{source: source, logger: logger}
}

// GetServices answers every outcome with 200; failures carry
// {error: true, message} instead of a status code.
func (h *DeparturesHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	station := query.Get("station")
	if station == "" {
		writeError(w, http.StatusOK, "Missing station")
		return
	}

	q := darwin.DefaultBoardQuery()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"maxServices", &q.MaxServices},
		{"timeOffset", &q.TimeOffset},
		{"timeWindow", &q.TimeWindow},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusOK, "Invalid "+p.name)
			return
		}
		*p.dst = v
	}

	board, err := h.source.Departures(r.Context(), station, q)
	if err != nil {
		h.logger.Printf("handler: departures failed | station: %s | error: %v", station, err)
		writeError(w, http.StatusOK, departuresErrorMessage(err))
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=5, s-maxage=30")
	writeJSON(w, http.StatusOK, board)
}

func departuresErrorMessage(err error) string {
	var upErr *darwin.UpstreamError
	if errors.As(err, &upErr) {
		return "Upstream fetch error"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}
