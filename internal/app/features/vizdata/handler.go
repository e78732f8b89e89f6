// Package vizdata provides the read-only forecast data API.
//
// Endpoints:
//   - GET /api/viz/data - Truth or forecast payload for one selection
//
// This is the single data interface the visualization engine consumes,
// whether it runs in this process (archive-backed) or against a remote
// forecastviz server.
package vizdata

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/forecastviz/internal/app/system/jsonutil"
	"github.com/dalemusser/forecastviz/internal/app/system/timeouts"
	"github.com/dalemusser/forecastviz/internal/app/system/viz"
	"go.uber.org/zap"
)

// Handler handles data API requests.
type Handler struct {
	source viz.DataFetcher
	logger *zap.Logger
}

// NewHandler creates a new vizdata handler reading from source.
func NewHandler(source viz.DataFetcher, logger *zap.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// DataHandler handles GET /api/viz/data requests.
//
// Query parameters:
//
//	is_forecast - "true" for a forecast set, "false" for a truth series
//	target_key  - target variable id
//	unit        - unit abbreviation
//	ref_date    - as-of reference date (YYYY-MM-DD)
//
// Response (200 OK): the stored JSON payload, or {} when the archive
// has no data for the selection.
func (h *Handler) DataHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	isForecast, err := strconv.ParseBool(q.Get("is_forecast"))
	if err != nil {
		jsonutil.BadRequest(w, "is_forecast must be true or false")
		return
	}
	targetKey := q.Get("target_key")
	unit := q.Get("unit")
	refDate := q.Get("ref_date")
	if targetKey == "" || unit == "" || refDate == "" {
		jsonutil.BadRequest(w, "target_key, unit, and ref_date are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	raw, err := h.source.FetchData(ctx, isForecast, targetKey, unit, refDate)
	if err != nil {
		h.logger.Error("failed to read viz data",
			zap.Bool("is_forecast", isForecast),
			zap.String("target_key", targetKey),
			zap.String("unit", unit),
			zap.String("ref_date", refDate),
			zap.Error(err),
		)
		jsonutil.InternalError(w, "Failed to read data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(raw); err != nil {
		h.logger.Error("failed to write data response", zap.Error(err))
	}
}
