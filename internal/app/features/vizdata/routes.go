package vizdata

import (
	"net/http"

	"github.com/dalemusser/forecastviz/internal/app/system/apicors"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the data API endpoint.
//
// When mounted at /api/viz/data:
//   - GET /api/viz/data - Truth or forecast payload
//
// The endpoint is read-only and unauthenticated, so CORS is
// permissive; remote forecastviz pages fetch from it directly.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Get("/", h.DataHandler)
	return r
}
