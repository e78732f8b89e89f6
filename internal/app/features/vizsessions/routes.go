package vizsessions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the widget session endpoints.
//
// When mounted at /api/viz/sessions:
//   - POST   /                        - Create or resume a session
//   - GET    /{sessionID}             - Current snapshot
//   - POST   /{sessionID}/commands    - Apply one command
//   - DELETE /{sessionID}             - Drop a session
//
// The state-changing endpoints sit behind the site CSRF middleware
// (applied by bootstrap); the page client sends the token in the
// X-CSRF-Token header.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.CreateHandler)
	r.Route("/{sessionID}", func(sr chi.Router) {
		sr.Get("/", h.SnapshotHandler)
		sr.Post("/commands", h.CommandHandler)
		sr.Delete("/", h.DeleteHandler)
	})
	return r
}
