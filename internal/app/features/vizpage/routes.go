package vizpage

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with the widget page mounted at /.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Page)
	return r
}
