// Package vizpage serves the visualization widget host page and the
// widget options JSON. The page is a thin client: it reads the options,
// creates a widget session, translates UI events (selects, checkboxes,
// paging buttons, arrow keys) into typed commands, and hands the
// returned snapshots to the plot renderer.
package vizpage

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/forecastviz/internal/app/system/htmlsanitize"
	"github.com/dalemusser/forecastviz/internal/app/system/jsonutil"
	"github.com/dalemusser/forecastviz/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// Handler provides the widget page and options handlers.
type Handler struct {
	options models.WidgetOptions
	logger  *zap.Logger
}

// NewHandler creates a new vizpage Handler.
func NewHandler(options models.WidgetOptions, logger *zap.Logger) *Handler {
	return &Handler{options: options, logger: logger}
}

// vizVM is the view model for the widget page.
type vizVM struct {
	Title      string
	CSRFToken  string
	Disclaimer template.HTML
}

// Page renders the widget host page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	vm := vizVM{
		Title:      "Forecast Visualization",
		CSRFToken:  csrf.Token(r),
		Disclaimer: htmlsanitize.PrepareForDisplay(h.options.Disclaimer),
	}
	templates.Render(w, r, "viz", vm)
}

// Options handles GET /api/viz/options. It serves the widget's full
// initialization bundle: target variables, units, intervals, the as-of
// map, the model roster, and the initial selection.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, h.options)
}
