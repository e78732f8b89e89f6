// Package vizsessions manages per-browser widget engine instances.
//
// Endpoints (mounted at /api/viz/sessions):
//   - POST   /api/viz/sessions                - Create (or resume) a session
//   - GET    /api/viz/sessions/{id}           - Current snapshot
//   - POST   /api/viz/sessions/{id}/commands  - Apply one typed command
//   - DELETE /api/viz/sessions/{id}           - Drop a session
//
// A session is one engine controller; the page client posts typed
// commands to it and renders the returned snapshots. A signed cookie
// pins the browser to its session so a page reload resumes the same
// widget state.
package vizsessions

import (
	"io"
	"net/http"

	"github.com/dalemusser/forecastviz/internal/app/system/jsonutil"
	"github.com/dalemusser/forecastviz/internal/app/system/viz"
	"github.com/dalemusser/forecastviz/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// maxCommandBytes bounds one command envelope read.
const maxCommandBytes = 1 << 16

// Handler handles widget session API requests.
type Handler struct {
	manager    *Manager
	options    models.WidgetOptions
	fetcher    viz.DataFetcher
	engineCfg  viz.Config
	cookies    sessions.Store
	cookieName string
	logger     *zap.Logger
}

// NewHandler creates a vizsessions handler. Every created session gets
// its own controller built from options, fetcher, and engineCfg.
func NewHandler(manager *Manager, options models.WidgetOptions, fetcher viz.DataFetcher,
	engineCfg viz.Config, cookies sessions.Store, cookieName string, logger *zap.Logger) *Handler {
	return &Handler{
		manager:    manager,
		options:    options,
		fetcher:    fetcher,
		engineCfg:  engineCfg,
		cookies:    cookies,
		cookieName: cookieName,
		logger:     logger,
	}
}

// createResponse is the body returned by CreateHandler.
type createResponse struct {
	SessionID string        `json:"session_id"`
	Resumed   bool          `json:"resumed"`
	Snapshot  *viz.Snapshot `json:"snapshot"`
}

// CreateHandler handles POST /api/viz/sessions. If the browser's
// cookie names a session that is still alive, that session is resumed
// instead of creating a new one.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.cookieSessionID(r); ok {
		if controller, live := h.manager.Get(id); live {
			snap, err := controller.Apply(r.Context(), viz.Refresh{})
			if err != nil {
				h.logger.Error("failed to refresh resumed session",
					zap.String("session_id", id), zap.Error(err))
				jsonutil.InternalError(w, "Failed to resume session")
				return
			}
			jsonutil.OK(w, createResponse{SessionID: id, Resumed: true, Snapshot: snap})
			return
		}
	}

	controller, err := viz.New(h.options, h.fetcher, h.engineCfg, h.logger)
	if err != nil {
		h.logger.Error("failed to build widget controller", zap.Error(err))
		jsonutil.InternalError(w, "Failed to create session")
		return
	}
	snap, err := controller.Init(r.Context())
	if err != nil {
		h.logger.Error("initial fetch failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to create session")
		return
	}

	id := uuid.NewString()
	h.manager.Put(id, controller)
	h.setCookieSessionID(w, r, id)

	h.logger.Debug("widget session created", zap.String("session_id", id))
	jsonutil.Created(w, createResponse{SessionID: id, Snapshot: snap})
}

// SnapshotHandler handles GET /api/viz/sessions/{sessionID}.
func (h *Handler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	controller, ok := h.manager.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		jsonutil.NotFound(w, "Unknown session")
		return
	}
	snap, err := controller.Apply(r.Context(), viz.Refresh{})
	if err != nil {
		h.logger.Error("failed to build snapshot", zap.Error(err))
		jsonutil.InternalError(w, "Failed to build snapshot")
		return
	}
	jsonutil.OK(w, snap)
}

// CommandHandler handles POST /api/viz/sessions/{sessionID}/commands.
//
// Request body: one command envelope, e.g.
//
//	{"type": "step_as_of", "direction": 1}
//	{"type": "toggle_model", "model": "ModelA", "checked": true}
//
// Response (200 OK): the resulting snapshot.
func (h *Handler) CommandHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	controller, ok := h.manager.Get(id)
	if !ok {
		jsonutil.NotFound(w, "Unknown session")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBytes))
	if err != nil {
		jsonutil.BadRequest(w, "Could not read command")
		return
	}
	cmd, err := viz.DecodeCommand(body)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	snap, err := controller.Apply(r.Context(), cmd)
	if err != nil {
		// Apply rejects only bad command input; fetch problems are
		// contained inside the engine.
		h.logger.Debug("command rejected",
			zap.String("session_id", id), zap.Error(err))
		jsonutil.BadRequest(w, err.Error())
		return
	}
	jsonutil.OK(w, snap)
}

// DeleteHandler handles DELETE /api/viz/sessions/{sessionID}.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	h.manager.Delete(chi.URLParam(r, "sessionID"))
	jsonutil.NoContent(w)
}

func (h *Handler) cookieSessionID(r *http.Request) (string, bool) {
	sess, err := h.cookies.Get(r, h.cookieName)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values["session_id"].(string)
	return id, ok && id != ""
}

func (h *Handler) setCookieSessionID(w http.ResponseWriter, r *http.Request, id string) {
	sess, _ := h.cookies.Get(r, h.cookieName)
	if sess == nil {
		return
	}
	sess.Values["session_id"] = id
	sess.Options.HttpOnly = true
	sess.Options.SameSite = http.SameSiteLaxMode
	sess.Options.Path = "/"
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("failed to save session cookie", zap.Error(err))
	}
}
