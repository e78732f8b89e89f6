// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/forecastviz/internal/app/features/errors"
	healthfeature "github.com/dalemusser/forecastviz/internal/app/features/health"
	vizdatafeature "github.com/dalemusser/forecastviz/internal/app/features/vizdata"
	vizpagefeature "github.com/dalemusser/forecastviz/internal/app/features/vizpage"
	vizsessionsfeature "github.com/dalemusser/forecastviz/internal/app/features/vizsessions"
	appresources "github.com/dalemusser/forecastviz/internal/app/resources"
	"github.com/dalemusser/forecastviz/internal/app/system/viz"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, archive setup, and the Startup
// hook have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the archive store, data fetcher, and widget options
//   - logger: the fully configured zap.Logger for this app
//
// Route map:
//   - GET  /viz                              widget host page
//   - GET  /api/viz/options                  widget initialization bundle
//   - POST /api/viz/sessions                 create or resume a widget session
//   - GET/POST/DELETE /api/viz/sessions/{id} snapshot / commands / teardown
//   - GET  /api/viz/data                     raw truth/forecast payloads (open CORS)
//   - /health, /ready, /readyz, /livez       probes
//   - /assets/*                              embedded assets, /static/* disk assets
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Cookie store for widget session resumption. The cookie carries only
	// the opaque session ID; all widget state lives server-side.
	cookieStore := sessions.NewCookieStore([]byte(appCfg.SessionCookieKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(appCfg.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	engineCfg := viz.Config{
		FetchTimeout:        appCfg.FetchTimeout,
		MaxSelectableModels: appCfg.MaxSelectableModels,
	}

	r := chi.NewRouter()

	// Global middleware. The timeout bounds a whole request including a
	// widget fetch group, so it sits above the engine's own deadline.
	r.Use(chimw.Timeout(2 * appCfg.FetchTimeout))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// CSRF protection for the page and the session command API. The data
	// API is exempt: it is a read-only GET surface consumed by remote
	// forecastviz instances that never hold a token.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("forecastviz_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)
	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/viz/data") {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// Health check endpoints for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.Archive, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Static assets with pre-compressed file support (gzip/brotli).
	// /static/* serves files from disk; /assets/* serves embedded assets.
	r.Handle("/static/*", fileserver.Handler("/static", "static"))
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Widget host page and options bundle.
	pageHandler := vizpagefeature.NewHandler(deps.Options, logger)
	r.Mount("/viz", vizpagefeature.Routes(pageHandler))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/viz", http.StatusFound)
	})
	r.Get("/api/viz/options", pageHandler.Options)

	// Widget sessions: each session owns one engine instance driven by
	// typed commands from the page.
	sessionsHandler := vizsessionsfeature.NewHandler(
		sessionManager,
		deps.Options,
		deps.Fetcher,
		engineCfg,
		cookieStore,
		appCfg.SessionCookieName,
		logger,
	)
	r.Mount("/api/viz/sessions", vizsessionsfeature.Routes(sessionsHandler))

	// Raw data API, served from the same fetcher the engine uses so a
	// remote instance sees exactly what the local engine would.
	dataHandler := vizdatafeature.NewHandler(deps.Fetcher, logger)
	r.Mount("/api/viz/data", vizdatafeature.Routes(dataHandler))

	// 404 catch-all for unmatched routes.
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
