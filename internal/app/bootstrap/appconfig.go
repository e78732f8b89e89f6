// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to this application lives: the
// forecast archive location, the visualization options file, widget
// engine tuning, and session/CSRF secrets.
type AppConfig struct {
	// Forecast archive configuration.
	// ArchiveDir is the root of the local archive layout (metadata JSON
	// files plus truth/ and forecasts/ subdirectories). When DataBaseURL
	// is set, the widget engine fetches payloads from another forecastviz
	// instance's /api/viz/data endpoint instead of the local archive.
	ArchiveDir     string // Local archive directory (default: ./archive)
	VizOptionsFile string // Path to the visualization options JSON file (required)
	DataBaseURL    string // Base URL of a remote data API (blank means local archive)

	// Widget engine tuning.
	FetchTimeout        time.Duration // Deadline for one fetch group (default: 15s)
	MaxSelectableModels int           // Cap on simultaneously plottable models (default: 100)

	// Session management configuration.
	SessionTTL        time.Duration // Idle lifetime of a widget session (default: 2h)
	SessionCookieName string        // Cookie name for session resumption (default: forecastviz-session)
	SessionCookieKey  string        // Secret key for signing the session cookie (must be strong in production)

	// CSRF protection configuration.
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)
}
