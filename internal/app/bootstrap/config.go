// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
// For example, viz_options_file becomes FORECASTVIZ_VIZ_OPTIONS_FILE.
const EnvVarPrefix = "FORECASTVIZ"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: archive_dir, viz_options_file, etc.
//   - Environment variables: FORECASTVIZ_ARCHIVE_DIR, FORECASTVIZ_VIZ_OPTIONS_FILE, etc.
//   - Command-line flags: --archive_dir, --viz_options_file, etc.
var appConfigKeys = []config.AppKey{
	{Name: "archive_dir", Default: "./archive", Desc: "Root directory of the local forecast archive"},
	{Name: "viz_options_file", Default: "", Desc: "Path to the visualization options JSON file (required)"},
	{Name: "data_base_url", Default: "", Desc: "Base URL of a remote data API (blank means local archive)"},

	// Widget engine tuning
	{Name: "fetch_timeout", Default: "15s", Desc: "Deadline for one fetch group (e.g., 15s, 1m)"},
	{Name: "max_selectable_models", Default: 100, Desc: "Max models plottable at once (default: 100)"},

	// Session configuration
	{Name: "session_ttl", Default: "2h", Desc: "Idle lifetime of a widget session (e.g., 2h, 30m)"},
	{Name: "session_cookie_name", Default: "forecastviz-session", Desc: "Session cookie name"},
	{Name: "session_cookie_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session cookie signing key (must be strong in production)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FORECASTVIZ_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		ArchiveDir:     appValues.String("archive_dir"),
		VizOptionsFile: appValues.String("viz_options_file"),
		DataBaseURL:    appValues.String("data_base_url"),

		FetchTimeout:        appValues.Duration("fetch_timeout", 15*time.Second),
		MaxSelectableModels: appValues.Int("max_selectable_models"),

		SessionTTL:        appValues.Duration("session_ttl", 2*time.Hour),
		SessionCookieName: appValues.String("session_cookie_name"),
		SessionCookieKey:  appValues.String("session_cookie_key"),

		CSRFKey: appValues.String("csrf_key"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.VizOptionsFile == "" {
		logger.Error("viz_options_file is not set")
		return fmt.Errorf("viz_options_file is required")
	}
	if appCfg.DataBaseURL != "" {
		u, err := url.Parse(appCfg.DataBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.Error("invalid data_base_url", zap.String("data_base_url", appCfg.DataBaseURL))
			return fmt.Errorf("data_base_url %q is not an absolute URL", appCfg.DataBaseURL)
		}
	}
	if appCfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if appCfg.MaxSelectableModels <= 0 {
		return fmt.Errorf("max_selectable_models must be positive")
	}
	if appCfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	return nil
}
