// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/forecastviz/internal/app/features/vizsessions"
	"github.com/dalemusser/forecastviz/internal/app/resources"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// sessionManager is the global widget session manager, created here and
// mounted in BuildHandler, kept package-level for graceful shutdown.
var sessionManager *vizsessions.Manager

// Startup runs once after the archive is opened and verified, but before
// the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on loaded
// configuration: registering shared templates and starting the widget
// session janitor.
//
// Returning a non-nil error will abort startup and prevent the server
// from starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	sessionManager = vizsessions.NewManager(appCfg.SessionTTL, logger)
	sessionManager.StartJanitor()
	logger.Info("started widget session janitor", zap.Duration("ttl", appCfg.SessionTTL))

	return nil
}
