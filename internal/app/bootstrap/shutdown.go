// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is invoked during WAFFLE's shutdown phase.
//
// This function is called after the HTTP server has stopped accepting new
// requests and existing requests have been drained (or the shutdown
// timeout has elapsed). The only background work this app runs is the
// widget session janitor; everything else is in-memory or on disk.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if sessionManager != nil {
		logger.Info("stopping widget session janitor")
		sessionManager.Stop()
	}
	return nil
}
