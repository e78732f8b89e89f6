// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	archivestore "github.com/dalemusser/forecastviz/internal/app/store/archive"
	"github.com/dalemusser/forecastviz/internal/app/store/vizapi"
	"github.com/dalemusser/forecastviz/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectDB opens the forecast archive and builds the widget options.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema
// and Startup. There is no database here: the backing store is either a
// local archive directory or a remote forecastviz data API. Either way
// the result is a DataFetcher for the widget engine plus the widget
// initialization bundle derived from the options file and the archive
// metadata.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	store, err := archivestore.New(appCfg.ArchiveDir, logger)
	if err != nil {
		return DBDeps{}, fmt.Errorf("open archive %s: %w", appCfg.ArchiveDir, err)
	}
	logger.Info("opened forecast archive", zap.String("dir", appCfg.ArchiveDir))

	targetVars, err := store.TargetVariables(ctx)
	if err != nil {
		return DBDeps{}, err
	}
	units, err := store.Units(ctx)
	if err != nil {
		return DBDeps{}, err
	}
	modelNames, err := store.Models(ctx)
	if err != nil {
		return DBDeps{}, err
	}
	availableAsOfs, err := store.AvailableAsOfs(ctx)
	if err != nil {
		return DBDeps{}, err
	}

	vizOpts, err := loadVizOptions(appCfg.VizOptionsFile)
	if err != nil {
		return DBDeps{}, err
	}
	if errs := vizOpts.Validate(targetVars, units, modelNames); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("invalid visualization options", zap.Error(e))
		}
		return DBDeps{}, fmt.Errorf("visualization options file %s has %d problem(s)", appCfg.VizOptionsFile, len(errs))
	}

	options, err := models.BuildWidgetOptions(vizOpts, targetVars, units, modelNames, availableAsOfs)
	if err != nil {
		return DBDeps{}, fmt.Errorf("build widget options: %w", err)
	}
	logger.Info("built widget options",
		zap.Int("target_variables", len(options.TargetVariables)),
		zap.Int("models", len(options.Models)),
		zap.String("initial_as_of", options.InitialAsOf),
	)

	deps := DBDeps{
		Archive: store,
		Fetcher: store,
		Options: options,
	}

	// In remote-data mode the engine fetches payloads over HTTP; the
	// local archive still supplies the metadata above.
	if appCfg.DataBaseURL != "" {
		deps.Fetcher = vizapi.New(appCfg.DataBaseURL, appCfg.FetchTimeout, logger)
		logger.Info("using remote data API", zap.String("base_url", appCfg.DataBaseURL))
	}

	return deps, nil
}

// loadVizOptions reads and decodes the visualization options file.
func loadVizOptions(path string) (models.VizOptions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.VizOptions{}, fmt.Errorf("read visualization options: %w", err)
	}
	var opts models.VizOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return models.VizOptions{}, fmt.Errorf("decode visualization options %s: %w", path, err)
	}
	return opts, nil
}

// EnsureSchema verifies the archive layout is consistent.
//
// This runs after ConnectDB succeeds but before Startup and before the
// HTTP handler is built. There are no indexes or migrations here; the
// check is that the archive's metadata files are present and the widget
// options derived from them are complete enough to start the engine.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.Archive.Ping(ctx); err != nil {
		logger.Error("archive consistency check failed", zap.Error(err))
		return err
	}
	if err := deps.Options.Validate(); err != nil {
		logger.Error("widget options incomplete", zap.Error(err))
		return err
	}
	logger.Info("archive verified")
	return nil
}
