// internal/app/system/viz/fetch.go
package viz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dalemusser/forecastviz/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fetchAndUpdate is the coordinator behind every command. With
// shouldFetch false it rebuilds the snapshot from in-memory state.
// Otherwise it issues the as-of truth and forecast requests (plus
// current truth when asked) in parallel, waits for all of them, and
// installs the results atomically. A group that fails, or that was
// superseded by a newer group while in flight, installs nothing and
// the previous data keeps rendering.
func (c *Controller) fetchAndUpdate(ctx context.Context, shouldFetch, shouldFetchCurrentTruth bool) (*Snapshot, error) {
	if !shouldFetch {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.snapshotLocked(), nil
	}

	c.mu.Lock()
	c.fetchSeq++
	token := c.fetchSeq
	targetVar := c.targetVar
	unit := c.unit
	asOf := c.asOf
	currentDate := c.opts.CurrentDate
	c.mu.Unlock()

	groupID := uuid.NewString()
	fctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	var (
		asOfTruth    *models.TruthSeries
		currentTruth *models.TruthSeries
		forecasts    models.ForecastSet
	)
	g, gctx := errgroup.WithContext(fctx)
	g.Go(func() error {
		s, err := c.fetchTruth(gctx, targetVar, unit, asOf)
		if err != nil {
			return fmt.Errorf("as-of truth: %w", err)
		}
		asOfTruth = s
		return nil
	})
	g.Go(func() error {
		fs, err := c.fetchForecasts(gctx, targetVar, unit, asOf)
		if err != nil {
			return fmt.Errorf("forecasts: %w", err)
		}
		forecasts = fs
		return nil
	})
	if shouldFetchCurrentTruth {
		g.Go(func() error {
			s, err := c.fetchTruth(gctx, targetVar, unit, currentDate)
			if err != nil {
				return fmt.Errorf("current truth: %w", err)
			}
			currentTruth = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn("fetch group failed, keeping previous data",
			zap.String("group_id", groupID),
			zap.String("target_var", targetVar),
			zap.String("unit", unit),
			zap.String("as_of", asOf),
			zap.Error(err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.snapshotLocked(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.fetchSeq {
		c.logger.Debug("discarding superseded fetch group",
			zap.String("group_id", groupID),
			zap.Uint64("token", token),
			zap.Uint64("current", c.fetchSeq))
		return c.snapshotLocked(), nil
	}
	c.asOfTruth = asOfTruth
	c.forecasts = forecasts
	if shouldFetchCurrentTruth {
		c.currentTruth = currentTruth
	}
	return c.snapshotLocked(), nil
}

// fetchTruth retrieves and decodes one truth series. The archive
// answers an empty object when it has no truth for the selection,
// which decodes to a loaded-but-empty series.
func (c *Controller) fetchTruth(ctx context.Context, targetVar, unit, refDate string) (*models.TruthSeries, error) {
	raw, err := c.fetcher.FetchData(ctx, false, targetVar, unit, refDate)
	if err != nil {
		return nil, err
	}
	var s models.TruthSeries
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode truth: %w", err)
	}
	if len(s.Date) != len(s.Y) {
		return nil, fmt.Errorf("truth columns differ: %d dates, %d values", len(s.Date), len(s.Y))
	}
	return &s, nil
}

// fetchForecasts retrieves, decodes, validates, and sorts the forecast
// set. Every model must carry all five quantile columns at equal
// length; a violation rejects the whole payload so a malformed archive
// file never half-renders. Sorted copies are installed so everything
// downstream observes date order.
func (c *Controller) fetchForecasts(ctx context.Context, targetVar, unit, refDate string) (models.ForecastSet, error) {
	raw, err := c.fetcher.FetchData(ctx, true, targetVar, unit, refDate)
	if err != nil {
		return nil, err
	}
	var fs models.ForecastSet
	if err := json.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("decode forecasts: %w", err)
	}
	if err := fs.Validate(); err != nil {
		return nil, err
	}
	sorted := make(models.ForecastSet, len(fs))
	for model, f := range fs {
		if len(f.TargetEndDate) > 0 {
			for _, key := range models.QuantileKeys {
				if _, ok := f.Quantiles[key]; !ok {
					return nil, fmt.Errorf("model %s: missing quantile column %s", model, key)
				}
			}
		}
		sorted[model] = SortForecast(f)
	}
	return sorted, nil
}
