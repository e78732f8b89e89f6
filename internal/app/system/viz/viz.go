// Package viz implements the forecast visualization widget engine: a
// selection state machine plus the pipeline that turns truth and
// forecast series into drawable plot primitives.
//
// The engine is UI-toolkit independent. A host (the vizsessions
// feature, or a test) constructs a Controller with the widget options
// and a DataFetcher, calls Init once to perform the initial fetch, and
// then feeds it typed commands (SetTargetVariable, ToggleModel,
// StepAsOf, ...). Every command returns a Snapshot: the selection
// echo, the model roster, and the ordered drawable list plus layout
// that a plotting front end renders as-is.
package viz

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/forecastviz/internal/domain/models"
	"go.uber.org/zap"
)

// DataFetcher is the injected transport for the single read-only data
// endpoint. isForecast selects forecast vs truth payloads; the raw
// JSON is decoded and validated by the fetch coordinator. Implementers
// must honor ctx and return an error on transport failure.
type DataFetcher interface {
	FetchData(ctx context.Context, isForecast bool, targetKey, unitAbbrev, referenceDate string) (json.RawMessage, error)
}

// FetcherFunc adapts a function to the DataFetcher interface.
type FetcherFunc func(ctx context.Context, isForecast bool, targetKey, unitAbbrev, referenceDate string) (json.RawMessage, error)

// FetchData implements DataFetcher.
func (f FetcherFunc) FetchData(ctx context.Context, isForecast bool, targetKey, unitAbbrev, referenceDate string) (json.RawMessage, error) {
	return f(ctx, isForecast, targetKey, unitAbbrev, referenceDate)
}

// Config carries the engine's tunables.
type Config struct {
	// FetchTimeout bounds one fetch group (all parallel requests for a
	// selection change). Expiry is treated as a fetch failure.
	FetchTimeout time.Duration

	// MaxSelectableModels caps how many roster entries are selectable
	// and colorable; models at or beyond this index render disabled.
	MaxSelectableModels int
}

// DefaultFetchTimeout applies when Config.FetchTimeout is zero.
const DefaultFetchTimeout = 15 * time.Second

// DefaultMaxSelectableModels applies when Config.MaxSelectableModels
// is zero.
const DefaultMaxSelectableModels = 100

// Controller owns the widget state. All mutation happens under mu;
// fetches run outside the lock and re-enter only if their group token
// is still current, so a superseded fetch can never install stale
// data.
type Controller struct {
	opts    models.WidgetOptions
	cfg     Config
	fetcher DataFetcher
	logger  *zap.Logger

	mu sync.Mutex

	// selection
	targetVar           string
	unit                string
	interval            string
	asOf                string
	currentTruthChecked bool
	asOfTruthChecked    bool
	checkedModels       []string
	lastSelectedModels  []string
	selectAll           bool
	colors              []string

	// fetched data
	currentTruth *models.TruthSeries
	asOfTruth    *models.TruthSeries
	forecasts    models.ForecastSet

	// fetch-group supersession token
	fetchSeq uint64
}

// New validates the options and builds a Controller with the initial
// selection applied. It does not fetch; call Init for the initial
// load. An options problem is a configuration error and aborts
// construction.
func New(opts models.WidgetOptions, fetcher DataFetcher, cfg Config, logger *zap.Logger) (*Controller, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("viz: nil data fetcher")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("viz: invalid options: %w", err)
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.MaxSelectableModels <= 0 {
		cfg.MaxSelectableModels = DefaultMaxSelectableModels
	}

	interval := opts.InitialInterval
	if interval == "" {
		interval = opts.Intervals[len(opts.Intervals)-1]
	}
	if _, _, err := QuantileKeysForInterval(interval); err != nil {
		return nil, fmt.Errorf("viz: invalid initial interval: %w", err)
	}

	asOf := opts.InitialAsOf
	if avail := opts.AvailableAsOfs[opts.InitialTargetVar]; asOf == "" && len(avail) > 0 {
		asOf = avail[len(avail)-1]
	}

	c := &Controller{
		opts:                opts,
		cfg:                 cfg,
		fetcher:             fetcher,
		logger:              logger,
		targetVar:           opts.InitialTargetVar,
		unit:                opts.InitialUnit,
		interval:            interval,
		asOf:                asOf,
		currentTruthChecked: true,
		asOfTruthChecked:    true,
		colors:              TilePalette(len(opts.Models)),
		forecasts:           models.ForecastSet{},
	}
	c.checkedModels = c.filterKnownModels(opts.InitialCheckedModels)
	return c, nil
}

// Init performs the initial full fetch (as-of truth, forecasts, and
// current truth) and returns the first snapshot.
func (c *Controller) Init(ctx context.Context) (*Snapshot, error) {
	return c.fetchAndUpdate(ctx, true, true)
}

// Apply dispatches one typed command and returns the resulting
// snapshot. Selection-only commands rebuild the plot from in-memory
// state; commands that change the (target, unit, as-of) inputs fetch
// first and only render once every request in the group has settled.
func (c *Controller) Apply(ctx context.Context, cmd Command) (*Snapshot, error) {
	switch cmd := cmd.(type) {
	case SetTargetVariable:
		return c.setTargetVariable(ctx, cmd.Value)
	case SetUnit:
		return c.setUnit(ctx, cmd.Value)
	case SetInterval:
		return c.setInterval(ctx, cmd.Value)
	case ToggleTruth:
		return c.toggleTruth(ctx, cmd.Series, cmd.Checked)
	case ToggleModel:
		return c.toggleModel(ctx, cmd.Model, cmd.Checked)
	case ToggleAllModels:
		return c.toggleAllModels(ctx, cmd.Checked)
	case StepAsOf:
		return c.stepAsOf(ctx, cmd.Direction)
	case ShuffleColors:
		return c.shuffleColors(ctx)
	case Refresh:
		return c.fetchAndUpdate(ctx, false, false)
	default:
		return nil, fmt.Errorf("viz: unknown command %T", cmd)
	}
}

func (c *Controller) setTargetVariable(ctx context.Context, value string) (*Snapshot, error) {
	c.mu.Lock()
	found := false
	for _, tv := range c.opts.TargetVariables {
		if tv.Value == value {
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return nil, fmt.Errorf("viz: unknown target variable %q", value)
	}
	c.targetVar = value
	c.asOf = clampAsOf(c.opts.AvailableAsOfs[value], c.asOf)
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, true, true)
}

func (c *Controller) setUnit(ctx context.Context, value string) (*Snapshot, error) {
	c.mu.Lock()
	found := false
	for _, u := range c.opts.Units {
		if u.Value == value {
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return nil, fmt.Errorf("viz: unknown unit %q", value)
	}
	c.unit = value
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, true, true)
}

func (c *Controller) setInterval(ctx context.Context, value string) (*Snapshot, error) {
	c.mu.Lock()
	found := false
	for _, iv := range c.opts.Intervals {
		if iv == value {
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return nil, fmt.Errorf("viz: unknown interval %q", value)
	}
	c.interval = value
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, false, false)
}

func (c *Controller) toggleTruth(ctx context.Context, series string, checked bool) (*Snapshot, error) {
	c.mu.Lock()
	switch series {
	case TruthCurrent:
		c.currentTruthChecked = checked
	case TruthAsOf:
		c.asOfTruthChecked = checked
	default:
		c.mu.Unlock()
		return nil, fmt.Errorf("viz: unknown truth series %q", series)
	}
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, false, false)
}

func (c *Controller) shuffleColors(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	c.colors = Shuffled(c.colors)
	c.mu.Unlock()

	return c.fetchAndUpdate(ctx, false, false)
}

// filterKnownModels keeps names present in the roster, preserving the
// given order and dropping duplicates.
func (c *Controller) filterKnownModels(names []string) []string {
	known := make(map[string]bool, len(c.opts.Models))
	for _, m := range c.opts.Models {
		known[m] = true
	}
	var out []string
	seen := make(map[string]bool, len(names))
	for _, m := range names {
		if known[m] && !seen[m] {
			out = append(out, m)
			seen[m] = true
		}
	}
	return out
}

// clampAsOf keeps asOf if the list offers it, otherwise falls back to
// the latest entry not after asOf, otherwise the newest entry.
func clampAsOf(available []string, asOf string) string {
	if len(available) == 0 {
		return asOf
	}
	best := ""
	for _, d := range available {
		if d == asOf {
			return asOf
		}
		if !DateLess(asOf, d) { // d <= asOf
			best = d
		}
	}
	if best != "" {
		return best
	}
	return available[len(available)-1]
}
