package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"cafe-dashboard/internal/dataset"
	"cafe-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

// Options are the mining and ranking thresholds for one engine instance.
type Options struct {
	MinSupport  float64
	MinLift     float64
	TopProducts int
	TopRules    int
}

func DefaultOptions() Options {
	return Options{
		MinSupport:  0.02,
		MinLift:     1.2,
		TopProducts: 10,
		TopRules:    10,
	}
}

// SelectionError reports a filter selection naming a location or month the
// dataset does not contain. Unknown values fail fast instead of being
// silently coerced to an empty match.
type SelectionError struct {
	Field string
	Value string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("unknown %s %q in filter selection", e.Field, e.Value)
}

// Engine computes full analytics reports over one immutable dataset. All
// computation is a pure function of (dataset, selection, options); the only
// state the engine owns is a memo of already-computed reports, keyed by
// selection fingerprint. The dataset never changes after load, so memoized
// entries never expire.
type Engine struct {
	data     *dataset.Dataset
	opts     Options
	logger   *slog.Logger
	loadedAt time.Time

	locations map[string]struct{}
	months    map[string]struct{}

	mu    sync.RWMutex
	cache map[string]*models.Report
}

func NewEngine(data *dataset.Dataset, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		data:      data,
		opts:      opts,
		logger:    logger,
		loadedAt:  time.Now(),
		locations: make(map[string]struct{}),
		months:    make(map[string]struct{}),
		cache:     make(map[string]*models.Report),
	}
	for _, loc := range data.Locations() {
		e.locations[loc] = struct{}{}
	}
	for _, month := range data.Months() {
		e.months[month] = struct{}{}
	}
	return e
}

// FilterOptions lists the distinct locations and months the dataset offers,
// the values the dashboard dropdowns are populated from.
func (e *Engine) FilterOptions() models.FilterOptions {
	return models.FilterOptions{
		Locations: e.data.Locations(),
		Months:    e.data.Months(),
	}
}

// Run computes the complete report for one selection: KPIs, the three
// revenue groupings, the top-product ranking and the association rules.
// Aggregation and mining run concurrently; both see the same immutable
// subset. Results are deterministic and memoized, so repeated calls with
// the same selection return identical data.
//
// An empty selection yields a zero report. A selection with values the
// dataset has never seen returns a *SelectionError.
func (e *Engine) Run(ctx context.Context, sel models.FilterSelection) (*models.Report, error) {
	if err := e.validate(sel); err != nil {
		return nil, err
	}

	key := selectionKey(sel)

	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	start := time.Now()
	subset := e.data.Filter(sel)

	report := &models.Report{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.KPIs = ComputeKPIs(subset)
		report.RevenueByMonth = RevenueByMonth(subset)
		report.RevenueByWeekday = RevenueByWeekday(subset)
		report.RevenueHeatmap = RevenueHeatmap(subset)
		report.TopProducts = TopProducts(subset, e.opts.TopProducts)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		baskets := BuildBaskets(subset)
		itemsets := MineFrequentItemsets(baskets, e.opts.MinSupport)
		report.AssociationRules = GenerateRules(itemsets, e.opts.MinLift, e.opts.TopRules)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[key] = report
	e.mu.Unlock()

	e.logger.Debug("analytics report computed",
		"lines", subset.Len(),
		"rules", len(report.AssociationRules),
		"duration", time.Since(start),
	)

	return report, nil
}

func (e *Engine) validate(sel models.FilterSelection) error {
	for _, loc := range sel.Locations {
		if _, ok := e.locations[loc]; !ok {
			return &SelectionError{Field: "store_location", Value: loc}
		}
	}
	for _, month := range sel.Months {
		if _, ok := e.months[month]; !ok {
			return &SelectionError{Field: "month", Value: month}
		}
	}
	return nil
}

// selectionKey fingerprints a selection independent of value order.
func selectionKey(sel models.FilterSelection) string {
	locations := append([]string(nil), sel.Locations...)
	months := append([]string(nil), sel.Months...)
	sort.Strings(locations)
	sort.Strings(months)
	return strings.Join(locations, itemsetKeySep) + "\x1e" + strings.Join(months, itemsetKeySep)
}

// Stats is the admin/monitoring view of the engine.
func (e *Engine) Stats() map[string]any {
	e.mu.RLock()
	cached := len(e.cache)
	e.mu.RUnlock()

	return map[string]any{
		"lines":          e.data.Len(),
		"locations":      len(e.locations),
		"months":         len(e.months),
		"cached_reports": cached,
		"loaded_at":      e.loadedAt,
	}
}
