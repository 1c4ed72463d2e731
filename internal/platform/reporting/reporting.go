// Package reporting evaluates predefined aggregate measures and caches their
// results.
package reporting

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/cache"
	"github.com/hms/hms/internal/platform/clock"
)

// ErrUnknownMeasure is returned when no measure has the requested ID.
var ErrUnknownMeasure = errors.New("measure not found")

// KeyPrefix namespaces cached measure results.
const KeyPrefix = "report:"

// MeasureDefinition describes a reporting measure.
type MeasureDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	GroupBy     string `json:"groupBy"`
}

// Row is one group of a measure result.
type Row struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount,omitempty"`
}

// MeasureReport holds the results of evaluating a measure.
type MeasureReport struct {
	MeasureID   string    `json:"measureId"`
	MeasureName string    `json:"measureName"`
	GeneratedAt time.Time `json:"generatedAt"`
	Total       int       `json:"total"`
	Results     []Row     `json:"results"`
	Cached      bool      `json:"cached"`
}

// Measure pairs a definition with the function that computes it.
type Measure struct {
	MeasureDefinition
	Compute func(ctx context.Context) ([]Row, error)
}

// Engine evaluates measures through a cache.
type Engine struct {
	measures []Measure
	cache    cache.Cache
	ttl      time.Duration
	clock    clock.Clock
	logger   zerolog.Logger
}

func NewEngine(c cache.Cache, ttl time.Duration, clk clock.Clock, logger zerolog.Logger, measures ...Measure) *Engine {
	return &Engine{measures: measures, cache: c, ttl: ttl, clock: clk, logger: logger}
}

// Definitions lists the available measures in registration order.
func (e *Engine) Definitions() []MeasureDefinition {
	out := make([]MeasureDefinition, len(e.measures))
	for i, m := range e.measures {
		out[i] = m.MeasureDefinition
	}
	return out
}

// FindMeasure looks up a measure by ID.
func (e *Engine) FindMeasure(id string) (*Measure, bool) {
	for i := range e.measures {
		if e.measures[i].ID == id {
			return &e.measures[i], true
		}
	}
	return nil, false
}

// Evaluate returns the report for id, from cache when a fresh result exists.
func (e *Engine) Evaluate(ctx context.Context, id string) (*MeasureReport, error) {
	m, ok := e.FindMeasure(id)
	if !ok {
		return nil, ErrUnknownMeasure
	}
	rep, hit, err := cache.Remember(ctx, e.cache, KeyPrefix+id, e.ttl, func(ctx context.Context) (MeasureReport, error) {
		rows, err := m.Compute(ctx)
		if err != nil {
			return MeasureReport{}, err
		}
		total := 0
		for _, r := range rows {
			total += r.Count
		}
		return MeasureReport{
			MeasureID:   m.ID,
			MeasureName: m.Name,
			GeneratedAt: e.clock.Now(),
			Total:       total,
			Results:     rows,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	rep.Cached = hit
	e.logger.Debug().Str("measure", id).Bool("cached", hit).Msg("measure evaluated")
	return &rep, nil
}

// Invalidate drops the cached result of every measure.
func (e *Engine) Invalidate(ctx context.Context) {
	for _, m := range e.measures {
		if err := e.cache.Delete(ctx, KeyPrefix+m.ID); err != nil {
			e.logger.Warn().Err(err).Str("measure", m.ID).Msg("failed to invalidate measure")
		}
	}
}

// CountBy groups items by key and counts each group, largest first. Ties
// keep the order in which groups first appear.
func CountBy[T any](items []T, key func(T) string) []Row {
	return SumBy(items, key, nil)
}

// SumBy is CountBy that also totals amount per group. A nil amount leaves
// Amount at zero.
func SumBy[T any](items []T, key func(T) string, amount func(T) float64) []Row {
	idx := make(map[string]int)
	rows := []Row{}
	for _, it := range items {
		k := key(it)
		if k == "" {
			k = "unknown"
		}
		i, ok := idx[k]
		if !ok {
			i = len(rows)
			idx[k] = i
			rows = append(rows, Row{Group: k})
		}
		rows[i].Count++
		if amount != nil {
			rows[i].Amount += amount(it)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}
