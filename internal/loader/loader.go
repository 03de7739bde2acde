// Package loader turns a season identifier into a normalized player table,
// memoizing successful loads per season.
package loader

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
	"github.com/KaramelBytes/nbastats-cli/internal/metrics"
	"github.com/KaramelBytes/nbastats-cli/internal/source"
)

const (
	DefaultMinSeason = 1950
	DefaultMaxSeason = 2021
)

// InvalidSeasonError indicates a season outside the supported range.
type InvalidSeasonError struct {
	Season   int
	Min, Max int
}

func (e *InvalidSeasonError) Error() string {
	return fmt.Sprintf("invalid season %d: supported range is %d-%d", e.Season, e.Min, e.Max)
}

// LoadError wraps a failed load with the season and the stage that failed
// ("fetch" or "normalize").
type LoadError struct {
	Season int
	Stage  string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load season %d: %s: %v", e.Season, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options configures a Loader.
type Options struct {
	MinSeason int
	MaxSeason int
	Logger    *logrus.Logger
	Now       func() time.Time
}

// Loader fetches and normalizes season tables through a TableSource.
type Loader struct {
	src   source.TableSource
	cache *Cache
	group singleflight.Group
	opts  Options
	log   *logrus.Entry
}

func New(src source.TableSource, opts Options) *Loader {
	if opts.MinSeason == 0 {
		opts.MinSeason = DefaultMinSeason
	}
	if opts.MaxSeason == 0 {
		opts.MaxSeason = DefaultMaxSeason
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{
		src:   src,
		cache: NewCache(),
		opts:  opts,
		log:   logger.WithField("component", "loader"),
	}
}

// Cache exposes the per-season cache for invalidation.
func (l *Loader) Cache() *Cache { return l.cache }

// SeasonRange returns the inclusive supported range.
func (l *Loader) SeasonRange() (int, int) { return l.opts.MinSeason, l.opts.MaxSeason }

// ValidateSeason rejects seasons outside the supported range.
func (l *Loader) ValidateSeason(season int) error {
	if season < l.opts.MinSeason || season > l.opts.MaxSeason {
		return &InvalidSeasonError{Season: season, Min: l.opts.MinSeason, Max: l.opts.MaxSeason}
	}
	return nil
}

// Load returns the normalized table for season.
func (l *Loader) Load(ctx context.Context, season int) (*analysis.Table, error) {
	e, err := l.LoadEntry(ctx, season)
	if err != nil {
		return nil, err
	}
	return e.Table, nil
}

// LoadEntry is Load with cache metadata. Concurrent calls for the same season
// share a single fetch; failures are returned to every waiter and never cached.
// The shared fetch is detached from any one caller's cancellation, and each
// caller stops waiting when its own ctx is done.
func (l *Loader) LoadEntry(ctx context.Context, season int) (*Entry, error) {
	if err := l.ValidateSeason(season); err != nil {
		return nil, err
	}
	if e, ok := l.cache.Get(season); ok {
		metrics.CacheHit()
		l.log.WithFields(logrus.Fields{"season": season, "load_id": e.LoadID}).Debug("cache hit")
		return e, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(strconv.Itoa(season), func() (interface{}, error) {
		if e, ok := l.cache.Get(season); ok {
			return e, nil
		}
		return l.fetch(shared, season)
	})
	select {
	case <-ctx.Done():
		return nil, &LoadError{Season: season, Stage: "fetch", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	}
}

func (l *Loader) fetch(ctx context.Context, season int) (*Entry, error) {
	id := uuid.NewString()
	log := l.log.WithFields(logrus.Fields{"season": season, "load_id": id, "source": l.src.Name()})
	start := l.opts.Now()

	raw, err := l.src.Fetch(ctx, season)
	if err != nil {
		metrics.ObserveLoad(l.opts.Now().Sub(start), metrics.OutcomeError)
		log.WithError(err).WithField("stage", "fetch").Warn("season load failed")
		return nil, &LoadError{Season: season, Stage: "fetch", Err: err}
	}
	table, err := analysis.Normalize(raw)
	if err != nil {
		metrics.ObserveLoad(l.opts.Now().Sub(start), metrics.OutcomeError)
		log.WithError(err).WithField("stage", "normalize").Warn("season load failed")
		return nil, &LoadError{Season: season, Stage: "normalize", Err: err}
	}

	e := &Entry{LoadID: id, Season: season, Table: table, LoadedAt: l.opts.Now()}
	l.cache.Put(e)
	elapsed := l.opts.Now().Sub(start)
	metrics.ObserveLoad(elapsed, metrics.OutcomeSuccess)
	rows, cols := table.Shape()
	log.WithFields(logrus.Fields{
		"rows":        rows,
		"cols":        cols,
		"header_rows": len(raw.Rows) - rows,
		"elapsed":     elapsed,
	}).Info("season loaded")
	return e, nil
}
