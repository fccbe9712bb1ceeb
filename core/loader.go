package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
	"golang.org/x/sync/singleflight"
)

// Loader applies the one-day freshness policy in front of a PriceSource.
// Concurrent fetches inside one process are coalesced into a single request.
type Loader struct {
	source   contract.PriceSource
	cache    contract.EnvelopeCache
	history  contract.HistoryStore
	hitDelay time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	group    singleflight.Group
	memo     *SeriesMemo
}

// NewLoader creates a loader. history may be nil.
func NewLoader(source contract.PriceSource, cache contract.EnvelopeCache, history contract.HistoryStore, hitDelay time.Duration) *Loader {
	return &Loader{
		source:   source,
		cache:    cache,
		history:  history,
		hitDelay: hitDelay,
		sleep:    sleepContext,
		memo:     NewSeriesMemo(),
	}
}

// sleepContext waits for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Today is the calendar day of now in now's own location.
func Today(now time.Time) string {
	return now.Format(contract.DateFormat)
}

// LoadDataset returns today's dataset. A cached envelope stamped with today's
// date is returned after the hit delay without calling the source. Otherwise
// the source is called once and its result, even an empty degraded one, is
// persisted for the rest of the day. The only error is ctx cancellation, and a
// cancelled fetch persists nothing.
func (l *Loader) LoadDataset(ctx context.Context, now time.Time) (*schema.LoadResult, error) {
	today := Today(now)
	if env, ok := l.cache.Get(); ok && env.Data != nil && env.LastUpdated == today {
		if err := l.sleep(ctx, l.hitDelay); err != nil {
			return nil, err
		}
		contract.Logger.Debug().Str("day", today).Msg("Snapshot cache hit")
		return &schema.LoadResult{
			Dataset:     env.Data,
			LastUpdated: env.LastUpdated,
			Source:      schema.CacheSource,
		}, nil
	}
	contract.Logger.Debug().Str("day", today).Msg("Snapshot cache miss")
	return l.coalescedFetch(ctx, now, true)
}

// Refresh always fetches, regardless of freshness. Only a successful fetch
// replaces the stored envelope. A failed refresh returns the stored envelope,
// if any, flagged as degraded.
func (l *Loader) Refresh(ctx context.Context, now time.Time) (*schema.LoadResult, error) {
	return l.coalescedFetch(ctx, now, false)
}

// coalescedFetch shares one in-flight fetch per day and mode. When the caller
// that started the fetch is cancelled, callers that joined it start over.
func (l *Loader) coalescedFetch(ctx context.Context, now time.Time, persistDegraded bool) (*schema.LoadResult, error) {
	today := Today(now)
	key := "refresh:" + today
	if persistDegraded {
		key = "fetch:" + today
	}
	v, err, shared := l.group.Do(key, func() (any, error) {
		return l.fetchAndStore(ctx, now, persistDegraded)
	})
	if err != nil {
		if shared && ctx.Err() == nil && isContextErr(err) {
			contract.Logger.Debug().Str("day", today).Msg("Shared pricing fetch was cancelled, fetching again")
			return l.coalescedFetch(ctx, now, persistDegraded)
		}
		return nil, err
	}
	if shared {
		contract.Logger.Debug().Str("day", today).Msg("Joined in-flight pricing fetch")
	}
	res := *v.(*schema.LoadResult)
	return &res, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// fetchAndStore calls the source once. A failure caused by ctx ending is
// returned as ctx.Err() and leaves the cache and history untouched.
// Degraded results are persisted only when persistDegraded is set.
// Store failures are logged and never fail the load.
func (l *Loader) fetchAndStore(ctx context.Context, now time.Time, persistDegraded bool) (*schema.LoadResult, error) {
	today := Today(now)
	result := l.source.Fetch(ctx)
	if result.Degraded() {
		if err := ctx.Err(); err != nil {
			contract.Logger.Debug().Err(err).Str("day", today).Msg("Pricing fetch abandoned")
			return nil, err
		}
	}
	data := result.Data
	if data == nil {
		data = schema.PriceDataset{}
	}

	if l.history != nil {
		if runID, err := l.history.RecordFetch(now, today, result); err != nil {
			contract.LogWarn("Failed to record fetch history", err)
		} else {
			contract.Logger.Debug().Int64("run_id", runID).Msg("Recorded fetch history")
		}
	}

	out := &schema.LoadResult{
		Dataset:     data,
		LastUpdated: today,
		Source:      schema.NetworkSource,
		Degraded:    result.Degraded(),
	}
	if result.Err != nil {
		out.Reason = result.Err.Error()
	}

	if out.Degraded && !persistDegraded {
		if prev, ok := l.cache.Get(); ok && prev.Data != nil {
			out.Dataset = prev.Data
			out.LastUpdated = prev.LastUpdated
			out.Source = schema.CacheSource
		}
		contract.Logger.Warn().Str("reason", out.Reason).Str("kept", out.LastUpdated).Msg("Refresh failed, keeping the stored snapshot")
		return out, nil
	}

	if err := l.cache.Set(schema.CacheEnvelope{Data: data, LastUpdated: today}); err != nil {
		contract.LogWarn("Failed to persist pricing snapshot", err)
	}
	l.memo.Flush()
	return out, nil
}

// SeriesFor loads the dataset and returns the chart-ready series for sel.
func (l *Loader) SeriesFor(ctx context.Context, sel schema.Selection, now time.Time) (*schema.SeriesResult, error) {
	loaded, err := l.LoadDataset(ctx, now)
	if err != nil {
		return nil, err
	}
	return l.seriesFromLoad(loaded, sel), nil
}

// RefreshSeries forces a fetch and returns the series for sel.
func (l *Loader) RefreshSeries(ctx context.Context, sel schema.Selection, now time.Time) (*schema.SeriesResult, error) {
	loaded, err := l.Refresh(ctx, now)
	if err != nil {
		return nil, err
	}
	return l.seriesFromLoad(loaded, sel), nil
}

func (l *Loader) seriesFromLoad(loaded *schema.LoadResult, sel schema.Selection) *schema.SeriesResult {
	raw := loaded.Dataset.Series(sel.Key())
	points, summary, ok := l.memo.Get(sel, loaded.LastUpdated, raw)
	if !ok {
		built := BuildSeries(loaded.Dataset, sel)
		points, summary = built.Points, built.Summary
		l.memo.Set(sel, loaded.LastUpdated, raw, points, summary)
	}
	return &schema.SeriesResult{
		Selection:   sel,
		Points:      points,
		Summary:     summary,
		LastUpdated: loaded.LastUpdated,
		Source:      loaded.Source,
		Degraded:    loaded.Degraded,
	}
}
