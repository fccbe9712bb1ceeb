// Package core has core logic for loading, transforming and summarizing prices.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/birkin/internal/chart"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/outwriter"
	"github.com/huangsam/birkin/internal/scheduler"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// DefaultChartFile is used when no --chart-file is given.
const DefaultChartFile = "birkin_chart.png"

// ExecuteSeries loads today's dataset and prints the selected series with its summary.
// It serves as the main entry point for the 'series' command.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetSeriesResult(ctx, cfg, mgr, start)
	if err != nil {
		return err
	}
	return outwriter.WriteSeriesResult(result, cfg, time.Since(start))
}

// ExecuteRefresh fetches a new snapshot regardless of freshness and prints the selected series.
func ExecuteRefresh(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := NewConfiguredLoader(cfg, mgr).RefreshSeries(ctx, cfg.Selection, start)
	if err != nil {
		return err
	}
	return outwriter.WriteSeriesResult(result, cfg, time.Since(start))
}

// ExecuteFactors prints every pricing multiplier and the summary formulas.
func ExecuteFactors(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.WriteFactors(BuildFactorsRenderModel(), cfg)
}

// ExecuteChart renders the selected series to a PNG file.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, err := GetSeriesResult(ctx, cfg, mgr, time.Now())
	if err != nil {
		return err
	}
	path := cfg.ChartFile
	if path == "" {
		path = DefaultChartFile
	}
	if err := chart.WriteSeriesPNG(path, result, cfg.ChartWidth, cfg.ChartHeight); err != nil {
		return err
	}
	contract.Logger.Info().Str("file", path).Int("points", len(result.Points)).Msg("Chart written")
	return outwriter.WriteChartNotice(path, result, cfg)
}

// ExecuteSchedule warms today's snapshot, then refreshes it on the configured
// cron spec until ctx is done.
func ExecuteSchedule(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	loader := NewConfiguredLoader(cfg, mgr)
	if _, err := loader.LoadDataset(ctx, time.Now()); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(ctx, loader.Refresh)
	if err := sched.Register(cfg.Schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	sched.Start()
	defer sched.Stop()
	contract.Logger.Info().Str("schedule", cfg.Schedule).Time("next", sched.Next()).Msg("Waiting for scheduled refreshes")

	<-ctx.Done()
	return nil
}
