// Package bench orchestrates a full benchmark run against one target: an
// optional warmup phase followed by an ascending sweep of fixed-rate phases
// with a cooldown pause between them. Each phase runs open loop, so the
// dispatch rate holds steady regardless of how slowly the target answers.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/ratesweep/ratesweep/internal/config"
	"github.com/ratesweep/ratesweep/internal/executor"
	"github.com/ratesweep/ratesweep/internal/metrics"
	"github.com/ratesweep/ratesweep/internal/output"
	"github.com/ratesweep/ratesweep/internal/scenario"
	"github.com/ratesweep/ratesweep/internal/scheduler"
	"github.com/ratesweep/ratesweep/internal/stats"
)

const progressInterval = time.Second

// Options configures a single-target benchmark run.
type Options struct {
	Config    *config.Config
	Target    string
	Client    *http.Client
	Scenarios []scenario.Scenario
	Warmup    []scenario.Scenario
	Logger    zerolog.Logger

	// Progress receives live in-phase counters. Nil disables progress output.
	Progress io.Writer
}

// RunResults holds the sweep outcome for one target. Warmup traffic is
// logged but never included in Phases.
type RunResults struct {
	RunID     string
	Target    string
	StartedAt time.Time
	Phases    []stats.PhaseResult

	// Scenarios breaks measured (non-warmup) traffic down by scenario for
	// the human report.
	Scenarios []stats.ScenarioSummary
}

// Run executes the warmup and sweep phases described by opts.Config against
// opts.Target. A phase whose requests all fail still produces a PhaseResult;
// the sweep stops early only when ctx is cancelled.
func Run(ctx context.Context, opts Options) (*RunResults, error) {
	if opts.Config == nil {
		return nil, errors.New("bench: config is required")
	}
	if opts.Target == "" {
		return nil, errors.New("bench: target is required")
	}
	if opts.Client == nil {
		return nil, errors.New("bench: http client is required")
	}
	if len(opts.Scenarios) == 0 {
		return nil, errors.New("bench: at least one scenario is required")
	}

	run := &RunResults{
		RunID:     ulid.Make().String(),
		Target:    opts.Target,
		StartedAt: time.Now(),
	}

	log := opts.Logger.With().
		Str("run_id", run.RunID).
		Str("target", opts.Target).
		Logger()

	exec := executor.New(opts.Client, opts.Target)
	cfg := opts.Config

	sel, err := scenario.NewSelector(opts.Scenarios)
	if err != nil {
		return nil, fmt.Errorf("bench: build scenario mix: %w", err)
	}

	if cfg.WarmupDuration > 0 {
		warmupSel := sel
		if len(opts.Warmup) > 0 {
			warmupSel, err = scenario.NewSelector(opts.Warmup)
			if err != nil {
				return nil, fmt.Errorf("bench: build warmup mix: %w", err)
			}
		}

		log.Info().
			Dur("duration", cfg.WarmupDuration).
			Int("rate", cfg.WarmupRate).
			Msg("warmup starting")

		warmup, err := runPhase(ctx, exec, "warmup", cfg.WarmupRate, cfg.WarmupDuration, warmupSel, nil, opts.Progress)
		if err != nil {
			log.Error().Err(err).Msg("warmup failed, skipping")
		} else {
			log.Info().
				Int("requests", warmup.TotalRequests).
				Float64("error_rate", warmup.ErrorRate).
				Float64("avg_ms", warmup.AvgResponseTime).
				Msg("warmup complete")
		}
	}

	byScenario := stats.NewScenarioAccumulator()

	for i, target := range cfg.Rates {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("sweep interrupted")
			break
		}

		name := fmt.Sprintf("tps-%d", target)
		log.Info().
			Str("phase", name).
			Int("rate", target).
			Dur("duration", cfg.Duration).
			Msg("phase starting")

		phase, err := runPhase(ctx, exec, name, target, cfg.Duration, sel, byScenario, opts.Progress)
		if err != nil {
			log.Error().Err(err).Str("phase", name).Msg("phase failed, skipping")
			continue
		}
		if ctx.Err() != nil {
			// A cut-short phase would report a misleading rate for its
			// target, so partial results are dropped.
			log.Warn().Str("phase", name).Msg("phase interrupted, discarding partial results")
			break
		}
		run.Phases = append(run.Phases, phase)

		log.Info().
			Str("phase", name).
			Int("requests", phase.TotalRequests).
			Float64("actual_tps", phase.ActualTPS).
			Float64("error_rate", phase.ErrorRate).
			Float64("p95_ms", phase.P95ResponseTime).
			Msg("phase complete")

		if cfg.Cooldown > 0 && i < len(cfg.Rates)-1 {
			log.Debug().Dur("cooldown", cfg.Cooldown).Msg("cooling down")
			if err := sleepCtx(ctx, cfg.Cooldown); err != nil {
				log.Warn().Err(err).Msg("sweep interrupted during cooldown")
				break
			}
		}
	}

	run.Scenarios = byScenario.Summaries()
	return run, nil
}

// runPhase drives one fixed-rate phase and summarizes its results. A fresh
// collector and scheduler are created per phase so no state leaks between
// phases. byScenario, when non-nil, receives every settled result for the
// run-level per-scenario breakdown.
func runPhase(ctx context.Context, exec *executor.Executor, name string, rate int, duration time.Duration, sel *scenario.Selector, byScenario *stats.ScenarioAccumulator, progress io.Writer) (stats.PhaseResult, error) {
	collector := metrics.NewCollector()

	var reporter *output.ProgressReporter
	if progress != nil {
		reporter = output.NewProgressReporter(collector, name, progressInterval, progress)
		reporter.Start()
		defer reporter.Stop()
	}

	observe := collector.Record
	if byScenario != nil {
		observe = func(res executor.Result) {
			collector.Record(res)
			byScenario.Record(res)
		}
	}
	sched := &scheduler.Scheduler{
		Exec:     exec,
		Observer: observe,
	}

	collector.Start()
	results, window, err := sched.Run(ctx, rate, duration, sel)
	if err != nil {
		return stats.PhaseResult{}, err
	}
	return stats.Summarize(name, rate, window, results), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
