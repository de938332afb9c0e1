// Command ratesweep drives an open-loop HTTP benchmark sweep against one or
// two targets and writes per-target JSON result artifacts for offline
// analysis.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ratesweep/ratesweep/internal/analysis"
	"github.com/ratesweep/ratesweep/internal/bench"
	"github.com/ratesweep/ratesweep/internal/config"
	"github.com/ratesweep/ratesweep/internal/executor"
	"github.com/ratesweep/ratesweep/internal/output"
	"github.com/ratesweep/ratesweep/internal/scenario"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratesweep <primary-url> [secondary-url]",
		Short: "Open-loop HTTP load sweep and comparison tool",
		Long: `ratesweep fires a weighted mix of HTTP requests at each target across an
ascending series of fixed dispatch rates, holding each rate steady regardless
of how slowly the target responds. Each target gets a JSON results artifact
with per-phase latency percentiles and error rates.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		RunE:          run,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	// Usage output is for invocation mistakes (missing target, bad flags),
	// not for runtime failures.
	cmd.SilenceUsage = true

	cfg, err := config.Load(cmd.Flags(), args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg.JSONLog)

	scenarios := scenario.DefaultMix()
	warmup := scenario.DefaultWarmupMix()
	if cfg.ScenarioFile != "" {
		mix, err := config.LoadMixFile(cfg.ScenarioFile)
		if err != nil {
			return fmt.Errorf("load scenario file: %w", err)
		}
		scenarios = mix.ScenarioMix()
		if w := mix.WarmupMix(); w != nil {
			warmup = w
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Progress lines and JSON log output both go to stderr; interleaving
	// carriage-return progress with structured logs makes both unreadable.
	var progress io.Writer
	if !cfg.JSONLog {
		progress = os.Stderr
	}

	var firstErr error
	for _, target := range cfg.Targets {
		res, err := bench.Run(ctx, bench.Options{
			Config:    cfg,
			Target:    target,
			Client:    executor.NewClient(cfg.Timeout),
			Scenarios: scenarios,
			Warmup:    warmup,
			Logger:    log,
			Progress:  progress,
		})
		if err != nil {
			log.Error().Err(err).Str("target", target).Msg("benchmark failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		output.PrintRunReport(os.Stdout, target, res.RunID, res.Phases)
		output.PrintScenarioBreakdown(os.Stdout, res.Scenarios)

		verdicts := analysis.Evaluate(res.Phases, analysis.Criteria{
			MaxErrorRate: cfg.MaxErrorRate,
			MaxP95:       cfg.MaxP95,
		})
		output.PrintSustainability(os.Stdout, verdicts)

		path := filepath.Join(cfg.OutputDir, config.TargetLabel(target)+"-results.json")
		if err := output.WriteResults(path, res.Phases); err != nil {
			log.Error().Err(err).Str("path", path).Msg("writing results failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Info().Str("path", path).Int("phases", len(res.Phases)).Msg("results written")
	}
	return firstErr
}

func newLogger(jsonLog bool) zerolog.Logger {
	if jsonLog {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).With().Timestamp().Logger()
}
