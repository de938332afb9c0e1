// Package scheduler implements open-loop request pacing: scenarios are
// dispatched at a fixed target rate for a fixed duration, independent of how
// quickly the target responds. Dispatch rate therefore never degrades to the
// target's service rate, which is the defining property of open-loop load
// generation (a closed-loop generator, bounded by a fixed concurrency level,
// slows down whenever the target does).
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ratesweep/ratesweep/internal/executor"
	"github.com/ratesweep/ratesweep/internal/scenario"
)

// Executor abstracts single-request execution for the pacing loop.
type Executor interface {
	Execute(ctx context.Context, scn scenario.Scenario) executor.Result
}

// Scheduler paces dispatch of scenarios for one phase. Observer, when set,
// sees every settled result as it arrives (completion order, which is not
// dispatch order); it feeds the live progress collector.
type Scheduler struct {
	Exec     Executor
	Observer func(executor.Result)

	// LimiterFactory is an injection point for tests; nil selects the
	// default uniform pacer with burst 1 for even spacing.
	LimiterFactory func(targetRate int) *rate.Limiter
}

// Run dispatches scenarios at targetRate for duration, then awaits every
// in-flight request before returning, so the returned slice holds exactly
// one result per scheduled request even when the duration boundary passed
// before all responses arrived. Results appear in completion order.
//
// Cancelling ctx stops scheduling new requests at the next pacing-loop
// iteration; requests already dispatched settle naturally (they run under a
// context detached from cancellation and are bounded by the executor's
// per-request timeout).
func (s *Scheduler) Run(ctx context.Context, targetRate int, duration time.Duration, sel *scenario.Selector) ([]executor.Result, time.Duration, error) {
	if targetRate <= 0 {
		return nil, 0, fmt.Errorf("target rate must be > 0, got %d", targetRate)
	}
	if duration <= 0 {
		return nil, 0, fmt.Errorf("duration must be > 0, got %s", duration)
	}
	if sel == nil {
		return nil, 0, fmt.Errorf("scenario selector is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	limiter := s.newLimiter(targetRate)

	// In-flight requests outlive both the phase deadline and an operator
	// stop; only the per-request timeout bounds them.
	requestCtx := context.WithoutCancel(ctx)

	paceCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	resCh := make(chan executor.Result, 2*targetRate+16)
	collected := make([]executor.Result, 0, targetRate*int(duration.Seconds())+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range resCh {
			collected = append(collected, res)
			if s.Observer != nil {
				s.Observer(res)
			}
		}
	}()

	var wg sync.WaitGroup
	start := time.Now()
	for {
		// Wait returns an error once the phase deadline (or a stop signal)
		// would land before the next permit; that ends scheduling.
		if err := limiter.Wait(paceCtx); err != nil {
			break
		}
		scn := sel.Pick()
		wg.Add(1)
		go func() {
			defer wg.Done()
			resCh <- s.Exec.Execute(requestCtx, scn)
		}()
	}
	window := time.Since(start)

	// Join every dispatched request, then drain the collector.
	wg.Wait()
	close(resCh)
	<-done

	return collected, window, nil
}

func (s *Scheduler) newLimiter(targetRate int) *rate.Limiter {
	if s.LimiterFactory != nil {
		return s.LimiterFactory(targetRate)
	}
	// Burst 1 keeps inter-dispatch spacing uniform at 1/rate.
	return rate.NewLimiter(rate.Limit(targetRate), 1)
}
