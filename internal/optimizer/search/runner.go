package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/engine"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/result"
)

// Options tune a Runner.
type Options struct {
	// Workers is the worker-pool size. 0 uses GOMAXPROCS.
	Workers int
	// MinChunks is the minimum number of chunks to split the tree into.
	// 0 uses four per worker.
	MinChunks int
	// Interval overrides the progress snapshot cadence. 0 keeps the engine
	// default.
	Interval uint64
}

// Runner owns one worker-pool configuration and runs searches with it.
type Runner struct {
	opts   Options
	logger *zap.Logger
	sink   engine.ProgressSink
}

// NewRunner builds a Runner. A nil logger discards diagnostics; a nil sink
// disables progress reporting.
func NewRunner(opts Options, logger *zap.Logger, sink engine.ProgressSink) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, logger: logger, sink: sink}
}

// relaySink rewrites worker-local snapshot counters into run-wide ones and
// serializes delivery to the inner sink. Holding the lock across both the
// counter update and the delivery keeps Processed monotone in delivery order.
type relaySink struct {
	inner engine.ProgressSink
	total uint64

	mu        sync.Mutex
	processed uint64
}

func (r *relaySink) Publish(p engine.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed += p.Batch
	p.Total = r.total
	p.Processed = r.processed
	return r.inner.Publish(p)
}

// Run executes one exhaustive search over the worker pool and returns the
// merged leaderboard.
//
// Structural problems in the inputs fail here, before any worker starts.
// Cancellation granularity is the chunk: ctx is checked between chunks and a
// chunk always runs to completion once started.
func (r *Runner) Run(ctx context.Context, s *gear.Settings, combinations []gear.Combination) (*result.Collector, error) {
	start := time.Now()
	logger := r.logger.With(zap.String("job_id", uuid.NewString()))

	proto, err := engine.New(s, combinations, logger, nil)
	if err != nil {
		return nil, err
	}
	s = proto.Settings()
	total := engine.TotalEvaluations(s, len(combinations))

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	minChunks := r.opts.MinChunks
	if minChunks <= 0 {
		minChunks = workers * 4
	}
	chunks := Split(s, minChunks)
	if len(chunks) < workers {
		workers = len(chunks)
	}

	var sink engine.ProgressSink
	if r.sink != nil {
		sink = &relaySink{inner: r.sink, total: total}
	}

	// Engines are built up front: every worker owns its scratch state, and
	// settings normalization happens before any goroutine reads them.
	engines := make([]*engine.Engine, workers)
	for w := range engines {
		eng, err := engine.New(s, combinations, logger.With(zap.Int("worker", w)), sink)
		if err != nil {
			return nil, err
		}
		if r.opts.Interval != 0 {
			eng.Interval = r.opts.Interval
		}
		engines[w] = eng
	}

	logger.Info("search started",
		zap.Int("workers", workers),
		zap.Int("chunks", len(chunks)),
		zap.Int("combinations", len(combinations)),
		zap.Uint64("evaluations", total))

	feed := make(chan []gear.Affix, len(chunks))
	for _, chunk := range chunks {
		feed <- chunk
	}
	close(feed)

	tallies := make([]*engine.Tally, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			tally := engine.NewTally(s.MaxResults)
			tallies[w] = tally
			for chunk := range feed {
				if ctx.Err() != nil {
					errs[w] = ctx.Err()
					return
				}
				if err := engines[w].SearchChunk(chunk, tally); err != nil {
					errs[w] = err
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
	}

	final := result.New(s.MaxResults)
	var evaluated uint64
	for _, tally := range tallies {
		evaluated += tally.Evaluated
		final.Merge(tally.Results)
	}
	logger.Info("search complete",
		zap.Uint64("evaluations", evaluated),
		zap.Int("results", final.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return final, nil
}
