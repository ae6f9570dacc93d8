// Package worker runs batches of independent jobs on a bounded pool of
// goroutines.
package worker

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/powerteam/pkg/logger"
	"github.com/okian/powerteam/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	defaultPoolName         = "pool"
)

// Job is one unit of work.
type Job func(ctx context.Context) error

// Pool executes job batches with at most Size jobs in flight. A Pool holds
// no goroutines between batches and is safe for concurrent use.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool of size workers. size < 1 selects a multiple of
// the CPU count.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		size:   size,
		name:   defaultPoolName,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the maximum number of concurrent jobs.
func (p *Pool) Size() int { return p.size }

// Run executes jobs and waits for all started jobs to return. The first job
// error cancels the context passed to the remaining jobs, stops jobs not yet
// started, and is returned. A canceled ctx is reported as ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return p.runJob(gctx, i, job)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Pool) runJob(ctx context.Context, i int, job Job) error {
	start := time.Now()
	err := job(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordWorkerJob(p.name, "error", elapsed)
		metrics.RecordErrorByComponent("worker", p.name)
		p.logger.Debug(ctx, "job failed",
			logger.Int("job", i),
			logger.Error(err),
		)
		return err
	}
	metrics.RecordWorkerJob(p.name, "ok", elapsed)
	return nil
}
