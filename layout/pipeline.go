package layout

import (
	"context"
	"runtime"
	"sync"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// Job is one document for the pipeline: a structural tree plus the
// stylesheet to lay it out against.
type Job struct {
	Root       *ir.Node
	Stylesheet *style.Stylesheet
}

// Result is the outcome of one job.
type Result struct {
	Sequence *LaidOutSequence
	Err      error
}

// Pipeline lays out independent documents concurrently on a fixed pool of
// workers sharing one engine. Each job gets a private store, so workers
// only meet at the shared shaping cache.
type Pipeline struct {
	eng     *Engine
	workers int
}

// NewPipeline returns a pipeline running at most workers concurrent jobs.
// A count below one selects GOMAXPROCS.
func NewPipeline(eng *Engine, workers int) *Pipeline {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
		if workers < 1 {
			workers = 1
		}
	}
	return &Pipeline{eng: eng, workers: workers}
}

// Process lays out every job and returns one result per job, in job order.
// A cancelled context fails the jobs that have not started with the
// context's error.
func (p *Pipeline) Process(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if err := ctx.Err(); err != nil {
					results[i] = Result{Err: err}
					continue
				}
				seq, err := p.eng.Layout(ctx, jobs[i].Stylesheet, jobs[i].Root)
				if err != nil {
					p.eng.logger.Warn("layout job failed",
						observability.Int("job", i),
						observability.Error("error", err))
				}
				results[i] = Result{Sequence: seq, Err: err}
			}
		}()
	}
	for i := range jobs {
		work <- i
	}
	close(work)
	wg.Wait()
	return results
}
