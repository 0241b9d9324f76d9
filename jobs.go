package compositor

import (
	"context"

	"github.com/google/uuid"
)

// Job is an asynchronous computation that eventually yields either nil or
// one Callback. Jobs run on their own goroutines, so they must capture only
// owned data and Ids, never references into the registry or state; all
// mutation is deferred to the returned callback, which the loop applies on
// its own goroutine. The context is cancelled when the loop stops.
type Job[S, E any] func(ctx context.Context) Callback[S, E]

// Jobs bridges background work into the run loop. Results are delivered on
// the loop's resume channel and applied exactly like dispatch-produced
// callbacks.
type Jobs[S, E any] struct {
	resume chan<- resume[S, E]
	ctx    context.Context
	log    *Logger
}

func newJobs[S, E any](ctx context.Context, ch chan<- resume[S, E], log *Logger) *Jobs[S, E] {
	return &Jobs[S, E]{resume: ch, ctx: ctx, log: log.WithComponent("jobs")}
}

// Spawn schedules job on its own goroutine. A nil result means no callback.
// If the loop has already shut down when the job finishes, the result is
// abandoned; delivery never blocks shutdown and never panics.
func (j *Jobs[S, E]) Spawn(job Job[S, E]) {
	jobID := uuid.New().String()
	log := j.log.WithField("job", jobID)
	log.Debug("job spawned")

	go func() {
		callback := job(j.ctx)
		if callback == nil {
			log.Debug("job finished with no callback")
			return
		}

		select {
		case j.resume <- resume[S, E]{callback: callback}:
			log.Debug("job callback delivered")
		case <-j.ctx.Done():
			log.Debug("job callback dropped, loop stopped")
		}
	}()
}
