package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/AnyUserName/avifconv/internal/codec"
	"github.com/AnyUserName/avifconv/internal/mailbox"
)

// Job is a run executing on its own goroutine. The worker is the only
// writer; readers poll Completed and Status or follow Updates.
type Job struct {
	total     int
	completed atomic.Int64
	status    atomic.Value // string
	updates   *mailbox.Mailbox[Progress]
	done      chan struct{}
	summary   Summary
}

// StartJob begins converting items in the background. There is no way to
// stop a job other than canceling ctx; items not started by then fail
// with StageCanceled.
func StartJob(ctx context.Context, enc codec.Encoder, items []string, destDir string, opts Options) *Job {
	j := &Job{
		total:   len(items),
		updates: mailbox.New[Progress](),
		done:    make(chan struct{}),
	}
	j.status.Store(fmt.Sprintf("Converting %d file(s)...", len(items)))

	go func() {
		defer close(j.done)
		s := Run(ctx, enc, items, destDir, opts, func(p Progress) {
			j.completed.Store(int64(p.Completed))
			j.status.Store(fmt.Sprintf("%d/%d", p.Completed, p.Total))
			j.updates.Put(p)
		})
		j.summary = s
		j.status.Store(s.String())
		j.updates.Close()
	}()
	return j
}

// Total returns the number of items in the job.
func (j *Job) Total() int { return j.total }

// Completed returns how many items have finished.
func (j *Job) Completed() int { return int(j.completed.Load()) }

// Status returns the current one-line status.
func (j *Job) Status() string { return j.status.Load().(string) }

// Updates signals that new progress may be available through Latest.
// It is closed once the job has finished.
func (j *Job) Updates() <-chan struct{} { return j.updates.Ready() }

// Latest returns the most recent progress not yet seen. Intermediate
// updates are dropped when the reader falls behind.
func (j *Job) Latest() (Progress, bool) { return j.updates.TryTake() }

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes and returns its summary.
func (j *Job) Wait() Summary {
	<-j.done
	return j.summary
}
