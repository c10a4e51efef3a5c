// Package autosync pulls the remote collection into the progress store on
// a fixed interval.
package autosync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/vocabz/internal/logger"
	"github.com/abhisek/vocabz/internal/progress"
)

// Syncer is the part of progress.Store the runner drives.
type Syncer interface {
	SyncFromRemote(ctx context.Context) (int, error)
}

// Result is reported after every tick.
type Result struct {
	At      time.Time
	Records int
	Err     error
}

// Runner schedules SyncFromRemote. A missing remote schema stops it;
// any other failure is logged and the next tick tries again.
type Runner struct {
	scheduler *gocron.Scheduler
	syncer    Syncer
	interval  time.Duration
	log       *logger.Logger

	// OnResult, when set, is called after every tick.
	OnResult func(Result)

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
	err      error
}

// New creates a Runner. Call Start to begin ticking.
func New(syncer Syncer, interval time.Duration, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Runner{
		scheduler: s,
		syncer:    syncer,
		interval:  interval,
		log:       log.WithPrefix("autosync"),
		done:      make(chan struct{}),
	}
}

// Start schedules the job and runs the first sync immediately.
func (r *Runner) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)
	if _, err := r.scheduler.Every(r.interval).Do(r.tick); err != nil {
		return err
	}
	r.scheduler.StartAsync()
	r.log.Info("syncing every %s", r.interval)
	return nil
}

// Stop cancels any in-flight sync and stops the scheduler.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.scheduler.Stop()
	r.finish(nil)
}

// Done is closed when the runner stops, either through Stop or because
// the remote schema is missing.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Err returns the error that stopped the runner, if any.
func (r *Runner) Err() error {
	<-r.done
	return r.err
}

func (r *Runner) finish(err error) {
	r.doneOnce.Do(func() {
		r.err = err
		close(r.done)
	})
}

func (r *Runner) tick() {
	n, err := r.syncer.SyncFromRemote(r.ctx)
	res := Result{At: time.Now(), Records: n, Err: err}

	switch {
	case err == nil:
		r.log.Debug("synced %d records", n)
	case errors.Is(err, progress.ErrSchemaMissing):
		r.log.Error("remote table is missing; run `vocabz sync` for setup instructions")
		r.finish(err)
		// Stop waits for running jobs, so it cannot run on this goroutine.
		go r.scheduler.Stop()
	case errors.Is(err, context.Canceled):
	default:
		r.log.Warn("sync failed, retrying next tick: %v", err)
	}

	if r.OnResult != nil {
		r.OnResult(res)
	}
}
