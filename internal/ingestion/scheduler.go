package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/stockpulse/internal/logger"
)

// Job is one scheduled ingestion run, typically a closure over Refresh.
type Job func(ctx context.Context) (Result, error)

// Scheduler runs a Job on a cron schedule with a seconds field
// (e.g. "0 30 18 * * 1-5"). Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	job    Job
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

// NewScheduler registers job under schedule. Runs receive a context derived
// from ctx that is cancelled by Stop.
func NewScheduler(ctx context.Context, schedule string, job Job) (*Scheduler, error) {
	log := logger.Component("scheduler")
	cl := cronLogger{log: log}
	runCtx, cancel := context.WithCancel(ctx)
	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		job:    job,
		ctx:    runCtx,
		cancel: cancel,
		log:    log,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunNow); err != nil {
		cancel()
		return nil, fmt.Errorf("register refresh job %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop cancels a running job and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the job synchronously (manual trigger / run on start).
func (s *Scheduler) RunNow() {
	start := time.Now()
	res, err := s.job(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("scheduled refresh failed")
		return
	}
	s.log.Info().Int("updated", res.Updated).Int("skipped", res.Skipped).Int("missed", res.Missed).
		Int("rows", res.Rows).Dur("elapsed", time.Since(start)).Msg("scheduled refresh done")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
