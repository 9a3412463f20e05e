package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepFunc is the unit of work run on every tick.
type SweepFunc func(ctx context.Context) (int, error)

type SweeperConfig struct {
	Enabled  bool
	Schedule string
	// Upper bound for a single run.
	Timeout time.Duration
}

// Sweeper runs the expiry sweep on a cron schedule. A tick that fires while
// the previous run is still going is skipped.
type Sweeper struct {
	cron     *cron.Cron
	sweep    SweepFunc
	config   SweeperConfig
	log      *zap.Logger
	entryID  cron.EntryID
	stopOnce sync.Once
}

func NewSweeper(cfg SweeperConfig, sweep SweepFunc, log *zap.Logger) *Sweeper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	log = log.Named("sweeper")
	cronLog := cron.PrintfLogger(zap.NewStdLog(log))
	return &Sweeper{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
		sweep:  sweep,
		config: cfg,
		log:    log,
	}
}

// Start registers the job and starts the scheduler. It is a no-op when disabled.
func (s *Sweeper) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("Expiry sweeper disabled by config")
		return nil
	}

	id, err := s.cron.AddFunc(s.config.Schedule, func() { s.RunOnce(ctx) })
	if err != nil {
		return err
	}
	s.entryID = id
	s.cron.Start()
	s.log.Info("Expiry sweeper started", zap.String("schedule", s.config.Schedule))
	return nil
}

// RunOnce executes a single sweep and logs its outcome.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Timeout)
	defer cancel()

	started := time.Now()
	n, err := s.sweep(runCtx)
	if err != nil {
		s.log.Error("Expiry sweep failed", zap.Int("expired", n), zap.Error(err))
		return n
	}
	s.log.Debug("Expiry sweep run", zap.Int("expired", n), zap.Duration("took", time.Since(started)))
	return n
}

// Next is the time of the next scheduled run, zero when not started.
func (s *Sweeper) Next() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Stop waits for a running sweep to finish. Safe to call multiple times.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		<-s.cron.Stop().Done()
		s.log.Info("Expiry sweeper stopped")
	})
}
