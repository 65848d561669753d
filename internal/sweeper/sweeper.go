package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/preston-bernstein/game-collections-service/internal/logging"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
)

const (
	defaultInterval = time.Minute
	defaultIdleTTL  = 10 * time.Minute
)

// Evictor drops cache entries that have not been touched recently.
type Evictor interface {
	EvictIdle(olderThan time.Duration) int
}

// Sweeper periodically evicts idle cache entries so collections nobody is
// viewing do not linger in memory.
type Sweeper struct {
	target   Evictor
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	idleTTL  time.Duration
	now      func() time.Time

	scheduler gocron.Scheduler
	stopOnce  sync.Once
	startMu   sync.Mutex
	started   bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes recent sweeper activity.
type Status struct {
	Runs         int
	LastRun      time.Time
	LastEvicted  int
	TotalEvicted int
	LastError    string
}

// IsRunning reports whether the scheduler accepted the job.
func (s Status) IsRunning() bool {
	return s.LastError == ""
}

// New constructs a Sweeper with sane defaults.
func New(target Evictor, logger *slog.Logger, recorder *metrics.Recorder, interval, idleTTL time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &Sweeper{
		target:   target,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Start schedules the sweep job. It stops on its own when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.started {
		return
	}
	s.started = true

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		s.recordError(err)
		logging.Error(s.logger, "sweeper scheduler init failed", err)
		return
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.SweepOnce() }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.recordError(err)
		logging.Error(s.logger, "sweeper job registration failed", err)
		_ = scheduler.Shutdown()
		return
	}
	s.scheduler = scheduler
	scheduler.Start()
	logging.Info(s.logger, "sweeper started",
		logging.FieldDurationMS, s.interval.Milliseconds(),
	)

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.Background())
	}()
}

// Stop shuts the scheduler down. Safe to call more than once.
func (s *Sweeper) Stop(ctx context.Context) error {
	_ = ctx
	s.startMu.Lock()
	scheduler := s.scheduler
	s.startMu.Unlock()
	if scheduler == nil {
		return nil
	}

	var err error
	s.stopOnce.Do(func() {
		err = scheduler.Shutdown()
		logging.Info(s.logger, "sweeper stopped")
	})
	return err
}

// SweepOnce runs one eviction pass and returns how many entries were dropped.
func (s *Sweeper) SweepOnce() int {
	if s.target == nil {
		return 0
	}
	start := s.now()
	evicted := s.target.EvictIdle(s.idleTTL)
	duration := s.now().Sub(start)
	s.metrics.RecordSweep(evicted, duration)

	s.statusMu.Lock()
	s.status.Runs++
	s.status.LastRun = start
	s.status.LastEvicted = evicted
	s.status.TotalEvicted += evicted
	s.statusMu.Unlock()

	if evicted > 0 {
		logging.Debug(s.logger, "evicted idle collections",
			logging.FieldCount, evicted,
			logging.FieldDurationMS, duration.Milliseconds(),
		)
	}
	return evicted
}

// Status returns a snapshot of recent sweeper activity.
func (s *Sweeper) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *Sweeper) recordError(err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastError = err.Error()
}
