// Package scheduler runs the periodic overdue-payment sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/api/metrics"
	redisdb "github.com/freelanceos/backend/internal/infrastructure/db/redis"
)

const (
	DefaultSpec = "@every 1h"

	sweepLockKey = "freelanceos:lock:overdue-sweep"
	sweepTimeout = 5 * time.Minute
)

// Sweeper marks past-due pending payments overdue across all owners.
type Sweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// Locker hands out a cross-instance lease. ok is false when another
// instance holds it.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

type redisLocker struct {
	client *goredis.Client
}

// NewRedisLocker returns a Locker backed by SET NX leases.
func NewRedisLocker(client *goredis.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	lock, err := redisdb.TryLock(ctx, l.client, key, uuid.NewString(), ttl)
	if err != nil || lock == nil {
		return nil, false, err
	}
	return lock.Release, true, nil
}

// Scheduler wraps a cron runner with a single overdue sweep job.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	locker  Locker
	log     zerolog.Logger
}

// New registers the sweep on spec (standard 5-field cron or "@every 1h").
// locker may be nil, in which case every instance sweeps.
func New(spec string, sweeper Sweeper, locker Locker, log zerolog.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	clog := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
		),
		sweeper: sweeper,
		locker:  locker,
		log:     log,
	}
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("scheduler: invalid spec %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop until ctx is cancelled, then waits for a running
// sweep to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.log.Info().Msg("overdue sweep scheduler started")
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		s.log.Info().Msg("overdue sweep scheduler stopped")
	}()
}

// RunOnce performs one guarded sweep and returns the number of payments
// marked. A lease held by another instance is not an error.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, sweepLockKey, sweepTimeout)
		if err != nil {
			metrics.OverdueSweepRunsTotal.WithLabelValues("error").Inc()
			s.log.Error().Err(err).Msg("overdue sweep: acquire lock")
			return 0, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !ok {
			metrics.OverdueSweepRunsTotal.WithLabelValues("skipped").Inc()
			s.log.Debug().Msg("overdue sweep: lock held by another instance")
			return 0, nil
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				s.log.Warn().Err(err).Msg("overdue sweep: release lock")
			}
		}()
	}

	n, err := s.sweeper.SweepOverdue(ctx)
	if err != nil {
		metrics.OverdueSweepRunsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Int("marked", n).Msg("overdue sweep failed")
		return n, err
	}
	metrics.OverdueSweepRunsTotal.WithLabelValues("ok").Inc()
	return n, nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
