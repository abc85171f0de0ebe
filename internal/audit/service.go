package audit

import (
	"context"
	"log/slog"
	"time"

	"compliancecore/internal/audit/metrics"
	"compliancecore/internal/report"
)

// slowRunThreshold triggers a warning log when a cache-miss engine run takes
// longer than this.
const slowRunThreshold = 50 * time.Millisecond

// DefaultCacheTTL is how long memoized results stay valid.
const DefaultCacheTTL = 5 * time.Minute

// Cache memoizes audit results by fingerprint. Implementations live in
// audit/cache; a nil cache disables memoization.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, r Result, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Service runs audits with memoization. Results are cached by report
// fingerprint; a run that fails is never cached.
type Service struct {
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// run is the engine entry point, injectable under test.
	run func(n *report.Normalized, typ Type, now time.Time) Result
}

type Option func(s *Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func withRunner(run func(n *report.Normalized, typ Type, now time.Time) Result) Option {
	return func(s *Service) {
		s.run = run
	}
}

// New constructs the audit service.
func New(opts ...Option) *Service {
	s := &Service{
		ttl:    DefaultCacheTTL,
		logger: slog.Default(),
		now:    time.Now,
		run:    Run,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Audit evaluates a report, returning a memoized result when an equivalent
// report was audited within the TTL window. Cache failures degrade to a
// plain engine run; they are logged, never surfaced.
func (s *Service) Audit(ctx context.Context, n *report.Normalized, typ Type) Result {
	key := Fingerprint(n, typ)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "audit cache read failed", "error", err)
		} else if ok {
			s.metrics.IncrementCacheLookup(string(typ), "hit")
			s.logger.InfoContext(ctx, "audit cache hit", "fingerprint", key[:12], "type", typ)
			return cached
		}
		s.metrics.IncrementCacheLookup(string(typ), "miss")
	}

	started := s.now()
	result := s.run(n, typ, started)
	elapsed := s.now().Sub(started)

	s.metrics.ObserveRunLatency(elapsed)
	s.metrics.ObserveScore(result.Score)
	if elapsed > slowRunThreshold {
		s.logger.WarnContext(ctx, "slow audit run", "duration", elapsed, "type", typ)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "audit cache write failed", "error", err)
		}
	}
	return result
}

// Reset drops every memoized result, forcing fresh runs. Used when the
// rule set or tenant data changes out of band.
func (s *Service) Reset(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear(ctx)
}
