//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"compliancecore/internal/audit"
	"compliancecore/internal/audit/cache"
	"compliancecore/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.Redis
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	stored := audit.Result{
		Score:       63,
		TotalRules:  22,
		PassedRules: 17,
		FailedRules: 5,
		KRCIs: []audit.KRCI{
			{Code: "KRCI-003", Title: "Missing effective date", Severity: audit.SeverityHigh, Weight: 10},
		},
		Recommendations:     []string{"[high] Declare the effective date of the mineral resource and reserve estimates."},
		BreakdownBySeverity: map[audit.Severity]int{audit.SeverityHigh: 1},
		Type:                audit.TypeFull,
		RuleSetVersion:      audit.RuleSetVersion,
	}

	s.Require().NoError(s.cache.Set(ctx, "fp-1", stored, time.Minute))

	got, ok, err := s.cache.Get(ctx, "fp-1")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(stored.Score, got.Score)
	s.Equal(stored.KRCIs, got.KRCIs)
	s.Equal(stored.BreakdownBySeverity, got.BreakdownBySeverity)
}

func (s *RedisCacheSuite) TestMiss() {
	_, ok, err := s.cache.Get(context.Background(), "unknown")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestTTL() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "fp-ttl", audit.Result{Score: 1}, time.Second))

	time.Sleep(1500 * time.Millisecond)

	_, ok, err := s.cache.Get(ctx, "fp-ttl")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestClear() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "fp-a", audit.Result{Score: 1}, time.Minute))
	s.Require().NoError(s.cache.Set(ctx, "fp-b", audit.Result{Score: 2}, time.Minute))

	s.Require().NoError(s.cache.Clear(ctx))

	for _, key := range []string{"fp-a", "fp-b"} {
		_, ok, err := s.cache.Get(ctx, key)
		s.Require().NoError(err)
		s.False(ok)
	}
}
