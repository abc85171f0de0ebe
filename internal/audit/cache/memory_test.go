package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"compliancecore/internal/audit"
)

type MemoryCacheSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	cache *Memory
}

func (s *MemoryCacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.cache = NewMemory(WithClock(func() time.Time { return s.now }))
}

func TestMemoryCacheSuite(t *testing.T) {
	suite.Run(t, new(MemoryCacheSuite))
}

func (s *MemoryCacheSuite) result(score int) audit.Result {
	return audit.Result{Score: score, Type: audit.TypeFull}
}

func (s *MemoryCacheSuite) TestRoundTrip() {
	s.Run("returns what was stored", func() {
		s.Require().NoError(s.cache.Set(s.ctx, "k1", s.result(87), time.Minute))

		got, ok, err := s.cache.Get(s.ctx, "k1")
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal(87, got.Score)
	})

	s.Run("misses on unknown keys", func() {
		_, ok, err := s.cache.Get(s.ctx, "unknown")
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *MemoryCacheSuite) TestExpiry() {
	s.Run("entries expire after the TTL", func() {
		s.Require().NoError(s.cache.Set(s.ctx, "k1", s.result(87), 5*time.Minute))

		s.now = s.now.Add(5*time.Minute + time.Second)
		_, ok, err := s.cache.Get(s.ctx, "k1")
		s.Require().NoError(err)
		s.False(ok)
		s.Equal(0, s.cache.Len())
	})

	s.Run("reads do not extend the TTL", func() {
		s.Require().NoError(s.cache.Set(s.ctx, "k1", s.result(87), 5*time.Minute))

		s.now = s.now.Add(4 * time.Minute)
		_, ok, _ := s.cache.Get(s.ctx, "k1")
		s.Require().True(ok)

		s.now = s.now.Add(90 * time.Second)
		_, ok, _ = s.cache.Get(s.ctx, "k1")
		s.False(ok)
	})

	s.Run("set refreshes the deadline", func() {
		s.Require().NoError(s.cache.Set(s.ctx, "k1", s.result(50), time.Minute))
		s.now = s.now.Add(50 * time.Second)
		s.Require().NoError(s.cache.Set(s.ctx, "k1", s.result(60), time.Minute))

		s.now = s.now.Add(30 * time.Second)
		got, ok, _ := s.cache.Get(s.ctx, "k1")
		s.Require().True(ok)
		s.Equal(60, got.Score)
	})
}

func (s *MemoryCacheSuite) TestClear() {
	s.Require().NoError(s.cache.Set(s.ctx, "k1", s.result(1), time.Minute))
	s.Require().NoError(s.cache.Set(s.ctx, "k2", s.result(2), time.Minute))

	s.Require().NoError(s.cache.Clear(s.ctx))

	s.Equal(0, s.cache.Len())
	_, ok, _ := s.cache.Get(s.ctx, "k1")
	s.False(ok)
}
