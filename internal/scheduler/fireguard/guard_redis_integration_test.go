//go:build integration

package fireguard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/scheduler/fireguard"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/testutil/containers"
)

type RedisGuardSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	guard *fireguard.RedisGuard
}

func TestRedisGuardSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisGuardSuite))
}

func (s *RedisGuardSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.guard = fireguard.NewRedis(s.redis.Client)
}

func (s *RedisGuardSuite) SetupTest() {
	err := s.redis.FlushAll(context.Background())
	s.Require().NoError(err)
}

func (s *RedisGuardSuite) TestFirstFireClaimsKey() {
	ctx := context.Background()

	first, err := s.guard.FirstFire(ctx, "deadline_approaching:task-1", time.Minute)
	s.Require().NoError(err)
	s.True(first)

	again, err := s.guard.FirstFire(ctx, "deadline_approaching:task-1", time.Minute)
	s.Require().NoError(err)
	s.False(again)

	other, err := s.guard.FirstFire(ctx, "deadline_approaching:task-2", time.Minute)
	s.Require().NoError(err)
	s.True(other)
}

func (s *RedisGuardSuite) TestKeyExpiresAndRefires() {
	ctx := context.Background()

	first, err := s.guard.FirstFire(ctx, "budget:proj-9:0.80", 100*time.Millisecond)
	s.Require().NoError(err)
	s.True(first)

	s.Require().Eventually(func() bool {
		refired, err := s.guard.FirstFire(ctx, "budget:proj-9:0.80", 100*time.Millisecond)
		return err == nil && refired
	}, 2*time.Second, 50*time.Millisecond)
}

func (s *RedisGuardSuite) TestConcurrentClaimsSingleWinner() {
	ctx := context.Background()

	const claimants = 16
	wins := make(chan bool, claimants)
	for range claimants {
		go func() {
			first, err := s.guard.FirstFire(ctx, "recurring-claim", time.Minute)
			wins <- err == nil && first
		}()
	}

	winners := 0
	for range claimants {
		if <-wins {
			winners++
		}
	}
	s.Equal(1, winners)
}
