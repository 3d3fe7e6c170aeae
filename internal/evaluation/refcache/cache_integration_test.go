//go:build integration

package refcache_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/refcache"
	id "missionsuivi/pkg/domain"
	"missionsuivi/pkg/testutil/containers"
)

type countingSource struct {
	scaleCalls  atomic.Int32
	rubricCalls atomic.Int32
}

func (s *countingSource) Scale(context.Context) ([]models.ScaleItem, error) {
	s.scaleCalls.Add(1)
	return []models.ScaleItem{{Note: 4, Label: "Bien"}}, nil
}

func (s *countingSource) Rubrics(_ context.Context, categoryID id.CategoryID) ([]models.Rubric, error) {
	s.rubricCalls.Add(1)
	return []models.Rubric{{ID: 1, CategoryID: categoryID, Numero: 1, Label: "Accueil"}}, nil
}

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushPrefix(context.Background(), "missionsuivi:ref:"))
}

func (s *RedisCacheSuite) TestReadThroughAndInvalidate() {
	ctx := context.Background()
	source := &countingSource{}
	cache := refcache.New(s.redis.Client, source, refcache.WithTTL(time.Minute))

	for range 3 {
		items, err := cache.Scale(ctx)
		s.Require().NoError(err)
		s.Require().Len(items, 1)
		s.Equal("Bien", items[0].Label)
	}
	s.Equal(int32(1), source.scaleCalls.Load())

	rubrics, err := cache.Rubrics(ctx, 2)
	s.Require().NoError(err)
	s.Equal(id.CategoryID(2), rubrics[0].CategoryID)
	_, err = cache.Rubrics(ctx, 2)
	s.Require().NoError(err)
	s.Equal(int32(1), source.rubricCalls.Load())

	s.Require().NoError(cache.Invalidate(ctx))
	_, err = cache.Scale(ctx)
	s.Require().NoError(err)
	s.Equal(int32(2), source.scaleCalls.Load())
}
