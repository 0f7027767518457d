package service

import (
	"context"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/cache"
	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"

	"go.uber.org/zap"
)

const (
	homeStatsKey = "home-stats"
	homeStatsTTL = 60 * time.Second
)

// StatsService serves the home page counters and the dorm search.
type StatsService struct {
	reviews *repository.ReviewRepository
	unis    *repository.UniversityRepository
	dorms   *repository.DormRepository
	log     *zap.Logger
}

func NewStatsService(
	reviews *repository.ReviewRepository,
	unis *repository.UniversityRepository,
	dorms *repository.DormRepository,
	log *zap.Logger,
) *StatsService {
	return &StatsService{reviews: reviews, unis: unis, dorms: dorms, log: log}
}

// HomeStats returns the collection counts, from Redis when a fresh copy is
// cached.
func (s *StatsService) HomeStats(ctx context.Context) (*models.HomeStats, error) {
	var cached models.HomeStats
	hit, err := cache.GetJSON(ctx, homeStatsKey, &cached)
	if err != nil {
		s.log.Warn("home stats cache read failed", zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	var out models.HomeStats
	if out.Reviews, err = s.reviews.Count(ctx); err != nil {
		return nil, err
	}
	if out.Universities, err = s.unis.Count(ctx); err != nil {
		return nil, err
	}
	if out.Dorms, err = s.dorms.Count(ctx); err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, homeStatsKey, out, homeStatsTTL); err != nil {
		s.log.Warn("home stats cache write failed", zap.Error(err))
	}
	return &out, nil
}

// Search matches dorms by name, city, state or university name.
func (s *StatsService) Search(ctx context.Context, q string) ([]models.DormView, error) {
	return s.dorms.Search(ctx, q)
}

// invalidateHomeStats drops the cached counters after a create or delete.
func invalidateHomeStats(ctx context.Context, log *zap.Logger) {
	if err := cache.Delete(ctx, homeStatsKey); err != nil {
		log.Warn("home stats cache invalidation failed", zap.Error(err))
	}
}
