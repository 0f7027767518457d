package service

import (
	"context"
	"math"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsPublisher receives a dorm's stats every time they are rewritten.
type StatsPublisher interface {
	Publish(stats models.DormStats)
}

// RoundRating rounds a mean rating to one decimal, half away from zero.
// NaN and non-positive means collapse to 0.
func RoundRating(avg float64) float64 {
	if math.IsNaN(avg) || math.IsInf(avg, 0) || avg <= 0 {
		return 0
	}
	return math.Round(avg*10) / 10
}

// ratingAggregator keeps a dorm's numberOfReviews and averageRating equal to
// the aggregate of its reviews.
type ratingAggregator struct {
	reviews *repository.ReviewRepository
	dorms   *repository.DormRepository
}

// recompute reads the review aggregate for dormID and writes it onto the
// dorm. A dorm that no longer exists is left alone.
func (a ratingAggregator) recompute(ctx context.Context, dormID primitive.ObjectID) (models.DormStats, error) {
	count, avg, err := a.reviews.StatsForDorm(ctx, dormID)
	if err != nil {
		return models.DormStats{}, err
	}

	stats := models.DormStats{DormID: dormID, NumberOfReviews: count}
	if count > 0 {
		stats.AverageRating = RoundRating(avg)
	}

	if err := a.dorms.SetReviewStats(ctx, dormID, stats.NumberOfReviews, stats.AverageRating); err != nil {
		return models.DormStats{}, err
	}
	return stats, nil
}
