package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/justinong00/mern-dormguru-sub000/internal/config"
	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"
	"github.com/justinong00/mern-dormguru-sub000/internal/txn"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// AdminMaintenanceService repairs drift between the cached dorm stats and
// the review collection, and cleans up dangling references.
type AdminMaintenanceService struct {
	cfg     *config.Config
	mdb     *mongo.Database
	dorms   *repository.DormRepository
	reviews *repository.ReviewRepository
	agg     ratingAggregator
	tx      *txn.Runner
	live    StatsPublisher
	log     *zap.Logger
}

func NewAdminMaintenanceService(
	cfg *config.Config,
	mdb *mongo.Database,
	dorms *repository.DormRepository,
	reviews *repository.ReviewRepository,
	tx *txn.Runner,
	live StatsPublisher,
	log *zap.Logger,
) *AdminMaintenanceService {
	return &AdminMaintenanceService{
		cfg:     cfg,
		mdb:     mdb,
		dorms:   dorms,
		reviews: reviews,
		agg:     ratingAggregator{reviews: reviews, dorms: dorms},
		tx:      tx,
		live:    live,
		log:     log,
	}
}

// ---------------------- SUMMARY ----------------------

// GetSummary counts stale dorm stats, orphaned documents and flagged reviews.
func (s *AdminMaintenanceService) GetSummary(ctx context.Context) (*models.MaintenanceSummary, error) {
	dormsColl := s.mdb.Collection("dorms")
	reviewsColl := s.mdb.Collection("reviews")

	var out models.MaintenanceSummary
	var err error

	if out.TotalDorms, err = dormsColl.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if out.TotalReviews, err = reviewsColl.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if out.FlaggedReviews, err = reviewsColl.CountDocuments(ctx, bson.M{"isFlagged": true}); err != nil {
		return nil, err
	}

	stale, err := s.staleDorms(ctx)
	if err != nil {
		return nil, err
	}
	out.StaleDorms = int64(len(stale))

	orphanDorms, err := s.orphanIDs(ctx, dormsColl, "universities", "parentUniversity")
	if err != nil {
		return nil, err
	}
	out.OrphanDorms = int64(len(orphanDorms))

	orphanReviews, err := s.orphanIDs(ctx, reviewsColl, "dorms", "dorm")
	if err != nil {
		return nil, err
	}
	out.OrphanReviews = int64(len(orphanReviews))

	return &out, nil
}

// staleDorms returns the ids of dorms whose cached stats differ from the
// aggregate of their reviews. The mean is rounded with RoundRating, as on
// the write path.
func (s *AdminMaintenanceService) staleDorms(ctx context.Context) ([]primitive.ObjectID, error) {
	pipeline := bson.A{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "reviews"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "dorm"},
			{Key: "as", Value: "revs"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "numberOfReviews", Value: 1},
			{Key: "averageRating", Value: 1},
			{Key: "count", Value: bson.D{{Key: "$size", Value: "$revs"}}},
			{Key: "avg", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$avg", Value: "$revs.rating"}}, 0,
			}}}},
		}}},
	}

	cur, err := s.mdb.Collection("dorms").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID              primitive.ObjectID `bson:"_id"`
			NumberOfReviews int                `bson:"numberOfReviews"`
			AverageRating   float64            `bson:"averageRating"`
			Count           int                `bson:"count"`
			Avg             float64            `bson:"avg"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		want := 0.0
		if doc.Count > 0 {
			want = RoundRating(doc.Avg)
		}
		if doc.NumberOfReviews != doc.Count || doc.AverageRating != want {
			out = append(out, doc.ID)
		}
	}
	return out, cur.Err()
}

// orphanIDs lists documents of coll whose localField points at nothing in
// the collection from.
func (s *AdminMaintenanceService) orphanIDs(ctx context.Context, coll *mongo.Collection, from, localField string) ([]primitive.ObjectID, error) {
	pipeline := bson.A{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "parent"},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "parent", Value: bson.D{{Key: "$size", Value: 0}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.ID)
	}
	return out, cur.Err()
}

// ---------------------- RECOMPUTE ----------------------

// RecomputeRatings rewrites the cached stats of every dorm, running up to
// req.Parallelism recomputations at once.
func (s *AdminMaintenanceService) RecomputeRatings(ctx context.Context, req *models.RecomputeRequest) (*models.RecomputeResult, error) {
	if req.Parallelism <= 0 {
		req.Parallelism = s.cfg.MaintenanceParallelism
	}
	if req.Parallelism <= 0 {
		req.Parallelism = 4
	}

	// snapshot of the current cached values, to report what changed
	opts := options.Find().SetProjection(bson.M{"_id": 1, "numberOfReviews": 1, "averageRating": 1})
	cur, err := s.mdb.Collection("dorms").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var before []models.DormStats
	for cur.Next(ctx) {
		var doc struct {
			ID              primitive.ObjectID `bson:"_id"`
			NumberOfReviews int                `bson:"numberOfReviews"`
			AverageRating   float64            `bson:"averageRating"`
		}
		if err := cur.Decode(&doc); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		before = append(before, models.DormStats{
			DormID:          doc.ID,
			NumberOfReviews: doc.NumberOfReviews,
			AverageRating:   doc.AverageRating,
		})
	}
	if err := cur.Err(); err != nil {
		cur.Close(ctx)
		return nil, err
	}
	cur.Close(ctx)

	var (
		wg      sync.WaitGroup
		updated atomic.Int64
	)
	sem := make(chan struct{}, req.Parallelism)
	errCh := make(chan error, len(before))

	for _, old := range before {
		sem <- struct{}{}
		wg.Add(1)

		go func(old models.DormStats) {
			defer wg.Done()
			defer func() { <-sem }()

			stats, err := s.agg.recompute(ctx, old.DormID)
			if err != nil {
				errCh <- err
				return
			}
			if stats.NumberOfReviews != old.NumberOfReviews || stats.AverageRating != old.AverageRating {
				updated.Add(1)
				if s.live != nil {
					s.live.Publish(stats)
				}
			}
		}(old)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return nil, <-errCh
	}

	res := &models.RecomputeResult{
		ProcessedDorms: len(before),
		UpdatedDorms:   int(updated.Load()),
		Parallelism:    req.Parallelism,
	}
	s.log.Info("dorm ratings recomputed",
		zap.Int("processed", res.ProcessedDorms),
		zap.Int("updated", res.UpdatedDorms),
		zap.Int("parallelism", res.Parallelism),
	)
	return res, nil
}

// ---------------------- PRUNE ----------------------

// PruneOrphans deletes dorms whose university is gone, their reviews, and any
// review whose dorm is gone.
func (s *AdminMaintenanceService) PruneOrphans(ctx context.Context) (*models.DeleteSummary, error) {
	var sum models.DeleteSummary
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		sum = models.DeleteSummary{}

		dormIDs, err := s.orphanIDs(ctx, s.mdb.Collection("dorms"), "universities", "parentUniversity")
		if err != nil {
			return err
		}
		if sum.DeletedReviews, err = s.reviews.DeleteByDorms(ctx, dormIDs); err != nil {
			return err
		}
		if sum.DeletedDorms, err = s.dorms.DeleteByIDs(ctx, dormIDs); err != nil {
			return err
		}

		reviewIDs, err := s.orphanIDs(ctx, s.mdb.Collection("reviews"), "dorms", "dorm")
		if err != nil {
			return err
		}
		n, err := s.reviews.DeleteByIDs(ctx, reviewIDs)
		if err != nil {
			return err
		}
		sum.DeletedReviews += n
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sum.DeletedDorms > 0 || sum.DeletedReviews > 0 {
		invalidateHomeStats(ctx, s.log)
	}
	s.log.Info("orphans pruned",
		zap.Int64("dorms", sum.DeletedDorms),
		zap.Int64("reviews", sum.DeletedReviews),
	)
	return &sum, nil
}
