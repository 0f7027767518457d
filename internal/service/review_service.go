package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/repository"
	"github.com/justinong00/mern-dormguru-sub000/internal/sanitize"
	"github.com/justinong00/mern-dormguru-sub000/internal/txn"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxToggleAttempts bounds the re-read/retry loop of a like or flag toggle
// that lost a race with another toggle on the same review.
const maxToggleAttempts = 3

type ReviewService struct {
	reviews *repository.ReviewRepository
	dorms   *repository.DormRepository
	agg     ratingAggregator
	tx      *txn.Runner
	live    StatsPublisher
	log     *zap.Logger
}

type CreateReviewData struct {
	Rating      float64   `json:"rating" validate:"required"`
	Title       string    `json:"title" validate:"required,max=120"`
	Comment     string    `json:"comment" validate:"required,max=5000"`
	Dorm        string    `json:"dorm" validate:"required"`
	RoomsStayed []string  `json:"roomsStayed" validate:"required,min=1"`
	FromDate    time.Time `json:"fromDate" validate:"required"`
	ToDate      time.Time `json:"toDate" validate:"required"`
}

// UpdateReviewData carries the fields an author may change. The dorm of a
// review is fixed at creation.
type UpdateReviewData struct {
	Rating      *float64   `json:"rating"`
	Title       *string    `json:"title" validate:"omitempty,max=120"`
	Comment     *string    `json:"comment" validate:"omitempty,max=5000"`
	RoomsStayed *[]string  `json:"roomsStayed"`
	FromDate    *time.Time `json:"fromDate"`
	ToDate      *time.Time `json:"toDate"`
}

func NewReviewService(
	reviews *repository.ReviewRepository,
	dorms *repository.DormRepository,
	tx *txn.Runner,
	live StatsPublisher,
	log *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		dorms:   dorms,
		agg:     ratingAggregator{reviews: reviews, dorms: dorms},
		tx:      tx,
		live:    live,
		log:     log,
	}
}

// ================== WRITES ==================

// Create stores a review by actor and refreshes its dorm's stats in the same
// transaction.
func (s *ReviewService) Create(ctx context.Context, actor primitive.ObjectID, data CreateReviewData) (*models.Review, error) {
	data.Title = sanitize.Text(data.Title)
	data.Comment = sanitize.Text(data.Comment)
	data.RoomsStayed = sanitize.Texts(data.RoomsStayed)
	if err := validateStruct(data); err != nil {
		return nil, err
	}
	if err := checkRating(data.Rating); err != nil {
		return nil, err
	}
	if err := checkStay(data.FromDate, data.ToDate); err != nil {
		return nil, err
	}

	dormID, err := ParseID(data.Dorm)
	if err != nil {
		return nil, err
	}
	dorm, err := s.dorms.FindByID(ctx, dormID)
	if err != nil {
		return nil, err
	}
	if dorm == nil {
		return nil, ErrDormNotFound
	}
	if err := checkRooms(dorm.RoomsOffered, data.RoomsStayed); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rev := &models.Review{
		ID:          primitive.NewObjectID(),
		Rating:      data.Rating,
		Title:       data.Title,
		Comment:     data.Comment,
		Dorm:        dormID,
		RoomsStayed: data.RoomsStayed,
		FromDate:    data.FromDate.UTC(),
		ToDate:      data.ToDate.UTC(),
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var stats models.DormStats
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		if err := s.reviews.Insert(ctx, rev); err != nil {
			return err
		}
		stats, err = s.agg.recompute(ctx, dormID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.statsChanged(ctx, stats, true)
	s.log.Info("review created",
		zap.String("reviewID", rev.ID.Hex()),
		zap.String("dormID", dormID.Hex()),
		zap.String("userID", actor.Hex()),
	)
	return rev, nil
}

// Update lets the author edit a review. The dorm's stats are recomputed
// from the review's stored dorm.
func (s *ReviewService) Update(ctx context.Context, actor primitive.ObjectID, id primitive.ObjectID, data UpdateReviewData) (*models.Review, error) {
	data.Title = cleanText(data.Title)
	data.Comment = cleanText(data.Comment)
	if data.RoomsStayed != nil {
		rooms := sanitize.Texts(*data.RoomsStayed)
		data.RoomsStayed = &rooms
	}
	if err := validateStruct(data); err != nil {
		return nil, err
	}

	existing, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrReviewNotFound
	}
	if existing.CreatedBy != actor {
		return nil, fmt.Errorf("%w: Only the author can edit this review", ErrForbidden)
	}

	set := bson.M{}
	if data.Rating != nil {
		if err := checkRating(*data.Rating); err != nil {
			return nil, err
		}
		set["rating"] = *data.Rating
	}
	if data.Title != nil {
		title := *data.Title
		if title == "" {
			return nil, validationErr("title cannot be empty")
		}
		set["title"] = title
	}
	if data.Comment != nil {
		comment := *data.Comment
		if comment == "" {
			return nil, validationErr("comment cannot be empty")
		}
		set["comment"] = comment
	}
	if data.RoomsStayed != nil {
		rooms := *data.RoomsStayed
		if len(rooms) == 0 {
			return nil, validationErr("roomsStayed must have at least 1 item(s)")
		}
		dorm, err := s.dorms.FindByID(ctx, existing.Dorm)
		if err != nil {
			return nil, err
		}
		if dorm == nil {
			return nil, ErrDormNotFound
		}
		if err := checkRooms(dorm.RoomsOffered, rooms); err != nil {
			return nil, err
		}
		set["roomsStayed"] = rooms
	}

	from, to := existing.FromDate, existing.ToDate
	if data.FromDate != nil {
		from = data.FromDate.UTC()
		set["fromDate"] = from
	}
	if data.ToDate != nil {
		to = data.ToDate.UTC()
		set["toDate"] = to
	}
	if err := checkStay(from, to); err != nil {
		return nil, err
	}

	if len(set) == 0 {
		return existing, nil
	}
	set["updatedAt"] = time.Now().UTC()

	var (
		updated *models.Review
		stats   models.DormStats
	)
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.reviews.Update(ctx, id, set)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrReviewNotFound
		}
		stats, err = s.agg.recompute(ctx, existing.Dorm)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.statsChanged(ctx, stats, false)
	return updated, nil
}

// Delete removes a review. Only its author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	existing, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrReviewNotFound
	}
	if existing.CreatedBy != actor.ID && !actor.IsAdmin {
		return fmt.Errorf("%w: Only the author or an admin can delete this review", ErrForbidden)
	}

	var stats models.DormStats
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		n, err := s.reviews.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrReviewNotFound
		}
		stats, err = s.agg.recompute(ctx, existing.Dorm)
		return err
	})
	if err != nil {
		return err
	}

	s.statsChanged(ctx, stats, true)
	s.log.Info("review deleted",
		zap.String("reviewID", id.Hex()),
		zap.String("dormID", existing.Dorm.Hex()),
		zap.String("actor", actor.ID.Hex()),
	)
	return nil
}

// statsChanged notifies live listeners and, when the number of reviews
// changed, drops the cached home counters.
func (s *ReviewService) statsChanged(ctx context.Context, stats models.DormStats, countChanged bool) {
	if s.live != nil {
		s.live.Publish(stats)
	}
	if countChanged {
		invalidateHomeStats(ctx, s.log)
	}
}

// ================== READS ==================

func (s *ReviewService) Get(ctx context.Context, id primitive.ObjectID) (*models.ReviewView, error) {
	views, err := s.reviews.ListViews(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrReviewNotFound
	}
	return &views[0], nil
}

// ListAll returns every review, newest first.
func (s *ReviewService) ListAll(ctx context.Context) ([]models.ReviewView, error) {
	return s.reviews.ListViews(ctx, nil)
}

// ByDorm returns a dorm's reviews, newest first.
func (s *ReviewService) ByDorm(ctx context.Context, dormID primitive.ObjectID) ([]models.ReviewView, error) {
	dorm, err := s.dorms.FindByID(ctx, dormID)
	if err != nil {
		return nil, err
	}
	if dorm == nil {
		return nil, ErrDormNotFound
	}
	return s.reviews.ListViews(ctx, bson.M{"dorm": dormID})
}

// ByUser returns the reviews written by a user, newest first.
func (s *ReviewService) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ReviewView, error) {
	return s.reviews.ListViews(ctx, bson.M{"createdBy": userID})
}

// ================== ENGAGEMENT ==================

type guardedUpdate func(ctx context.Context, id, userID primitive.ObjectID) (bool, error)

// ToggleLike adds userID to the review's likes, or removes it if present.
func (s *ReviewService) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.ToggleResult, error) {
	return s.toggle(ctx, id, userID,
		func(r *models.Review) bool { return containsID(r.LikedBy, userID) },
		s.reviews.AddLike, s.reviews.RemoveLike,
	)
}

// ToggleFlag adds userID to the review's flags, or removes it if present.
func (s *ReviewService) ToggleFlag(ctx context.Context, id, userID primitive.ObjectID) (*models.ToggleResult, error) {
	return s.toggle(ctx, id, userID,
		func(r *models.Review) bool { return containsID(r.FlaggedBy, userID) },
		s.reviews.AddFlag, s.reviews.RemoveFlag,
	)
}

func (s *ReviewService) toggle(
	ctx context.Context,
	id, userID primitive.ObjectID,
	member func(*models.Review) bool,
	add, remove guardedUpdate,
) (*models.ToggleResult, error) {
	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		rev, err := s.reviews.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if rev == nil {
			return nil, ErrReviewNotFound
		}

		action, apply := models.ToggleAdded, add
		if member(rev) {
			action, apply = models.ToggleRemoved, remove
		}

		ok, err := apply(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// membership changed between the read and the write
			s.log.Debug("toggle guard missed, retrying",
				zap.String("reviewID", id.Hex()), zap.Int("attempt", attempt))
			continue
		}

		updated, err := s.reviews.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, ErrReviewNotFound
		}
		return &models.ToggleResult{Action: action, Review: updated}, nil
	}
	return nil, fmt.Errorf("%w: Review was modified concurrently, try again", ErrConflict)
}

// ================== RULES ==================

func checkRating(r float64) error {
	if math.IsNaN(r) || r < 1 || r > 5 {
		return validationErr("rating must be between 1 and 5")
	}
	if r*2 != math.Trunc(r*2) {
		return validationErr("rating must be a whole or half star")
	}
	return nil
}

func checkStay(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return validationErr("fromDate and toDate are required")
	}
	if to.Before(from) {
		return validationErr("toDate must not be before fromDate")
	}
	return nil
}

// checkRooms requires every stayed room to be one the dorm offers.
func checkRooms(offered, stayed []string) error {
	set := make(map[string]struct{}, len(offered))
	for _, r := range offered {
		set[r] = struct{}{}
	}
	for _, r := range stayed {
		if _, ok := set[r]; !ok {
			return validationErr("room type %q is not offered by this dorm", r)
		}
	}
	return nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
