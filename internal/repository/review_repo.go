package repository

import (
	"context"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(mdb *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: mdb.Collection("reviews")}
}

func (r *ReviewRepository) Insert(ctx context.Context, rev *models.Review) error {
	if rev.ID.IsZero() {
		rev.ID = primitive.NewObjectID()
	}
	// $addToSet and $pull fail on null arrays
	if rev.LikedBy == nil {
		rev.LikedBy = []primitive.ObjectID{}
	}
	if rev.FlaggedBy == nil {
		rev.FlaggedBy = []primitive.ObjectID{}
	}
	if rev.RoomsStayed == nil {
		rev.RoomsStayed = []string{}
	}
	_, err := r.col.InsertOne(ctx, rev)
	return err
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var rev models.Review
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rev models.Review
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByDorms removes every review of the given dorms.
func (r *ReviewRepository) DeleteByDorms(ctx context.Context, dormIDs []primitive.ObjectID) (int64, error) {
	if len(dormIDs) == 0 {
		return 0, nil
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"dorm": bson.M{"$in": dormIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *ReviewRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// StatsForDorm returns the number of reviews of a dorm and the raw mean of
// their ratings (0 when there are none).
func (r *ReviewRepository) StatsForDorm(ctx context.Context, dormID primitive.ObjectID) (int, float64, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "dorm", Value: dormID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return 0, 0, cur.Err()
	}
	var doc struct {
		Count int     `bson:"count"`
		Avg   float64 `bson:"avg"`
	}
	if err := cur.Decode(&doc); err != nil {
		return 0, 0, err
	}
	return doc.Count, doc.Avg, nil
}

// populateReview expands createdBy and dorm. The author's password never
// leaves the pipeline.
var populateReview = bson.A{
	bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "users"},
		{Key: "localField", Value: "createdBy"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "author"},
	}}},
	bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$author"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}},
	bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "dorms"},
		{Key: "localField", Value: "dorm"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "dormRef"},
	}}},
	bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$dormRef"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}},
	bson.D{{Key: "$project", Value: bson.D{
		{Key: "author.password", Value: 0},
	}}},
}

// ListViews returns reviews matching filter, newest first, populated.
func (r *ReviewRepository) ListViews(ctx context.Context, filter bson.M) ([]models.ReviewView, error) {
	if filter == nil {
		filter = bson.M{}
	}
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$sort", Value: newestFirst}},
	}
	pipeline = append(pipeline, populateReview...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ReviewView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- engagement ----
//
// Each method is a single conditional update: the membership guard in the
// filter and the counter change are applied atomically, so numberOfLikes
// always equals len(likedBy) and isFlagged always equals len(flaggedBy) > 0.
// The bool result is false when the guard did not match.

func (r *ReviewRepository) AddLike(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return r.updateGuarded(ctx,
		bson.M{"_id": id, "likedBy": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"likedBy": userID},
			"$inc":      bson.M{"numberOfLikes": 1},
		},
	)
}

func (r *ReviewRepository) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return r.updateGuarded(ctx,
		bson.M{"_id": id, "likedBy": userID},
		bson.M{
			"$pull": bson.M{"likedBy": userID},
			"$inc":  bson.M{"numberOfLikes": -1},
		},
	)
}

func (r *ReviewRepository) AddFlag(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return r.updateGuarded(ctx,
		bson.M{"_id": id, "flaggedBy": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"flaggedBy": userID},
			"$set":      bson.M{"isFlagged": true},
		},
	)
}

func (r *ReviewRepository) RemoveFlag(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	remaining := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$flaggedBy", bson.A{}}}}},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", userID}}}},
	}}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "flaggedBy", Value: remaining}}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "isFlagged", Value: bson.D{
			{Key: "$gt", Value: bson.A{bson.D{{Key: "$size", Value: "$flaggedBy"}}, 0}},
		}}}}},
	}
	return r.updateGuarded(ctx, bson.M{"_id": id, "flaggedBy": userID}, pipeline)
}

func (r *ReviewRepository) updateGuarded(ctx context.Context, filter bson.M, update interface{}) (bool, error) {
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *ReviewRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
