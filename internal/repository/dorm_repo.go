package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DormRepository struct {
	col *mongo.Collection
}

func NewDormRepository(mdb *mongo.Database) *DormRepository {
	return &DormRepository{col: mdb.Collection("dorms")}
}

func (r *DormRepository) Insert(ctx context.Context, d *models.Dorm) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, d)
	return mapWriteErr(err)
}

func (r *DormRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dorm, error) {
	var d models.Dorm
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// populateUniversity expands parentUniversity into the "university" field.
var populateUniversity = bson.A{
	bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "universities"},
		{Key: "localField", Value: "parentUniversity"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "university"},
	}}},
	bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$university"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}},
}

func (r *DormRepository) aggregateViews(ctx context.Context, pipeline bson.A) ([]models.DormView, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.DormView{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindViewByID returns the dorm with its university populated.
func (r *DormRepository) FindViewByID(ctx context.Context, id primitive.ObjectID) (*models.DormView, error) {
	pipeline := bson.A{bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}}}
	pipeline = append(pipeline, populateUniversity...)

	views, err := r.aggregateViews(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, nil
	}
	return &views[0], nil
}

// ListViews returns dorms matching filter, newest first, university populated.
func (r *DormRepository) ListViews(ctx context.Context, filter bson.M) ([]models.DormView, error) {
	if filter == nil {
		filter = bson.M{}
	}
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$sort", Value: newestFirst}},
	}
	pipeline = append(pipeline, populateUniversity...)
	return r.aggregateViews(ctx, pipeline)
}

// Search matches q case-insensitively as a substring of the dorm's name,
// city or state, or of its university's name.
func (r *DormRepository) Search(ctx context.Context, q string) ([]models.DormView, error) {
	pipeline := bson.A{
		bson.D{{Key: "$sort", Value: newestFirst}},
	}
	pipeline = append(pipeline, populateUniversity...)

	if q = strings.TrimSpace(q); q != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "name", Value: rx}},
				bson.D{{Key: "city", Value: rx}},
				bson.D{{Key: "state", Value: rx}},
				bson.D{{Key: "university.name", Value: rx}},
			}},
		}}})
	}
	return r.aggregateViews(ctx, pipeline)
}

// NameTaken reports whether another dorm already uses nameCI.
func (r *DormRepository) NameTaken(ctx context.Context, nameCI string, exclude *primitive.ObjectID) (bool, error) {
	filter := bson.M{"name_ci": nameCI}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	err := r.col.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DormRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Dorm, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d models.Dorm
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &d, nil
}

// SetReviewStats writes the cached review aggregate. A missing dorm is a no-op.
func (r *DormRepository) SetReviewStats(ctx context.Context, id primitive.ObjectID, count int, avg float64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"numberOfReviews": count,
			"averageRating":   avg,
			"updatedAt":       time.Now().UTC(),
		}},
	)
	return err
}

func (r *DormRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IDsByUniversity lists the ids of every dorm under a university.
func (r *DormRepository) IDsByUniversity(ctx context.Context, uniID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.ids(ctx, bson.M{"parentUniversity": uniID})
}

// AllIDs lists the ids of every dorm.
func (r *DormRepository) AllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return r.ids(ctx, bson.M{})
}

func (r *DormRepository) ids(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, filter, opts)
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

func (r *DormRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *DormRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
