package repository

import (
	"context"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UniversityRepository struct {
	col *mongo.Collection
}

func NewUniversityRepository(mdb *mongo.Database) *UniversityRepository {
	return &UniversityRepository{col: mdb.Collection("universities")}
}

func (r *UniversityRepository) Insert(ctx context.Context, u *models.University) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, u)
	return mapWriteErr(err)
}

func (r *UniversityRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.University, error) {
	var u models.University
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every university, newest first.
func (r *UniversityRepository) List(ctx context.Context) ([]models.University, error) {
	opts := options.Find().SetSort(newestFirst)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.University{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NameTaken reports whether another university already uses nameCI. A
// non-nil exclude skips that document (used on update).
func (r *UniversityRepository) NameTaken(ctx context.Context, nameCI string, exclude *primitive.ObjectID) (bool, error) {
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

// Update applies a partial $set and returns the updated document, or nil
// when the id does not exist.
func (r *UniversityRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.University, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.University
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &u, nil
}

// Delete removes a university by id and returns the number removed (0 or 1).
func (r *UniversityRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *UniversityRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
