package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Safe to call repeatedly.
func EnsureIndexes(ctx context.Context, mdb *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_users_email").SetUnique(true),
			},
		},
		"universities": {
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetName("uniq_universities_name_ci").SetUnique(true),
			},
		},
		"dorms": {
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetName("uniq_dorms_name_ci").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "parentUniversity", Value: 1}},
				Options: options.Index().SetName("idx_dorms_university"),
			},
		},
		"reviews": {
			{
				Keys:    bson.D{{Key: "dorm", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_reviews_dorm_created"),
			},
			{
				Keys:    bson.D{{Key: "createdBy", Value: 1}},
				Options: options.Index().SetName("idx_reviews_created_by"),
			},
		},
	}

	for coll, models := range specs {
		if _, err := mdb.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}
