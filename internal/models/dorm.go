package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Dorm struct {
	ID               primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Name             string              `json:"name" bson:"name"`
	NameCI           string              `json:"-" bson:"name_ci"`
	Description      string              `json:"description" bson:"description"`
	Address          string              `json:"address" bson:"address"`
	RoomsOffered     []string            `json:"roomsOffered" bson:"roomsOffered"`
	ParentUniversity primitive.ObjectID  `json:"parentUniversity" bson:"parentUniversity"`
	DormType         string              `json:"dormType" bson:"dormType"`
	EstablishedYear  int                 `json:"establishedYear" bson:"establishedYear"`
	PostalCode       string              `json:"postalCode" bson:"postalCode"`
	City             string              `json:"city" bson:"city"`
	State            string              `json:"state" bson:"state"`
	CoverPhotos      []string            `json:"coverPhotos" bson:"coverPhotos"`
	CreatedBy        primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	UpdatedBy        *primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`

	// Cached aggregate of the dorm's reviews, rewritten on every review mutation.
	NumberOfReviews int     `json:"numberOfReviews" bson:"numberOfReviews"`
	AverageRating   float64 `json:"averageRating" bson:"averageRating"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DormView is a dorm with its parent university expanded. The JSON field
// parentUniversity carries the populated object instead of the bare id.
type DormView struct {
	Dorm       `bson:",inline"`
	University *UniversityRef `json:"parentUniversity" bson:"university,omitempty"`
}

// DormRef is the populated shape of a review's dorm.
type DormRef struct {
	ID   primitive.ObjectID `json:"_id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
}

// DormStats is the result of the review aggregation for one dorm.
type DormStats struct {
	DormID          primitive.ObjectID `json:"dormId"`
	NumberOfReviews int                `json:"numberOfReviews"`
	AverageRating   float64            `json:"averageRating"`
}
