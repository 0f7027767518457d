package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type University struct {
	ID              primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Name            string              `json:"name" bson:"name"`
	NameCI          string              `json:"-" bson:"name_ci"`
	Bio             string              `json:"bio" bson:"bio"`
	WebsiteURL      string              `json:"websiteURL" bson:"websiteURL"`
	Address         string              `json:"address" bson:"address"`
	LogoPic         string              `json:"logoPic" bson:"logoPic"`
	EstablishedYear int                 `json:"establishedYear" bson:"establishedYear"`
	PostalCode      string              `json:"postalCode" bson:"postalCode"`
	City            string              `json:"city" bson:"city"`
	State           string              `json:"state" bson:"state"`
	CreatedBy       primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	UpdatedBy       *primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// UniversityRef is the populated shape of a dorm's parent university.
type UniversityRef struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Name    string             `json:"name" bson:"name"`
	LogoPic string             `json:"logoPic,omitempty" bson:"logoPic,omitempty"`
}
