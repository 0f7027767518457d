package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"`
	Country    string             `json:"country" bson:"country"`
	IsAdmin    bool               `json:"isAdmin" bson:"isAdmin"`
	IsActive   bool               `json:"isActive" bson:"isActive"`
	ProfilePic string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserRef is the populated shape of a user reference.
type UserRef struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email,omitempty" bson:"email,omitempty"`
	ProfilePic string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
}
