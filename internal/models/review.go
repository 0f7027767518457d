package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Rating        float64              `json:"rating" bson:"rating"`
	Title         string               `json:"title" bson:"title"`
	Comment       string               `json:"comment" bson:"comment"`
	Dorm          primitive.ObjectID   `json:"dorm" bson:"dorm"`
	RoomsStayed   []string             `json:"roomsStayed" bson:"roomsStayed"`
	FromDate      time.Time            `json:"fromDate" bson:"fromDate"`
	ToDate        time.Time            `json:"toDate" bson:"toDate"`
	CreatedBy     primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	LikedBy       []primitive.ObjectID `json:"likedBy" bson:"likedBy"`
	NumberOfLikes int                  `json:"numberOfLikes" bson:"numberOfLikes"`
	IsFlagged     bool                 `json:"isFlagged" bson:"isFlagged"`
	FlaggedBy     []primitive.ObjectID `json:"flaggedBy" bson:"flaggedBy"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ReviewView is a review with author and dorm expanded.
type ReviewView struct {
	Review `bson:",inline"`
	Author *UserRef `json:"createdBy" bson:"author,omitempty"`
	DormV  *DormRef `json:"dorm" bson:"dormRef,omitempty"`
}

// Toggle outcomes reported by the like/flag endpoints.
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

type ToggleResult struct {
	Action string  `json:"action"`
	Review *Review `json:"review"`
}
