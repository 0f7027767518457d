package repository

import (
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if wafflemongo.IsDup(err) {
		return ErrDuplicate
	}
	return err
}

// newestFirst orders by creation time, breaking ties by insertion order.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
