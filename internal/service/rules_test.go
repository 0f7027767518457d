package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{4, 4},
		{4.5, 4.5},
		{4.25, 4.3},
		{4.24, 4.2},
		{3.333333, 3.3},
		{3.666666, 3.7},
		{math.NaN(), 0},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := RoundRating(tt.in); got != tt.want {
			t.Errorf("RoundRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheckRating(t *testing.T) {
	tests := []struct {
		in float64
		ok bool
	}{
		{1, true},
		{1.5, true},
		{5, true},
		{0.5, false},
		{5.5, false},
		{3.3, false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		err := checkRating(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("checkRating(%v) err = %v, want ok=%v", tt.in, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrValidation) {
			t.Errorf("checkRating(%v) should be a validation error, got %v", tt.in, err)
		}
	}
}

func TestCheckStay(t *testing.T) {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := checkStay(from, from.AddDate(0, 6, 0)); err != nil {
		t.Errorf("valid stay rejected: %v", err)
	}
	if err := checkStay(from, from); err != nil {
		t.Errorf("same-day stay rejected: %v", err)
	}
	if err := checkStay(from, from.AddDate(0, 0, -1)); !errors.Is(err, ErrValidation) {
		t.Errorf("reversed stay: got %v, want ErrValidation", err)
	}
	if err := checkStay(time.Time{}, from); !errors.Is(err, ErrValidation) {
		t.Errorf("missing fromDate: got %v, want ErrValidation", err)
	}
}

func TestCheckRooms(t *testing.T) {
	offered := []string{"Single", "Double", "Suite"}

	if err := checkRooms(offered, []string{"Single", "Suite"}); err != nil {
		t.Errorf("subset rejected: %v", err)
	}
	err := checkRooms(offered, []string{"Single", "Penthouse"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if got := Message(err); got != `room type "Penthouse" is not offered by this dorm` {
		t.Errorf("Message = %q", got)
	}
}

func TestContainsID(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	if !containsID([]primitive.ObjectID{a, b}, b) {
		t.Error("expected b to be found")
	}
	if containsID(nil, a) {
		t.Error("nil slice should contain nothing")
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"Single", "Double", "Single"})
	if len(got) != 2 || got[0] != "Single" || got[1] != "Double" {
		t.Errorf("dedupe = %v", got)
	}
}
