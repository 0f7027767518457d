package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", ErrDormNotFound, "Dorm not found"},
		{"already exists", ErrEmailTaken, "User already exists"},
		{"unauthorized", ErrUnknownEmail, "User does not exist"},
		{"password", ErrInvalidPassword, "Invalid password"},
		{"forbidden", ErrAccountInactive, "Account is deactivated"},
		{"validation", validationErr("rating must be between 1 and 5"), "rating must be between 1 and 5"},
		{"plain", errors.New("connection reset"), "connection reset"},
		{"wrapped further", fmt.Errorf("outer: %w", ErrReviewNotFound), "outer: not found: Review not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginErrorsAreDistinct(t *testing.T) {
	if Message(ErrUnknownEmail) == Message(ErrInvalidPassword) {
		t.Error("unknown email and wrong password must not share a message")
	}
	if !errors.Is(ErrUnknownEmail, ErrUnauthorized) || !errors.Is(ErrInvalidPassword, ErrUnauthorized) {
		t.Error("both login failures must be unauthorized")
	}
}

func TestParseID(t *testing.T) {
	if _, err := ParseID("not-an-id"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("ParseID(bad) err = %v, want ErrInvalidID", err)
	}
	if _, err := ParseID(""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("ParseID(empty) err = %v, want ErrInvalidID", err)
	}
	id, err := ParseID("64b7f0c2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("ParseID(valid) err = %v", err)
	}
	if id.Hex() != "64b7f0c2a1b2c3d4e5f60718" {
		t.Errorf("id = %s", id.Hex())
	}
}
