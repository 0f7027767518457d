package service

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error classes. Handlers map them to HTTP status codes with errors.Is;
// anything else is a 500.
var (
	ErrInvalidID     = errors.New("invalid id")
	ErrValidation    = errors.New("validation failed")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: User not found", ErrNotFound)
	ErrUniversityNotFound = fmt.Errorf("%w: University not found", ErrNotFound)
	ErrDormNotFound       = fmt.Errorf("%w: Dorm not found", ErrNotFound)
	ErrReviewNotFound     = fmt.Errorf("%w: Review not found", ErrNotFound)

	ErrEmailTaken          = fmt.Errorf("%w: User already exists", ErrAlreadyExists)
	ErrUniversityNameTaken = fmt.Errorf("%w: University already exists", ErrAlreadyExists)
	ErrDormNameTaken       = fmt.Errorf("%w: Dorm already exists", ErrAlreadyExists)

	ErrUnknownEmail     = fmt.Errorf("%w: User does not exist", ErrUnauthorized)
	ErrInvalidPassword  = fmt.Errorf("%w: Invalid password", ErrUnauthorized)
	ErrWrongOldPassword = fmt.Errorf("%w: Old password is incorrect", ErrValidation)
	ErrAccountInactive  = fmt.Errorf("%w: Account is deactivated", ErrForbidden)
)

// Message returns the user-facing part of an error built from one of the
// classes above ("not found: Dorm not found" -> "Dorm not found").
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, class := range []error{
		ErrInvalidID, ErrValidation, ErrAlreadyExists, ErrNotFound,
		ErrUnauthorized, ErrForbidden, ErrConflict,
	} {
		prefix := class.Error() + ": "
		if errors.Is(err, class) && strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

// ParseID converts a hex string into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not a valid id", ErrInvalidID, hex)
	}
	return id, nil
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
