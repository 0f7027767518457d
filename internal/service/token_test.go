package service

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	id := primitive.NewObjectID()

	raw, err := tokens.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != id {
		t.Errorf("subject = %s, want %s", got.Hex(), id.Hex())
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issued }

	raw, err := tokens.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tokens.now = time.Now
	_, err = tokens.Parse(raw)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if Message(err) != "Token expired" {
		t.Errorf("Message = %q", Message(err))
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("secret", time.Hour).Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenIssuer("other", time.Hour).Parse(raw); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	if _, err := NewTokenIssuer("secret", time.Hour).Parse("not.a.token"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestNewTokenIssuer_DefaultTTL(t *testing.T) {
	if got := NewTokenIssuer("s", 0).ttl; got != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", got)
	}
}
