package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "generic error", err: errors.New("some random error"), want: false},
		{
			name: "standalone rejection",
			err:  mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos", Name: "IllegalOperation"},
			want: true,
		},
		{
			name: "wrapped standalone rejection",
			err:  fmt.Errorf("insert review: %w", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}),
			want: true,
		},
		{
			name: "other illegal operation",
			err:  mongo.CommandError{Code: 20, Message: "Illegal operation"},
			want: false,
		},
		{
			name: "command error code 263",
			err:  mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"},
			want: false,
		},
		{
			name: "code 51 with replica set wording",
			err:  mongo.CommandError{Code: 51, Message: "Transaction numbers are only allowed on a replica set member or mongos"},
			want: false,
		},
		{
			name: "other command error code",
			err:  mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"},
			want: false,
		},
		{
			name: "commit failure mentioning session",
			err:  errors.New("commit transaction failed: session expired on replica set"),
			want: false,
		},
		{
			name: "illegal operation wording",
			err:  errors.New("transaction aborted: illegal operation"),
			want: false,
		},
		{name: "plain transaction failure", err: errors.New("transaction failed"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_NilRunnerCallsFnDirectly(t *testing.T) {
	var r *Runner
	called := false
	err := r.Run(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Error("expected fn to be called")
	}
}

func TestRun_PropagatesError(t *testing.T) {
	r := New(nil, nil)
	want := errors.New("boom")
	if err := r.Run(context.Background(), func(ctx context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("Run error = %v, want %v", err, want)
	}
}
