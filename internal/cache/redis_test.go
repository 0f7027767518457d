package cache

import (
	"context"
	"testing"
	"time"
)

func TestHelpers_NoClientAreNoOps(t *testing.T) {
	ctx := context.Background()

	var dest map[string]int
	found, err := GetJSON(ctx, "home-stats", &dest)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if found {
		t.Error("expected cache miss without client")
	}

	if err := SetJSON(ctx, "home-stats", map[string]int{"dorms": 1}, time.Minute); err != nil {
		t.Errorf("SetJSON: %v", err)
	}
	if err := Delete(ctx, "home-stats"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
