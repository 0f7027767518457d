package live

import (
	"testing"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	h := NewHub(zap.NewNop())
	dorm := primitive.NewObjectID()

	ch, cancel := h.Subscribe(dorm)
	defer cancel()

	h.Publish(models.DormStats{DormID: dorm, NumberOfReviews: 2, AverageRating: 4.5})

	select {
	case got := <-ch:
		if got.NumberOfReviews != 2 || got.AverageRating != 4.5 {
			t.Errorf("unexpected stats %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestHub_OtherDormNotDelivered(t *testing.T) {
	h := NewHub(zap.NewNop())
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	ch, cancel := h.Subscribe(a)
	defer cancel()

	h.Publish(models.DormStats{DormID: b, NumberOfReviews: 1})

	select {
	case got := <-ch:
		t.Fatalf("unexpected update %+v", got)
	default:
	}
}

func TestHub_PublishDoesNotBlockWhenFull(t *testing.T) {
	h := NewHub(zap.NewNop())
	dorm := primitive.NewObjectID()

	_, cancel := h.Subscribe(dorm)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			h.Publish(models.DormStats{DormID: dorm, NumberOfReviews: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

func TestHub_CancelClosesAndUnregisters(t *testing.T) {
	h := NewHub(zap.NewNop())
	dorm := primitive.NewObjectID()

	ch, cancel := h.Subscribe(dorm)
	if n := h.subscribers(dorm); n != 1 {
		t.Fatalf("subscribers = %d, want 1", n)
	}

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
	if n := h.subscribers(dorm); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}

	// publishing after cancel must not panic on the closed channel
	h.Publish(models.DormStats{DormID: dorm})
}
