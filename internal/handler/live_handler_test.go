package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/live"
	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeDorms map[primitive.ObjectID]*models.DormView

func (f fakeDorms) Get(_ context.Context, id primitive.ObjectID) (*models.DormView, error) {
	if d, ok := f[id]; ok {
		return d, nil
	}
	return nil, service.ErrDormNotFound
}

// countingHub tracks the subscriptions the handler holds open on a Hub.
type countingHub struct {
	*live.Hub

	mu     sync.Mutex
	active map[primitive.ObjectID]int
}

func (c *countingHub) Subscribe(dormID primitive.ObjectID) (<-chan models.DormStats, func()) {
	ch, cancel := c.Hub.Subscribe(dormID)

	c.mu.Lock()
	c.active[dormID]++
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			cancel()
			c.mu.Lock()
			c.active[dormID]--
			c.mu.Unlock()
		})
	}
}

func (c *countingHub) open(dormID primitive.ObjectID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[dormID]
}

func newLiveServer(t *testing.T, dorms fakeDorms) (*httptest.Server, *countingHub) {
	t.Helper()
	hub := &countingHub{Hub: live.NewHub(zap.NewNop()), active: map[primitive.ObjectID]int{}}
	h := NewLiveHandler(dorms, hub, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/dorms/{id}/live", h.DormStats)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func readStats(t *testing.T, conn *websocket.Conn) models.DormStats {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg liveMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != "stats" {
		t.Errorf("type: got %q, want stats", msg.Type)
	}
	return msg.Data
}

func TestLiveDormStats_InitialThenUpdates(t *testing.T) {
	dormID := primitive.NewObjectID()
	d := &models.DormView{}
	d.ID = dormID
	d.NumberOfReviews = 2
	d.AverageRating = 4.5

	srv, hub := newLiveServer(t, fakeDorms{dormID: d})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/dorms/" + dormID.Hex() + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	first := readStats(t, conn)
	if first.DormID != dormID || first.NumberOfReviews != 2 || first.AverageRating != 4.5 {
		t.Errorf("initial frame: got %+v", first)
	}

	// the subscription is registered before the first frame is written
	hub.Publish(models.DormStats{DormID: dormID, NumberOfReviews: 3, AverageRating: 4.3})
	hub.Publish(models.DormStats{DormID: primitive.NewObjectID(), NumberOfReviews: 9, AverageRating: 1})

	next := readStats(t, conn)
	if next.NumberOfReviews != 3 || next.AverageRating != 4.3 {
		t.Errorf("update frame: got %+v", next)
	}
}

func TestLiveDormStats_UnknownDorm(t *testing.T) {
	srv, hub := newLiveServer(t, fakeDorms{})
	missing := primitive.NewObjectID()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/dorms/" + missing.Hex() + "/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for a missing dorm")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
	if n := hub.open(missing); n != 0 {
		t.Errorf("subscription leaked: %d", n)
	}
}

func TestLiveDormStats_UnsubscribesOnClose(t *testing.T) {
	dormID := primitive.NewObjectID()
	d := &models.DormView{}
	d.ID = dormID
	srv, hub := newLiveServer(t, fakeDorms{dormID: d})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/dorms/" + dormID.Hex() + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	readStats(t, conn)
	if n := hub.open(dormID); n != 1 {
		t.Fatalf("subscribers while open: got %d, want 1", n)
	}
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.open(dormID) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not released after client closed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
