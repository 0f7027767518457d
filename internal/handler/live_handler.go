package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type dormGetter interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.DormView, error)
}

type statsSubscriber interface {
	Subscribe(dormID primitive.ObjectID) (<-chan models.DormStats, func())
}

type LiveHandler struct {
	dorms dormGetter
	hub   statsSubscriber
	log   *zap.Logger
}

func NewLiveHandler(dorms dormGetter, hub statsSubscriber, log *zap.Logger) *LiveHandler {
	return &LiveHandler{dorms: dorms, hub: hub, log: log}
}

// liveMessage is one frame on the live socket.
type liveMessage struct {
	Type string           `json:"type"`
	Data models.DormStats `json:"data"`
}

// @Summary Live dorm rating stats (WebSocket)
// @Description Sends the current stats, then one frame every time a review of the dorm changes them.
// @Tags dorms
// @Security BearerAuth
// @Param id path string true "dorm id"
// @Param token query string false "bearer token, for clients that cannot set headers"
// @Success 101 {object} liveMessage
// @Failure 404 {object} envelope
// @Router /api/dorms/{id}/live [get]
func (h *LiveHandler) DormStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// subscribe before reading so no update falls between the two
	updates, cancel := h.hub.Subscribe(id)
	defer cancel()

	d, err := h.dorms.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(st models.DormStats) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(liveMessage{Type: "stats", Data: st})
	}

	initial := models.DormStats{
		DormID:          d.ID,
		NumberOfReviews: d.NumberOfReviews,
		AverageRating:   d.AverageRating,
	}
	if err := send(initial); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if err := send(st); err != nil {
				h.log.Debug("live write failed", zap.String("dormID", id.Hex()), zap.Error(err))
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
