package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/justinong00/mern-dormguru-sub000/internal/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: s}
}

// @Summary Home page counters
// @Tags stats
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/home-stats [get]
func (h *StatsHandler) HomeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	st, err := h.svc.HomeStats(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Stats fetched successfully", st)
}

// @Summary Search dorms
// @Description Case-insensitive match on dorm name, city, state or university name.
// @Tags stats
// @Security BearerAuth
// @Produce json
// @Param search query string false "search term"
// @Success 200 {object} envelope
// @Router /api/filters [get]
func (h *StatsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("search"))
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	dorms, err := h.svc.Search(ctx, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Dorms fetched successfully", dorms)
}
