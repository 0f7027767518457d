package handler

import (
	"context"
	"net/http"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"

	"github.com/go-chi/chi/v5"
)

// AdminMaintenanceHandler exposes the data repair endpoints.
type AdminMaintenanceHandler struct {
	svc *service.AdminMaintenanceService
}

// NewAdminMaintenanceHandler creates the handler.
func NewAdminMaintenanceHandler(svc *service.AdminMaintenanceService) *AdminMaintenanceHandler {
	return &AdminMaintenanceHandler{svc: svc}
}

// @Summary Maintenance summary
// @Description Counts dorms whose cached rating stats disagree with their reviews, and documents whose parent is gone.
// @Tags admin-maintenance
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Failure 500 {object} envelope
// @Router /api/admin/maintenance/summary [get]
// GET /api/admin/maintenance/summary
func (h *AdminMaintenanceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	summary, err := h.svc.GetSummary(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Summary fetched successfully", summary)
}

// @Summary Recompute dorm rating stats
// @Description Recomputes numberOfReviews and averageRating of every dorm with a bounded worker pool.
// @Tags admin-maintenance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.RecomputeRequest false "worker count"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/admin/maintenance/recompute-ratings [post]
// POST /api/admin/maintenance/recompute-ratings
func (h *AdminMaintenanceHandler) PostRecompute(w http.ResponseWriter, r *http.Request) {
	var req models.RecomputeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), batchTimeout)
	defer cancel()

	res, err := h.svc.RecomputeRatings(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Ratings recomputed successfully", res)
}

// @Summary Prune orphans
// @Description Deletes dorms whose university is gone and reviews whose dorm is gone.
// @Tags admin-maintenance
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/admin/maintenance/prune-orphans [post]
// POST /api/admin/maintenance/prune-orphans
func (h *AdminMaintenanceHandler) PostPrune(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), batchTimeout)
	defer cancel()

	res, err := h.svc.PruneOrphans(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Orphans pruned successfully", res)
}

// Helper for mounting the routes in main.go
func MountAdminMaintenanceRoutes(r chi.Router, h *AdminMaintenanceHandler) {
	r.Route("/admin/maintenance", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Post("/recompute-ratings", h.PostRecompute)
		r.Post("/prune-orphans", h.PostPrune)
	})
}
