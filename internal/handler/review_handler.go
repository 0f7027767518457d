package handler

import (
	"context"
	"net/http"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: s}
}

// @Summary Create review
// @Description Stores the review and refreshes the dorm's rating stats.
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.CreateReviewData true "review"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope "dorm not found"
// @Router /api/reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateReviewData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	rev, err := h.svc.Create(ctx, UserFromContext(ctx).ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Review created successfully", rev)
}

// @Summary List all reviews (admin)
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/reviews [get]
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	revs, err := h.svc.ListAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Reviews fetched successfully", revs)
}

// @Summary Get review
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "review id"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/reviews/{id} [get]
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	rev, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Review fetched successfully", rev)
}

// @Summary Update review (author)
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "review id"
// @Param body body service.UpdateReviewData true "fields to change"
// @Success 200 {object} envelope
// @Failure 403 {object} envelope
// @Router /api/reviews/{id} [put]
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.UpdateReviewData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	rev, err := h.svc.Update(ctx, UserFromContext(ctx).ID, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Review updated successfully", rev)
}

// @Summary Delete review (author or admin)
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "review id"
// @Success 200 {object} envelope
// @Failure 403 {object} envelope
// @Router /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, UserFromContext(ctx), id); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Review deleted successfully", nil)
}

// @Summary Reviews of a dorm
// @Description Newest first, with author and dorm expanded.
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "dorm id"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/reviews/get-reviews-by-dorm/{id} [get]
func (h *ReviewHandler) ByDorm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	revs, err := h.svc.ByDorm(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Reviews fetched successfully", revs)
}

// @Summary Reviews by a user
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} envelope
// @Router /api/reviews/get-reviews-by-user/{id} [get]
func (h *ReviewHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	revs, err := h.svc.ByUser(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Reviews fetched successfully", revs)
}

// @Summary Toggle like
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "review id"
// @Success 200 {object} envelope
// @Failure 409 {object} envelope
// @Router /api/reviews/toggle-like/{id} [put]
func (h *ReviewHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.svc.ToggleLike, "Review liked successfully", "Review unliked successfully")
}

// @Summary Toggle flag
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "review id"
// @Success 200 {object} envelope
// @Failure 409 {object} envelope
// @Router /api/reviews/toggle-flag/{id} [put]
func (h *ReviewHandler) ToggleFlag(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.svc.ToggleFlag, "Review flagged successfully", "Review unflagged successfully")
}

type toggleFunc func(ctx context.Context, id, userID primitive.ObjectID) (*models.ToggleResult, error)

func (h *ReviewHandler) toggle(w http.ResponseWriter, r *http.Request, fn toggleFunc, addedMsg, removedMsg string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	res, err := fn(ctx, id, UserFromContext(ctx).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := addedMsg
	if res.Action == models.ToggleRemoved {
		msg = removedMsg
	}
	writeOK(w, http.StatusOK, msg, res)
}
