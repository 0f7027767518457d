package handler

import (
	"context"
	"net/http"

	"github.com/justinong00/mern-dormguru-sub000/internal/service"
)

type DormHandler struct {
	svc *service.DormService
}

func NewDormHandler(s *service.DormService) *DormHandler {
	return &DormHandler{svc: s}
}

// @Summary Create dorm (admin)
// @Tags dorms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.DormData true "dorm"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope "parent university not found"
// @Router /api/dorms [post]
func (h *DormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DormData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	d, err := h.svc.Create(ctx, UserFromContext(ctx).ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Dorm created successfully", d)
}

// @Summary List dorms
// @Tags dorms
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/dorms [get]
func (h *DormHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	dorms, err := h.svc.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Dorms fetched successfully", dorms)
}

// @Summary Get dorm
// @Tags dorms
// @Security BearerAuth
// @Produce json
// @Param id path string true "dorm id"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/dorms/{id} [get]
func (h *DormHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	d, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Dorm fetched successfully", d)
}

// @Summary Update dorm (admin)
// @Tags dorms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "dorm id"
// @Param body body service.UpdateDormData true "fields to change"
// @Success 200 {object} envelope
// @Router /api/dorms/{id} [put]
func (h *DormHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.UpdateDormData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	d, err := h.svc.Update(ctx, UserFromContext(ctx).ID, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Dorm updated successfully", d)
}

// @Summary Delete dorm (admin)
// @Description Also deletes the dorm's reviews.
// @Tags dorms
// @Security BearerAuth
// @Produce json
// @Param id path string true "dorm id"
// @Success 200 {object} envelope
// @Router /api/dorms/{id} [delete]
func (h *DormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	sum, err := h.svc.Delete(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Dorm deleted successfully", sum)
}
