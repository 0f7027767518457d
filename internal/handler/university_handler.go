package handler

import (
	"context"
	"net/http"

	"github.com/justinong00/mern-dormguru-sub000/internal/service"
)

type UniversityHandler struct {
	svc *service.UniversityService
}

func NewUniversityHandler(s *service.UniversityService) *UniversityHandler {
	return &UniversityHandler{svc: s}
}

// @Summary Create university (admin)
// @Tags universities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.UniversityData true "university"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/unis [post]
func (h *UniversityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.UniversityData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	u, err := h.svc.Create(ctx, UserFromContext(ctx).ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "University created successfully", u)
}

// @Summary List universities
// @Tags universities
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/unis [get]
func (h *UniversityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	unis, err := h.svc.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Universities fetched successfully", unis)
}

// @Summary Get university
// @Tags universities
// @Security BearerAuth
// @Produce json
// @Param id path string true "university id"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/unis/{id} [get]
func (h *UniversityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	u, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "University fetched successfully", u)
}

// @Summary Dorms of a university
// @Tags universities
// @Security BearerAuth
// @Produce json
// @Param id path string true "university id"
// @Success 200 {object} envelope
// @Router /api/unis/{id}/dorms [get]
func (h *UniversityHandler) Dorms(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	dorms, err := h.svc.Dorms(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Dorms fetched successfully", dorms)
}

// @Summary Update university (admin)
// @Tags universities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "university id"
// @Param body body service.UpdateUniversityData true "fields to change"
// @Success 200 {object} envelope
// @Router /api/unis/{id} [put]
func (h *UniversityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.UpdateUniversityData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	u, err := h.svc.Update(ctx, UserFromContext(ctx).ID, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "University updated successfully", u)
}

// @Summary Delete university (admin)
// @Description Also deletes the university's dorms and their reviews.
// @Tags universities
// @Security BearerAuth
// @Produce json
// @Param id path string true "university id"
// @Success 200 {object} envelope
// @Router /api/unis/{id} [delete]
func (h *UniversityHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	writeOK(w, http.StatusOK, "University deleted successfully", sum)
}
