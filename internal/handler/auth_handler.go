package handler

import (
	"context"
	"net/http"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// @Summary Register
// @Description Creates an account. The email must not be registered yet.
// @Tags user
// @Accept json
// @Produce json
// @Param body body service.RegisterUserData true "account"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/user/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterUserData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	u, err := h.svc.Register(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "User registered successfully", u)
}

// @Summary Login
// @Tags user
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Router /api/user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	token, u, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "User logged in successfully", loginResponse{Token: token, User: u})
}

// @Summary Current user
// @Tags user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/user/current [get]
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		writeFail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeOK(w, http.StatusOK, "User fetched successfully", u)
}

// @Summary Update current user
// @Description Updates the caller's profile. A new password requires oldPassword.
// @Tags user
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.UpdateUserData true "fields to change"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/user/update-user [put]
func (h *AuthHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	u, err := h.svc.UpdateCurrent(ctx, UserFromContext(ctx).ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "User updated successfully", u)
}

// @Summary List users (admin)
// @Tags user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/user/get-all-users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), shortTimeout)
	defer cancel()

	users, err := h.svc.ListUsers(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Users fetched successfully", users)
}

// @Summary Set user status (admin)
// @Description Activates or deactivates an account, or grants/revokes admin.
// @Tags user
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "user id"
// @Param body body service.UserStatusData true "status"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/user/update-user-status/{id} [put]
func (h *AuthHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.UserStatusData
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	u, err := h.svc.SetUserStatus(ctx, UserFromContext(ctx).ID, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "User status updated successfully", u)
}
