package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/justinong00/mern-dormguru-sub000/internal/models"
	"github.com/justinong00/mern-dormguru-sub000/internal/service"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ctxKey string

const ctxUser ctxKey = "user"

// userLoader resolves the subject of a verified token.
type userLoader interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// JWTAuth returns a middleware that verifies the bearer token, loads the
// user it names and puts that user in the request context. Deactivated
// accounts are refused.
func JWTAuth(tokens *service.TokenIssuer, users userLoader, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeFail(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
				return
			}

			userID, err := tokens.Parse(raw)
			if err != nil {
				writeError(w, err)
				return
			}

			u, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if statusFor(err) == http.StatusNotFound {
					writeFail(w, http.StatusUnauthorized, "User no longer exists")
					return
				}
				log.Error("auth user lookup failed", zap.String("userID", userID.Hex()), zap.Error(err))
				writeError(w, err)
				return
			}
			if !u.IsActive {
				writeError(w, service.ErrAccountInactive)
				return
			}

			ctx := withUser(r.Context(), u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken reads the token from the Authorization header. Browser
// WebSocket clients cannot set headers, so upgrade requests may pass it as
// ?token= instead.
func bearerToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), true
	}
	if websocket.IsWebSocketUpgrade(r) {
		if t := r.URL.Query().Get("token"); t != "" {
			return t, true
		}
	}
	return "", false
}

// AdminOnly lets through only users with isAdmin set.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFromContext(r.Context())
			if u == nil || !u.IsAdmin {
				writeFail(w, http.StatusForbidden, "Admin only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxUser).(*models.User)
	return u
}

// withUser stores u as the authenticated user.
func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}
