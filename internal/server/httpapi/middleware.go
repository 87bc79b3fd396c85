package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/drivault/internal/logging"
	"github.com/dmitrijs2005/drivault/internal/server/auth"
	"github.com/dmitrijs2005/drivault/internal/server/users"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated account attached to the request
// context by the auth middleware, or nil outside protected routes.
func CurrentUser(ctx context.Context) *users.User {
	user, _ := ctx.Value(currentUserKey).(*users.User)
	return user
}

// authMiddleware verifies the Bearer access token and loads the account it
// names into the request context. Any failure yields 401 without detail.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			h.writeError(w, r, http.StatusUnauthorized, "please provide correct credentials")
			return
		}

		claims, err := auth.GetClaimsFromToken(token, h.jwtSecret)
		if err != nil {
			h.writeError(w, r, http.StatusUnauthorized, "please provide correct credentials")
			return
		}

		user, err := h.users.GetByID(r.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			h.writeError(w, r, http.StatusUnauthorized, "please provide correct credentials")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggerMiddleware logs one line per request, skipping the health probes.
func loggerMiddleware(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if r.URL.Path != "/health" && r.URL.Path != "/ping" {
					l.Info(r.Context(), "http_request",
						"request_id", middleware.GetReqID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"status", ww.Status(),
						"duration", time.Since(start),
					)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
