package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
)

type ctxUserIDKey struct{}

func userIDFrom(ctx context.Context) (types.UserID, bool) {
	userID, ok := ctx.Value(ctxUserIDKey{}).(types.UserID)
	return userID, ok
}

// authMiddleware resolves the caller's user ID from the bearer ID token's
// sub claim. Signature verification is owned by the fronting identity
// platform, so the token is parsed without verification here. When
// noAuthUserID is set every request is pinned to that user instead.
func authMiddleware(noAuthUserID types.UserID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if noAuthUserID != "" {
				ctx := context.WithValue(r.Context(), ctxUserIDKey{}, noAuthUserID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			header := r.Header.Get("Authorization")
			rawToken, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || rawToken == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			token, err := jwt.ParseString(rawToken, jwt.WithVerify(false), jwt.WithValidate(false))
			if err != nil {
				logging.From(r.Context()).Warn("failed to parse ID token", "error", err.Error())
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			userID := types.UserID(token.Subject())
			if userID == "" {
				http.Error(w, "token has no subject", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()

		next.ServeHTTP(sw, r)

		logging.From(r.Context()).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(started).String(),
			"remote", r.RemoteAddr,
		)
	})
}
