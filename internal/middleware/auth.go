package middleware

import (
	"context"
	"net/http"
	"strings"

	"elecnet/internal/auth"

	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtMgr *auth.JWTManager
	logr   *zap.Logger
}

type contextKey string

const ContextSubjectKey contextKey = "subject"

// NewAuthMiddleware creates a reusable JWT auth middleware instance
func NewAuthMiddleware(jwtMgr *auth.JWTManager, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwtMgr: jwtMgr, logr: logr}
}

// JWTAuth validates the bearer token and attaches the subject to the
// request context. Only access tokens pass; refresh tokens are rejected.
func (m *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtMgr.VerifyToken(tokenString)
		if err != nil {
			m.logr.Warn("token verification failed", zap.Error(err))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		if typ, _ := claims["typ"].(string); typ != string(auth.AccessToken) {
			http.Error(w, "access token required", http.StatusUnauthorized)
			return
		}

		subject, _ := claims["sub"].(string)
		ctx := context.WithValue(r.Context(), ContextSubjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
