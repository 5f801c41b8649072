package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/vellumhq/vellum/internal/auth"
	"github.com/vellumhq/vellum/pkg/types"
)

type contextKey string

// claimsKey carries the authenticated claims in the request context.
const claimsKey contextKey = "claims"

// requireAuth validates the bearer token and stores its claims in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects requests whose claims do not carry the ADMIN role.
// It must run after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || claims.UserType != types.UserTypeAdmin {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// claimsFrom returns the authenticated claims, or nil outside requireAuth.
func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}
