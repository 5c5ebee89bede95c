package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/api/shared"
)

// ProjectClaims are the JWT claims this API understands. The project_id
// claim resolves the caller to exactly one project; every authenticated
// operation is scoped to it.
type ProjectClaims struct {
	ProjectID string `json:"project_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new AuthMiddleware verifying HS256 tokens
// signed with the given secret.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the caller's project ID to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		projectID, err := m.validateToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			} else {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.ProjectIDContextKey, projectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validateToken parses and verifies a token, returning the project ID
// it resolves to.
func (m *AuthMiddleware) validateToken(tokenString string) (uuid.UUID, error) {
	claims := &ProjectClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenUnverifiable
	}

	projectID, err := uuid.Parse(claims.ProjectID)
	if err != nil || projectID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("token has no usable project_id claim: %w", jwt.ErrTokenInvalidClaims)
	}

	return projectID, nil
}

// GetProjectID extracts the authenticated project ID from the request
// context. Returns the ID and a boolean indicating if it was found.
func GetProjectID(r *http.Request) (uuid.UUID, bool) {
	projectID, ok := r.Context().Value(shared.ProjectIDContextKey).(uuid.UUID)
	return projectID, ok
}
