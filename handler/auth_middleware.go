package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"videotube-api/common"
	"videotube-api/model"
	"videotube-api/service"
)

type contextKey string

const UserKey contextKey = "user"

// TokenAuthenticator resolves an access token to the user it was issued for.
type TokenAuthenticator interface {
	AuthenticateAccessToken(ctx context.Context, token string) (*model.User, error)
}

// UserFromContext returns the authenticated user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok && user != nil
}

func currentUser(r *http.Request) (*model.User, *common.AppError) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return nil, common.Unauthorized("Access token missing", nil)
	}
	return user, nil
}

// accessTokenFromRequest reads the accessToken cookie, falling back to an
// "Authorization: Bearer <token>" header.
func accessTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	headerParts := strings.SplitN(authHeader, " ", 2)
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(headerParts[1])
}

// AuthMiddleware rejects requests without a valid access token and attaches
// the sanitized user to the request context.
func AuthMiddleware(auth TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := accessTokenFromRequest(r)
			if tokenString == "" {
				common.Unauthorized("Access token missing", nil).Send(w)
				return
			}

			user, err := auth.AuthenticateAccessToken(r.Context(), tokenString)
			if err != nil {
				if errors.Is(err, service.ErrInvalidAccessToken) {
					common.Unauthorized("Invalid access token", err).Send(w)
					return
				}
				common.Internal("Could not authenticate request", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches the user when a valid access token is present
// and lets anonymous requests through unchanged.
func OptionalAuthMiddleware(auth TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString := accessTokenFromRequest(r); tokenString != "" {
				if user, err := auth.AuthenticateAccessToken(r.Context(), tokenString); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
