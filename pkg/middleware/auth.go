package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/jwt"
	"github.com/danisworo/shopapi/pkg/response"
)

// AccessTokenValidator verifies an access token. Satisfied by
// *jwt.TokenService.
type AccessTokenValidator interface {
	ValidateAccessToken(tokenStr string) (*jwt.AccessClaims, error)
}

// UserFinder is the slice of the user repository the session and cookie
// middlewares need for their live re-fetch. Returns (nil, nil) when no such
// user exists.
type UserFinder interface {
	FindUserByExtID(ctx context.Context, extID string) (*users.User, error)
}

// JWTAuth authenticates via the Authorization header. The token is verified
// cryptographically only; no database round-trip happens here, so role and
// id come from the claims as issued. An expired token answers 403, any other
// failure 401 — the split tells the client whether to refresh or re-login.
func JWTAuth(tokens AccessTokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return response.Error(c, http.StatusUnauthorized, "missing_authorization_token", nil)
			}

			claims, err := tokens.ValidateAccessToken(header)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return response.Error(c, http.StatusForbidden, "token_expired", nil)
				}
				return response.Error(c, http.StatusUnauthorized, "invalid_token", nil)
			}

			SetPrincipal(c, Principal{ID: claims.UserExtID, Role: claims.Role})
			return next(c)
		}
	}
}
