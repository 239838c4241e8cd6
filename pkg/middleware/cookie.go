package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/pkg/cookie"
	"github.com/danisworo/shopapi/pkg/response"
)

// CookieAuth authenticates via the signed identity cookie. The signature is
// verified before the payload is parsed; a valid payload is still only a
// hint — the user row is re-fetched and is authoritative for the principal,
// since the client-side cookie cannot observe role changes or deactivation.
func CookieAuth(codec *cookie.Codec, userSource UserFinder, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := c.Cookie(cookieName)
			if err != nil || raw.Value == "" {
				return response.Error(c, http.StatusUnauthorized, "no_authentication_cookie", nil)
			}

			payload, err := codec.Decode(raw.Value)
			if err != nil {
				return response.Error(c, http.StatusUnauthorized, "invalid_cookie", nil)
			}

			ctx := c.Request().Context()
			user, err := userSource.FindUserByExtID(ctx, payload.ID)
			if err != nil {
				return response.InternalServerError(err)
			}
			if user == nil {
				return response.Error(c, http.StatusUnauthorized, "invalid_cookie", nil)
			}
			if !user.IsActive {
				return response.Error(c, http.StatusForbidden, "account_inactive", nil)
			}

			SetPrincipal(c, Principal{ID: user.ExtID, Email: user.Email, Role: user.Role})
			return next(c)
		}
	}
}
