package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/platform/session"
	"github.com/danisworo/shopapi/pkg/response"
)

// SessionReader is the slice of the session store this middleware needs.
// Satisfied by *session.Store.
type SessionReader interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	Touch(ctx context.Context, id string) error
}

// SessionAuth authenticates via the opaque session cookie. The user row is
// re-fetched on every request rather than trusted from the session record,
// so role changes and deactivation take effect immediately. A successful
// check also touches the session, resetting its inactivity window.
func SessionAuth(store SessionReader, userSource UserFinder, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return response.Error(c, http.StatusUnauthorized, "no_active_session", nil)
			}

			ctx := c.Request().Context()

			sess, err := store.Get(ctx, cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					return response.Error(c, http.StatusUnauthorized, "no_active_session", nil)
				}
				return response.InternalServerError(err)
			}

			user, err := userSource.FindUserByExtID(ctx, sess.UserExtID)
			if err != nil {
				return response.InternalServerError(err)
			}
			if user == nil {
				return response.Error(c, http.StatusUnauthorized, "session_invalid", nil)
			}
			if !user.IsActive {
				return response.Error(c, http.StatusForbidden, "account_inactive", nil)
			}

			// Sliding expiry: a missing record here means the session
			// expired between Get and Touch; treat it like any other miss.
			if err := store.Touch(ctx, sess.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
				return response.InternalServerError(err)
			}

			SetPrincipal(c, Principal{ID: user.ExtID, Email: user.Email, Role: user.Role})
			return next(c)
		}
	}
}
