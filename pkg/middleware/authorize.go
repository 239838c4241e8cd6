package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/pkg/response"
)

// Authorize allows the request through only when the attached principal's
// role is in the allowed set. A missing principal means authentication never
// ran or failed, which is a 401, not a 403. An empty allowed set denies
// everyone.
func Authorize(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
			}

			if _, ok := allowed[principal.Role]; !ok {
				return response.Error(c, http.StatusForbidden, "access_denied", nil)
			}

			return next(c)
		}
	}
}
