package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/pkg/constant"
)

// Principal is the normalized identity attached to a request after a
// successful authentication, whichever of the three strategies produced it.
// Email may be empty (the JWT access token does not carry one); Role is
// always one of the three enumerated roles.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// SetPrincipal attaches the principal to the echo context. Middlewares must
// either attach a complete principal or none at all.
func SetPrincipal(c echo.Context, p Principal) {
	c.Set(string(constant.CtxKeyPrincipal), p)
}

// GetPrincipal reads the principal attached by an authentication middleware.
func GetPrincipal(c echo.Context) (Principal, bool) {
	p, ok := c.Get(string(constant.CtxKeyPrincipal)).(Principal)
	return p, ok
}
