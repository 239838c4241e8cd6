package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

func (h *Handler) LoginSession(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, profile, err := h.usecase.LoginSession(h.ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Int("status", apiErr.Code).Msg("Session login rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Internal server error during session login")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", nil)
	}

	c.SetCookie(&http.Cookie{
		Name:     h.sessionCookie.Name,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(h.usecase.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.sessionCookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info().Str("user_ext_id", profile.ExtID).Msg("Session login successful")
	return response.Success(c, http.StatusOK, "login_successful", profile)
}

// LogoutSession destroys the server-side record and clears the cookie. A
// request without a session cookie still gets the cleared-cookie response.
func (h *Handler) LogoutSession(c echo.Context) error {
	if sessCookie, err := c.Cookie(h.sessionCookie.Name); err == nil && sessCookie.Value != "" {
		if err := h.usecase.LogoutSession(h.ctx, sessCookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     h.sessionCookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.sessionCookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return response.Success(c, http.StatusOK, "logged_out_successfully", nil)
}

// MeSession runs behind the session middleware, which has already re-fetched
// the user row; the principal is therefore current.
func (h *Handler) MeSession(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	result, err := h.usecase.GetProfile(h.ctx, principal.ID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "success", result)
}
