package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

func (h *Handler) LoginCookie(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	value, profile, err := h.usecase.LoginCookie(h.ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Int("status", apiErr.Code).Msg("Cookie login rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Internal server error during cookie login")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", nil)
	}

	c.SetCookie(&http.Cookie{
		Name:     h.authCookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.authCookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.authCookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info().Str("user_ext_id", profile.ExtID).Msg("Cookie login successful")
	return response.Success(c, http.StatusOK, "login_successful", profile)
}

// LogoutCookie only clears the client-side cookie. There is no server-side
// record to invalidate, so a copy of the cookie kept by the client remains
// verifiable until the signing secret changes.
func (h *Handler) LogoutCookie(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.authCookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authCookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return response.Success(c, http.StatusOK, "logged_out_successfully", nil)
}

// MeCookie runs behind the cookie middleware. The live user row backs the
// response; the decoded cookie payload is echoed alongside for inspection,
// since the embedded email/role may have drifted from the row.
func (h *Handler) MeCookie(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	result, err := h.usecase.GetProfile(h.ctx, principal.ID)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{"user": result}
	if raw, err := c.Cookie(h.authCookie.Name); err == nil {
		if decoded, err := h.codec.Decode(raw.Value); err == nil {
			payload["cookie_data"] = decoded
		}
	}
	return response.Success(c, http.StatusOK, "success", payload)
}
