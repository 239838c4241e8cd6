package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/auth"
	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

func (h *Handler) LoginJWT(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.LoginJWT(h.ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Int("status", apiErr.Code).Msg("JWT login rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Internal server error during JWT login")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", nil)
	}

	logger.Info().Str("user_ext_id", result.User.ExtID).Msg("JWT login successful")
	return response.Success(c, http.StatusOK, "login_successful", result)
}

func (h *Handler) RefreshToken(c echo.Context) error {
	var req auth.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.RefreshAccessToken(h.ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "token_refreshed_successfully", result)
}

func (h *Handler) LogoutJWT(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req auth.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.usecase.LogoutJWT(h.ctx, req.RefreshToken); err != nil {
		return err
	}

	logger.Info().Msg("Refresh token revoked")
	return response.Success(c, http.StatusOK, "logged_out_successfully", nil)
}

// MeJWT runs behind the JWT middleware; the principal carries claims data
// only, so the live row is fetched here.
func (h *Handler) MeJWT(c echo.Context) error {
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
