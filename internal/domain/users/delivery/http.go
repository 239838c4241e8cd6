package delivery

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/constant"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

type UserUsecase interface {
	Register(ctx context.Context, payload users.UserRegisterRequest) (*users.UserProfile, error)
	GetProfile(ctx context.Context, extID string) (*users.UserProfile, error)
	UpdateProfile(ctx context.Context, extID string, payload users.UpdateProfileRequest) (*users.UserProfile, error)
	ListUsers(ctx context.Context, page, perPage int) ([]users.UserProfile, *response.PaginationMeta, error)
	DeleteUser(ctx context.Context, extID string) error
	SetUserStatus(ctx context.Context, extID string, isActive bool) (*users.UserProfile, error)
}

type Handler struct {
	ctx     context.Context
	usecase UserUsecase
}

func NewHandler(ctx context.Context, usecase UserUsecase) *Handler {
	return &Handler{
		ctx:     ctx,
		usecase: usecase,
	}
}

func (h *Handler) Register(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.UserRegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.Register(h.ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Str("email", req.Email).Msg("Registration rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Internal server error during registration")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", nil)
	}

	logger.Info().Str("user_ext_id", result.ExtID).Msg("User registered successfully")
	return response.Success(c, http.StatusCreated, "user_registered_successfully", result)
}

func (h *Handler) GetUser(c echo.Context) error {
	extID := c.Param("id")
	if err := h.requireSelfOrAdmin(c, extID); err != nil {
		return err
	}

	result, err := h.usecase.GetProfile(h.ctx, extID)
	if err != nil {
		return h.writeError(c, err)
	}
	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	extID := c.Param("id")
	if err := h.requireSelfOrAdmin(c, extID); err != nil {
		return err
	}

	var req users.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.UpdateProfile(h.ctx, extID, req)
	if err != nil {
		return h.writeError(c, err)
	}
	return response.Success(c, http.StatusOK, "user_updated_successfully", result)
}

func (h *Handler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	result, meta, err := h.usecase.ListUsers(h.ctx, page, perPage)
	if err != nil {
		return h.writeError(c, err)
	}
	return response.SuccessPaged(c, http.StatusOK, "success", result, *meta)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	logger := middleware.GetLogger(c)
	extID := c.Param("id")

	if err := h.usecase.DeleteUser(h.ctx, extID); err != nil {
		return h.writeError(c, err)
	}

	logger.Info().Str("user_ext_id", extID).Msg("User deleted")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetStatus(c echo.Context) error {
	logger := middleware.GetLogger(c)
	extID := c.Param("id")

	var req users.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.SetUserStatus(h.ctx, extID, *req.IsActive)
	if err != nil {
		return h.writeError(c, err)
	}

	logger.Info().
		Str("user_ext_id", extID).
		Bool("is_active", *req.IsActive).
		Msg("User status updated")
	return response.Success(c, http.StatusOK, "user_status_updated", result)
}

// requireSelfOrAdmin allows the target user themselves or any admin.
func (h *Handler) requireSelfOrAdmin(c echo.Context, extID string) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.NewError(http.StatusUnauthorized, "authentication_required", nil)
	}
	if principal.Role != constant.RoleAdmin && principal.ID != extID {
		return response.NewError(http.StatusForbidden, "access_denied", nil)
	}
	return nil
}

func (h *Handler) writeError(c echo.Context, err error) error {
	if apiErr, ok := err.(*response.APIError); ok {
		return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
	}
	middleware.GetLogger(c).Error().Err(err).Msg("Internal server error")
	return response.Error(c, http.StatusInternalServerError, "internal_server_error", nil)
}
