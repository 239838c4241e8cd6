package delivery

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/orders"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, principal middleware.Principal, payload orders.CreateOrderRequest) (*orders.Order, error)
	GetOrder(ctx context.Context, principal middleware.Principal, orderID int64) (*orders.Order, error)
	ListMyOrders(ctx context.Context, userExtID string, page, perPage int) ([]orders.Order, *response.PaginationMeta, error)
	ListAllOrders(ctx context.Context, status string, page, perPage int) ([]orders.Order, *response.PaginationMeta, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, payload orders.UpdateOrderStatusRequest) (*orders.Order, error)
}

type Handler struct {
	ctx     context.Context
	usecase OrderUsecase
}

func NewHandler(ctx context.Context, usecase OrderUsecase) *Handler {
	return &Handler{
		ctx:     ctx,
		usecase: usecase,
	}
}

func (h *Handler) CreateOrder(c echo.Context) error {
	logger := middleware.GetLogger(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	var req orders.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.CreateOrder(h.ctx, principal, req)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("order_id", result.ID).
		Str("user_ext_id", principal.ID).
		Float64("total_price", result.TotalPrice).
		Msg("Order created")
	return response.Success(c, http.StatusCreated, "order_created_successfully", result)
}

func (h *Handler) GetOrder(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_order_id", nil)
	}

	result, err := h.usecase.GetOrder(h.ctx, principal, orderID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) ListMyOrders(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	rows, meta, err := h.usecase.ListMyOrders(h.ctx, principal.ID, page, perPage)
	if err != nil {
		return err
	}
	return response.SuccessPaged(c, http.StatusOK, "success", rows, *meta)
}

func (h *Handler) ListAllOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	rows, meta, err := h.usecase.ListAllOrders(h.ctx, c.QueryParam("status"), page, perPage)
	if err != nil {
		return err
	}
	return response.SuccessPaged(c, http.StatusOK, "success", rows, *meta)
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	logger := middleware.GetLogger(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_order_id", nil)
	}

	var req orders.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.UpdateOrderStatus(h.ctx, orderID, req)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("order_id", orderID).
		Str("order_status", string(result.OrderStatus)).
		Str("payment_status", string(result.PaymentStatus)).
		Msg("Order status updated")
	return response.Success(c, http.StatusOK, "order_updated_successfully", result)
}
