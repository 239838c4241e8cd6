package delivery

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/products"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

type ProductUsecase interface {
	ListProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, *response.PaginationMeta, error)
	GetProduct(ctx context.Context, productID int64) (*products.ProductDetail, error)
	CreateProduct(ctx context.Context, principal middleware.Principal, payload products.CreateProductRequest) (*products.Product, error)
	UpdateProduct(ctx context.Context, principal middleware.Principal, productID int64, payload products.UpdateProductRequest) (*products.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	AddReview(ctx context.Context, principal middleware.Principal, productID int64, payload products.CreateReviewRequest) (*products.ProductReview, error)
}

type Handler struct {
	ctx     context.Context
	usecase ProductUsecase
}

func NewHandler(ctx context.Context, usecase ProductUsecase) *Handler {
	return &Handler{
		ctx:     ctx,
		usecase: usecase,
	}
}

func (h *Handler) ListProducts(c echo.Context) error {
	filter := products.ListFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "invalid_min_price", nil)
		}
		filter.MinPrice = &v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "invalid_max_price", nil)
		}
		filter.MaxPrice = &v
	}

	rows, meta, err := h.usecase.ListProducts(h.ctx, filter)
	if err != nil {
		return err
	}
	return response.SuccessPaged(c, http.StatusOK, "success", rows, *meta)
}

func (h *Handler) GetProduct(c echo.Context) error {
	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	result, err := h.usecase.GetProduct(h.ctx, productID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) CreateProduct(c echo.Context) error {
	logger := middleware.GetLogger(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	var req products.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.CreateProduct(h.ctx, principal, req)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("product_id", result.ID).
		Str("vendor_ext_id", result.VendorExtID).
		Msg("Product created")
	return response.Success(c, http.StatusCreated, "product_created_successfully", result)
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	var req products.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.UpdateProduct(h.ctx, principal, productID, req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "product_updated_successfully", result)
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	logger := middleware.GetLogger(c)

	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	if err := h.usecase.DeleteProduct(h.ctx, productID); err != nil {
		return err
	}

	logger.Info().Int64("product_id", productID).Msg("Product deleted")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddReview(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication_required", nil)
	}

	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	var req products.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.usecase.AddReview(h.ctx, principal, productID, req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, "review_added_successfully", result)
}

func parseProductID(c echo.Context) (int64, error) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, response.NewError(http.StatusBadRequest, "invalid_product_id", nil)
	}
	return productID, nil
}
