package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danisworo/shopapi/internal/domain/orders"
	"github.com/danisworo/shopapi/internal/domain/products"
	"github.com/danisworo/shopapi/internal/platform/queue"
	"github.com/danisworo/shopapi/pkg/constant"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *orders.Order) error
	FindOrderByID(ctx context.Context, orderID int64) (*orders.Order, error)
	FindOrdersByUser(ctx context.Context, userExtID string, page, perPage int) ([]orders.Order, int64, error)
	FindAllOrders(ctx context.Context, status string, page, perPage int) ([]orders.Order, int64, error)
	UpdateOrder(ctx context.Context, order *orders.Order) error
}

type ProductSource interface {
	FindProductByID(ctx context.Context, productID int64) (*products.Product, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) (int64, error)
}

type Usecase struct {
	repo     OrderRepository
	products ProductSource
	queue    queue.Service
}

func NewUsecase(repo OrderRepository, products ProductSource, queueService queue.Service) *Usecase {
	return &Usecase{
		repo:     repo,
		products: products,
		queue:    queueService,
	}
}

// CreateOrder verifies and decrements stock per item, persists the order,
// and publishes an order-created event. Stock decrements are atomic per
// product but there is no cross-product transaction; a failed item aborts
// the order without restoring earlier decrements.
func (u *Usecase) CreateOrder(ctx context.Context, principal middleware.Principal, payload orders.CreateOrderRequest) (*orders.Order, error) {
	var (
		items []orders.OrderItem
		total float64
	)

	for _, item := range payload.Items {
		product, err := u.products.FindProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, response.InternalServerError(err)
		}
		if product == nil {
			return nil, response.NewError(http.StatusNotFound, "product_not_found",
				fmt.Sprintf("product %d does not exist", item.ProductID))
		}

		affected, err := u.products.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, response.InternalServerError(err)
		}
		if affected == 0 {
			return nil, response.NewError(http.StatusConflict, "insufficient_stock",
				fmt.Sprintf("product %d has insufficient stock", item.ProductID))
		}

		items = append(items, orders.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	paymentMethod := payload.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash-on-delivery"
	}

	order := &orders.Order{
		UserExtID:       principal.ID,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   orders.PaymentStatusPending,
		OrderStatus:     orders.OrderStatusProcessing,
		TotalPrice:      total,
		ShippingAddress: payload.ShippingAddress.Address,
		ShippingCity:    payload.ShippingAddress.City,
		ShippingPostal:  payload.ShippingAddress.PostalCode,
		ShippingCountry: payload.ShippingAddress.Country,
		Items:           items,
	}

	if err := u.repo.CreateOrder(ctx, order); err != nil {
		return nil, response.InternalServerError(err)
	}

	event := queue.OrderCreatedEvent{
		OrderID:    order.ID,
		UserExtID:  order.UserExtID,
		TotalPrice: order.TotalPrice,
		CreatedAt:  time.Now(),
	}
	if err := u.queue.PublishOrderCreated(ctx, event); err != nil {
		// The order is already persisted; a lost event only delays the
		// fulfillment notification.
		log.Warn().Err(err).Int64("order_id", order.ID).Msg("Failed to publish order event")
	}

	return order, nil
}

func (u *Usecase) GetOrder(ctx context.Context, principal middleware.Principal, orderID int64) (*orders.Order, error) {
	order, err := u.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if order == nil {
		return nil, response.NewError(http.StatusNotFound, "order_not_found", nil)
	}
	if principal.Role != constant.RoleAdmin && order.UserExtID != principal.ID {
		return nil, response.NewError(http.StatusForbidden, "access_denied", nil)
	}
	return order, nil
}

func (u *Usecase) ListMyOrders(ctx context.Context, userExtID string, page, perPage int) ([]orders.Order, *response.PaginationMeta, error) {
	page, perPage = normalizePage(page, perPage)

	rows, total, err := u.repo.FindOrdersByUser(ctx, userExtID, page, perPage)
	if err != nil {
		return nil, nil, response.InternalServerError(err)
	}
	return rows, paginationMeta(page, perPage, total), nil
}

func (u *Usecase) ListAllOrders(ctx context.Context, status string, page, perPage int) ([]orders.Order, *response.PaginationMeta, error) {
	page, perPage = normalizePage(page, perPage)

	rows, total, err := u.repo.FindAllOrders(ctx, status, page, perPage)
	if err != nil {
		return nil, nil, response.InternalServerError(err)
	}
	return rows, paginationMeta(page, perPage, total), nil
}

func (u *Usecase) UpdateOrderStatus(ctx context.Context, orderID int64, payload orders.UpdateOrderStatusRequest) (*orders.Order, error) {
	order, err := u.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if order == nil {
		return nil, response.NewError(http.StatusNotFound, "order_not_found", nil)
	}

	if payload.OrderStatus != "" {
		order.OrderStatus = orders.OrderStatus(payload.OrderStatus)
	}
	if payload.PaymentStatus != "" {
		order.PaymentStatus = orders.PaymentStatus(payload.PaymentStatus)
	}

	if err := u.repo.UpdateOrder(ctx, order); err != nil {
		return nil, response.InternalServerError(err)
	}
	return order, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func paginationMeta(page, perPage int, total int64) *response.PaginationMeta {
	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}
	return &response.PaginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		PerPage:     perPage,
	}
}
