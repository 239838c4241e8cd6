package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/danisworo/shopapi/internal/domain/orders"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order row and its item rows. Each insert is an
// independent statement; there is no surrounding transaction.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *orders.Order) error {
	items := order.Items
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := r.db.WithContext(ctx).Create(&items[i]).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *OrderRepository) FindOrderByID(ctx context.Context, orderID int64) (*orders.Order, error) {
	var order orders.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindOrdersByUser(ctx context.Context, userExtID string, page, perPage int) ([]orders.Order, int64, error) {
	var (
		rows  []orders.Order
		total int64
	)

	query := r.db.WithContext(ctx).Model(&orders.Order{}).Where("user_ext_id = ?", userExtID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range rows {
		if err := r.loadItems(ctx, &rows[i]); err != nil {
			return nil, 0, err
		}
	}
	return rows, total, nil
}

func (r *OrderRepository) FindAllOrders(ctx context.Context, status string, page, perPage int) ([]orders.Order, int64, error) {
	var (
		rows  []orders.Order
		total int64
	)

	query := r.db.WithContext(ctx).Model(&orders.Order{})
	if status != "" {
		query = query.Where("order_status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range rows {
		if err := r.loadItems(ctx, &rows[i]); err != nil {
			return nil, 0, err
		}
	}
	return rows, total, nil
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, order *orders.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *OrderRepository) loadItems(ctx context.Context, order *orders.Order) error {
	var items []orders.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", order.ID).Find(&items).Error
	if err != nil {
		return err
	}
	order.Items = items
	return nil
}
