package orders

import "time"

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Order represents a placed order. Shipping address is denormalized onto the
// order row so later address edits on the user do not rewrite order history.
type Order struct {
	ID              int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserExtID       string        `json:"user_ext_id" gorm:"not null;index;column:user_ext_id"`
	PaymentMethod   string        `json:"payment_method" gorm:"type:varchar(50);default:'cash-on-delivery';not null"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:enum('PENDING','PAID','FAILED');default:'PENDING';not null"`
	OrderStatus     OrderStatus   `json:"order_status" gorm:"type:enum('PROCESSING','SHIPPED','DELIVERED','CANCELLED');default:'PROCESSING';not null"`
	TotalPrice      float64       `json:"total_price" gorm:"type:decimal(10,2);not null"`
	ShippingAddress string        `json:"shipping_address" gorm:"type:varchar(255);not null"`
	ShippingCity    string        `json:"shipping_city" gorm:"type:varchar(100);not null"`
	ShippingPostal  string        `json:"shipping_postal_code" gorm:"type:varchar(20)"`
	ShippingCountry string        `json:"shipping_country" gorm:"type:varchar(100);not null"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Loaded separately, not a gorm association.
	Items []OrderItem `json:"items" gorm:"-"`
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line within an order. Price is the unit price at
// purchase time, frozen independently of later catalog changes.
type OrderItem struct {
	ID        int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   int64   `json:"order_id" gorm:"not null;index"`
	ProductID int64   `json:"product_id" gorm:"not null"`
	Name      string  `json:"name" gorm:"type:varchar(255);not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"type:decimal(10,2);not null"`
}

// TableName specifies the table name for OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Request DTOs

type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type ShippingAddressRequest struct {
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"omitempty,oneof=cash-on-delivery bank-transfer"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"order_status" validate:"omitempty,oneof=PROCESSING SHIPPED DELIVERED CANCELLED"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=PENDING PAID FAILED"`
}
