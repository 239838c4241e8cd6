package products

import "time"

// Product is a catalog entry. VendorExtID records which vendor created it;
// vendors may only modify their own products.
type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null;default:0.00"`
	Category    string    `json:"category" gorm:"type:varchar(100);index"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	Images      []string  `json:"images" gorm:"serializer:json;type:text"`
	VendorExtID string    `json:"vendor_id" gorm:"column:vendor_ext_id;index"`
	Rating      float64   `json:"rating" gorm:"type:decimal(3,2);default:0.00"`
	NumReviews  int       `json:"num_reviews" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// ProductReview is a single customer review. The product's Rating column is
// the recomputed average over its reviews.
type ProductReview struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID int64     `json:"product_id" gorm:"not null;index"`
	UserExtID string    `json:"user_id" gorm:"column:user_ext_id;not null"`
	UserName  string    `json:"user_name" gorm:"type:varchar(100)"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ProductReview) TableName() string {
	return "product_reviews"
}

// Request DTOs

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required,max=100"`
	Stock       int      `json:"stock" validate:"min=0"`
	Images      []string `json:"images" validate:"dive,url"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name" validate:"omitempty,min=1,max=255"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    string   `json:"category" validate:"omitempty,max=100"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ListFilter carries the catalog query parameters.
type ListFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	PerPage  int
}

// Response DTOs

type ProductDetail struct {
	Product
	Reviews []ProductReview `json:"reviews"`
}
