package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/danisworo/shopapi/internal/domain/products"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *products.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) FindProductByID(ctx context.Context, productID int64) (*products.Product, error) {
	var product products.Product
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindAllProducts returns a catalog page matching the filter, newest first.
func (r *ProductRepository) FindAllProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, int64, error) {
	var (
		rows  []products.Product
		total int64
	)

	query := r.db.WithContext(ctx).Model(&products.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(filter.PerPage).
		Offset((filter.Page - 1) * filter.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *products.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, productID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", productID).Delete(&products.Product{})
	return res.RowsAffected, res.Error
}

// DecrementStock atomically reduces stock by quantity, refusing to go
// negative. Returns the number of rows updated (0 means insufficient stock
// or missing product).
func (r *ProductRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&products.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	return res.RowsAffected, res.Error
}

func (r *ProductRepository) CreateReview(ctx context.Context, review *products.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ProductRepository) FindReviewsByProductID(ctx context.Context, productID int64) ([]products.ProductReview, error) {
	var reviews []products.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateProductRating recomputes the stored average rating and review count
// from the review rows.
func (r *ProductRepository) UpdateProductRating(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Model(&products.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating": gorm.Expr(
				"(SELECT COALESCE(AVG(rating), 0) FROM product_reviews WHERE product_id = ?)", productID),
			"num_reviews": gorm.Expr(
				"(SELECT COUNT(*) FROM product_reviews WHERE product_id = ?)", productID),
		}).Error
}
