package repository

import (
	"context"

	"github.com/danisworo/shopapi/internal/domain/products"
	productRepo "github.com/danisworo/shopapi/internal/domain/products/repository"
)

// ProductRepositoryAdapter narrows the product repository to what the order
// usecase needs.
type ProductRepositoryAdapter struct {
	repo *productRepo.ProductRepository
}

func NewProductRepositoryAdapter(repo *productRepo.ProductRepository) *ProductRepositoryAdapter {
	return &ProductRepositoryAdapter{repo: repo}
}

func (a *ProductRepositoryAdapter) FindProductByID(ctx context.Context, productID int64) (*products.Product, error) {
	return a.repo.FindProductByID(ctx, productID)
}

func (a *ProductRepositoryAdapter) DecrementStock(ctx context.Context, productID int64, quantity int) (int64, error) {
	return a.repo.DecrementStock(ctx, productID, quantity)
}
