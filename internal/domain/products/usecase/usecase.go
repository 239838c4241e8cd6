package usecase

import (
	"context"
	"net/http"

	"github.com/danisworo/shopapi/internal/domain/products"
	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/constant"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *products.Product) error
	FindProductByID(ctx context.Context, productID int64) (*products.Product, error)
	FindAllProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, int64, error)
	UpdateProduct(ctx context.Context, product *products.Product) error
	DeleteProduct(ctx context.Context, productID int64) (int64, error)
	CreateReview(ctx context.Context, review *products.ProductReview) error
	FindReviewsByProductID(ctx context.Context, productID int64) ([]products.ProductReview, error)
	UpdateProductRating(ctx context.Context, productID int64) error
}

// UserDirectory resolves the reviewer's display name.
type UserDirectory interface {
	FindUserByExtID(ctx context.Context, extID string) (*users.User, error)
}

type Usecase struct {
	repo  ProductRepository
	users UserDirectory
}

func NewUsecase(repo ProductRepository, users UserDirectory) *Usecase {
	return &Usecase{repo: repo, users: users}
}

func (u *Usecase) ListProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, *response.PaginationMeta, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}

	rows, total, err := u.repo.FindAllProducts(ctx, filter)
	if err != nil {
		return nil, nil, response.InternalServerError(err)
	}

	totalPages := int(total) / filter.PerPage
	if int(total)%filter.PerPage != 0 {
		totalPages++
	}

	return rows, &response.PaginationMeta{
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		PerPage:     filter.PerPage,
	}, nil
}

func (u *Usecase) GetProduct(ctx context.Context, productID int64) (*products.ProductDetail, error) {
	product, err := u.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if product == nil {
		return nil, response.NewError(http.StatusNotFound, "product_not_found", nil)
	}

	reviews, err := u.repo.FindReviewsByProductID(ctx, productID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if reviews == nil {
		reviews = []products.ProductReview{}
	}

	return &products.ProductDetail{Product: *product, Reviews: reviews}, nil
}

func (u *Usecase) CreateProduct(ctx context.Context, principal middleware.Principal, payload products.CreateProductRequest) (*products.Product, error) {
	product := &products.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Stock:       payload.Stock,
		Images:      payload.Images,
		VendorExtID: principal.ID,
	}

	if err := u.repo.CreateProduct(ctx, product); err != nil {
		return nil, response.InternalServerError(err)
	}
	return product, nil
}

// UpdateProduct applies the ownership rule: admins may edit anything,
// vendors only their own products.
func (u *Usecase) UpdateProduct(ctx context.Context, principal middleware.Principal, productID int64, payload products.UpdateProductRequest) (*products.Product, error) {
	product, err := u.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if product == nil {
		return nil, response.NewError(http.StatusNotFound, "product_not_found", nil)
	}

	if principal.Role != constant.RoleAdmin && product.VendorExtID != principal.ID {
		return nil, response.NewError(http.StatusForbidden, "access_denied", nil)
	}

	if payload.Name != "" {
		product.Name = payload.Name
	}
	if payload.Description != "" {
		product.Description = payload.Description
	}
	if payload.Price != nil {
		product.Price = *payload.Price
	}
	if payload.Category != "" {
		product.Category = payload.Category
	}
	if payload.Stock != nil {
		product.Stock = *payload.Stock
	}
	if payload.Images != nil {
		product.Images = payload.Images
	}

	if err := u.repo.UpdateProduct(ctx, product); err != nil {
		return nil, response.InternalServerError(err)
	}
	return product, nil
}

func (u *Usecase) DeleteProduct(ctx context.Context, productID int64) error {
	affected, err := u.repo.DeleteProduct(ctx, productID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if affected == 0 {
		return response.NewError(http.StatusNotFound, "product_not_found", nil)
	}
	return nil
}

// AddReview records a review and recomputes the product's average rating.
func (u *Usecase) AddReview(ctx context.Context, principal middleware.Principal, productID int64, payload products.CreateReviewRequest) (*products.ProductReview, error) {
	product, err := u.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if product == nil {
		return nil, response.NewError(http.StatusNotFound, "product_not_found", nil)
	}

	reviewer, err := u.users.FindUserByExtID(ctx, principal.ID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if reviewer == nil {
		return nil, response.NewError(http.StatusUnauthorized, "authentication_required", nil)
	}

	review := &products.ProductReview{
		ProductID: productID,
		UserExtID: principal.ID,
		UserName:  reviewer.Name,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
	}

	if err := u.repo.CreateReview(ctx, review); err != nil {
		return nil, response.InternalServerError(err)
	}
	if err := u.repo.UpdateProductRating(ctx, productID); err != nil {
		return nil, response.InternalServerError(err)
	}
	return review, nil
}
