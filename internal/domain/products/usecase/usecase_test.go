package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/danisworo/shopapi/internal/domain/products"
	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/middleware"
	"github.com/danisworo/shopapi/pkg/response"
)

type fakeDirectory map[string]*users.User

func (f fakeDirectory) FindUserByExtID(_ context.Context, extID string) (*users.User, error) {
	return f[extID], nil
}

type fakeProductRepo struct {
	byID          map[int64]*products.Product
	reviews       map[int64][]products.ProductReview
	nextID        int64
	ratingUpdates []int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		byID:    map[int64]*products.Product{},
		reviews: map[int64][]products.ProductReview{},
		nextID:  1,
	}
}

func (f *fakeProductRepo) CreateProduct(_ context.Context, p *products.Product) error {
	p.ID = f.nextID
	f.nextID++
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProductRepo) FindProductByID(_ context.Context, id int64) (*products.Product, error) {
	return f.byID[id], nil
}

func (f *fakeProductRepo) FindAllProducts(_ context.Context, filter products.ListFilter) ([]products.Product, int64, error) {
	var rows []products.Product
	for _, p := range f.byID {
		rows = append(rows, *p)
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeProductRepo) UpdateProduct(_ context.Context, p *products.Product) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProductRepo) DeleteProduct(_ context.Context, id int64) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

func (f *fakeProductRepo) CreateReview(_ context.Context, r *products.ProductReview) error {
	f.reviews[r.ProductID] = append(f.reviews[r.ProductID], *r)
	return nil
}

func (f *fakeProductRepo) FindReviewsByProductID(_ context.Context, id int64) ([]products.ProductReview, error) {
	return f.reviews[id], nil
}

func (f *fakeProductRepo) UpdateProductRating(_ context.Context, id int64) error {
	f.ratingUpdates = append(f.ratingUpdates, id)
	return nil
}

var (
	admin  = middleware.Principal{ID: "user_admin", Role: "admin"}
	vendor = middleware.Principal{ID: "user_vendor", Role: "vendor"}
)

func directory() fakeDirectory {
	return fakeDirectory{
		"user_admin":  {ExtID: "user_admin", Name: "Admin", Role: "admin"},
		"user_vendor": {ExtID: "user_vendor", Name: "Vendor", Role: "vendor"},
		"user_cust":   {ExtID: "user_cust", Name: "Alice", Role: "customer"},
	}
}

func TestCreateProductRecordsVendor(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewUsecase(repo, directory())

	p, err := uc.CreateProduct(context.Background(), vendor, products.CreateProductRequest{
		Name:     "Keyboard",
		Price:    49.90,
		Category: "electronics",
		Stock:    10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.VendorExtID != vendor.ID {
		t.Errorf("vendor = %q, want %q", p.VendorExtID, vendor.ID)
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewUsecase(repo, directory())

	owned, _ := uc.CreateProduct(context.Background(), vendor, products.CreateProductRequest{
		Name: "Keyboard", Price: 49.90, Category: "electronics",
	})
	foreign, _ := uc.CreateProduct(context.Background(), middleware.Principal{ID: "user_other", Role: "vendor"},
		products.CreateProductRequest{Name: "Mouse", Price: 19.90, Category: "electronics"})

	// Vendor may edit own product.
	if _, err := uc.UpdateProduct(context.Background(), vendor, owned.ID, products.UpdateProductRequest{Name: "Keyboard v2"}); err != nil {
		t.Fatalf("update own: %v", err)
	}

	// Vendor may not edit someone else's.
	_, err := uc.UpdateProduct(context.Background(), vendor, foreign.ID, products.UpdateProductRequest{Name: "hijacked"})
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusForbidden {
		t.Fatalf("err = %v, want 403 APIError", err)
	}

	// Admin may edit anything.
	if _, err := uc.UpdateProduct(context.Background(), admin, foreign.ID, products.UpdateProductRequest{Name: "Mouse v2"}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestAddReviewRecomputesRating(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewUsecase(repo, directory())

	p, _ := uc.CreateProduct(context.Background(), vendor, products.CreateProductRequest{
		Name: "Keyboard", Price: 49.90, Category: "electronics",
	})

	customer := middleware.Principal{ID: "user_cust", Role: "customer"}
	review, err := uc.AddReview(context.Background(), customer, p.ID, products.CreateReviewRequest{
		Rating:  4,
		Comment: "solid",
	})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if review.UserExtID != customer.ID || review.UserName != "Alice" {
		t.Errorf("review attribution = %q/%q", review.UserExtID, review.UserName)
	}
	if len(repo.ratingUpdates) != 1 || repo.ratingUpdates[0] != p.ID {
		t.Errorf("rating recompute calls = %v, want [%d]", repo.ratingUpdates, p.ID)
	}
}

func TestAddReviewMissingProduct(t *testing.T) {
	uc := NewUsecase(newFakeProductRepo(), directory())

	_, err := uc.AddReview(context.Background(), admin, 99, products.CreateReviewRequest{Rating: 5})
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 APIError", err)
	}
}
