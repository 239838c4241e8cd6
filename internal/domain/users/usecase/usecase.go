package usecase

import (
	"context"
	"net/http"

	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/constant"
	"github.com/danisworo/shopapi/pkg/response"
)

type UserRepository interface {
	CreateNewUser(ctx context.Context, user *users.User) error
	FindUserByEmail(ctx context.Context, email string) (*users.User, error)
	FindUserByExtID(ctx context.Context, extID string) (*users.User, error)
	FindUserByEmailExcluding(ctx context.Context, email, extID string) (*users.User, error)
	UpdateUser(ctx context.Context, user *users.User) error
	ListUsers(ctx context.Context, page, perPage int) ([]users.User, int64, error)
	DeleteUser(ctx context.Context, extID string) (int64, error)
}

type Usecase struct {
	repo UserRepository
}

func NewUsecase(repo UserRepository) *Usecase {
	return &Usecase{repo: repo}
}

func (u *Usecase) Register(ctx context.Context, payload users.UserRegisterRequest) (*users.UserProfile, error) {
	existing, err := u.repo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if existing != nil {
		return nil, response.NewError(http.StatusConflict, "email_already_exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	user := &users.User{
		ExtID:    "user_" + ksuid.New().String(),
		Name:     payload.Name,
		Email:    payload.Email,
		Password: string(hashed),
		Role:     constant.RoleCustomer,
		Address:  payload.Address,
		Phone:    payload.Phone,
		IsActive: true,
	}

	if err := u.repo.CreateNewUser(ctx, user); err != nil {
		return nil, response.InternalServerError(err)
	}

	return users.ProfileOf(user), nil
}

func (u *Usecase) GetProfile(ctx context.Context, extID string) (*users.UserProfile, error) {
	user, err := u.repo.FindUserByExtID(ctx, extID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusNotFound, "user_not_found", nil)
	}
	return users.ProfileOf(user), nil
}

func (u *Usecase) UpdateProfile(ctx context.Context, extID string, payload users.UpdateProfileRequest) (*users.UserProfile, error) {
	user, err := u.repo.FindUserByExtID(ctx, extID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusNotFound, "user_not_found", nil)
	}

	if payload.Email != "" && payload.Email != user.Email {
		taken, err := u.repo.FindUserByEmailExcluding(ctx, payload.Email, extID)
		if err != nil {
			return nil, response.InternalServerError(err)
		}
		if taken != nil {
			return nil, response.NewError(http.StatusConflict, "email_already_exists", nil)
		}
		user.Email = payload.Email
	}

	if payload.Name != "" {
		user.Name = payload.Name
	}
	if payload.Address != "" {
		user.Address = payload.Address
	}
	if payload.Phone != "" {
		user.Phone = payload.Phone
	}

	if err := u.repo.UpdateUser(ctx, user); err != nil {
		return nil, response.InternalServerError(err)
	}
	return users.ProfileOf(user), nil
}

func (u *Usecase) ListUsers(ctx context.Context, page, perPage int) ([]users.UserProfile, *response.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	rows, total, err := u.repo.ListUsers(ctx, page, perPage)
	if err != nil {
		return nil, nil, response.InternalServerError(err)
	}

	profiles := make([]users.UserProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, *users.ProfileOf(&rows[i]))
	}

	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}

	return profiles, &response.PaginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		PerPage:     perPage,
	}, nil
}

func (u *Usecase) DeleteUser(ctx context.Context, extID string) error {
	affected, err := u.repo.DeleteUser(ctx, extID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if affected == 0 {
		return response.NewError(http.StatusNotFound, "user_not_found", nil)
	}
	return nil
}

// SetUserStatus activates or deactivates an account. Deactivation takes
// effect immediately on the session and cookie paths, which re-fetch the
// user row per request; outstanding JWT access tokens keep working until
// they expire.
func (u *Usecase) SetUserStatus(ctx context.Context, extID string, isActive bool) (*users.UserProfile, error) {
	user, err := u.repo.FindUserByExtID(ctx, extID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusNotFound, "user_not_found", nil)
	}

	user.IsActive = isActive
	if err := u.repo.UpdateUser(ctx, user); err != nil {
		return nil, response.InternalServerError(err)
	}
	return users.ProfileOf(user), nil
}
