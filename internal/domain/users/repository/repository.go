package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/danisworo/shopapi/internal/domain/users"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateNewUser(ctx context.Context, user *users.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindUserByExtID(ctx context.Context, extID string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).Where("ext_id = ?", extID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmailExcluding looks up a user by email while ignoring the row
// with the given ext id. Used for the uniqueness check on profile updates.
func (r *UserRepository) FindUserByEmailExcluding(ctx context.Context, email, extID string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND ext_id <> ?", email, extID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *users.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) ListUsers(ctx context.Context, page, perPage int) ([]users.User, int64, error) {
	var (
		rows  []users.User
		total int64
	)

	if err := r.db.WithContext(ctx).Model(&users.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, extID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("ext_id = ?", extID).Delete(&users.User{})
	return res.RowsAffected, res.Error
}
