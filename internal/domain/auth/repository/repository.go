package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/danisworo/shopapi/internal/domain/auth"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// FindActiveRefreshToken returns the unrevoked row for the given hash, or
// (nil, nil) when no such row exists. Expiry is NOT checked here; the caller
// compares the stored expires_at against the clock.
func (r *AuthRepository) FindActiveRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	var token auth.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// FindRefreshTokenByHash returns the row regardless of revocation state, or
// (nil, nil) when absent. Used by logout, which must distinguish "never
// issued" from "already revoked".
func (r *AuthRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	var token auth.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// RevokeRefreshToken stamps revoked_at on the row, but only if it is still
// unrevoked, so an earlier revocation time is never overwritten.
func (r *AuthRepository) RevokeRefreshToken(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&auth.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", revokedAt).Error
}

// DeleteExpired removes rows whose expiry has passed and returns the number
// deleted. Run periodically by the worker; correctness does not depend on it
// because refresh re-checks expires_at against the clock.
func (r *AuthRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&auth.RefreshToken{})
	return res.RowsAffected, res.Error
}
