package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/danisworo/shopapi/internal/domain/users"
)

// RefreshToken is the server-side record that makes a signed refresh token
// revocable. The raw token never hits the database; only its hash does.
//
// Lifecycle: issued -> revoked (logout) or expired (purge or the wall-clock
// check at refresh time). Both end states are terminal; rows never return to
// issued.
type RefreshToken struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserExtID string     `json:"user_ext_id" gorm:"column:user_ext_id;not null;index"`
	TokenHash string     `json:"-" gorm:"column:token_hash;type:varchar(64);unique;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null;index"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Valid reports whether the record is usable at the given instant:
// not revoked and not past its stored expiry.
func (t *RefreshToken) Valid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// HashToken derives the storage key for a raw refresh token string.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Request DTOs

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Response DTOs

// JWTLoginResponse carries the token pair plus the user projection. The
// refresh token returned here is the raw signed string; the server keeps
// only its hash.
type JWTLoginResponse struct {
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	User         *users.UserProfile `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
