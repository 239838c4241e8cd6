package delivery

import (
	"context"
	"time"

	"github.com/danisworo/shopapi/internal/domain/auth"
	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/internal/platform/session"
	"github.com/danisworo/shopapi/pkg/cookie"
)

type AuthUsecase interface {
	LoginJWT(ctx context.Context, payload users.UserLoginRequest) (*auth.JWTLoginResponse, error)
	RefreshAccessToken(ctx context.Context, rawToken string) (*auth.RefreshResponse, error)
	LogoutJWT(ctx context.Context, rawToken string) error
	LoginSession(ctx context.Context, payload users.UserLoginRequest) (*session.Session, *users.UserProfile, error)
	LogoutSession(ctx context.Context, sessionID string) error
	SessionTTL() time.Duration
	LoginCookie(ctx context.Context, payload users.UserLoginRequest) (string, *users.UserProfile, error)
	GetProfile(ctx context.Context, extID string) (*users.UserProfile, error)
}

// CookieSettings carries the deployment-specific attributes for the two
// cookies this handler sets (opaque session id, signed auth cookie).
type CookieSettings struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type Handler struct {
	ctx           context.Context
	usecase       AuthUsecase
	codec         *cookie.Codec
	sessionCookie CookieSettings
	authCookie    CookieSettings
}

func NewHandler(ctx context.Context, usecase AuthUsecase, codec *cookie.Codec, sessionCookie, authCookie CookieSettings) *Handler {
	return &Handler{
		ctx:           ctx,
		usecase:       usecase,
		codec:         codec,
		sessionCookie: sessionCookie,
		authCookie:    authCookie,
	}
}
