package usecase

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danisworo/shopapi/internal/domain/auth"
	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/internal/platform/session"
	"github.com/danisworo/shopapi/pkg/cookie"
	"github.com/danisworo/shopapi/pkg/jwt"
	"github.com/danisworo/shopapi/pkg/response"
)

type UserSource interface {
	FindUserByEmail(ctx context.Context, email string) (*users.User, error)
	FindUserByExtID(ctx context.Context, extID string) (*users.User, error)
}

type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, token *auth.RefreshToken) error
	FindActiveRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error)
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string, revokedAt time.Time) error
}

type SessionStore interface {
	Create(ctx context.Context, userExtID, role string) (*session.Session, error)
	Destroy(ctx context.Context, id string) error
	TTL() time.Duration
}

type Usecase struct {
	users    UserSource
	repo     AuthRepository
	tokens   *jwt.TokenService
	sessions SessionStore
	cookies  *cookie.Codec
	now      func() time.Time
}

func NewUsecase(users UserSource, repo AuthRepository, tokens *jwt.TokenService, sessions SessionStore, cookies *cookie.Codec) *Usecase {
	return &Usecase{
		users:    users,
		repo:     repo,
		tokens:   tokens,
		sessions: sessions,
		cookies:  cookies,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// verifyCredentials resolves (email, password) to a user row. Unknown email
// and wrong password produce the same generic 401 so the response never
// reveals whether the email exists.
func (u *Usecase) verifyCredentials(ctx context.Context, email, password string) (*users.User, error) {
	user, err := u.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusUnauthorized, "invalid_email_or_password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, response.NewError(http.StatusUnauthorized, "invalid_email_or_password", nil)
	}
	if !user.IsActive {
		return nil, response.NewError(http.StatusForbidden, "account_inactive", nil)
	}
	return user, nil
}

// LoginJWT issues an access/refresh token pair. The refresh token is stored
// server-side by hash so it can be revoked later; the access token is never
// stored and cannot be revoked before it expires.
func (u *Usecase) LoginJWT(ctx context.Context, payload users.UserLoginRequest) (*auth.JWTLoginResponse, error) {
	user, err := u.verifyCredentials(ctx, payload.Email, payload.Password)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := u.tokens.GenerateAccessToken(user.ExtID, user.Role)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	refreshToken, refreshExpiry, err := u.tokens.GenerateRefreshToken(user.ExtID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	record := &auth.RefreshToken{
		UserExtID: user.ExtID,
		TokenHash: auth.HashToken(refreshToken),
		ExpiresAt: refreshExpiry,
	}
	if err := u.repo.CreateRefreshToken(ctx, record); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &auth.JWTLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.ProfileOf(user),
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. The
// checks run in strict order: signature and claim expiry first (terminal,
// no database access), then the unrevoked stored record, then the stored
// expiry against the wall clock. The refresh token is never rotated; no new
// row is written here.
func (u *Usecase) RefreshAccessToken(ctx context.Context, rawToken string) (*auth.RefreshResponse, error) {
	claims, err := u.tokens.ValidateRefreshToken(rawToken)
	if err != nil {
		return nil, response.NewError(http.StatusUnauthorized, "invalid_or_expired_refresh_token", nil)
	}

	record, err := u.repo.FindActiveRefreshToken(ctx, auth.HashToken(rawToken))
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if record == nil {
		// Never issued and already revoked are indistinguishable on purpose.
		return nil, response.NewError(http.StatusUnauthorized, "invalid_or_expired_refresh_token", nil)
	}

	// The claim expiry already passed above, but the stored expiry is
	// re-checked in case the row outlived the purge.
	if !u.now().Before(record.ExpiresAt) {
		return nil, response.NewError(http.StatusUnauthorized, "invalid_or_expired_refresh_token", nil)
	}

	user, err := u.users.FindUserByExtID(ctx, claims.UserExtID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusUnauthorized, "invalid_or_expired_refresh_token", nil)
	}

	accessToken, _, err := u.tokens.GenerateAccessToken(user.ExtID, user.Role)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return &auth.RefreshResponse{AccessToken: accessToken}, nil
}

// LogoutJWT revokes the refresh token. Unknown tokens are a 404; revoking an
// already-revoked token succeeds without moving the original revocation time.
func (u *Usecase) LogoutJWT(ctx context.Context, rawToken string) error {
	tokenHash := auth.HashToken(rawToken)

	record, err := u.repo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return response.InternalServerError(err)
	}
	if record == nil {
		return response.NewError(http.StatusNotFound, "refresh_token_not_found", nil)
	}
	if record.RevokedAt != nil {
		return nil
	}

	if err := u.repo.RevokeRefreshToken(ctx, tokenHash, u.now()); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

// LoginSession creates a server-side session record and returns it together
// with the user profile; the handler sets the opaque session-id cookie.
func (u *Usecase) LoginSession(ctx context.Context, payload users.UserLoginRequest) (*session.Session, *users.UserProfile, error) {
	user, err := u.verifyCredentials(ctx, payload.Email, payload.Password)
	if err != nil {
		return nil, nil, err
	}

	sess, err := u.sessions.Create(ctx, user.ExtID, user.Role)
	if err != nil {
		return nil, nil, response.InternalServerError(err)
	}
	return sess, users.ProfileOf(user), nil
}

// LogoutSession destroys the session record. Destroying a session that no
// longer exists is not an error.
func (u *Usecase) LogoutSession(ctx context.Context, sessionID string) error {
	if err := u.sessions.Destroy(ctx, sessionID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

// SessionTTL exposes the configured inactivity window for cookie max-age.
func (u *Usecase) SessionTTL() time.Duration {
	return u.sessions.TTL()
}

// LoginCookie signs a self-contained cookie value. Nothing is stored
// server-side, so the credential cannot be revoked before the client
// discards it or the signing secret changes.
func (u *Usecase) LoginCookie(ctx context.Context, payload users.UserLoginRequest) (string, *users.UserProfile, error) {
	user, err := u.verifyCredentials(ctx, payload.Email, payload.Password)
	if err != nil {
		return "", nil, err
	}

	value, err := u.cookies.Encode(cookie.Payload{
		ID:        user.ExtID,
		Email:     user.Email,
		Role:      user.Role,
		LoginTime: u.now(),
	})
	if err != nil {
		return "", nil, response.InternalServerError(err)
	}
	return value, users.ProfileOf(user), nil
}

// GetProfile resolves the live user row for /me endpoints.
func (u *Usecase) GetProfile(ctx context.Context, extID string) (*users.UserProfile, error) {
	user, err := u.users.FindUserByExtID(ctx, extID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusNotFound, "user_not_found", nil)
	}
	return users.ProfileOf(user), nil
}
