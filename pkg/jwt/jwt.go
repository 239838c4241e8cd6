package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Verification outcomes. ErrTokenExpired is kept distinct from
// ErrTokenInvalid so the middleware can answer 403 for an expired access
// token and 401 for everything else, letting clients decide between
// "refresh" and "re-login".
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// AccessClaims is carried by short-lived access tokens. The role is embedded
// at issuance time and is never re-checked against the live user record
// before natural expiry; a role downgrade takes up to the access TTL to take
// effect. Documented behavior, not a bug.
type AccessClaims struct {
	UserExtID string `json:"user_ext_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is carried by long-lived refresh tokens. Deliberately
// minimal: the role is re-read from the user row when a new access token is
// issued.
type RefreshClaims struct {
	UserExtID string `json:"user_ext_id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the two token kinds with distinct secrets.
type TokenService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests use this to cross the expiry
// boundary without sleeping.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// GenerateAccessToken issues a short-lived access token carrying the user id
// and role, signed with the access secret.
func (s *TokenService) GenerateAccessToken(userExtID, role string) (string, time.Time, error) {
	if userExtID == "" {
		return "", time.Time{}, errors.New("user_ext_id cannot be empty")
	}
	if len(s.accessKey) == 0 {
		return "", time.Time{}, errors.New("access secret cannot be empty")
	}

	expiresAt := s.now().Add(s.accessTTL)
	claims := AccessClaims{
		UserExtID: userExtID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// GenerateRefreshToken issues a long-lived refresh token carrying only the
// user id, signed with the refresh secret.
func (s *TokenService) GenerateRefreshToken(userExtID string) (string, time.Time, error) {
	if userExtID == "" {
		return "", time.Time{}, errors.New("user_ext_id cannot be empty")
	}
	if len(s.refreshKey) == 0 {
		return "", time.Time{}, errors.New("refresh secret cannot be empty")
	}

	expiresAt := s.now().Add(s.refreshTTL)
	claims := RefreshClaims{
		UserExtID: userExtID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken verifies signature and expiry with the access secret.
// Accepts a raw token or a full "Bearer <token>" header value.
func (s *TokenService) ValidateAccessToken(tokenStr string) (*AccessClaims, error) {
	if len(tokenStr) > 7 && tokenStr[:7] == "Bearer " {
		tokenStr = tokenStr[7:]
	}

	claims := &AccessClaims{}
	if err := s.parse(tokenStr, claims, s.accessKey); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken verifies signature and expiry with the refresh
// secret. A failure here is terminal for the refresh flow and must not touch
// the database.
func (s *TokenService) ValidateRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenStr, claims, s.refreshKey); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) parse(tokenStr string, claims jwt.Claims, key []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("invalid signing method")
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
