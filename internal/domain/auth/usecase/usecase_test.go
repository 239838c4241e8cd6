package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danisworo/shopapi/internal/domain/auth"
	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/internal/platform/session"
	"github.com/danisworo/shopapi/pkg/cookie"
	"github.com/danisworo/shopapi/pkg/jwt"
	"github.com/danisworo/shopapi/pkg/response"
)

type fakeUserSource struct {
	byEmail map[string]*users.User
	byExtID map[string]*users.User
}

func (f *fakeUserSource) FindUserByEmail(_ context.Context, email string) (*users.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserSource) FindUserByExtID(_ context.Context, extID string) (*users.User, error) {
	return f.byExtID[extID], nil
}

type fakeAuthRepo struct {
	byHash      map[string]*auth.RefreshToken
	lookupCalls int
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{byHash: map[string]*auth.RefreshToken{}}
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *auth.RefreshToken) error {
	f.byHash[token.TokenHash] = token
	return nil
}

func (f *fakeAuthRepo) FindActiveRefreshToken(_ context.Context, tokenHash string) (*auth.RefreshToken, error) {
	f.lookupCalls++
	t := f.byHash[tokenHash]
	if t == nil || t.RevokedAt != nil {
		return nil, nil
	}
	return t, nil
}

func (f *fakeAuthRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*auth.RefreshToken, error) {
	return f.byHash[tokenHash], nil
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string, revokedAt time.Time) error {
	if t := f.byHash[tokenHash]; t != nil && t.RevokedAt == nil {
		t.RevokedAt = &revokedAt
	}
	return nil
}

type fakeSessionStore struct {
	sessions  map[string]*session.Session
	destroyed []string
	nextID    int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*session.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, userExtID, role string) (*session.Session, error) {
	f.nextID++
	sess := &session.Session{
		ID:        string(rune('a' + f.nextID)),
		UserExtID: userExtID,
		Role:      role,
		CreatedAt: time.Now(),
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeSessionStore) Destroy(_ context.Context, id string) error {
	f.destroyed = append(f.destroyed, id)
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) TTL() time.Duration { return 7 * 24 * time.Hour }

func newAuthFixture(t *testing.T) (*Usecase, *fakeUserSource, *fakeAuthRepo, *jwt.TokenService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	alice := &users.User{
		ExtID:    "user_alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: string(hash),
		Role:     "customer",
		IsActive: true,
	}
	src := &fakeUserSource{
		byEmail: map[string]*users.User{alice.Email: alice},
		byExtID: map[string]*users.User{alice.ExtID: alice},
	}
	repo := newFakeAuthRepo()
	tokens := jwt.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	uc := NewUsecase(src, repo, tokens, newFakeSessionStore(), cookie.NewCodec("cookie-secret"))
	return uc, src, repo, tokens
}

func login(t *testing.T, uc *Usecase) *auth.JWTLoginResponse {
	t.Helper()
	result, err := uc.LoginJWT(context.Background(), users.UserLoginRequest{
		Email:    "alice@example.com",
		Password: "pw12345678",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return result
}

func wantStatus(t *testing.T, err error, code int) {
	t.Helper()
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != code {
		t.Fatalf("err = %v, want %d APIError", err, code)
	}
}

func TestLoginJWTIssuesVerifiableTokensAndOneRow(t *testing.T) {
	uc, _, repo, tokens := newAuthFixture(t)

	result := login(t, uc)

	claims, err := tokens.ValidateAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserExtID != "user_alice" || claims.Role != "customer" {
		t.Errorf("access claims = %+v", claims)
	}
	if _, err := tokens.ValidateRefreshToken(result.RefreshToken); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
	if result.User.Email != "alice@example.com" {
		t.Errorf("user email = %q", result.User.Email)
	}

	if len(repo.byHash) != 1 {
		t.Fatalf("persisted %d refresh rows, want 1", len(repo.byHash))
	}
	if _, ok := repo.byHash[auth.HashToken(result.RefreshToken)]; !ok {
		t.Error("stored hash does not match issued refresh token")
	}
	if _, ok := repo.byHash[result.RefreshToken]; ok {
		t.Error("raw refresh token stored verbatim")
	}
}

func TestLoginGenericErrorHidesUserExistence(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t)

	_, unknownErr := uc.LoginJWT(context.Background(), users.UserLoginRequest{
		Email: "nobody@example.com", Password: "pw12345678",
	})
	_, wrongPwErr := uc.LoginJWT(context.Background(), users.UserLoginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	})

	wantStatus(t, unknownErr, http.StatusUnauthorized)
	wantStatus(t, wrongPwErr, http.StatusUnauthorized)
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("messages differ: %q vs %q", unknownErr, wrongPwErr)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	uc, src, _, _ := newAuthFixture(t)
	src.byEmail["alice@example.com"].IsActive = false

	_, err := uc.LoginJWT(context.Background(), users.UserLoginRequest{
		Email: "alice@example.com", Password: "pw12345678",
	})
	wantStatus(t, err, http.StatusForbidden)
}

func TestRefreshForeignSignatureSkipsDatabase(t *testing.T) {
	uc, _, repo, _ := newAuthFixture(t)

	foreign := jwt.NewTokenService("access-secret", "other-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	forged, _, err := foreign.GenerateRefreshToken("user_alice")
	if err != nil {
		t.Fatal(err)
	}

	_, refreshErr := uc.RefreshAccessToken(context.Background(), forged)
	wantStatus(t, refreshErr, http.StatusUnauthorized)
	if repo.lookupCalls != 0 {
		t.Errorf("signature failure hit the database %d times", repo.lookupCalls)
	}
}

func TestRefreshIssuesAccessOnlyWithoutRotation(t *testing.T) {
	uc, _, repo, tokens := newAuthFixture(t)
	result := login(t, uc)

	refreshed, err := uc.RefreshAccessToken(context.Background(), result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := tokens.ValidateAccessToken(refreshed.AccessToken); err != nil {
		t.Errorf("new access token invalid: %v", err)
	}
	if len(repo.byHash) != 1 {
		t.Errorf("refresh changed row count to %d", len(repo.byHash))
	}

	// Same refresh token keeps working; no rotation in this design.
	if _, err := uc.RefreshAccessToken(context.Background(), result.RefreshToken); err != nil {
		t.Errorf("second refresh with same token: %v", err)
	}
}

func TestRefreshRevokedToken(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t)
	result := login(t, uc)

	if err := uc.LogoutJWT(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err := uc.RefreshAccessToken(context.Background(), result.RefreshToken)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestRefreshExpiredButUnpurgedRow(t *testing.T) {
	uc, _, repo, _ := newAuthFixture(t)
	result := login(t, uc)

	// Simulate a row the purge has not removed yet: signed claim still
	// valid, stored expiry already in the past.
	repo.byHash[auth.HashToken(result.RefreshToken)].ExpiresAt = time.Now().Add(-time.Minute)

	_, err := uc.RefreshAccessToken(context.Background(), result.RefreshToken)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestLogoutIdempotent(t *testing.T) {
	uc, _, repo, _ := newAuthFixture(t)
	result := login(t, uc)
	tokenHash := auth.HashToken(result.RefreshToken)

	if err := uc.LogoutJWT(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	firstRevokedAt := *repo.byHash[tokenHash].RevokedAt

	if err := uc.LogoutJWT(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if !repo.byHash[tokenHash].RevokedAt.Equal(firstRevokedAt) {
		t.Error("second logout moved revoked_at")
	}
}

func TestLogoutUnknownToken(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t)

	err := uc.LogoutJWT(context.Background(), "never-issued-token")
	wantStatus(t, err, http.StatusNotFound)
}

func TestLoginSessionCreatesRecord(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t)

	sess, profile, err := uc.LoginSession(context.Background(), users.UserLoginRequest{
		Email: "alice@example.com", Password: "pw12345678",
	})
	if err != nil {
		t.Fatalf("session login: %v", err)
	}
	if sess.UserExtID != "user_alice" || sess.Role != "customer" {
		t.Errorf("session = %+v", sess)
	}
	if profile.ExtID != "user_alice" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestLoginCookieDecodable(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t)

	value, _, err := uc.LoginCookie(context.Background(), users.UserLoginRequest{
		Email: "alice@example.com", Password: "pw12345678",
	})
	if err != nil {
		t.Fatalf("cookie login: %v", err)
	}

	payload, err := cookie.NewCodec("cookie-secret").Decode(value)
	if err != nil {
		t.Fatalf("decode issued cookie: %v", err)
	}
	if payload.ID != "user_alice" || payload.Email != "alice@example.com" || payload.Role != "customer" {
		t.Errorf("payload = %+v", payload)
	}
}
