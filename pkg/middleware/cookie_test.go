package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/danisworo/shopapi/internal/domain/users"
	"github.com/danisworo/shopapi/pkg/cookie"
)

const authCookieName = "user_auth"

func runCookie(t *testing.T, codec *cookie.Codec, finder UserFinder, value string) (int, Principal, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: value})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Principal
	var attached bool
	handler := CookieAuth(codec, finder, authCookieName)(func(c echo.Context) error {
		got, attached = GetPrincipal(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec.Code, got, attached
}

func TestCookieAuthMissingCookie(t *testing.T) {
	codec := cookie.NewCodec("cookie-secret")
	finder := &fakeUserFinder{users: map[string]*users.User{}}

	code, _, _ := runCookie(t, codec, finder, "")
	if code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
}

func TestCookieAuthBadSignature(t *testing.T) {
	codec := cookie.NewCodec("cookie-secret")
	other := cookie.NewCodec("other-secret")
	finder := &fakeUserFinder{users: map[string]*users.User{"user_abc": activeUser()}}

	value, err := other.Encode(cookie.Payload{ID: "user_abc", Role: "customer", LoginTime: time.Now()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	code, _, attached := runCookie(t, codec, finder, value)
	if code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
	if attached {
		t.Error("principal attached on rejected request")
	}
}

func TestCookieAuthInactiveUserIs403(t *testing.T) {
	codec := cookie.NewCodec("cookie-secret")
	u := activeUser()
	u.IsActive = false
	finder := &fakeUserFinder{users: map[string]*users.User{"user_abc": u}}

	value, err := codec.Encode(cookie.Payload{ID: "user_abc", Role: "customer", LoginTime: time.Now()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	code, _, _ := runCookie(t, codec, finder, value)
	if code != http.StatusForbidden {
		t.Errorf("code = %d, want 403", code)
	}
}

// The cookie's embedded role is informational only; the re-fetched user row
// is authoritative for the attached principal.
func TestCookieAuthLiveRowIsAuthoritative(t *testing.T) {
	codec := cookie.NewCodec("cookie-secret")
	u := activeUser() // role customer in the store
	finder := &fakeUserFinder{users: map[string]*users.User{"user_abc": u}}

	value, err := codec.Encode(cookie.Payload{ID: "user_abc", Email: "stale@example.com", Role: "admin", LoginTime: time.Now()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	code, principal, attached := runCookie(t, codec, finder, value)
	if code != http.StatusOK {
		t.Fatalf("code = %d, want 200", code)
	}
	if !attached {
		t.Fatal("principal not attached")
	}
	if principal.Role != "customer" || principal.Email != "alice@example.com" {
		t.Errorf("principal = %+v, want live row values", principal)
	}
}

func TestCookieAuthUnknownUser(t *testing.T) {
	codec := cookie.NewCodec("cookie-secret")
	finder := &fakeUserFinder{users: map[string]*users.User{}}

	value, err := codec.Encode(cookie.Payload{ID: "user_gone", Role: "customer", LoginTime: time.Now()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	code, _, _ := runCookie(t, codec, finder, value)
	if code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
}
