package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidCookie covers a missing part, a bad signature and a malformed
// payload alike; callers must not reveal which check failed.
var ErrInvalidCookie = errors.New("invalid or tampered cookie")

// Payload is the identity blob stored entirely client-side inside the signed
// cookie. No server record exists for it: the server cannot invalidate an
// issued cookie except by rotating the signing secret. That limitation is
// the point of this auth variant, so do not "fix" it.
type Payload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"login_time"`
}

// Codec signs and verifies cookie values as
// base64url(json payload) + "." + base64url(hmac-sha256).
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + c.sign(encoded), nil
}

// Decode verifies the signature before the JSON payload is ever parsed.
func (c *Codec) Decode(value string) (*Payload, error) {
	encoded, sig, ok := strings.Cut(value, ".")
	if !ok || encoded == "" || sig == "" {
		return nil, ErrInvalidCookie
	}

	if !hmac.Equal([]byte(c.sign(encoded)), []byte(sig)) {
		return nil, ErrInvalidCookie
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCookie
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrInvalidCookie
	}
	return &p, nil
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
