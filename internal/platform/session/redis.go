package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when no record exists for a session id,
// whether it never existed, was destroyed, or expired out of the store.
var ErrSessionNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Session is a server-side session record keyed by an opaque id. The client
// only ever sees the id; role and user id live here and are refreshed from
// the user row by the session middleware on every request.
type Session struct {
	ID        string    `json:"id"`
	UserExtID string    `json:"user_ext_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions in Redis with a sliding inactivity TTL. Redis
// expiry plays the part of a TTL index: an untouched session is purged by
// the store itself once the inactivity window passes.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// TTL returns the configured inactivity window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session under a fresh opaque id.
func (s *Store) Create(ctx context.Context, userExtID, role string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserExtID: userExtID,
		Role:      role,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return sess, nil
}

// Get fetches a session by id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return &sess, nil
}

// Touch resets the inactivity TTL to its full window. Concurrent touches
// race last-write-wins, which is fine: the operation only extends expiry.
func (s *Store) Touch(ctx context.Context, id string) error {
	ok, err := s.client.Expire(ctx, keyPrefix+id, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Destroy removes a session. Destroying a missing session is a no-op.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}
