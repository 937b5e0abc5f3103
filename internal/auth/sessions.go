package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown or expired session tokens.
var ErrSessionNotFound = errors.New("session not found")

// Session binds a random token to a user until ExpiresAt.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// SessionStore creates, resolves and ends sessions.
type SessionStore interface {
	Create(ctx context.Context, userID string) (Session, error)
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]memorySession
}

// NewMemorySessionStore creates a store whose sessions live for ttl.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

func (s *MemorySessionStore) Create(ctx context.Context, userID string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	session := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = memorySession{userID: userID, expiresAt: session.ExpiresAt}
	return session, nil
}

// Lookup returns the user of a session. Expired sessions are removed.
func (s *MemorySessionStore) Lookup(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	if !s.now().Before(session.expiresAt) {
		delete(s.sessions, token)
		return "", ErrSessionNotFound
	}
	return session.userID, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

const redisKeyPrefix = "immo:session:"

// RedisSessionStore keeps sessions in Redis with a key expiry.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a store on client whose sessions live for ttl.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// NewRedisClient connects to addr and checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (Session, error) {
	session := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.client.Set(ctx, redisKeyPrefix+session.Token, userID, s.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, redisKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	return userID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
