// Package auth registers users, verifies their passwords and tracks login
// sessions.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = fmt.Errorf("password must have at least %d characters", MinPasswordLength)
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore keeps all users in a single JSON file.
type UserStore struct {
	path string
	cost int
	mu   sync.Mutex
}

// NewUserStore creates a store backed by the file at path. The file is
// created on the first registration.
func NewUserStore(path string) (*UserStore, error) {
	if path == "" {
		return nil, fmt.Errorf("user file cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create user directory: %w", err)
	}
	return &UserStore{path: path, cost: bcrypt.DefaultCost}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt hash of password.
func (s *UserStore) Register(ctx context.Context, email, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	email = normalizeEmail(email)
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return User{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return User{}, ErrPasswordTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return User{}, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.save(append(users, user)); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate returns the user when password matches. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	email = normalizeEmail(email)

	s.mu.Lock()
	users, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	return User{}, ErrInvalidCredentials
}

// Get returns the user with the given id.
func (s *UserStore) Get(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	users, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *UserStore) load() ([]User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	return users, nil
}

func (s *UserStore) save(users []User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write users: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace users: %w", err)
	}
	return nil
}
