// Package portfolio persists the saved deals of a user.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/immo-invest/pkg/property"
)

var (
	// ErrNotFound is returned for unknown entry ids.
	ErrNotFound = errors.New("portfolio entry not found")

	// ErrInvalidUser is returned for user ids that are not UUIDs.
	ErrInvalidUser = errors.New("invalid user id")
)

// Entry is one saved deal together with its calculated figures.
type Entry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     property.Input  `json:"input"`
	Output    property.Output `json:"output"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store loads and saves the complete, ordered list of a user's entries.
type Store interface {
	Load(ctx context.Context, userID string) ([]Entry, error)
	Save(ctx context.Context, userID string, entries []Entry) error
}

// normalizeUserID returns the canonical form of a UUID user id.
func normalizeUserID(userID string) (string, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidUser, userID)
	}
	return id.String(), nil
}
