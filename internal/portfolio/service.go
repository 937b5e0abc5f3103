package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/immo-invest/pkg/property"
	"go.uber.org/zap"
)

// Service manages portfolio entries on top of a Store. Outputs are
// recalculated whenever an entry is created or updated.
type Service struct {
	logger     *zap.Logger
	store      Store
	calculator *property.Calculator
	now        func() time.Time

	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

// NewService creates a service backed by store.
func NewService(logger *zap.Logger, store Store) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:     logger,
		store:      store,
		calculator: property.NewCalculator(logger),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns all entries of a user.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.store.Load(ctx, userID)
}

// Get returns a single entry.
func (s *Service) Get(ctx context.Context, userID, id string) (Entry, error) {
	entries, err := s.store.Load(ctx, userID)
	if err != nil {
		return Entry{}, err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entries[i], nil
}

// Create calculates in and appends it as a new entry. An empty name is
// replaced by a numbered default.
func (s *Service) Create(ctx context.Context, userID, name string, in property.Input) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load(ctx, userID)
	if err != nil {
		return Entry{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Deal %d", len(entries)+1)
	}
	now := s.now()
	entry := Entry{
		ID:        uuid.NewString(),
		Name:      name,
		Input:     in,
		Output:    s.calculator.Calculate(in),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, userID, append(entries, entry)); err != nil {
		return Entry{}, err
	}
	s.logger.Debug(fmt.Sprintf("created portfolio entry %s", entry.ID),
		zap.String("op", "portfolio.Create"),
		zap.String("user", userID),
	)
	return entry, nil
}

// Update replaces the name and input of an entry and recalculates it. An
// empty name keeps the current one.
func (s *Service) Update(ctx context.Context, userID, id, name string, in property.Input) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load(ctx, userID)
	if err != nil {
		return Entry{}, err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if name = strings.TrimSpace(name); name != "" {
		entries[i].Name = name
	}
	entries[i].Input = in
	entries[i].Output = s.calculator.Calculate(in)
	entries[i].UpdatedAt = s.now()

	if err := s.store.Save(ctx, userID, entries); err != nil {
		return Entry{}, err
	}
	return entries[i], nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Load(ctx, userID)
	if err != nil {
		return err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	entries = append(entries[:i], entries[i+1:]...)
	if err := s.store.Save(ctx, userID, entries); err != nil {
		return err
	}
	s.logger.Debug(fmt.Sprintf("deleted portfolio entry %s", id),
		zap.String("op", "portfolio.Delete"),
		zap.String("user", userID),
	)
	return nil
}

func indexOf(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
