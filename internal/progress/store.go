package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

// CatalogProvider exposes the catalog badges are derived from.
type CatalogProvider interface {
	Current() gem.Catalog
}

// Store owns the single persisted progress record. Every read-modify-write runs under one
// mutex so concurrent requests observe each mutation as a whole.
type Store struct {
	mu          sync.Mutex
	persistence Persistence
	key         string
	catalog     CatalogProvider
	rules       Rules
	logger      *slog.Logger
}

// NewStore constructs a Store instance with the provided collaborators.
func NewStore(p Persistence, key string, catalog CatalogProvider, rules Rules, logger *slog.Logger) (*Store, error) {
	if p == nil {
		return nil, errors.New("persistence is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog provider is required")
	}
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Store{persistence: p, key: key, catalog: catalog, rules: rules, logger: logger}, nil
}

// Rules returns the constants the store derives badges with.
func (s *Store) Rules() Rules { return s.rules }

// Load returns the stored record, or defaults when it is absent or unreadable. It never fails.
func (s *Store) Load(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save overwrites the stored record wholesale. Write failures are returned to the caller.
func (s *Store) Save(ctx context.Context, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.save(ctx, state)
	return err
}

// SetPreferredLocale records the user's language choice.
func (s *Store) SetPreferredLocale(ctx context.Context, l locale.Locale) (State, error) {
	if !locale.IsValid(string(l)) {
		return State{}, locale.ErrInvalid
	}
	return s.Update(ctx, func(st State) (State, bool, error) {
		if st.PreferredLocale == l {
			return st, false, nil
		}
		st.PreferredLocale = l
		return st, true, nil
	})
}

// AddSubmission prepends item so the newest submission comes first.
func (s *Store) AddSubmission(ctx context.Context, item Submission) (State, error) {
	return s.Update(ctx, func(st State) (State, bool, error) {
		st.Submissions = append([]Submission{item}, st.Submissions...)
		return st, true, nil
	})
}

// Update loads the record, applies fn and persists the result when fn reports a change.
// If fn fails or the write fails, the stored record is left as it was.
func (s *Store) Update(ctx context.Context, fn func(State) (State, bool, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load(ctx)
	next, changed, err := fn(current.Clone())
	if err != nil {
		return current, err
	}
	if !changed {
		return current, nil
	}
	saved, err := s.save(ctx, next)
	if err != nil {
		return current, err
	}
	return saved, nil
}

func (s *Store) load(ctx context.Context) State {
	raw, err := s.persistence.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			s.logger.Warn("progress read failed, using defaults", slog.Any("error", err))
		}
		return s.derive(DefaultState())
	}

	state, err := decodeState(raw)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) {
			s.logger.Warn("stored progress unreadable, using defaults", slog.Any("error", err))
		}
		return s.derive(DefaultState())
	}
	return s.derive(state)
}

func (s *Store) save(ctx context.Context, state State) (State, error) {
	state = s.derive(state.Clone())
	data, err := encodeState(state)
	if err != nil {
		return State{}, err
	}
	if err := s.persistence.Write(ctx, s.key, data); err != nil {
		s.logger.Error("progress write failed", slog.Any("error", err))
		return State{}, fmt.Errorf("save progress: %w", err)
	}
	return state, nil
}

// derive drops duplicate unlock ids and refreshes the badge cache from the current catalog.
func (s *Store) derive(state State) State {
	state.UnlockedGemIDs = uniqueIDs(state.UnlockedGemIDs)
	if state.Submissions == nil {
		state.Submissions = []Submission{}
	}
	if !locale.IsValid(string(state.PreferredLocale)) {
		state.PreferredLocale = locale.Default
	}
	state.EarnedBadges = s.rules.Evaluate(state.UnlockedGemIDs, s.catalog.Current())
	return state
}

// uniqueIDs keeps the first occurrence of each id, in order. It never returns nil.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
