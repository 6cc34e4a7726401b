package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

// UnlockResult describes the outcome of an unlock.
type UnlockResult struct {
	State           State      `json:"progress"`
	AlreadyUnlocked bool       `json:"alreadyUnlocked"`
	PointsAwarded   int        `json:"pointsAwarded"`
	NewBadges       []BadgeKey `json:"newBadges"`
}

// ShareSummary is the text of the shareable progress card.
type ShareSummary struct {
	Title         string           `json:"title"`
	Headline      string           `json:"headline"`
	PointsLine    string           `json:"pointsLine"`
	UnlockedCount int              `json:"unlockedCount"`
	Points        int              `json:"points"`
	BadgeCount    int              `json:"badgeCount"`
	Locale        locale.Locale    `json:"locale"`
	Direction     locale.Direction `json:"dir"`
}

// Service orchestrates unlocks, submissions and read models over the store.
type Service struct {
	store   *Store
	catalog CatalogProvider
	clock   Clock
	ids     IDGenerator
}

// NewService constructs a Service instance with the provided collaborators.
func NewService(store *Store, catalog CatalogProvider, clock Clock, ids IDGenerator) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog provider is required")
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if ids == nil {
		return nil, errors.New("id generator is required")
	}
	return &Service{store: store, catalog: catalog, clock: clock, ids: ids}, nil
}

// Apply is the pure unlock transition. It returns the state unchanged and false when gemID
// is already unlocked; otherwise it appends the id, adds the award and re-derives badges.
func Apply(state State, gemID string, catalog gem.Catalog, rules Rules) (State, bool) {
	if state.IsUnlocked(gemID) {
		return state, false
	}
	next := state.Clone()
	next.UnlockedGemIDs = append(next.UnlockedGemIDs, gemID)
	next.TotalPoints += rules.PointsPerUnlock
	next.EarnedBadges = rules.Evaluate(next.UnlockedGemIDs, catalog)
	return next, true
}

// Unlock marks gemID as unlocked. Unlocking twice is a no-op, not an error.
// Ids that are neither unlocked nor in the catalog return gem.ErrNotFound.
func (s *Service) Unlock(ctx context.Context, gemID string) (UnlockResult, error) {
	gemID = strings.TrimSpace(gemID)
	if gemID == "" {
		return UnlockResult{}, fmt.Errorf("%w: %q", gem.ErrNotFound, gemID)
	}
	catalog := s.catalog.Current()

	rules := s.store.Rules()
	var (
		before  []BadgeKey
		already bool
	)
	// An id already in the record is a no-op even if it has since left the catalog.
	state, err := s.store.Update(ctx, func(st State) (State, bool, error) {
		before = st.EarnedBadges
		if !st.IsUnlocked(gemID) && !catalog.Has(gemID) {
			return st, false, fmt.Errorf("%w: %q", gem.ErrNotFound, gemID)
		}
		next, applied := Apply(st, gemID, catalog, rules)
		already = !applied
		return next, applied, nil
	})
	if err != nil {
		return UnlockResult{}, err
	}

	result := UnlockResult{State: state, AlreadyUnlocked: already, NewBadges: []BadgeKey{}}
	if !already {
		result.PointsAwarded = rules.PointsPerUnlock
		result.NewBadges = newlyEarned(before, state.EarnedBadges)
	}
	return result, nil
}

// Progress returns the current record.
func (s *Service) Progress(ctx context.Context) State {
	return s.store.Load(ctx)
}

// SetLocale stores the preferred locale.
func (s *Service) SetLocale(ctx context.Context, l locale.Locale) (State, error) {
	return s.store.SetPreferredLocale(ctx, l)
}

// Submit validates input and, when it passes, records it as the newest submission.
// On a *ValidationError nothing is persisted.
func (s *Service) Submit(ctx context.Context, input SubmissionInput) (Submission, error) {
	if err := input.Validate(s.store.Rules().Submission); err != nil {
		return Submission{}, err
	}
	in := input.Trimmed()
	sub := Submission{
		ID:         s.ids.NewID(),
		Name:       in.Name,
		Emirate:    gem.Emirate(in.Emirate),
		MapsLink:   in.MapsLink,
		Why:        in.Why,
		Photogenic: in.Photogenic,
		Budget:     gem.Budget(in.Budget),
		CreatedAt:  s.clock.Now().UTC(),
	}
	if _, err := s.store.AddSubmission(ctx, sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// Submissions lists stored submissions, newest first.
func (s *Service) Submissions(ctx context.Context) []Submission {
	return s.store.Load(ctx).Submissions
}

// Badges reports progress toward every badge.
func (s *Service) Badges(ctx context.Context) []BadgeProgress {
	state := s.store.Load(ctx)
	return s.store.Rules().Progress(state.UnlockedGemIDs, s.catalog.Current())
}

// Collection returns the unlocked gems still in the catalog, in unlock order.
func (s *Service) Collection(ctx context.Context) []gem.Gem {
	state := s.store.Load(ctx)
	catalog := s.catalog.Current()
	out := make([]gem.Gem, 0, len(state.UnlockedGemIDs))
	for _, id := range state.UnlockedGemIDs {
		if g, ok := catalog.Get(id); ok {
			out = append(out, g)
		}
	}
	return out
}

// Share builds the share card text in locale l.
func (s *Service) Share(ctx context.Context, l locale.Locale) ShareSummary {
	state := s.store.Load(ctx)
	unlocked := len(state.UnlockedGemIDs)

	summary := ShareSummary{
		Title:         "Hidden UAE",
		UnlockedCount: unlocked,
		Points:        state.TotalPoints,
		BadgeCount:    len(state.EarnedBadges),
		Locale:        l,
		Direction:     l.Direction(),
	}
	switch l {
	case locale.Arabic:
		summary.Title = "الإمارات الخفية"
		summary.Headline = fmt.Sprintf("اكتشفت %d من الجواهر", unlocked)
		summary.PointsLine = fmt.Sprintf("%d نقطة", state.TotalPoints)
	default:
		summary.Headline = fmt.Sprintf("I unlocked %d gems", unlocked)
		summary.PointsLine = fmt.Sprintf("%d points", state.TotalPoints)
	}
	return summary
}
