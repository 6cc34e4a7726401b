package progress

import (
	"errors"
	"time"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

// DefaultStorageKey is the single key the progress record is stored under.
const DefaultStorageKey = "hidden-uae:v1"

// BadgeKey identifies a badge.
type BadgeKey string

const (
	BadgeFirstUnlock       BadgeKey = "first_unlock"
	BadgeExplorer          BadgeKey = "explorer"
	BadgeAdventurer        BadgeKey = "adventurer"
	BadgePhotographer      BadgeKey = "photographer"
	BadgeEmirateSpecialist BadgeKey = "emirate_specialist"
)

// Badge is a static catalog entry; it is never user data.
type Badge struct {
	Key      BadgeKey `json:"key"`
	TitleKey string   `json:"titleKey"`
	DescKey  string   `json:"descKey"`
	Icon     string   `json:"icon"`
	Goal     int      `json:"goal"`
}

// BadgeProgress reports how far the user is from a badge.
type BadgeProgress struct {
	Badge
	Current int  `json:"current"`
	Earned  bool `json:"earned"`
}

// Submission is a user-proposed gem kept alongside the progress record.
type Submission struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Emirate    gem.Emirate `json:"emirate"`
	MapsLink   string      `json:"mapsLink"`
	Why        string      `json:"why"`
	Photogenic bool        `json:"photogenic"`
	Budget     gem.Budget  `json:"budget"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// State is the persisted progress record.
// EarnedBadges is a cache of Evaluate(UnlockedGemIDs, catalog) and is recomputed on every load and save.
type State struct {
	UnlockedGemIDs  []string      `json:"unlockedGemIds"`
	TotalPoints     int           `json:"totalPoints"`
	EarnedBadges    []BadgeKey    `json:"earnedBadges"`
	PreferredLocale locale.Locale `json:"preferredLocale"`
	Submissions     []Submission  `json:"submissions"`
}

// DefaultState is the record used on first access and whenever the stored one is unreadable.
func DefaultState() State {
	return State{
		UnlockedGemIDs:  []string{},
		TotalPoints:     0,
		EarnedBadges:    []BadgeKey{},
		PreferredLocale: locale.Default,
		Submissions:     []Submission{},
	}
}

// IsUnlocked reports whether gemID is in the unlocked set.
func (s State) IsUnlocked(gemID string) bool {
	for _, id := range s.UnlockedGemIDs {
		if id == gemID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (s State) Clone() State {
	out := s
	out.UnlockedGemIDs = append([]string{}, s.UnlockedGemIDs...)
	out.EarnedBadges = append([]BadgeKey{}, s.EarnedBadges...)
	out.Submissions = append([]Submission{}, s.Submissions...)
	return out
}

var (
	// ErrStateNotFound is returned by a Persistence when nothing is stored under the key yet.
	ErrStateNotFound = errors.New("progress state not found")
	// ErrCorruptState indicates the stored record could not be parsed; it is recovered to defaults.
	ErrCorruptState = errors.New("progress state is corrupt")
	// ErrInvalidSubmission indicates a submission failed validation.
	ErrInvalidSubmission = errors.New("invalid submission")
)
