package progress

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Rules holds the tunable gamification constants.
type Rules struct {
	PointsPerUnlock int              `toml:"points_per_unlock" json:"pointsPerUnlock" validate:"gte=1"`
	Badges          BadgeThresholds  `toml:"badges" json:"badges"`
	Submission      SubmissionLimits `toml:"submission" json:"submission"`
}

// BadgeThresholds are the "greater or equal" goals of each badge.
type BadgeThresholds struct {
	FirstUnlock       int `toml:"first_unlock" json:"firstUnlock" validate:"gte=1"`
	Explorer          int `toml:"explorer" json:"explorer" validate:"gte=1"`
	Adventurer        int `toml:"adventurer" json:"adventurer" validate:"gte=1"`
	Photographer      int `toml:"photographer" json:"photographer" validate:"gte=1"`
	EmirateSpecialist int `toml:"emirate_specialist" json:"emirateSpecialist" validate:"gte=1"`
}

// SubmissionLimits are minimum trimmed lengths, counted in characters.
type SubmissionLimits struct {
	MinNameLength int `toml:"min_name_length" json:"minNameLength" validate:"gte=1"`
	MinWhyLength  int `toml:"min_why_length" json:"minWhyLength" validate:"gte=1"`
}

// DefaultRules returns the canonical constants: 5 points per unlock, badge goals 1/5/15/10/5,
// names of at least 2 characters and a justification of at least 10.
func DefaultRules() Rules {
	return Rules{
		PointsPerUnlock: 5,
		Badges: BadgeThresholds{
			FirstUnlock:       1,
			Explorer:          5,
			Adventurer:        15,
			Photographer:      10,
			EmirateSpecialist: 5,
		},
		Submission: SubmissionLimits{
			MinNameLength: 2,
			MinWhyLength:  10,
		},
	}
}

var rulesValidator = validator.New()

// Validate checks every constant is positive.
func (r Rules) Validate() error {
	if err := rulesValidator.Struct(r); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	return nil
}
