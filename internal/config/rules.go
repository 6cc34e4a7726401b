package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hiddenuae/gems-service/internal/progress"
)

// LoadRules reads the game rules from a TOML file. Keys absent from the file keep their
// canonical defaults; an empty path returns the defaults unchanged.
func LoadRules(path string) (progress.Rules, error) {
	rules := progress.DefaultRules()
	if strings.TrimSpace(path) == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return progress.Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes TOML rules over the defaults and validates the result.
func ParseRules(data []byte) (progress.Rules, error) {
	rules := progress.DefaultRules()
	if err := toml.Unmarshal(data, &rules); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return progress.Rules{}, fmt.Errorf("parse rules (line %d, column %d): %w", row, col, err)
		}
		return progress.Rules{}, fmt.Errorf("parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return progress.Rules{}, err
	}
	return rules, nil
}
