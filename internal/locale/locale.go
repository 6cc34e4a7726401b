// Package locale models the two supported display languages and their text direction.
package locale

import (
	"errors"
	"strings"
)

// Locale is a supported display language tag.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// Default is used whenever a stored or requested locale is absent or unknown.
const Default = English

// Direction is the text direction a locale renders with.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// ErrInvalid indicates a value outside the supported locale set.
var ErrInvalid = errors.New("unsupported locale")

// All lists the supported locales in display order.
func All() []Locale {
	return []Locale{English, Arabic}
}

// IsValid reports whether value is exactly one of the supported locale tags.
func IsValid(value string) bool {
	switch Locale(value) {
	case English, Arabic:
		return true
	}
	return false
}

// Parse trims and lowercases value before checking it against the supported set.
func Parse(value string) (Locale, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if !IsValid(v) {
		return "", ErrInvalid
	}
	return Locale(v), nil
}

// OrDefault returns the parsed locale or Default.
func OrDefault(value string) Locale {
	l, err := Parse(value)
	if err != nil {
		return Default
	}
	return l
}

// Direction maps Arabic to right-to-left and everything else to left-to-right.
func (l Locale) Direction() Direction {
	switch l {
	case Arabic:
		return RTL
	case English:
		return LTR
	default:
		return LTR
	}
}

func (l Locale) String() string { return string(l) }
