// Package search decides which gems a browsing view shows for a set of filters.
package search

import (
	"strings"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

// All disables the emirate or budget selector.
const All = "all"

// Filters is the transient filter state of a browsing view.
type Filters struct {
	Emirate        string `json:"emirate"`
	Budget         string `json:"budget"`
	PhotogenicOnly bool   `json:"photogenicOnly"`
	Search         string `json:"search"`
}

// Normalized maps empty selectors to All.
func (f Filters) Normalized() Filters {
	if strings.TrimSpace(f.Emirate) == "" {
		f.Emirate = All
	}
	if strings.TrimSpace(f.Budget) == "" {
		f.Budget = All
	}
	return f
}

// Matches reports whether g passes every active filter.
// Checks run cheapest first: emirate, budget, photogenic, then free-text containment
// over the locale's name and area, the tags and the category.
func Matches(g gem.Gem, f Filters, l locale.Locale) bool {
	f = f.Normalized()
	if f.Emirate != All && string(g.Emirate) != f.Emirate {
		return false
	}
	if f.Budget != All && string(g.Budget) != f.Budget {
		return false
	}
	if f.PhotogenicOnly && !g.Photogenic {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}

	haystack := strings.ToLower(strings.Join([]string{
		g.Name(l),
		g.Area(l),
		strings.Join(g.Tags, " "),
		g.Category,
	}, "\n"))
	return strings.Contains(haystack, q)
}

// Filter returns the gems that match, in catalog order.
func Filter(gems []gem.Gem, f Filters, l locale.Locale) []gem.Gem {
	out := make([]gem.Gem, 0, len(gems))
	for _, g := range gems {
		if Matches(g, f, l) {
			out = append(out, g)
		}
	}
	return out
}
