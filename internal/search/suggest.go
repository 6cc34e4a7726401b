package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

// Suggestion is a "did you mean" hint for an empty result list.
type Suggestion struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// gemNames implements fuzzy.Source over the localized gem names.
type gemNames struct {
	gems   []gem.Gem
	locale locale.Locale
}

func (n gemNames) String(i int) string { return strings.ToLower(n.gems[i].Name(n.locale)) }

func (n gemNames) Len() int { return len(n.gems) }

// Suggest ranks gem names against query, best first. It does not take part in Matches.
func Suggest(gems []gem.Gem, query string, l locale.Locale, limit int) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(gems) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(q, gemNames{gems: gems, locale: l})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		g := gems[m.Index]
		out = append(out, Suggestion{ID: g.ID, Name: g.Name(l), Score: m.Score})
	}
	return out
}
