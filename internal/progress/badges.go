package progress

import (
	"github.com/hiddenuae/gems-service/internal/gem"
)

// BadgeDefinitions lists the badge catalog, in display order, with goals taken from the rules.
func (r Rules) BadgeDefinitions() []Badge {
	return []Badge{
		{Key: BadgeFirstUnlock, TitleKey: "badges.first_unlock.title", DescKey: "badges.first_unlock.desc", Icon: "✨", Goal: r.Badges.FirstUnlock},
		{Key: BadgeExplorer, TitleKey: "badges.explorer.title", DescKey: "badges.explorer.desc", Icon: "🧭", Goal: r.Badges.Explorer},
		{Key: BadgeAdventurer, TitleKey: "badges.adventurer.title", DescKey: "badges.adventurer.desc", Icon: "🏔️", Goal: r.Badges.Adventurer},
		{Key: BadgePhotographer, TitleKey: "badges.photographer.title", DescKey: "badges.photographer.desc", Icon: "📸", Goal: r.Badges.Photographer},
		{Key: BadgeEmirateSpecialist, TitleKey: "badges.emirate_specialist.title", DescKey: "badges.emirate_specialist.desc", Icon: "🏙️", Goal: r.Badges.EmirateSpecialist},
	}
}

// tally holds the counters badge rules are evaluated against.
type tally struct {
	unlocked    int
	photogenic  int
	bestEmirate int
	perEmirate  map[gem.Emirate]int
}

// count walks the unlocked ids. Every id counts toward the raw unlock total;
// only ids still present in the catalog feed the photogenic and per-emirate tallies.
func count(unlockedIDs []string, catalog gem.Catalog) tally {
	t := tally{perEmirate: make(map[gem.Emirate]int)}
	seen := make(map[string]struct{}, len(unlockedIDs))
	for _, id := range unlockedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		t.unlocked++

		g, ok := catalog.Get(id)
		if !ok {
			continue
		}
		if g.Photogenic {
			t.photogenic++
		}
		t.perEmirate[g.Emirate]++
		if n := t.perEmirate[g.Emirate]; n > t.bestEmirate {
			t.bestEmirate = n
		}
	}
	return t
}

func (t tally) current(key BadgeKey) int {
	switch key {
	case BadgeFirstUnlock, BadgeExplorer, BadgeAdventurer:
		return t.unlocked
	case BadgePhotographer:
		return t.photogenic
	case BadgeEmirateSpecialist:
		return t.bestEmirate
	default:
		return 0
	}
}

// Evaluate returns the earned badge keys for the unlocked ids, in definition order.
func (r Rules) Evaluate(unlockedIDs []string, catalog gem.Catalog) []BadgeKey {
	t := count(unlockedIDs, catalog)
	earned := []BadgeKey{}
	for _, b := range r.BadgeDefinitions() {
		if t.current(b.Key) >= b.Goal {
			earned = append(earned, b.Key)
		}
	}
	return earned
}

// Progress reports every badge with its current tally.
func (r Rules) Progress(unlockedIDs []string, catalog gem.Catalog) []BadgeProgress {
	t := count(unlockedIDs, catalog)
	defs := r.BadgeDefinitions()
	out := make([]BadgeProgress, 0, len(defs))
	for _, b := range defs {
		cur := t.current(b.Key)
		out = append(out, BadgeProgress{Badge: b, Current: cur, Earned: cur >= b.Goal})
	}
	return out
}

// Evaluate applies the default rules.
func Evaluate(unlockedIDs []string, catalog gem.Catalog) []BadgeKey {
	return DefaultRules().Evaluate(unlockedIDs, catalog)
}

// newlyEarned returns the keys in after that are missing from before.
func newlyEarned(before, after []BadgeKey) []BadgeKey {
	had := make(map[BadgeKey]struct{}, len(before))
	for _, k := range before {
		had[k] = struct{}{}
	}
	out := []BadgeKey{}
	for _, k := range after {
		if _, ok := had[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
