package progress

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

func TestStoreLoadDefaultsWhenAbsent(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryPersistence(), fixtureCatalog())
	got := store.Load(context.Background())
	if !reflect.DeepEqual(got, DefaultState()) {
		t.Fatalf("Load() = %+v, want defaults", got)
	}
	if got.PreferredLocale != locale.English {
		t.Fatalf("expected default locale en, got %q", got.PreferredLocale)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryPersistence(), fixtureCatalog())

	state := State{
		UnlockedGemIDs:  []string{"d1", "p2"},
		TotalPoints:     10,
		EarnedBadges:    []BadgeKey{BadgeFirstUnlock},
		PreferredLocale: locale.Arabic,
		Submissions: []Submission{{
			ID:         "sub-1",
			Name:       "Secret wadi",
			Emirate:    gem.Fujairah,
			MapsLink:   "https://maps.google.com/?q=wadi",
			Why:        "Quiet pools and no crowds",
			Photogenic: true,
			Budget:     gem.BudgetFree,
			CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := store.Load(ctx); !reflect.DeepEqual(got, state) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, state)
	}
}

func TestStoreRecoversFromCorruptBlob(t *testing.T) {
	cases := map[string]string{
		"not json":            "{{{",
		"array":               `["d1"]`,
		"null":                "null",
		"ids of wrong type":   `{"unlockedGemIds":"abc"}`,
		"everything mistyped": `{"unlockedGemIds":7,"totalPoints":"ten","preferredLocale":42,"submissions":{}}`,
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			p := NewMemoryPersistence()
			_ = p.Write(context.Background(), DefaultStorageKey, []byte(blob))
			store, _ := newTestStore(t, p, fixtureCatalog())

			if got := store.Load(context.Background()); !reflect.DeepEqual(got, DefaultState()) {
				t.Fatalf("Load() = %+v, want defaults", got)
			}
		})
	}
}

func TestStoreNormalizesFieldsIndependently(t *testing.T) {
	blob := `{
		"unlockedGemIds": ["d1", 3, "", "d1", " s1 "],
		"totalPoints": -4,
		"earnedBadges": ["adventurer", "photographer"],
		"preferredLocale": "fr",
		"submissions": [
			{"id": "old", "name": "Hatta pools", "emirate": "Dubai", "googleMapsUrl": "https://maps.app.goo.gl/x", "why": "Kayaking in the dam", "budget": "low", "createdAt": 1700000000000},
			{"id": "", "name": "no id"},
			"junk",
			{"id": "new", "name": "Mleiha", "emirate": "Sharjah", "mapsLink": "https://maps.app.goo.gl/y", "why": "Fossil rock at sunset", "budget": "free", "createdAt": "2026-02-01T10:00:00Z"}
		]
	}`
	p := NewMemoryPersistence()
	_ = p.Write(context.Background(), DefaultStorageKey, []byte(blob))
	store, _ := newTestStore(t, p, fixtureCatalog())

	got := store.Load(context.Background())
	if !reflect.DeepEqual(got.UnlockedGemIDs, []string{"d1", "s1"}) {
		t.Fatalf("unexpected ids: %v", got.UnlockedGemIDs)
	}
	if got.TotalPoints != 0 {
		t.Fatalf("negative points should reset to 0, got %d", got.TotalPoints)
	}
	if got.PreferredLocale != locale.English {
		t.Fatalf("unknown locale should fall back, got %q", got.PreferredLocale)
	}
	if !reflect.DeepEqual(got.EarnedBadges, []BadgeKey{BadgeFirstUnlock}) {
		t.Fatalf("badges must be recomputed, got %v", got.EarnedBadges)
	}
	if len(got.Submissions) != 2 {
		t.Fatalf("expected 2 surviving submissions, got %d", len(got.Submissions))
	}
	legacy := got.Submissions[0]
	if legacy.MapsLink != "https://maps.app.goo.gl/x" {
		t.Fatalf("googleMapsUrl not carried over: %+v", legacy)
	}
	if !legacy.CreatedAt.Equal(time.UnixMilli(1700000000000)) {
		t.Fatalf("epoch millis not decoded: %v", legacy.CreatedAt)
	}
	if want := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC); !got.Submissions[1].CreatedAt.Equal(want) {
		t.Fatalf("RFC3339 createdAt not decoded: %v", got.Submissions[1].CreatedAt)
	}
}

func TestStoreTruncatesFractionalPoints(t *testing.T) {
	p := NewMemoryPersistence()
	_ = p.Write(context.Background(), DefaultStorageKey, []byte(`{"totalPoints": 12.9}`))
	store, _ := newTestStore(t, p, fixtureCatalog())
	if got := store.Load(context.Background()).TotalPoints; got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestStoreKeepsLargePointTotals(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersistence()
	_ = p.Write(ctx, DefaultStorageKey, []byte(`{"totalPoints": 3000000000}`))
	store, _ := newTestStore(t, p, fixtureCatalog())
	if got := store.Load(ctx).TotalPoints; got != 3000000000 {
		t.Fatalf("expected 3000000000, got %d", got)
	}

	_ = p.Write(ctx, DefaultStorageKey, []byte(`{"totalPoints": 1e300}`))
	if got := store.Load(ctx).TotalPoints; got != maxStoredPoints {
		t.Fatalf("expected clamp to %d, got %d", maxStoredPoints, got)
	}

	if err := store.Save(ctx, State{TotalPoints: 3000000005}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := store.Load(ctx).TotalPoints; got != 3000000005 {
		t.Fatalf("round trip lost points: %d", got)
	}
}

func TestStoreSaveDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersistence()
	store, _ := newTestStore(t, p, fixtureCatalog())

	if err := store.Save(ctx, State{UnlockedGemIDs: []string{"d1", "s1", "d1", "s1", "p2"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := []string{"d1", "s1", "p2"}
	if got := store.Load(ctx).UnlockedGemIDs; !reflect.DeepEqual(got, want) {
		t.Fatalf("loaded ids = %v, want %v", got, want)
	}

	raw, err := p.Read(ctx, DefaultStorageKey)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var stored struct {
		UnlockedGemIDs []string `json:"unlockedGemIds"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(stored.UnlockedGemIDs, want) {
		t.Fatalf("persisted ids = %v, want %v", stored.UnlockedGemIDs, want)
	}

	saved, err := store.Update(ctx, func(st State) (State, bool, error) {
		st.UnlockedGemIDs = append(st.UnlockedGemIDs, "p2")
		return st, true, nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !reflect.DeepEqual(saved.UnlockedGemIDs, want) {
		t.Fatalf("returned ids = %v, want %v", saved.UnlockedGemIDs, want)
	}
}

func TestStoreRecomputesBadgesAgainstCurrentCatalog(t *testing.T) {
	ctx := context.Background()
	store, holder := newTestStore(t, NewMemoryPersistence(), fixtureCatalog())

	if err := store.Save(ctx, State{UnlockedGemIDs: ids("d", 5)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := store.Load(ctx).EarnedBadges; !contains(got, BadgeEmirateSpecialist) {
		t.Fatalf("expected emirate_specialist, got %v", got)
	}

	// d5 disappears from the catalog: it still counts as an unlock but not for Dubai.
	var kept []gem.Gem
	for _, g := range fixtureCatalog().All() {
		if g.ID != "d5" {
			kept = append(kept, g)
		}
	}
	next, _ := gem.NewCatalog(kept)
	holder.Replace(next)

	got := store.Load(ctx)
	if contains(got.EarnedBadges, BadgeEmirateSpecialist) {
		t.Fatalf("stale gem should not count toward the emirate tally: %v", got.EarnedBadges)
	}
	if !contains(got.EarnedBadges, BadgeExplorer) {
		t.Fatalf("stale gem should still count as an unlock: %v", got.EarnedBadges)
	}
}

func TestStoreWriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	p := &flakyPersistence{MemoryPersistence: NewMemoryPersistence()}
	store, _ := newTestStore(t, p, fixtureCatalog())

	if err := store.Save(ctx, State{UnlockedGemIDs: []string{"d1"}, TotalPoints: 5}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before := store.Load(ctx)

	p.failWrites = true
	_, err := store.Update(ctx, func(st State) (State, bool, error) {
		st.UnlockedGemIDs = append(st.UnlockedGemIDs, "d2")
		st.TotalPoints += 5
		return st, true, nil
	})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected write error, got %v", err)
	}

	p.failWrites = false
	if got := store.Load(ctx); !reflect.DeepEqual(got, before) {
		t.Fatalf("state changed after failed write:\n got %+v\nwant %+v", got, before)
	}
}

func TestStoreUpdateSkipsWriteWhenUnchanged(t *testing.T) {
	p := &flakyPersistence{MemoryPersistence: NewMemoryPersistence()}
	store, _ := newTestStore(t, p, fixtureCatalog())

	if _, err := store.SetPreferredLocale(context.Background(), locale.English); err != nil {
		t.Fatalf("SetPreferredLocale: %v", err)
	}
	if p.writes != 0 {
		t.Fatalf("expected no writes, got %d", p.writes)
	}
}

func TestStoreSetPreferredLocale(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryPersistence(), fixtureCatalog())

	if _, err := store.SetPreferredLocale(ctx, locale.Locale("de")); !errors.Is(err, locale.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	got, err := store.SetPreferredLocale(ctx, locale.Arabic)
	if err != nil {
		t.Fatalf("SetPreferredLocale: %v", err)
	}
	if got.PreferredLocale != locale.Arabic || store.Load(ctx).PreferredLocale != locale.Arabic {
		t.Fatalf("locale not persisted")
	}
}

func TestFilePersistence(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")
	p := NewFilePersistence(dir)

	if _, err := p.Read(ctx, DefaultStorageKey); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
	if err := p.Write(ctx, DefaultStorageKey, []byte(`{"totalPoints":5}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := p.Read(ctx, DefaultStorageKey)
	if err != nil || string(data) != `{"totalPoints":5}` {
		t.Fatalf("Read = %q, %v", data, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "hidden-uae_v1.json" {
		t.Fatalf("unexpected files: %v", entries)
	}
}

func TestStoreWithFilePersistenceSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, _ := newTestStore(t, NewFilePersistence(dir), fixtureCatalog())
	if err := first.Save(ctx, State{UnlockedGemIDs: []string{"p1"}, TotalPoints: 5, PreferredLocale: locale.Arabic}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second, _ := newTestStore(t, NewFilePersistence(dir), fixtureCatalog())
	got := second.Load(ctx)
	if got.TotalPoints != 5 || got.PreferredLocale != locale.Arabic || !got.IsUnlocked("p1") {
		t.Fatalf("unexpected state after restart: %+v", got)
	}
}
