package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/shared/logging"
)

// fixtureCatalog holds d1..d6 in Dubai, s1..s4 in Sharjah (none photogenic) and
// p1..p12 photogenic gems spread round-robin over the seven emirates.
func fixtureCatalog() gem.Catalog {
	var gems []gem.Gem
	for i := 1; i <= 6; i++ {
		gems = append(gems, gem.Gem{ID: fmt.Sprintf("d%d", i), NameEN: fmt.Sprintf("Dubai gem %d", i), Emirate: gem.Dubai, Budget: gem.BudgetFree})
	}
	for i := 1; i <= 4; i++ {
		gems = append(gems, gem.Gem{ID: fmt.Sprintf("s%d", i), NameEN: fmt.Sprintf("Sharjah gem %d", i), Emirate: gem.Sharjah, Budget: gem.BudgetLow})
	}
	for i := 1; i <= 12; i++ {
		gems = append(gems, gem.Gem{
			ID:         fmt.Sprintf("p%d", i),
			NameEN:     fmt.Sprintf("Photo spot %d", i),
			Emirate:    gem.Emirates[(i-1)%len(gem.Emirates)],
			Budget:     gem.BudgetMid,
			Photogenic: true,
		})
	}
	c, _ := gem.NewCatalog(gems)
	return c
}

func ids(prefix string, n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("sub-%d", s.n)
}

// flakyPersistence wraps a memory persistence and can be told to fail writes.
type flakyPersistence struct {
	*MemoryPersistence
	failWrites bool
	writes     int
}

var errDiskFull = errors.New("quota exceeded")

func (f *flakyPersistence) Write(ctx context.Context, key string, data []byte) error {
	if f.failWrites {
		return errDiskFull
	}
	f.writes++
	return f.MemoryPersistence.Write(ctx, key, data)
}

func newTestStore(t *testing.T, p Persistence, catalog gem.Catalog) (*Store, *gem.Holder) {
	t.Helper()
	holder := gem.NewHolder(catalog)
	store, err := NewStore(p, DefaultStorageKey, holder, DefaultRules(), logging.Discard())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, holder
}

func newTestService(t *testing.T, p Persistence) (*Service, *Store) {
	t.Helper()
	store, holder := newTestStore(t, p, fixtureCatalog())
	svc, err := NewService(store, holder, fixedClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}, &sequenceIDs{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}
