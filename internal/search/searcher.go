package search

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
)

const defaultCacheSize = 256

// Searcher filters the current catalog and memoizes results per filter set.
// The cache is dropped whenever the catalog is replaced.
type Searcher struct {
	catalog *gem.Holder
	cache   *lru.Cache
}

// NewSearcher wires a searcher to the catalog holder. size <= 0 uses the default.
func NewSearcher(catalog *gem.Holder, size int) (*Searcher, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}
	s := &Searcher{catalog: catalog, cache: cache}
	catalog.OnChange(func(gem.Catalog) { s.cache.Purge() })
	return s, nil
}

// Search returns the gems matching f for locale l.
func (s *Searcher) Search(f Filters, l locale.Locale) []gem.Gem {
	catalog, version := s.catalog.Snapshot()
	key := cacheKey(version, f, l)
	if v, ok := s.cache.Get(key); ok {
		return clone(v.([]gem.Gem))
	}
	result := Filter(catalog.All(), f, l)
	s.cache.Add(key, result)
	return clone(result)
}

// Suggest offers fuzzy name suggestions from the current catalog.
func (s *Searcher) Suggest(query string, l locale.Locale, limit int) []Suggestion {
	return Suggest(s.catalog.Current().All(), query, l, limit)
}

// CachedQueries reports how many filter sets are memoized.
func (s *Searcher) CachedQueries() int {
	return s.cache.Len()
}

// cacheKey is scoped to the catalog version; entries from before a reload are never served.
func cacheKey(version uint64, f Filters, l locale.Locale) string {
	f = f.Normalized()
	return strings.Join([]string{
		strconv.FormatUint(version, 10),
		string(l),
		f.Emirate,
		f.Budget,
		strconv.FormatBool(f.PhotogenicOnly),
		strings.ToLower(strings.TrimSpace(f.Search)),
	}, "|")
}

func clone(in []gem.Gem) []gem.Gem {
	out := make([]gem.Gem, len(in))
	copy(out, in)
	return out
}
