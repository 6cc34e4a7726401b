package progress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Persistence stores one opaque blob per key.
// Read returns ErrStateNotFound when nothing has been written yet.
type Persistence interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// FilePersistence keeps each key as a JSON file inside dir.
type FilePersistence struct{ dir string }

// NewFilePersistence returns a file-backed persistence rooted at dir.
func NewFilePersistence(dir string) *FilePersistence { return &FilePersistence{dir: dir} }

func (p *FilePersistence) pathFor(key string) string {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(strings.TrimSpace(key))
	return filepath.Join(p.dir, name+".json")
}

func (p *FilePersistence) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(p.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return data, nil
}

// Write replaces the file atomically through a temp file and rename.
func (p *FilePersistence) Write(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(p.dir, ".progress-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close progress: %w", err)
	}
	if err := os.Rename(tmpName, p.pathFor(key)); err != nil {
		return fmt.Errorf("replace progress: %w", err)
	}
	return nil
}

// MemoryPersistence is an in-memory Persistence intended for local development and tests.
type MemoryPersistence struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryPersistence returns an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{data: make(map[string][]byte)}
}

func (p *MemoryPersistence) Read(_ context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.data[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	return append([]byte(nil), data...), nil
}

func (p *MemoryPersistence) Write(_ context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = append([]byte(nil), data...)
	return nil
}
