package gem

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Source fetches the raw gem records from one location.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Gem, error)
}

// SourceOptions carries the settings needed to build cloud-backed sources.
type SourceOptions struct {
	HTTPTimeout  time.Duration
	GCPProjectID string
	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	// Logger receives per-record warnings from sources that skip bad data. Nil means slog.Default.
	Logger *slog.Logger
}

// OpenSource builds a Source from a URI. The returned cleanup releases any client it opened.
//
//	/data/gems.json, file:///data/gems.json
//	https://example.com/data/gems.json
//	gs://bucket/path/gems.json
//	s3://bucket/path/gems.json
//	firestore://gems
func OpenSource(ctx context.Context, uri string, opts SourceOptions) (Source, func(), error) {
	noop := func() {}
	raw := strings.TrimSpace(uri)
	if raw == "" {
		return nil, noop, fmt.Errorf("%w: empty uri", ErrUnsupportedSource)
	}
	if !strings.Contains(raw, "://") {
		return NewFileSource(raw), noop, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	objectPath := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "file":
		return NewFileSource(u.Path), noop, nil
	case "http", "https":
		return NewHTTPSource(raw, &http.Client{Timeout: opts.HTTPTimeout}), noop, nil
	case "gs":
		src, err := NewGCSSource(ctx, u.Host, objectPath)
		if err != nil {
			return nil, noop, err
		}
		return src, func() { _ = src.Close() }, nil
	case "s3":
		src, err := NewS3Source(ctx, u.Host, objectPath, opts)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	case "firestore":
		collection := u.Host
		if collection == "" {
			collection = objectPath
		}
		src, err := NewFirestoreSource(ctx, opts.GCPProjectID, collection, opts.Logger)
		if err != nil {
			return nil, noop, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
	}
}

// FileSource reads the catalog from a JSON file on disk.
type FileSource struct {
	path string
}

// NewFileSource returns a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Fetch(_ context.Context) ([]Gem, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrFetch, s.path, err)
	}
	defer f.Close()
	return Decode(f)
}

// StaticSource serves a fixed list; used for tests and local fixtures.
type StaticSource struct {
	name string
	gems []Gem
}

// NewStaticSource returns a source that always yields gems.
func NewStaticSource(name string, gems []Gem) *StaticSource {
	return &StaticSource{name: name, gems: gems}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Fetch(_ context.Context) ([]Gem, error) {
	out := make([]Gem, len(s.gems))
	copy(out, s.gems)
	return out, nil
}
