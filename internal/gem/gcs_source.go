package gem

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSSource reads the catalog object from a Cloud Storage bucket.
type GCSSource struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSSource opens a storage client using application default credentials.
func NewGCSSource(ctx context.Context, bucket, object string) (*GCSSource, error) {
	if bucket == "" || object == "" {
		return nil, fmt.Errorf("%w: gs uri needs bucket and object", ErrUnsupportedSource)
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSource{client: client, bucket: bucket, object: object}, nil
}

func (s *GCSSource) Name() string { return "gs://" + s.bucket + "/" + s.object }

func (s *GCSSource) Fetch(ctx context.Context) ([]Gem, error) {
	reader, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrFetch, s.Name())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrFetch, s.Name(), err)
	}
	defer reader.Close()
	return Decode(reader)
}

// Close closes the storage client
func (s *GCSSource) Close() error {
	return s.client.Close()
}
