package gem

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreSource reads every document of a collection as a gem.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
	logger     *slog.Logger
}

// NewFirestoreSource opens a Firestore client for projectID. FIRESTORE_EMULATOR_HOST is honoured by the client.
func NewFirestoreSource(ctx context.Context, projectID, collection string, logger *slog.Logger) (*FirestoreSource, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: firestore uri needs a collection", ErrUnsupportedSource)
	}
	if projectID == "" {
		projectID = os.Getenv("GCP_PROJECT_ID")
	}
	if projectID == "" {
		return nil, fmt.Errorf("%w: gcp project id required for firestore source", ErrUnsupportedSource)
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FirestoreSource{client: client, collection: collection, logger: logger}, nil
}

func (s *FirestoreSource) Name() string { return "firestore://" + s.collection }

func (s *FirestoreSource) Fetch(ctx context.Context) ([]Gem, error) {
	iter := s.client.Collection(s.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var (
		gems    []Gem
		skipped int
	)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			switch status.Code(err) {
			case codes.NotFound:
				return nil, fmt.Errorf("%w: collection %s not found", ErrFetch, s.collection)
			case codes.PermissionDenied, codes.Unauthenticated:
				return nil, fmt.Errorf("%w: access to %s denied: %v", ErrFetch, s.collection, err)
			default:
				return nil, fmt.Errorf("%w: %v", ErrFetch, err)
			}
		}

		g, ok := s.decode(doc.Ref.ID, doc.DataTo)
		if !ok {
			skipped++
			continue
		}
		gems = append(gems, g)
	}
	if skipped > 0 {
		s.logger.Warn("firestore documents skipped",
			slog.String("collection", s.collection),
			slog.Int("skipped", skipped),
			slog.Int("loaded", len(gems)),
		)
	}
	return gems, nil
}

// decode converts one document, falling back to the document id when the record has none.
func (s *FirestoreSource) decode(docID string, dataTo func(any) error) (Gem, bool) {
	var g Gem
	if err := dataTo(&g); err != nil {
		s.logger.Warn("skipping malformed gem document",
			slog.String("collection", s.collection),
			slog.String("id", docID),
			slog.String("error", err.Error()),
		)
		return Gem{}, false
	}
	if g.ID == "" {
		g.ID = docID
	}
	return g, true
}

// Close releases the Firestore client.
func (s *FirestoreSource) Close() error {
	return s.client.Close()
}
