package vectorstore

import (
	"context"

	"github.com/SaraLat04/Assistant-Juridique/models"
)

// Store is the opaque retrieval service the pipeline depends on. Embedding
// computation and nearest-neighbour search live behind it; the pipeline only
// sees ranked matches with raw distances.
type Store interface {
	// Query returns the top-k nearest chunks for a query text, ordered by
	// ascending distance.
	Query(ctx context.Context, text string, topK int) ([]models.Match, error)

	// Add inserts chunks into the collection.
	Add(ctx context.Context, chunks []models.Chunk) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Collection returns the collection name, for health reporting.
	Collection() string
}
