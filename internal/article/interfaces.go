package article

import (
	"context"

	"github.com/prompt-general/knowledgehub/internal/ai"
)

// Repository is the persistence boundary for articles. Lookup methods
// return (nil, nil) when no article matches; the service translates
// that into a not-found error.
type Repository interface {
	Insert(ctx context.Context, a *Article) (*Article, error)
	FindByID(ctx context.Context, id string) (*Article, error)
	FindMany(ctx context.Context, spaceID string) ([]*Article, error)
	UpdateByID(ctx context.Context, id string, patch UpdatePatch) (*Article, error)
	DeleteByID(ctx context.Context, id string) (*Article, error)
	VectorSearch(ctx context.Context, queryVector []float32, limit, numCandidates int) ([]SearchResult, error)
}

// Embedder converts text to an embedding vector. A nil result means the
// embedding is unavailable; the adapter never returns an error.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) []float32
}

// Generator produces article content from a prompt. Failures are
// returned to the caller, unlike embedding failures.
type Generator interface {
	GenerateContent(ctx context.Context, req ai.GenerationRequest) (*ai.GenerationResponse, error)
}
