package embedding

import "context"

// Embedder must be the same model and configuration for indexing and for
// query time, otherwise the vectors are not comparable.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
