package vectorDB

import (
	"context"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
)

// Index is durable storage plus similarity search over chunks. Mutations
// return an error for observability, but implementations degrade to no-ops
// instead of leaving partial writes, and Search always returns a slice -
// empty on any failure - so the query path can never crash on a transient
// index problem.
type Index interface {
	Upsert(ctx context.Context, ids []string, texts []string, metas []docmodel.ChunkMeta) error
	Delete(ctx context.Context, ids []string) error
	DeleteBySourceDocument(ctx context.Context, name string) error
	Search(ctx context.Context, query string, k int) []docmodel.SearchHit
}

// AnswerCache short-circuits generation for semantically near-identical
// queries. Best effort on both sides.
type AnswerCache interface {
	Lookup(ctx context.Context, query string) (string, bool)
	Save(ctx context.Context, query string, answer string)
}

// ClampSimilarity maps a raw score into [0,1]. Cosine against normalized
// vectors already lands there, this guards against float drift.
func ClampSimilarity(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
