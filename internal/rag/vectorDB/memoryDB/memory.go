package memoryDB

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/rag/embedding"
	"github.com/saitejab/docuquery/internal/rag/vectorDB"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

type entry struct {
	vector []float32
	text   string
	meta   docmodel.ChunkMeta
}

// Store is a brute-force cosine index. It backs the service when Qdrant is
// offline, the same way the job store falls back to memory when redis is
// down, and it doubles as the index used in tests.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func InitMemoryIndex(embedder embedding.Embedder) *Store {
	return &Store{
		entries:  make(map[string]entry),
		embedder: embedder,
		logger:   logger_i.NewLogger("InMem VectorIndex"),
	}
}

func (s *Store) Upsert(ctx context.Context, ids []string, texts []string, metas []docmodel.ChunkMeta) error {
	if len(ids) == 0 || len(ids) != len(texts) || len(ids) != len(metas) {
		s.logger.Warn("Upsert skipped due to missing or mismatched ids/texts/metadata",
			"ids", len(ids), "texts", len(texts), "metas", len(metas))
		return nil
	}

	vectors, err := s.embedder.BatchEmbedding(ctx, texts)
	if err != nil || len(vectors) != len(ids) {
		s.logger.Error("Upsert embedding failed", "error", err)
		return &docmodel.IndexError{Op: "upsert", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		delete(s.entries, id)
		s.entries[id] = entry{vector: vectors[i], text: texts[i], meta: metas[i]}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

func (s *Store) DeleteBySourceDocument(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toDelete []string
	for id, e := range s.entries {
		if e.meta.SourceDocument == name {
			toDelete = append(toDelete, id)
		}
	}
	for _, id := range toDelete {
		delete(s.entries, id)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query string, k int) []docmodel.SearchHit {
	if k <= 0 {
		return []docmodel.SearchHit{}
	}

	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		s.logger.Error("Search embedding failed", "error", err)
		return []docmodel.SearchHit{}
	}

	s.mu.RLock()
	hits := make([]docmodel.SearchHit, 0, len(s.entries))
	for id, e := range s.entries {
		hits = append(hits, docmodel.SearchHit{
			Id:         id,
			Similarity: vectorDB.ClampSimilarity(cosine(vector, e.vector)),
			Text:       e.text,
			Meta:       e.meta,
		})
	}
	s.mu.RUnlock()

	// ties break on id so one query execution is deterministic
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Id < hits[j].Id
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// cosine over unit vectors is the plain dot product, but the norms are
// still divided out in case a caller stored unnormalized vectors.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
