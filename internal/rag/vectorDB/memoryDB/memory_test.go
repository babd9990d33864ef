package memoryDB

import (
	"context"
	"testing"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
)

// fakeEmbedder maps known strings to fixed unit vectors so similarity
// ordering is deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if v, ok := f.vectors[query]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f *fakeEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		v, _ := f.GetEmbedding(ctx, c)
		out[i] = v
	}
	return out, nil
}

func newTestIndex() *Store {
	return InitMemoryIndex(&fakeEmbedder{vectors: map[string][]float32{
		"cats":  {1, 0, 0},
		"dogs":  {0, 1, 0},
		"birds": {0.9, 0.1, 0},
	}})
}

func meta(doc string, seq int) docmodel.ChunkMeta {
	return docmodel.ChunkMeta{SourceDocument: doc, Sequence: seq}
}

func TestUpsertAndSearch_Ordering(t *testing.T) {
	s := newTestIndex()
	ctx := context.Background()

	err := s.Upsert(ctx,
		[]string{"c1", "c2", "c3"},
		[]string{"cats", "dogs", "birds"},
		[]docmodel.ChunkMeta{meta("a.txt", 0), meta("a.txt", 1), meta("b.txt", 0)},
	)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits := s.Search(ctx, "cats", 2)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].Id != "c1" {
		t.Errorf("Best hit got %s, want c1", hits[0].Id)
	}
	if hits[0].Similarity < 0.99 {
		t.Errorf("Identical text should score ~1, got %f", hits[0].Similarity)
	}
	if hits[1].Id != "c3" {
		t.Errorf("Second hit got %s, want c3 (birds)", hits[1].Id)
	}
	if hits[0].Similarity < hits[1].Similarity {
		t.Error("Hits not sorted by similarity descending")
	}
	if hits[0].Meta.SourceDocument != "a.txt" {
		t.Errorf("Metadata lost: %+v", hits[0].Meta)
	}
}

func TestSearch_SimilarityBounds(t *testing.T) {
	s := newTestIndex()
	ctx := context.Background()

	s.Upsert(ctx, []string{"c1"}, []string{"dogs"}, []docmodel.ChunkMeta{meta("a.txt", 0)})

	hits := s.Search(ctx, "cats", 5)
	for _, h := range hits {
		if h.Similarity < 0 || h.Similarity > 1 {
			t.Errorf("Similarity out of range: %f", h.Similarity)
		}
	}
}

func TestUpsert_ReplacesExistingId(t *testing.T) {
	s := newTestIndex()
	ctx := context.Background()

	s.Upsert(ctx, []string{"c1"}, []string{"cats"}, []docmodel.ChunkMeta{meta("a.txt", 0)})
	s.Upsert(ctx, []string{"c1"}, []string{"dogs"}, []docmodel.ChunkMeta{meta("a.txt", 0)})

	hits := s.Search(ctx, "dogs", 1)
	if len(hits) != 1 || hits[0].Id != "c1" {
		t.Fatalf("Expected replaced c1, got %+v", hits)
	}
	if hits[0].Text != "dogs" {
		t.Errorf("Text not replaced, got %q", hits[0].Text)
	}
}

func TestUpsert_MismatchedInputIsNoop(t *testing.T) {
	s := newTestIndex()
	ctx := context.Background()

	if err := s.Upsert(ctx, []string{"c1", "c2"}, []string{"cats"}, []docmodel.ChunkMeta{meta("a.txt", 0)}); err != nil {
		t.Fatalf("Mismatched upsert should be a silent no-op, got %v", err)
	}
	if err := s.Upsert(ctx, nil, nil, nil); err != nil {
		t.Fatalf("Empty upsert should be a silent no-op, got %v", err)
	}

	if hits := s.Search(ctx, "cats", 5); len(hits) != 0 {
		t.Errorf("No-op upsert still wrote entries: %+v", hits)
	}
}

func TestDelete_ByIds(t *testing.T) {
	s := newTestIndex()
	ctx := context.Background()

	s.Upsert(ctx, []string{"c1", "c2"}, []string{"cats", "dogs"},
		[]docmodel.ChunkMeta{meta("a.txt", 0), meta("a.txt", 1)})

	if err := s.Delete(ctx, []string{"c1", "ghost"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	hits := s.Search(ctx, "cats", 5)
	if len(hits) != 1 || hits[0].Id != "c2" {
		t.Errorf("Expected only c2 left, got %+v", hits)
	}
}

func TestDeleteBySourceDocument(t *testing.T) {
	s := newTestIndex()
	ctx := context.Background()

	s.Upsert(ctx,
		[]string{"c1", "c2", "c3"},
		[]string{"cats", "dogs", "birds"},
		[]docmodel.ChunkMeta{meta("a.txt", 0), meta("a.txt", 1), meta("b.txt", 0)},
	)

	if err := s.DeleteBySourceDocument(ctx, "a.txt"); err != nil {
		t.Fatalf("DeleteBySourceDocument failed: %v", err)
	}

	hits := s.Search(ctx, "cats", 5)
	if len(hits) != 1 || hits[0].Meta.SourceDocument != "b.txt" {
		t.Errorf("Expected only b.txt chunks left, got %+v", hits)
	}
}

func TestSearch_InvalidK(t *testing.T) {
	s := newTestIndex()
	ctx := context.Background()

	s.Upsert(ctx, []string{"c1"}, []string{"cats"}, []docmodel.ChunkMeta{meta("a.txt", 0)})

	if hits := s.Search(ctx, "cats", 0); len(hits) != 0 {
		t.Errorf("k=0 should return empty, got %+v", hits)
	}
	if hits := s.Search(ctx, "cats", -3); len(hits) != 0 {
		t.Errorf("negative k should return empty, got %+v", hits)
	}
}
