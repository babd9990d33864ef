package rag_test

import (
	"context"
	"sync"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
)

// MockIndex implements vectorDB.Index
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnUpsert         func(ctx context.Context, ids []string, texts []string, metas []docmodel.ChunkMeta) error
	OnDelete         func(ctx context.Context, ids []string) error
	OnDeleteBySource func(ctx context.Context, name string) error
	OnSearch         func(ctx context.Context, query string, k int) []docmodel.SearchHit
}

func (m *MockIndex) Upsert(ctx context.Context, ids []string, texts []string, metas []docmodel.ChunkMeta) error {
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, ids, texts, metas)
	}
	return nil
}

func (m *MockIndex) Delete(ctx context.Context, ids []string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, ids)
	}
	return nil
}

func (m *MockIndex) DeleteBySourceDocument(ctx context.Context, name string) error {
	if m.OnDeleteBySource != nil {
		return m.OnDeleteBySource(ctx, name)
	}
	return nil
}

func (m *MockIndex) Search(ctx context.Context, query string, k int) []docmodel.SearchHit {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, query, k)
	}
	return []docmodel.SearchHit{}
}

// MockAnswerCache implements vectorDB.AnswerCache
type MockAnswerCache struct {
	OnLookup func(ctx context.Context, query string) (string, bool)

	mu    sync.Mutex
	saved chan struct{}
}

func NewMockAnswerCache() *MockAnswerCache {
	return &MockAnswerCache{saved: make(chan struct{}, 1)}
}

func (m *MockAnswerCache) Lookup(ctx context.Context, query string) (string, bool) {
	if m.OnLookup != nil {
		return m.OnLookup(ctx, query)
	}
	return "", false
}

func (m *MockAnswerCache) Save(ctx context.Context, query string, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case m.saved <- struct{}{}:
	default:
	}
}

// Saved reports whether Save ran, waiting briefly since the engine saves
// asynchronously.
func (m *MockAnswerCache) Saved() <-chan struct{} {
	return m.saved
}

// MockProvider implements llm.Provider
type MockProvider struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

// MockSink implements audit.Sink and records what was written.
type MockSink struct {
	mu      sync.Mutex
	Errors  []string
	Queries []string
}

func (m *MockSink) LogError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, message)
}

func (m *MockSink) LogQuery(query string, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query+" | "+answer)
}

func (m *MockSink) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Errors)
}

func (m *MockSink) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}
