package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/domain/jobModel"
	"github.com/saitejab/docuquery/internal/rag"
	"github.com/saitejab/docuquery/internal/registry"
)

func strongHits() []docmodel.SearchHit {
	return []docmodel.SearchHit{
		{Id: "h1", Similarity: 0.91, Text: "top chunk text", Meta: docmodel.ChunkMeta{SourceDocument: "a.txt", Sequence: 0}},
		{Id: "h2", Similarity: 0.72, Text: "second chunk", Meta: docmodel.ChunkMeta{SourceDocument: "a.txt", Sequence: 1}},
	}
}

func newTestRegistry(t *testing.T) *registry.Store {
	t.Helper()
	return registry.NewStore(filepath.Join(t.TempDir(), "indexed_docs.json"))
}

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestAsk_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		noProvider      bool
		setupMocks      func(i *MockIndex, c *MockAnswerCache, p *MockProvider)
		expectedAnswer  string
		expectedSources int
		expectedErrors  int
		expectedQueries int
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(i *MockIndex, c *MockAnswerCache, p *MockProvider) {
				i.OnSearch = func(ctx context.Context, q string, k int) []docmodel.SearchHit {
					return strongHits()
				}
				p.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
					return "  final answer \n", nil
				}
			},
			expectedAnswer:  "final answer",
			expectedSources: 2,
			expectedQueries: 1,
		},
		{
			name: "Success_Cache_Hit",
			setupMocks: func(i *MockIndex, c *MockAnswerCache, p *MockProvider) {
				c.OnLookup = func(ctx context.Context, q string) (string, bool) {
					return "cached answer", true
				}
				i.OnSearch = func(ctx context.Context, q string, k int) []docmodel.SearchHit {
					panic("search must not run on a cache hit")
				}
			},
			expectedAnswer:  "cached answer",
			expectedSources: 0,
			expectedQueries: 1,
		},
		{
			name:           "Abstain_Empty_Index",
			setupMocks:     func(i *MockIndex, c *MockAnswerCache, p *MockProvider) {},
			expectedAnswer: config.AbstentionAnswer,
			expectedErrors: 1,
		},
		{
			name: "Abstain_Below_Threshold",
			setupMocks: func(i *MockIndex, c *MockAnswerCache, p *MockProvider) {
				i.OnSearch = func(ctx context.Context, q string, k int) []docmodel.SearchHit {
					return []docmodel.SearchHit{{Id: "h1", Similarity: 0.2, Text: "weak match"}}
				}
			},
			expectedAnswer: config.AbstentionAnswer,
			expectedErrors: 1,
		},
		{
			name:       "Fallback_No_Provider",
			noProvider: true,
			setupMocks: func(i *MockIndex, c *MockAnswerCache, p *MockProvider) {
				i.OnSearch = func(ctx context.Context, q string, k int) []docmodel.SearchHit {
					return strongHits()
				}
			},
			expectedAnswer:  "top chunk text",
			expectedSources: 2,
			expectedErrors:  1,
			expectedQueries: 1,
		},
		{
			name: "Failure_Generation",
			setupMocks: func(i *MockIndex, c *MockAnswerCache, p *MockProvider) {
				i.OnSearch = func(ctx context.Context, q string, k int) []docmodel.SearchHit {
					return strongHits()
				}
				p.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedAnswer: config.InternalErrorAnswer,
			expectedErrors: 1,
		},
		{
			name: "Recovery_From_Panic",
			setupMocks: func(i *MockIndex, c *MockAnswerCache, p *MockProvider) {
				i.OnSearch = func(ctx context.Context, q string, k int) []docmodel.SearchHit {
					return strongHits()
				}
				p.OnGenerate = func(ctx context.Context, prompt string) (string, error) {
					panic("provider blew up")
				}
			},
			expectedAnswer: config.InternalErrorAnswer,
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mIndex := &MockIndex{}
			mCache := NewMockAnswerCache()
			mProvider := &MockProvider{}
			mSink := &MockSink{}

			tt.setupMocks(mIndex, mCache, mProvider)

			var s rag.Service
			if tt.noProvider {
				s = rag.NewService(mIndex, mCache, nil, newTestRegistry(t), mSink)
			} else {
				s = rag.NewService(mIndex, mCache, mProvider, newTestRegistry(t), mSink)
			}

			result := s.Ask(testContext(), "test question", config.DefaultTopK, config.DefaultThreshold)

			if result.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", result.Answer, tt.expectedAnswer)
			}
			if len(result.Sources) != tt.expectedSources {
				t.Errorf("Sources got %d, want %d", len(result.Sources), tt.expectedSources)
			}
			if result.Sources == nil {
				t.Error("Sources must never be nil")
			}
			if mSink.ErrorCount() != tt.expectedErrors {
				t.Errorf("Audit errors got %d, want %d", mSink.ErrorCount(), tt.expectedErrors)
			}
			if mSink.QueryCount() != tt.expectedQueries {
				t.Errorf("Audit queries got %d, want %d", mSink.QueryCount(), tt.expectedQueries)
			}
		})
	}
}

func TestAsk_SavesToCacheAfterGeneration(t *testing.T) {
	mIndex := &MockIndex{
		OnSearch: func(ctx context.Context, q string, k int) []docmodel.SearchHit {
			return strongHits()
		},
	}
	mCache := NewMockAnswerCache()
	s := rag.NewService(mIndex, mCache, &MockProvider{}, newTestRegistry(t), &MockSink{})

	result := s.Ask(testContext(), "test question", 0, 0.1)
	if result.Answer != "mocked llm response" {
		t.Fatalf("Answer got %q", result.Answer)
	}

	select {
	case <-mCache.Saved():
	case <-time.After(2 * time.Second):
		t.Error("Answer was never saved to the cache")
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		fileName       string
		content        string
		missingFile    bool
		setupMocks     func(i *MockIndex)
		expectedStatus jobModel.JobStatus
	}{
		{
			name:           "Ingestion_Success",
			fileName:       "notes.txt",
			content:        "plain text content for indexing",
			setupMocks:     func(i *MockIndex) {},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name:           "Failure_Unsupported_Type",
			fileName:       "image.png",
			content:        "bytes",
			setupMocks:     func(i *MockIndex) {},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name:           "Failure_Missing_File",
			fileName:       "gone.txt",
			missingFile:    true,
			setupMocks:     func(i *MockIndex) {},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name:     "Failure_Index_Upsert",
			fileName: "notes.txt",
			content:  "plain text content",
			setupMocks: func(i *MockIndex) {
				i.OnUpsert = func(ctx context.Context, ids []string, texts []string, metas []docmodel.ChunkMeta) error {
					return errors.New("index down")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mIndex := &MockIndex{}
			tt.setupMocks(mIndex)

			reg := newTestRegistry(t)
			s := rag.NewService(mIndex, nil, &MockProvider{}, reg, &MockSink{})

			storagePath := filepath.Join(t.TempDir(), tt.fileName)
			if !tt.missingFile {
				if err := os.WriteFile(storagePath, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			job := jobModel.Job{
				Id:      "ingest-job-1",
				TraceId: "ingest-trace",
				JobPayload: jobModel.JobPayload{
					DocumentName: tt.fileName,
					StoragePath:  storagePath,
				},
			}

			result := s.IngestDocument(testContext(), job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedStatus == jobModel.JobStatusComplete {
				if result.JobPayload.ChunksIndexed == 0 {
					t.Error("ChunksIndexed not recorded on success")
				}
				if _, found := reg.Get(tt.fileName); !found {
					t.Error("Document not registered after successful ingestion")
				}
			} else {
				if result.Error.Message == "" {
					t.Error("Failed job carries no error message")
				}
				if _, found := reg.Get(tt.fileName); found {
					t.Error("Failed ingestion must not register the document")
				}
			}
		})
	}
}

func TestIngestDocument_UpsertBatching(t *testing.T) {
	words := make([]byte, 0)
	for i := 0; i < 900; i++ {
		words = append(words, []byte("word ")...)
	}
	storagePath := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(storagePath, words, 0644); err != nil {
		t.Fatal(err)
	}

	var calls int
	var totalChunks int
	mIndex := &MockIndex{
		OnUpsert: func(ctx context.Context, ids []string, texts []string, metas []docmodel.ChunkMeta) error {
			calls++
			totalChunks += len(texts)
			if len(ids) != len(texts) || len(ids) != len(metas) {
				t.Errorf("Misaligned upsert: ids=%d texts=%d metas=%d", len(ids), len(texts), len(metas))
			}
			for _, m := range metas {
				if m.SourceDocument != "big.txt" {
					t.Errorf("Chunk attributed to %q", m.SourceDocument)
				}
			}
			return nil
		},
	}

	s := rag.NewService(mIndex, nil, &MockProvider{}, newTestRegistry(t), &MockSink{})
	job := jobModel.Job{
		Id:         "batch-job",
		JobPayload: jobModel.JobPayload{DocumentName: "big.txt", StoragePath: storagePath},
	}

	result := s.IngestDocument(testContext(), job)
	if result.Status != jobModel.JobStatusComplete {
		t.Fatalf("Ingestion failed: %+v", result.Error)
	}
	if calls == 0 {
		t.Fatal("Upsert never called")
	}
	if totalChunks != result.JobPayload.ChunksIndexed {
		t.Errorf("Upserted %d chunks but job reports %d", totalChunks, result.JobPayload.ChunksIndexed)
	}
}

func TestDeleteDocument_Scenarios(t *testing.T) {
	t.Run("Unknown_Document", func(t *testing.T) {
		s := rag.NewService(&MockIndex{}, nil, nil, newTestRegistry(t), &MockSink{})

		err := s.DeleteDocument(testContext(), "ghost.txt")
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("Expected not-exist error, got %v", err)
		}

		var consistency *docmodel.ConsistencyError
		if !errors.As(err, &consistency) {
			t.Fatalf("Expected ConsistencyError, got %T", err)
		}
		if consistency.Step != "registry" {
			t.Errorf("Step got %q, want registry", consistency.Step)
		}
	})

	t.Run("Full_Cleanup", func(t *testing.T) {
		reg := newTestRegistry(t)
		storagePath := filepath.Join(t.TempDir(), "doomed.txt")
		if err := os.WriteFile(storagePath, []byte("bye"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := reg.Add("doomed.txt", storagePath); err != nil {
			t.Fatal(err)
		}

		var deletedSource string
		mIndex := &MockIndex{
			OnDeleteBySource: func(ctx context.Context, name string) error {
				deletedSource = name
				return nil
			},
		}
		mSink := &MockSink{}
		s := rag.NewService(mIndex, nil, nil, reg, mSink)

		if err := s.DeleteDocument(testContext(), "doomed.txt"); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		if deletedSource != "doomed.txt" {
			t.Errorf("Index delete got %q", deletedSource)
		}
		if _, found := reg.Get("doomed.txt"); found {
			t.Error("Registry entry survived deletion")
		}
		if _, err := os.Stat(storagePath); !os.IsNotExist(err) {
			t.Error("Stored file survived deletion")
		}
		if mSink.ErrorCount() != 0 {
			t.Errorf("Clean delete logged errors: %v", mSink.Errors)
		}
	})

	t.Run("Index_Step_Failure_Is_Attributed", func(t *testing.T) {
		reg := newTestRegistry(t)
		if err := reg.Add("half.txt", filepath.Join(t.TempDir(), "half.txt")); err != nil {
			t.Fatal(err)
		}

		mIndex := &MockIndex{
			OnDeleteBySource: func(ctx context.Context, name string) error {
				return errors.New("qdrant down")
			},
		}
		mSink := &MockSink{}
		s := rag.NewService(mIndex, nil, nil, reg, mSink)

		err := s.DeleteDocument(testContext(), "half.txt")

		var consistency *docmodel.ConsistencyError
		if !errors.As(err, &consistency) {
			t.Fatalf("Expected ConsistencyError, got %v", err)
		}
		if consistency.Step != "index" {
			t.Errorf("Step got %q, want index", consistency.Step)
		}
		if mSink.ErrorCount() != 1 {
			t.Errorf("Partial delete must be audited, got %d entries", mSink.ErrorCount())
		}
	})
}
