package rag

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/saitejab/docuquery/internal/audit"
	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/domain/jobModel"
	"github.com/saitejab/docuquery/internal/metrics"
	"github.com/saitejab/docuquery/internal/rag/llm"
	"github.com/saitejab/docuquery/internal/rag/vectorDB"
	"github.com/saitejab/docuquery/internal/registry"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

// Service is the public contract the HTTP handlers and the worker pool see.
// The private struct below holds the index, provider and registry handles so
// callers stay decoupled from the concrete backends.
type Service interface {
	Ask(ctx context.Context, query string, topK int, threshold float64) docmodel.QueryResult
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	DeleteDocument(ctx context.Context, name string) error
}

type service struct {
	index    vectorDB.Index
	cache    vectorDB.AnswerCache //nil disables caching
	provider llm.Provider         //nil degrades Ask to the top-chunk fallback
	registry *registry.Store
	audit    audit.Sink
	logger   *logger_i.Logger
}

// NewService constructor. cache and provider may be nil, the engine degrades
// instead of failing.
func NewService(index vectorDB.Index, cache vectorDB.AnswerCache, provider llm.Provider, reg *registry.Store, sink audit.Sink) Service {
	return &service{
		index:    index,
		cache:    cache,
		provider: provider,
		registry: reg,
		audit:    sink,
		logger:   logger_i.NewLogger("RAG Service"),
	}
}

// Ask resolves every query to a structured result. It must never panic or
// return an error to the caller: relevance below threshold abstains, a
// missing provider falls back to the top chunk, and anything unexpected
// becomes the generic internal-error answer.
func (s *service) Ask(ctx context.Context, query string, topK int, threshold float64) (result docmodel.QueryResult) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureJobMetrics("query", time.Since(start)) }()
	defer func() {
		if r := recover(); r != nil {
			inMethodLogger.Error("Recovered panic in Ask", "panic", r)
			s.audit.LogError(fmt.Sprintf("Error in Ask(): %v", r))
			result = internalErrorResult()
		}
	}()

	askContext, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	if cached, found := s.executeCacheCheckStep(askContext, query); found {
		s.audit.LogQuery(query, cached)
		return docmodel.QueryResult{Answer: cached, Sources: []docmodel.SourceRef{}}
	}

	hits := s.executeSearchStep(askContext, query, topK)
	if len(hits) == 0 || hits[0].Similarity < threshold {
		inMethodLogger.Debug("Abstaining", "hits", len(hits))
		s.audit.LogError("No relevant context found for the query.")
		metrics.CountAbstention()
		return docmodel.QueryResult{Answer: config.AbstentionAnswer, Sources: []docmodel.SourceRef{}}
	}

	if s.provider == nil {
		// degraded but still grounded: hand back the best chunk verbatim
		answer := hits[0].Text
		inMethodLogger.Warn("No generation provider configured, returning top chunk")
		s.audit.LogError("Generation provider missing. Returning top context instead.")
		metrics.CountFallbackAnswer()
		s.audit.LogQuery(query, answer)
		return docmodel.QueryResult{Answer: answer, Sources: sourceRefs(hits)}
	}

	answer, err := s.executeGenerationStep(askContext, query, hits)
	if err != nil {
		inMethodLogger.Error("Generation failed", "error", err)
		s.audit.LogError(fmt.Sprintf("Error in Ask(): %v", err))
		return internalErrorResult()
	}

	s.audit.LogQuery(query, answer)

	if s.cache != nil {
		go s.cache.Save(context.WithoutCancel(ctx), query, answer)
	}

	return docmodel.QueryResult{Answer: answer, Sources: sourceRefs(hits)}
}

// IngestDocument runs extract, chunk and upsert for one uploaded file and
// registers the document. Failures mark the job, they never propagate.
func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	j := s.processDocumentIngestion(ctx, job)
	if j.Status == jobModel.JobStatusError {
		s.audit.LogError(fmt.Sprintf("Failed while indexing %s: %s", job.JobPayload.DocumentName, j.Error.Message))
		return s.jobError(j, "INGESTION_FAILURE")
	}
	return j
}

// DeleteDocument removes the registry entry, the indexed chunks and the
// stored file, in that order. A failed step is named explicitly so an
// operator can reconcile the leftover state by hand.
func (s *service) DeleteDocument(ctx context.Context, name string) error {
	doc, found := s.registry.Get(name)
	if !found {
		return &docmodel.ConsistencyError{Document: name, Step: "registry", Err: os.ErrNotExist}
	}

	if err := s.registry.Remove(name); err != nil {
		return s.deleteStepFailed(name, "registry", err)
	}
	if err := s.index.DeleteBySourceDocument(ctx, name); err != nil {
		return s.deleteStepFailed(name, "index", err)
	}
	if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
		return s.deleteStepFailed(name, "file", err)
	}

	s.logger.Info("Deleted document", "name", name)
	return nil
}

func (s *service) deleteStepFailed(name string, step string, err error) error {
	consistency := &docmodel.ConsistencyError{Document: name, Step: step, Err: err}
	s.logger.Error("Document deletion step failed", "document", name, "step", step, "error", err)
	s.audit.LogError(consistency.Error())
	return consistency
}
