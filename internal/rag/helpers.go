package rag

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/domain/jobModel"
	"github.com/saitejab/docuquery/internal/metrics"
)

// groundingPrompt pins the model to the retrieved context and names the
// exact abstention sentence it must emit when the context falls short.
const groundingPrompt = `You answer strictly from the context below. If the answer is not fully present, reply only:
"%s"

Context:
%s

Question: %s

Answer:`

func buildPrompt(query string, hits []docmodel.SearchHit) string {
	texts := make([]string, 0, len(hits))
	for _, h := range hits {
		texts = append(texts, h.Text)
	}
	contextBlock := strings.Join(texts, "\n\n")
	return fmt.Sprintf(groundingPrompt, config.AbstentionAnswer, contextBlock, query)
}

// sourceRefs strips hit bodies, callers only see id and similarity.
func sourceRefs(hits []docmodel.SearchHit) []docmodel.SourceRef {
	refs := make([]docmodel.SourceRef, 0, len(hits))
	for _, h := range hits {
		refs = append(refs, docmodel.SourceRef{Id: h.Id, Similarity: h.Similarity})
	}
	return refs
}

func internalErrorResult() docmodel.QueryResult {
	return docmodel.QueryResult{Answer: config.InternalErrorAnswer, Sources: []docmodel.SourceRef{}}
}

func (s *service) jobError(job jobModel.Job, message string) jobModel.Job {
	s.logger.Error(message, "job Id", job.Id)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   true,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeCacheCheckStep(ctx context.Context, query string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	return s.cache.Lookup(ctx, query)
}

func (s *service) executeSearchStep(ctx context.Context, query string, topK int) []docmodel.SearchHit {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	if topK <= 0 {
		topK = config.DefaultTopK
	}
	return s.index.Search(ctx, query, topK)
}

func (s *service) executeGenerationStep(ctx context.Context, query string, hits []docmodel.SearchHit) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	answer, err := s.provider.Generate(ctx, buildPrompt(query, hits))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
