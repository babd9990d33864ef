package rag

import (
	"context"
	"os"

	"github.com/saitejab/docuquery/internal/adapter/utils"
	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/domain/jobModel"
	"github.com/saitejab/docuquery/internal/metrics"
	"github.com/saitejab/docuquery/internal/rag/chunker"
	"github.com/saitejab/docuquery/internal/rag/extract"
)

func (s *service) processDocumentIngestion(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.With("traceId", job.TraceId, "document", job.JobPayload.DocumentName)

	docName := job.JobPayload.DocumentName
	docPath := job.JobPayload.StoragePath

	job.CurrentStep = jobModel.IngestExtract
	docType := extract.DocTypeFor(docName)
	if docType == docmodel.ERR {
		log.Error("Unsupported document type", "name", docName)
		return failIngest(job, "unsupported document type")
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		log.Error("Error reading stored upload", "error", err)
		return failIngest(job, "could not read stored file")
	}

	text, err := extract.Extract(raw, docType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return failIngest(job, "error extracting document content")
	}

	job.CurrentStep = jobModel.IngestChunk
	chunks := chunker.Chunk(text, config.ChunkSizeWords, config.ChunkOverlapWords)
	log.Debug("Chunked document", "chunks", len(chunks))

	job.CurrentStep = jobModel.IngestUpsert
	if err := s.batchUpsert(ctx, docName, chunks); err != nil {
		log.Error("Error upserting chunks", "error", err)
		return failIngest(job, "error indexing document content")
	}

	job.CurrentStep = jobModel.IngestRegister
	if err := s.registry.Add(docName, docPath); err != nil {
		log.Error("Error registering document", "error", err)
		return failIngest(job, "error recording document")
	}

	metrics.CountDocumentIndexed(len(chunks))
	job.JobPayload.ChunksIndexed = len(chunks)
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

// batchUpsert pushes chunks in bounded batches so one large document does
// not turn into a single oversized embedding call.
func (s *service) batchUpsert(ctx context.Context, docName string, chunks []string) error {
	for i := 0; i < len(chunks); i += config.IngestBatchSize {
		end := i + config.IngestBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		ids := make([]string, len(batch))
		metas := make([]docmodel.ChunkMeta, len(batch))
		for j := range batch {
			ids[j] = utils.GetNewUUID()
			metas[j] = docmodel.ChunkMeta{SourceDocument: docName, Sequence: i + j}
		}

		if err := s.index.Upsert(ctx, ids, batch, metas); err != nil {
			return err
		}
	}
	return nil
}

func failIngest(job jobModel.Job, message string) jobModel.Job {
	job.Status = jobModel.JobStatusError
	job.Error.Message = message
	return job
}
