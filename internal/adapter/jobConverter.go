package adapter

import (
	"fmt"
	"time"

	"github.com/saitejab/docuquery/internal/api"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Ingest: toIngestResult(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toIngestResult(payload jobModel.JobPayload) *api.IngestResult {
	if payload.DocumentName == "" {
		return nil
	}
	return &api.IngestResult{
		DocumentName:  payload.DocumentName,
		ChunksIndexed: payload.ChunksIndexed,
	}
}

func ToQueryResponse(question string, result docmodel.QueryResult) api.QueryResponse {
	sources := make([]api.Source, 0, len(result.Sources))
	for _, s := range result.Sources {
		sources = append(sources, api.Source{Id: s.Id, Similarity: s.Similarity})
	}
	return api.QueryResponse{
		Question: question,
		Answer:   result.Answer,
		Sources:  sources,
	}
}

func ToDocumentsResponse(docs []docmodel.Document) api.DocumentsResponse {
	records := make([]api.DocumentRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, api.DocumentRecord{
			Name:      d.Name,
			Path:      d.StoragePath,
			CreatedAt: d.CreatedAt,
		})
	}
	return api.DocumentsResponse{Documents: records}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
