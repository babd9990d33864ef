package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type IngestResult struct {
	DocumentName  string `json:"document_name"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

type Result struct {
	Status string        `json:"status"`
	Ingest *IngestResult `json:"ingest,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type Source struct {
	Id         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

type QueryResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
}

type UploadFileResult struct {
	FileName string `json:"file_name"`
	JobId    string `json:"job_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type UploadResponse struct {
	Accepted []UploadFileResult `json:"accepted"`
	Rejected []UploadFileResult `json:"rejected,omitempty"`
}

type DocumentRecord struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

type DocumentsResponse struct {
	Documents []DocumentRecord `json:"documents"`
}

// requests---------------------

type QueryRequest struct {
	Question  string  `json:"question" validate:"required"`
	TopK      int     `json:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}
