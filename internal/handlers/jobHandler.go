package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/domain/jobModel"
	"github.com/saitejab/docuquery/internal/job"
	"github.com/saitejab/docuquery/internal/metrics"
	"github.com/saitejab/docuquery/internal/rag"
	"github.com/saitejab/docuquery/internal/registry"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service  *job.Service
	engine   rag.Service
	registry *registry.Store
}

func InitHandlers(jobService *job.Service, engine rag.Service, reg *registry.Store) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, engine: engine, registry: reg}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateIngestJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new ingestion job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.IngestInit
	_job.JobPayload.DocumentName = newJob.documentName
	_job.JobPayload.StoragePath = newJob.storagePath

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed

	logJH.Info("Created new ingestion job")

	//every job here is a document ingestion - batch embedding plus vector
	//writes, so each push wakes the dispatcher. idle workers retire on their
	//own, so the pool still collapses back to one worker between uploads
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	logJH.Debug("Request count ", accurateCount)
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
