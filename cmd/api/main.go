// @title           DocuQuery API
// @version         1.0
// @description     Document question answering over uploaded files with grounded retrieval
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/saitejab/docuquery/internal/audit"
	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/data/store"
	jobmodel "github.com/saitejab/docuquery/internal/domain/jobModel"
	"github.com/saitejab/docuquery/internal/handlers"
	"github.com/saitejab/docuquery/internal/job"
	"github.com/saitejab/docuquery/internal/rag"
	"github.com/saitejab/docuquery/internal/rag/embedding/googleEmbedding"
	"github.com/saitejab/docuquery/internal/rag/llm"
	"github.com/saitejab/docuquery/internal/rag/llm/gemini"
	"github.com/saitejab/docuquery/internal/rag/llm/openai"
	"github.com/saitejab/docuquery/internal/rag/vectorDB"
	"github.com/saitejab/docuquery/internal/rag/vectorDB/memoryDB"
	"github.com/saitejab/docuquery/internal/rag/vectorDB/qdrantDB"
	"github.com/saitejab/docuquery/internal/registry"
	"github.com/saitejab/docuquery/internal/server"
	"github.com/saitejab/docuquery/internal/worker"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil {
		logger.Error("Redis job store is offline, falling back to in-memory store")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey)
	if embeddingService == nil {
		logger.Error("Embedding service failed to initialize. Shutting down.")
		return
	}

	//qdrant carries the chunk index and the answer cache, memory index is the
	//degraded single-process fallback with no caching
	var chunkIndex vectorDB.Index
	var answerCache vectorDB.AnswerCache
	qdrantClient := qdrantDB.GetQdrantClient(serviceContext, embeddingService)
	if qdrantClient != nil {
		chunkIndex = qdrantClient
		answerCache = qdrantClient
	} else {
		logger.Error("Qdrant is offline, falling back to the in-memory index")
		chunkIndex = memoryDB.InitMemoryIndex(embeddingService)
	}

	llmProvider := llm.SelectProvider(serviceContext, config.LLMProvider, map[string]llm.Constructor{
		"gemini": func(ctx context.Context) llm.Provider {
			return gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GoogleAPIKey)
		},
		"openai": func(ctx context.Context) llm.Provider {
			return openai.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey)
		},
	})
	if llmProvider == nil {
		logger.Warn("No generation provider available, queries fall back to the top retrieved chunk")
	}

	docRegistry := registry.NewStore(config.RegistryFilePath)

	auditSink, err := audit.NewFileSink(config.AuditLogDir)
	if err != nil {
		logger.Error("Audit log files unavailable. Shutting down.", "error", err)
		return
	}

	ragService := rag.NewService(chunkIndex, answerCache, llmProvider, docRegistry, auditSink)

	handlers.InitHandlers(service, ragService, docRegistry)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
