package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//retrieval defaults - the handler accepts overrides per request
	DefaultTopK      = 5
	DefaultThreshold = 0.35

	//chunking: word windows with overlap, stride is forced positive
	ChunkSizeWords    = 500
	ChunkOverlapWords = 100

	//vector collections
	EmbeddingOutputDimensionality int32 = 1536
	ChunkCollectionName                 = "chunks"
	AnswerCacheCollectionName           = "answer-cache"
	CacheSimilarityCutoff               = 0.97
	IngestBatchSize                     = 100

	//canned answers for the two non-generated outcomes
	AbstentionAnswer    = "I don't have enough information in the uploaded documents."
	InternalErrorAnswer = "An internal error occurred while processing the query."

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ingestion job buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost             = "localhost"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1

	//providers
	ProviderCallTimeout  = 30 * time.Second
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisJobStore    = 0
	RedisJobStoreTTL = 24 * time.Hour

	//on-disk layout
	UploadDir        = "temporary_data"
	RegistryFilePath = "indexed_docs.json"
	AuditLogDir      = "logs"
	MaxUploadSize    = 32 << 20 //32mb
)

// secrets and deploy-specific values come from the environment
var (
	GoogleAPIKey  = os.Getenv("GEMINI_API_KEY")
	OpenAIAPIKey  = os.Getenv("OPENAI_API_KEY")
	LLMProvider   = os.Getenv("LLM_PROVIDER") //"gemini" or "openai", empty falls back to gemini
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	AuthToken     = os.Getenv("AUTH_TOKEN")
	NoAuthBypass  = os.Getenv("AUTH_TOKEN") == "" //local runs without a token skip auth
)
