package qdrantDB

import (
	"context"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/saitejab/docuquery/internal/adapter/utils"
	"github.com/saitejab/docuquery/internal/config"
)

var cacheCollectionName = config.AnswerCacheCollectionName

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	if err := createCollection(ctx, client, cacheCollectionName); err != nil {
		logger.Error("Answer cache collection creation failed", "error", err)
	}
}

// Lookup embeds the query and returns a previously generated answer when a
// near-identical question was already answered.
func (db *ClientHolder) Lookup(ctx context.Context, query string) (string, bool) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	vector, err := db.embedder.GetEmbedding(ctx, query)
	if err != nil {
		loggr.Error("Cache lookup embedding failed", "error", err)
		return "", false
	}

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: cacheCollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return "", false
	}

	if float64(searchResult[0].Score) < config.CacheSimilarityCutoff {
		return "", false
	}

	loggr.Debug("Answer cache hit", "score", searchResult[0].Score)
	return searchResult[0].Payload["answer"].GetStringValue(), true
}

// Save stores a generated answer under the query's embedding. Best effort,
// a failed save only costs the next lookup a miss.
func (db *ClientHolder) Save(ctx context.Context, query string, answer string) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	vector, err := db.embedder.GetEmbedding(ctx, query)
	if err != nil {
		loggr.Error("Cache save embedding failed", "error", err)
		return
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: cacheCollectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(utils.GetNewUUID()),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"query":     query,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
}
