package qdrantDB

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/rag/embedding"
	"github.com/saitejab/docuquery/internal/rag/vectorDB"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.ChunkCollectionName

type ClientHolder struct {
	QObj     *qdrant.Client
	embedder embedding.Embedder

	// interleaved delete+add on overlapping ids is not safe, writes are
	// serialized here
	writeMu sync.Mutex
}

func GetQdrantClient(ctx context.Context, embedder embedding.Embedder) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			initCacheCollection(ctx, qdrantInstance)
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:     qdrantInstance,
		embedder: embedder,
	}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
}

// Upsert validates, embeds, deletes any entries already holding these ids
// and inserts the new tuples. Bad input is a logged no-op so one broken file
// never aborts a batch upload.
func (db *ClientHolder) Upsert(ctx context.Context, ids []string, texts []string, metas []docmodel.ChunkMeta) error {
	if len(ids) == 0 || len(ids) != len(texts) || len(ids) != len(metas) {
		logger.Warn("Upsert skipped due to missing or mismatched ids/texts/metadata",
			"ids", len(ids), "texts", len(texts), "metas", len(metas))
		return nil
	}

	vectors, err := db.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		logger.Error("Upsert embedding failed", "error", err)
		return &docmodel.IndexError{Op: "upsert", Err: err}
	}
	if len(vectors) != len(ids) {
		err := errors.New("embedder returned wrong vector count")
		logger.Error("Upsert aborted", "error", err)
		return &docmodel.IndexError{Op: "upsert", Err: err}
	}

	points := make([]*qdrant.PointStruct, len(ids))
	for i := range ids {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(ids[i]),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":         texts[i],
				"source_document": metas[i].SourceDocument,
				"chunk":           int64(metas[i].Sequence),
			}),
		}
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	if err := db.deleteByIds(ctx, ids); err != nil {
		logger.Error("Upsert pre-delete failed", "error", err)
		return &docmodel.IndexError{Op: "upsert", Err: err}
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		logger.Error("Upsert failed", "error", err)
		return &docmodel.IndexError{Op: "upsert", Err: err}
	}
	return nil
}

// Delete removes entries by id, silently ignoring ids that are not stored.
func (db *ClientHolder) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	if err := db.deleteByIds(ctx, ids); err != nil {
		logger.Error("Delete failed", "error", err)
		return &docmodel.IndexError{Op: "delete", Err: err}
	}
	return nil
}

// DeleteBySourceDocument removes every chunk whose payload names the
// document. Zero matches is a clean no-op.
func (db *ClientHolder) DeleteBySourceDocument(ctx context.Context, name string) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("source_document", name),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		logger.Error("Delete by source document failed", "document", name, "error", err)
		return &docmodel.IndexError{Op: "delete_by_source_document", Err: err}
	}
	return nil
}

// Search embeds the query and returns the k nearest chunks in descending
// similarity. Every failure path resolves to an empty slice - the caller
// facing the user must never crash on a transient index error.
func (db *ClientHolder) Search(ctx context.Context, query string, k int) []docmodel.SearchHit {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	vector, err := db.embedder.GetEmbedding(ctx, query)
	if err != nil {
		loggr.Error("Search embedding failed", "error", err)
		return []docmodel.SearchHit{}
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return []docmodel.SearchHit{}
	}

	hits := make([]docmodel.SearchHit, 0, len(result))
	for _, point := range result {
		hits = append(hits, docmodel.SearchHit{
			Id:         point.Id.GetUuid(),
			Similarity: vectorDB.ClampSimilarity(float64(point.Score)),
			Text:       point.Payload["content"].GetStringValue(),
			Meta: docmodel.ChunkMeta{
				SourceDocument: point.Payload["source_document"].GetStringValue(),
				Sequence:       int(point.Payload["chunk"].GetIntegerValue()),
			},
		})
	}

	loggr.Debug("Search finished", "hits", len(hits))
	return hits
}

func (db *ClientHolder) deleteByIds(ctx context.Context, ids []string) error {
	pointIds := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIds[i] = qdrant.NewID(id)
	}
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelector(pointIds...),
		Wait:           qdrant.PtrOf(true),
	})
	return err
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
