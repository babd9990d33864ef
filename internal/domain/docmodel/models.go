package docmodel

import "time"

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	CSV  DocType = "CSV"
	TXT  DocType = "TXT"
	ERR  DocType = "ERROR"
)

// Document is one logical upload. Identity is the file name, which is also
// the key every chunk carries back to it.
type Document struct {
	Name        string    `json:"name"`
	StoragePath string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
	ContentType DocType   `json:"content_type,omitempty"`
}

// ChunkMeta is the payload stored next to each chunk vector.
type ChunkMeta struct {
	SourceDocument string `json:"source_document"`
	Sequence       int    `json:"chunk"`
}

// Chunk is a contiguous word window of a document, immutable once indexed.
// Updates are delete plus reinsert under a fresh id.
type Chunk struct {
	Id   string
	Text string
	Meta ChunkMeta
}

// SearchHit is a transient per-query result, similarity already clamped
// to [0,1].
type SearchHit struct {
	Id         string
	Similarity float64
	Text       string
	Meta       ChunkMeta
}

type SourceRef struct {
	Id         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// QueryResult is what Ask always resolves to, on every path.
type QueryResult struct {
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
}
