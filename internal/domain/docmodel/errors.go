package docmodel

import "fmt"

// ExtractionError wraps a per-file extraction failure. Callers indexing a
// batch skip the file and keep going.
type ExtractionError struct {
	FileType DocType
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.FileType, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IndexError wraps an embedding or storage failure inside the vector index.
// The index logs these and degrades to empty results or a no-op.
type IndexError struct {
	Op  string
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s failed: %v", e.Op, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// ProviderError means a generation or embedding backend was unreachable or
// misconfigured. Ask degrades to fallback or abstention on these.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ConsistencyError records which deletion step left the registry, the index
// and the stored file disagreeing about a document. Never swallowed.
type ConsistencyError struct {
	Document string
	Step     string
	Err      error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("document %q inconsistent after failed %s step: %v", e.Document, e.Step, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }
