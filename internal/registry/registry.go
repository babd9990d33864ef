package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

// Store is the document registry: one JSON record per indexed document,
// addressable by file name.
type Store struct {
	mu       sync.Mutex
	filePath string
	logger   *logger_i.Logger
}

func NewStore(filePath string) *Store {
	return &Store{
		filePath: filePath,
		logger:   logger_i.NewLogger("DocRegistry"),
	}
}

func (s *Store) Add(name string, storagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.load()
	docs = append(docs, docmodel.Document{
		Name:        name,
		StoragePath: storagePath,
		CreatedAt:   time.Now(),
	})
	return s.save(docs)
}

// List returns records in insertion order. A missing or unreadable file
// reads as an empty registry.
func (s *Store) List() []docmodel.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.load()
	kept := docs[:0]
	for _, d := range docs {
		if d.Name != name {
			kept = append(kept, d)
		}
	}
	return s.save(kept)
}

// Get looks a record up by document name.
func (s *Store) Get(name string) (docmodel.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.load() {
		if d.Name == name {
			return d, true
		}
	}
	return docmodel.Document{}, false
}

func (s *Store) load() []docmodel.Document {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed loading indexed docs", "error", err)
		}
		return []docmodel.Document{}
	}

	var docs []docmodel.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		s.logger.Error("Registry file corrupt, treating as empty", "error", err)
		return []docmodel.Document{}
	}
	return docs
}

// save writes through a temp file and renames it in, so a crash mid-write
// cannot corrupt the committed registry.
func (s *Store) save(docs []docmodel.Document) error {
	data, err := json.MarshalIndent(docs, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	tmp, err := os.CreateTemp(dir, ".indexed_docs-*.json")
	if err != nil {
		return fmt.Errorf("registry temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("registry write: %w", err)
	}
	tmp.Close()

	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("registry rename: %w", err)
	}
	return nil
}
