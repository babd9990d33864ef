package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/saitejab/docuquery/pkg/logger_i"
)

// Sink records operational errors and answered queries. Append-only and
// best effort: a sink failure must never abort the operation that logged.
type Sink interface {
	LogError(message string)
	LogQuery(query string, answer string)
}

const (
	errorLogName = "error_warning.log"
	queryLogName = "query_response.log"
)

type FileSink struct {
	mu        sync.Mutex
	errorFile *os.File
	queryFile *os.File
	logger    *logger_i.Logger
}

// NewFileSink opens the two audit logs in dir, creating the directory if
// needed. O_APPEND keeps previously committed lines intact across crashes.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	errorFile, err := os.OpenFile(filepath.Join(dir, errorLogName), flags, 0640)
	if err != nil {
		return nil, err
	}
	queryFile, err := os.OpenFile(filepath.Join(dir, queryLogName), flags, 0640)
	if err != nil {
		errorFile.Close()
		return nil, err
	}

	return &FileSink{
		errorFile: errorFile,
		queryFile: queryFile,
		logger:    logger_i.NewLogger("Audit"),
	}, nil
}

func (s *FileSink) LogError(message string) {
	s.append(s.errorFile, fmt.Sprintf("%s - ERROR - %s\n", timestamp(), message))
}

func (s *FileSink) LogQuery(query string, answer string) {
	s.append(s.queryFile, fmt.Sprintf("%s - QUERY: Query: %s | Answer: %s\n", timestamp(), query, answer))
}

func (s *FileSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorFile.Close()
	s.queryFile.Close()
}

func (s *FileSink) append(f *os.File, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := f.WriteString(line); err != nil {
		s.logger.Error("audit write failed", "error", err)
	}
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
