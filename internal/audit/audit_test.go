package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSink_Writes(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink failed: %v", err)
	}
	defer sink.Close()

	sink.LogError("no relevant context found")
	sink.LogQuery("what is the refund window?", "30 days")

	errorLog, err := os.ReadFile(filepath.Join(dir, "error_warning.log"))
	if err != nil {
		t.Fatalf("Reading error log: %v", err)
	}
	if !strings.Contains(string(errorLog), " - ERROR - no relevant context found") {
		t.Errorf("Unexpected error line: %q", string(errorLog))
	}

	queryLog, err := os.ReadFile(filepath.Join(dir, "query_response.log"))
	if err != nil {
		t.Fatalf("Reading query log: %v", err)
	}
	if !strings.Contains(string(queryLog), "QUERY: Query: what is the refund window? | Answer: 30 days") {
		t.Errorf("Unexpected query line: %q", string(queryLog))
	}
}

func TestFileSink_Appends(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	first.LogError("first run")
	first.Close()

	second, err := NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	second.LogError("second run")
	second.Close()

	data, err := os.ReadFile(filepath.Join(dir, "error_warning.log"))
	if err != nil {
		t.Fatal(err)
	}

	content := string(data)
	if !strings.Contains(content, "first run") || !strings.Contains(content, "second run") {
		t.Errorf("Reopening truncated the log: %q", content)
	}
	if got := strings.Count(content, "\n"); got != 2 {
		t.Errorf("Expected 2 lines, got %d", got)
	}
}

func TestFileSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink should create the directory: %v", err)
	}
	sink.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Log directory missing: %v", err)
	}
}
