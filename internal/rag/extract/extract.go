package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

var logger = logger_i.NewLogger("Extractor")

// DocTypeFor maps a file name to the extraction route. ERR means the upload
// handler rejects the file before it ever reaches Extract.
func DocTypeFor(name string) docmodel.DocType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return docmodel.PDF
	case ".docx", ".odt", ".rtf":
		return docmodel.DOCX
	case ".csv":
		return docmodel.CSV
	case ".txt":
		return docmodel.TXT
	default:
		return docmodel.ERR
	}
}

// Extract converts raw file bytes into plain text. It is a pure transform:
// no side effects beyond logging, and a failure of one file must never stop
// a batch, so callers treat the returned ExtractionError as per-file.
func Extract(data []byte, docType docmodel.DocType) (string, error) {
	switch docType {
	case docmodel.PDF:
		return extractPDF(data)
	case docmodel.DOCX:
		return extractOffice(data)
	case docmodel.CSV:
		return extractCSV(data)
	case docmodel.TXT:
		return extractTXT(data), nil
	default:
		return "", &docmodel.ExtractionError{
			FileType: docType,
			Err:      fmt.Errorf("unsupported content type: %s", docType),
		}
	}
}

// extractTXT decodes lossily, dropping undecodable byte sequences instead of
// failing.
func extractTXT(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
