package extract

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
)

// extractPDF walks the document page by page. A broken page is logged and
// skipped, the rest of the document still indexes; only an unreadable file
// fails as a whole.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Error("failed opening pdf", "error", err)
		return "", &docmodel.ExtractionError{FileType: docmodel.PDF, Err: err}
	}

	var pages []string
	numPages := reader.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "null page", i)
			pages = append(pages, "")
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			logger.Error("Error parsing page content", "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}

// protectExtract bounds GetPlainText, which can hang on malformed content
// streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout", true)
		return "", errors.New("timeout")
	}
}
