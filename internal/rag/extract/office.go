package extract

import (
	"os"
	"regexp"
	"strings"

	"github.com/lu4p/cat"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// extractOffice handles docx, odt and rtf. cat dispatches on the file
// extension, so the bytes go through a temp file.
func extractOffice(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "docuquery-*.docx")
	if err != nil {
		return "", &docmodel.ExtractionError{FileType: docmodel.DOCX, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", &docmodel.ExtractionError{FileType: docmodel.DOCX, Err: err}
	}
	tmp.Close()

	text, err := cat.File(tmp.Name())
	if err != nil {
		logger.Error("Error extracting content from doc", "error", err)
		return "", &docmodel.ExtractionError{FileType: docmodel.DOCX, Err: err}
	}

	return collapseParagraphs(text), nil
}

// collapseParagraphs squeezes whitespace runs inside each paragraph to one
// space, drops paragraphs that end up empty and rejoins with newlines.
func collapseParagraphs(text string) string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		p := strings.TrimSpace(whitespaceRun.ReplaceAllString(line, " "))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n")
}
