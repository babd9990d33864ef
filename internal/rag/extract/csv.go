package extract

import (
	"bytes"
	"encoding/csv"
	"strings"
	"text/tabwriter"

	"github.com/saitejab/docuquery/internal/domain/docmodel"
)

// extractCSV parses strictly first, then retries tolerating malformed bytes
// and ragged rows. If neither pass can parse the data the file fails loudly
// instead of indexing as empty text.
func extractCSV(data []byte) (string, error) {
	records, err := parseCSV(data, false)
	if err != nil {
		logger.Warn("strict csv parse failed, retrying lossy", "error", err)
		records, err = parseCSV([]byte(strings.ToValidUTF8(string(data), "")), true)
	}
	if err != nil {
		logger.Error("csv extraction failed", "error", err)
		return "", &docmodel.ExtractionError{FileType: docmodel.CSV, Err: err}
	}

	return renderTable(records), nil
}

func parseCSV(data []byte, lenient bool) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	if lenient {
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1
	}
	return reader.ReadAll()
}

// renderTable formats all cells as strings in whitespace-aligned columns.
func renderTable(records [][]string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, record := range records {
		for i, cell := range record {
			if i > 0 {
				w.Write([]byte("\t"))
			}
			w.Write([]byte(cell))
		}
		w.Write([]byte("\n"))
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}
