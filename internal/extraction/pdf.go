package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads every page's plain text. The PDF parser panics on some
// malformed inputs; those are reported as parse failures.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = newError(KindPDF, ReasonParseFailed, fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	if len(data) == 0 {
		return "", newError(KindPDF, ReasonEmptyText, fmt.Errorf("empty buffer"))
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newError(KindPDF, ReasonParseFailed, err)
	}

	var sb strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Keep going; one unreadable page should not sink the document
			continue
		}

		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}

	text = Normalize(sb.String())
	if text == "" {
		return "", newError(KindPDF, ReasonEmptyText, nil)
	}
	return text, nil
}
