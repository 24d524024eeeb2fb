package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// extractDOCX pulls raw text out of word/document.xml: paragraphs become
// lines, tabs and breaks are kept, all formatting is dropped.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", newError(KindDOCX, ReasonParseFailed, err)
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", newError(KindDOCX, ReasonMissingDocument, fmt.Errorf("%s not found in archive", docxBodyPart))
	}

	rc, err := body.Open()
	if err != nil {
		return "", newError(KindDOCX, ReasonParseFailed, err)
	}
	defer func() { _ = rc.Close() }()

	raw, err := readWordprocessingML(rc)
	if err != nil {
		return "", newError(KindDOCX, ReasonParseFailed, err)
	}

	text := Normalize(raw)
	if text == "" {
		return "", newError(KindDOCX, ReasonEmptyText, nil)
	}
	return text, nil
}

// readWordprocessingML walks the XML token stream collecting w:t text runs
func readWordprocessingML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	inTabStops := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document XML: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tabs":
				inTabStops = true
			case "tab":
				if !inTabStops {
					sb.WriteByte('\t')
				}
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabStops = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}

	return sb.String(), nil
}
