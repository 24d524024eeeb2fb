package extraction

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jonathan/resume-screener/internal/types"
)

// NewMetadata describes a successfully extracted document
func NewMetadata(doc types.RawDocument, text string) types.DocumentMetadata {
	return types.DocumentMetadata{
		Filename:    doc.Filename,
		Format:      string(DetectFormat(doc.Filename, doc.MIMEType)),
		SizeBytes:   len(doc.Data),
		SHA256:      computeHash(doc.Data),
		WordCount:   WordCount(text),
		ExtractedAt: time.Now().UTC(),
	}
}

// WordCount counts whitespace-separated tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func computeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
