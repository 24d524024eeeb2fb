package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-screener/internal/types"
)

func TestNewMetadata(t *testing.T) {
	doc := types.RawDocument{Data: []byte("hello"), Filename: "cv.PDF"}

	meta := NewMetadata(doc, "Jane Doe\nSoftware Engineer")

	assert.Equal(t, "cv.PDF", meta.Filename)
	assert.Equal(t, "pdf", meta.Format)
	assert.Equal(t, 5, meta.SizeBytes)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", meta.SHA256)
	assert.Equal(t, 4, meta.WordCount)
	assert.False(t, meta.ExtractedAt.IsZero())
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount(" \n\t "))
	assert.Equal(t, 3, WordCount("one  two\nthree"))
}
