package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-screener/internal/types"
)

// Extractor turns uploaded documents into normalized text. It is safe for
// concurrent use.
type Extractor struct {
	tempDir string
	logger  zerolog.Logger

	newWordExtractor func() (WordExtractor, error)
	wordOnce         sync.Once
	word             WordExtractor
	wordErr          error
}

// Option configures an Extractor
type Option func(*Extractor)

// WithTempDir sets the directory for scratch files. Empty means os.TempDir().
func WithTempDir(dir string) Option {
	return func(e *Extractor) {
		e.tempDir = dir
	}
}

// WithLogger sets the logger used to record extraction failures
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithWordExtractor injects the legacy .doc backend
func WithWordExtractor(w WordExtractor) Option {
	return func(e *Extractor) {
		e.newWordExtractor = func() (WordExtractor, error) { return w, nil }
	}
}

// WithWordExtractorFactory sets how the legacy .doc backend is built. The
// factory runs at most once, on the first .doc upload.
func WithWordExtractorFactory(factory func() (WordExtractor, error)) Option {
	return func(e *Extractor) {
		e.newWordExtractor = factory
	}
}

// New creates an Extractor
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger:           zerolog.Nop(),
		newWordExtractor: func() (WordExtractor, error) { return NewWordExtractor(), nil },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalized text of doc. Failures are *Error values
// for recognized formats, or ErrUnsupportedFormat.
func (e *Extractor) Extract(ctx context.Context, doc types.RawDocument) (string, error) {
	format := DetectFormat(doc.Filename, doc.MIMEType)

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(doc.Data)
	case FormatDOCX:
		text, err = extractDOCX(doc.Data)
	case FormatDOC:
		text, err = e.extractDOC(ctx, doc.Data)
	default:
		return "", ErrUnsupportedFormat
	}

	if err != nil {
		var extErr *Error
		if errors.As(err, &extErr) {
			e.logger.Warn().
				Str("filename", doc.Filename).
				Str("kind", string(extErr.Kind)).
				Str("reason", string(extErr.Reason)).
				AnErr("cause", extErr.Cause).
				Msg("text extraction failed")
		}
		return "", err
	}

	e.logger.Debug().
		Str("filename", doc.Filename).
		Str("format", string(format)).
		Int("chars", len(text)).
		Msg("text extracted")
	return text, nil
}

func (e *Extractor) wordExtractor() (WordExtractor, error) {
	e.wordOnce.Do(func() {
		e.word, e.wordErr = e.newWordExtractor()
		if e.wordErr == nil && e.word == nil {
			e.wordErr = errors.New("no word extractor configured")
		}
	})
	return e.word, e.wordErr
}

func (e *Extractor) extractDOC(ctx context.Context, data []byte) (text string, err error) {
	word, err := e.wordExtractor()
	if err != nil {
		return "", newError(KindDOC, ReasonDependencyMissing, err)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = newError(KindDOC, ReasonParseFailed, fmt.Errorf("word extractor panic: %v", r))
		}
	}()

	var raw string
	err = withScratchFile(e.tempDir, "resume-*.doc", data, func(path string) error {
		wt, extractErr := word.ExtractFile(ctx, path)
		if extractErr != nil {
			return extractErr
		}
		raw = wt.Combined()
		return nil
	})
	if err != nil {
		if errors.Is(err, errMissingWordStream) {
			return "", newError(KindDOC, ReasonMissingDocument, err)
		}
		return "", newError(KindDOC, ReasonParseFailed, err)
	}

	text = Normalize(raw)
	if text == "" {
		return "", newError(KindDOC, ReasonEmptyText, nil)
	}
	return text, nil
}

// withScratchFile writes data to a temporary file, runs fn on its path and
// always removes the file afterwards. Cleanup errors are ignored.
func withScratchFile(dir, pattern string, data []byte, fn func(path string) error) error {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("failed to create scratch file: %w", err)
	}
	path := f.Name()
	defer func() {
		_ = f.Close()
		_ = os.Remove(path)
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to flush scratch file: %w", err)
	}

	return fn(path)
}
