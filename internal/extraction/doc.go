package extraction

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

const (
	wordDocumentStream = "WordDocument"
	wordFIBIdent       = 0xA5EC

	fibFlagEncrypted  = 0x0100
	fibFlagWhichTable = 0x0200

	// fcClx is the 34th FcLcb pair of FibRgFcLcb97
	fcClxPairIndex = 33

	pieceCompressed = 0x40000000

	// printable runs shorter than this are dropped by the fallback scanner
	minFallbackRun = 6
)

var (
	errMissingWordStream = errors.New("WordDocument stream not found")
	errEncryptedDocument = errors.New("document is encrypted")
	errInvalidFIB        = errors.New("invalid file information block")
	errInvalidPieceTable = errors.New("invalid piece table")
)

// WordText holds the text stories of a Word 97-2003 document
type WordText struct {
	Body      string
	Footnotes string
	Headers   string // headers and footers share one story
	Textboxes string
	// Fallback is printable text scraped from the raw stream, only filled
	// when the piece table could not be decoded
	Fallback string
}

// Combined joins the non-blank stories with blank-line separators
func (w *WordText) Combined() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{w.Body, w.Footnotes, w.Headers, w.Textboxes, w.Fallback} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, "\n\n")
}

// WordExtractor reads a legacy Word document from a file on disk
type WordExtractor interface {
	ExtractFile(ctx context.Context, path string) (*WordText, error)
}

// compoundWordExtractor decodes the OLE compound file directly
type compoundWordExtractor struct{}

// NewWordExtractor returns the built-in Word 97-2003 text extractor
func NewWordExtractor() WordExtractor {
	return compoundWordExtractor{}
}

func (compoundWordExtractor) ExtractFile(ctx context.Context, path string) (*WordText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := mscfb.New(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read compound file: %w", err)
	}

	streams := make(map[string][]byte)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case wordDocumentStream, "0Table", "1Table":
			data, readErr := io.ReadAll(entry)
			if readErr != nil {
				return nil, fmt.Errorf("failed to read %s stream: %w", entry.Name, readErr)
			}
			streams[entry.Name] = data
		}
	}

	wordDoc, ok := streams[wordDocumentStream]
	if !ok {
		return nil, errMissingWordStream
	}

	fib, err := parseFIB(wordDoc)
	if err != nil {
		return nil, err
	}

	units, err := readPieceTable(wordDoc, streams[fib.tableStream()], fib)
	if err != nil {
		return &WordText{Fallback: scanPrintable(wordDoc)}, nil
	}

	stories := splitStories(units, []uint32{fib.ccpText, fib.ccpFtn, fib.ccpHdd, fib.ccpAtn, fib.ccpEdn, fib.ccpTxbx, fib.ccpHdrTxbx})
	return &WordText{
		Body:      stories[0],
		Footnotes: joinNonBlank(stories[1], stories[4]),
		Headers:   stories[2],
		Textboxes: joinNonBlank(stories[5], stories[6]),
	}, nil
}

// fib is the subset of the File Information Block needed to locate text
type fib struct {
	flags      uint16
	ccpText    uint32
	ccpFtn     uint32
	ccpHdd     uint32
	ccpAtn     uint32
	ccpEdn     uint32
	ccpTxbx    uint32
	ccpHdrTxbx uint32
	fcClx      uint32
	lcbClx     uint32
}

func (f fib) tableStream() string {
	if f.flags&fibFlagWhichTable != 0 {
		return "1Table"
	}
	return "0Table"
}

func parseFIB(data []byte) (fib, error) {
	var out fib
	if len(data) < 34 || binary.LittleEndian.Uint16(data[0:2]) != wordFIBIdent {
		return out, errInvalidFIB
	}

	out.flags = binary.LittleEndian.Uint16(data[0x0A:])
	if out.flags&fibFlagEncrypted != 0 {
		return out, errEncryptedDocument
	}

	csw := int(binary.LittleEndian.Uint16(data[32:]))
	pos := 34 + csw*2
	if len(data) < pos+2 {
		return out, errInvalidFIB
	}
	cslw := int(binary.LittleEndian.Uint16(data[pos:]))
	lw := pos + 2
	if cslw < 11 || len(data) < lw+cslw*4+2 {
		return out, errInvalidFIB
	}

	out.ccpText = binary.LittleEndian.Uint32(data[lw+12:])
	out.ccpFtn = binary.LittleEndian.Uint32(data[lw+16:])
	out.ccpHdd = binary.LittleEndian.Uint32(data[lw+20:])
	out.ccpAtn = binary.LittleEndian.Uint32(data[lw+28:])
	out.ccpEdn = binary.LittleEndian.Uint32(data[lw+32:])
	out.ccpTxbx = binary.LittleEndian.Uint32(data[lw+36:])
	out.ccpHdrTxbx = binary.LittleEndian.Uint32(data[lw+40:])

	pos = lw + cslw*4
	pairs := int(binary.LittleEndian.Uint16(data[pos:]))
	rg := pos + 2
	clxAt := rg + fcClxPairIndex*8
	if pairs <= fcClxPairIndex || len(data) < clxAt+8 {
		return out, errInvalidFIB
	}
	out.fcClx = binary.LittleEndian.Uint32(data[clxAt:])
	out.lcbClx = binary.LittleEndian.Uint32(data[clxAt+4:])

	return out, nil
}

// readPieceTable walks the CLX in the table stream and returns the document
// text as UTF-16 code units in character-position order.
func readPieceTable(wordDoc, table []byte, f fib) ([]uint16, error) {
	start, end := int(f.fcClx), int(f.fcClx)+int(f.lcbClx)
	if f.lcbClx == 0 || start < 0 || end > len(table) || start >= end {
		return nil, errInvalidPieceTable
	}
	clx := table[start:end]

	for i := 0; i < len(clx); {
		switch clx[i] {
		case 0x01: // Prc, skipped
			if i+3 > len(clx) {
				return nil, errInvalidPieceTable
			}
			i += 3 + int(binary.LittleEndian.Uint16(clx[i+1:]))
		case 0x02: // Pcdt
			if i+5 > len(clx) {
				return nil, errInvalidPieceTable
			}
			lcb := int(binary.LittleEndian.Uint32(clx[i+1:]))
			if i+5+lcb > len(clx) {
				return nil, errInvalidPieceTable
			}
			return decodePieces(wordDoc, clx[i+5:i+5+lcb])
		default:
			return nil, errInvalidPieceTable
		}
	}
	return nil, errInvalidPieceTable
}

func decodePieces(wordDoc, plc []byte) ([]uint16, error) {
	if len(plc) < 16 || (len(plc)-4)%12 != 0 {
		return nil, errInvalidPieceTable
	}
	n := (len(plc) - 4) / 12
	pcdBase := 4 * (n + 1)

	var units []uint16
	for k := 0; k < n; k++ {
		cpStart := binary.LittleEndian.Uint32(plc[4*k:])
		cpEnd := binary.LittleEndian.Uint32(plc[4*(k+1):])
		if cpEnd < cpStart {
			return nil, errInvalidPieceTable
		}
		count := int(cpEnd - cpStart)
		fc := binary.LittleEndian.Uint32(plc[pcdBase+8*k+2:])

		if fc&pieceCompressed != 0 {
			offset := int((fc &^ pieceCompressed) / 2)
			if offset+count > len(wordDoc) {
				return nil, errInvalidPieceTable
			}
			for _, b := range wordDoc[offset : offset+count] {
				units = append(units, uint16(charmap.Windows1252.DecodeByte(b)))
			}
			continue
		}

		offset := int(fc)
		if offset+2*count > len(wordDoc) {
			return nil, errInvalidPieceTable
		}
		for j := 0; j < count; j++ {
			units = append(units, binary.LittleEndian.Uint16(wordDoc[offset+2*j:]))
		}
	}
	return units, nil
}

// splitStories cuts the character stream into consecutive stories of the given lengths
func splitStories(units []uint16, lengths []uint32) []string {
	stories := make([]string, len(lengths))
	pos := 0
	for i, length := range lengths {
		end := pos + int(length)
		if end > len(units) {
			end = len(units)
		}
		if pos < end {
			stories[i] = cleanWordText(string(utf16.Decode(units[pos:end])))
		}
		pos = end
	}
	return stories
}

// cleanWordText maps Word control characters to plain text and drops field instructions
func cleanWordText(s string) string {
	var sb strings.Builder
	// each open field is true once its separator has been seen (result text follows)
	var fields []bool
	visible := func() bool {
		for _, showing := range fields {
			if !showing {
				return false
			}
		}
		return true
	}

	for _, r := range s {
		switch r {
		case 0x13:
			fields = append(fields, false)
			continue
		case 0x14:
			if len(fields) > 0 {
				fields[len(fields)-1] = true
			}
			continue
		case 0x15:
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}
		if !visible() {
			continue
		}

		switch {
		case r == '\r' || r == 0x0B || r == 0x0C:
			sb.WriteByte('\n')
		case r == 0x07:
			sb.WriteByte('\t')
		case r == 0x1E:
			sb.WriteByte('-')
		case r == 0xA0:
			sb.WriteByte(' ')
		case r == '\t' || r == '\n':
			sb.WriteRune(r)
		case r < 0x20 || r == 0x1F:
			// picture anchors, optional hyphens and other markers
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// scanPrintable extracts runs of printable ASCII from a raw stream
func scanPrintable(data []byte) string {
	var runs []string
	var current strings.Builder

	flush := func() {
		if current.Len() >= minFallbackRun && strings.ContainsFunc(current.String(), isASCIILetter) {
			runs = append(runs, strings.TrimSpace(current.String()))
		}
		current.Reset()
	}

	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			current.WriteByte(b)
			continue
		}
		flush()
	}
	flush()

	return strings.Join(runs, "\n")
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func joinNonBlank(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, "\n\n")
}
