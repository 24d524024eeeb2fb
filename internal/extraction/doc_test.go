package extraction

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWordStream lays out a minimal Word 97 FIB in a zeroed 1KiB stream
func buildWordStream(flags uint16, ccpText, ccpHdd, fcClx, lcbClx uint32) []byte {
	data := make([]byte, 1024)
	binary.LittleEndian.PutUint16(data[0:], wordFIBIdent)
	binary.LittleEndian.PutUint16(data[0x0A:], flags)
	binary.LittleEndian.PutUint16(data[32:], 14) // csw
	binary.LittleEndian.PutUint16(data[62:], 22) // cslw
	lw := 64
	binary.LittleEndian.PutUint32(data[lw+12:], ccpText)
	binary.LittleEndian.PutUint32(data[lw+20:], ccpHdd)
	binary.LittleEndian.PutUint16(data[lw+22*4:], 93) // cbRgFcLcb
	clxAt := lw + 22*4 + 2 + fcClxPairIndex*8
	binary.LittleEndian.PutUint32(data[clxAt:], fcClx)
	binary.LittleEndian.PutUint32(data[clxAt+4:], lcbClx)
	return data
}

type testPiece struct {
	cpStart, cpEnd uint32
	fc             uint32
}

// buildCLX encodes a Pcdt holding the given pieces, preceded by one Prc
func buildCLX(pieces []testPiece) []byte {
	plc := make([]byte, 0)
	for _, p := range pieces {
		plc = binary.LittleEndian.AppendUint32(plc, p.cpStart)
	}
	plc = binary.LittleEndian.AppendUint32(plc, pieces[len(pieces)-1].cpEnd)
	for _, p := range pieces {
		plc = append(plc, 0, 0)
		plc = binary.LittleEndian.AppendUint32(plc, p.fc)
		plc = append(plc, 0, 0)
	}

	clx := []byte{0x01, 0x02, 0x00, 0xAA, 0xBB} // Prc with two bytes of grpprl
	clx = append(clx, 0x02)
	clx = binary.LittleEndian.AppendUint32(clx, uint32(len(plc)))
	return append(clx, plc...)
}

func TestParseFIB(t *testing.T) {
	data := buildWordStream(fibFlagWhichTable, 42, 7, 100, 20)

	f, err := parseFIB(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), f.ccpText)
	assert.Equal(t, uint32(7), f.ccpHdd)
	assert.Equal(t, uint32(100), f.fcClx)
	assert.Equal(t, uint32(20), f.lcbClx)
	assert.Equal(t, "1Table", f.tableStream())
}

func TestParseFIB_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected error
	}{
		{name: "too short", data: []byte{0xEC, 0xA5}, expected: errInvalidFIB},
		{name: "wrong ident", data: make([]byte, 512), expected: errInvalidFIB},
		{name: "encrypted", data: buildWordStream(fibFlagEncrypted, 1, 0, 0, 0), expected: errEncryptedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFIB(tt.data)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestReadPieceTable_MixedPieces(t *testing.T) {
	wordDoc := buildWordStream(0, 0, 0, 0, 0)

	// compressed piece: "Résumé\r" as cp1252 bytes at offset 600
	compressed := []byte{'R', 0xE9, 's', 'u', 'm', 0xE9, '\r'}
	copy(wordDoc[600:], compressed)

	// unicode piece: "Go ✓" at offset 700
	unicode := utf16.Encode([]rune("Go ✓"))
	for i, u := range unicode {
		binary.LittleEndian.PutUint16(wordDoc[700+2*i:], u)
	}

	table := buildCLX([]testPiece{
		{cpStart: 0, cpEnd: 7, fc: pieceCompressed | 1200},
		{cpStart: 7, cpEnd: 11, fc: 700},
	})

	units, err := readPieceTable(wordDoc, table, fib{fcClx: 0, lcbClx: uint32(len(table))})
	require.NoError(t, err)
	assert.Equal(t, "Résumé\rGo ✓", string(utf16.Decode(units)))
}

func TestReadPieceTable_Invalid(t *testing.T) {
	wordDoc := make([]byte, 64)

	tests := []struct {
		name  string
		table []byte
		f     fib
	}{
		{name: "empty clx", table: []byte{}, f: fib{}},
		{name: "out of range", table: []byte{0x02}, f: fib{fcClx: 0, lcbClx: 10}},
		{name: "unknown marker", table: []byte{0x07, 0, 0, 0}, f: fib{lcbClx: 4}},
		{
			name:  "piece beyond stream",
			table: buildCLX([]testPiece{{cpStart: 0, cpEnd: 50, fc: 40}}),
		},
	}
	tests[3].f = fib{lcbClx: uint32(len(tests[3].table))}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readPieceTable(wordDoc, tt.table, tt.f)
			assert.ErrorIs(t, err, errInvalidPieceTable)
		})
	}
}

func TestSplitStories(t *testing.T) {
	units := utf16.Encode([]rune("Body text\rHeader\r"))

	stories := splitStories(units, []uint32{10, 0, 7, 0})
	assert.Equal(t, []string{"Body text\n", "", "Header\n", ""}, stories)
}

func TestCleanWordText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "paragraph marks", input: "a\rb\x0bc", expected: "a\nb\nc"},
		{name: "cell marks", input: "Name\x07Role\x07", expected: "Name\tRole\t"},
		{name: "field keeps result", input: "see \x13 HYPERLINK \"x\" \x14site\x15 now", expected: "see site now"},
		{name: "field without result", input: "page \x13 PAGE \x15end", expected: "page end"},
		{name: "nested field", input: "\x13 A \x13 B \x14b\x15 \x14outer\x15", expected: "outer"},
		{name: "nbsp and hyphen", input: "a\u00a0b\x1ec", expected: "a b-c"},
		{name: "drops other controls", input: "x\x01y\x1fz", expected: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanWordText(tt.input))
		})
	}
}

func TestWordText_Combined(t *testing.T) {
	wt := &WordText{Body: " Body ", Footnotes: "\n", Headers: "Header", Fallback: "raw"}
	assert.Equal(t, "Body\n\nHeader\n\nraw", wt.Combined())
}

func TestScanPrintable(t *testing.T) {
	data := append([]byte{0, 1, 2}, []byte("Senior Engineer")...)
	data = append(data, 0, 0, '1', '2', '3', '4', '5', '6', '7', 0)
	data = append(data, []byte("ab")...)

	assert.Equal(t, "Senior Engineer", scanPrintable(data))
}

const (
	cfbSectorSize = 512
	cfbStreamSize = 4096 // at the mini stream cutoff, so streams use regular sectors
	cfbEndOfChain = 0xFFFFFFFE
	cfbFreeSect   = 0xFFFFFFFF
	cfbFATSect    = 0xFFFFFFFD
	cfbNoStream   = 0xFFFFFFFF
)

// buildCompoundFile lays out a version 3 compound file holding the named
// streams, each padded to cfbStreamSize. Sector 0 is the FAT, sector 1 the
// directory, and the streams follow in order.
func buildCompoundFile(t *testing.T, names []string, streams map[string][]byte) []byte {
	t.Helper()
	require.LessOrEqual(t, len(names), 3, "one directory sector holds the root and three streams")

	sectorsPerStream := cfbStreamSize / cfbSectorSize
	totalSectors := 2 + len(names)*sectorsPerStream
	out := make([]byte, cfbSectorSize*(1+totalSectors))

	header := out[:cfbSectorSize]
	binary.LittleEndian.PutUint64(header[0:], 0xE11AB1A1E011CFD0)
	binary.LittleEndian.PutUint16(header[24:], 0x003E)
	binary.LittleEndian.PutUint16(header[26:], 3)
	binary.LittleEndian.PutUint16(header[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(header[30:], 9)
	binary.LittleEndian.PutUint16(header[32:], 6)
	binary.LittleEndian.PutUint32(header[44:], 1) // FAT sectors
	binary.LittleEndian.PutUint32(header[48:], 1) // directory sector
	binary.LittleEndian.PutUint32(header[56:], cfbStreamSize)
	binary.LittleEndian.PutUint32(header[60:], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[68:], cfbEndOfChain)
	for i := 76; i < cfbSectorSize; i += 4 {
		binary.LittleEndian.PutUint32(header[i:], cfbFreeSect)
	}
	binary.LittleEndian.PutUint32(header[76:], 0)

	sector := func(n int) []byte {
		return out[cfbSectorSize*(n+1) : cfbSectorSize*(n+2)]
	}

	fat := sector(0)
	for i := 0; i < cfbSectorSize/4; i++ {
		binary.LittleEndian.PutUint32(fat[4*i:], cfbFreeSect)
	}
	binary.LittleEndian.PutUint32(fat[0:], cfbFATSect)
	binary.LittleEndian.PutUint32(fat[4:], cfbEndOfChain)

	dir := sector(1)
	writeEntry := func(index int, name string, objectType byte, right, child, start, size uint32) {
		entry := dir[128*index : 128*(index+1)]
		units := utf16.Encode([]rune(name))
		for i, u := range units {
			binary.LittleEndian.PutUint16(entry[2*i:], u)
		}
		binary.LittleEndian.PutUint16(entry[64:], uint16(2*(len(units)+1)))
		entry[66] = objectType
		entry[67] = 1 // black
		binary.LittleEndian.PutUint32(entry[68:], cfbNoStream)
		binary.LittleEndian.PutUint32(entry[72:], right)
		binary.LittleEndian.PutUint32(entry[76:], child)
		binary.LittleEndian.PutUint32(entry[116:], start)
		binary.LittleEndian.PutUint32(entry[120:], size)
	}
	writeEntry(0, "Root Entry", 5, cfbNoStream, 1, cfbEndOfChain, 0)

	for i, name := range names {
		data := streams[name]
		require.LessOrEqual(t, len(data), cfbStreamSize)

		first := 2 + i*sectorsPerStream
		for k := 0; k < sectorsPerStream; k++ {
			next := uint32(first + k + 1)
			if k == sectorsPerStream-1 {
				next = cfbEndOfChain
			}
			binary.LittleEndian.PutUint32(fat[4*(first+k):], next)
		}
		copy(out[cfbSectorSize*(first+1):], data)

		right := uint32(cfbNoStream)
		if i < len(names)-1 {
			right = uint32(i + 2)
		}
		writeEntry(i+1, name, 2, right, cfbNoStream, uint32(first), cfbStreamSize)
	}
	return out
}

// buildWordDocument encodes body as one cp1252 piece of a Word 97 document
func buildWordDocument(t *testing.T, body string) []byte {
	t.Helper()

	const textOffset = 2048
	wordDoc := make([]byte, cfbStreamSize)
	table := buildCLX([]testPiece{{cpStart: 0, cpEnd: uint32(len(body)), fc: pieceCompressed | textOffset*2}})
	copy(wordDoc, buildWordStream(0, uint32(len(body)), 0, 0, uint32(len(table))))
	copy(wordDoc[textOffset:], body)

	return buildCompoundFile(t, []string{wordDocumentStream, "0Table"}, map[string][]byte{
		wordDocumentStream: wordDoc,
		"0Table":           table,
	})
}

func TestCompoundWordExtractor_ExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.doc")
	require.NoError(t, os.WriteFile(path, buildWordDocument(t, "Jane Doe\rExperience\rEducation\rSkills\r"), 0o600))

	wt, err := NewWordExtractor().ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nExperience\nEducation\nSkills\n", wt.Body)
	assert.Empty(t, wt.Fallback)
	assert.Equal(t, "Jane Doe\nExperience\nEducation\nSkills", wt.Combined())
}

func TestCompoundWordExtractor_MissingWordStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.doc")
	data := buildCompoundFile(t, []string{"Contents"}, map[string][]byte{"Contents": []byte("not a word document")})
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := NewWordExtractor().ExtractFile(context.Background(), path)
	assert.ErrorIs(t, err, errMissingWordStream)
}

func TestCompoundWordExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWordExtractor().ExtractFile(ctx, filepath.Join(t.TempDir(), "unused.doc"))
	assert.ErrorIs(t, err, context.Canceled)
}
