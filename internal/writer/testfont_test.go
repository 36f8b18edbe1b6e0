package writer

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/nick-we/typescript-pdf-sub003/internal/fonts"
)

// buildWriterTestFont assembles a minimal three-glyph TrueType font: 'A'
// maps to glyph 1 and 'B' to glyph 2 through a format 6 cmap. It carries no
// outline tables, which the font pipeline treats as empty glyphs; the
// writer tests only care about dictionaries and streams, not shapes.
func buildWriterTestFont(t *testing.T) []byte {
	t.Helper()

	put16 := binary.BigEndian.PutUint16
	put32 := binary.BigEndian.PutUint32

	head := make([]byte, 54)
	put32(head[0:], 0x00010000)
	put32(head[12:], 0x5F0F3CF5)
	put16(head[18:], 1000) // unitsPerEm

	hhea := make([]byte, 36)
	put32(hhea[0:], 0x00010000)
	put16(hhea[4:], 750) // ascender
	descender := int16(-250)
	put16(hhea[6:], uint16(descender))
	put16(hhea[34:], 3) // numOfLongHorMetrics

	maxp := make([]byte, 32)
	put32(maxp[0:], 0x00010000)
	put16(maxp[4:], 3)

	hmtx := make([]byte, 12)
	put16(hmtx[0:], 500)
	put16(hmtx[4:], 600)
	put16(hmtx[8:], 640)

	// One format 6 subtable: codes 'A'..'B' map to glyphs 1..2.
	cmap := make([]byte, 12+18)
	put16(cmap[2:], 1)
	put16(cmap[4:], 3) // platform: Microsoft
	put16(cmap[6:], 1) // encoding: Unicode BMP
	put32(cmap[8:], 12)
	sub := cmap[12:]
	put16(sub[0:], 6)
	put16(sub[2:], 18)
	put16(sub[6:], 'A') // firstCode
	put16(sub[8:], 2)   // entryCount
	put16(sub[10:], 1)
	put16(sub[12:], 2)

	psName := "WriterTest"
	nameStr := make([]byte, len(psName)*2)
	for i, c := range []byte(psName) {
		nameStr[i*2+1] = c
	}
	name := make([]byte, 18+len(nameStr))
	put16(name[2:], 1)
	put16(name[4:], 18)
	put16(name[6:], 3) // platform: Microsoft
	put16(name[8:], 1)
	put16(name[12:], 6) // nameID: PostScript name
	put16(name[14:], uint16(len(nameStr)))
	copy(name[18:], nameStr)

	tables := []struct {
		tag  string
		data []byte
	}{
		{"cmap", cmap},
		{"head", head},
		{"hhea", hhea},
		{"hmtx", hmtx},
		{"maxp", maxp},
		{"name", name},
	}

	var buf bytes.Buffer
	header := make([]byte, 12)
	put32(header[0:], 0x00010000)
	put16(header[4:], uint16(len(tables)))
	buf.Write(header)

	offset := 12 + 16*len(tables)
	for _, tbl := range tables {
		entry := make([]byte, 16)
		copy(entry, tbl.tag)
		put32(entry[8:], uint32(offset))
		put32(entry[12:], uint32(len(tbl.data)))
		buf.Write(entry)
		offset += (len(tbl.data) + 3) &^ 3
	}
	for _, tbl := range tables {
		buf.Write(tbl.data)
		if pad := (4 - len(tbl.data)%4) % 4; pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}

	return buf.Bytes()
}

// newTestEmbeddedFont parses the writer test font and collects chars on a
// fresh subset.
func newTestEmbeddedFont(t *testing.T, chars string) *EmbeddedFont {
	t.Helper()

	parser, err := fonts.NewTTFParser(buildWriterTestFont(t))
	if err != nil {
		t.Fatalf("parse writer test font: %v", err)
	}
	subset := fonts.NewFontSubset(parser)
	subset.AddString(chars)

	return &EmbeddedFont{
		Parser: parser,
		Subset: subset,
		ID:     parser.FontName(),
	}
}
