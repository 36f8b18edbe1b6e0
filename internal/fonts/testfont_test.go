package fonts

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// A hand-assembled eight-glyph TrueType font used across the package tests.
//
// Glyph layout:
//
//	0: notdef (simple outline)
//	1: 'A' and '0' (via format 4)
//	2: 'B' and '1'
//	3: 'C', '2' and 'a' (via format 0)
//	4: 'Z', a composite referencing glyph 5
//	5: component-only glyph, reachable through no character
//	6: 'F' and U+1F600 (via format 12)
//	7: 'G' and U+1F601
//
// The cmap carries three subtables so the merge rules are observable: a
// format 0 table deliberately maps 'A' to the wrong glyph first, and the
// later format 4 table corrects it.
const (
	testUnitsPerEm = 1000
	testAscent     = 718
	testDescent    = -207
	testLineGap    = 20
	testNumGlyphs  = 8
)

var testAdvances = [testNumGlyphs]uint16{500, 600, 650, 700, 750, 400, 550, 560}
var testBearings = [testNumGlyphs]int16{0, 10, 12, 14, 16, 5, 18, 20}

func put16(b []byte, off int, v uint16) { binary.BigEndian.PutUint16(b[off:], v) }
func put32(b []byte, off int, v uint32) { binary.BigEndian.PutUint32(b[off:], v) }
func puti16(b []byte, off int, v int16) { binary.BigEndian.PutUint16(b[off:], uint16(v)) }

func buildHeadTable() []byte {
	head := make([]byte, 54)
	put32(head, 0, 0x00010000)
	put32(head, 12, ttfMagicNumber)
	put16(head, 18, testUnitsPerEm)
	puti16(head, 36, -50)  // xMin
	puti16(head, 38, -200) // yMin
	puti16(head, 40, 900)  // xMax
	puti16(head, 42, 800)  // yMax
	put16(head, 46, 8)     // lowestRecPPEM
	puti16(head, 48, 2)    // fontDirectionHint
	put16(head, 50, 0)     // indexToLocFormat: short
	return head
}

func buildHheaTable() []byte {
	hhea := make([]byte, 36)
	put32(hhea, 0, 0x00010000)
	puti16(hhea, 4, testAscent)
	puti16(hhea, 6, testDescent)
	puti16(hhea, 8, testLineGap)
	put16(hhea, 10, 750) // advanceWidthMax
	put16(hhea, 34, testNumGlyphs)
	return hhea
}

func buildMaxpTable() []byte {
	maxp := make([]byte, 32)
	put32(maxp, 0, 0x00010000)
	put16(maxp, 4, testNumGlyphs)
	return maxp
}

func buildHmtxTable() []byte {
	hmtx := make([]byte, testNumGlyphs*4)
	for gid := 0; gid < testNumGlyphs; gid++ {
		put16(hmtx, gid*4, testAdvances[gid])
		puti16(hmtx, gid*4+2, testBearings[gid])
	}
	return hmtx
}

// simpleTestGlyph returns a minimal single-contour glyph body: the tests
// only ever read its 10-byte header.
func simpleTestGlyph(xMin, yMin, xMax, yMax int16) []byte {
	g := make([]byte, 12)
	puti16(g, 0, 1)
	puti16(g, 2, xMin)
	puti16(g, 4, yMin)
	puti16(g, 6, xMax)
	puti16(g, 8, yMax)
	return g
}

// compositeTestGlyph references component with word arguments and no more
// components following.
func compositeTestGlyph(component uint16) []byte {
	g := make([]byte, 18)
	puti16(g, 0, -1)
	puti16(g, 2, 0)
	puti16(g, 4, 0)
	puti16(g, 6, 700)
	puti16(g, 8, 700)
	put16(g, 10, compArg1And2AreWords)
	put16(g, 12, component)
	return g
}

func buildGlyfAndLocaTables() (glyf, loca []byte) {
	glyphs := [][]byte{
		simpleTestGlyph(0, 0, 500, 700),
		simpleTestGlyph(10, 0, 600, 700),
		simpleTestGlyph(12, 0, 650, 700),
		simpleTestGlyph(14, 0, 700, 700),
		compositeTestGlyph(5),
		simpleTestGlyph(5, 0, 400, 500),
		simpleTestGlyph(18, 0, 550, 700),
		simpleTestGlyph(20, 0, 560, 700),
	}

	var buf bytes.Buffer
	offsets := make([]int, 0, len(glyphs)+1)
	for _, g := range glyphs {
		offsets = append(offsets, buf.Len())
		buf.Write(g)
	}
	offsets = append(offsets, buf.Len())

	loca = make([]byte, len(offsets)*2)
	for i, off := range offsets {
		put16(loca, i*2, uint16(off/2))
	}
	return buf.Bytes(), loca
}

func buildCmapTable() []byte {
	// format 0: byte encoding. 'A' maps to glyph 2 here on purpose; the
	// format 4 table parsed after it overwrites the entry with glyph 1.
	f0 := make([]byte, 262)
	put16(f0, 0, 0)
	put16(f0, 2, 262)
	f0[6+'A'] = 2
	f0[6+'a'] = 3

	// format 4: five segments, the first via the idRangeOffset indirection.
	f4 := make([]byte, 62)
	put16(f4, 0, 4)
	put16(f4, 2, 62)
	put16(f4, 6, 10) // segCountX2
	put16(f4, 8, 8)
	put16(f4, 10, 2)
	put16(f4, 12, 2)
	ends := []uint16{'2', 'C', 'G', 'Z', 0xFFFF}
	starts := []uint16{'0', 'A', 'F', 'Z', 0xFFFF}
	deltas := []int16{0, 1 - 'A', 6 - 'F', 4 - 'Z', 1}
	rangeOffs := []uint16{10, 0, 0, 0, 0}
	for i := 0; i < 5; i++ {
		put16(f4, 14+i*2, ends[i])
		put16(f4, 26+i*2, starts[i])
		puti16(f4, 36+i*2, deltas[i])
		put16(f4, 46+i*2, rangeOffs[i])
	}
	put16(f4, 56, 1) // glyphIDArray for '0'-'2'
	put16(f4, 58, 2)
	put16(f4, 60, 3)

	// format 12: one group covering two emoji.
	f12 := make([]byte, 28)
	put16(f12, 0, 12)
	put32(f12, 4, 28)
	put32(f12, 12, 1)
	put32(f12, 16, 0x1F600)
	put32(f12, 20, 0x1F601)
	put32(f12, 24, 6)

	cmap := make([]byte, 28, 28+len(f0)+len(f4)+len(f12))
	put16(cmap, 2, 3)
	records := []struct {
		platform, encoding uint16
		data               []byte
	}{
		{1, 0, f0},
		{3, 1, f4},
		{3, 10, f12},
	}
	offset := 28
	for i, r := range records {
		rec := 4 + i*8
		put16(cmap, rec, r.platform)
		put16(cmap, rec+2, r.encoding)
		put32(cmap, rec+4, uint32(offset))
		offset += len(r.data)
	}
	for _, r := range records {
		cmap = append(cmap, r.data...)
	}
	return cmap
}

func buildNameTable() []byte {
	psName := encodeUTF16BE("TestFont-Regular")
	family := []byte("TestFont")

	name := make([]byte, 30, 30+len(psName)+len(family))
	put16(name, 2, 2)  // count
	put16(name, 4, 30) // stringOffset

	put16(name, 6, 3) // platform: Microsoft
	put16(name, 8, 1)
	put16(name, 10, 0x0409)
	put16(name, 12, nameIDPostScript)
	put16(name, 14, uint16(len(psName)))
	put16(name, 16, 0)

	put16(name, 18, 1) // platform: Macintosh
	put16(name, 24, nameIDFamily)
	put16(name, 26, uint16(len(family)))
	put16(name, 28, uint16(len(psName)))

	name = append(name, psName...)
	name = append(name, family...)
	return name
}

func buildPostTable() []byte {
	post := make([]byte, 32)
	put32(post, 0, 0x00030000)
	italicAngle := int32(-12.5 * 65536) // 16.16 fixed
	put32(post, 4, uint32(italicAngle))
	return post
}

func buildOS2Table() []byte {
	os2 := make([]byte, 96)
	put16(os2, 0, 2)   // version
	put16(os2, 4, 700) // usWeightClass
	puti16(os2, 86, 520)
	puti16(os2, 88, 710)
	return os2
}

// buildTestFont assembles the test font, leaving out any tables named in
// omit. The assembly is independent of the subsetter's output path so the
// parser is tested against a file it did not produce.
func buildTestFont(t *testing.T, omit ...string) []byte {
	t.Helper()

	glyf, loca := buildGlyfAndLocaTables()
	tables := []struct {
		tag  string
		data []byte
	}{
		{"OS/2", buildOS2Table()},
		{"cmap", buildCmapTable()},
		{"glyf", glyf},
		{"head", buildHeadTable()},
		{"hhea", buildHheaTable()},
		{"hmtx", buildHmtxTable()},
		{"loca", loca},
		{"maxp", buildMaxpTable()},
		{"name", buildNameTable()},
		{"post", buildPostTable()},
	}

	omitted := make(map[string]bool)
	for _, tag := range omit {
		omitted[tag] = true
	}
	kept := tables[:0]
	for _, tbl := range tables {
		if !omitted[tbl.tag] {
			kept = append(kept, tbl)
		}
	}

	n := len(kept)
	var buf bytes.Buffer
	header := make([]byte, 12)
	put32(header, 0, sfntVersionTrueType)
	put16(header, 4, uint16(n))
	buf.Write(header)

	offset := 12 + 16*n
	for _, tbl := range kept {
		entry := make([]byte, 16)
		copy(entry, tbl.tag)
		put32(entry, 8, uint32(offset))
		put32(entry, 12, uint32(len(tbl.data)))
		buf.Write(entry)
		offset += (len(tbl.data) + 3) &^ 3
	}
	for _, tbl := range kept {
		buf.Write(tbl.data)
		if pad := (4 - len(tbl.data)%4) % 4; pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}

	return buf.Bytes()
}

// findTestFontTable locates a table in an assembled test font so tests can
// corrupt it in place.
func findTestFontTable(t *testing.T, font []byte, tag string) (offset, length int) {
	t.Helper()
	n := int(binary.BigEndian.Uint16(font[4:]))
	for i := 0; i < n; i++ {
		entry := 12 + i*16
		if string(font[entry:entry+4]) == tag {
			return int(binary.BigEndian.Uint32(font[entry+8:])),
				int(binary.BigEndian.Uint32(font[entry+12:]))
		}
	}
	t.Fatalf("table %s not found in test font", tag)
	return 0, 0
}

func newTestParser(t *testing.T) *TTFParser {
	t.Helper()
	p, err := NewTTFParser(buildTestFont(t))
	if err != nil {
		t.Fatalf("parse test font: %v", err)
	}
	return p
}
