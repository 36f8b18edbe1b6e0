package fonts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
	"sort"
)

// Output table construction for font subsets.
//
// Each of the nine emitted tables is rebuilt independently from the subset
// glyph state plus the original font's metadata, then assembled into an
// sfnt file with a sorted, checksummed table directory.

// ttfMagicNumber is the mandatory 'head' table magic constant.
const ttfMagicNumber = 0x5F0F3CF5

// fontTable is one rebuilt output table.
type fontTable struct {
	tag  string
	data []byte
}

// buildHead copies the original font header and pins the fields the subset
// controls: checkSumAdjustment is zeroed (PDF viewers accept embedded
// subsets without the whole-file checksum), the magic number is enforced,
// and indexToLocFormat is forced to long (32-bit) offsets to match the
// emitted loca table.
func (s *FontSubset) buildHead() ([]byte, error) {
	orig := s.parser.Table("head")
	if orig == nil || len(orig.Data) < 54 {
		return nil, &MissingTableError{Tag: "head"}
	}

	head := make([]byte, 54)
	copy(head, orig.Data[:54])

	binary.BigEndian.PutUint32(head[8:], 0)               // checkSumAdjustment
	binary.BigEndian.PutUint32(head[12:], ttfMagicNumber) // magicNumber
	binary.BigEndian.PutUint16(head[50:], 1)              // indexToLocFormat: long
	binary.BigEndian.PutUint16(head[52:], 0)              // glyphDataFormat

	return head, nil
}

// buildHhea copies the original horizontal header (ascent, descent, line
// gap and caret fields) and sets numOfLongHorMetrics to the subset glyph
// count: every subset glyph gets a full long metric, no short-metric
// compression.
func (s *FontSubset) buildHhea() ([]byte, error) {
	orig := s.parser.Table("hhea")
	if orig == nil || len(orig.Data) < 36 {
		return nil, &MissingTableError{Tag: "hhea"}
	}

	hhea := make([]byte, 36)
	copy(hhea, orig.Data[:36])
	binary.BigEndian.PutUint16(hhea[34:], uint16(len(s.order)))

	return hhea, nil
}

// buildMaxp writes a version 1.0 maxp with the subset glyph count. The
// "max" complexity fields are coarse fixed values rather than recomputed
// outline statistics; rasterizers use them only for buffer sizing.
func (s *FontSubset) buildMaxp() []byte {
	maxp := make([]byte, 32)
	binary.BigEndian.PutUint32(maxp[0:], 0x00010000) // version 1.0
	binary.BigEndian.PutUint16(maxp[4:], uint16(len(s.order)))
	binary.BigEndian.PutUint16(maxp[6:], 255)  // maxPoints
	binary.BigEndian.PutUint16(maxp[8:], 64)   // maxContours
	binary.BigEndian.PutUint16(maxp[10:], 255) // maxCompositePoints
	binary.BigEndian.PutUint16(maxp[12:], 64)  // maxCompositeContours
	binary.BigEndian.PutUint16(maxp[14:], 2)   // maxZones
	binary.BigEndian.PutUint16(maxp[16:], 0)   // maxTwilightPoints
	binary.BigEndian.PutUint16(maxp[18:], 0)   // maxStorage
	binary.BigEndian.PutUint16(maxp[20:], 0)   // maxFunctionDefs
	binary.BigEndian.PutUint16(maxp[22:], 0)   // maxInstructionDefs
	binary.BigEndian.PutUint16(maxp[24:], 64)  // maxStackElements
	binary.BigEndian.PutUint16(maxp[26:], 0)   // maxSizeOfInstructions
	binary.BigEndian.PutUint16(maxp[28:], 8)   // maxComponentElements
	binary.BigEndian.PutUint16(maxp[30:], 8)   // maxComponentDepth
	return maxp
}

// cmapGroup is one format 12 sequential map group.
type cmapGroup struct {
	startCharCode uint32
	endCharCode   uint32
	startGlyphID  uint32
}

// buildCmapGroups merges the used characters, sorted ascending, into
// format 12 groups. A character extends the open group only when all of:
//   - its code is exactly one past the group's current end code,
//   - it maps to a glyph present in the subset, and
//   - its new glyph index is exactly one past the previous glyph's.
//
// The last condition is load-bearing: a format 12 group maps its range
// linearly from startGlyphID, so glyph contiguity is a correctness
// requirement, not a size optimization. Characters whose glyph never made
// it into the subset break the run.
func (s *FontSubset) buildCmapGroups() []cmapGroup {
	var groups []cmapGroup

	for _, ch := range s.sortedUsedChars() {
		sg, ok := s.glyphs[s.parser.GlyphIndex(ch)]
		if !ok {
			continue
		}

		code := uint32(ch)
		gid := uint32(sg.NewIndex)

		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if code == last.endCharCode+1 && gid == last.startGlyphID+(code-last.startCharCode) {
				last.endCharCode = code
				continue
			}
		}
		groups = append(groups, cmapGroup{startCharCode: code, endCharCode: code, startGlyphID: gid})
	}

	return groups
}

// buildCmap emits a cmap with a single format 12 (segmented coverage)
// subtable for platform 3 / encoding 10, Microsoft full Unicode.
func (s *FontSubset) buildCmap() []byte {
	groups := s.buildCmapGroups()

	subtableLen := 16 + 12*len(groups)
	buf := make([]byte, 12+subtableLen)

	// cmap header: version 0, one encoding record at offset 12.
	binary.BigEndian.PutUint16(buf[0:], 0)
	binary.BigEndian.PutUint16(buf[2:], 1)
	binary.BigEndian.PutUint16(buf[4:], 3)  // platform: Microsoft
	binary.BigEndian.PutUint16(buf[6:], 10) // encoding: full Unicode
	binary.BigEndian.PutUint32(buf[8:], 12)

	// Format 12 subtable header.
	sub := buf[12:]
	binary.BigEndian.PutUint16(sub[0:], 12)
	binary.BigEndian.PutUint16(sub[2:], 0)
	binary.BigEndian.PutUint32(sub[4:], uint32(subtableLen))
	binary.BigEndian.PutUint32(sub[8:], 0) // language
	binary.BigEndian.PutUint32(sub[12:], uint32(len(groups)))

	for i, g := range groups {
		off := 16 + i*12
		binary.BigEndian.PutUint32(sub[off:], g.startCharCode)
		binary.BigEndian.PutUint32(sub[off+4:], g.endCharCode)
		binary.BigEndian.PutUint32(sub[off+8:], g.startGlyphID)
	}

	return buf
}

// buildName writes a name table holding a single PostScript-name record
// ("<originalName>-Subset", platform 3, UTF-16BE).
func (s *FontSubset) buildName() []byte {
	name := encodeUTF16BE(s.parser.FontName() + "-Subset")

	buf := make([]byte, 18+len(name))
	binary.BigEndian.PutUint16(buf[0:], 0)  // format
	binary.BigEndian.PutUint16(buf[2:], 1)  // count
	binary.BigEndian.PutUint16(buf[4:], 18) // stringOffset

	rec := buf[6:]
	binary.BigEndian.PutUint16(rec[0:], 3)      // platformID: Microsoft
	binary.BigEndian.PutUint16(rec[2:], 1)      // encodingID: Unicode BMP
	binary.BigEndian.PutUint16(rec[4:], 0x0409) // languageID: en-US
	binary.BigEndian.PutUint16(rec[6:], nameIDPostScript)
	binary.BigEndian.PutUint16(rec[8:], uint16(len(name)))
	binary.BigEndian.PutUint16(rec[10:], 0) // offset within string storage

	copy(buf[18:], name)
	return buf
}

// buildPost writes a version 3.0 post table: no glyph names, spacing and
// pitch fields zeroed.
func (s *FontSubset) buildPost() []byte {
	post := make([]byte, 32)
	binary.BigEndian.PutUint32(post[0:], 0x00030000)
	return post
}

// buildHmtx writes one long metric {advanceWidth, leftSideBearing} per
// subset glyph, ordered by new glyph index, with values taken from the
// original glyph's metrics in the source font's design units.
func (s *FontSubset) buildHmtx() []byte {
	hmtx := make([]byte, len(s.order)*4)
	for _, sg := range s.order {
		off := int(sg.NewIndex) * 4
		binary.BigEndian.PutUint16(hmtx[off:], s.parser.advanceInUnits(sg.OriginalIndex))
		binary.BigEndian.PutUint16(hmtx[off+2:], uint16(s.parser.lsbInUnits(sg.OriginalIndex)))
	}
	return hmtx
}

// buildGlyfAndLoca concatenates every subset glyph's outline, 4-byte
// padded, rewriting composite component indices to the new numbering, and
// produces the matching long-format loca table (one cumulative offset per
// glyph plus the final sentinel).
func (s *FontSubset) buildGlyfAndLoca() (glyf []byte, loca []byte) {
	var glyfBuf bytes.Buffer
	offsets := make([]uint32, 0, len(s.order)+1)

	for _, sg := range s.order {
		offsets = append(offsets, uint32(glyfBuf.Len()))

		outline := sg.outline
		outline.remapComponents(func(old uint16) (uint16, bool) {
			comp, ok := s.glyphs[old]
			if !ok {
				return 0, false
			}
			return comp.NewIndex, true
		})

		glyfBuf.Write(outline.data)
		if pad := (4 - glyfBuf.Len()%4) % 4; pad > 0 {
			glyfBuf.Write(make([]byte, pad))
		}
	}
	offsets = append(offsets, uint32(glyfBuf.Len()))

	loca = make([]byte, len(offsets)*4)
	for i, off := range offsets {
		binary.BigEndian.PutUint32(loca[i*4:], off)
	}

	return glyfBuf.Bytes(), loca
}

// tableChecksum sums the table data as big-endian uint32 words, padded
// with zeros to a 4-byte boundary, wrapping at 2^32.
func tableChecksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 4 {
		var word [4]byte
		copy(word[:], data[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}

// assembleFont writes the sfnt container: 12-byte header, 16-byte
// directory entries sorted by tag (the directory must be binary
// searchable), then each table's data at a 4-byte-aligned offset.
func assembleFont(tables []fontTable) []byte {
	sort.Slice(tables, func(i, j int) bool { return tables[i].tag < tables[j].tag })

	numTables := len(tables)
	entrySelector := bits.Len(uint(numTables)) - 1 // floor(log2(numTables))
	searchRange := (1 << entrySelector) * 16
	rangeShift := numTables*16 - searchRange

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(sfntVersionTrueType))
	_ = binary.Write(&buf, binary.BigEndian, uint16(numTables))
	_ = binary.Write(&buf, binary.BigEndian, uint16(searchRange))
	_ = binary.Write(&buf, binary.BigEndian, uint16(entrySelector))
	_ = binary.Write(&buf, binary.BigEndian, uint16(rangeShift))

	offset := 12 + 16*numTables
	for _, t := range tables {
		buf.WriteString(fmt.Sprintf("%-4s", t.tag))
		_ = binary.Write(&buf, binary.BigEndian, tableChecksum(t.data))
		_ = binary.Write(&buf, binary.BigEndian, uint32(offset))
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(t.data)))
		offset += (len(t.data) + 3) &^ 3
	}

	for _, t := range tables {
		buf.Write(t.data)
		if pad := (4 - len(t.data)%4) % 4; pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}

	return buf.Bytes()
}
