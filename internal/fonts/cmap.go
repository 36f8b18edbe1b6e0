package fonts

import (
	"fmt"

	"github.com/nick-we/typescript-pdf-sub003/logging"
)

// cmap parsing.
//
// The 'cmap' table maps character codes to glyph indices through one or
// more platform-specific subtables. Every subtable is parsed and merged
// into a single map; when two subtables map the same character, the later
// one wins (last-writer-wins in directory order).
//
// A malformed subtable is logged and skipped — one broken encoding must
// not take down the others. A font whose every subtable fails simply
// supports no characters; that is not an error.
//
// Reference: TrueType specification, 'cmap' table.

// parseCmap iterates all cmap subtables and merges their mappings into
// p.charToGlyph.
//
// cmap header: version (2 bytes), numTables (2 bytes), then numTables
// 8-byte encoding records {platformID, encodingID, offset:uint32}.
func (p *TTFParser) parseCmap() {
	data := p.tables["cmap"].Data
	if err := boundsCheck(data, 0, 4); err != nil {
		logging.Logger().Warn("cmap header truncated", "error", err)
		return
	}

	numTables := int(readU16(data, 2))
	if err := boundsCheck(data, 4, numTables*8); err != nil {
		logging.Logger().Warn("cmap encoding records truncated", "error", err)
		return
	}

	for i := 0; i < numTables; i++ {
		rec := 4 + i*8
		platformID := readU16(data, rec)
		encodingID := readU16(data, rec+2)
		offset := int(readU32(data, rec+4))

		if err := p.parseCmapSubtable(data, offset); err != nil {
			logging.Logger().Warn("skipping malformed cmap subtable",
				"platform", platformID,
				"encoding", encodingID,
				"error", err)
		}
	}
}

// parseCmapSubtable dispatches on the subtable's format code. Formats 0,
// 4, 6 and 12 are supported; anything else is skipped without touching the
// character map.
func (p *TTFParser) parseCmapSubtable(data []byte, offset int) error {
	if err := boundsCheck(data, offset, 2); err != nil {
		return fmt.Errorf("subtable offset out of bounds: %w", err)
	}
	sub := data[offset:]

	format := readU16(sub, 0)
	switch format {
	case 0:
		return parseCmapFormat0(sub, p.charToGlyph)
	case 4:
		return parseCmapFormat4(sub, p.charToGlyph)
	case 6:
		return parseCmapFormat6(sub, p.charToGlyph)
	case 12:
		return parseCmapFormat12(sub, p.charToGlyph)
	default:
		logging.Logger().Debug("unsupported cmap subtable format", "format", format)
		return nil
	}
}

// parseCmapFormat0 parses a byte encoding table: one glyph index per
// character code 0-255, stored directly after the 6-byte header.
func parseCmapFormat0(sub []byte, m map[rune]uint16) error {
	if err := boundsCheck(sub, 6, 256); err != nil {
		return fmt.Errorf("format 0 glyph array truncated: %w", err)
	}
	for code := 0; code < 256; code++ {
		if gid := readU8(sub, 6+code); gid != 0 {
			m[rune(code)] = uint16(gid)
		}
	}
	return nil
}

// parseCmapFormat4 parses a segment mapping table.
//
// Layout after the 6-byte header: segCountX2 (2), searchRange (2),
// entrySelector (2), rangeShift (2), endCode[segCount], reservedPad (2),
// startCode[segCount], idDelta[segCount], idRangeOffset[segCount],
// glyphIDArray[].
//
// For each code in a segment: if idRangeOffset is zero the glyph index is
// (idDelta + code) mod 65536; otherwise the index is read indirectly from
// glyphIDArray and, if nonzero, also adjusted by idDelta mod 65536. The
// final sentinel segment (endCode 0xFFFF) is skipped.
func parseCmapFormat4(sub []byte, m map[rune]uint16) error {
	if err := boundsCheck(sub, 0, 14); err != nil {
		return fmt.Errorf("format 4 header truncated: %w", err)
	}

	segCount := int(readU16(sub, 6)) / 2
	if segCount == 0 {
		return fmt.Errorf("format 4 subtable has zero segments")
	}

	endOff := 14
	startOff := endOff + segCount*2 + 2 // skip reservedPad
	deltaOff := startOff + segCount*2
	rangeOff := deltaOff + segCount*2
	glyphArrayOff := rangeOff + segCount*2

	if err := boundsCheck(sub, 0, glyphArrayOff); err != nil {
		return fmt.Errorf("format 4 segment arrays truncated: %w", err)
	}

	for i := 0; i < segCount; i++ {
		endCode := readU16(sub, endOff+i*2)
		startCode := readU16(sub, startOff+i*2)
		idDelta := readI16(sub, deltaOff+i*2)
		idRangeOffset := readU16(sub, rangeOff+i*2)

		for code := int(startCode); code <= int(endCode); code++ {
			if code == 0xFFFF {
				// Sentinel segment; not a real mapping.
				break
			}

			var gid uint16
			if idRangeOffset == 0 {
				gid = uint16((int(idDelta) + code) & 0xFFFF)
			} else {
				// idRangeOffset is a byte offset from its own slot in
				// the idRangeOffset array to the glyph index.
				addr := rangeOff + i*2 + int(idRangeOffset) + (code-int(startCode))*2
				if addr+2 > len(sub) {
					continue
				}
				gid = readU16(sub, addr)
				if gid != 0 {
					gid = uint16((int(gid) + int(idDelta)) & 0xFFFF)
				}
			}

			if gid != 0 {
				m[rune(code)] = gid
			}
		}
	}

	return nil
}

// parseCmapFormat6 parses a trimmed table: a contiguous run of glyph
// indices starting at firstCode.
func parseCmapFormat6(sub []byte, m map[rune]uint16) error {
	if err := boundsCheck(sub, 0, 10); err != nil {
		return fmt.Errorf("format 6 header truncated: %w", err)
	}

	firstCode := int(readU16(sub, 6))
	entryCount := int(readU16(sub, 8))
	if err := boundsCheck(sub, 10, entryCount*2); err != nil {
		return fmt.Errorf("format 6 glyph array truncated: %w", err)
	}

	for i := 0; i < entryCount; i++ {
		if gid := readU16(sub, 10+i*2); gid != 0 {
			m[rune(firstCode+i)] = gid
		}
	}
	return nil
}

// parseCmapFormat12 parses a segmented coverage table, the format used for
// code points beyond the Basic Multilingual Plane.
//
// Layout: format (2), reserved (2), length (4), language (4), nGroups (4),
// then nGroups 12-byte groups {startCharCode, endCharCode, startGlyphID}.
// The glyph index for code c in a group is startGlyphID + (c - startCharCode).
func parseCmapFormat12(sub []byte, m map[rune]uint16) error {
	if err := boundsCheck(sub, 0, 16); err != nil {
		return fmt.Errorf("format 12 header truncated: %w", err)
	}

	nGroups := int(readU32(sub, 12))
	if err := boundsCheck(sub, 16, nGroups*12); err != nil {
		return fmt.Errorf("format 12 groups truncated: %w", err)
	}

	for i := 0; i < nGroups; i++ {
		g := 16 + i*12
		startChar := readU32(sub, g)
		endChar := readU32(sub, g+4)
		startGlyph := readU32(sub, g+8)

		if startChar > endChar || endChar > 0x10FFFF {
			return fmt.Errorf("format 12 group %d has invalid range %#x-%#x", i, startChar, endChar)
		}

		for code := startChar; code <= endChar; code++ {
			gid := startGlyph + (code - startChar)
			if gid != 0 && gid <= 0xFFFF {
				m[rune(code)] = uint16(gid)
			}
		}
	}
	return nil
}
