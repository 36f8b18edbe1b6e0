package fonts

import (
	"bytes"
	"fmt"
	"sort"
)

// GenerateToUnicodeCMap generates a ToUnicode CMap for text extraction.
//
// Content streams for Identity-H encoded fonts address glyphs by their
// subset glyph index, so this CMap maps those indices back to the Unicode
// code points they render, letting PDF viewers copy and search text.
//
// Reference: PDF 1.7 specification, Section 9.10 (ToUnicode CMaps).
func GenerateToUnicodeCMap(subset *FontSubset) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeCMapHeader(&buf); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := writeCharMappings(&buf, subset); err != nil {
		return nil, fmt.Errorf("write mappings: %w", err)
	}
	if err := writeCMapFooter(&buf); err != nil {
		return nil, fmt.Errorf("write footer: %w", err)
	}

	return buf.Bytes(), nil
}

// writeCMapHeader writes the CMap prologue.
func writeCMapHeader(buf *bytes.Buffer) error {
	// Code space range is 2 bytes (0000-FFFF) to accommodate 16-bit glyph IDs.
	header := `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo
<< /Registry (Adobe)
/Ordering (UCS)
/Supplement 0
>> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
`
	_, err := buf.WriteString(header)
	return err
}

// glyphMapping is one subset glyph index to Unicode code point entry.
type glyphMapping struct {
	glyphID uint16
	unicode rune
}

// writeCharMappings emits one bfchar entry per character-bearing subset
// glyph. A glyph reachable from several characters (a shared outline) maps
// to its lowest code point; component-only glyphs and notdef carry no
// characters and are skipped.
func writeCharMappings(buf *bytes.Buffer, subset *FontSubset) error {
	var mappings []glyphMapping

	for _, sg := range subset.Glyphs() {
		if len(sg.CharCodes) == 0 {
			continue
		}
		ch := sg.CharCodes[0]
		for _, c := range sg.CharCodes[1:] {
			if c < ch {
				ch = c
			}
		}
		mappings = append(mappings, glyphMapping{glyphID: sg.NewIndex, unicode: ch})
	}

	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].glyphID < mappings[j].glyphID
	})

	// bfchar blocks are limited to 100 entries (PDF spec).
	const maxBatchSize = 100
	for i := 0; i < len(mappings); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(mappings) {
			end = len(mappings)
		}
		if err := writeMappingBatch(buf, mappings[i:end]); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
	}

	return nil
}

// writeMappingBatch writes one beginbfchar..endbfchar block.
func writeMappingBatch(buf *bytes.Buffer, mappings []glyphMapping) error {
	if _, err := fmt.Fprintf(buf, "%d beginbfchar\n", len(mappings)); err != nil {
		return err
	}

	for _, m := range mappings {
		// Glyph ID as 2-byte hex, code point as UTF-16BE hex. Code points
		// beyond the BMP need a surrogate pair.
		var unicode string
		if m.unicode > 0xFFFF {
			v := uint32(m.unicode) - 0x10000
			unicode = fmt.Sprintf("<%04X%04X>", 0xD800+(v>>10), 0xDC00+(v&0x3FF))
		} else {
			unicode = fmt.Sprintf("<%04X>", m.unicode)
		}

		if _, err := fmt.Fprintf(buf, "<%04X> %s\n", m.glyphID, unicode); err != nil {
			return err
		}
	}

	if _, err := buf.WriteString("endbfchar\n"); err != nil {
		return err
	}
	return nil
}

// writeCMapFooter writes the CMap epilogue.
func writeCMapFooter(buf *bytes.Buffer) error {
	footer := `endcmap
CMapName currentdict /CMap defineresource pop
end
end
`
	_, err := buf.WriteString(footer)
	return err
}
