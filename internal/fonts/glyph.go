package fonts

import (
	"encoding/binary"
	"fmt"
)

// Glyph outline access.
//
// Outlines live in the 'glyf' table, indexed through 'loca'. A glyph whose
// first int16 (numberOfContours) is negative is a composite: its body is a
// chain of component records, each naming another glyph by index. The
// subsetter needs both the raw outline bytes and the positions of those
// component indices so it can renumber them in the emitted font.

// Composite glyph component flags.
const (
	compArg1And2AreWords = 0x0001
	compWeHaveAScale     = 0x0008
	compMoreComponents   = 0x0020
	compWeHaveXYScale    = 0x0040
	compWeHave2x2        = 0x0080
)

// glyphComponent names a glyph referenced by a composite outline, together
// with the byte offset of the 16-bit index inside the outline data (used
// to rewrite the index in a subset).
type glyphComponent struct {
	glyphIndex uint16
	indexPos   int
}

// glyphOutline is the raw outline of one glyph: a copy of its glyf bytes
// plus the composite components it references (empty for simple glyphs).
type glyphOutline struct {
	data       []byte
	components []glyphComponent
}

// glyphRange returns the [start, end) byte range of a glyph's outline
// within the glyf table, per the loca table. start == end means the glyph
// has no outline (a legitimate empty glyph such as space).
func (p *TTFParser) glyphRange(gid uint16) (start, end int, err error) {
	loca, ok := p.tables["loca"]
	if !ok {
		return 0, 0, &MissingTableError{Tag: "loca"}
	}
	if gid >= p.numGlyphs {
		return 0, 0, fmt.Errorf("glyph index %d out of range (%d glyphs)", gid, p.numGlyphs)
	}

	if p.indexToLocFormat == 0 {
		// Short format: uint16 offsets, stored divided by two.
		if err := boundsCheck(loca.Data, int(gid)*2, 4); err != nil {
			return 0, 0, fmt.Errorf("loca table truncated: %w", err)
		}
		start = int(readU16(loca.Data, int(gid)*2)) * 2
		end = int(readU16(loca.Data, int(gid)*2+2)) * 2
	} else {
		if err := boundsCheck(loca.Data, int(gid)*4, 8); err != nil {
			return 0, 0, fmt.Errorf("loca table truncated: %w", err)
		}
		start = int(readU32(loca.Data, int(gid)*4))
		end = int(readU32(loca.Data, int(gid)*4+4))
	}

	if start > end {
		return 0, 0, fmt.Errorf("glyph %d has inverted loca range %d-%d", gid, start, end)
	}
	return start, end, nil
}

// readGlyph copies a glyph's raw outline bytes and discovers the component
// glyphs a composite outline references. Fonts without outline tables, and
// glyphs without outlines, yield an empty (zero-length) glyph.
func (p *TTFParser) readGlyph(gid uint16) (glyphOutline, error) {
	glyf, ok := p.tables["glyf"]
	if !ok {
		return glyphOutline{}, nil
	}

	start, end, err := p.glyphRange(gid)
	if err != nil {
		return glyphOutline{}, err
	}
	if start == end {
		return glyphOutline{}, nil
	}
	raw, err := tableSlice(glyf.Data, start, end-start)
	if err != nil {
		return glyphOutline{}, fmt.Errorf("glyph %d outline out of bounds: %w", gid, err)
	}

	out := glyphOutline{data: append([]byte(nil), raw...)}
	if len(out.data) < 10 {
		return out, nil
	}

	numContours := readI16(out.data, 0)
	if numContours >= 0 {
		return out, nil
	}

	// Composite glyph: walk the component chain.
	pos := 10
	for {
		if pos+4 > len(out.data) {
			return out, fmt.Errorf("glyph %d composite record truncated", gid)
		}
		flags := readU16(out.data, pos)
		out.components = append(out.components, glyphComponent{
			glyphIndex: readU16(out.data, pos+2),
			indexPos:   pos + 2,
		})
		pos += 4

		if flags&compArg1And2AreWords != 0 {
			pos += 4
		} else {
			pos += 2
		}
		switch {
		case flags&compWeHaveAScale != 0:
			pos += 2
		case flags&compWeHaveXYScale != 0:
			pos += 4
		case flags&compWeHave2x2 != 0:
			pos += 8
		}

		if flags&compMoreComponents == 0 {
			break
		}
	}

	return out, nil
}

// remapComponents rewrites the component glyph indices of a composite
// outline in place, per the old-to-new index mapping.
func (g *glyphOutline) remapComponents(newIndex func(old uint16) (uint16, bool)) {
	for _, comp := range g.components {
		if idx, ok := newIndex(comp.glyphIndex); ok {
			binary.BigEndian.PutUint16(g.data[comp.indexPos:], idx)
		}
	}
}
