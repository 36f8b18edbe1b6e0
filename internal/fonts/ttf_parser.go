package fonts

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"

	"github.com/nick-we/typescript-pdf-sub003/logging"
)

// sfntVersionTrueType is the sfnt version tag of a font with TrueType outlines.
const sfntVersionTrueType = 0x00010000

// requiredTables must all be present for a font to be usable. Validation
// happens before any table content is parsed, so a parser is never returned
// half-constructed.
var requiredTables = []string{"head", "name", "hmtx", "hhea", "cmap", "maxp"}

// Standard name table IDs used when resolving a font's display name.
const (
	nameIDFamily     = 1
	nameIDFullName   = 4
	nameIDPostScript = 6
)

// MissingTableError reports that a table required for parsing is absent
// from the font's table directory.
type MissingTableError struct {
	Tag string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("font is missing required table %q", e.Tag)
}

// TableEntry is one record of the sfnt table directory.
//
// Table directory entry format (16 bytes):
//   - tag (4 bytes): Table identifier (ASCII)
//   - checksum (4 bytes): Table checksum
//   - offset (4 bytes): Offset from beginning of file
//   - length (4 bytes): Length of table in bytes
type TableEntry struct {
	Tag      string
	Checksum uint32
	Offset   uint32
	Length   uint32
	Data     []byte // View into the font buffer, not a copy.
}

// GlyphMetrics holds the measurements of a single glyph, normalized to
// em-relative units (font design units divided by unitsPerEm).
//
// Left/Bottom/Right/Top are the glyph's outline bounding box (xMin, yMin,
// xMax, yMax). They are zero when the font carries no outline data for the
// glyph. Ascent and Descent are font-wide values repeated on every glyph
// for the convenience of layout consumers.
type GlyphMetrics struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64

	Ascent  float64
	Descent float64

	AdvanceWidth float64
	LeftBearing  float64
}

// TTFParser is a parsed TrueType/OpenType font with TrueType outlines.
//
// The parser is constructed from a raw font buffer, validates required
// tables, and eagerly builds the character map and per-glyph metrics.
// All query methods are side-effect-free; a parser is safe for concurrent
// readers once constructed.
//
// Reference: TrueType specification, Microsoft Typography.
type TTFParser struct {
	data   []byte
	tables map[string]*TableEntry

	charToGlyph map[rune]uint16
	metrics     []GlyphMetrics
	advances    []uint16 // raw design-unit advance widths, indexed by glyph ID
	bearings    []int16  // raw design-unit left side bearings, indexed by glyph ID

	unitsPerEm uint16
	ascent     int16
	descent    int16
	lineGap    int16
	numGlyphs  uint16
	bbox       [4]int16 // xMin, yMin, xMax, yMax

	indexToLocFormat int16

	// Optional-table metrics for PDF FontDescriptor generation.
	italicAngle  float64
	isFixedPitch bool
	weightClass  uint16
	capHeight    int16
	xHeight      int16
	fsType       uint16
}

// LoadTTF reads a font file from disk and parses it.
func LoadTTF(path string) (*TTFParser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return NewTTFParser(data)
}

// NewTTFParser parses a TrueType font from a raw byte buffer.
//
// Parsing is all-or-nothing: if any required table is absent or its fixed
// header cannot be read, an error is returned and no parser escapes.
// Individual cmap subtables that fail to parse are skipped with a logged
// warning; they never fail construction.
func NewTTFParser(data []byte) (*TTFParser, error) {
	p := &TTFParser{
		data:        data,
		tables:      make(map[string]*TableEntry),
		charToGlyph: make(map[rune]uint16),
	}

	if err := p.parseTableDirectory(); err != nil {
		return nil, fmt.Errorf("parse table directory: %w", err)
	}

	for _, tag := range requiredTables {
		if _, ok := p.tables[tag]; !ok {
			return nil, &MissingTableError{Tag: tag}
		}
	}

	if err := p.parseHead(); err != nil {
		return nil, fmt.Errorf("parse head table: %w", err)
	}
	if err := p.parseHhea(); err != nil {
		return nil, fmt.Errorf("parse hhea table: %w", err)
	}
	if err := p.parseMaxp(); err != nil {
		return nil, fmt.Errorf("parse maxp table: %w", err)
	}

	p.parseCmap()

	if err := p.parseGlyphMetrics(); err != nil {
		return nil, fmt.Errorf("parse glyph metrics: %w", err)
	}

	// Optional tables enrich FontDescriptor output; their absence or
	// malformation is never fatal.
	p.parsePost()
	p.parseOS2()

	return p, nil
}

// parseTableDirectory parses the sfnt header and table directory.
//
// File header format (12 bytes):
//   - sfntVersion (4 bytes): 0x00010000 for TrueType outlines
//   - numTables (2 bytes)
//   - searchRange, entrySelector, rangeShift (2 bytes each)
//
// Followed by numTables 16-byte directory entries.
func (p *TTFParser) parseTableDirectory() error {
	if err := boundsCheck(p.data, 0, 12); err != nil {
		return err
	}

	version := readU32(p.data, 0)
	if version != sfntVersionTrueType {
		return fmt.Errorf("unsupported font format: 0x%08X", version)
	}

	numTables := int(readU16(p.data, 4))
	if err := boundsCheck(p.data, 12, numTables*16); err != nil {
		return fmt.Errorf("table directory truncated: %w", err)
	}

	for i := 0; i < numTables; i++ {
		off := 12 + i*16
		entry := &TableEntry{
			Tag:      readTag(p.data, off),
			Checksum: readU32(p.data, off+4),
			Offset:   readU32(p.data, off+8),
			Length:   readU32(p.data, off+12),
		}

		data, err := tableSlice(p.data, int(entry.Offset), int(entry.Length))
		if err != nil {
			return fmt.Errorf("table %s out of bounds: %w", entry.Tag, err)
		}
		entry.Data = data

		p.tables[entry.Tag] = entry
	}

	return nil
}

// parseHead extracts unitsPerEm, the font bounding box and the loca offset
// format from the 'head' table.
//
// head table layout (fixed offsets):
//
//	18: unitsPerEm (uint16)
//	36: xMin, yMin, xMax, yMax (int16 each)
//	50: indexToLocFormat (int16; 0 = short, 1 = long)
func (p *TTFParser) parseHead() error {
	head := p.tables["head"].Data
	if err := boundsCheck(head, 0, 54); err != nil {
		return err
	}

	p.unitsPerEm = readU16(head, 18)
	if p.unitsPerEm == 0 {
		return errors.New("unitsPerEm is zero")
	}
	p.bbox = [4]int16{readI16(head, 36), readI16(head, 38), readI16(head, 40), readI16(head, 42)}
	p.indexToLocFormat = readI16(head, 50)

	return nil
}

// parseHhea extracts the vertical metrics from the 'hhea' table.
//
// hhea table layout (fixed offsets):
//
//	4: ascender (int16)
//	6: descender (int16, negative)
//	8: lineGap (int16)
//	34: numOfLongHorMetrics (uint16)
func (p *TTFParser) parseHhea() error {
	hhea := p.tables["hhea"].Data
	if err := boundsCheck(hhea, 0, 36); err != nil {
		return err
	}

	p.ascent = readI16(hhea, 4)
	p.descent = readI16(hhea, 6)
	p.lineGap = readI16(hhea, 8)

	return nil
}

// parseMaxp extracts the glyph count from the 'maxp' table (offset 4).
func (p *TTFParser) parseMaxp() error {
	maxp := p.tables["maxp"].Data
	if err := boundsCheck(maxp, 0, 6); err != nil {
		return err
	}
	p.numGlyphs = readU16(maxp, 4)
	return nil
}

// parseGlyphMetrics builds the per-glyph metrics table from 'hmtx', and
// enriches it with outline bounding boxes when 'glyf' and 'loca' are
// present. Every glyph index in [0, numGlyphs) gets an entry.
//
// hmtx stores numOfLongHorMetrics {advanceWidth, leftSideBearing} pairs;
// glyphs beyond that share the last advance width and read their bearing
// from a trailing int16 array.
func (p *TTFParser) parseGlyphMetrics() error {
	hhea := p.tables["hhea"].Data
	hmtx := p.tables["hmtx"].Data

	numHMetrics := int(readU16(hhea, 34))
	if numHMetrics == 0 || numHMetrics > int(p.numGlyphs) {
		return fmt.Errorf("numOfLongHorMetrics %d out of range for %d glyphs", numHMetrics, p.numGlyphs)
	}
	if err := boundsCheck(hmtx, 0, numHMetrics*4); err != nil {
		return fmt.Errorf("hmtx table truncated: %w", err)
	}

	upm := float64(p.unitsPerEm)
	ascent := float64(p.ascent) / upm
	descent := float64(p.descent) / upm

	p.metrics = make([]GlyphMetrics, p.numGlyphs)
	p.advances = make([]uint16, p.numGlyphs)
	p.bearings = make([]int16, p.numGlyphs)

	lastAdvance := readU16(hmtx, (numHMetrics-1)*4)
	for gid := 0; gid < int(p.numGlyphs); gid++ {
		var advance uint16
		var lsb int16
		if gid < numHMetrics {
			advance = readU16(hmtx, gid*4)
			lsb = readI16(hmtx, gid*4+2)
		} else {
			advance = lastAdvance
			lsbOff := numHMetrics*4 + (gid-numHMetrics)*2
			if lsbOff+2 <= len(hmtx) {
				lsb = readI16(hmtx, lsbOff)
			}
		}

		p.advances[gid] = advance
		p.bearings[gid] = lsb
		p.metrics[gid] = GlyphMetrics{
			Ascent:       ascent,
			Descent:      descent,
			AdvanceWidth: float64(advance) / upm,
			LeftBearing:  float64(lsb) / upm,
		}
	}

	// Bounding boxes need outline data; fonts without glyf/loca keep the
	// zero boxes assigned above.
	if _, ok := p.tables["glyf"]; !ok {
		return nil
	}
	if _, ok := p.tables["loca"]; !ok {
		return nil
	}

	glyf := p.tables["glyf"].Data
	for gid := 0; gid < int(p.numGlyphs); gid++ {
		start, end, err := p.glyphRange(uint16(gid))
		// A loca range pointing outside glyf is corrupt; the glyph keeps
		// its zero bounding box.
		if err != nil || end-start < 10 || end > len(glyf) {
			continue
		}
		p.metrics[gid].Left = float64(readI16(glyf, start+2)) / upm
		p.metrics[gid].Bottom = float64(readI16(glyf, start+4)) / upm
		p.metrics[gid].Right = float64(readI16(glyf, start+6)) / upm
		p.metrics[gid].Top = float64(readI16(glyf, start+8)) / upm
	}

	return nil
}

// parsePost extracts italic angle and pitch information from the optional
// 'post' table. Failures fall back to zero values.
func (p *TTFParser) parsePost() {
	table, ok := p.tables["post"]
	if !ok || len(table.Data) < 32 {
		return
	}

	// italicAngle is a 16.16 fixed-point value at offset 4.
	p.italicAngle = float64(int32(readU32(table.Data, 4))) / 65536.0
	p.isFixedPitch = readU32(table.Data, 12) != 0
}

// parseOS2 extracts weight and cap/x heights from the optional 'OS/2'
// table. Missing fields are estimated from the ascender, as common PDF
// producers do.
func (p *TTFParser) parseOS2() {
	p.capHeight = int16(float64(p.ascent) * 0.7)
	p.xHeight = int16(float64(p.ascent) * 0.5)

	table, ok := p.tables["OS/2"]
	if !ok || len(table.Data) < 78 {
		return
	}

	version := readU16(table.Data, 0)
	p.weightClass = readU16(table.Data, 4)
	p.fsType = readU16(table.Data, 8)

	if version >= 2 && len(table.Data) >= 96 {
		p.xHeight = readI16(table.Data, 86)
		p.capHeight = readI16(table.Data, 88)
	}
}

// GlyphIndex returns the glyph index mapped to the character, or 0 (the
// notdef glyph) when the font does not cover it.
func (p *TTFParser) GlyphIndex(ch rune) uint16 {
	return p.charToGlyph[ch]
}

// IsCharSupported reports whether the character has a cmap entry.
func (p *TTFParser) IsCharSupported(ch rune) bool {
	_, ok := p.charToGlyph[ch]
	return ok
}

// GlyphMetrics returns the metrics for a glyph index. The second return is
// false when the index is out of range.
func (p *TTFParser) GlyphMetrics(gid uint16) (GlyphMetrics, bool) {
	if int(gid) >= len(p.metrics) {
		return GlyphMetrics{}, false
	}
	return p.metrics[gid], true
}

// CharMetrics returns the metrics of the glyph a character maps to.
// Unmapped characters resolve to the notdef glyph's metrics.
func (p *TTFParser) CharMetrics(ch rune) (GlyphMetrics, bool) {
	return p.GlyphMetrics(p.GlyphIndex(ch))
}

// MeasureText returns the summed advance width of the text in font design
// units (not divided by unitsPerEm). Iteration is per Unicode code point,
// so characters outside the Basic Multilingual Plane count once.
func (p *TTFParser) MeasureText(text string) float64 {
	var width float64
	for _, ch := range text {
		gid := p.GlyphIndex(ch)
		if int(gid) < len(p.advances) {
			width += float64(p.advances[gid])
		}
	}
	return width
}

// NameByID walks the 'name' table and returns the first record matching
// nameID, preferring platform 3 (Microsoft, UTF-16BE) over platform 1
// (Macintosh, treated as UTF-8). The second return is false when no record
// matches.
//
// name table layout: format (2), count (2), stringOffset (2), then count
// 12-byte records {platformID, encodingID, languageID, nameID, length,
// offset}, then string data.
func (p *TTFParser) NameByID(nameID uint16) (string, bool) {
	table, ok := p.tables["name"]
	if !ok || len(table.Data) < 6 {
		return "", false
	}
	data := table.Data

	count := int(readU16(data, 2))
	stringOffset := int(readU16(data, 4))
	if err := boundsCheck(data, 6, count*12); err != nil {
		return "", false
	}

	lookup := func(wantPlatform uint16) (string, bool) {
		for i := 0; i < count; i++ {
			rec := 6 + i*12
			platformID := readU16(data, rec)
			id := readU16(data, rec+6)
			length := int(readU16(data, rec+8))
			offset := int(readU16(data, rec+10))

			if platformID != wantPlatform || id != nameID {
				continue
			}
			raw, err := tableSlice(data, stringOffset+offset, length)
			if err != nil {
				continue
			}
			if platformID == 3 {
				return decodeUTF16BE(raw), true
			}
			return string(raw), true
		}
		return "", false
	}

	if name, ok := lookup(3); ok {
		return name, true
	}
	return lookup(1)
}

// FontName returns the font's PostScript name, falling back to the full
// name, then the family name, then a literal placeholder. It never fails.
func (p *TTFParser) FontName() string {
	for _, id := range []uint16{nameIDPostScript, nameIDFullName, nameIDFamily} {
		if name, ok := p.NameByID(id); ok && name != "" {
			return name
		}
	}
	return "Unknown"
}

// UnitsPerEm returns the number of font design units per em square.
func (p *TTFParser) UnitsPerEm() uint16 { return p.unitsPerEm }

// Ascent returns the typographic ascender in design units.
func (p *TTFParser) Ascent() int16 { return p.ascent }

// Descent returns the typographic descender in design units (negative).
func (p *TTFParser) Descent() int16 { return p.descent }

// LineGap returns the typographic line gap in design units.
func (p *TTFParser) LineGap() int16 { return p.lineGap }

// NumGlyphs returns the number of glyphs in the font.
func (p *TTFParser) NumGlyphs() uint16 { return p.numGlyphs }

// BoundingBox returns the font-wide bounding box [xMin, yMin, xMax, yMax]
// in design units.
func (p *TTFParser) BoundingBox() [4]int16 { return p.bbox }

// ItalicAngle returns the italic angle in degrees (0 when no post table).
func (p *TTFParser) ItalicAngle() float64 { return p.italicAngle }

// IsFixedPitch reports whether the font is monospaced.
func (p *TTFParser) IsFixedPitch() bool { return p.isFixedPitch }

// WeightClass returns the OS/2 usWeightClass (0 when no OS/2 table).
func (p *TTFParser) WeightClass() uint16 { return p.weightClass }

// CapHeight returns the capital letter height in design units.
func (p *TTFParser) CapHeight() int16 { return p.capHeight }

// XHeight returns the lowercase x height in design units.
func (p *TTFParser) XHeight() int16 { return p.xHeight }

// FontData returns the raw font buffer the parser was constructed from.
func (p *TTFParser) FontData() []byte { return p.data }

// Table returns the directory entry for tag, or nil when absent.
func (p *TTFParser) Table(tag string) *TableEntry {
	return p.tables[tag]
}

// advanceInUnits returns a glyph's advance width in design units.
func (p *TTFParser) advanceInUnits(gid uint16) uint16 {
	if int(gid) >= len(p.advances) {
		return 0
	}
	return p.advances[gid]
}

// lsbInUnits returns a glyph's left side bearing in design units.
func (p *TTFParser) lsbInUnits(gid uint16) int16 {
	if int(gid) >= len(p.bearings) {
		return 0
	}
	return p.bearings[gid]
}

// decodeUTF16BE converts UTF-16 big-endian bytes (the platform 3 name
// record encoding) to a Go string.
func decodeUTF16BE(data []byte) string {
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		logging.Logger().Warn("failed to decode UTF-16BE name record", "error", err)
		return ""
	}
	return string(out)
}

// encodeUTF16BE converts a Go string to UTF-16 big-endian bytes, as stored
// in platform 3 name records.
func encodeUTF16BE(s string) []byte {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return out
}
