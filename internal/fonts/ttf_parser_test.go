package fonts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTTFParser_RejectsTruncatedHeader(t *testing.T) {
	_, err := NewTTFParser([]byte{0x00, 0x01})
	require.Error(t, err)
}

func TestNewTTFParser_RejectsUnknownVersion(t *testing.T) {
	data := buildTestFont(t)
	// 'OTTO' marks CFF outlines, which the parser does not handle.
	copy(data, []byte{'O', 'T', 'T', 'O'})

	_, err := NewTTFParser(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported font format")
}

func TestNewTTFParser_MissingRequiredTable(t *testing.T) {
	for _, tag := range []string{"head", "name", "hmtx", "hhea", "cmap", "maxp"} {
		t.Run(tag, func(t *testing.T) {
			_, err := NewTTFParser(buildTestFont(t, tag))
			require.Error(t, err)

			var missing *MissingTableError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tag, missing.Tag)
		})
	}
}

func TestNewTTFParser_OptionalTablesMayBeAbsent(t *testing.T) {
	p, err := NewTTFParser(buildTestFont(t, "post", "OS/2", "glyf", "loca"))
	require.NoError(t, err)

	assert.Zero(t, p.ItalicAngle())
	assert.False(t, p.IsFixedPitch())
	assert.Zero(t, p.WeightClass())

	// Cap and x heights fall back to ascender fractions (718 * 0.7 and
	// 718 * 0.5, truncated).
	assert.Equal(t, int16(502), p.CapHeight())
	assert.Equal(t, int16(359), p.XHeight())

	// Without outline tables, metrics keep zero bounding boxes.
	m, ok := p.GlyphMetrics(1)
	require.True(t, ok)
	assert.Zero(t, m.Left)
	assert.Zero(t, m.Right)
	assert.InDelta(t, 0.6, m.AdvanceWidth, 1e-9)
}

// A loca entry pointing past the end of glyf must not take construction
// down; the affected glyph keeps a zero bounding box.
func TestNewTTFParser_LocaPointsPastGlyf(t *testing.T) {
	font := buildTestFont(t)
	locaOff, _ := findTestFontTable(t, font, "loca")
	_, glyfLen := findTestFontTable(t, font, "glyf")

	// Short loca entries store offset/2. Give glyph 1 a well-formed range
	// (start < end) that lies entirely outside the glyf table.
	put16(font, locaOff+2, uint16((glyfLen+100)/2))
	put16(font, locaOff+4, uint16((glyfLen+120)/2))

	p, err := NewTTFParser(font)
	require.NoError(t, err)

	// The corrupt glyph's hmtx metrics survive; only the box is dropped.
	m, ok := p.GlyphMetrics(1)
	require.True(t, ok)
	assert.Zero(t, m.Left)
	assert.Zero(t, m.Right)
	assert.InDelta(t, 0.6, m.AdvanceWidth, 1e-9)

	// Untouched glyphs keep their boxes.
	m3, ok := p.GlyphMetrics(3)
	require.True(t, ok)
	assert.InDelta(t, 0.7, m3.Right, 1e-9)
}

func TestParser_HeaderMetrics(t *testing.T) {
	p := newTestParser(t)

	assert.Equal(t, uint16(testUnitsPerEm), p.UnitsPerEm())
	assert.Equal(t, int16(testAscent), p.Ascent())
	assert.Equal(t, int16(testDescent), p.Descent())
	assert.Equal(t, int16(testLineGap), p.LineGap())
	assert.Equal(t, uint16(testNumGlyphs), p.NumGlyphs())
	assert.Equal(t, [4]int16{-50, -200, 900, 800}, p.BoundingBox())

	assert.InDelta(t, -12.5, p.ItalicAngle(), 1e-9)
	assert.False(t, p.IsFixedPitch())
	assert.Equal(t, uint16(700), p.WeightClass())
	assert.Equal(t, int16(710), p.CapHeight())
	assert.Equal(t, int16(520), p.XHeight())
}

func TestParser_GlyphIndex(t *testing.T) {
	p := newTestParser(t)

	cases := map[rune]uint16{
		'A': 1, 'B': 2, 'C': 3,
		'0': 1, '1': 2, '2': 3,
		'F': 6, 'G': 7,
		'Z':     4,
		'a':     3,
		0x1F600: 6,
		0x1F601: 7,
	}
	for ch, want := range cases {
		assert.Equal(t, want, p.GlyphIndex(ch), "char %q", ch)
	}

	assert.Zero(t, p.GlyphIndex('Q'))
	assert.True(t, p.IsCharSupported('A'))
	assert.False(t, p.IsCharSupported('Q'))
}

// The format 0 subtable maps 'A' to glyph 2, the format 4 subtable parsed
// after it maps 'A' to glyph 1. The later subtable must win.
func TestParser_CmapLastSubtableWins(t *testing.T) {
	p := newTestParser(t)
	assert.Equal(t, uint16(1), p.GlyphIndex('A'))
}

func TestParser_GlyphMetrics(t *testing.T) {
	p := newTestParser(t)

	m, ok := p.GlyphMetrics(1)
	require.True(t, ok)

	want := GlyphMetrics{
		Left:         0.010,
		Bottom:       0,
		Right:        0.600,
		Top:          0.700,
		Ascent:       0.718,
		Descent:      -0.207,
		AdvanceWidth: 0.600,
		LeftBearing:  0.010,
	}
	if diff := cmp.Diff(want, m, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("glyph metrics mismatch (-want +got):\n%s", diff)
	}

	_, ok = p.GlyphMetrics(testNumGlyphs)
	assert.False(t, ok)

	// Characters resolve through the cmap; unmapped ones get notdef's.
	cm, ok := p.CharMetrics('A')
	require.True(t, ok)
	assert.InDelta(t, 0.6, cm.AdvanceWidth, 1e-9)

	nm, ok := p.CharMetrics('Q')
	require.True(t, ok)
	assert.InDelta(t, 0.5, nm.AdvanceWidth, 1e-9)
}

func TestParser_MeasureText(t *testing.T) {
	p := newTestParser(t)

	assert.InDelta(t, 1250, p.MeasureText("AB"), 1e-9)
	assert.Zero(t, p.MeasureText(""))

	// Unmapped characters measure at the notdef advance.
	assert.InDelta(t, 600+500, p.MeasureText("AQ"), 1e-9)

	// Supplementary-plane characters count once per code point.
	assert.InDelta(t, 550, p.MeasureText("\U0001F600"), 1e-9)
}

func TestParser_Names(t *testing.T) {
	p := newTestParser(t)

	ps, ok := p.NameByID(nameIDPostScript)
	require.True(t, ok)
	assert.Equal(t, "TestFont-Regular", ps)

	// The family record only exists on the Macintosh platform.
	family, ok := p.NameByID(nameIDFamily)
	require.True(t, ok)
	assert.Equal(t, "TestFont", family)

	_, ok = p.NameByID(nameIDFullName)
	assert.False(t, ok)

	assert.Equal(t, "TestFont-Regular", p.FontName())
}

func TestParser_ReadGlyphComposite(t *testing.T) {
	p := newTestParser(t)

	outline, err := p.readGlyph(4)
	require.NoError(t, err)
	require.Len(t, outline.components, 1)
	assert.Equal(t, uint16(5), outline.components[0].glyphIndex)

	simple, err := p.readGlyph(1)
	require.NoError(t, err)
	assert.Empty(t, simple.components)
	assert.NotEmpty(t, simple.data)
}

func TestParser_GlyphRangeOutOfBounds(t *testing.T) {
	p := newTestParser(t)

	_, _, err := p.glyphRange(testNumGlyphs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
