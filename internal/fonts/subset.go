package fonts

import (
	"fmt"
	"sort"

	"github.com/nick-we/typescript-pdf-sub003/logging"
)

// FontSubset accumulates the characters a document actually uses and
// re-emits a minimal TrueType font containing only the glyphs those
// characters reach, renumbered densely from 0.
//
// Usage is two-phase: any number of AddString/AddChars calls (the used
// character set only grows), then a single Build/GenerateSubset. A subset
// instance is single-use for generation; construct a fresh pair per
// document when parallelizing.
//
// Unmapped characters are not an error: they resolve to glyph 0 (notdef),
// which every generated subset contains, so a document never fails to
// render over a missing glyph.
type FontSubset struct {
	parser *TTFParser

	// UsedChars is the set of character codes added so far.
	UsedChars map[rune]struct{}

	glyphs map[uint16]*SubsetGlyph // keyed by original glyph index
	order  []*SubsetGlyph          // indexed by new glyph index

	// SubsetData is the generated font buffer, populated by Build.
	SubsetData []byte
}

// SubsetGlyph tracks one glyph carried over into the subset.
//
// A SubsetGlyph is created exactly once, the first time its original index
// is reached — directly through a character or transitively as a composite
// component. Later hits only merge additional character codes.
type SubsetGlyph struct {
	// OriginalIndex is the glyph index in the source font.
	OriginalIndex uint16

	// NewIndex is the glyph index in the emitted subset. Indices are
	// dense and assigned in first-use order, starting with notdef at 0.
	NewIndex uint16

	// CharCodes lists the characters that map to this glyph. Empty for
	// glyphs reached only as composite components.
	CharCodes []rune

	outline glyphOutline
}

// SubsetStats summarizes what a subset kept, for diagnostics.
type SubsetStats struct {
	OriginalGlyphs int
	SubsetGlyphs   int
	OriginalChars  int
	SubsetChars    int

	// CompressionRatio is SubsetGlyphs / OriginalGlyphs. Strictly above 0
	// (notdef is always present) and at most 1.
	CompressionRatio float64
}

// NewFontSubset creates a subset builder over a parsed font.
//
// The notdef glyph is registered immediately so it always holds new index
// 0, no matter which characters are added later.
func NewFontSubset(parser *TTFParser) *FontSubset {
	s := &FontSubset{
		parser:    parser,
		UsedChars: make(map[rune]struct{}),
		glyphs:    make(map[uint16]*SubsetGlyph),
	}
	s.addGlyph(0, nil)
	return s
}

// AddString marks every character of text as used.
func (s *FontSubset) AddString(text string) {
	for _, ch := range text {
		s.addChar(ch)
	}
}

// AddChars marks the given characters as used.
func (s *FontSubset) AddChars(chars []rune) {
	for _, ch := range chars {
		s.addChar(ch)
	}
}

// UseString is an alias of AddString kept for the creator-facing surface.
func (s *FontSubset) UseString(text string) { s.AddString(text) }

// UseChar marks a single character as used.
func (s *FontSubset) UseChar(ch rune) { s.addChar(ch) }

func (s *FontSubset) addChar(ch rune) {
	if _, ok := s.UsedChars[ch]; ok {
		return
	}
	s.UsedChars[ch] = struct{}{}
	s.addGlyph(s.parser.GlyphIndex(ch), []rune{ch})
}

// addGlyph registers a glyph and, transitively, every composite component
// it references. The closure walk is an explicit FIFO worklist so that
// pathological composite chains cannot exhaust the stack; the visited
// check is the s.glyphs map itself.
//
// New indices are handed out monotonically in first-use order. Re-adding a
// known glyph only merges character codes and never changes its index.
func (s *FontSubset) addGlyph(gid uint16, charCodes []rune) {
	type pending struct {
		gid   uint16
		chars []rune
	}
	queue := []pending{{gid: gid, chars: charCodes}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if existing, ok := s.glyphs[item.gid]; ok {
			existing.mergeCharCodes(item.chars)
			continue
		}

		outline, err := s.parser.readGlyph(item.gid)
		if err != nil {
			logging.Logger().Warn("failed to read glyph outline; subsetting it empty",
				"glyph", item.gid, "error", err)
			outline = glyphOutline{}
		}

		sg := &SubsetGlyph{
			OriginalIndex: item.gid,
			NewIndex:      uint16(len(s.order)),
			CharCodes:     append([]rune(nil), item.chars...),
			outline:       outline,
		}
		s.glyphs[item.gid] = sg
		s.order = append(s.order, sg)

		// Components are not directly reachable by a character, so they
		// join the worklist with no character codes.
		for _, comp := range outline.components {
			queue = append(queue, pending{gid: comp.glyphIndex})
		}
	}
}

func (g *SubsetGlyph) mergeCharCodes(chars []rune) {
	for _, ch := range chars {
		seen := false
		for _, existing := range g.CharCodes {
			if existing == ch {
				seen = true
				break
			}
		}
		if !seen {
			g.CharCodes = append(g.CharCodes, ch)
		}
	}
}

// GlyphIndexForChar returns the subset glyph index a character will be
// rendered with (0 when the character was never added or is unmapped).
// Content streams for Identity-H encoded fonts write these indices.
func (s *FontSubset) GlyphIndexForChar(ch rune) uint16 {
	sg, ok := s.glyphs[s.parser.GlyphIndex(ch)]
	if !ok {
		return 0
	}
	return sg.NewIndex
}

// Glyphs returns the subset glyphs in new-index order.
func (s *FontSubset) Glyphs() []*SubsetGlyph {
	return s.order
}

// Parser returns the source font parser backing this subset.
func (s *FontSubset) Parser() *TTFParser {
	return s.parser
}

// GenerateSubset emits a complete, internally consistent TrueType buffer
// containing exactly the collected glyphs. The notdef glyph is force-added
// first (a no-op after the constructor, and on repeated calls), then the
// nine output tables are rebuilt and assembled into an sfnt file.
func (s *FontSubset) GenerateSubset() ([]byte, error) {
	s.addGlyph(0, nil)

	glyf, loca := s.buildGlyfAndLoca()

	head, err := s.buildHead()
	if err != nil {
		return nil, fmt.Errorf("build head table: %w", err)
	}
	hhea, err := s.buildHhea()
	if err != nil {
		return nil, fmt.Errorf("build hhea table: %w", err)
	}

	tables := []fontTable{
		{tag: "head", data: head},
		{tag: "hhea", data: hhea},
		{tag: "maxp", data: s.buildMaxp()},
		{tag: "cmap", data: s.buildCmap()},
		{tag: "name", data: s.buildName()},
		{tag: "post", data: s.buildPost()},
		{tag: "hmtx", data: s.buildHmtx()},
		{tag: "loca", data: loca},
		{tag: "glyf", data: glyf},
	}

	buf := assembleFont(tables)

	stats := s.Stats()
	logging.Logger().Debug("generated font subset",
		"font", s.parser.FontName(),
		"glyphs", stats.SubsetGlyphs,
		"chars", stats.SubsetChars,
		"ratio", stats.CompressionRatio)

	return buf, nil
}

// Build generates the subset and caches it in SubsetData.
func (s *FontSubset) Build() error {
	data, err := s.GenerateSubset()
	if err != nil {
		return err
	}
	s.SubsetData = data
	return nil
}

// Stats reports glyph and character counts for the subset. Purely
// informational; no side effects.
func (s *FontSubset) Stats() SubsetStats {
	stats := SubsetStats{
		OriginalGlyphs: int(s.parser.NumGlyphs()),
		SubsetGlyphs:   len(s.order),
		OriginalChars:  len(s.parser.charToGlyph),
		SubsetChars:    len(s.UsedChars),
	}
	if stats.OriginalGlyphs > 0 {
		stats.CompressionRatio = float64(stats.SubsetGlyphs) / float64(stats.OriginalGlyphs)
	}
	return stats
}

// sortedUsedChars returns the used character codes in ascending order.
func (s *FontSubset) sortedUsedChars() []rune {
	chars := make([]rune, 0, len(s.UsedChars))
	for ch := range s.UsedChars {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return chars
}
