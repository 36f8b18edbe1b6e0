package creator

import (
	"fmt"

	"github.com/nick-we/typescript-pdf-sub003/internal/fonts"
)

// CustomFont represents an embedded TrueType/OpenType font.
//
// Custom fonts allow you to use any TTF font file in your PDFs, including
// fonts with Unicode support (Cyrillic, CJK, etc.).
//
// The font is embedded as a subset containing only the glyphs the document
// actually uses, which keeps the output small. Characters are collected
// automatically as text is drawn; the subset is built once when the
// document is written.
//
// Example:
//
//	font, err := creator.LoadFont("fonts/OpenSans-Regular.ttf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page.AddTextCustomFont("Текст на русском", 72, 700, font, 12)
type CustomFont struct {
	parser *fonts.TTFParser
	subset *fonts.FontSubset
}

// LoadFont loads a TrueType/OpenType font file.
//
// Supported formats:
//   - TrueType (.ttf)
//   - OpenType with TrueType outlines (.otf)
//
// Not supported:
//   - OpenType with CFF outlines (.otf with PostScript outlines)
//   - TrueType Collections (.ttc)
//
// Returns an error if the file cannot be read or is not a valid font.
func LoadFont(path string) (*CustomFont, error) {
	parser, err := fonts.LoadTTF(path)
	if err != nil {
		return nil, fmt.Errorf("load TTF: %w", err)
	}
	return newCustomFont(parser), nil
}

// NewFontFromBytes parses a font from an in-memory buffer, for fonts
// shipped via embed or fetched at runtime.
func NewFontFromBytes(data []byte) (*CustomFont, error) {
	parser, err := fonts.NewTTFParser(data)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	return newCustomFont(parser), nil
}

func newCustomFont(parser *fonts.TTFParser) *CustomFont {
	return &CustomFont{
		parser: parser,
		subset: fonts.NewFontSubset(parser),
	}
}

// UseChar marks a character as used (for subsetting).
//
// This is called automatically by text drawing functions; manual calls are
// only needed when content streams are assembled outside the creator.
func (f *CustomFont) UseChar(ch rune) {
	f.subset.UseChar(ch)
}

// UseString marks all characters in a string as used.
func (f *CustomFont) UseString(text string) {
	f.subset.UseString(text)
}

// MeasureString returns the width of a string in points at the given size.
//
// Measurement reads the original font's metrics, so it is stable no matter
// which characters have been collected so far.
func (f *CustomFont) MeasureString(text string, size float64) float64 {
	return f.parser.MeasureText(text) * size / float64(f.parser.UnitsPerEm())
}

// Ascender returns the font ascent in points at the given size.
func (f *CustomFont) Ascender(size float64) float64 {
	return float64(f.parser.Ascent()) * size / float64(f.parser.UnitsPerEm())
}

// Descender returns the font descent in points at the given size
// (negative).
func (f *CustomFont) Descender(size float64) float64 {
	return float64(f.parser.Descent()) * size / float64(f.parser.UnitsPerEm())
}

// FontHeight returns the default line height in points at the given size:
// ascent minus descent plus the font's line gap.
func (f *CustomFont) FontHeight(size float64) float64 {
	units := float64(f.parser.Ascent()) - float64(f.parser.Descent()) + float64(f.parser.LineGap())
	return units * size / float64(f.parser.UnitsPerEm())
}

// Build builds the font subset buffer. It is called automatically when the
// document is written; calling it again after more characters were added
// regenerates the buffer.
func (f *CustomFont) Build() error {
	if err := f.subset.Build(); err != nil {
		return fmt.Errorf("build subset: %w", err)
	}
	return nil
}

// PostScriptName returns the PostScript name of the font, used as the base
// of the PDF font name.
func (f *CustomFont) PostScriptName() string {
	return f.parser.FontName()
}

// Parser returns the parsed font (for internal use).
func (f *CustomFont) Parser() *fonts.TTFParser {
	return f.parser
}

// Subset returns the font subset (for internal use).
func (f *CustomFont) Subset() *fonts.FontSubset {
	return f.subset
}

// ID returns an identifier for this font instance, used to deduplicate
// fonts shared across pages.
func (f *CustomFont) ID() string {
	return f.parser.FontName()
}
