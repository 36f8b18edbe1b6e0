package writer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/nick-we/typescript-pdf-sub003/internal/fonts"
)

// EmbeddedFontRefs holds object numbers for an embedded TrueType font.
//
// These references are used to link font objects together in the PDF.
type EmbeddedFontRefs struct {
	FontObjNum       int // Type0 font dictionary object number
	DescendantObjNum int // CIDFontType2 dictionary object number
	DescriptorObjNum int // FontDescriptor object number
	ToUnicodeObjNum  int // ToUnicode CMap object number
	FontFileObjNum   int // FontFile2 stream object number
}

// TrueTypeFontWriter generates PDF objects for an embedded TrueType font.
//
// Embedded fonts are written as composite Type0 fonts over a CIDFontType2
// descendant with Identity-H encoding: content streams address glyphs by
// their 16-bit subset glyph index, and CIDToGIDMap is Identity because the
// subset is renumbered densely from zero.
//
// Objects produced:
//   - Type0 font dictionary
//   - CIDFontType2 descendant (W array, CIDToGIDMap)
//   - FontDescriptor (metrics, FontFile2 reference)
//   - FontFile2 stream (the subset font, Flate-compressed)
//   - ToUnicode CMap (for text extraction)
//
// Reference: PDF 1.7, Section 9.7 (Composite Fonts) and 9.8 (FontDescriptor).
type TrueTypeFontWriter struct {
	parser    *fonts.TTFParser
	subset    *fonts.FontSubset
	objNumGen func() int
}

// NewTrueTypeFontWriter creates a font writer over a parsed font and the
// subset collected for it. objNumGen hands out document object numbers.
func NewTrueTypeFontWriter(parser *fonts.TTFParser, subset *fonts.FontSubset, objNumGen func() int) *TrueTypeFontWriter {
	return &TrueTypeFontWriter{
		parser:    parser,
		subset:    subset,
		objNumGen: objNumGen,
	}
}

// WriteFont generates all PDF objects for the embedded font. The subset is
// built here if the caller has not already done so.
func (w *TrueTypeFontWriter) WriteFont() ([]*IndirectObject, *EmbeddedFontRefs, error) {
	if len(w.subset.SubsetData) == 0 {
		if err := w.subset.Build(); err != nil {
			return nil, nil, fmt.Errorf("build font subset: %w", err)
		}
	}

	refs := &EmbeddedFontRefs{
		FontObjNum:       w.objNumGen(),
		DescendantObjNum: w.objNumGen(),
		DescriptorObjNum: w.objNumGen(),
		ToUnicodeObjNum:  w.objNumGen(),
		FontFileObjNum:   w.objNumGen(),
	}

	subsetName := w.subsetName()

	fontFileObj, err := w.createFontFileObject(refs.FontFileObjNum)
	if err != nil {
		return nil, nil, fmt.Errorf("create font file: %w", err)
	}

	toUnicodeObj, err := w.createToUnicodeObject(refs.ToUnicodeObjNum)
	if err != nil {
		return nil, nil, fmt.Errorf("create ToUnicode: %w", err)
	}

	objects := []*IndirectObject{
		w.createType0Object(refs, subsetName),
		w.createDescendantObject(refs, subsetName),
		w.createDescriptorObject(refs, subsetName),
		toUnicodeObj,
		fontFileObj,
	}

	return objects, refs, nil
}

// subsetName returns the tagged PostScript name identifying this subset.
// The characters are sorted first; the tag hash must not depend on map
// iteration order.
func (w *TrueTypeFontWriter) subsetName() string {
	usedChars := make([]rune, 0, len(w.subset.UsedChars))
	for ch := range w.subset.UsedChars {
		usedChars = append(usedChars, ch)
	}
	sort.Slice(usedChars, func(i, j int) bool { return usedChars[i] < usedChars[j] })

	fd := fonts.NewFontDescriptor(w.parser)
	return fonts.SubsetFontName(fd.FontName, usedChars)
}

// createFontFileObject creates the FontFile2 stream holding the compressed
// subset font. /Length1 carries the uncompressed size, as FontFile2
// requires.
func (w *TrueTypeFontWriter) createFontFileObject(objNum int) (*IndirectObject, error) {
	subsetData := w.subset.SubsetData

	compressed, err := CompressStream(subsetData, DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("compress font data: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	fmt.Fprintf(&buf, "/Length %d\n", len(compressed))
	fmt.Fprintf(&buf, "/Length1 %d\n", len(subsetData))
	buf.WriteString("/Filter /FlateDecode\n")
	buf.WriteString(">>\n")
	buf.WriteString("stream\n")
	buf.Write(compressed)
	buf.WriteString("\nendstream")

	return NewIndirectObject(objNum, 0, buf.Bytes()), nil
}

// createDescriptorObject creates the FontDescriptor dictionary.
func (w *TrueTypeFontWriter) createDescriptorObject(refs *EmbeddedFontRefs, subsetName string) *IndirectObject {
	fd := fonts.NewFontDescriptor(w.parser)
	fd.FontName = subsetName
	return NewIndirectObject(refs.DescriptorObjNum, 0, []byte(fd.ToPDFDict(refs.FontFileObjNum)))
}

// createToUnicodeObject creates the compressed ToUnicode CMap stream.
func (w *TrueTypeFontWriter) createToUnicodeObject(objNum int) (*IndirectObject, error) {
	cmapData, err := fonts.GenerateToUnicodeCMap(w.subset)
	if err != nil {
		return nil, fmt.Errorf("generate ToUnicode CMap: %w", err)
	}

	compressed, err := CompressStream(cmapData, DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("compress ToUnicode: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	fmt.Fprintf(&buf, "/Length %d\n", len(compressed))
	buf.WriteString("/Filter /FlateDecode\n")
	buf.WriteString(">>\n")
	buf.WriteString("stream\n")
	buf.Write(compressed)
	buf.WriteString("\nendstream")

	return NewIndirectObject(objNum, 0, buf.Bytes()), nil
}

// createDescendantObject creates the CIDFontType2 dictionary.
func (w *TrueTypeFontWriter) createDescendantObject(refs *EmbeddedFontRefs, subsetName string) *IndirectObject {
	var buf bytes.Buffer
	buf.WriteString("<<\n")
	buf.WriteString("/Type /Font\n")
	buf.WriteString("/Subtype /CIDFontType2\n")
	fmt.Fprintf(&buf, "/BaseFont /%s\n", subsetName)
	buf.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >>\n")
	fmt.Fprintf(&buf, "/FontDescriptor %d 0 R\n", refs.DescriptorObjNum)
	fmt.Fprintf(&buf, "/W %s\n", w.generateWidthsArray())
	buf.WriteString("/CIDToGIDMap /Identity\n")
	buf.WriteString(">>")

	return NewIndirectObject(refs.DescendantObjNum, 0, buf.Bytes())
}

// createType0Object creates the top-level Type0 font dictionary.
func (w *TrueTypeFontWriter) createType0Object(refs *EmbeddedFontRefs, subsetName string) *IndirectObject {
	var buf bytes.Buffer
	buf.WriteString("<<\n")
	buf.WriteString("/Type /Font\n")
	buf.WriteString("/Subtype /Type0\n")
	fmt.Fprintf(&buf, "/BaseFont /%s\n", subsetName)
	buf.WriteString("/Encoding /Identity-H\n")
	fmt.Fprintf(&buf, "/DescendantFonts [%d 0 R]\n", refs.DescendantObjNum)
	fmt.Fprintf(&buf, "/ToUnicode %d 0 R\n", refs.ToUnicodeObjNum)
	buf.WriteString(">>")

	return NewIndirectObject(refs.FontObjNum, 0, buf.Bytes())
}

// generateWidthsArray builds the /W array: advance widths in glyph space
// for every subset glyph. Subset indices are dense from zero, so a single
// "0 [w0 w1 ...]" run covers the whole font.
func (w *TrueTypeFontWriter) generateWidthsArray() string {
	var buf bytes.Buffer
	buf.WriteString("[0 [")
	for i, sg := range w.subset.Glyphs() {
		if i > 0 {
			buf.WriteString(" ")
		}
		m, _ := w.parser.GlyphMetrics(sg.OriginalIndex)
		fmt.Fprintf(&buf, "%d", int(m.AdvanceWidth*1000))
	}
	buf.WriteString("]]")
	return buf.String()
}
