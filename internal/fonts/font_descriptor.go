package fonts

import (
	"fmt"
	"strings"
)

// FontDescriptor flag bits (PDF 1.7, Table 123).
const (
	flagFixedPitch = 1 << 0
	flagSymbolic   = 1 << 2
	flagItalic     = 1 << 6
)

// FontDescriptor represents a PDF FontDescriptor dictionary.
//
// The FontDescriptor specifies metrics and other attributes of a font.
// It is required for embedded fonts in PDF documents. All metric fields
// are in PDF glyph space (1000 units per em).
//
// Reference: PDF Reference 1.7, Section 9.8.
type FontDescriptor struct {
	// FontName is the PostScript name of the font.
	FontName string

	// Flags is the font flags bitmap (PDF spec Table 123).
	Flags uint32

	// FontBBox is the bounding box [llx lly urx ury] in glyph space.
	FontBBox [4]int

	// ItalicAngle is the angle of italic text in degrees.
	ItalicAngle float64

	// Ascent is the maximum height above baseline.
	Ascent int

	// Descent is the maximum depth below baseline (negative).
	Descent int

	// CapHeight is the height of capital letters.
	CapHeight int

	// StemV is the dominant vertical stem width.
	StemV int

	// XHeight is the height of lowercase x (optional).
	XHeight int

	// Leading is the spacing between lines (optional).
	Leading int
}

// NewFontDescriptor builds a FontDescriptor from a parsed font, converting
// every metric from design units to PDF glyph space (scaled by
// 1000/unitsPerEm).
//
// StemV is not stored in TrueType fonts; it is estimated from the OS/2
// weight class the way common PDF producers do.
func NewFontDescriptor(p *TTFParser) *FontDescriptor {
	scale := 1000.0 / float64(p.UnitsPerEm())

	var flags uint32 = flagSymbolic
	if p.IsFixedPitch() {
		flags |= flagFixedPitch
	}
	if p.ItalicAngle() != 0 {
		flags |= flagItalic
	}

	bbox := p.BoundingBox()

	return &FontDescriptor{
		FontName:    sanitizePostScriptName(p.FontName()),
		Flags:       flags,
		FontBBox:    scaleFontBBox(bbox, scale),
		ItalicAngle: p.ItalicAngle(),
		Ascent:      scaleMetric(p.Ascent(), scale),
		Descent:     scaleMetric(p.Descent(), scale),
		CapHeight:   scaleMetric(p.CapHeight(), scale),
		StemV:       estimateStemV(p.WeightClass()),
		XHeight:     scaleMetric(p.XHeight(), scale),
		Leading:     scaleMetric(p.LineGap(), scale),
	}
}

// estimateStemV maps an OS/2 usWeightClass (100-900) to a stem width in
// glyph space. Regular (400) lands near 80, bold (700) near 150. Zero means
// no OS/2 table and is treated as regular; other out-of-range values clamp.
func estimateStemV(weightClass uint16) int {
	w := int(weightClass)
	switch {
	case w == 0:
		w = 400
	case w < 100:
		w = 100
	case w > 900:
		w = 900
	}
	return 10 + int(float64(w-100)*0.2333)
}

// sanitizePostScriptName strips characters a PostScript name cannot carry.
func sanitizePostScriptName(name string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' || r > '~' || strings.ContainsRune("()<>[]{}/%", r) {
			return -1
		}
		return r
	}, name)
}

// scaleFontBBox scales the font bounding box to PDF units.
func scaleFontBBox(bbox [4]int16, scale float64) [4]int {
	return [4]int{
		int(float64(bbox[0]) * scale),
		int(float64(bbox[1]) * scale),
		int(float64(bbox[2]) * scale),
		int(float64(bbox[3]) * scale),
	}
}

// scaleMetric scales a single metric value to PDF units.
func scaleMetric(value int16, scale float64) int {
	return int(float64(value) * scale)
}

// ToPDFDict generates the PDF FontDescriptor dictionary as a string.
//
// The output format:
//
//	<<
//	/Type /FontDescriptor
//	/FontName /ABCDEF+OpenSans-Regular
//	/Flags 4
//	/FontBBox [0 -200 1000 800]
//	/ItalicAngle 0
//	/Ascent 800
//	/Descent -200
//	/CapHeight 700
//	/StemV 80
//	/FontFile2 X 0 R
//	>>
func (fd *FontDescriptor) ToPDFDict(fontFile2ObjNum int) string {
	var sb strings.Builder

	sb.WriteString("<<\n")
	sb.WriteString("/Type /FontDescriptor\n")
	sb.WriteString(fmt.Sprintf("/FontName /%s\n", fd.FontName))
	sb.WriteString(fmt.Sprintf("/Flags %d\n", fd.Flags))
	sb.WriteString(fmt.Sprintf("/FontBBox [%d %d %d %d]\n",
		fd.FontBBox[0], fd.FontBBox[1], fd.FontBBox[2], fd.FontBBox[3]))
	sb.WriteString(fmt.Sprintf("/ItalicAngle %.1f\n", fd.ItalicAngle))
	sb.WriteString(fmt.Sprintf("/Ascent %d\n", fd.Ascent))
	sb.WriteString(fmt.Sprintf("/Descent %d\n", fd.Descent))
	sb.WriteString(fmt.Sprintf("/CapHeight %d\n", fd.CapHeight))
	sb.WriteString(fmt.Sprintf("/StemV %d\n", fd.StemV))

	if fd.XHeight > 0 {
		sb.WriteString(fmt.Sprintf("/XHeight %d\n", fd.XHeight))
	}

	if fontFile2ObjNum > 0 {
		sb.WriteString(fmt.Sprintf("/FontFile2 %d 0 R\n", fontFile2ObjNum))
	}

	sb.WriteString(">>")

	return sb.String()
}

// SubsetFontName prefixes a base font name with the six-letter subset tag
// PDF requires for embedded subsets. Example: ABCDEF+OpenSans-Regular.
//
// The prefix is a hash of the used characters, so the same subset always
// gets the same name (deterministic output) while different subsets of one
// font stay distinguishable.
func SubsetFontName(baseName string, usedChars []rune) string {
	hash := uint32(0)
	for _, r := range usedChars {
		hash = hash*31 + uint32(r)
	}

	prefix := make([]byte, 6)
	for i := 0; i < 6; i++ {
		prefix[i] = byte('A' + (hash % 26))
		hash /= 26
	}

	return string(prefix) + "+" + baseName
}
