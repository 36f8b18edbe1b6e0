package writer

import (
	"bytes"
	"fmt"

	"github.com/nick-we/typescript-pdf-sub003/internal/fonts"
)

// TextOp represents a text drawing operation.
//
// This is an infrastructure-level representation of text operations from
// the creator package.
type TextOp struct {
	Text  string  // Text to display
	X     float64 // Horizontal position (points from left)
	Y     float64 // Vertical position (points from bottom)
	Font  string  // Standard font name (e.g., "Helvetica")
	Size  float64 // Font size in points
	Color RGB     // Text fill color

	// CustomFont is an embedded TrueType font. When set, it takes
	// precedence over the Font field.
	CustomFont *EmbeddedFont
}

// EmbeddedFont pairs a parsed TrueType font with the subset collected for
// it, used to pass font state from Creator to Writer.
type EmbeddedFont struct {
	// Parser is the parsed source font.
	Parser *fonts.TTFParser

	// Subset holds the used characters and, once built, the subset buffer.
	Subset *fonts.FontSubset

	// ID uniquely identifies this font instance within a document.
	ID string
}

// RGB represents an RGB color (0.0 to 1.0 range).
type RGB struct {
	R float64
	G float64
	B float64
}

// GraphicsKind selects a GraphicsOp shape.
type GraphicsKind int

const (
	// GraphicsLine is a straight stroked line.
	GraphicsLine GraphicsKind = iota

	// GraphicsRect is a rectangle, stroked and/or filled.
	GraphicsRect
)

// GraphicsOp represents a graphics drawing operation.
type GraphicsOp struct {
	Kind GraphicsKind

	// X, Y is the line start or the rectangle's lower-left corner.
	X float64
	Y float64

	// Line end point.
	X2 float64
	Y2 float64

	// Rectangle dimensions.
	Width  float64
	Height float64

	StrokeColor *RGB
	FillColor   *RGB
	StrokeWidth float64
	DashArray   []float64
	DashPhase   float64
}

// GenerateContentStream generates a PDF content stream from text and
// graphics operations. Graphics are drawn before text so text stays on
// top. fontObjNums maps font keys ("std:<name>" or "custom:<id>") to the
// font dictionary object numbers already allocated by the document writer.
//
// Example content stream:
//
//	BT
//	0 0 0 rg
//	/F1 24 Tf
//	100 700 Td
//	(Hello World) Tj
//	ET
func GenerateContentStream(textOps []TextOp, graphicsOps []GraphicsOp, fontObjNums map[string]int) (content []byte, resources *ResourceDictionary, err error) {
	resources = NewResourceDictionary()
	if len(textOps) == 0 && len(graphicsOps) == 0 {
		return []byte{}, resources, nil
	}

	csw := NewContentStreamWriter()

	for _, gop := range graphicsOps {
		if err := renderGraphicsOp(csw, gop); err != nil {
			return nil, nil, fmt.Errorf("render graphics: %w", err)
		}
	}

	for _, op := range textOps {
		fontKey := FontKey(op)
		fontResName := resources.GetFontResourceName(fontKey)
		if fontResName == "" {
			fontResName = resources.AddFontWithID(fontObjNums[fontKey], fontKey)
		}

		csw.BeginText()
		csw.SetFillColorRGB(op.Color.R, op.Color.G, op.Color.B)
		csw.SetFont(fontResName, op.Size)
		csw.MoveTextPosition(op.X, op.Y)

		// Embedded fonts are Identity-H encoded: the string is the glyph
		// index sequence, not text bytes.
		if op.CustomFont != nil {
			csw.ShowTextEncoded(encodeTextForEmbeddedFont(op.Text, op.CustomFont))
		} else {
			csw.ShowText(op.Text)
		}

		csw.EndText()
	}

	return csw.Bytes(), resources, nil
}

// FontKey returns the font map key a text operation resolves to.
func FontKey(op TextOp) string {
	if op.CustomFont != nil {
		return "custom:" + op.CustomFont.ID
	}
	return "std:" + op.Font
}

// renderGraphicsOp renders a single graphics operation, bracketed in its
// own graphics state.
func renderGraphicsOp(csw *ContentStreamWriter, gop GraphicsOp) error {
	csw.SaveState()
	defer csw.RestoreState()

	if gop.StrokeWidth > 0 {
		csw.SetLineWidth(gop.StrokeWidth)
	} else {
		csw.SetLineWidth(1.0)
	}
	if len(gop.DashArray) > 0 {
		csw.SetDashPattern(gop.DashArray, gop.DashPhase)
	}
	if gop.StrokeColor != nil {
		csw.SetStrokeColorRGB(gop.StrokeColor.R, gop.StrokeColor.G, gop.StrokeColor.B)
	}

	switch gop.Kind {
	case GraphicsLine:
		csw.MoveTo(gop.X, gop.Y)
		csw.LineTo(gop.X2, gop.Y2)
		csw.Stroke()
		return nil

	case GraphicsRect:
		csw.Rectangle(gop.X, gop.Y, gop.Width, gop.Height)
		if gop.FillColor != nil {
			csw.SetFillColorRGB(gop.FillColor.R, gop.FillColor.G, gop.FillColor.B)
		}
		switch {
		case gop.FillColor != nil && gop.StrokeColor != nil:
			csw.FillAndStroke()
		case gop.FillColor != nil:
			csw.Fill()
		default:
			csw.Stroke()
		}
		return nil

	default:
		return fmt.Errorf("unknown graphics operation kind: %d", gop.Kind)
	}
}

// encodeTextForEmbeddedFont encodes text as the hex glyph index string an
// Identity-H content stream needs.
//
// The indices are the subset's renumbered glyph indices; the ToUnicode
// CMap provides the reverse mapping for text extraction. Characters the
// subset never collected resolve to notdef (index 0).
func encodeTextForEmbeddedFont(text string, font *EmbeddedFont) string {
	if font == nil || font.Subset == nil {
		return "<>"
	}

	var buf bytes.Buffer
	buf.WriteString("<")
	for _, r := range text {
		fmt.Fprintf(&buf, "%04X", font.Subset.GlyphIndexForChar(r))
	}
	buf.WriteString(">")
	return buf.String()
}

// CreateStandardFontObject creates the Type1 font dictionary for one of
// the standard fonts every reader ships. No descriptor or embedding is
// needed; the name is the whole reference.
func CreateStandardFontObject(objNum int, baseFont string) *IndirectObject {
	var buf bytes.Buffer
	buf.WriteString("<<")
	buf.WriteString(" /Type /Font")
	buf.WriteString(" /Subtype /Type1")
	fmt.Fprintf(&buf, " /BaseFont /%s", baseFont)
	buf.WriteString(" /Encoding /WinAnsiEncoding")
	buf.WriteString(" >>")

	return NewIndirectObject(objNum, 0, buf.Bytes())
}

// CreateContentStreamObject creates a PDF stream object for page content.
//
// Format (compressed):
//
//	<< /Length M /Filter /FlateDecode >>
//	stream
//	... compressed content ...
//	endstream
//
// Small streams are stored raw; the filter overhead would outweigh the
// saving. A failed compression also falls back to raw.
func CreateContentStreamObject(objNum int, content []byte, compress bool) *IndirectObject {
	actualContent := content
	compressed := false
	if compress && ShouldCompress(content) {
		if data, err := CompressStream(content, DefaultCompression); err == nil && len(data) < len(content) {
			actualContent = data
			compressed = true
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Length %d", len(actualContent))
	if compressed {
		buf.WriteString(" /Filter /FlateDecode")
	}
	buf.WriteString(" >>\n")
	buf.WriteString("stream\n")
	buf.Write(actualContent)
	if !compressed && len(actualContent) > 0 && actualContent[len(actualContent)-1] != '\n' {
		buf.WriteString("\n")
	}
	buf.WriteString("endstream")

	return NewIndirectObject(objNum, 0, buf.Bytes())
}
