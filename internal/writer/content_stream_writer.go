package writer

import (
	"bytes"
	"fmt"
	"strings"
)

// ContentStreamWriter builds PDF content streams.
//
// A content stream is a sequence of PDF operators and operands that
// describe page content (text and graphics).
//
// Example:
//
//	csw := NewContentStreamWriter()
//	csw.BeginText()
//	csw.SetFont("F1", 12)
//	csw.MoveTextPosition(100, 700)
//	csw.ShowText("Hello World")
//	csw.EndText()
//	content := csw.Bytes()
//
// Reference: PDF 1.7 Specification, Section 8.2 (Content Streams and Resources).
type ContentStreamWriter struct {
	buf         bytes.Buffer
	compression CompressionLevel
}

// NewContentStreamWriter creates a content stream writer with
// DefaultCompression; use SetCompression to change it.
func NewContentStreamWriter() *ContentStreamWriter {
	return &ContentStreamWriter{
		compression: DefaultCompression,
	}
}

// Bytes returns the accumulated content stream data.
func (csw *ContentStreamWriter) Bytes() []byte {
	return csw.buf.Bytes()
}

// String returns the content stream as a string (for debugging).
func (csw *ContentStreamWriter) String() string {
	return csw.buf.String()
}

// Len returns the length of the accumulated content.
func (csw *ContentStreamWriter) Len() int {
	return csw.buf.Len()
}

// Reset clears the content stream buffer.
func (csw *ContentStreamWriter) Reset() {
	csw.buf.Reset()
}

// writeOp writes an operator with optional operands.
func (csw *ContentStreamWriter) writeOp(operands string, operator string) {
	if operands != "" {
		csw.buf.WriteString(operands)
		csw.buf.WriteString(" ")
	}
	csw.buf.WriteString(operator)
	csw.buf.WriteString("\n")
}

// --- TEXT OPERATORS ---

// BeginText begins a text object (BT operator).
func (csw *ContentStreamWriter) BeginText() {
	csw.writeOp("", "BT")
}

// EndText ends a text object (ET operator).
func (csw *ContentStreamWriter) EndText() {
	csw.writeOp("", "ET")
}

// SetFont sets the text font and size (Tf operator). fontName is the font
// resource name, e.g. "F1".
func (csw *ContentStreamWriter) SetFont(fontName string, size float64) {
	csw.writeOp(fmt.Sprintf("/%s %.2f", fontName, size), "Tf")
}

// MoveTextPosition moves to the start of the next line (Td operator).
func (csw *ContentStreamWriter) MoveTextPosition(tx, ty float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f", tx, ty), "Td")
}

// SetTextMatrix sets the text matrix (Tm operator).
func (csw *ContentStreamWriter) SetTextMatrix(a, b, c, d, e, f float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f %.2f %.2f %.2f %.2f", a, b, c, d, e, f), "Tm")
}

// ShowText shows a literal text string (Tj operator). The text is escaped.
func (csw *ContentStreamWriter) ShowText(text string) {
	csw.writeOp(fmt.Sprintf("(%s)", EscapePDFString(text)), "Tj")
}

// ShowTextEncoded shows pre-encoded text as a hex string (Tj operator).
//
// This is used for embedded fonts where the text is already encoded as a
// glyph index hex string, e.g. "<00480065>".
func (csw *ContentStreamWriter) ShowTextEncoded(encodedText string) {
	csw.writeOp(encodedText, "Tj")
}

// SetLeading sets the vertical distance between text lines (TL operator).
func (csw *ContentStreamWriter) SetLeading(leading float64) {
	csw.writeOp(fmt.Sprintf("%.2f", leading), "TL")
}

// MoveToNextLine moves to the start of the next line (T* operator).
func (csw *ContentStreamWriter) MoveToNextLine() {
	csw.writeOp("", "T*")
}

// --- GRAPHICS OPERATORS ---

// MoveTo begins a new subpath (m operator).
func (csw *ContentStreamWriter) MoveTo(x, y float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f", x, y), "m")
}

// LineTo appends a straight line segment (l operator).
func (csw *ContentStreamWriter) LineTo(x, y float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f", x, y), "l")
}

// CurveTo appends a cubic Bezier curve (c operator).
func (csw *ContentStreamWriter) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f %.2f %.2f %.2f %.2f", x1, y1, x2, y2, x3, y3), "c")
}

// Rectangle appends a rectangle (re operator). x, y is the lower-left
// corner.
func (csw *ContentStreamWriter) Rectangle(x, y, width, height float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f %.2f %.2f", x, y, width, height), "re")
}

// ClosePath closes the current subpath (h operator).
func (csw *ContentStreamWriter) ClosePath() {
	csw.writeOp("", "h")
}

// Stroke strokes the path (S operator).
func (csw *ContentStreamWriter) Stroke() {
	csw.writeOp("", "S")
}

// Fill fills the path using the nonzero winding rule (f operator).
func (csw *ContentStreamWriter) Fill() {
	csw.writeOp("", "f")
}

// FillAndStroke fills and strokes the path (B operator).
func (csw *ContentStreamWriter) FillAndStroke() {
	csw.writeOp("", "B")
}

// --- GRAPHICS STATE OPERATORS ---

// SaveState saves the graphics state (q operator).
func (csw *ContentStreamWriter) SaveState() {
	csw.writeOp("", "q")
}

// RestoreState restores the graphics state (Q operator).
func (csw *ContentStreamWriter) RestoreState() {
	csw.writeOp("", "Q")
}

// ConcatMatrix modifies the current transformation matrix (cm operator).
func (csw *ContentStreamWriter) ConcatMatrix(a, b, c, d, e, f float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f %.2f %.2f %.2f %.2f", a, b, c, d, e, f), "cm")
}

// SetLineWidth sets the line width in user space units (w operator).
func (csw *ContentStreamWriter) SetLineWidth(width float64) {
	csw.writeOp(fmt.Sprintf("%.2f", width), "w")
}

// SetDashPattern sets the line dash pattern (d operator). dashArray lists
// alternating dash and gap lengths; dashPhase is the starting offset.
func (csw *ContentStreamWriter) SetDashPattern(dashArray []float64, dashPhase float64) {
	parts := make([]string, 0, len(dashArray))
	for _, v := range dashArray {
		parts = append(parts, fmt.Sprintf("%.2f", v))
	}
	csw.writeOp(fmt.Sprintf("[%s] %.2f", strings.Join(parts, " "), dashPhase), "d")
}

// SetStrokeColorRGB sets the stroke color in RGB, 0.0 to 1.0 (RG operator).
func (csw *ContentStreamWriter) SetStrokeColorRGB(r, g, b float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f %.2f", r, g, b), "RG")
}

// SetFillColorRGB sets the fill color in RGB, 0.0 to 1.0 (rg operator).
func (csw *ContentStreamWriter) SetFillColorRGB(r, g, b float64) {
	csw.writeOp(fmt.Sprintf("%.2f %.2f %.2f", r, g, b), "rg")
}

// SetStrokeColorGray sets the stroke color in grayscale (G operator).
func (csw *ContentStreamWriter) SetStrokeColorGray(gray float64) {
	csw.writeOp(fmt.Sprintf("%.2f", gray), "G")
}

// SetFillColorGray sets the fill color in grayscale (g operator).
func (csw *ContentStreamWriter) SetFillColorGray(gray float64) {
	csw.writeOp(fmt.Sprintf("%.2f", gray), "g")
}

// --- COMPRESSION ---

// SetCompression sets the compression level used by CompressedBytes.
func (csw *ContentStreamWriter) SetCompression(level CompressionLevel) {
	csw.compression = level
}

// IsCompressed returns true if compression is enabled.
func (csw *ContentStreamWriter) IsCompressed() bool {
	return csw.compression != NoCompression
}

// CompressedBytes returns the content stream compressed at the configured
// level, or the raw bytes when compression is disabled.
func (csw *ContentStreamWriter) CompressedBytes() ([]byte, error) {
	data := csw.Bytes()
	if csw.compression == NoCompression {
		return data, nil
	}
	return CompressStream(data, csw.compression)
}
