package creator

// Color represents an RGB color with values in the range [0.0, 1.0].
//
// PDF uses RGB color space where:
// - 0.0 = no intensity (black for all channels)
// - 1.0 = full intensity (white for all channels)
//
// Example:
//
//	black := Color{0, 0, 0}      // RGB(0, 0, 0)
//	white := Color{1, 1, 1}      // RGB(255, 255, 255)
//	red := Color{1, 0, 0}        // RGB(255, 0, 0)
//	gray := Color{0.5, 0.5, 0.5} // RGB(128, 128, 128)
type Color struct {
	R float64 // Red component (0.0 to 1.0)
	G float64 // Green component (0.0 to 1.0)
	B float64 // Blue component (0.0 to 1.0)
}

// Predefined colors for common use cases.
var (
	// Black is pure black (RGB: 0, 0, 0).
	Black = Color{0, 0, 0}

	// White is pure white (RGB: 255, 255, 255).
	White = Color{1, 1, 1}

	// Red is pure red (RGB: 255, 0, 0).
	Red = Color{1, 0, 0}

	// Green is pure green (RGB: 0, 255, 0).
	Green = Color{0, 1, 0}

	// Blue is pure blue (RGB: 0, 0, 255).
	Blue = Color{0, 0, 1}

	// Gray is 50% gray (RGB: 128, 128, 128).
	Gray = Color{0.5, 0.5, 0.5}

	// LightGray is 75% gray (RGB: 192, 192, 192).
	LightGray = Color{0.75, 0.75, 0.75}
)

// FontName represents one of the Standard 14 fonts built into all PDF readers.
//
// These fonts do not require embedding and are guaranteed to be available
// in all PDF viewers.
//
// Reference: PDF 1.7 Specification, Section 9.6.2.2 (Standard Type 1 Fonts).
type FontName string

// Standard 14 fonts - Serif family (Times).
const (
	// TimesRoman is Times Roman (serif, regular weight, normal style).
	TimesRoman FontName = "Times-Roman"

	// TimesBold is Times Bold (serif, bold weight, normal style).
	TimesBold FontName = "Times-Bold"

	// TimesItalic is Times Italic (serif, regular weight, italic style).
	TimesItalic FontName = "Times-Italic"

	// TimesBoldItalic is Times Bold Italic (serif, bold weight, italic style).
	TimesBoldItalic FontName = "Times-BoldItalic"
)

// Standard 14 fonts - Sans-serif family (Helvetica).
const (
	// Helvetica is Helvetica (sans-serif, regular weight, normal style).
	Helvetica FontName = "Helvetica"

	// HelveticaBold is Helvetica Bold (sans-serif, bold weight, normal style).
	HelveticaBold FontName = "Helvetica-Bold"

	// HelveticaOblique is Helvetica Oblique (sans-serif, regular weight, oblique style).
	HelveticaOblique FontName = "Helvetica-Oblique"

	// HelveticaBoldOblique is Helvetica Bold Oblique (sans-serif, bold weight, oblique style).
	HelveticaBoldOblique FontName = "Helvetica-BoldOblique"
)

// Standard 14 fonts - Monospace family (Courier).
const (
	// Courier is Courier (monospace, regular weight, normal style).
	Courier FontName = "Courier"

	// CourierBold is Courier Bold (monospace, bold weight, normal style).
	CourierBold FontName = "Courier-Bold"

	// CourierOblique is Courier Oblique (monospace, regular weight, oblique style).
	CourierOblique FontName = "Courier-Oblique"

	// CourierBoldOblique is Courier Bold Oblique (monospace, bold weight, oblique style).
	CourierBoldOblique FontName = "Courier-BoldOblique"
)

// TextOperation represents a text drawing operation to be added to a page.
//
// Each TextOperation describes how to render a single text string at a
// specific position with a specific font, size, and color.
//
// Example:
//
//	op := TextOperation{
//	    Text:  "Hello World",
//	    X:     100,
//	    Y:     700,
//	    Font:  Helvetica,
//	    Size:  24,
//	    Color: Black,
//	}
type TextOperation struct {
	// Text is the string to display.
	Text string

	// X is the horizontal position in points (from left edge of page).
	X float64

	// Y is the vertical position in points (from bottom edge of page).
	Y float64

	// Font is the font to use (one of the Standard 14 fonts).
	// Ignored if CustomFont is set.
	Font FontName

	// CustomFont is an embedded TrueType/OpenType font (optional).
	// When set, this takes precedence over Font. Use for Unicode text
	// (Cyrillic, CJK, symbols, etc.).
	CustomFont *CustomFont

	// Size is the font size in points.
	Size float64

	// Color is the text color (RGB, 0.0 to 1.0 range).
	Color Color
}

// GraphicsShape selects the shape of a GraphicsOperation.
type GraphicsShape int

const (
	// ShapeLine is a straight stroked line.
	ShapeLine GraphicsShape = iota

	// ShapeRect is a rectangle, stroked and/or filled.
	ShapeRect
)

// GraphicsOperation represents a vector drawing operation on a page.
type GraphicsOperation struct {
	Shape GraphicsShape

	// X, Y is the line start or the rectangle's lower-left corner.
	X float64
	Y float64

	// X2, Y2 is the line end point.
	X2 float64
	Y2 float64

	// Width, Height are the rectangle dimensions.
	Width  float64
	Height float64

	StrokeColor *Color
	FillColor   *Color
	StrokeWidth float64
	DashArray   []float64
	DashPhase   float64
}
