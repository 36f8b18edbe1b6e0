package creator

import (
	"github.com/nick-we/typescript-pdf-sub003/internal/fonts"
)

// Font is the measurement interface shared by standard and custom fonts.
// Layout code can size text without caring whether the font is built in or
// embedded.
type Font interface {
	// MeasureString returns the width of text in points at the given size.
	MeasureString(text string, size float64) float64

	// Ascender returns the height above the baseline in points.
	Ascender(size float64) float64

	// Descender returns the depth below the baseline in points (negative).
	Descender(size float64) float64
}

// Compile-time interface checks.
var (
	_ Font = (*StandardFont)(nil)
	_ Font = (*CustomFont)(nil)
)

// StandardFont wraps one of the built-in PDF fonts with its published
// metrics, for layout without embedding.
type StandardFont struct {
	name    FontName
	metrics *fonts.StandardFontMetrics
}

// NewStandardFont returns the standard font for a FontName. Names without
// their own metric table (the oblique and italic variants) measure with
// their family's nearest covered weight.
func NewStandardFont(name FontName) *StandardFont {
	metrics, ok := fonts.StandardFontByName(string(name))
	if !ok {
		metrics = fonts.ResolveStandardFont(string(name))
	}
	return &StandardFont{name: name, metrics: metrics}
}

// ResolveFont maps a loose family description ("sans-serif", "Times Bold",
// "monospace") to a standard font. Unrecognized families fall back to
// Helvetica.
func ResolveFont(family string) *StandardFont {
	metrics := fonts.ResolveStandardFont(family)
	return &StandardFont{name: FontName(metrics.Name), metrics: metrics}
}

// Name returns the PDF base font name.
func (f *StandardFont) Name() FontName {
	return f.name
}

// MeasureString returns the width of text in points at the given size.
func (f *StandardFont) MeasureString(text string, size float64) float64 {
	return f.metrics.MeasureString(text) * size / 1000.0
}

// Ascender returns the font ascent in points at the given size.
func (f *StandardFont) Ascender(size float64) float64 {
	return float64(f.metrics.Ascent) * size / 1000.0
}

// Descender returns the font descent in points at the given size
// (negative).
func (f *StandardFont) Descender(size float64) float64 {
	return float64(f.metrics.Descent) * size / 1000.0
}
