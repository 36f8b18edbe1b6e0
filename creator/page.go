package creator

import (
	"errors"
	"fmt"
)

// Page represents a single page under construction.
//
// Pages accumulate text and graphics operations; nothing is rendered until
// the Creator writes the document.
type Page struct {
	width  float64
	height float64

	margins Margins

	textOps     []TextOperation
	graphicsOps []GraphicsOperation
}

// Width returns the page width in points.
func (p *Page) Width() float64 {
	return p.width
}

// Height returns the page height in points.
func (p *Page) Height() float64 {
	return p.height
}

// Margins returns the page margins.
func (p *Page) Margins() Margins {
	return p.margins
}

// SetMargins sets the page margins in points.
func (p *Page) SetMargins(top, right, bottom, left float64) error {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return errors.New("margins must be non-negative")
	}
	p.margins = Margins{Top: top, Right: right, Bottom: bottom, Left: left}
	return nil
}

// ContentWidth returns the width available inside the margins.
func (p *Page) ContentWidth() float64 {
	return p.width - p.margins.Left - p.margins.Right
}

// ContentHeight returns the height available inside the margins.
func (p *Page) ContentHeight() float64 {
	return p.height - p.margins.Top - p.margins.Bottom
}

// AddText adds black text in a standard font.
//
// Position is in points: x from the left edge, y from the bottom edge
// (PDF coordinate space).
//
// Example:
//
//	page.AddText("Hello World", 72, 720, creator.Helvetica, 24)
func (p *Page) AddText(text string, x, y float64, font FontName, size float64) error {
	return p.AddTextColor(text, x, y, font, size, Black)
}

// AddTextColor adds colored text in a standard font.
func (p *Page) AddTextColor(text string, x, y float64, font FontName, size float64, color Color) error {
	if text == "" {
		return errors.New("text must not be empty")
	}
	if size <= 0 {
		return fmt.Errorf("font size must be positive, got %g", size)
	}

	p.textOps = append(p.textOps, TextOperation{
		Text:  text,
		X:     x,
		Y:     y,
		Font:  font,
		Size:  size,
		Color: color,
	})
	return nil
}

// AddTextCustomFont adds black text in an embedded font.
//
// The characters of text are recorded against the font's subset, so the
// embedded font covers exactly what the document draws.
func (p *Page) AddTextCustomFont(text string, x, y float64, font *CustomFont, size float64) error {
	return p.AddTextCustomFontColor(text, x, y, font, size, Black)
}

// AddTextCustomFontColor adds colored text in an embedded font.
func (p *Page) AddTextCustomFontColor(text string, x, y float64, font *CustomFont, size float64, color Color) error {
	if text == "" {
		return errors.New("text must not be empty")
	}
	if font == nil {
		return errors.New("custom font must not be nil")
	}
	if size <= 0 {
		return fmt.Errorf("font size must be positive, got %g", size)
	}

	font.UseString(text)

	p.textOps = append(p.textOps, TextOperation{
		Text:       text,
		X:          x,
		Y:          y,
		CustomFont: font,
		Size:       size,
		Color:      color,
	})
	return nil
}

// LineOptions configures DrawLine. A nil options value draws a 1pt black
// line.
type LineOptions struct {
	Color     Color
	Width     float64
	DashArray []float64
	DashPhase float64
}

// DrawLine draws a straight line between two points.
func (p *Page) DrawLine(x1, y1, x2, y2 float64, opts *LineOptions) error {
	if opts == nil {
		opts = &LineOptions{Color: Black, Width: 1}
	}
	if opts.Width < 0 {
		return fmt.Errorf("line width must be non-negative, got %g", opts.Width)
	}

	stroke := opts.Color
	p.graphicsOps = append(p.graphicsOps, GraphicsOperation{
		Shape:       ShapeLine,
		X:           x1,
		Y:           y1,
		X2:          x2,
		Y2:          y2,
		StrokeColor: &stroke,
		StrokeWidth: opts.Width,
		DashArray:   opts.DashArray,
		DashPhase:   opts.DashPhase,
	})
	return nil
}

// RectOptions configures DrawRect. At least one of StrokeColor and
// FillColor must be set; a nil options value strokes a 1pt black outline.
type RectOptions struct {
	StrokeColor *Color
	FillColor   *Color
	StrokeWidth float64
	DashArray   []float64
	DashPhase   float64
}

// DrawRect draws a rectangle with its lower-left corner at (x, y).
func (p *Page) DrawRect(x, y, width, height float64, opts *RectOptions) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("rectangle dimensions must be positive, got %gx%g", width, height)
	}
	if opts == nil {
		opts = &RectOptions{StrokeColor: &Black, StrokeWidth: 1}
	}
	if opts.StrokeColor == nil && opts.FillColor == nil {
		return errors.New("rectangle needs a stroke or fill color")
	}

	p.graphicsOps = append(p.graphicsOps, GraphicsOperation{
		Shape:       ShapeRect,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		StrokeColor: opts.StrokeColor,
		FillColor:   opts.FillColor,
		StrokeWidth: opts.StrokeWidth,
		DashArray:   opts.DashArray,
		DashPhase:   opts.DashPhase,
	})
	return nil
}

// DrawRectFilled draws a filled rectangle with no outline.
func (p *Page) DrawRectFilled(x, y, width, height float64, fillColor Color) error {
	return p.DrawRect(x, y, width, height, &RectOptions{FillColor: &fillColor})
}

// TextOperations returns the accumulated text operations.
func (p *Page) TextOperations() []TextOperation {
	return p.textOps
}

// GraphicsOperations returns the accumulated graphics operations.
func (p *Page) GraphicsOperations() []GraphicsOperation {
	return p.graphicsOps
}
