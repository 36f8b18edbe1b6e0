// Package creator provides a high-level API for building PDF documents.
//
// The creator wraps the low-level writer with a page-oriented surface:
// create a Creator, add pages, place text and graphics on them, then write
// the finished document.
//
// Example:
//
//	c := creator.New()
//	c.SetTitle("Invoice #1042")
//
//	page := c.NewPage()
//	page.AddText("Invoice #1042", 72, 750, creator.HelveticaBold, 18)
//	page.DrawLine(72, 740, 540, 740, nil)
//
//	if err := c.WriteToFile("invoice.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
// Text can use the Standard 14 fonts (no embedding, WinAnsi text only) or
// embedded TrueType fonts loaded with LoadFont, which support full Unicode
// and are subset to the characters actually drawn.
package creator

import (
	"fmt"
	"io"
	"os"

	"github.com/nick-we/typescript-pdf-sub003/internal/writer"
)

// PageSize is a page size in points (1/72 inch).
type PageSize struct {
	Width  float64
	Height float64
}

// Common page sizes.
var (
	// A4 is the ISO A4 page size (210mm x 297mm).
	A4 = PageSize{Width: 595.28, Height: 841.89}

	// Letter is the US Letter page size (8.5" x 11").
	Letter = PageSize{Width: 612, Height: 792}

	// Legal is the US Legal page size (8.5" x 14").
	Legal = PageSize{Width: 612, Height: 1008}
)

// Margins holds page margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Creator builds a PDF document page by page.
//
// The zero value is not usable; call New.
type Creator struct {
	title   string
	author  string
	subject string

	defaultPageSize PageSize
	defaultMargins  Margins

	pages []*Page
}

// New creates an empty document with A4 pages and one-inch margins.
func New() *Creator {
	return &Creator{
		defaultPageSize: A4,
		defaultMargins:  Margins{Top: 72, Right: 72, Bottom: 72, Left: 72},
	}
}

// SetTitle sets the document title shown in PDF viewers.
func (c *Creator) SetTitle(title string) {
	c.title = title
}

// SetAuthor sets the document author.
func (c *Creator) SetAuthor(author string) {
	c.author = author
}

// SetSubject sets the document subject.
func (c *Creator) SetSubject(subject string) {
	c.subject = subject
}

// SetMetadata sets title, author and subject in one call.
func (c *Creator) SetMetadata(title, author, subject string) {
	c.title = title
	c.author = author
	c.subject = subject
}

// SetDefaultPageSize sets the size used by NewPage.
func (c *Creator) SetDefaultPageSize(size PageSize) {
	c.defaultPageSize = size
}

// NewPage appends a page with the default size and returns it.
func (c *Creator) NewPage() *Page {
	return c.NewPageWithSize(c.defaultPageSize)
}

// NewPageWithSize appends a page with an explicit size and returns it.
func (c *Creator) NewPageWithSize(size PageSize) *Page {
	page := &Page{
		width:   size.Width,
		height:  size.Height,
		margins: c.defaultMargins,
	}
	c.pages = append(c.pages, page)
	return page
}

// PageCount returns the number of pages added so far.
func (c *Creator) PageCount() int {
	return len(c.pages)
}

// Write serializes the document to out.
//
// Every embedded font referenced by the pages is subset and written once,
// no matter how many pages use it.
func (c *Creator) Write(out io.Writer) error {
	if len(c.pages) == 0 {
		return fmt.Errorf("document has no pages")
	}

	// Embedded fonts are shared across pages; each CustomFont maps to a
	// single writer-side font so object numbers stay consistent.
	embedded := make(map[*CustomFont]*writer.EmbeddedFont)

	pageSpecs := make([]writer.PageSpec, 0, len(c.pages))
	for _, page := range c.pages {
		spec := writer.PageSpec{
			Width:  page.width,
			Height: page.height,
		}

		for _, op := range page.textOps {
			textOp := writer.TextOp{
				Text:  op.Text,
				X:     op.X,
				Y:     op.Y,
				Font:  string(op.Font),
				Size:  op.Size,
				Color: writer.RGB{R: op.Color.R, G: op.Color.G, B: op.Color.B},
			}
			if op.CustomFont != nil {
				ef, ok := embedded[op.CustomFont]
				if !ok {
					ef = &writer.EmbeddedFont{
						Parser: op.CustomFont.Parser(),
						Subset: op.CustomFont.Subset(),
						ID:     op.CustomFont.ID(),
					}
					embedded[op.CustomFont] = ef
				}
				textOp.CustomFont = ef
			}
			spec.TextOps = append(spec.TextOps, textOp)
		}

		for _, op := range page.graphicsOps {
			graphicsOp := writer.GraphicsOp{
				X:           op.X,
				Y:           op.Y,
				X2:          op.X2,
				Y2:          op.Y2,
				Width:       op.Width,
				Height:      op.Height,
				StrokeWidth: op.StrokeWidth,
				DashArray:   op.DashArray,
				DashPhase:   op.DashPhase,
			}
			switch op.Shape {
			case ShapeRect:
				graphicsOp.Kind = writer.GraphicsRect
			default:
				graphicsOp.Kind = writer.GraphicsLine
			}
			if op.StrokeColor != nil {
				graphicsOp.StrokeColor = &writer.RGB{R: op.StrokeColor.R, G: op.StrokeColor.G, B: op.StrokeColor.B}
			}
			if op.FillColor != nil {
				graphicsOp.FillColor = &writer.RGB{R: op.FillColor.R, G: op.FillColor.G, B: op.FillColor.B}
			}
			spec.GraphicsOps = append(spec.GraphicsOps, graphicsOp)
		}

		pageSpecs = append(pageSpecs, spec)
	}

	info := writer.DocumentInfo{
		Title:    c.title,
		Author:   c.author,
		Subject:  c.subject,
		Producer: "typescript-pdf-sub003",
	}

	pw := writer.NewPdfWriter()
	if err := pw.WriteDocument(out, info, pageSpecs); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// WriteToFile writes the document to a file, creating or truncating it.
func (c *Creator) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
