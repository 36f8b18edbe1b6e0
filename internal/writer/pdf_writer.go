package writer

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/nick-we/typescript-pdf-sub003/logging"
)

// DocumentInfo carries the metadata written to the PDF Info dictionary.
// Empty fields are omitted.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string

	// CreationDate stamps /CreationDate; the zero value means now.
	CreationDate time.Time
}

// PageSpec describes one output page: its media box size in points and the
// operations to render on it.
type PageSpec struct {
	Width  float64
	Height float64

	TextOps     []TextOp
	GraphicsOps []GraphicsOp
}

// PdfWriter assembles a complete PDF file: font objects, page tree,
// catalog, cross-reference table and trailer.
//
// A writer is single-use: allocate one per document written.
type PdfWriter struct {
	nextObjNum int
	objects    []*IndirectObject
}

// NewPdfWriter creates a writer. Object numbering starts at 1 (object 0 is
// the reserved free-list head).
func NewPdfWriter() *PdfWriter {
	return &PdfWriter{nextObjNum: 1}
}

// allocateObjNum hands out the next object number.
func (w *PdfWriter) allocateObjNum() int {
	n := w.nextObjNum
	w.nextObjNum++
	return n
}

func (w *PdfWriter) addObjects(objs ...*IndirectObject) {
	w.objects = append(w.objects, objs...)
}

// WriteDocument writes a complete PDF to out.
//
// Fonts are written once per document: every embedded font's subset is
// built here, after all pages have contributed their text, so the emitted
// FontFile2 covers exactly the characters the document uses.
func (w *PdfWriter) WriteDocument(out io.Writer, info DocumentInfo, pages []PageSpec) error {
	if len(pages) == 0 {
		return fmt.Errorf("document has no pages")
	}

	fontObjNums, err := w.writeFontObjects(pages)
	if err != nil {
		return fmt.Errorf("write fonts: %w", err)
	}

	pagesRootRef, err := w.createPageTree(pages, fontObjNums)
	if err != nil {
		return fmt.Errorf("create page tree: %w", err)
	}

	catalogRef := w.allocateObjNum()
	w.addObjects(NewIndirectObject(catalogRef, 0,
		[]byte(fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesRootRef))))

	infoRef := w.allocateObjNum()
	w.addObjects(NewIndirectObject(infoRef, 0, buildInfoDict(info)))

	logging.Logger().Debug("writing document",
		"pages", len(pages),
		"fonts", len(fontObjNums),
		"objects", len(w.objects))

	return w.serialize(out, catalogRef, infoRef)
}

// writeFontObjects collects every font the pages reference and writes its
// objects, returning the font-key to object-number map the content streams
// need.
func (w *PdfWriter) writeFontObjects(pages []PageSpec) (map[string]int, error) {
	fontObjNums := make(map[string]int)
	embedded := make(map[string]*EmbeddedFont)

	for _, page := range pages {
		for _, op := range page.TextOps {
			key := FontKey(op)
			if _, ok := fontObjNums[key]; ok {
				continue
			}

			if op.CustomFont != nil {
				embedded[key] = op.CustomFont
				fontObjNums[key] = 0 // assigned below
				continue
			}

			objNum := w.allocateObjNum()
			w.addObjects(CreateStandardFontObject(objNum, op.Font))
			fontObjNums[key] = objNum
		}
	}

	for key, font := range embedded {
		fontWriter := NewTrueTypeFontWriter(font.Parser, font.Subset, w.allocateObjNum)
		objects, refs, err := fontWriter.WriteFont()
		if err != nil {
			return nil, fmt.Errorf("embed font %s: %w", font.ID, err)
		}
		w.addObjects(objects...)
		fontObjNums[key] = refs.FontObjNum
	}

	return fontObjNums, nil
}

// buildInfoDict renders the Info dictionary.
func buildInfoDict(info DocumentInfo) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<")

	writeField := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&buf, " /%s (%s)", name, EscapePDFString(value))
		}
	}
	writeField("Title", info.Title)
	writeField("Author", info.Author)
	writeField("Subject", info.Subject)
	writeField("Creator", info.Creator)
	writeField("Producer", info.Producer)

	created := info.CreationDate
	if created.IsZero() {
		created = time.Now()
	}
	fmt.Fprintf(&buf, " /CreationDate (D:%s)", created.Format("20060102150405"))

	buf.WriteString(" >>")
	return buf.Bytes()
}

// serialize writes the header, every object in number order, the xref
// table and the trailer.
//
// Reference: PDF 1.7, Section 7.5 (File Structure).
func (w *PdfWriter) serialize(out io.Writer, catalogRef, infoRef int) error {
	sort.Slice(w.objects, func(i, j int) bool {
		return w.objects[i].Number < w.objects[j].Number
	})

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	// Binary marker comment so transfer tools treat the file as binary.
	buf.Write([]byte{'%', 0xE2, 0xE3, 0xCF, 0xD3, '\n'})

	offsets := make(map[int]int, len(w.objects))
	for _, obj := range w.objects {
		offsets[obj.Number] = buf.Len()
		if _, err := obj.WriteTo(&buf); err != nil {
			return fmt.Errorf("write object %d: %w", obj.Number, err)
		}
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", w.nextObjNum)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < w.nextObjNum; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}

	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d /Root %d 0 R /Info %d 0 R >>\n", w.nextObjNum, catalogRef, infoRef)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefStart)

	_, err := buf.WriteTo(out)
	return err
}
