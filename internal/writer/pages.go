package writer

import (
	"bytes"
	"fmt"
)

// createPageTree creates the Pages tree for the document.
//
// PDF uses a tree structure for pages to optimize navigation in large
// documents. This implementation creates a flat tree: one Pages node
// holding every page.
//
// Structure:
//
//	Pages (root)
//	  /Kids [Page1, Page2, Page3, ...]
//	  /Count N
//
// Returns the object number of the Pages root; the page, content and
// resource objects are appended to the writer directly.
func (w *PdfWriter) createPageTree(pages []PageSpec, fontObjNums map[string]int) (int, error) {
	pagesRootRef := w.allocateObjNum()

	pageRefs := make([]int, 0, len(pages))
	for i, page := range pages {
		pageRef := w.allocateObjNum()
		pageRefs = append(pageRefs, pageRef)

		if err := w.createPage(page, pageRef, pagesRootRef, fontObjNums); err != nil {
			return 0, fmt.Errorf("page %d: %w", i, err)
		}
	}

	w.addObjects(createPagesRoot(pagesRootRef, pageRefs))
	return pagesRootRef, nil
}

// createPagesRoot creates the Pages root object.
//
// Format:
//
//	<< /Type /Pages /Kids [N 0 R ...] /Count N >>
func createPagesRoot(objNum int, pageRefs []int) *IndirectObject {
	var buf bytes.Buffer
	buf.WriteString("<<")
	buf.WriteString(" /Type /Pages")

	buf.WriteString(" /Kids [")
	for i, ref := range pageRefs {
		if i > 0 {
			buf.WriteString(" ")
		}
		fmt.Fprintf(&buf, "%d 0 R", ref)
	}
	buf.WriteString("]")

	fmt.Fprintf(&buf, " /Count %d", len(pageRefs))
	buf.WriteString(" >>")

	return NewIndirectObject(objNum, 0, buf.Bytes())
}

// createPage creates one Page object and, when the page has content, its
// compressed content stream object.
//
// Format:
//
//	<<
//	  /Type /Page
//	  /Parent N 0 R
//	  /MediaBox [0 0 width height]
//	  /Resources << /Font << /F1 5 0 R >> >>
//	  /Contents N 0 R
//	>>
func (w *PdfWriter) createPage(page PageSpec, objNum, parentRef int, fontObjNums map[string]int) error {
	var pageDict bytes.Buffer
	pageDict.WriteString("<<")
	pageDict.WriteString(" /Type /Page")
	fmt.Fprintf(&pageDict, " /Parent %d 0 R", parentRef)
	fmt.Fprintf(&pageDict, " /MediaBox [0 0 %.2f %.2f]", page.Width, page.Height)

	content, resources, err := GenerateContentStream(page.TextOps, page.GraphicsOps, fontObjNums)
	if err != nil {
		return fmt.Errorf("generate content stream: %w", err)
	}

	pageDict.WriteString(" /Resources ")
	pageDict.Write(resources.Bytes())

	if len(content) > 0 {
		contentObjNum := w.allocateObjNum()
		w.addObjects(CreateContentStreamObject(contentObjNum, content, true))
		fmt.Fprintf(&pageDict, " /Contents %d 0 R", contentObjNum)
	}

	pageDict.WriteString(" >>")
	w.addObjects(NewIndirectObject(objNum, 0, pageDict.Bytes()))
	return nil
}
