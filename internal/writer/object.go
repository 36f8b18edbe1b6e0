package writer

import (
	"bytes"
	"fmt"
	"io"
)

// IndirectObject is one numbered PDF object body, without the surrounding
// "N G obj" / "endobj" framing (added at serialization time).
type IndirectObject struct {
	Number     int
	Generation int
	Data       []byte
}

// NewIndirectObject creates an indirect object.
func NewIndirectObject(number, generation int, data []byte) *IndirectObject {
	return &IndirectObject{
		Number:     number,
		Generation: generation,
		Data:       data,
	}
}

// WriteTo serializes the object with its framing and returns the number of
// bytes written.
func (obj *IndirectObject) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", obj.Number, obj.Generation)
	buf.Write(obj.Data)
	buf.WriteString("\nendobj\n")
	return buf.WriteTo(w)
}

// EscapePDFString escapes the characters a literal PDF string cannot carry
// raw: backslash, parentheses, and control characters.
//
// Reference: PDF 1.7 Spec, Section 7.3.4.2 (Literal Strings).
func EscapePDFString(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '(', ')':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&buf, `\%03o`, c)
			} else {
				buf.WriteByte(c)
			}
		}
	}
	return buf.String()
}
