// Package writer provides PDF writing infrastructure for generating PDF files.
package writer

import (
	"bytes"
	"fmt"
	"sort"
)

// ResourceDictionary manages PDF page resources.
//
// Resources are referenced in content streams by name (e.g., /F1 for
// fonts). This struct tracks resource names and their corresponding PDF
// object numbers, plus a reverse index from caller-chosen font IDs to
// resource names so a font shared across pages keeps one object.
//
// PDF Dictionary Format:
//
//	/Resources <<
//	  /Font << /F1 5 0 R /F2 6 0 R >>
//	  /ProcSet [/PDF /Text]
//	>>
//
// Thread Safety: Not thread-safe. Caller must synchronize if needed.
type ResourceDictionary struct {
	fonts   map[string]int    // resource name -> object number (e.g., "F1" -> 5)
	fontIDs map[string]string // font ID -> resource name (e.g., "custom:font_1" -> "F1")
}

// NewResourceDictionary creates a new empty resource dictionary.
func NewResourceDictionary() *ResourceDictionary {
	return &ResourceDictionary{
		fonts:   make(map[string]int),
		fontIDs: make(map[string]string),
	}
}

// AddFontWithID adds a font resource with an associated ID and returns its
// resource name. Fonts are named sequentially: F1, F2, F3.
func (rd *ResourceDictionary) AddFontWithID(objNum int, fontID string) string {
	name := fmt.Sprintf("F%d", len(rd.fonts)+1)
	rd.fonts[name] = objNum
	rd.fontIDs[fontID] = name
	return name
}

// GetFontResourceName returns the resource name registered for a font ID,
// or "" when the ID is unknown.
func (rd *ResourceDictionary) GetFontResourceName(fontID string) string {
	return rd.fontIDs[fontID]
}

// HasResources returns true if any resources are registered.
func (rd *ResourceDictionary) HasResources() bool {
	return len(rd.fonts) > 0
}

// Bytes returns the resource dictionary as PDF bytes. Resource names are
// sorted for deterministic output.
func (rd *ResourceDictionary) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("<<")

	if len(rd.fonts) > 0 {
		buf.WriteString(" /Font <<")

		names := make([]string, 0, len(rd.fonts))
		for name := range rd.fonts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&buf, " /%s %d 0 R", name, rd.fonts[name])
		}

		buf.WriteString(" >>")
		buf.WriteString(" /ProcSet [/PDF /Text]")
	}

	buf.WriteString(" >>")
	return buf.Bytes()
}

// String returns the resource dictionary as a PDF string.
func (rd *ResourceDictionary) String() string {
	return string(rd.Bytes())
}
