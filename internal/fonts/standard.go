package fonts

import "strings"

// Built-in metrics for the standard fonts every PDF reader ships.
//
// These fonts are never embedded, so measurement cannot come from a parsed
// font file; the advance widths below are the published AFM values for the
// printable ASCII range (character codes 32-126), in glyph space (1000
// units per em). Characters outside that range measure at the font's
// default width.

// StandardFontMetrics holds the layout metrics of one standard font.
// Instances are package-level constants in all but name; callers must not
// mutate them.
type StandardFontMetrics struct {
	// Name is the PostScript base font name, e.g. "Helvetica-Bold".
	Name string

	// Ascent, Descent and CapHeight are in glyph space. Descent is
	// negative.
	Ascent    int
	Descent   int
	CapHeight int

	// DefaultWidth is used for characters without an entry in widths.
	DefaultWidth int

	// widths holds advance widths for character codes 32-126.
	widths *[95]int
}

// CharWidth returns the advance width of a character in glyph space.
func (m *StandardFontMetrics) CharWidth(ch rune) int {
	if m.widths != nil && ch >= 32 && ch <= 126 {
		return m.widths[ch-32]
	}
	return m.DefaultWidth
}

// MeasureString returns the summed advance width of text in glyph space.
func (m *StandardFontMetrics) MeasureString(text string) float64 {
	var width int
	for _, ch := range text {
		width += m.CharWidth(ch)
	}
	return float64(width)
}

var helveticaWidths = [95]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333,
	278, 278, 556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278,
	584, 584, 584, 556, 1015, 667, 667, 722, 722, 667, 611, 778, 722, 278,
	500, 667, 556, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944,
	667, 667, 611, 278, 278, 278, 469, 556, 333, 556, 556, 500, 556, 556,
	278, 556, 556, 222, 222, 500, 222, 833, 556, 556, 556, 556, 333, 500,
	278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldWidths = [95]int{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333,
	278, 278, 556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333,
	584, 584, 584, 611, 975, 722, 722, 722, 722, 667, 611, 778, 722, 278,
	556, 722, 611, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944,
	667, 667, 611, 333, 278, 333, 584, 556, 333, 556, 611, 556, 611, 556,
	333, 611, 611, 278, 278, 556, 278, 889, 611, 611, 611, 611, 389, 556,
	333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

var timesRomanWidths = [95]int{
	250, 333, 408, 500, 500, 833, 778, 180, 333, 333, 500, 564, 250, 333,
	250, 278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278,
	564, 564, 564, 444, 921, 722, 667, 667, 722, 611, 556, 722, 722, 333,
	389, 722, 611, 889, 722, 722, 556, 722, 667, 556, 611, 722, 722, 944,
	722, 722, 611, 333, 278, 333, 469, 500, 333, 444, 500, 444, 500, 444,
	333, 500, 500, 278, 278, 500, 278, 778, 500, 500, 500, 500, 333, 389,
	278, 500, 500, 722, 500, 500, 444, 480, 200, 480, 541,
}

var timesBoldWidths = [95]int{
	250, 333, 555, 500, 500, 1000, 833, 278, 333, 333, 500, 570, 250, 333,
	250, 278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333,
	570, 570, 570, 500, 930, 722, 667, 722, 722, 667, 611, 778, 778, 389,
	500, 778, 667, 944, 722, 778, 611, 778, 722, 556, 667, 722, 722, 1000,
	722, 722, 667, 333, 278, 333, 581, 500, 333, 500, 556, 444, 556, 444,
	333, 500, 556, 278, 333, 556, 278, 833, 556, 500, 556, 556, 444, 389,
	333, 556, 500, 722, 500, 500, 444, 394, 220, 394, 520,
}

var standardFonts = map[string]*StandardFontMetrics{
	"Helvetica": {
		Name:      "Helvetica",
		Ascent:    718,
		Descent:   -207,
		CapHeight: 718,

		DefaultWidth: 556,
		widths:       &helveticaWidths,
	},
	"Helvetica-Bold": {
		Name:      "Helvetica-Bold",
		Ascent:    718,
		Descent:   -207,
		CapHeight: 718,

		DefaultWidth: 556,
		widths:       &helveticaBoldWidths,
	},
	"Times-Roman": {
		Name:      "Times-Roman",
		Ascent:    683,
		Descent:   -217,
		CapHeight: 662,

		DefaultWidth: 500,
		widths:       &timesRomanWidths,
	},
	"Times-Bold": {
		Name:      "Times-Bold",
		Ascent:    683,
		Descent:   -217,
		CapHeight: 676,

		DefaultWidth: 500,
		widths:       &timesBoldWidths,
	},
	// Courier is monospaced; every character is 600 units wide.
	"Courier": {
		Name:      "Courier",
		Ascent:    629,
		Descent:   -157,
		CapHeight: 562,

		DefaultWidth: 600,
	},
}

// StandardFontByName returns the metrics for a standard font's exact
// PostScript name. The second return is false for unknown names.
func StandardFontByName(name string) (*StandardFontMetrics, bool) {
	m, ok := standardFonts[name]
	return m, ok
}

// ResolveStandardFont maps a loose family description to a standard font's
// PostScript name. Generic CSS-style families ("sans-serif", "serif",
// "monospace") and substring matches on the common family words are
// accepted; anything unrecognized falls back to Helvetica, so resolution
// never fails.
func ResolveStandardFont(family string) *StandardFontMetrics {
	if m, ok := standardFonts[family]; ok {
		return m
	}

	lower := strings.ToLower(family)
	bold := strings.Contains(lower, "bold")

	switch {
	case strings.Contains(lower, "courier"),
		strings.Contains(lower, "mono"):
		return standardFonts["Courier"]
	case strings.Contains(lower, "times"),
		strings.Contains(lower, "serif") && !strings.Contains(lower, "sans"):
		if bold {
			return standardFonts["Times-Bold"]
		}
		return standardFonts["Times-Roman"]
	default:
		if bold {
			return standardFonts["Helvetica-Bold"]
		}
		return standardFonts["Helvetica"]
	}
}
