package fonts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToUnicodeCMap_Structure(t *testing.T) {
	s := newTestSubset(t)
	s.AddString("AB")

	data, err := GenerateToUnicodeCMap(s)
	require.NoError(t, err)

	cmap := string(data)
	assert.Contains(t, cmap, "/CMapName /Adobe-Identity-UCS def")
	assert.Contains(t, cmap, "1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange")
	assert.Contains(t, cmap, "2 beginbfchar")
	assert.Contains(t, cmap, "<0001> <0041>")
	assert.Contains(t, cmap, "<0002> <0042>")
	assert.Contains(t, cmap, "endbfchar")
	assert.Contains(t, cmap, "endcmap")
}

func TestGenerateToUnicodeCMap_SurrogatePair(t *testing.T) {
	s := newTestSubset(t)
	s.UseChar('A')
	s.UseChar(0x1F601)

	data, err := GenerateToUnicodeCMap(s)
	require.NoError(t, err)

	// U+1F601 encodes as the UTF-16 pair D83D DE01.
	assert.Contains(t, string(data), "<0002> <D83DDE01>")
}

// A glyph shared by several characters maps back to the lowest code point.
func TestGenerateToUnicodeCMap_SharedGlyphUsesLowestCode(t *testing.T) {
	s := newTestSubset(t)
	s.UseChar(0x1F600)
	s.UseChar('F') // same glyph as U+1F600

	data, err := GenerateToUnicodeCMap(s)
	require.NoError(t, err)

	cmap := string(data)
	assert.Contains(t, cmap, "1 beginbfchar")
	assert.Contains(t, cmap, "<0001> <0046>")
	assert.NotContains(t, cmap, "D83D")
}

// Notdef and composite components carry no characters and are omitted.
func TestGenerateToUnicodeCMap_SkipsCharlessGlyphs(t *testing.T) {
	s := newTestSubset(t)
	s.UseChar('Z')

	data, err := GenerateToUnicodeCMap(s)
	require.NoError(t, err)

	cmap := string(data)
	assert.Contains(t, cmap, "1 beginbfchar")
	assert.Contains(t, cmap, "<0001> <005A>")

	// Only within the bfchar block; the codespacerange legitimately
	// mentions <0000>.
	start := strings.Index(cmap, "beginbfchar")
	end := strings.Index(cmap, "endbfchar")
	require.True(t, start >= 0 && end > start)
	bfchar := cmap[start:end]
	assert.NotContains(t, bfchar, "<0000>")
	assert.NotContains(t, bfchar, "<0002>")
}
