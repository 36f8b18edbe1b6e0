package writer

import (
	"bytes"
	"compress/zlib"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContentStream_Empty(t *testing.T) {
	content, resources, err := GenerateContentStream(nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, content)
	require.NotNil(t, resources)
	assert.False(t, resources.HasResources())
}

func TestGenerateContentStream_StandardText(t *testing.T) {
	ops := []TextOp{
		{Text: "Hi", X: 10, Y: 20, Font: "Helvetica", Size: 12},
	}
	fontObjNums := map[string]int{"std:Helvetica": 5}

	content, resources, err := GenerateContentStream(ops, nil, fontObjNums)
	require.NoError(t, err)

	want := "BT\n" +
		"0.00 0.00 0.00 rg\n" +
		"/F1 12.00 Tf\n" +
		"10.00 20.00 Td\n" +
		"(Hi) Tj\n" +
		"ET\n"
	assert.Equal(t, want, string(content))
	assert.Equal(t, "F1", resources.GetFontResourceName("std:Helvetica"))
}

func TestGenerateContentStream_SharedFontResource(t *testing.T) {
	ops := []TextOp{
		{Text: "one", Font: "Helvetica", Size: 12},
		{Text: "two", Font: "Helvetica", Size: 18},
		{Text: "three", Font: "Courier", Size: 10},
	}
	fontObjNums := map[string]int{"std:Helvetica": 5, "std:Courier": 6}

	content, resources, err := GenerateContentStream(ops, nil, fontObjNums)
	require.NoError(t, err)

	assert.Equal(t, "F1", resources.GetFontResourceName("std:Helvetica"))
	assert.Equal(t, "F2", resources.GetFontResourceName("std:Courier"))
	assert.Equal(t, 2, strings.Count(string(content), "/F1 "))
	assert.Equal(t, 1, strings.Count(string(content), "/F2 "))
}

func TestGenerateContentStream_GraphicsBeforeText(t *testing.T) {
	textOps := []TextOp{
		{Text: "on top", Font: "Helvetica", Size: 12},
	}
	graphicsOps := []GraphicsOp{
		{Kind: GraphicsLine, X: 0, Y: 0, X2: 100, Y2: 100, StrokeColor: &RGB{}},
	}

	content, _, err := GenerateContentStream(textOps, graphicsOps, map[string]int{"std:Helvetica": 5})
	require.NoError(t, err)

	s := string(content)
	assert.Less(t, strings.Index(s, " m\n"), strings.Index(s, "BT\n"))
}

func TestRenderGraphicsOp_Line(t *testing.T) {
	csw := NewContentStreamWriter()
	err := renderGraphicsOp(csw, GraphicsOp{
		Kind:        GraphicsLine,
		X:           10,
		Y:           20,
		X2:          110,
		Y2:          20,
		StrokeColor: &RGB{R: 1},
		StrokeWidth: 2,
	})
	require.NoError(t, err)

	want := "q\n" +
		"2.00 w\n" +
		"1.00 0.00 0.00 RG\n" +
		"10.00 20.00 m\n" +
		"110.00 20.00 l\n" +
		"S\n" +
		"Q\n"
	assert.Equal(t, want, csw.String())
}

func TestRenderGraphicsOp_Rect(t *testing.T) {
	t.Run("fill only", func(t *testing.T) {
		csw := NewContentStreamWriter()
		err := renderGraphicsOp(csw, GraphicsOp{
			Kind:      GraphicsRect,
			X:         50,
			Y:         60,
			Width:     100,
			Height:    40,
			FillColor: &RGB{B: 1},
		})
		require.NoError(t, err)

		s := csw.String()
		assert.Contains(t, s, "50.00 60.00 100.00 40.00 re\n")
		assert.Contains(t, s, "0.00 0.00 1.00 rg\n")
		assert.Contains(t, s, "f\n")
		assert.NotContains(t, s, "B\n")
	})

	t.Run("fill and stroke", func(t *testing.T) {
		csw := NewContentStreamWriter()
		err := renderGraphicsOp(csw, GraphicsOp{
			Kind:        GraphicsRect,
			Width:       10,
			Height:      10,
			StrokeColor: &RGB{},
			FillColor:   &RGB{R: 0.5},
		})
		require.NoError(t, err)
		assert.Contains(t, csw.String(), "B\n")
	})

	t.Run("stroke only by default", func(t *testing.T) {
		csw := NewContentStreamWriter()
		err := renderGraphicsOp(csw, GraphicsOp{
			Kind:        GraphicsRect,
			Width:       10,
			Height:      10,
			StrokeColor: &RGB{},
		})
		require.NoError(t, err)
		assert.Contains(t, csw.String(), "S\n")
	})
}

func TestRenderGraphicsOp_UnknownKind(t *testing.T) {
	csw := NewContentStreamWriter()
	err := renderGraphicsOp(csw, GraphicsOp{Kind: GraphicsKind(99)})
	require.Error(t, err)
}

func TestFontKey(t *testing.T) {
	assert.Equal(t, "std:Helvetica", FontKey(TextOp{Font: "Helvetica"}))

	font := newTestEmbeddedFont(t, "A")
	assert.Equal(t, "custom:WriterTest", FontKey(TextOp{CustomFont: font}))
}

func TestEncodeTextForEmbeddedFont(t *testing.T) {
	font := newTestEmbeddedFont(t, "AB")

	// Subset indices are dense: notdef 0, then 'A' and 'B' in use order.
	assert.Equal(t, "<00010002>", encodeTextForEmbeddedFont("AB", font))

	// Uncollected characters fall back to notdef.
	assert.Equal(t, "<0000>", encodeTextForEmbeddedFont("Q", font))

	assert.Equal(t, "<>", encodeTextForEmbeddedFont("AB", nil))
}

func TestCreateStandardFontObject(t *testing.T) {
	obj := CreateStandardFontObject(7, "Courier")

	assert.Equal(t, 7, obj.Number)
	want := "<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding >>"
	assert.Equal(t, want, string(obj.Data))
}

func TestCreateContentStreamObject_Raw(t *testing.T) {
	obj := CreateContentStreamObject(3, []byte("BT ET"), true)

	s := string(obj.Data)
	assert.Contains(t, s, "/Length 5")
	assert.NotContains(t, s, "/Filter")
	assert.Contains(t, s, "stream\nBT ET\nendstream")
}

func TestCreateContentStreamObject_Compressed(t *testing.T) {
	content := []byte(strings.Repeat("0.00 0.00 0.00 rg\n(x) Tj\n", 40))
	obj := CreateContentStreamObject(3, content, true)

	s := string(obj.Data)
	assert.Contains(t, s, "/Filter /FlateDecode")

	start := strings.Index(s, "stream\n")
	require.GreaterOrEqual(t, start, 0)
	compressed := obj.Data[start+len("stream\n") : len(obj.Data)-len("endstream")]
	assert.Less(t, len(compressed), len(content))

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	defer zr.Close()
	decompressed, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, content, decompressed)
}
