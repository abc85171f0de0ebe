package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAndRead(t *testing.T, b *Builder) map[string]string {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		parts[f.Name] = string(content)
	}
	return parts
}

func TestBuilderArchiveLayout(t *testing.T) {
	b := NewBuilder()
	b.Heading("Technical Report", 1)
	parts := buildAndRead(t, b)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/document.xml",
	} {
		assert.Contains(t, parts, name)
	}
	assert.Contains(t, parts["[Content_Types].xml"], "wordprocessingml.document.main+xml")
}

func TestBuilderContent(t *testing.T) {
	b := NewBuilder()
	b.Heading("Technical Report", 1)
	b.Heading("Resources", 2)
	b.Paragraph("Overview of the project.")
	b.Table([]string{"Category", "Tonnage"}, [][]string{{"Measured", "1200000"}})

	doc := buildAndRead(t, b)["word/document.xml"]
	assert.Contains(t, doc, `<w:pStyle w:val="Heading1"/>`)
	assert.Contains(t, doc, `<w:pStyle w:val="Heading2"/>`)
	assert.Contains(t, doc, "Overview of the project.")
	assert.Contains(t, doc, "<w:tbl>")
	assert.Contains(t, doc, "Measured")
}

func TestBuilderEscapesXML(t *testing.T) {
	b := NewBuilder()
	b.Paragraph(`Grades <Au> & "Cu"`)

	doc := buildAndRead(t, b)["word/document.xml"]
	assert.Contains(t, doc, "&lt;Au&gt;")
	assert.Contains(t, doc, "&amp;")
	assert.NotContains(t, doc, "<Au>")
}
