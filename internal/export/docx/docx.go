// Package docx builds minimal WordprocessingML documents. It covers
// exactly what the export renderer needs (headings, paragraphs, simple
// tables) without pulling in a full OOXML dependency.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/>
    <w:rPr><w:b/><w:sz w:val="32"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading2">
    <w:name w:val="heading 2"/>
    <w:rPr><w:b/><w:sz w:val="26"/></w:rPr>
  </w:style>
</w:styles>`

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>`

const documentFooter = `</w:body>
</w:document>`

// Builder accumulates document content in order.
type Builder struct {
	body strings.Builder
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Heading adds a styled heading. Levels beyond 2 fall back to Heading2.
func (b *Builder) Heading(text string, level int) {
	style := "Heading1"
	if level >= 2 {
		style = "Heading2"
	}
	fmt.Fprintf(&b.body,
		`<w:p><w:pPr><w:pStyle w:val=%q/></w:pPr><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		style, escape(text))
}

// Paragraph adds a plain paragraph.
func (b *Builder) Paragraph(text string) {
	fmt.Fprintf(&b.body,
		`<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		escape(text))
}

// Table adds a bordered table. The header row renders bold.
func (b *Builder) Table(headers []string, rows [][]string) {
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4"/><w:bottom w:val="single" w:sz="4"/>` +
		`<w:left w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/>` +
		`<w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/>` +
		`</w:tblBorders></w:tblPr>`)
	b.row(headers, true)
	for _, row := range rows {
		b.row(row, false)
	}
	b.body.WriteString(`</w:tbl>`)
}

func (b *Builder) row(cells []string, bold bool) {
	b.body.WriteString(`<w:tr>`)
	for _, cell := range cells {
		b.body.WriteString(`<w:tc><w:p><w:r>`)
		if bold {
			b.body.WriteString(`<w:rPr><w:b/></w:rPr>`)
		}
		fmt.Fprintf(&b.body, `<w:t xml:space="preserve">%s</w:t>`, escape(cell))
		b.body.WriteString(`</w:r></w:p></w:tc>`)
	}
	b.body.WriteString(`</w:tr>`)
}

// Bytes packages the document as a .docx archive.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", documentHeader + b.body.String() + documentFooter},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx archive: %w", err)
	}
	return buf.Bytes(), nil
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
