package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const (
	nsW      = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRel = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relAppProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"

	ctMain   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctHeader = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ctCore   = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp    = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels   = "application/vnd.openxmlformats-package.relationships+xml"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	headerRelID = "rIdHeader1"
)

// SaveFile writes the document package to path, creating parent directories.
func (d *Document) SaveFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &PackageError{Message: fmt.Sprintf("failed to create directory %s", dir), Cause: err}
		}
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &PackageError{Message: fmt.Sprintf("failed to write %s", path), Cause: err}
	}
	return nil
}

// Bytes returns the serialized document package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document package to w.
func (d *Document) Save(w io.Writer) error {
	zw := zip.NewWriter(w)
	hasHeader := !d.header.Empty()

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML(hasHeader)},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", coreXML(d.Core)},
		{"docProps/app.xml", appXML()},
		{"word/_rels/document.xml.rels", documentRelsXML(hasHeader)},
		{"word/styles.xml", stylesXML(d.Styles)},
		{"word/document.xml", documentXML(d, hasHeader)},
	}
	if hasHeader {
		parts = append(parts, struct {
			name string
			body string
		}{"word/header1.xml", headerXML(d)})
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return &PackageError{Message: fmt.Sprintf("failed to create part %s", part.name), Cause: err}
		}
		if _, err := io.WriteString(f, part.body); err != nil {
			return &PackageError{Message: fmt.Sprintf("failed to write part %s", part.name), Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &PackageError{Message: "failed to finalize package", Cause: err}
	}
	return nil
}

func contentTypesXML(hasHeader bool) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="` + ctRels + `"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="` + ctMain + `"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="` + ctStyles + `"/>`)
	if hasHeader {
		sb.WriteString(`<Override PartName="/word/header1.xml" ContentType="` + ctHeader + `"/>`)
	}
	sb.WriteString(`<Override PartName="/docProps/core.xml" ContentType="` + ctCore + `"/>`)
	sb.WriteString(`<Override PartName="/docProps/app.xml" ContentType="` + ctApp + `"/>`)
	sb.WriteString(`</Types>`)
	return sb.String()
}

func rootRelsXML() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="` + nsPkgRel + `">`)
	sb.WriteString(`<Relationship Id="rId1" Type="` + relOfficeDocument + `" Target="word/document.xml"/>`)
	sb.WriteString(`<Relationship Id="rId2" Type="` + relCoreProps + `" Target="docProps/core.xml"/>`)
	sb.WriteString(`<Relationship Id="rId3" Type="` + relAppProps + `" Target="docProps/app.xml"/>`)
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func documentRelsXML(hasHeader bool) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="` + nsPkgRel + `">`)
	sb.WriteString(`<Relationship Id="rIdStyles" Type="` + relStyles + `" Target="styles.xml"/>`)
	if hasHeader {
		sb.WriteString(`<Relationship Id="` + headerRelID + `" Type="` + relHeader + `" Target="header1.xml"/>`)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func coreXML(cp CoreProperties) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"`)
	sb.WriteString(` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"`)
	sb.WriteString(` xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	writeElem(&sb, "dc:title", cp.Title)
	writeElem(&sb, "dc:subject", cp.Subject)
	writeElem(&sb, "dc:creator", cp.Author)
	writeElem(&sb, "cp:keywords", cp.Keywords)
	writeElem(&sb, "cp:category", cp.Category)
	sb.WriteString(`</cp:coreProperties>`)
	return sb.String()
}

func appXML() string {
	return xmlHeader +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>resume-docx</Application></Properties>`
}

func writeElem(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString("<" + name + ">")
	sb.WriteString(escape(value))
	sb.WriteString("</" + name + ">")
}

func stylesXML(styles *Styles) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:styles xmlns:w="` + nsW + `">`)
	sb.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr>`)
	sb.WriteString(`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Calibri"/>`)
	sb.WriteString(`<w:sz w:val="22"/><w:szCs w:val="22"/>`)
	sb.WriteString(`</w:rPr></w:rPrDefault><w:pPrDefault/></w:docDefaults>`)

	for _, st := range styles.All() {
		sb.WriteString(`<w:style w:type="paragraph" w:styleId="` + escape(st.ID()) + `"`)
		if st.Name == StyleNormal {
			sb.WriteString(` w:default="1"`)
		}
		sb.WriteString(`>`)
		sb.WriteString(`<w:name w:val="` + escape(packageStyleName(st.Name)) + `"/>`)
		if st.BasedOn != "" {
			sb.WriteString(`<w:basedOn w:val="` + escape(StyleID(st.BasedOn)) + `"/>`)
		}
		if st.Outline >= 0 {
			sb.WriteString(`<w:next w:val="Normal"/>`)
		}
		sb.WriteString(`<w:qFormat/>`)

		sb.WriteString(`<w:pPr>`)
		if st.Outline >= 0 {
			sb.WriteString(`<w:keepNext/>`)
		}
		if st.SpaceBeforePt > 0 || st.SpaceAfterPt > 0 {
			fmt.Fprintf(&sb, `<w:spacing w:before="%d" w:after="%d"/>`, ptToTwips(st.SpaceBeforePt), ptToTwips(st.SpaceAfterPt))
		}
		if st.LeftIndentPt > 0 || st.HangingPt > 0 {
			fmt.Fprintf(&sb, `<w:ind w:left="%d" w:hanging="%d"/>`, ptToTwips(st.LeftIndentPt), ptToTwips(st.HangingPt))
		}
		if st.Outline >= 0 {
			fmt.Fprintf(&sb, `<w:outlineLvl w:val="%d"/>`, st.Outline)
		}
		sb.WriteString(`</w:pPr>`)

		sb.WriteString(`<w:rPr>`)
		writeFont(&sb, st.Font.Bold, st.Font.Italic, st.Font.Color, st.Font.SizePt)
		sb.WriteString(`</w:rPr>`)
		sb.WriteString(`</w:style>`)
	}
	sb.WriteString(`</w:styles>`)
	return sb.String()
}

// packageStyleName returns the built-in style name Word expects for well-known styles.
func packageStyleName(name string) string {
	if strings.HasPrefix(name, "Heading ") {
		return strings.ToLower(name)
	}
	return name
}

func documentXML(d *Document, hasHeader bool) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `"><w:body>`)
	textWidth := d.Section.PageWidthIn - d.Section.LeftMarginIn - d.Section.RightMarginIn
	writeBlocks(&sb, d.body, textWidth)
	// Word needs a paragraph between a final table and the section properties.
	if endsWithTable(d.body) {
		sb.WriteString(`<w:p/>`)
	}

	sb.WriteString(`<w:sectPr>`)
	if hasHeader {
		sb.WriteString(`<w:headerReference w:type="default" r:id="` + headerRelID + `"/>`)
	}
	s := d.Section
	fmt.Fprintf(&sb, `<w:pgSz w:w="%d" w:h="%d"/>`, inToTwips(s.PageWidthIn), inToTwips(s.PageHeightIn))
	fmt.Fprintf(&sb, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`,
		inToTwips(s.TopMarginIn), inToTwips(s.RightMarginIn), inToTwips(s.BottomMarginIn),
		inToTwips(s.LeftMarginIn), inToTwips(s.HeaderDistIn), inToTwips(s.FooterDistIn))
	sb.WriteString(`</w:sectPr>`)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func headerXML(d *Document) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:hdr xmlns:w="` + nsW + `" xmlns:r="` + nsR + `">`)
	textWidth := d.Section.PageWidthIn - d.Section.LeftMarginIn - d.Section.RightMarginIn
	writeBlocks(&sb, d.header.blocks, textWidth)
	sb.WriteString(`</w:hdr>`)
	return sb.String()
}

func writeBlocks(sb *strings.Builder, blocks []Block, textWidthIn float64) {
	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			writeParagraph(sb, v)
		case *Table:
			writeTable(sb, v, textWidthIn)
		}
	}
}

func endsWithTable(blocks []Block) bool {
	if len(blocks) == 0 {
		return false
	}
	_, ok := blocks[len(blocks)-1].(*Table)
	return ok
}

func writeParagraph(sb *strings.Builder, p *Paragraph) {
	sb.WriteString(`<w:p>`)

	var ppr strings.Builder
	if p.Style != "" && p.Style != StyleNormal {
		ppr.WriteString(`<w:pStyle w:val="` + escape(StyleID(p.Style)) + `"/>`)
	}
	if p.Shading != "" {
		ppr.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="` + escape(p.Shading) + `"/>`)
	}
	if p.SpaceBeforePt != nil || p.SpaceAfterPt != nil || p.LineSpacing != nil {
		ppr.WriteString(`<w:spacing`)
		if p.SpaceBeforePt != nil {
			fmt.Fprintf(&ppr, ` w:before="%d"`, ptToTwips(*p.SpaceBeforePt))
		}
		if p.SpaceAfterPt != nil {
			fmt.Fprintf(&ppr, ` w:after="%d"`, ptToTwips(*p.SpaceAfterPt))
		}
		if p.LineSpacing != nil {
			fmt.Fprintf(&ppr, ` w:line="%d" w:lineRule="auto"`, int(math.Round(*p.LineSpacing*240)))
		}
		ppr.WriteString(`/>`)
	}
	if p.LeftIndentPt != nil || p.FirstLineIndentPt != nil {
		ppr.WriteString(`<w:ind`)
		if p.LeftIndentPt != nil {
			fmt.Fprintf(&ppr, ` w:left="%d"`, ptToTwips(*p.LeftIndentPt))
		}
		if p.FirstLineIndentPt != nil {
			fmt.Fprintf(&ppr, ` w:firstLine="%d"`, ptToTwips(*p.FirstLineIndentPt))
		}
		ppr.WriteString(`/>`)
	}
	if p.Alignment != AlignDefault {
		ppr.WriteString(`<w:jc w:val="` + string(p.Alignment) + `"/>`)
	}
	if ppr.Len() > 0 {
		sb.WriteString(`<w:pPr>` + ppr.String() + `</w:pPr>`)
	}

	for _, r := range p.Runs {
		writeRun(sb, r)
	}
	sb.WriteString(`</w:p>`)
}

func writeRun(sb *strings.Builder, r *Run) {
	sb.WriteString(`<w:r>`)
	var rpr strings.Builder
	writeFont(&rpr, r.Bold, r.Italic, r.Color, r.SizePt)
	if rpr.Len() > 0 {
		sb.WriteString(`<w:rPr>` + rpr.String() + `</w:rPr>`)
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			sb.WriteString(`<w:br/>`)
		}
		if line == "" {
			continue
		}
		sb.WriteString(`<w:t xml:space="preserve">` + escape(line) + `</w:t>`)
	}
	sb.WriteString(`</w:r>`)
}

func writeFont(sb *strings.Builder, bold, italic bool, color string, sizePt float64) {
	if bold {
		sb.WriteString(`<w:b/><w:bCs/>`)
	}
	if italic {
		sb.WriteString(`<w:i/><w:iCs/>`)
	}
	if color != "" {
		sb.WriteString(`<w:color w:val="` + escape(color) + `"/>`)
	}
	if sizePt > 0 {
		half := int(math.Round(sizePt * 2))
		fmt.Fprintf(sb, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, half, half)
	}
}

func writeTable(sb *strings.Builder, t *Table, textWidthIn float64) {
	cols := 0
	for _, row := range t.Rows {
		if len(row.Cells) > cols {
			cols = len(row.Cells)
		}
	}
	widths := make([]float64, cols)
	for i := range widths {
		if i < len(t.ColumnWidthsIn) && t.ColumnWidthsIn[i] > 0 {
			widths[i] = t.ColumnWidthsIn[i]
		} else if cols > 0 {
			widths[i] = textWidthIn / float64(cols)
		}
	}

	sb.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/>`)
	if t.Alignment != AlignDefault {
		sb.WriteString(`<w:jc w:val="` + string(t.Alignment) + `"/>`)
	}
	if !t.Autofit {
		sb.WriteString(`<w:tblLayout w:type="fixed"/>`)
	}
	sb.WriteString(`</w:tblPr><w:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(sb, `<w:gridCol w:w="%d"/>`, inToTwips(w))
	}
	sb.WriteString(`</w:tblGrid>`)

	for _, row := range t.Rows {
		sb.WriteString(`<w:tr>`)
		for i, cell := range row.Cells {
			width := cell.WidthIn
			if width <= 0 && i < len(widths) {
				width = widths[i]
			}
			sb.WriteString(`<w:tc><w:tcPr>`)
			fmt.Fprintf(sb, `<w:tcW w:w="%d" w:type="dxa"/>`, inToTwips(width))
			if cell.NoBorders {
				sb.WriteString(`<w:tcBorders><w:top w:val="nil"/><w:left w:val="nil"/><w:bottom w:val="nil"/><w:right w:val="nil"/></w:tcBorders>`)
			}
			if cell.Shading != "" {
				sb.WriteString(`<w:shd w:val="clear" w:color="auto" w:fill="` + escape(cell.Shading) + `"/>`)
			}
			sb.WriteString(`</w:tcPr>`)
			if len(cell.blocks) == 0 {
				sb.WriteString(`<w:p/>`)
			} else {
				writeBlocks(sb, cell.blocks, width)
				// A cell must end with a paragraph.
				if endsWithTable(cell.blocks) {
					sb.WriteString(`<w:p/>`)
				}
			}
			sb.WriteString(`</w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}
	sb.WriteString(`</w:tbl>`)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func ptToTwips(pt float64) int {
	return int(math.Round(pt * 20))
}

func inToTwips(in float64) int {
	return int(math.Round(in * 1440))
}
