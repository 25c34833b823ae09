// Package docx provides a small WordprocessingML document model and package writer.
//
// It covers the subset of the format the resume renderer needs: styled paragraphs
// and runs, a single-row layout table with shaded borderless cells, a running page
// header, page margins, named styles and core document properties.
package docx

import "strings"

// Alignment is a paragraph justification value.
type Alignment string

// Paragraph alignments.
const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
)

// Style names shipped in every new document.
const (
	StyleNormal     = "Normal"
	StyleTitle      = "Title"
	StyleHeading1   = "Heading 1"
	StyleHeading2   = "Heading 2"
	StyleHeading3   = "Heading 3"
	StyleListBullet = "List Bullet"
)

// Block is a body-level element: a *Paragraph or a *Table.
type Block interface {
	blockText() string
}

// Container is anything paragraphs can be appended to: the document body,
// the page header, or a table cell.
type Container interface {
	AddParagraph(style string) *Paragraph
	Paragraphs() []*Paragraph
}

// Run is a span of text sharing one set of character properties.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	// Color is a six digit hex value without '#'. Empty means inherit.
	Color string
	// SizePt is the font size in points. Zero means inherit.
	SizePt float64
}

// Paragraph is a block of runs with paragraph-level formatting.
// Pointer fields are unset (inherit from style) when nil.
type Paragraph struct {
	Style             string
	Alignment         Alignment
	LeftIndentPt      *float64
	FirstLineIndentPt *float64
	SpaceBeforePt     *float64
	SpaceAfterPt      *float64
	LineSpacing       *float64
	// Shading is a six digit hex fill colour without '#'.
	Shading string
	Runs    []*Run
}

// AddRun appends a plain run and returns it so callers can set character properties.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{Text: text}
	p.Runs = append(p.Runs, r)
	return r
}

// AppendRuns appends copies of the given runs.
func (p *Paragraph) AppendRuns(runs ...Run) {
	for i := range runs {
		r := runs[i]
		p.Runs = append(p.Runs, &r)
	}
}

// Clear removes all runs, keeping paragraph formatting.
func (p *Paragraph) Clear() {
	p.Runs = nil
}

// Text returns the concatenated plain text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func (p *Paragraph) blockText() string { return p.Text() }

// Table is a grid of cells. The renderer only ever builds single-row tables.
type Table struct {
	Alignment      Alignment
	Autofit        bool
	ColumnWidthsIn []float64
	Rows           []*Row
}

// Row is a table row.
type Row struct {
	Cells []*Cell
}

// Cell is a table cell holding its own block flow.
type Cell struct {
	// Shading is a six digit hex fill colour without '#'.
	Shading   string
	NoBorders bool
	WidthIn   float64
	blocks    []Block
}

// AddParagraph appends a paragraph to the cell.
func (c *Cell) AddParagraph(style string) *Paragraph {
	p := &Paragraph{Style: style}
	c.blocks = append(c.blocks, p)
	return p
}

// Paragraphs returns the cell's paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	return paragraphsOf(c.blocks)
}

// Row returns the row at index i, or nil when out of range.
func (t *Table) Row(i int) *Row {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	return t.Rows[i]
}

// Cell returns the cell at column i of the row, or nil when out of range.
func (r *Row) Cell(i int) *Cell {
	if r == nil || i < 0 || i >= len(r.Cells) {
		return nil
	}
	return r.Cells[i]
}

func (t *Table) blockText() string {
	var parts []string
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			for _, p := range cell.Paragraphs() {
				parts = append(parts, p.Text())
			}
		}
	}
	return strings.Join(parts, "\n")
}

// Header is the running page header of the document's only section.
type Header struct {
	blocks []Block
}

// AddParagraph appends a paragraph to the header.
func (h *Header) AddParagraph(style string) *Paragraph {
	p := &Paragraph{Style: style}
	h.blocks = append(h.blocks, p)
	return p
}

// Paragraphs returns the header paragraphs in order.
func (h *Header) Paragraphs() []*Paragraph {
	return paragraphsOf(h.blocks)
}

// Empty reports whether the header carries no content.
func (h *Header) Empty() bool {
	return h == nil || len(h.blocks) == 0
}

// SectionProps holds page geometry for the document's only section.
type SectionProps struct {
	PageWidthIn    float64
	PageHeightIn   float64
	TopMarginIn    float64
	BottomMarginIn float64
	LeftMarginIn   float64
	RightMarginIn  float64
	HeaderDistIn   float64
	FooterDistIn   float64
}

// CoreProperties is the docProps/core.xml metadata.
type CoreProperties struct {
	Title    string
	Subject  string
	Author   string
	Keywords string
	Category string
}

// Document is an in-memory word processing document.
type Document struct {
	Styles  *Styles
	Section SectionProps
	Core    CoreProperties
	header  *Header
	body    []Block
}

// New returns an empty letter-size document with the default style set.
func New() *Document {
	return &Document{
		Styles: DefaultStyles(),
		Section: SectionProps{
			PageWidthIn:    8.5,
			PageHeightIn:   11,
			TopMarginIn:    1,
			BottomMarginIn: 1,
			LeftMarginIn:   1,
			RightMarginIn:  1,
			HeaderDistIn:   0.5,
			FooterDistIn:   0.5,
		},
	}
}

// AddParagraph appends a body paragraph with the given style (empty means Normal).
func (d *Document) AddParagraph(style string) *Paragraph {
	p := &Paragraph{Style: style}
	d.body = append(d.body, p)
	return p
}

// AddText appends a body paragraph holding a single plain run.
func (d *Document) AddText(text, style string) *Paragraph {
	p := d.AddParagraph(style)
	if text != "" {
		p.AddRun(text)
	}
	return p
}

// AddHeading appends a heading paragraph. Level 0 uses the Title style,
// levels 1-3 use the matching Heading style.
func (d *Document) AddHeading(text string, level int) *Paragraph {
	return d.AddText(text, HeadingStyle(level))
}

// AddTable appends a table with the given shape. Every cell starts empty.
func (d *Document) AddTable(rows, cols int) *Table {
	t := &Table{Autofit: true}
	for i := 0; i < rows; i++ {
		row := &Row{}
		for j := 0; j < cols; j++ {
			row.Cells = append(row.Cells, &Cell{})
		}
		t.Rows = append(t.Rows, row)
	}
	d.body = append(d.body, t)
	return t
}

// Paragraphs returns the top-level body paragraphs (table content excluded).
func (d *Document) Paragraphs() []*Paragraph {
	return paragraphsOf(d.body)
}

// Tables returns the body tables in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.body {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// Blocks returns the body blocks in order.
func (d *Document) Blocks() []Block {
	return d.body
}

// Header returns the running page header, creating it on first use.
func (d *Document) Header() *Header {
	if d.header == nil {
		d.header = &Header{}
	}
	return d.header
}

// PlainText returns the text of every body block joined by newlines.
func (d *Document) PlainText() string {
	parts := make([]string, 0, len(d.body))
	for _, b := range d.body {
		parts = append(parts, b.blockText())
	}
	return strings.Join(parts, "\n")
}

// HeadingStyle maps a heading level to its style name.
func HeadingStyle(level int) string {
	switch {
	case level <= 0:
		return StyleTitle
	case level == 1:
		return StyleHeading1
	case level == 2:
		return StyleHeading2
	default:
		return StyleHeading3
	}
}

func paragraphsOf(blocks []Block) []*Paragraph {
	var out []*Paragraph
	for _, b := range blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}
