package rendering

import (
	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/sections"
	"github.com/jonathan/resume-docx/internal/style"
	"github.com/jonathan/resume-docx/internal/types"
)

// Sidebar header colours used when the page does not set its own.
const (
	DefaultSidebarNameColor = "#1A365D"
	DefaultHeaderBg         = "#F7F9FC"
	headerContactColor      = "#666666"
)

// panelKeys are rendered into the sidebar cell, in this order.
var panelKeys = []string{types.SectionSummary, types.SectionSkills}

func (e *Engine) renderSidebar(doc *docx.Document, c *types.Candidate, page types.StyleConfig, layout types.Sidebar, keywords []string, res *Result) {
	renderPageHeader(doc, c, page)

	table := doc.AddTable(1, 2)
	table.Alignment = docx.AlignCenter
	table.Autofit = false
	table.ColumnWidthsIn = []float64{layout.SidebarWidthIn, layout.MainWidthIn}

	side, main := table.Row(0).Cell(0), table.Row(0).Cell(1)
	side.NoBorders, main.NoBorders = true, true
	side.WidthIn, main.WidthIn = layout.SidebarWidthIn, layout.MainWidthIn
	if bg, ok := style.ParseHexColor(layout.SidebarBg); ok {
		side.Shading = bg.Hex()
	}

	panels := make(map[string]bool, len(panelKeys))
	for _, key := range panelKeys {
		sec, ok := firstSection(res.Sections, key)
		if !ok {
			continue
		}
		panel, ok := e.registry.Panel(key)
		if !ok {
			continue
		}
		sec.Title = sectionTitle(sec)
		panel.RenderPanel(side, c, e.context(sec, page, nil))
		panels[key] = true
		res.rendered(key)
	}

	for _, sec := range res.Sections {
		if sec.Key == "" || panels[sec.Key] {
			continue
		}
		if _, ok := e.registry.Main(sec.Key); !ok {
			res.omitted(sec.Key)
			continue
		}
		sections.SidebarHeading(main, sectionTitle(sec), page, 10)
		e.registry.RenderMain(sec.Key, main, c, e.context(sec, page, keywords))
		res.rendered(sec.Key)
	}
}

func firstSection(secs []types.SectionConfig, key string) (types.SectionConfig, bool) {
	for _, s := range secs {
		if s.Key == key {
			return s, true
		}
	}
	return types.SectionConfig{}, false
}

// renderPageHeader writes name, headline and contact line into the running
// page header so they repeat on every page.
func renderPageHeader(doc *docx.Document, c *types.Candidate, page types.StyleConfig) {
	name := c.ContactField("name")
	headline := c.ContactField("headline")
	contact := sidebarContactLine(c)
	if name == "" && headline == "" && contact == "" {
		return
	}

	header := doc.Header()
	bg := style.Pick(page.HeaderBg, DefaultHeaderBg)
	shade := func(p *docx.Paragraph) {
		if bg != "" {
			style.Shade(p, bg)
		}
	}

	if name != "" {
		p := header.AddParagraph("")
		r := p.AddRun(name)
		r.Bold = true
		style.SizeRun(r, page.SidebarNamePt)
		style.ColorRun(r, style.Pick(page.SidebarNameColor, DefaultSidebarNameColor))
		style.Tight(p, 0, 0)
		style.Center(p)
		shade(p)
	}
	if headline != "" {
		p := header.AddParagraph("")
		r := p.AddRun(headline)
		style.SizeRun(r, page.SidebarHeadlinePt)
		style.ColorRun(r, style.Pick(page.SidebarTextColor, sections.DefaultSidebarTextColor))
		style.Tight(p, 0, 2)
		style.Center(p)
		shade(p)
	}
	if contact != "" {
		p := header.AddParagraph("")
		r := p.AddRun(contact)
		style.SizeRun(r, page.BodyPt-1)
		style.ColorRun(r, headerContactColor)
		style.Tight(p, 0, 6)
		style.Center(p)
		shade(p)
	}
}
