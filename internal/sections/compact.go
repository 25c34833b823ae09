package sections

import (
	"strings"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/formatting"
	"github.com/jonathan/resume-docx/internal/style"
	"github.com/jonathan/resume-docx/internal/types"
)

// Sidebar layout colours used when the page does not set its own.
const (
	DefaultSidebarHeadingColor = "#D4A84B"
	DefaultSidebarTextColor    = "#333333"
	DefaultSidebarBulletColor  = "#4A90A4"
	DefaultMainBulletColor     = "#4A90A4"
	metaColor                  = "#666666"
	eventColor                 = "#888888"
)

// Item caps for the sidebar panel.
const (
	PanelSummaryItems  = 6
	PanelSkillItems    = 8
	defaultMainBullets = 3
)

const mainIndentPt = 18

// PanelRenderer renders a short list into the sidebar cell of the sidebar layout.
type PanelRenderer interface {
	Renderer
	RenderPanel(dst docx.Container, c *types.Candidate, rc RenderContext)
}

// MainRenderer renders a section into the main cell of the sidebar layout.
// Only education, experience, teaching and presentations implement it.
type MainRenderer interface {
	Renderer
	RenderMain(dst docx.Container, c *types.Candidate, rc RenderContext)
}

// SidebarHeading appends a bold coloured heading used by both sidebar cells.
func SidebarHeading(dst docx.Container, title string, page types.StyleConfig, beforePt float64) *docx.Paragraph {
	p := dst.AddParagraph("")
	r := p.AddRun(title)
	r.Bold = true
	style.SizeRun(r, page.H1Pt)
	style.ColorRun(r, firstNonEmpty(page.HeadingFg(), DefaultSidebarHeadingColor))
	style.Tight(p, beforePt, 6)
	return p
}

func panelList(dst docx.Container, title string, items []string, page types.StyleConfig) {
	if len(items) == 0 {
		return
	}
	SidebarHeading(dst, title, page, 12)
	text := firstNonEmpty(page.SidebarTextColor, DefaultSidebarTextColor)
	bullet := firstNonEmpty(page.SidebarBulletColor, DefaultSidebarBulletColor)
	for _, it := range items {
		p := dst.AddParagraph("")
		g := p.AddRun(types.DefaultGlyph + " ")
		style.ColorRun(g, bullet)
		style.SizeRun(g, page.BodyPt)
		r := p.AddRun(it)
		style.SizeRun(r, page.BodyPt)
		style.ColorRun(r, text)
		style.Tight(p, 0, 2)
	}
}

// RenderPanel lists up to six summary lines.
func (SummaryRenderer) RenderPanel(dst docx.Container, c *types.Candidate, rc RenderContext) {
	var items []string
	if c.Summary.IsList() {
		for _, it := range c.Summary.Items {
			if s := it.TextOr("text", "line", "desc"); s != "" {
				items = append(items, s)
			}
		}
	} else if s := strings.TrimSpace(c.Summary.Text); s != "" {
		items = []string{s}
	}
	panelList(dst, rc.Section.Title, capped(items, PanelSummaryItems), rc.Page)
}

// RenderPanel lists up to eight skill names across all groups.
func (SkillsRenderer) RenderPanel(dst docx.Container, c *types.Candidate, rc RenderContext) {
	var items []string
	for _, g := range c.SkillsGroups {
		for _, it := range g.Items {
			if s := it.TextOr("name"); s != "" {
				items = append(items, s)
			}
		}
	}
	if len(c.SkillsGroups) == 0 {
		for _, it := range c.Skills {
			if s := it.TextOr("name"); s != "" {
				items = append(items, s)
			}
		}
	}
	panelList(dst, rc.Section.Title, capped(items, PanelSkillItems), rc.Page)
}

// mainBullet starts a main-column entry with a coloured glyph.
func mainBullet(dst docx.Container, page types.StyleConfig) *docx.Paragraph {
	p := dst.AddParagraph("")
	g := p.AddRun(types.DefaultGlyph + " ")
	style.ColorRun(g, firstNonEmpty(page.MainBulletColor, DefaultMainBulletColor))
	return p
}

// metaLine appends an indented meta paragraph and returns it with its first run.
func metaLine(dst docx.Container, text string, sizePt float64, color string, italic bool) (*docx.Paragraph, *docx.Run) {
	p := dst.AddParagraph("")
	style.Indent(p, mainIndentPt)
	r := p.AddRun(text)
	r.Italic = italic
	style.SizeRun(r, sizePt)
	style.ColorRun(r, color)
	return p, r
}

// RenderMain renders degrees with institution and year beneath.
func (EducationRenderer) RenderMain(dst docx.Container, c *types.Candidate, rc RenderContext) {
	page := rc.Page
	for _, ed := range c.Education {
		degree := ed.TextOr("degree")
		institution, year := ed.Get("institution", "school"), ed.Get("year")
		if degree == "" && institution == "" && year == "" {
			continue
		}

		p := mainBullet(dst, page)
		r := p.AddRun(degree)
		r.Bold = true
		style.SizeRun(r, page.BodyPt)
		style.Tight(p, 0, 0)

		if institution == "" && year == "" {
			continue
		}
		p2, _ := metaLine(dst, institution, page.MetaPt, metaColor, true)
		if year != "" {
			yr := p2.AddRun("  " + year)
			style.SizeRun(yr, page.MetaPt)
			style.ColorRun(yr, metaColor)
		}
		style.Tight(p2, 0, 6)
	}
}

// RenderMain renders roles with the company beneath and a short bullet list.
// Bullets are capped by recent_max_bullets, three by default.
func (ExperienceRenderer) RenderMain(dst docx.Container, c *types.Candidate, rc RenderContext) {
	page := rc.Page
	limit := types.Deref(rc.Section.RecentMaxBullets, defaultMainBullets)

	for _, role := range c.Experience {
		p := mainBullet(dst, page)
		r := p.AddRun(strings.TrimSpace(role.Title))
		r.Bold = true
		style.SizeRun(r, page.BodyPt)
		if span := formatting.DateSpan(role.Start, role.End); span != "" {
			sr := p.AddRun("  " + span)
			style.SizeRun(sr, page.MetaPt)
			style.ColorRun(sr, metaColor)
		}
		style.Tight(p, 0, 0)

		if company := strings.TrimSpace(role.Company); company != "" {
			p2, _ := metaLine(dst, company, page.MetaPt, metaColor, true)
			style.Tight(p2, 0, 2)
		}

		for _, b := range capped(role.Bullets, limit) {
			text := b.TextOr("text", "line", "name")
			if text == "" {
				continue
			}
			p3 := dst.AddParagraph("")
			style.Indent(p3, mainIndentPt)
			for _, run := range formatting.Emphasize(text, rc.Keywords) {
				run.SizePt = page.BodyPt - 1
				p3.AppendRuns(run)
			}
			style.Tight(p3, 0, 1)
		}
	}
}

// SplitTeaching splits "Title (Institution)" into its parts.
func SplitTeaching(text string) (title, institution string) {
	text = strings.TrimSpace(text)
	if i := strings.LastIndex(text, "("); i >= 0 && strings.HasSuffix(text, ")") {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1 : len(text)-1])
	}
	return text, ""
}

// TeachingRenderer renders teaching entries. In the main column each entry is
// an upper-cased title with the institution beneath.
type TeachingRenderer struct {
	ListRenderer
}

func (TeachingRenderer) RenderMain(dst docx.Container, c *types.Candidate, rc RenderContext) {
	page := rc.Page
	for _, it := range c.Teaching {
		title, institution := SplitTeaching(it.TextOr("text", "title", "name"))
		if title == "" && institution == "" {
			continue
		}
		p := dst.AddParagraph("")
		r := p.AddRun(strings.ToUpper(title))
		r.Bold = true
		style.SizeRun(r, page.BodyPt)
		style.Tight(p, 0, 0)

		if institution != "" {
			p2 := dst.AddParagraph("")
			ir := p2.AddRun(institution)
			ir.Italic = true
			style.SizeRun(ir, page.MetaPt)
			style.ColorRun(ir, metaColor)
			style.Tight(p2, 0, 6)
		}
	}
}

// RenderMain renders talks with authors, event and note lines beneath.
func (PresentationsRenderer) RenderMain(dst docx.Container, c *types.Candidate, rc RenderContext) {
	page := rc.Page
	for _, it := range c.Presentations {
		title := it.TextOr("title", "name")
		if title == "" {
			continue
		}
		p := mainBullet(dst, page)
		r := p.AddRun(title)
		r.Bold = true
		style.SizeRun(r, page.BodyPt)
		style.Tight(p, 0, 0)

		last := p
		if authors := it.Get("authors"); authors != "" {
			last, _ = metaLine(dst, authors, page.MetaPt, metaColor, true)
			style.Tight(last, 0, 0)
		}
		if event := it.Get("event"); event != "" {
			last, _ = metaLine(dst, event, page.MetaPt-1, eventColor, false)
			style.Tight(last, 0, 0)
		}
		if note := it.Get("note"); note != "" {
			last, _ = metaLine(dst, note, page.MetaPt-1, "", true)
		}
		style.Tight(last, 0, 4)
	}
}
