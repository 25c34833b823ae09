package rendering

import (
	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/formatting"
	"github.com/jonathan/resume-docx/internal/style"
	"github.com/jonathan/resume-docx/internal/types"
)

func (e *Engine) renderSingleColumn(doc *docx.Document, c *types.Candidate, page types.StyleConfig, keywords []string, res *Result) {
	renderDocumentHeader(doc, c)

	shading := style.HeadingShading(page)
	for _, sec := range res.Sections {
		if sec.Key == "" {
			continue
		}
		// No renderer, no heading.
		if !e.registry.Has(sec.Key) {
			res.omitted(sec.Key)
			continue
		}
		h := doc.AddHeading(sectionTitle(sec), types.Deref(sec.HeaderLevel, 1))
		style.Tight(h, 6, 2)
		style.FlushLeft(h)
		if shading != "" {
			style.Shade(h, shading)
		}
		e.registry.Render(sec.Key, doc, c, e.context(sec, page, keywords))
		res.rendered(sec.Key)
	}
}

// renderDocumentHeader writes the centred name, headline and contact line.
func renderDocumentHeader(doc *docx.Document, c *types.Candidate) {
	if name := c.ContactField("name"); name != "" {
		p := doc.AddHeading(name, 0)
		style.Tight(p, 0, 2)
		style.Center(p)
	}
	if headline := c.ContactField("headline"); headline != "" {
		p := doc.AddText(headline, "")
		style.Tight(p, 0, 2)
		style.Center(p)
	}
	if line := ContactLine(c); line != "" {
		p := doc.AddText(line, "")
		style.Tight(p, 0, 6)
		style.Center(p)
	}
}

func sectionTitle(sec types.SectionConfig) string {
	if sec.Title != "" {
		return sec.Title
	}
	return formatting.TitleCase(sec.Key)
}
