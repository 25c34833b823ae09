package sections

import (
	"strings"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/formatting"
	"github.com/jonathan/resume-docx/internal/style"
	"github.com/jonathan/resume-docx/internal/types"
)

// unlimited stands in for an absent item cap.
const unlimited = int(^uint(0) >> 1)

// writer wraps a paragraph container with the bullet, header-line and group
// title primitives every renderer shares.
type writer struct {
	dst  docx.Container
	sec  types.SectionConfig
	page types.StyleConfig
}

func newWriter(dst docx.Container, rc RenderContext) *writer {
	return &writer{dst: dst, sec: rc.Section, page: rc.Page}
}

// bulletConfig resolves plain-vs-list bullets and the glyph. The section's
// bullets mapping comes first, plain_bullets forces plain, and the page's
// bullets mapping fills whatever is still unset.
func (w *writer) bulletConfig() (plain bool, glyph string) {
	styleName := w.sec.Bullets.Style
	glyph = w.sec.Bullets.Glyph
	if w.sec.PlainBullets {
		styleName = "plain"
	}
	if styleName == "" {
		styleName = w.page.Bullets.Style
	}
	if glyph == "" {
		glyph = w.page.Bullets.Glyph
	}
	if glyph == "" {
		glyph = types.DefaultGlyph
	}
	return strings.EqualFold(styleName, "plain"), glyph
}

// text appends a tight paragraph holding text (newlines become line breaks).
func (w *writer) text(text string, afterPt float64) *docx.Paragraph {
	p := w.dst.AddParagraph("")
	style.Tight(p, 0, afterPt)
	if text != "" {
		p.AddRun(text)
	}
	return p
}

// emphasized appends a tight paragraph with keyword emphasis.
func (w *writer) emphasized(text string, keywords []string, afterPt float64) *docx.Paragraph {
	p := w.dst.AddParagraph("")
	style.Tight(p, 0, afterPt)
	p.AppendRuns(formatting.Emphasize(text, keywords)...)
	return p
}

// bulletLine appends a plain bullet: glyph, space, text.
func (w *writer) bulletLine(text, glyph string, keywords []string) *docx.Paragraph {
	p := w.dst.AddParagraph("")
	style.Tight(p, 0, 0)
	style.FlushLeft(p)
	p.AddRun(glyph + " ")
	p.AppendRuns(formatting.Emphasize(text, keywords)...)
	return p
}

// namedBullet appends a plain bullet whose name is bolded.
func (w *writer) namedBullet(name, detail, sep, glyph string) *docx.Paragraph {
	p := w.dst.AddParagraph("")
	style.Tight(p, 0, 0)
	style.FlushLeft(p)
	p.AddRun(glyph + " ")
	color := firstNonEmpty(w.sec.NameColor, w.sec.ItemColor, w.sec.TitleColor)
	p.AppendRuns(formatting.NamedBullet(name, detail, sep, color)...)
	return p
}

// listBullet appends a paragraph in a list style.
func (w *writer) listBullet(text, listStyle string, keywords []string) *docx.Paragraph {
	if listStyle == "" {
		listStyle = docx.StyleListBullet
	}
	p := w.dst.AddParagraph(listStyle)
	style.Tight(p, 0, 0)
	style.CompactBullet(p)
	p.AppendRuns(formatting.Emphasize(text, keywords)...)
	return p
}

// bullets renders items as plain glyph bullets or list-style paragraphs
// according to the resolved bullet configuration.
func (w *writer) bullets(items []string, keywords []string, listStyle string) {
	plain, glyph := w.bulletConfig()
	for _, it := range items {
		if plain {
			w.bulletLine(it, glyph, keywords)
		} else {
			w.listBullet(it, listStyle, keywords)
		}
	}
}

// headerStyle builds header-line styling from the section's tuning fields.
func (w *writer) headerStyle() formatting.HeaderStyle {
	hs := formatting.HeaderStyle{
		ItemColor:        firstNonEmpty(w.sec.ItemColor, w.sec.HeaderColor),
		LocationColor:    w.sec.LocationColor,
		DurationColor:    w.sec.DurationColor,
		LocationBrackets: types.Deref(w.sec.LocationBrackets, true),
		DurationBrackets: types.Deref(w.sec.DurationBrackets, true),
	}
	if w.sec.MetaPt != nil && *w.sec.MetaPt > 0 {
		hs.MetaPt = *w.sec.MetaPt
	}
	return hs
}

// headerLine appends a "Title at Org — [Location] — (Span)" paragraph.
func (w *writer) headerLine(f formatting.HeaderFields, paraStyle string) *docx.Paragraph {
	p := w.dst.AddParagraph(paraStyle)
	style.Tight(p, 0, 0)
	style.FlushLeft(p)
	p.AppendRuns(formatting.HeaderLine(f, w.headerStyle())...)
	return p
}

// groupTitle appends a bold group title, optionally shaded. A shaded title
// without an explicit colour gets white or black text by contrast.
func (w *writer) groupTitle(title string) *docx.Paragraph {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	p := w.dst.AddParagraph("")
	style.Tight(p, 0, 0)
	style.FlushLeft(p)
	r := p.AddRun(title)
	r.Bold = true

	color := w.sec.GroupTitleColor
	if bg, ok := style.ParseHexColor(firstNonEmpty(w.sec.GroupTitleBg, w.sec.TitleBg)); ok {
		p.Shading = bg.Hex()
		if color == "" {
			color = style.AutoContrast(bg).Hex()
		}
	}
	style.ColorRun(r, firstNonEmpty(color, w.sec.ItemColor, w.sec.TitleColor))
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func capped[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n < len(items) {
		return items[:n]
	}
	return items
}
