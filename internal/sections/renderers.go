package sections

import (
	"strings"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/formatting"
	"github.com/jonathan/resume-docx/internal/types"
)

const defaultInlineSeparator = " • "

// SummaryRenderer renders the profile summary as prose or bullets. It is one
// of the two renderers that emphasize keywords.
type SummaryRenderer struct{}

func (SummaryRenderer) Key() string      { return types.SectionSummary }
func (SummaryRenderer) acceptsKeywords() {}

func (SummaryRenderer) Render(dst docx.Container, c *types.Candidate, rc RenderContext) {
	w := newWriter(dst, rc)

	if c.Summary.IsList() {
		var items []string
		for _, it := range c.Summary.Items {
			if s := it.TextOr("text", "line", "desc"); s != "" {
				items = append(items, formatting.NormalizeBullet(s))
			}
		}
		w.bullets(items, rc.Keywords, "")
		return
	}

	text := strings.TrimSpace(c.Summary.Text)
	if text == "" {
		text = c.ContactField("headline")
	}
	if text == "" {
		return
	}

	if rc.Section.Bulleted {
		sentences := formatting.SplitSentences(text)
		if n := types.Deref(rc.Section.MaxSentences, 0); n > 0 {
			sentences = capped(sentences, n)
		}
		items := make([]string, 0, len(sentences))
		for _, s := range sentences {
			items = append(items, formatting.NormalizeBullet(s))
		}
		w.bullets(items, rc.Keywords, "")
		return
	}
	w.emphasized(text, rc.Keywords, 2)
}

// namedItem is a list entry reduced to a name and an optional description.
type namedItem struct {
	Name string
	Desc string
}

func (n namedItem) join(sep string) string {
	if n.Desc == "" {
		return n.Name
	}
	if n.Name == "" {
		return n.Desc
	}
	return n.Name + sep + n.Desc
}

func toNamedItem(it types.Item, showDesc bool) (namedItem, bool) {
	if !it.IsMap() {
		s := formatting.CleanInline(it.Text)
		return namedItem{Name: s}, s != ""
	}
	n := namedItem{Name: formatting.CleanInline(it.Get("name", "title", "label"))}
	if showDesc {
		n.Desc = formatting.CleanInline(it.Get("desc", "description"))
	}
	return n, n.Name != "" || n.Desc != ""
}

// renderNamedItems renders skill-like items either as bullets or on one line.
func renderNamedItems(w *writer, items []namedItem, asBullets bool, descSep, sep string) {
	if len(items) == 0 {
		return
	}
	if asBullets {
		plain, glyph := w.bulletConfig()
		for _, it := range items {
			switch {
			case plain && it.Desc != "" && it.Name != "":
				w.namedBullet(it.Name, it.Desc, descSep, glyph)
			case plain:
				w.bulletLine(it.join(descSep), glyph, nil)
			default:
				w.listBullet(it.join(descSep), "", nil)
			}
		}
		return
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.join(descSep))
	}
	w.text(strings.Join(lines, sep), 2)
}

// SkillsRenderer renders skills_groups, falling back to the flat skills list.
type SkillsRenderer struct{}

func (SkillsRenderer) Key() string { return types.SectionSkills }

func (SkillsRenderer) Render(dst docx.Container, c *types.Candidate, rc RenderContext) {
	w := newWriter(dst, rc)
	sec := rc.Section
	asBullets := sec.Bullets.EnabledOr(false)
	sep := sec.Separator
	if sep == "" {
		sep = defaultInlineSeparator
	}
	descSep := sec.DescSeparator
	if descSep == "" {
		descSep = formatting.Separator
	}

	if len(c.SkillsGroups) > 0 {
		showDesc := types.Deref(sec.ShowDesc, true)
		compact := types.Deref(sec.Compact, true)
		maxPerGroup := types.Deref(sec.MaxItemsPerGroup, unlimited)
		for _, g := range capped(c.SkillsGroups, types.Deref(sec.MaxGroups, unlimited)) {
			var items []namedItem
			for _, raw := range g.Items {
				if it, ok := toNamedItem(raw, showDesc); ok {
					items = append(items, it)
				}
			}
			items = capped(items, maxPerGroup)
			if len(items) == 0 {
				continue
			}
			title := strings.TrimSpace(g.Title)
			if asBullets {
				w.groupTitle(title)
				renderNamedItems(w, items, true, descSep, sep)
				continue
			}
			w.text(inlineGroup(title, items, descSep, sep, compact), 0)
		}
		return
	}

	var items []namedItem
	for _, raw := range c.Skills {
		if it, ok := toNamedItem(raw, types.Deref(sec.ShowDesc, true)); ok {
			items = append(items, it)
		}
	}
	renderNamedItems(w, capped(items, types.Deref(sec.MaxItems, unlimited)), asBullets, descSep, sep)
}

// inlineGroup formats "Title: a • b", or one item per line when not compact.
func inlineGroup(title string, items []namedItem, descSep, sep string, compact bool) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.join(descSep))
	}
	switch {
	case title != "" && compact:
		return title + ": " + strings.Join(parts, sep)
	case title != "":
		return title + ":\n" + strings.Join(parts, "\n")
	case compact:
		return strings.Join(parts, sep)
	default:
		return strings.Join(parts, "\n")
	}
}

// techGroupTitles are the skills group titles technologies falls back to.
var techGroupTitles = map[string]bool{
	"technology":   true,
	"technologies": true,
	"tooling":      true,
	"tools":        true,
}

// TechnologiesRenderer renders the technologies list, or the first skills
// group that is clearly about tools.
type TechnologiesRenderer struct{}

func (TechnologiesRenderer) Key() string { return types.SectionTechnologies }

func (TechnologiesRenderer) Render(dst docx.Container, c *types.Candidate, rc RenderContext) {
	w := newWriter(dst, rc)
	sec := rc.Section
	showDesc := types.Deref(sec.ShowDesc, false)
	descSep := sec.DescSeparator
	if descSep == "" {
		descSep = ": "
	}

	collect := func(raw []types.Item) []namedItem {
		var out []namedItem
		for _, r := range raw {
			if it, ok := toNamedItem(r, showDesc); ok {
				out = append(out, it)
			}
		}
		return out
	}

	items := collect(c.Technologies)
	if len(items) == 0 {
		for _, g := range c.SkillsGroups {
			if techGroupTitles[strings.ToLower(strings.TrimSpace(g.Title))] {
				items = collect(g.Items)
				break
			}
		}
	}
	if n := types.Deref(sec.MaxItems, 0); n > 0 {
		items = capped(items, n)
	}
	sep := sec.Separator
	if sep == "" {
		sep = defaultInlineSeparator
	}
	renderNamedItems(w, items, sec.Bullets.EnabledOr(true), descSep, sep)
}

// ExperienceRenderer renders roles with header lines and capped bullets. It
// emphasizes keywords in bullets.
type ExperienceRenderer struct{}

func (ExperienceRenderer) Key() string      { return types.SectionExperience }
func (ExperienceRenderer) acceptsKeywords() {}

func (ExperienceRenderer) Render(dst docx.Container, c *types.Candidate, rc RenderContext) {
	w := newWriter(dst, rc)
	sec := rc.Section
	roleStyle := firstNonEmpty(sec.RoleStyle, docx.StyleNormal)
	bulletStyle := firstNonEmpty(sec.BulletStyle, docx.StyleListBullet)

	for idx, role := range capped(c.Experience, types.Deref(sec.MaxItems, unlimited)) {
		title := strings.TrimSpace(role.Title)
		company := strings.TrimSpace(role.Company)
		if title != "" || company != "" {
			w.headerLine(formatting.HeaderFields{
				Title:    title,
				Org:      company,
				Location: role.Location,
				Span:     formatting.DateSpan(role.Start, role.End),
			}, roleStyle)
		}

		var bullets []string
		for _, b := range capped(role.Bullets, BulletLimit(sec, idx)) {
			if s := b.TextOr("text", "line", "name"); s != "" {
				bullets = append(bullets, formatting.NormalizeBullet(s))
			}
		}
		w.bullets(bullets, rc.Keywords, bulletStyle)
	}
}

// BulletLimit returns the bullet cap for the role at index idx. With
// recent_roles_count set, the first roles use recent_max_bullets and the rest
// prior_max_bullets, both bounded by max_bullets.
func BulletLimit(sec types.SectionConfig, idx int) int {
	maxBullets := types.Deref(sec.MaxBullets, unlimited)
	recentCount := types.Deref(sec.RecentRolesCount, 0)
	if recentCount <= 0 {
		return maxBullets
	}
	if idx < recentCount {
		return min(maxBullets, types.Deref(sec.RecentMaxBullets, maxBullets))
	}
	return min(maxBullets, types.Deref(sec.PriorMaxBullets, maxBullets))
}

// EducationRenderer renders one header line per degree.
type EducationRenderer struct{}

func (EducationRenderer) Key() string { return types.SectionEducation }

func (EducationRenderer) Render(dst docx.Container, c *types.Candidate, rc RenderContext) {
	w := newWriter(dst, rc)
	for _, ed := range c.Education {
		if !ed.IsMap() {
			if s := formatting.CleanInline(ed.Text); s != "" {
				w.text(s, 0)
			}
			continue
		}
		f := formatting.HeaderFields{
			Title: ed.Get("degree"),
			Org:   ed.Get("institution", "school"),
			Span:  ed.Get("year"),
		}
		if f.Title == "" && f.Org == "" && f.Span == "" {
			continue
		}
		w.headerLine(f, docx.StyleNormal)
	}
}

// PresentationsRenderer renders talks as "Title — Event — Year (link)" bullets.
type PresentationsRenderer struct{}

func (PresentationsRenderer) Key() string { return types.SectionPresentations }

func (PresentationsRenderer) Render(dst docx.Container, c *types.Candidate, rc RenderContext) {
	w := newWriter(dst, rc)
	var lines []string
	for _, it := range c.Presentations {
		if line := PresentationLine(it); line != "" {
			lines = append(lines, line)
		}
	}
	w.bullets(lines, nil, "")
}

// PresentationLine formats one presentation entry.
func PresentationLine(it types.Item) string {
	if !it.IsMap() {
		return formatting.CleanInline(it.Text)
	}
	title := it.Get("title", "name")
	event := it.Get("event")
	line := formatting.JoinNonEmpty(formatting.Separator, title, event, it.Get("year"))
	if link := it.Get("link"); link != "" {
		if line == "" {
			line = link
		} else {
			line += " (" + link + ")"
		}
	}
	return formatting.CleanInline(line)
}

// ListRenderer renders a simple list section. Mapping items are reduced to
// their first name field, optionally followed by a description field.
type ListRenderer struct {
	key      string
	nameKeys []string
	descKey  string
	descSep  string
}

func (r ListRenderer) Key() string { return r.key }

func (r ListRenderer) Render(dst docx.Container, c *types.Candidate, rc RenderContext) {
	w := newWriter(dst, rc)
	var lines []string
	for _, it := range c.ListFor(r.key) {
		if line := r.line(it); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return
	}
	if rc.Section.Bullets.EnabledOr(true) {
		w.bullets(lines, nil, "")
		return
	}
	sep := rc.Section.Separator
	if sep == "" {
		sep = defaultInlineSeparator
	}
	w.text(strings.Join(lines, sep), 2)
}

func (r ListRenderer) line(it types.Item) string {
	if !it.IsMap() {
		return formatting.CleanInline(it.Text)
	}
	name := it.Get(r.nameKeys...)
	if name == "" {
		return ""
	}
	if r.descKey != "" {
		if desc := it.Get(r.descKey); desc != "" {
			name += r.descSep
			name += desc
		}
	}
	return formatting.CleanInline(name)
}

func newListRenderer(key string, nameKeys []string, descKey string) ListRenderer {
	if len(nameKeys) == 0 {
		nameKeys = []string{"name", "title", "label", "text"}
	}
	return ListRenderer{key: key, nameKeys: nameKeys, descKey: descKey, descSep: formatting.Separator}
}
