package candidate

import (
	"strings"

	"github.com/jonathan/resume-docx/internal/types"
)

// Normalize applies all normalization steps to a candidate record
func Normalize(c *types.Candidate) {
	NormalizeScalars(c)
	NormalizeExperience(c)
	NormalizeSkills(c)
	if c.Summary.IsList() {
		c.Summary.Items = dropBlank(c.Summary.Items)
	}
	for _, key := range types.CanonicalSectionKeys() {
		if items := c.ListFor(key); items != nil {
			c.SetListFor(key, dropBlank(items))
		}
	}
}

// NormalizeScalars trims the flat and nested contact fields
func NormalizeScalars(c *types.Candidate) {
	for _, f := range []*string{
		&c.Name, &c.Headline, &c.Email, &c.Phone, &c.Location,
		&c.Website, &c.LinkedIn, &c.GitHub,
	} {
		*f = strings.TrimSpace(*f)
	}
	c.Links = trimStrings(c.Links)

	if c.Contact != nil {
		ct := *c.Contact
		for _, f := range []*string{
			&ct.Name, &ct.Headline, &ct.Email, &ct.Phone, &ct.Location,
			&ct.Website, &ct.LinkedIn, &ct.GitHub,
		} {
			*f = strings.TrimSpace(*f)
		}
		ct.Links = trimStrings(ct.Links)
		c.Contact = &ct
	}
}

// NormalizeExperience trims role fields and drops blank bullets and empty roles
func NormalizeExperience(c *types.Candidate) {
	if c.Experience == nil {
		return
	}
	roles := make([]types.Role, 0, len(c.Experience))
	for _, r := range c.Experience {
		r.Title = strings.TrimSpace(r.Title)
		r.Company = strings.TrimSpace(r.Company)
		r.Location = strings.TrimSpace(r.Location)
		r.Start = strings.TrimSpace(r.Start)
		r.End = strings.TrimSpace(r.End)
		r.Bullets = dropBlank(r.Bullets)
		if r.Title == "" && r.Company == "" && len(r.Bullets) == 0 {
			continue
		}
		roles = append(roles, r)
	}
	c.Experience = roles
}

// NormalizeSkills drops blank skill items and de-duplicates them within each
// group and within the flat list, case-insensitively, keeping the first spelling
func NormalizeSkills(c *types.Candidate) {
	if c.SkillsGroups != nil {
		groups := make([]types.SkillGroup, 0, len(c.SkillsGroups))
		for _, g := range c.SkillsGroups {
			g.Title = strings.TrimSpace(g.Title)
			g.Items = dedupe(dropBlank(g.Items))
			if g.Title == "" && len(g.Items) == 0 {
				continue
			}
			groups = append(groups, g)
		}
		c.SkillsGroups = groups
	}
	if c.Skills != nil {
		c.Skills = dedupe(dropBlank(c.Skills))
	}
}

func itemKey(it types.Item) string {
	return strings.ToLower(it.TextOr("name", "title", "label", "text"))
}

func dedupe(items []types.Item) []types.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]types.Item, 0, len(items))
	for _, it := range items {
		k := itemKey(it)
		if k != "" {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}

// dropBlank removes bare-string items that are empty after trimming and
// mapping items with no non-empty field.
func dropBlank(items []types.Item) []types.Item {
	out := make([]types.Item, 0, len(items))
	for _, it := range items {
		if !it.IsMap() {
			if t := strings.TrimSpace(it.Text); t != "" {
				out = append(out, types.TextItem(t))
			}
			continue
		}
		for _, v := range it.Fields {
			if strings.TrimSpace(v) != "" {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func trimStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
