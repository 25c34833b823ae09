package types

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical section keys.
const (
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionTechnologies   = "technologies"
	SectionInterests      = "interests"
	SectionPresentations  = "presentations"
	SectionLanguages      = "languages"
	SectionCoursework     = "coursework"
	SectionCertifications = "certifications"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionTeaching       = "teaching"
)

// CanonicalSectionKeys lists every section key a renderer exists for.
func CanonicalSectionKeys() []string {
	return []string{
		SectionSummary, SectionSkills, SectionTechnologies, SectionInterests,
		SectionPresentations, SectionLanguages, SectionCoursework,
		SectionCertifications, SectionExperience, SectionEducation, SectionTeaching,
	}
}

// Contact is the optional nested contact block of a candidate record.
// Flat candidate fields always take precedence over it.
type Contact struct {
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Headline string   `yaml:"headline,omitempty" json:"headline,omitempty"`
	Email    string   `yaml:"email,omitempty" json:"email,omitempty"`
	Phone    string   `yaml:"phone,omitempty" json:"phone,omitempty"`
	Location string   `yaml:"location,omitempty" json:"location,omitempty"`
	Website  string   `yaml:"website,omitempty" json:"website,omitempty"`
	LinkedIn string   `yaml:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub   string   `yaml:"github,omitempty" json:"github,omitempty"`
	Links    []string `yaml:"links,omitempty" json:"links,omitempty"`
}

// Role is one entry of the experience section.
type Role struct {
	Title    string `yaml:"title,omitempty"`
	Company  string `yaml:"company,omitempty"`
	Location string `yaml:"location,omitempty"`
	Start    string `yaml:"start,omitempty"`
	End      string `yaml:"end,omitempty"`
	Bullets  []Item `yaml:"bullets,omitempty"`
}

// SkillGroup is a titled group of skill items.
type SkillGroup struct {
	Title string `yaml:"title,omitempty"`
	Items []Item `yaml:"items,omitempty"`
}

// Summary is either a paragraph of text or a list of items.
type Summary struct {
	Text  string
	Items []Item
}

// IsList reports whether the summary was written as a list.
func (s Summary) IsList() bool {
	return s.Items != nil
}

// IsEmpty reports whether the summary carries no content.
func (s Summary) IsEmpty() bool {
	return strings.TrimSpace(s.Text) == "" && len(s.Items) == 0
}

// UnmarshalYAML accepts a string or a sequence of items.
func (s *Summary) UnmarshalYAML(value *yaml.Node) error {
	switch {
	case isNull(value):
		*s = Summary{}
		return nil
	case value.Kind == yaml.SequenceNode:
		var items []Item
		if err := value.Decode(&items); err != nil {
			return err
		}
		if items == nil {
			items = []Item{}
		}
		*s = Summary{Items: items}
		return nil
	default:
		var text string
		if err := value.Decode(&text); err != nil {
			return err
		}
		*s = Summary{Text: text}
		return nil
	}
}

// MarshalYAML writes the summary back in the shape it was read.
func (s Summary) MarshalYAML() (interface{}, error) {
	if s.IsList() {
		return s.Items, nil
	}
	return s.Text, nil
}

// Candidate is the structured record describing a person's resume content.
type Candidate struct {
	Name     string   `yaml:"name,omitempty"`
	Headline string   `yaml:"headline,omitempty"`
	Email    string   `yaml:"email,omitempty"`
	Phone    string   `yaml:"phone,omitempty"`
	Location string   `yaml:"location,omitempty"`
	Website  string   `yaml:"website,omitempty"`
	LinkedIn string   `yaml:"linkedin,omitempty"`
	GitHub   string   `yaml:"github,omitempty"`
	Links    []string `yaml:"links,omitempty"`
	Contact  *Contact `yaml:"contact,omitempty"`

	Summary        Summary      `yaml:"summary,omitempty"`
	Skills         []Item       `yaml:"skills,omitempty"`
	SkillsGroups   []SkillGroup `yaml:"skills_groups,omitempty"`
	Technologies   []Item       `yaml:"technologies,omitempty"`
	Experience     []Role       `yaml:"experience,omitempty"`
	Education      []Item       `yaml:"education,omitempty"`
	Teaching       []Item       `yaml:"teaching,omitempty"`
	Presentations  []Item       `yaml:"presentations,omitempty"`
	Interests      []Item       `yaml:"interests,omitempty"`
	Languages      []Item       `yaml:"languages,omitempty"`
	Coursework     []Item       `yaml:"coursework,omitempty"`
	Certifications []Item       `yaml:"certifications,omitempty"`

	skips []FieldSkip
}

// UnmarshalYAML decodes every field independently so one malformed field
// does not discard the rest of the record.
func (c *Candidate) UnmarshalYAML(value *yaml.Node) error {
	var out Candidate
	skips, err := decodeMapping(value, "", out.fieldTargets())
	if err != nil {
		return err
	}
	out.skips = skips
	*c = out
	return nil
}

// DecodeSkips returns the fields dropped while decoding the record.
func (c *Candidate) DecodeSkips() []FieldSkip {
	return c.skips
}

func (c *Candidate) fieldTargets() map[string]interface{} {
	return map[string]interface{}{
		"name":           &c.Name,
		"headline":       &c.Headline,
		"email":          &c.Email,
		"phone":          &c.Phone,
		"location":       &c.Location,
		"website":        &c.Website,
		"linkedin":       &c.LinkedIn,
		"github":         &c.GitHub,
		"links":          &c.Links,
		"contact":        &c.Contact,
		"summary":        &c.Summary,
		"skills":         &c.Skills,
		"skills_groups":  &c.SkillsGroups,
		"technologies":   &c.Technologies,
		"experience":     &c.Experience,
		"education":      &c.Education,
		"teaching":       &c.Teaching,
		"presentations":  &c.Presentations,
		"interests":      &c.Interests,
		"languages":      &c.Languages,
		"coursework":     &c.Coursework,
		"certifications": &c.Certifications,
	}
}

// ContactField resolves a contact-style field. The flat field wins; the nested
// contact block only fills gaps.
func (c *Candidate) ContactField(field string) string {
	var flat, nested string
	switch field {
	case "name":
		flat = c.Name
		if c.Contact != nil {
			nested = c.Contact.Name
		}
	case "headline":
		flat = c.Headline
		if c.Contact != nil {
			nested = c.Contact.Headline
		}
	case "email":
		flat = c.Email
		if c.Contact != nil {
			nested = c.Contact.Email
		}
	case "phone":
		flat = c.Phone
		if c.Contact != nil {
			nested = c.Contact.Phone
		}
	case "location":
		flat = c.Location
		if c.Contact != nil {
			nested = c.Contact.Location
		}
	case "website":
		flat = c.Website
		if c.Contact != nil {
			nested = c.Contact.Website
		}
	case "linkedin":
		flat = c.LinkedIn
		if c.Contact != nil {
			nested = c.Contact.LinkedIn
		}
	case "github":
		flat = c.GitHub
		if c.Contact != nil {
			nested = c.Contact.GitHub
		}
	}
	if v := strings.TrimSpace(flat); v != "" {
		return v
	}
	return strings.TrimSpace(nested)
}

// ContactLinks returns the flat links list, falling back to contact.links.
func (c *Candidate) ContactLinks() []string {
	if len(c.Links) > 0 {
		return c.Links
	}
	if c.Contact != nil {
		return c.Contact.Links
	}
	return nil
}

// ListFor returns the simple list section stored under key, if any.
func (c *Candidate) ListFor(key string) []Item {
	switch key {
	case SectionSkills:
		return c.Skills
	case SectionTechnologies:
		return c.Technologies
	case SectionEducation:
		return c.Education
	case SectionTeaching:
		return c.Teaching
	case SectionPresentations:
		return c.Presentations
	case SectionInterests:
		return c.Interests
	case SectionLanguages:
		return c.Languages
	case SectionCoursework:
		return c.Coursework
	case SectionCertifications:
		return c.Certifications
	}
	return nil
}

// SetListFor replaces the simple list section stored under key.
// It reports false for keys that are not simple lists.
func (c *Candidate) SetListFor(key string, items []Item) bool {
	switch key {
	case SectionSkills:
		c.Skills = items
	case SectionTechnologies:
		c.Technologies = items
	case SectionEducation:
		c.Education = items
	case SectionTeaching:
		c.Teaching = items
	case SectionPresentations:
		c.Presentations = items
	case SectionInterests:
		c.Interests = items
	case SectionLanguages:
		c.Languages = items
	case SectionCoursework:
		c.Coursework = items
	case SectionCertifications:
		c.Certifications = items
	default:
		return false
	}
	return true
}
