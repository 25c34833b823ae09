package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultGlyph is the bullet glyph used when neither the section nor the page
// configures one.
const DefaultGlyph = "•"

// BulletsOption is the `bullets` tuning field. It is written either as a bool
// or as a mapping {style, glyph}; a non-empty mapping also enables bullets.
type BulletsOption struct {
	Set     bool
	Enabled bool
	Style   string
	Glyph   string
}

// UnmarshalYAML accepts a bool or a {style, glyph} mapping.
func (b *BulletsOption) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if isNull(value) {
			*b = BulletsOption{}
			return nil
		}
		var on bool
		if err := value.Decode(&on); err != nil {
			return err
		}
		*b = BulletsOption{Set: true, Enabled: on}
		return nil
	case yaml.MappingNode:
		var m struct {
			Style string `yaml:"style"`
			Glyph string `yaml:"glyph"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*b = BulletsOption{
			Set:     true,
			Enabled: len(value.Content) > 0,
			Style:   strings.TrimSpace(m.Style),
			Glyph:   strings.TrimSpace(m.Glyph),
		}
		return nil
	default:
		return fmt.Errorf("line %d: bullets must be a bool or a mapping", value.Line)
	}
}

// MarshalYAML writes the option back as a bool or a mapping.
func (b BulletsOption) MarshalYAML() (interface{}, error) {
	if b.Style == "" && b.Glyph == "" {
		return b.Enabled, nil
	}
	out := map[string]string{}
	if b.Style != "" {
		out["style"] = b.Style
	}
	if b.Glyph != "" {
		out["glyph"] = b.Glyph
	}
	return out, nil
}

// EnabledOr returns whether bullets are on, or def when the field was not written.
func (b BulletsOption) EnabledOr(def bool) bool {
	if !b.Set {
		return def
	}
	return b.Enabled
}

// SectionConfig is one entry of a template's `sections` list.
type SectionConfig struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title,omitempty"`

	HeaderLevel *int `yaml:"header_level,omitempty" validate:"omitempty,gte=1,lte=3"`

	MaxItems         *int `yaml:"max_items,omitempty" validate:"omitempty,gte=0"`
	MaxBullets       *int `yaml:"max_bullets,omitempty" validate:"omitempty,gte=0"`
	RecentRolesCount *int `yaml:"recent_roles_count,omitempty" validate:"omitempty,gte=0"`
	RecentMaxBullets *int `yaml:"recent_max_bullets,omitempty" validate:"omitempty,gte=0"`
	PriorMaxBullets  *int `yaml:"prior_max_bullets,omitempty" validate:"omitempty,gte=0"`
	MaxGroups        *int `yaml:"max_groups,omitempty" validate:"omitempty,gte=0"`
	MaxItemsPerGroup *int `yaml:"max_items_per_group,omitempty" validate:"omitempty,gte=0"`
	MaxSentences     *int `yaml:"max_sentences,omitempty" validate:"omitempty,gte=0"`

	Bullets       BulletsOption `yaml:"bullets,omitempty"`
	PlainBullets  bool          `yaml:"plain_bullets,omitempty"`
	Bulleted      bool          `yaml:"bulleted,omitempty"`
	Compact       *bool         `yaml:"compact,omitempty"`
	ShowDesc      *bool         `yaml:"show_desc,omitempty"`
	Separator     string        `yaml:"separator,omitempty"`
	DescSeparator string        `yaml:"desc_separator,omitempty"`
	RoleStyle     string        `yaml:"role_style,omitempty"`
	BulletStyle   string        `yaml:"bullet_style,omitempty"`

	MetaPt           *float64 `yaml:"meta_pt,omitempty" validate:"omitempty,gt=0,lte=72"`
	ItemColor        string   `yaml:"item_color,omitempty" validate:"omitempty,rgbhex"`
	HeaderColor      string   `yaml:"header_color,omitempty" validate:"omitempty,rgbhex"`
	LocationColor    string   `yaml:"location_color,omitempty" validate:"omitempty,rgbhex"`
	DurationColor    string   `yaml:"duration_color,omitempty" validate:"omitempty,rgbhex"`
	NameColor        string   `yaml:"name_color,omitempty" validate:"omitempty,rgbhex"`
	TitleColor       string   `yaml:"title_color,omitempty" validate:"omitempty,rgbhex"`
	GroupTitleColor  string   `yaml:"group_title_color,omitempty" validate:"omitempty,rgbhex"`
	GroupTitleBg     string   `yaml:"group_title_bg,omitempty" validate:"omitempty,rgbhex"`
	TitleBg          string   `yaml:"title_bg,omitempty" validate:"omitempty,rgbhex"`
	LocationBrackets *bool    `yaml:"location_brackets,omitempty"`
	DurationBrackets *bool    `yaml:"duration_brackets,omitempty"`

	skips []FieldSkip
}

// UnmarshalYAML decodes each tuning field independently.
func (s *SectionConfig) UnmarshalYAML(value *yaml.Node) error {
	var out SectionConfig
	skips, err := decodeMapping(value, "", out.fieldTargets())
	if err != nil {
		return err
	}
	out.Key = strings.TrimSpace(out.Key)
	out.skips = skips
	*s = out
	return nil
}

// DecodeSkips returns the tuning fields dropped while decoding.
func (s *SectionConfig) DecodeSkips() []FieldSkip {
	return s.skips
}

func (s *SectionConfig) fieldTargets() map[string]interface{} {
	return map[string]interface{}{
		"key":                 &s.Key,
		"title":               &s.Title,
		"header_level":        &s.HeaderLevel,
		"max_items":           &s.MaxItems,
		"max_bullets":         &s.MaxBullets,
		"recent_roles_count":  &s.RecentRolesCount,
		"recent_max_bullets":  &s.RecentMaxBullets,
		"prior_max_bullets":   &s.PriorMaxBullets,
		"max_groups":          &s.MaxGroups,
		"max_items_per_group": &s.MaxItemsPerGroup,
		"max_sentences":       &s.MaxSentences,
		"bullets":             &s.Bullets,
		"plain_bullets":       &s.PlainBullets,
		"bulleted":            &s.Bulleted,
		"compact":             &s.Compact,
		"show_desc":           &s.ShowDesc,
		"separator":           &s.Separator,
		"desc_separator":      &s.DescSeparator,
		"role_style":          &s.RoleStyle,
		"bullet_style":        &s.BulletStyle,
		"meta_pt":             &s.MetaPt,
		"item_color":          &s.ItemColor,
		"header_color":        &s.HeaderColor,
		"location_color":      &s.LocationColor,
		"duration_color":      &s.DurationColor,
		"name_color":          &s.NameColor,
		"title_color":         &s.TitleColor,
		"group_title_color":   &s.GroupTitleColor,
		"group_title_bg":      &s.GroupTitleBg,
		"title_bg":            &s.TitleBg,
		"location_brackets":   &s.LocationBrackets,
		"duration_brackets":   &s.DurationBrackets,
	}
}

// StyleConfig is the template's `page` block.
type StyleConfig struct {
	Compact   bool    `yaml:"compact"`
	MarginsIn float64 `yaml:"margins_in" validate:"gte=0,lte=3"`
	BodyPt    float64 `yaml:"body_pt" validate:"gt=0,lte=72"`
	H1Pt      float64 `yaml:"h1_pt" validate:"gt=0,lte=72"`
	TitlePt   float64 `yaml:"title_pt" validate:"gt=0,lte=96"`
	MetaPt    float64 `yaml:"meta_pt" validate:"gt=0,lte=72"`

	H1Color      string `yaml:"h1_color,omitempty" validate:"omitempty,rgbhex"`
	HeadingColor string `yaml:"heading_color,omitempty" validate:"omitempty,rgbhex"`
	H1Bg         string `yaml:"h1_bg,omitempty" validate:"omitempty,rgbhex"`
	HeadingBg    string `yaml:"heading_bg,omitempty" validate:"omitempty,rgbhex"`
	TitleColor   string `yaml:"title_color,omitempty" validate:"omitempty,rgbhex"`

	Bullets                  BulletsOption `yaml:"bullets,omitempty"`
	MetadataIncludeLocations *bool         `yaml:"metadata_include_locations,omitempty"`

	SidebarNamePt      float64 `yaml:"sidebar_name_pt" validate:"gt=0,lte=96"`
	SidebarHeadlinePt  float64 `yaml:"sidebar_headline_pt" validate:"gt=0,lte=72"`
	SidebarNameColor   string  `yaml:"sidebar_name_color,omitempty" validate:"omitempty,rgbhex"`
	SidebarTextColor   string  `yaml:"sidebar_text_color,omitempty" validate:"omitempty,rgbhex"`
	SidebarBulletColor string  `yaml:"sidebar_bullet_color,omitempty" validate:"omitempty,rgbhex"`
	MainBulletColor    string  `yaml:"main_bullet_color,omitempty" validate:"omitempty,rgbhex"`
	HeaderBg           string  `yaml:"header_bg,omitempty" validate:"omitempty,rgbhex"`

	skips []FieldSkip
}

// DefaultStyleConfig returns the page defaults applied before a template's
// `page` block is read.
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		MarginsIn:         0.5,
		BodyPt:            10.5,
		H1Pt:              12,
		TitlePt:           14,
		MetaPt:            9,
		SidebarNamePt:     20,
		SidebarHeadlinePt: 10,
	}
}

// UnmarshalYAML starts from DefaultStyleConfig and decodes each field independently.
func (c *StyleConfig) UnmarshalYAML(value *yaml.Node) error {
	out := DefaultStyleConfig()
	skips, err := decodeMapping(value, "", out.fieldTargets())
	if err != nil {
		return err
	}
	out.skips = skips
	*c = out
	return nil
}

// DecodeSkips returns the page fields dropped while decoding.
func (c *StyleConfig) DecodeSkips() []FieldSkip {
	return c.skips
}

func (c *StyleConfig) fieldTargets() map[string]interface{} {
	return map[string]interface{}{
		"compact":                    &c.Compact,
		"margins_in":                 &c.MarginsIn,
		"body_pt":                    &c.BodyPt,
		"h1_pt":                      &c.H1Pt,
		"title_pt":                   &c.TitlePt,
		"meta_pt":                    &c.MetaPt,
		"h1_color":                   &c.H1Color,
		"heading_color":              &c.HeadingColor,
		"h1_bg":                      &c.H1Bg,
		"heading_bg":                 &c.HeadingBg,
		"title_color":                &c.TitleColor,
		"bullets":                    &c.Bullets,
		"metadata_include_locations": &c.MetadataIncludeLocations,
		"sidebar_name_pt":            &c.SidebarNamePt,
		"sidebar_headline_pt":        &c.SidebarHeadlinePt,
		"sidebar_name_color":         &c.SidebarNameColor,
		"sidebar_text_color":         &c.SidebarTextColor,
		"sidebar_bullet_color":       &c.SidebarBulletColor,
		"main_bullet_color":          &c.MainBulletColor,
		"header_bg":                  &c.HeaderBg,
	}
}

// HeadingFg returns h1_color, falling back to heading_color.
func (c StyleConfig) HeadingFg() string {
	return firstNonEmpty(c.H1Color, c.HeadingColor)
}

// HeadingBackground returns h1_bg, falling back to heading_bg.
func (c StyleConfig) HeadingBackground() string {
	return firstNonEmpty(c.H1Bg, c.HeadingBg)
}

// IncludeLocations reports whether experience locations go into document metadata.
func (c StyleConfig) IncludeLocations() bool {
	return Deref(c.MetadataIncludeLocations, true)
}

// LayoutKind names one of the two document shapes.
type LayoutKind string

const (
	LayoutSingleColumn LayoutKind = "single-column"
	LayoutSidebar      LayoutKind = "sidebar"
)

// Layout is the closed set of layout variants. Each variant carries only the
// fields meaningful to it.
type Layout interface {
	Kind() LayoutKind
	isLayout()
}

// SingleColumn is the flowing top-to-bottom layout.
type SingleColumn struct{}

func (SingleColumn) Kind() LayoutKind { return LayoutSingleColumn }
func (SingleColumn) isLayout()        {}

// Sidebar is the two-region layout: a running page header plus a 1x2 table.
type Sidebar struct {
	SidebarWidthIn float64 `yaml:"sidebar_width" validate:"gt=0,lte=8"`
	MainWidthIn    float64 `yaml:"main_width" validate:"gt=0,lte=8"`
	SidebarBg      string  `yaml:"sidebar_bg,omitempty" validate:"omitempty,rgbhex"`
}

func (Sidebar) Kind() LayoutKind { return LayoutSidebar }
func (Sidebar) isLayout()        {}

// DefaultSidebar returns the sidebar column widths used when a template omits them.
func DefaultSidebar() Sidebar {
	return Sidebar{SidebarWidthIn: 2.3, MainWidthIn: 5.2}
}

// LayoutConfig is the template's `layout` block, decoded by its `type` field.
// A missing or unknown type selects SingleColumn.
type LayoutConfig struct {
	Layout Layout

	skips []FieldSkip
}

// Kind returns the selected layout kind.
func (l LayoutConfig) Kind() LayoutKind {
	if l.Layout == nil {
		return LayoutSingleColumn
	}
	return l.Layout.Kind()
}

// Variant returns the selected layout, never nil.
func (l LayoutConfig) Variant() Layout {
	if l.Layout == nil {
		return SingleColumn{}
	}
	return l.Layout
}

// UnmarshalYAML selects the variant from `type` and decodes only its fields.
func (l *LayoutConfig) UnmarshalYAML(value *yaml.Node) error {
	var kind string
	skips, err := decodeMapping(value, "", map[string]interface{}{"type": &kind})
	if err != nil {
		return err
	}

	switch LayoutKind(strings.ToLower(strings.TrimSpace(kind))) {
	case LayoutSidebar:
		sb := DefaultSidebar()
		more, err := decodeMapping(value, "", map[string]interface{}{
			"sidebar_width": &sb.SidebarWidthIn,
			"main_width":    &sb.MainWidthIn,
			"sidebar_bg":    &sb.SidebarBg,
		})
		if err != nil {
			return err
		}
		*l = LayoutConfig{Layout: sb, skips: append(skips, more...)}
	default:
		*l = LayoutConfig{Layout: SingleColumn{}, skips: skips}
	}
	return nil
}

// MarshalYAML writes the variant with its `type` tag.
func (l LayoutConfig) MarshalYAML() (interface{}, error) {
	switch v := l.Variant().(type) {
	case Sidebar:
		return struct {
			Type    string `yaml:"type"`
			Sidebar `yaml:",inline"`
		}{string(LayoutSidebar), v}, nil
	default:
		return map[string]string{"type": string(LayoutSingleColumn)}, nil
	}
}

// DecodeSkips returns the layout fields dropped while decoding.
func (l *LayoutConfig) DecodeSkips() []FieldSkip {
	return l.skips
}

// Template is the declarative descriptor naming the default sections and the
// visual configuration of a resume.
type Template struct {
	Sections []SectionConfig `yaml:"sections"`
	Page     StyleConfig     `yaml:"page"`
	Layout   LayoutConfig    `yaml:"layout"`

	skips []FieldSkip
}

// NewTemplate returns an empty template with default page settings.
func NewTemplate() Template {
	return Template{Page: DefaultStyleConfig(), Layout: LayoutConfig{Layout: SingleColumn{}}}
}

// UnmarshalYAML decodes sections one by one so a malformed entry only drops itself.
func (t *Template) UnmarshalYAML(value *yaml.Node) error {
	out := NewTemplate()
	var rawSections []yaml.Node
	skips, err := decodeMapping(value, "", map[string]interface{}{
		"sections": &rawSections,
		"page":     &out.Page,
		"layout":   &out.Layout,
	})
	if err != nil {
		return err
	}

	for i := range rawSections {
		prefix := fmt.Sprintf("sections[%d].", i)
		var sec SectionConfig
		if err := rawSections[i].Decode(&sec); err != nil {
			skips = append(skips, FieldSkip{Field: prefix[:len(prefix)-1], Line: rawSections[i].Line, Err: err})
			continue
		}
		skips = append(skips, prefixed(prefix, sec.DecodeSkips())...)
		out.Sections = append(out.Sections, sec)
	}
	skips = append(skips, prefixed("page.", out.Page.DecodeSkips())...)
	skips = append(skips, prefixed("layout.", out.Layout.DecodeSkips())...)

	out.skips = skips
	*t = out
	return nil
}

// DecodeSkips returns every field dropped while decoding the template.
func (t *Template) DecodeSkips() []FieldSkip {
	return t.skips
}

// AddSkips records fields dropped after decoding (e.g. by validation).
func (t *Template) AddSkips(skips ...FieldSkip) {
	t.skips = append(t.skips, skips...)
}

func prefixed(prefix string, skips []FieldSkip) []FieldSkip {
	out := make([]FieldSkip, 0, len(skips))
	for _, s := range skips {
		s.Field = prefix + s.Field
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
