package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestItem_UnmarshalScalarAndMapping(t *testing.T) {
	var items []Item
	err := yaml.Unmarshal([]byte(`
- Go
- {name: SQL, level: expert}
- {name: Tools, tags: [make, bazel]}
`), &items)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.False(t, items[0].IsMap())
	assert.Equal(t, "Go", items[0].TextOr("name"))
	assert.True(t, items[1].IsMap())
	assert.Equal(t, "expert", items[1].Get("level"))
	assert.Equal(t, "SQL", items[1].TextOr("title", "name"))
	assert.Equal(t, "make, bazel", items[2].Get("tags"))
}

func TestItem_RejectsSequence(t *testing.T) {
	var it Item
	err := yaml.Unmarshal([]byte(`[a, b]`), &it)
	require.Error(t, err)
}

func TestItem_MarshalRoundTrip(t *testing.T) {
	in := []Item{TextItem("Go"), FieldItem("name", "SQL", "level", "expert")}
	out, err := yaml.Marshal(in)
	require.NoError(t, err)

	var back []Item
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, in, back)
}

func TestCandidate_MalformedFieldIsSkipped(t *testing.T) {
	var c Candidate
	err := yaml.Unmarshal([]byte(`
name: Jane Doe
experience: "oops"
skills: [Go, {name: SQL}]
summary: Builds reliable systems.
contact:
  email: jane@example.com
  links: [https://jane.dev]
`), &c)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", c.Name)
	assert.Nil(t, c.Experience)
	require.Len(t, c.Skills, 2)
	assert.Equal(t, "Builds reliable systems.", c.Summary.Text)
	assert.False(t, c.Summary.IsList())

	skips := c.DecodeSkips()
	require.Len(t, skips, 1)
	assert.Equal(t, "experience", skips[0].Field)
	assert.Equal(t, 3, skips[0].Line)
}

func TestCandidate_RejectsNonMapping(t *testing.T) {
	var c Candidate
	err := yaml.Unmarshal([]byte(`- a`), &c)
	require.Error(t, err)
}

func TestCandidate_ContactFieldPrecedence(t *testing.T) {
	c := Candidate{
		Email:   "flat@example.com",
		Contact: &Contact{Email: "nested@example.com", Phone: "555-0100", Links: []string{"a.dev"}},
	}
	assert.Equal(t, "flat@example.com", c.ContactField("email"))
	assert.Equal(t, "555-0100", c.ContactField("phone"))
	assert.Equal(t, "", c.ContactField("location"))
	assert.Equal(t, []string{"a.dev"}, c.ContactLinks())

	c.Links = []string{"b.dev"}
	assert.Equal(t, []string{"b.dev"}, c.ContactLinks())
}

func TestCandidate_ListAccessors(t *testing.T) {
	var c Candidate
	assert.True(t, c.SetListFor(SectionLanguages, TextItems("English")))
	assert.Equal(t, TextItems("English"), c.ListFor(SectionLanguages))
	assert.False(t, c.SetListFor(SectionExperience, nil))
	assert.Nil(t, c.ListFor(SectionSummary))
}

func TestSummary_ListForm(t *testing.T) {
	var c Candidate
	require.NoError(t, yaml.Unmarshal([]byte(`
summary:
  - Ships fast
  - {text: Mentors engineers}
`), &c))
	assert.True(t, c.Summary.IsList())
	require.Len(t, c.Summary.Items, 2)
	assert.Equal(t, "Mentors engineers", c.Summary.Items[1].TextOr("text"))
	assert.False(t, c.Summary.IsEmpty())
}

func TestTemplate_LenientDecode(t *testing.T) {
	var tpl Template
	err := yaml.Unmarshal([]byte(`
sections:
  - key: summary
    bullets: {glyph: "-"}
  - junk
  - key: experience
    max_bullets: three
    recent_max_bullets: 2
page:
  compact: true
  body_pt: big
  h1_bg: "#1F3864"
layout:
  type: sidebar
  sidebar_width: 2.5
`), &tpl)
	require.NoError(t, err)

	require.Len(t, tpl.Sections, 2)
	assert.Equal(t, "summary", tpl.Sections[0].Key)
	assert.True(t, tpl.Sections[0].Bullets.EnabledOr(false))
	assert.Equal(t, "-", tpl.Sections[0].Bullets.Glyph)
	assert.Nil(t, tpl.Sections[1].MaxBullets)
	assert.Equal(t, 2, Deref(tpl.Sections[1].RecentMaxBullets, 0))

	assert.True(t, tpl.Page.Compact)
	assert.Equal(t, 10.5, tpl.Page.BodyPt)
	assert.Equal(t, 0.5, tpl.Page.MarginsIn)
	assert.Equal(t, "#1F3864", tpl.Page.HeadingBackground())

	require.Equal(t, LayoutSidebar, tpl.Layout.Kind())
	sb, ok := tpl.Layout.Variant().(Sidebar)
	require.True(t, ok)
	assert.Equal(t, 2.5, sb.SidebarWidthIn)
	assert.Equal(t, 5.2, sb.MainWidthIn)

	fields := make([]string, 0)
	for _, s := range tpl.DecodeSkips() {
		fields = append(fields, s.Field)
	}
	assert.ElementsMatch(t, []string{"sections[1]", "sections[2].max_bullets", "page.body_pt"}, fields)
}

func TestLayoutConfig_UnknownTypeIsSingleColumn(t *testing.T) {
	for _, in := range []string{`type: standard`, `{}`, `type: single-column`} {
		var l LayoutConfig
		require.NoError(t, yaml.Unmarshal([]byte(in), &l))
		assert.Equal(t, LayoutSingleColumn, l.Kind(), in)
		assert.IsType(t, SingleColumn{}, l.Variant())
	}
	assert.Equal(t, LayoutSingleColumn, LayoutConfig{}.Kind())
}

func TestLayoutConfig_MarshalSidebar(t *testing.T) {
	out, err := yaml.Marshal(LayoutConfig{Layout: DefaultSidebar()})
	require.NoError(t, err)
	assert.Contains(t, string(out), "type: sidebar")
	assert.Contains(t, string(out), "sidebar_width: 2.3")
}

func TestBulletsOption(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		style   string
	}{
		{`false`, false, ""},
		{`true`, true, ""},
		{`{style: plain}`, true, "plain"},
		{`{}`, false, ""},
	}
	for _, tt := range tests {
		var b BulletsOption
		require.NoError(t, yaml.Unmarshal([]byte(tt.in), &b), tt.in)
		assert.True(t, b.Set, tt.in)
		assert.Equal(t, tt.enabled, b.EnabledOr(!tt.enabled), tt.in)
		assert.Equal(t, tt.style, b.Style, tt.in)
	}

	var unset BulletsOption
	assert.True(t, unset.EnabledOr(true))
}

func TestStyleConfig_Accessors(t *testing.T) {
	c := DefaultStyleConfig()
	assert.True(t, c.IncludeLocations())
	c.MetadataIncludeLocations = Ptr(false)
	assert.False(t, c.IncludeLocations())

	c.HeadingColor = "#112233"
	assert.Equal(t, "#112233", c.HeadingFg())
	c.H1Color = "#445566"
	assert.Equal(t, "#445566", c.HeadingFg())
}

func TestStructure_Decode(t *testing.T) {
	var s Structure
	require.NoError(t, yaml.Unmarshal([]byte(`
order: [summary, " skills ", ""]
titles: {summary: Profile}
`), &s))
	assert.True(t, s.HasOrder())
	assert.Equal(t, []string{"summary", "skills"}, s.Order)
	assert.Equal(t, "Profile", s.Title("summary"))

	var bad Structure
	require.NoError(t, yaml.Unmarshal([]byte(`order: nope`), &bad))
	assert.False(t, bad.HasOrder())
	assert.Len(t, bad.DecodeSkips(), 1)

	var nilStructure *Structure
	assert.False(t, nilStructure.HasOrder())
	assert.Equal(t, "", nilStructure.Title("summary"))
}
