package rendering

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/location"
	"github.com/jonathan/resume-docx/internal/types"
)

func jane() *types.Candidate {
	return &types.Candidate{
		Name:     "Jane Doe",
		Headline: "Site Reliability Engineer",
		Email:    "jane@example.com",
		Phone:    "555-010-0123",
		Location: "Berlin",
		GitHub:   "https://github.com/jane/",
		Links:    []string{"https://www.jane.dev"},
		Summary:  types.Summary{Text: "Builds reliable systems."},
		Skills:   types.TextItems("Go", "SQL"),
		Experience: []types.Role{
			{
				Title: "SRE", Company: "Acme", Location: "Berlin", Start: "2020", End: "2024",
				Bullets: types.TextItems("Built X", "Did Y", "Did Z", "Did W"),
			},
			{Title: "Dev", Company: "Initech", Location: "berlin", Start: "2018", End: "2020"},
			{Title: "Intern", Company: "Hooli", Location: "Austin", Start: "2017", End: "2017"},
		},
		Education: []types.Item{types.FieldItem("degree", "BSc CS", "institution", "MIT", "year", "2015")},
	}
}

func template(keys ...string) types.Template {
	tpl := types.NewTemplate()
	for _, k := range keys {
		tpl.Sections = append(tpl.Sections, types.SectionConfig{Key: k})
	}
	return tpl
}

func headings(doc *docx.Document, style string) []string {
	var out []string
	for _, p := range doc.Paragraphs() {
		if p.Style == style {
			out = append(out, p.Text())
		}
	}
	return out
}

func cellTexts(c *docx.Cell) []string {
	var out []string
	for _, p := range c.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

func TestRender_BackendUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		factory DocumentFactory
		want    string
	}{
		{"nil factory", nil, "no document factory"},
		{"factory error", func() (*docx.Document, error) { return nil, errors.New("boom") }, "boom"},
		{"nil document", func() (*docx.Document, error) { return nil, nil }, "returned no document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(WithDocumentFactory(tt.factory))
			res, err := e.Render(Request{Candidate: jane(), Template: template("summary")})
			require.Error(t, err)
			assert.Nil(t, res)
			var backendErr *BackendError
			require.ErrorAs(t, err, &backendErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRender_EmptyInputsProduceValidDocument(t *testing.T) {
	for _, layout := range []types.Layout{types.SingleColumn{}, types.DefaultSidebar()} {
		tpl := types.NewTemplate()
		tpl.Layout = types.LayoutConfig{Layout: layout}

		res, err := NewEngine().Render(Request{Template: tpl})
		require.NoError(t, err, layout.Kind())
		assert.Empty(t, res.Rendered)
		assert.Equal(t, "Resume", res.Document.Core.Title)

		data, err := res.Document.Bytes()
		require.NoError(t, err)
		_, err = docx.Open(data)
		require.NoError(t, err, layout.Kind())
	}
}

func TestSingleColumn_DocumentHeader(t *testing.T) {
	res, err := NewEngine().Render(Request{Candidate: jane(), Template: template()})
	require.NoError(t, err)

	paras := res.Document.Paragraphs()
	require.Len(t, paras, 3)
	assert.Equal(t, docx.StyleTitle, paras[0].Style)
	assert.Equal(t, "Jane Doe", paras[0].Text())
	assert.Equal(t, docx.AlignCenter, paras[0].Alignment)
	assert.Equal(t, "Site Reliability Engineer", paras[1].Text())
	assert.Equal(t, "jane@example.com | (555) 010-0123 | Berlin | github.com/jane | jane.dev", paras[2].Text())
	assert.Equal(t, docx.AlignCenter, paras[2].Alignment)
}

func TestContactLine_NestedContactFillsGaps(t *testing.T) {
	c := &types.Candidate{Email: "a@b.c", Contact: &types.Contact{Email: "x@y.z", Location: "Remote", Links: []string{"http://a.dev/"}}}
	assert.Equal(t, "a@b.c | Remote | a.dev", ContactLine(c))
	assert.Equal(t, "", ContactLine(&types.Candidate{}))
}

func TestSingleColumn_TemplateOrderAndStructureOverride(t *testing.T) {
	tpl := template("skills", "summary")
	e := NewEngine()

	res, err := e.Render(Request{Candidate: jane(), Template: tpl})
	require.NoError(t, err)
	assert.Equal(t, []string{"Skills", "Summary"}, headings(res.Document, docx.StyleHeading1))

	res, err = e.Render(Request{
		Candidate: jane(),
		Template:  tpl,
		Structure: &types.Structure{Order: []string{"summary", "skills"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Skills"}, headings(res.Document, docx.StyleHeading1))
	assert.Equal(t, []string{"summary", "skills"}, res.Rendered)
}

func TestSingleColumn_StructureTitlesAddSections(t *testing.T) {
	res, err := NewEngine().Render(Request{
		Candidate: jane(),
		Template:  template("skills"),
		Structure: &types.Structure{
			Order:  []string{"education", "skills", "languages"},
			Titles: map[string]string{"education": "Studies"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Studies", "Skills"}, headings(res.Document, docx.StyleHeading1))
}

func TestSingleColumn_UnknownKeyHasNoHeading(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	res, err := NewEngine(WithLogger(zap.New(core))).Render(Request{
		Candidate: jane(),
		Template:  template("summary", "hobbies", "skills"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Skills"}, headings(res.Document, docx.StyleHeading1))
	assert.Equal(t, []string{"hobbies"}, res.Omitted)
	assert.Equal(t, 1, logs.FilterMessage("section omitted").Len())
}

func TestSingleColumn_HeadingStyling(t *testing.T) {
	tpl := template()
	tpl.Sections = []types.SectionConfig{
		{Key: "summary", Title: "Profile"},
		{Key: "skills", HeaderLevel: types.Ptr(2)},
	}
	tpl.Page.H1Bg = "#1f3864"

	res, err := NewEngine().Render(Request{Candidate: jane(), Template: tpl})
	require.NoError(t, err)

	h1 := headings(res.Document, docx.StyleHeading1)
	assert.Equal(t, []string{"Profile"}, h1)
	assert.Equal(t, []string{"Skills"}, headings(res.Document, docx.StyleHeading2))
	for _, p := range res.Document.Paragraphs() {
		if p.Style == docx.StyleHeading1 || p.Style == docx.StyleHeading2 {
			assert.Equal(t, "1F3864", p.Shading)
			assert.Equal(t, docx.AlignLeft, p.Alignment)
		}
	}
}

func TestSingleColumn_ExperienceBulletCap(t *testing.T) {
	tpl := template()
	tpl.Sections = []types.SectionConfig{{Key: "experience", MaxBullets: types.Ptr(3), MaxItems: types.Ptr(1)}}

	res, err := NewEngine().Render(Request{Candidate: jane(), Template: tpl, Keywords: []string{"did"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Built X", "Did Y", "Did Z"}, headings(res.Document, docx.StyleListBullet))
}

func TestSingleColumn_CompactPageStyle(t *testing.T) {
	tpl := template("summary")
	tpl.Page.Compact = true
	tpl.Page.MarginsIn = 0.6
	tpl.Page.H1Bg = "#000000"

	res, err := NewEngine().Render(Request{Candidate: jane(), Template: tpl})
	require.NoError(t, err)
	assert.True(t, res.Style.Compact)
	assert.Equal(t, 0.6, res.Document.Section.LeftMarginIn)
	h1, err := res.Document.Styles.Get(docx.StyleHeading1)
	require.NoError(t, err)
	assert.Equal(t, "FFFFFF", h1.Font.Color)
}

func TestRender_Metadata(t *testing.T) {
	locs := location.New(map[string][]string{"Berlin, DE": {"berlin"}})
	res, err := NewEngine(WithLocations(locs)).Render(Request{Candidate: jane(), Template: template()})
	require.NoError(t, err)

	core := res.Document.Core
	assert.Equal(t, "Jane Doe - jane@example.com | 555-010-0123 | Berlin", core.Title)
	assert.Equal(t, "Jane Doe", core.Author)
	assert.Equal(t, "Resume", core.Subject)
	assert.Equal(t, "Berlin, DE; Austin", core.Category)
	assert.Equal(t, []string{"Berlin, DE", "Austin"}, res.Metadata.Locations)
}

func sidebarTemplate(keys ...string) types.Template {
	tpl := template(keys...)
	sb := types.DefaultSidebar()
	sb.SidebarBg = "#eeeeee"
	tpl.Layout = types.LayoutConfig{Layout: sb}
	return tpl
}

func TestSidebar_Regions(t *testing.T) {
	res, err := NewEngine().Render(Request{
		Candidate: jane(),
		Template:  sidebarTemplate("summary", "skills", "experience", "education", "languages"),
	})
	require.NoError(t, err)
	doc := res.Document

	header := doc.Header().Paragraphs()
	require.Len(t, header, 3)
	assert.Equal(t, "Jane Doe", header[0].Text())
	assert.True(t, header[0].Runs[0].Bold)
	assert.Equal(t, "1A365D", header[0].Runs[0].Color)
	assert.Equal(t, "(555) 010-0123 | jane@example.com | Berlin", header[2].Text())
	for _, p := range header {
		assert.Equal(t, "F7F9FC", p.Shading)
		assert.Equal(t, docx.AlignCenter, p.Alignment)
	}

	tables := doc.Tables()
	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, []float64{2.3, 5.2}, table.ColumnWidthsIn)
	assert.False(t, table.Autofit)
	side, main := table.Row(0).Cell(0), table.Row(0).Cell(1)
	assert.Equal(t, "EEEEEE", side.Shading)
	assert.True(t, side.NoBorders)
	assert.True(t, main.NoBorders)

	sideText := strings.Join(cellTexts(side), "\n")
	assert.Contains(t, sideText, "Summary")
	assert.Contains(t, sideText, "Builds reliable systems.")
	assert.Contains(t, sideText, "• Go")

	mainTexts := cellTexts(main)
	assert.Contains(t, mainTexts, "Experience")
	assert.Contains(t, mainTexts, "Education")
	assert.Contains(t, mainTexts, "Built X")
	assert.NotContains(t, mainTexts, "Did W")

	assert.Equal(t, []string{"summary", "skills", "experience", "education"}, res.Rendered)
	assert.Equal(t, []string{"languages"}, res.Omitted)
	assert.Empty(t, doc.Paragraphs())
}

func TestSidebar_SkillsNeverReachMainColumn(t *testing.T) {
	c := jane()
	c.Skills = types.TextItems("Kubernetes")

	res, err := NewEngine().Render(Request{Candidate: c, Template: sidebarTemplate("experience", "skills")})
	require.NoError(t, err)
	main := cellTexts(res.Document.Tables()[0].Row(0).Cell(1))
	for _, line := range main {
		assert.NotContains(t, line, "Kubernetes")
	}

	single, err := NewEngine().Render(Request{Candidate: c, Template: template("experience", "skills")})
	require.NoError(t, err)
	assert.Contains(t, single.Document.PlainText(), "Kubernetes")
}

func TestSidebar_StructureOrderApplies(t *testing.T) {
	res, err := NewEngine().Render(Request{
		Candidate: jane(),
		Template:  sidebarTemplate("experience", "education"),
		Structure: &types.Structure{Order: []string{"education", "experience"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"education", "experience"}, res.Rendered)
}

func TestSidebar_NoHeaderForAnonymousCandidate(t *testing.T) {
	res, err := NewEngine().Render(Request{Candidate: &types.Candidate{}, Template: sidebarTemplate("experience")})
	require.NoError(t, err)
	assert.True(t, res.Document.Header().Empty())
}

func TestRenderToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eng", "resume.docx")
	res, err := NewEngine().RenderToFile(Request{Candidate: jane(), Template: template("summary", "experience")}, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"summary", "experience"}, res.Rendered)

	pkg, err := docx.OpenFile(path)
	require.NoError(t, err)
	var titles []string
	for _, h := range pkg.Headings() {
		titles = append(titles, h.Text)
	}
	assert.Equal(t, []string{"Jane Doe", "Summary", "Experience"}, titles)
	assert.Equal(t, "Jane Doe", pkg.Core.Author)
}

func TestRenderToFile_RejectsPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.PDF")
	_, err := NewEngine().RenderToFile(Request{Candidate: jane(), Template: template()}, path)
	require.Error(t, err)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		out, outDir, profile string
		want                 string
		wantErr              bool
	}{
		{"x/cv.docx", "out", "eng", "x/cv.docx", false},
		{"", "build", "eng", filepath.Join("build", "eng", "resume.docx"), false},
		{"", "build", "", filepath.Join("build", "resume.docx"), false},
		{"", "", "", filepath.Join("out", "resume.docx"), false},
		{"cv.pdf", "", "", "", true},
	}
	for _, tt := range tests {
		got, err := OutputPath(tt.out, tt.outDir, tt.profile)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
