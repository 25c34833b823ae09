package structure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/types"
)

func keys(secs []types.SectionConfig) []string {
	out := make([]string, 0, len(secs))
	for _, s := range secs {
		out = append(out, s.Key)
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMatchSectionKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Profile", types.SectionSummary, true},
		{"  WORK HISTORY ", types.SectionExperience, true},
		{"Technical Skills", types.SectionSkills, true},
		{"tools", types.SectionTechnologies, true},
		{"Academics", types.SectionEducation, true},
		{"Work Experience", types.SectionExperience, true},
		{"Professional Summary", types.SectionSummary, true},
		{"Work Histories", "", false},
		{"Skills & Tools", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchSectionKey(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestResolve_NoStructureIsVerbatim(t *testing.T) {
	tpl := types.Template{Sections: []types.SectionConfig{
		{Key: "skills", Title: "Skills"},
		{Key: "summary", Title: "Summary"},
	}}
	assert.Equal(t, tpl.Sections, Resolve(tpl, nil))
	assert.Equal(t, tpl.Sections, Resolve(tpl, &types.Structure{Titles: map[string]string{"x": "X"}}))
}

func TestResolve_OrderOverridesTemplate(t *testing.T) {
	maxBullets := 4
	tpl := types.Template{Sections: []types.SectionConfig{
		{Key: "skills", Title: "Skills"},
		{Key: "summary", Title: "Summary"},
		{Key: "experience", Title: "Experience", MaxBullets: &maxBullets},
	}}
	st := &types.Structure{
		Order:  []string{"experience", "summary", "teaching", "languages", "summary"},
		Titles: map[string]string{"teaching": "Teaching", "summary": "About"},
	}

	got := Resolve(tpl, st)
	want := []types.SectionConfig{
		{Key: "experience", Title: "Experience", MaxBullets: &maxBullets},
		{Key: "summary", Title: "Summary"},
		{Key: "teaching", Title: "Teaching"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(types.SectionConfig{}, types.BulletsOption{})); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_EmptyOrderRendersNothing(t *testing.T) {
	tpl := types.Template{Sections: []types.SectionConfig{{Key: "skills", Title: "Skills"}}}
	assert.Empty(t, Resolve(tpl, &types.Structure{Order: []string{}}))
}

func TestResolve_ReversesTemplateOrder(t *testing.T) {
	tpl := types.Template{Sections: []types.SectionConfig{
		{Key: "skills", Title: "Skills"},
		{Key: "summary", Title: "Summary"},
	}}
	assert.Equal(t, []string{"skills", "summary"}, keys(Resolve(tpl, nil)))
	assert.Equal(t, []string{"summary", "skills"},
		keys(Resolve(tpl, &types.Structure{Order: []string{"summary", "skills"}})))
}

func TestFromHeadings(t *testing.T) {
	st := FromHeadings([]string{"Jane Doe", "Profile", "Work  History", "Experience", "Hobbies", "Education"})
	assert.Equal(t, []string{"summary", "experience", "education"}, st.Order)
	assert.Equal(t, "Work History", st.Title("experience"))
	assert.Equal(t, "Profile", st.Title("summary"))

	empty := FromHeadings(nil)
	assert.True(t, empty.HasOrder())
	assert.Empty(t, empty.Order)
}

func TestFromDocx(t *testing.T) {
	doc := docx.New()
	doc.AddHeading("Jane Doe", 0)
	doc.AddHeading("About", 1)
	doc.AddText("Builds things.", "")
	doc.AddHeading("Technical Skills", 1)
	doc.AddHeading("Employment", 2)
	path := filepath.Join(t.TempDir(), "ref.docx")
	require.NoError(t, doc.SaveFile(path))

	st, err := FromDocx(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"summary", "skills", "experience"}, st.Order)
	assert.Equal(t, "Technical Skills", st.Title("skills"))
}

func TestFromDocx_NotAPackage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.docx")
	writeFile(t, path, "plain text")

	_, err := FromDocx(path)
	require.Error(t, err)
	var inferErr *InferError
	assert.ErrorAs(t, err, &inferErr)
	assert.Contains(t, err.Error(), "failed to open document")
}

func TestFromHTML(t *testing.T) {
	st, err := FromHTML("ref.html", `<html><body>
		<h1>Jane Doe</h1>
		<h2>Summary</h2><p>text</p>
		<h3> Tools </h3>
		<h4>Education</h4>
		<h2>Education</h2>
	</body></html>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"summary", "technologies", "education"}, st.Order)
	assert.Equal(t, "Tools", st.Title("technologies"))
}

func TestFromMarkdown(t *testing.T) {
	st := FromMarkdown([]byte("# Jane Doe\n\n## Experience\n\n- built *things*\n\nSkills\n------\n\n#### Education\n\n### `Tools`\n"))
	assert.Equal(t, []string{"experience", "skills", "technologies"}, st.Order)
	assert.Equal(t, "Skills", st.Title("skills"))
}

type stubFetcher struct {
	html string
	err  error
	urls []string
}

func (s *stubFetcher) HTML(_ context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.html, s.err
}

func TestInfer_URLUsesFetcher(t *testing.T) {
	f := &stubFetcher{html: "<h2>Experience</h2><h2>Skills</h2>"}
	st, err := Infer(context.Background(), f, "https://jane.dev/cv")
	require.NoError(t, err)
	assert.Equal(t, []string{"experience", "skills"}, st.Order)
	assert.Equal(t, []string{"https://jane.dev/cv"}, f.urls)

	failing := &stubFetcher{err: errors.New("boom")}
	_, err = Infer(context.Background(), failing, "https://jane.dev/cv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = Infer(context.Background(), nil, "http://jane.dev")
	require.Error(t, err)
}

func TestInferFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	html := filepath.Join(dir, "ref.htm")
	writeFile(t, html, "<h1>Profile</h1>")
	md := filepath.Join(dir, "ref.md")
	writeFile(t, md, "# Academics\n")

	st, err := InferFile(html)
	require.NoError(t, err)
	assert.Equal(t, []string{"summary"}, st.Order)

	st, err = InferFile(md)
	require.NoError(t, err)
	assert.Equal(t, []string{"education"}, st.Order)

	_, err = InferFile(filepath.Join(dir, "missing.md"))
	require.Error(t, err)
}

func TestCandidates_SearchOrder(t *testing.T) {
	got := Candidates("eng", "out", "cfg")
	want := []string{
		filepath.Join("out", "eng", "structure.json"),
		filepath.Join("out", "eng", "structure.yaml"),
		filepath.Join("out", "eng", "structure.yml"),
		filepath.Join("_out", "eng", "structure.json"),
		filepath.Join("_out", "eng", "structure.yaml"),
		filepath.Join("_out", "eng", "structure.yml"),
		filepath.Join("out", "eng.structure.json"),
		filepath.Join("out", "eng.structure.yaml"),
		filepath.Join("out", "eng.structure.yml"),
		filepath.Join("_out", "eng.structure.json"),
		filepath.Join("_out", "eng.structure.yaml"),
		filepath.Join("_out", "eng.structure.yml"),
		filepath.Join("cfg", "profiles", "eng", "structure.json"),
		filepath.Join("cfg", "profiles", "eng", "structure.yaml"),
		filepath.Join("cfg", "profiles", "eng", "structure.yml"),
	}
	assert.Equal(t, want, got)
	assert.Nil(t, Candidates("", "out", "cfg"))
	assert.Len(t, Candidates("eng", "_out", "cfg"), 9)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfg := filepath.Join(dir, "config")

	st, path := Discover("eng", out, cfg, nil)
	assert.Nil(t, st)
	assert.Empty(t, path)

	writeFile(t, filepath.Join(cfg, "profiles", "eng", "structure.yaml"), "order: [education]\n")
	st, path = Discover("eng", out, cfg, nil)
	require.NotNil(t, st)
	assert.Equal(t, []string{"education"}, st.Order)
	assert.Equal(t, filepath.Join(cfg, "profiles", "eng", "structure.yaml"), path)

	writeFile(t, filepath.Join(out, "eng.structure.json"), `{"order": ["skills"], /* flat */ }`)
	st, _ = Discover("eng", out, cfg, nil)
	assert.Equal(t, []string{"skills"}, st.Order)

	writeFile(t, filepath.Join(out, "eng", "structure.yml"), "order: [summary]\n")
	st, _ = Discover("eng", out, cfg, nil)
	assert.Equal(t, []string{"summary"}, st.Order)
}

func TestDiscover_UnparseableFileFallsThrough(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(out, "eng", "structure.json"), "{broken")
	writeFile(t, filepath.Join(out, "eng", "structure.yaml"), "order: [skills]\n")

	core, logs := observer.New(zapcore.WarnLevel)
	st, path := Discover("eng", out, filepath.Join(dir, "config"), zap.New(core))
	require.NotNil(t, st)
	assert.Equal(t, []string{"skills"}, st.Order)
	assert.Equal(t, filepath.Join(out, "eng", "structure.yaml"), path)
	assert.Equal(t, 1, logs.FilterMessage("structure file skipped").Len())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyed := filepath.Join(dir, "s.yaml")
	writeFile(t, keyed, "order: [education, summary]\ntitles: {education: Studies}\n")

	st, err := Load(context.Background(), Source{From: keyed}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"education", "summary"}, st.Order)
	assert.Equal(t, "Studies", st.Title("education"))

	st, err = Load(context.Background(), Source{From: filepath.Join(dir, "missing.json")}, nil)
	require.NoError(t, err)
	assert.Nil(t, st)

	ref := filepath.Join(dir, "ref.md")
	writeFile(t, ref, "## Skills\n")
	st, err = Load(context.Background(), Source{From: ref}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"skills"}, st.Order)

	st, err = Load(context.Background(), Source{Profile: "nobody", OutDir: dir, ConfigDir: dir}, nil)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestLoad_ReferenceWithoutKnownHeadingsIsSkipped(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.md")
	writeFile(t, ref, "# Jane Doe\n\n## Random Stuff\n\ntext\n")
	core, logs := observer.New(zapcore.WarnLevel)

	st, err := Load(context.Background(), Source{From: ref}, zap.New(core))
	require.NoError(t, err)
	assert.Nil(t, st)
	assert.Equal(t, 1, logs.FilterMessage("structure skipped").Len())

	// A keyed descriptor with an empty order still means "render nothing".
	empty := filepath.Join(dir, "s.yaml")
	writeFile(t, empty, "order: []\n")
	st, err = Load(context.Background(), Source{From: empty}, zap.New(core))
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Empty(t, st.Order)
}
