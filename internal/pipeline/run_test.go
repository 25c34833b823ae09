package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-docx/internal/db"
	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/ranking"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const candidateYAML = `
name: Jane Doe
email: jane@example.com
headline: Engineer
summary: Builds reliable systems.
skills: [Go, SQL]
experience:
  - title: SRE
    company: Acme
    location: Berlin
    start: "2020"
    bullets: [Kept things up]
education:
  - {degree: BSc, institution: TU Berlin, year: "2015"}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

type fixture struct {
	data      string
	configDir string
	outDir    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		data:      filepath.Join(dir, "candidate.yaml"),
		configDir: filepath.Join(dir, "config"),
		outDir:    filepath.Join(dir, "out"),
	}
	writeFile(t, f.data, candidateYAML)
	return f
}

func (f fixture) options() RunOptions {
	return RunOptions{
		DataPath:  f.data,
		ConfigDir: f.configDir,
		OutDir:    f.outDir,
		Stdout:    &bytes.Buffer{},
	}
}

func headings(t *testing.T, path string) []string {
	t.Helper()
	pkg, err := docx.OpenFile(path)
	require.NoError(t, err)
	var out []string
	for _, h := range pkg.Headings() {
		out = append(out, h.Text)
	}
	return out
}

func paragraphTexts(t *testing.T, path string) []string {
	t.Helper()
	pkg, err := docx.OpenFile(path)
	require.NoError(t, err)
	var out []string
	for _, p := range pkg.Paragraphs {
		out = append(out, p.Text)
	}
	return out
}

type recordingStore struct {
	mu      sync.Mutex
	renders []*db.Render
	err     error
}

func (s *recordingStore) SaveRender(_ context.Context, r *db.Render) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return uuid.Nil, s.err
	}
	s.renders = append(s.renders, r)
	return uuid.New(), nil
}

func TestRunPipeline_BaseRecord(t *testing.T) {
	f := newFixture(t)

	res, err := RunPipeline(context.Background(), f.options())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)
	assert.NotEqual(t, uuid.Nil, res.RunID)

	path := filepath.Join(f.outDir, "resume.docx")
	assert.Equal(t, path, res.Profiles[0].OutputPath)
	assert.Equal(t, map[string]string{"": path}, res.Paths())
	assert.Equal(t, []string{"Jane Doe", "Summary", "Skills", "Experience", "Education"}, headings(t, path))
}

func TestRunPipeline_ProfilesWithOverlays(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.configDir, "profiles", "ml", "profile.yaml"), "headline: ML Engineer\n")

	var mu sync.Mutex
	var events []ProgressEvent
	opts := f.options()
	opts.Profiles = []string{"ml", "backend", " ml "}
	opts.OnProgress = func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Profiles, 2)
	assert.Equal(t, "ml", res.Profiles[0].Profile)
	assert.Equal(t, "backend", res.Profiles[1].Profile)

	mlPath := filepath.Join(f.outDir, "ml", "resume.docx")
	assert.Contains(t, paragraphTexts(t, mlPath), "ML Engineer")
	assert.Contains(t, paragraphTexts(t, filepath.Join(f.outDir, "backend", "resume.docx")), "Engineer")

	applied := res.Profiles[0].Overlay.Applied()
	require.Len(t, applied, 1)

	steps := map[string]int{}
	for _, e := range events {
		steps[e.Step]++
		assert.Equal(t, res.RunID.String(), e.RunID)
	}
	assert.Equal(t, 1, steps[StepCandidate])
	assert.Equal(t, 2, steps[StepOverlay])
	assert.Equal(t, 2, steps[StepRender])
}

func TestRunPipeline_DiscoversProfileStructure(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.outDir, "ml", "structure.yaml"), "order: [experience, summary]\n")

	opts := f.options()
	opts.Profiles = []string{"ml", "backend"}
	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Profiles, 2)

	assert.Equal(t, []string{"Jane Doe", "Experience", "Summary"},
		headings(t, filepath.Join(f.outDir, "ml", "resume.docx")))
	assert.Equal(t, []string{"Jane Doe", "Summary", "Skills", "Experience", "Education"},
		headings(t, filepath.Join(f.outDir, "backend", "resume.docx")))
}

func TestRunPipeline_ExplicitStructureAndTemplate(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Dir(f.data)
	tplPath := filepath.Join(dir, "template.yaml")
	writeFile(t, tplPath, `
sections:
  - {key: skills, title: Toolbox}
  - {key: summary}
`)
	stPath := filepath.Join(dir, "order.json")
	writeFile(t, stPath, `{"order": ["summary", "skills"], "titles": {"summary": "Profile"}}`)

	opts := f.options()
	opts.TemplatePath = tplPath
	opts.StructureFrom = stPath
	opts.Out = filepath.Join(dir, "custom.docx")

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)
	assert.Equal(t, opts.Out, res.Profiles[0].OutputPath)
	assert.Equal(t, []string{"Jane Doe", "Summary", "Toolbox"}, headings(t, opts.Out))
}

func TestRunPipeline_ReferenceStructure(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Dir(f.data)
	ref := filepath.Join(dir, "reference.md")
	writeFile(t, ref, "# Jane Doe\n\n## Work Experience\n\nx\n\n## Professional Summary\n\ny\n")

	opts := f.options()
	opts.StructureFrom = ref
	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Experience", "Summary"}, headings(t, res.Profiles[0].OutputPath))
}

func TestRunPipeline_UnrecognisedReferenceKeepsTemplateOrder(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Dir(f.data)
	ref := filepath.Join(dir, "reference.md")
	writeFile(t, ref, "# Jane Doe\n\n## Random Stuff\n\ntext\n")
	core, logs := observer.New(zapcore.WarnLevel)

	opts := f.options()
	opts.StructureFrom = ref
	opts.Logger = zap.New(core)
	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)

	assert.Nil(t, res.Profiles[0].Structure)
	assert.Equal(t, []string{"Jane Doe", "Summary", "Skills", "Experience", "Education"},
		headings(t, res.Profiles[0].OutputPath))
	assert.Equal(t, 1, logs.FilterMessage("structure skipped").Len())
}

func TestRunPipeline_ProgressCallsAreSerialized(t *testing.T) {
	f := newFixture(t)

	var inFlight atomic.Int32
	var overlapped atomic.Bool
	var events []ProgressEvent // appended without a lock
	opts := f.options()
	opts.Profiles = []string{"a", "b", "c", "d"}
	opts.Concurrency = 4
	opts.OnProgress = func(e ProgressEvent) {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(time.Millisecond)
		events = append(events, e)
		inFlight.Add(-1)
	}

	_, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, overlapped.Load())

	renders := 0
	for _, e := range events {
		if e.Step == StepRender {
			renders++
		}
	}
	assert.Equal(t, 4, renders)
}

func TestRunPipeline_Errors(t *testing.T) {
	f := newFixture(t)

	t.Run("out with several profiles", func(t *testing.T) {
		opts := f.options()
		opts.Out = "x.docx"
		opts.Profiles = []string{"a", "b"}
		_, err := RunPipeline(context.Background(), opts)
		require.Error(t, err)
	})

	t.Run("missing candidate", func(t *testing.T) {
		opts := f.options()
		opts.DataPath = filepath.Join(t.TempDir(), "nope.yaml")
		_, err := RunPipeline(context.Background(), opts)
		require.Error(t, err)
	})

	t.Run("pdf output", func(t *testing.T) {
		opts := f.options()
		opts.Out = filepath.Join(t.TempDir(), "resume.pdf")
		res, err := RunPipeline(context.Background(), opts)
		require.Error(t, err)
		assert.Empty(t, res.Profiles)
	})
}

func TestRunPipeline_RecordsRenders(t *testing.T) {
	f := newFixture(t)
	store := &recordingStore{}

	opts := f.options()
	opts.Store = store
	opts.Profiles = []string{"ml"}
	opts.Seed = "keywords=go|sql"
	opts.Keywords = []string{"sql", "kubernetes"}

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql", "kubernetes"}, res.Keywords)
	require.Len(t, store.renders, 1)

	rec := store.renders[0]
	assert.Equal(t, "ml", rec.Profile)
	assert.Equal(t, "single-column", rec.Layout)
	assert.Equal(t, []string{"summary", "skills", "experience", "education"}, rec.Sections)
	assert.Equal(t, res.Keywords, rec.Keywords)
	require.NotNil(t, rec.Details)
	assert.Equal(t, "Jane Doe", rec.Details.Author)
	assert.Equal(t, "Berlin", rec.Details.Category)
	assert.NotEqual(t, uuid.Nil, res.Profiles[0].RenderID)
}

func TestRunPipeline_TailorsExperience(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.data, `
name: Jane Doe
experience:
  - title: Barista
    company: Cafe
    bullets: [Made coffee]
  - title: Backend Engineer
    company: Initech
    bullets: [Wrote Golang services, Fixed printers, Ran Go jobs]
`)
	store := &recordingStore{}

	var mu sync.Mutex
	var steps []string
	opts := f.options()
	opts.Keywords = []string{"go"}
	opts.Tailor = &ranking.Options{MinScore: 2}
	opts.Store = store
	opts.OnProgress = func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		steps = append(steps, e.Step)
	}

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)

	tr := res.Profiles[0].Tailoring
	require.NotNil(t, tr)
	assert.Equal(t, 1, tr.Kept())
	assert.Contains(t, steps, StepTailor)

	text := strings.Join(paragraphTexts(t, res.Profiles[0].OutputPath), "\n")
	assert.Contains(t, text, "Wrote Golang services")
	assert.Contains(t, text, "Ran Go jobs")
	assert.NotContains(t, text, "Fixed printers")
	assert.NotContains(t, text, "Made coffee")

	require.Len(t, store.renders, 1)
	assert.Equal(t, []string{"Barista Cafe"}, store.renders[0].Details.DroppedRoles)
}

func TestRunPipeline_TailorNeedsKeywords(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.Tailor = &ranking.Options{}

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	assert.Nil(t, res.Profiles[0].Tailoring)
	assert.Contains(t, strings.Join(paragraphTexts(t, res.Profiles[0].OutputPath), "\n"), "Kept things up")
}

func TestRunPipeline_StoreFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zapcore.WarnLevel)

	opts := f.options()
	opts.Store = &recordingStore{err: errors.New("db down")}
	opts.Logger = zap.New(core)

	res, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)
	assert.Equal(t, uuid.Nil, res.Profiles[0].RenderID)
	assert.Equal(t, 1, logs.FilterMessage("render not recorded").Len())
}

func TestRunPipeline_VerboseOutput(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.configDir, "profiles", "ml", "profile.yaml"), "headline: ML Engineer\n")

	var out bytes.Buffer
	opts := f.options()
	opts.Stdout = &out
	opts.Verbose = true
	opts.Profiles = []string{"ml"}

	_, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "TEMPLATE")
	assert.Contains(t, out.String(), "PROFILE OVERLAYS")
	assert.Contains(t, out.String(), "RENDERED DOCUMENT")
}

func TestRunPipeline_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunPipeline(ctx, f.options())
	require.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeProfiles(t *testing.T) {
	assert.Equal(t, []string{""}, normalizeProfiles(nil))
	assert.Equal(t, []string{"a", "b"}, normalizeProfiles([]string{" a", "b", "a "}))
}
