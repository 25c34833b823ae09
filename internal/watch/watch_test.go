package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-docx/internal/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// runWatcher starts w and returns a stop function that waits for Run to return.
func runWatcher(t *testing.T, w *Watcher) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestNew_NothingToWatch(t *testing.T) {
	_, err := New(Inputs{Dirs: []string{filepath.Join(t.TempDir(), "missing")}}, nil)
	require.Error(t, err)
}

func TestNew_SkipsMissingTargets(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "candidate.yaml")
	writeFile(t, data, "name: Jane\n")
	core, logs := observer.New(zapcore.WarnLevel)

	w, err := New(Inputs{
		Files: []string{data},
		Dirs:  []string{filepath.Join(dir, "nope")},
	}, func(context.Context, []string) error { return nil }, WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer runWatcher(t, w)()

	assert.Equal(t, []string{absPath(dir)}, w.Roots())
	assert.Equal(t, 1, logs.FilterMessage("watch target skipped").Len())
}

func TestMatches(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "candidate.yaml")
	profileDir := filepath.Join(dir, "config", "profiles", "ml")
	writeFile(t, data, "name: Jane\n")
	writeFile(t, filepath.Join(profileDir, "profile.yaml"), "headline: x\n")

	w, err := New(Inputs{Files: []string{data}, Dirs: []string{profileDir}},
		func(context.Context, []string) error { return nil })
	require.NoError(t, err)
	defer runWatcher(t, w)()

	assert.True(t, w.Matches(data))
	assert.False(t, w.Matches(filepath.Join(dir, "other.yaml")))
	assert.True(t, w.Matches(filepath.Join(profileDir, "skills_groups.yaml")))
	assert.True(t, w.Matches(filepath.Join(profileDir, "structure.JSON")))
	assert.False(t, w.Matches(filepath.Join(profileDir, "resume.docx")))
	assert.False(t, w.Matches(filepath.Join(profileDir, ".profile.yaml.swp")))
}

func TestRun_ReRendersOnChange(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "candidate.yaml")
	writeFile(t, data, "name: Jane\n")

	var mu sync.Mutex
	var batches [][]string
	called := make(chan struct{}, 10)
	w, err := New(Inputs{Files: []string{data}}, func(_ context.Context, changed []string) error {
		mu.Lock()
		batches = append(batches, changed)
		mu.Unlock()
		called <- struct{}{}
		return nil
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	stop := runWatcher(t, w)

	// Unrelated files in the same directory do not trigger a run.
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, data, "name: Jane Doe\n")

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}
	stop()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, batches)
	assert.Equal(t, []string{absPath(data)}, batches[0])
	assert.GreaterOrEqual(t, w.Stats().Runs, 1)
	assert.GreaterOrEqual(t, w.Stats().Events, 1)
}

func TestRun_FailureIsLoggedAndCounted(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "candidate.yaml")
	writeFile(t, data, "name: Jane\n")
	core, logs := observer.New(zapcore.WarnLevel)

	called := make(chan struct{}, 10)
	w, err := New(Inputs{Files: []string{data}}, func(context.Context, []string) error {
		called <- struct{}{}
		return errors.New("render failed")
	}, WithDebounce(10*time.Millisecond), WithLogger(zap.New(core)))
	require.NoError(t, err)
	stop := runWatcher(t, w)

	writeFile(t, data, "name: Changed\n")
	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}
	stop()

	assert.GreaterOrEqual(t, w.Stats().Failures, 1)
	assert.GreaterOrEqual(t, logs.FilterMessage("re-render failed").Len(), 1)
}

func TestInputsFor(t *testing.T) {
	in := InputsFor(pipeline.RunOptions{
		DataPath:     "data.yaml",
		TemplatePath: "tpl.yaml",
		Profiles:     []string{"ml", " "},
		ConfigDir:    "cfg",
	})
	assert.Equal(t, []string{"data.yaml", "tpl.yaml"}, in.Files)
	assert.Equal(t, []string{
		filepath.Join("cfg", "profiles", "ml"),
		filepath.Join("out", "ml"),
		"cfg",
		"out",
	}, in.Dirs)

	in = InputsFor(pipeline.RunOptions{
		DataPath:      "data.yaml",
		StructureFrom: "https://example.com/cv",
		LocationsPath: "locs.yaml",
	})
	assert.Equal(t, []string{"data.yaml", "locs.yaml"}, in.Files)
	assert.Empty(t, in.Dirs)

	in = InputsFor(pipeline.RunOptions{DataPath: "d.yaml", StructureFrom: "ref.docx", Profiles: []string{"ml"}})
	assert.Equal(t, []string{"d.yaml", "ref.docx"}, in.Files)
	assert.Equal(t, []string{filepath.Join("config", "profiles", "ml"), "config"}, in.Dirs)
}
