// Package pipeline provides the high-level orchestration for rendering one or
// more profile variants of a resume.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-docx/internal/candidate"
	"github.com/jonathan/resume-docx/internal/db"
	"github.com/jonathan/resume-docx/internal/location"
	"github.com/jonathan/resume-docx/internal/observability"
	"github.com/jonathan/resume-docx/internal/overlay"
	"github.com/jonathan/resume-docx/internal/ranking"
	"github.com/jonathan/resume-docx/internal/rendering"
	"github.com/jonathan/resume-docx/internal/structure"
	"github.com/jonathan/resume-docx/internal/templating"
	"github.com/jonathan/resume-docx/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepCandidate = "candidate"
	StepTemplate  = "template"
	StepLocations = "locations"
	StepStructure = "structure"
	StepOverlay   = "overlay"
	StepTailor    = "tailor"
	StepRender    = "render"
	StepStore     = "store"
)

// DefaultConcurrency bounds how many profiles render at once.
const DefaultConcurrency = 4

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Profile string `json:"profile,omitempty"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. Profiles render
// on several goroutines, but calls are serialized: the callback never runs
// concurrently with itself within one run.
type ProgressCallback func(event ProgressEvent)

// Store persists a record of each produced document.
type Store interface {
	SaveRender(ctx context.Context, r *db.Render) (uuid.UUID, error)
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	DataPath     string
	TemplatePath string
	// Profiles lists the overlay profiles to render. Empty renders the base
	// record once.
	Profiles      []string
	ConfigDir     string
	OutDir        string
	Out           string
	StructureFrom string
	Seed          string
	Keywords      []string
	LocationsPath string
	Strict        bool
	Verbose       bool
	Concurrency   int

	// Tailor, when set and keywords are present, trims the experience
	// section to the roles and bullets that mention a keyword.
	Tailor *ranking.Options

	// DatabaseURL opens a render store when Store is nil.
	DatabaseURL string
	Store       Store
	Fetcher     structure.Fetcher

	Logger     *zap.Logger
	Stdout     io.Writer
	OnProgress ProgressCallback
}

// ProfileResult is the outcome of one rendered profile.
type ProfileResult struct {
	Profile    string
	OutputPath string
	RenderID   uuid.UUID
	Overlay    overlay.Report
	Tailoring  *ranking.Report
	Structure  *types.Structure
	Result     *rendering.Result
}

// RunResult collects the results of a pipeline run in profile order.
type RunResult struct {
	RunID    uuid.UUID
	Keywords []string
	Profiles []ProfileResult
}

// Paths returns the output path of every rendered profile, keyed by profile.
func (r *RunResult) Paths() map[string]string {
	out := make(map[string]string, len(r.Profiles))
	for _, p := range r.Profiles {
		if p.OutputPath != "" {
			out[p.Profile] = p.OutputPath
		}
	}
	return out
}

type runner struct {
	opts     RunOptions
	runID    uuid.UUID
	logger   *zap.Logger
	printer  *observability.Printer
	printMu  sync.Mutex
	eventMu  sync.Mutex
	engine   *rendering.Engine
	overlays *overlay.Resolver
	store    Store

	base      *types.Candidate
	tpl       types.Template
	keywords  []string
	structure *types.Structure
}

// emitProgress calls the progress callback if configured
func (r *runner) emitProgress(step, profile, message string, content any) {
	if r.opts.OnProgress != nil {
		r.eventMu.Lock()
		defer r.eventMu.Unlock()
		r.opts.OnProgress(ProgressEvent{
			Step:    step,
			Profile: profile,
			Message: message,
			RunID:   r.runID.String(),
			Content: content,
		})
	}
}

// RunPipeline loads the shared inputs once and renders every requested
// profile concurrently. The first failing profile cancels the rest; the
// results of profiles that finished are still returned.
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {
	profiles := normalizeProfiles(opts.Profiles)
	if opts.Out != "" && len(profiles) > 1 {
		return nil, fmt.Errorf("an explicit output path needs a single profile, got %d", len(profiles))
	}

	r := &runner{opts: opts, runID: uuid.New(), logger: opts.Logger}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.logger = r.logger.With(zap.String("run_id", r.runID.String()))
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	r.printer = observability.NewPrinter(stdout)

	if err := r.loadInputs(ctx); err != nil {
		return nil, err
	}

	if opts.Store != nil {
		r.store = opts.Store
	} else if opts.DatabaseURL != "" {
		database, err := db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			r.logger.Warn("render history disabled", zap.Error(err))
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				r.logger.Warn("render history disabled", zap.Error(err))
			} else {
				r.store = database
			}
		}
	}

	results := make([]ProfileResult, len(profiles))
	done := make([]bool, len(profiles))
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, profile := range profiles {
		i, profile := i, profile
		g.Go(func() error {
			res, err := r.renderProfile(gCtx, profile)
			if err != nil {
				return fmt.Errorf("profile %q: %w", displayProfile(profile), err)
			}
			results[i] = *res
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	out := &RunResult{RunID: r.runID, Keywords: r.keywords}
	for i := range results {
		if done[i] {
			out.Profiles = append(out.Profiles, results[i])
		}
	}
	return out, err
}

func (r *runner) loadInputs(ctx context.Context) error {
	opts := r.opts

	base, err := candidate.Load(opts.DataPath, candidate.Options{Strict: opts.Strict, Logger: r.logger})
	if err != nil {
		return fmt.Errorf("loading candidate failed: %w", err)
	}
	r.base = base
	r.emitProgress(StepCandidate, "", fmt.Sprintf("Loaded candidate %s", displayName(base)), nil)

	if opts.TemplatePath != "" {
		tpl, err := templating.Load(opts.TemplatePath, r.logger)
		if err != nil {
			return fmt.Errorf("loading template failed: %w", err)
		}
		r.tpl = tpl
	} else {
		r.tpl = templating.Default()
	}
	r.emitProgress(StepTemplate, "", fmt.Sprintf("Template has %d sections (%s)", len(r.tpl.Sections), r.tpl.Layout.Kind()), nil)
	if opts.Verbose {
		r.print(func(p *observability.Printer) { p.PrintTemplate(opts.TemplatePath, r.tpl) })
	}

	var locs *location.Map
	if opts.LocationsPath != "" {
		m, err := location.Load(opts.LocationsPath)
		if err != nil {
			r.logger.Warn("location map skipped", zap.String("path", opts.LocationsPath), zap.Error(err))
		} else {
			locs = m
			r.emitProgress(StepLocations, "", fmt.Sprintf("Loaded %d location aliases", m.Len()), nil)
		}
	}

	r.keywords = templating.MergeKeywords(templating.ParseSeed(opts.Seed).Keywords, opts.Keywords)

	// An explicit structure source is the same for every profile.
	if opts.StructureFrom != "" {
		r.structure = r.loadStructure(ctx, "")
	}

	r.engine = rendering.NewEngine(rendering.WithLocations(locs), rendering.WithLogger(r.logger))
	r.overlays = overlay.NewResolver(opts.ConfigDir, r.logger)
	return nil
}

func (r *runner) loadStructure(ctx context.Context, profile string) *types.Structure {
	st, err := structure.Load(ctx, structure.Source{
		From:      r.opts.StructureFrom,
		Profile:   profile,
		OutDir:    r.opts.OutDir,
		ConfigDir: r.opts.ConfigDir,
		Fetcher:   r.opts.Fetcher,
	}, r.logger)
	if err != nil {
		r.logger.Warn("structure skipped", zap.String("source", r.opts.StructureFrom), zap.Error(err))
		return nil
	}
	if st != nil {
		r.emitProgress(StepStructure, profile, fmt.Sprintf("Section order: %s", strings.Join(st.Order, ", ")), st)
	}
	return st
}

func (r *runner) renderProfile(ctx context.Context, profile string) (*ProfileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := r.logger.With(zap.String("profile", profile))

	c, rep := r.overlays.Apply(r.base, profile)
	if profile != "" {
		r.emitProgress(StepOverlay, profile,
			fmt.Sprintf("Applied %d of %d overlays", len(rep.Applied()), len(rep.Outcomes)), rep)
	}

	var tailoring *ranking.Report
	if r.opts.Tailor != nil && len(r.keywords) > 0 {
		opts := *r.opts.Tailor
		opts.Logger = logger
		var tr ranking.Report
		c, tr = ranking.FilterExperience(c, r.keywords, opts)
		tailoring = &tr
		r.emitProgress(StepTailor, profile,
			fmt.Sprintf("Kept %d of %d roles", tr.Kept(), len(tr.Roles)), tr)
	}

	st := r.structure
	if r.opts.StructureFrom == "" {
		st = r.loadStructure(ctx, profile)
	}

	path, err := rendering.OutputPath(r.opts.Out, r.opts.OutDir, profile)
	if err != nil {
		return nil, err
	}
	res, err := r.engine.RenderToFile(rendering.Request{
		Candidate: c,
		Template:  r.tpl,
		Structure: st,
		Keywords:  r.keywords,
	}, path)
	if err != nil {
		return nil, err
	}
	logger.Info("document written", zap.String("path", path), zap.Strings("sections", res.Rendered))
	r.emitProgress(StepRender, profile, fmt.Sprintf("Wrote %s", path), res.Rendered)

	out := &ProfileResult{
		Profile:    profile,
		OutputPath: path,
		Overlay:    rep,
		Tailoring:  tailoring,
		Structure:  st,
		Result:     res,
	}

	if r.store != nil {
		id, err := r.store.SaveRender(ctx, r.record(out, c))
		if err != nil {
			logger.Warn("render not recorded", zap.Error(err))
		} else {
			out.RenderID = id
			r.emitProgress(StepStore, profile, fmt.Sprintf("Recorded render %s", id), nil)
		}
	}

	if r.opts.Verbose {
		r.print(func(p *observability.Printer) {
			if profile != "" {
				p.PrintOverlayReport(rep)
			}
			if tailoring != nil {
				p.PrintTailoring(*tailoring)
			}
			p.PrintRenderResult(profile, path, res)
		})
	}
	return out, nil
}

func (r *runner) record(pr *ProfileResult, c *types.Candidate) *db.Render {
	res := pr.Result
	details := &db.Details{
		Title:         res.Metadata.Title,
		Author:        res.Metadata.Author,
		Category:      strings.Join(res.Metadata.Locations, "; "),
		StructureFrom: r.opts.StructureFrom,
	}
	for _, s := range res.Style.Skipped {
		details.StyleSkips = append(details.StyleSkips, s.String())
	}
	for _, o := range pr.Overlay.Skipped() {
		if o.Err != nil {
			details.OverlaySkips = append(details.OverlaySkips, o.String())
		}
	}
	if pr.Tailoring != nil {
		for _, role := range pr.Tailoring.Dropped() {
			details.DroppedRoles = append(details.DroppedRoles, strings.TrimSpace(role.Title+" "+role.Company))
		}
	}
	for _, s := range c.DecodeSkips() {
		details.CandidateSkips = append(details.CandidateSkips, s.String())
	}
	return &db.Render{
		Profile:    pr.Profile,
		OutputPath: pr.OutputPath,
		Layout:     string(res.Layout),
		Sections:   res.Rendered,
		Omitted:    res.Omitted,
		Keywords:   r.keywords,
		Details:    details,
	}
}

func (r *runner) print(fn func(p *observability.Printer)) {
	r.printMu.Lock()
	defer r.printMu.Unlock()
	fn(r.printer)
}

// normalizeProfiles trims and de-duplicates profile names. An empty list
// stands for the base record alone.
func normalizeProfiles(profiles []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range profiles {
		p = strings.TrimSpace(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func displayProfile(profile string) string {
	if profile == "" {
		return "base"
	}
	return profile
}

func displayName(c *types.Candidate) string {
	if name := c.ContactField("name"); name != "" {
		return name
	}
	return "(unnamed)"
}
