package rendering

import (
	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/location"
	"github.com/jonathan/resume-docx/internal/metadata"
	"github.com/jonathan/resume-docx/internal/sections"
	"github.com/jonathan/resume-docx/internal/structure"
	"github.com/jonathan/resume-docx/internal/style"
	"github.com/jonathan/resume-docx/internal/types"
)

// DocumentFactory creates the empty document a render writes into.
type DocumentFactory func() (*docx.Document, error)

// NewDocument is the default factory.
func NewDocument() (*docx.Document, error) {
	return docx.New(), nil
}

// Engine renders candidates into documents. It holds no per-render state and
// may be shared; each Render call builds and returns its own document.
type Engine struct {
	newDocument DocumentFactory
	registry    *sections.Registry
	locations   *location.Map
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDocumentFactory replaces the document factory. A nil factory makes
// every render fail with a BackendError.
func WithDocumentFactory(f DocumentFactory) Option {
	return func(e *Engine) { e.newDocument = f }
}

// WithLocations sets the alias map used to canonicalize metadata locations.
func WithLocations(m *location.Map) Option {
	return func(e *Engine) { e.locations = m }
}

// WithLogger sets the logger for degraded-path events.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine with the default factory and registry.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		newDocument: NewDocument,
		registry:    sections.NewRegistry(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request is the input of one render. The candidate must already carry any
// profile overlays.
type Request struct {
	Candidate *types.Candidate
	Template  types.Template
	// Structure, when it carries an order, replaces the template's section order.
	Structure *types.Structure
	Keywords  []string
}

// Result is a finished document and what went into it.
type Result struct {
	Document *docx.Document
	Layout   types.LayoutKind
	// Sections is the resolved section list.
	Sections []types.SectionConfig
	// Rendered lists the keys whose renderer ran, in document order.
	Rendered []string
	// Omitted lists keys left out: unknown keys, and keys the sidebar main
	// column does not carry.
	Omitted  []string
	Style    style.Report
	Metadata metadata.Report
}

func (r *Result) rendered(key string) { r.Rendered = append(r.Rendered, key) }
func (r *Result) omitted(key string)  { r.Omitted = append(r.Omitted, key) }

// Render builds the document. It fails only when the document factory is
// missing or fails; every other problem degrades the output and is logged.
func (e *Engine) Render(req Request) (*Result, error) {
	if e.newDocument == nil {
		return nil, &BackendError{Message: "no document factory configured"}
	}
	doc, err := e.newDocument()
	if err != nil {
		return nil, &BackendError{Message: "failed to create document", Cause: err}
	}
	if doc == nil {
		return nil, &BackendError{Message: "document factory returned no document"}
	}

	c := req.Candidate
	if c == nil {
		c = &types.Candidate{}
	}
	tpl := req.Template
	page := tpl.Page

	res := &Result{
		Document: doc,
		Layout:   tpl.Layout.Kind(),
		Sections: structure.Resolve(tpl, req.Structure),
	}

	res.Style = style.ApplyPageStyle(doc, page)
	for _, skip := range res.Style.Skipped {
		e.logger.Warn("page style field skipped", zap.String("field", skip.Field), zap.String("reason", skip.Reason))
	}
	res.Metadata = metadata.Compose(doc, c, page, e.locations)

	switch layout := tpl.Layout.Variant().(type) {
	case types.Sidebar:
		e.renderSidebar(doc, c, page, layout, req.Keywords, res)
	default:
		e.renderSingleColumn(doc, c, page, req.Keywords, res)
	}

	for _, key := range res.Omitted {
		e.logger.Debug("section omitted", zap.String("key", key), zap.String("layout", string(res.Layout)))
	}
	return res, nil
}

// RenderToFile renders and saves the document to path.
func (e *Engine) RenderToFile(req Request, path string) (*Result, error) {
	if err := CheckOutputPath(path); err != nil {
		return nil, err
	}
	res, err := e.Render(req)
	if err != nil {
		return nil, err
	}
	if err := res.Document.SaveFile(path); err != nil {
		return nil, &RenderError{Message: "failed to save " + path, Cause: err}
	}
	e.logger.Debug("document saved", zap.String("path", path), zap.Strings("sections", res.Rendered))
	return res, nil
}

func (e *Engine) context(sec types.SectionConfig, page types.StyleConfig, keywords []string) sections.RenderContext {
	return sections.RenderContext{Section: sec, Page: page, Keywords: keywords}
}
