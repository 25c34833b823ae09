// Package sections holds one renderer per canonical resume section and the
// registry the layout engine dispatches through.
package sections

import (
	"sort"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/types"
)

// RenderContext is the per-section input of a renderer.
type RenderContext struct {
	Section types.SectionConfig
	Page    types.StyleConfig
	// Keywords are only delivered to renderers that emphasize them.
	Keywords []string
}

// Renderer lays out exactly one section's content. It never emits the
// section heading; the layout engine does that.
type Renderer interface {
	Key() string
	Render(dst docx.Container, c *types.Candidate, rc RenderContext)
}

// keywordRenderer marks renderers that emphasize keywords.
type keywordRenderer interface {
	acceptsKeywords()
}

var (
	_ PanelRenderer = SummaryRenderer{}
	_ PanelRenderer = SkillsRenderer{}
	_ MainRenderer  = EducationRenderer{}
	_ MainRenderer  = ExperienceRenderer{}
	_ MainRenderer  = TeachingRenderer{}
	_ MainRenderer  = PresentationsRenderer{}
)

// Registry maps canonical section keys to renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry returns a registry holding a renderer for every canonical key.
func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[string]Renderer)}
	for _, rend := range []Renderer{
		SummaryRenderer{},
		SkillsRenderer{},
		TechnologiesRenderer{},
		newListRenderer(types.SectionInterests, nil, ""),
		PresentationsRenderer{},
		newListRenderer(types.SectionLanguages, []string{"name", "language", "title"}, "level"),
		newListRenderer(types.SectionCoursework, []string{"name", "course", "title"}, "desc"),
		newListRenderer(types.SectionCertifications, []string{"name", "title", "cert"}, "year"),
		ExperienceRenderer{},
		EducationRenderer{},
		TeachingRenderer{ListRenderer: newListRenderer(types.SectionTeaching, nil, "")},
	} {
		r.renderers[rend.Key()] = rend
	}
	return r
}

// Lookup returns the renderer for key.
func (r *Registry) Lookup(key string) (Renderer, bool) {
	rend, ok := r.renderers[key]
	return rend, ok
}

// Has reports whether key has a renderer.
func (r *Registry) Has(key string) bool {
	_, ok := r.renderers[key]
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.renderers))
	for k := range r.renderers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AcceptsKeywords reports whether the renderer for key emphasizes keywords.
func (r *Registry) AcceptsKeywords(key string) bool {
	rend, ok := r.renderers[key]
	if !ok {
		return false
	}
	_, ok = rend.(keywordRenderer)
	return ok
}

// Render runs the renderer for key. Keywords are dropped for renderers that
// do not emphasize them. It reports false, without touching dst, when key
// has no renderer.
func (r *Registry) Render(key string, dst docx.Container, c *types.Candidate, rc RenderContext) bool {
	rend, ok := r.renderers[key]
	if !ok {
		return false
	}
	if _, ok := rend.(keywordRenderer); !ok {
		rc.Keywords = nil
	}
	rend.Render(dst, c, rc)
	return true
}

// Panel returns the sidebar panel renderer for key, if there is one.
func (r *Registry) Panel(key string) (PanelRenderer, bool) {
	p, ok := r.renderers[key].(PanelRenderer)
	return p, ok
}

// Main returns the sidebar main-column renderer for key, if there is one.
func (r *Registry) Main(key string) (MainRenderer, bool) {
	m, ok := r.renderers[key].(MainRenderer)
	return m, ok
}

// RenderMain runs the main-column renderer for key under the same keyword
// rule as Render. It reports false when key has no main-column renderer.
func (r *Registry) RenderMain(key string, dst docx.Container, c *types.Candidate, rc RenderContext) bool {
	m, ok := r.Main(key)
	if !ok {
		return false
	}
	if _, ok := m.(keywordRenderer); !ok {
		rc.Keywords = nil
	}
	m.RenderMain(dst, c, rc)
	return true
}
