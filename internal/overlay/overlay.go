// Package overlay merges a named profile's override files onto a base
// candidate record.
//
// Each concern (profile fields, skills groups, experience, simple lists) is
// loaded from its own file and yields an Outcome. A missing, unreadable or
// malformed file only skips its own concern; Apply never fails.
package overlay

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-docx/internal/dataio"
	"github.com/jonathan/resume-docx/internal/types"
)

// DefaultConfigDir is the config directory used when none is given.
const DefaultConfigDir = "config"

// Concern names one overlay file.
type Concern string

// Overlay concerns, in the order they are applied.
const (
	ConcernProfile        Concern = "profile"
	ConcernSkillsGroups   Concern = "skills_groups"
	ConcernExperience     Concern = "experience"
	ConcernInterests      Concern = types.SectionInterests
	ConcernPresentations  Concern = types.SectionPresentations
	ConcernLanguages      Concern = types.SectionLanguages
	ConcernCoursework     Concern = types.SectionCoursework
	ConcernEducation      Concern = types.SectionEducation
	ConcernCertifications Concern = types.SectionCertifications
)

// Concerns returns every concern in application order.
func Concerns() []Concern {
	return []Concern{
		ConcernProfile, ConcernSkillsGroups, ConcernExperience,
		ConcernInterests, ConcernPresentations, ConcernLanguages,
		ConcernCoursework, ConcernEducation, ConcernCertifications,
	}
}

// Skip reasons.
const (
	ReasonNoFile     = "no overlay file"
	ReasonUnreadable = "no readable overlay file"
	ReasonMalformed  = "malformed overlay"
	ReasonEmpty      = "overlay has no usable content"
	ReasonBadProfile = "invalid profile name"
)

// Outcome is the result of one concern: applied from Path, or skipped with Reason.
type Outcome struct {
	Concern Concern
	Applied bool
	Path    string
	Reason  string
	Err     error
}

func (o Outcome) String() string {
	if o.Applied {
		return fmt.Sprintf("%s: applied from %s", o.Concern, o.Path)
	}
	if o.Err != nil {
		return fmt.Sprintf("%s: skipped (%s: %v)", o.Concern, o.Reason, o.Err)
	}
	return fmt.Sprintf("%s: skipped (%s)", o.Concern, o.Reason)
}

// Report collects the outcome of every concern for one profile.
type Report struct {
	Profile  string
	Outcomes []Outcome
}

// Applied lists the concerns that changed the record.
func (r Report) Applied() []Concern {
	var out []Concern
	for _, o := range r.Outcomes {
		if o.Applied {
			out = append(out, o.Concern)
		}
	}
	return out
}

// Skipped lists the outcomes of concerns that did not apply.
func (r Report) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Applied {
			out = append(out, o)
		}
	}
	return out
}

// Outcome returns the outcome recorded for c.
func (r Report) Outcome(c Concern) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Concern == c {
			return o, true
		}
	}
	return Outcome{}, false
}

// Resolver applies profile overlays found under a config directory.
type Resolver struct {
	configDir string
	logger    *zap.Logger
}

// NewResolver returns a Resolver rooted at configDir. An empty configDir
// means DefaultConfigDir and a nil logger discards output.
func NewResolver(configDir string, logger *zap.Logger) *Resolver {
	if configDir == "" {
		configDir = DefaultConfigDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{configDir: configDir, logger: logger}
}

// Paths returns the candidate files for a concern: the profile directory
// first, then the legacy single-file location.
func (r *Resolver) Paths(profile string, c Concern) []string {
	return []string{
		filepath.Join(r.configDir, "profiles", profile, string(c)+".yaml"),
		filepath.Join(r.configDir, fmt.Sprintf("%s.%s.yaml", c, profile)),
	}
}

// Apply merges the overlays of profile onto base. An empty profile returns
// base itself. base is never modified; list fields are replaced, not edited.
func (r *Resolver) Apply(base *types.Candidate, profile string) (*types.Candidate, Report) {
	profile = strings.TrimSpace(profile)
	rep := Report{Profile: profile}
	if profile == "" {
		return base, rep
	}

	if !validProfile(profile) {
		for _, c := range Concerns() {
			rep.Outcomes = append(rep.Outcomes, Outcome{Concern: c, Reason: ReasonBadProfile})
		}
		r.logger.Warn("overlay profile rejected", zap.String("profile", profile))
		return base, rep
	}

	out := &types.Candidate{}
	if base != nil {
		cp := *base
		out = &cp
	}

	for _, c := range Concerns() {
		o := r.applyConcern(out, profile, c)
		rep.Outcomes = append(rep.Outcomes, o)
		r.log(profile, o)
	}
	return out, rep
}

func (r *Resolver) log(profile string, o Outcome) {
	fields := []zap.Field{
		zap.String("profile", profile),
		zap.String("concern", string(o.Concern)),
	}
	switch {
	case o.Applied:
		r.logger.Debug("overlay applied", append(fields, zap.String("path", o.Path))...)
	case o.Err != nil:
		r.logger.Warn("overlay skipped", append(fields,
			zap.String("path", o.Path), zap.String("reason", o.Reason), zap.Error(o.Err))...)
	default:
		r.logger.Debug("overlay skipped", append(fields, zap.String("reason", o.Reason))...)
	}
}

func (r *Resolver) applyConcern(out *types.Candidate, profile string, c Concern) Outcome {
	o := Outcome{Concern: c}
	node, path, err := r.load(r.Paths(profile, c))
	o.Path = path
	switch {
	case err != nil:
		o.Reason, o.Err = ReasonUnreadable, err
		return o
	case node == nil:
		o.Reason = ReasonNoFile
		return o
	}

	var applied bool
	switch c {
	case ConcernProfile:
		applied, err = applyProfile(out, node)
	case ConcernSkillsGroups:
		applied, err = applySkillsGroups(out, node)
	case ConcernExperience:
		applied, err = applyExperience(out, node)
	default:
		applied, err = applyList(out, string(c), node)
	}
	switch {
	case err != nil:
		o.Reason, o.Err = ReasonMalformed, err
	case !applied:
		o.Reason = ReasonEmpty
	default:
		o.Applied = true
	}
	return o
}

// load returns the root node of the first existing path that parses. It
// returns a nil node when no path exists, and the last parse error when
// every existing path failed to parse.
func (r *Resolver) load(paths []string) (*yaml.Node, string, error) {
	var lastErr error
	var lastPath string
	for _, p := range paths {
		if !dataio.Exists(p) {
			continue
		}
		data, err := dataio.ReadFile(p)
		if err == nil {
			var doc yaml.Node
			if err = dataio.Unmarshal(data, dataio.FormatFor(p), &doc); err == nil {
				return root(&doc), p, nil
			}
		}
		lastErr, lastPath = err, p
	}
	return nil, lastPath, lastErr
}

func root(doc *yaml.Node) *yaml.Node {
	n := doc
	for n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
		}
		n = n.Content[0]
	}
	if n.Kind == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	}
	return n
}

func validProfile(p string) bool {
	return p != "." && p != ".." && !strings.ContainsAny(p, `/\`)
}
