// Package ranking tailors the experience section to a set of emphasis
// keywords: roles are scored by keyword evidence, weak roles are dropped and
// each kept role is trimmed to the bullets that mention a keyword.
package ranking

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/skills"
	"github.com/jonathan/resume-docx/internal/types"
)

// DefaultMinScore drops roles with no keyword evidence at all.
const DefaultMinScore = 1

// Options bounds the tailored experience section. Zero values mean no limit,
// except MinScore which falls back to DefaultMinScore.
type Options struct {
	MaxRoles          int
	MaxBulletsPerRole int
	MinScore          int
	Synonyms          map[string][]string
	Logger            *zap.Logger
}

// RankedRole is the score of one experience entry.
type RankedRole struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Score     int    `json:"score"`
	TitleHits int    `json:"title_hits"`
	Matched   int    `json:"matched_bullets"`
	Kept      bool   `json:"kept"`
	Notes     string `json:"notes"`
}

// Report describes what tailoring did. Roles are in descending score order.
type Report struct {
	Keywords []string     `json:"keywords"`
	Roles    []RankedRole `json:"roles"`
}

// Kept returns the number of roles that survived tailoring.
func (r Report) Kept() int {
	n := 0
	for _, role := range r.Roles {
		if role.Kept {
			n++
		}
	}
	return n
}

// Dropped returns the roles removed by the score threshold or role cap.
func (r Report) Dropped() []RankedRole {
	var out []RankedRole
	for _, role := range r.Roles {
		if !role.Kept {
			out = append(out, role)
		}
	}
	return out
}

// FilterExperience returns a copy of c whose experience holds only the roles
// that match keywords, best first. c is never modified. With no keywords or
// no experience, c itself is returned and the report is empty.
func FilterExperience(c *types.Candidate, keywords []string, opts Options) (*types.Candidate, Report) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	expanded := skills.NewMatcher(opts.Synonyms).Expand(keywords)
	rep := Report{Keywords: expanded}
	if c == nil || len(c.Experience) == 0 || len(expanded) == 0 {
		return c, rep
	}

	type scored struct {
		RankedRole
		role types.Role
	}
	all := make([]scored, 0, len(c.Experience))
	for i, role := range c.Experience {
		s := scoreRole(role, expanded)
		tailored := role
		tailored.Bullets = s.kept
		all = append(all, scored{
			RankedRole: RankedRole{
				Index:     i,
				Title:     role.Title,
				Company:   role.Company,
				Score:     s.total(),
				TitleHits: s.titleHits,
				Matched:   s.matched,
				Notes:     generateNotes(s, len(role.Bullets)),
			},
			role: tailored,
		})
	}

	// Stable so equal scores keep their original order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})

	var roles []types.Role
	for i := range all {
		r := &all[i]
		if r.Score < minScore || (opts.MaxRoles > 0 && len(roles) >= opts.MaxRoles) {
			logger.Debug("role dropped",
				zap.Int("index", r.Index),
				zap.String("title", r.Title),
				zap.Int("score", r.Score))
			rep.Roles = append(rep.Roles, r.RankedRole)
			continue
		}
		if opts.MaxBulletsPerRole > 0 && len(r.role.Bullets) > opts.MaxBulletsPerRole {
			r.role.Bullets = r.role.Bullets[:opts.MaxBulletsPerRole]
		}
		r.Kept = true
		roles = append(roles, r.role)
		rep.Roles = append(rep.Roles, r.RankedRole)
	}

	out := *c
	out.Experience = roles
	return &out, rep
}
