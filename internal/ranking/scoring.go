package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-docx/internal/skills"
	"github.com/jonathan/resume-docx/internal/types"
)

// roleScore is the keyword evidence found in one experience entry.
type roleScore struct {
	titleHits int
	kept      []types.Item
	matched   int // bullets that matched, before the first-bullet fallback
}

func (s roleScore) total() int {
	return s.titleHits + len(s.kept)
}

// scoreRole counts keyword hits in the role's title and company, one per
// expanded keyword, and keeps the bullets that mention any keyword. A role
// with no matching bullet keeps its first one.
func scoreRole(role types.Role, expanded []string) roleScore {
	var s roleScore

	header := strings.TrimSpace(role.Title + " " + role.Company)
	for _, kw := range expanded {
		if skills.Contains(header, kw) {
			s.titleHits++
		}
	}

	for _, b := range role.Bullets {
		if skills.MatchesAny(bulletText(b), expanded) {
			s.kept = append(s.kept, b)
		}
	}
	s.matched = len(s.kept)
	if s.matched == 0 && len(role.Bullets) > 0 {
		s.kept = []types.Item{role.Bullets[0]}
	}
	return s
}

func bulletText(b types.Item) string {
	return b.TextOr("text", "line", "name")
}

// generateNotes creates a brief explanation of the score.
func generateNotes(s roleScore, bullets int) string {
	var parts []string
	switch {
	case s.titleHits > 1:
		parts = append(parts, "Strong title match")
	case s.titleHits == 1:
		parts = append(parts, "Title match")
	}
	switch {
	case bullets == 0:
		parts = append(parts, "No bullets")
	case s.matched == 0:
		parts = append(parts, "No bullet matches, kept first bullet")
	default:
		parts = append(parts, pluralize(s.matched, "matching bullet"))
	}
	return strings.Join(parts, ". ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
