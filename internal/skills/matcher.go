// Package skills matches emphasis keywords against candidate text,
// folding common spelling variants (golang, k8s, reactjs) onto one canonical name.
package skills

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// builtinAliases maps canonical skill names to the variants people write.
var builtinAliases = map[string][]string{
	"Go":         {"golang", "go lang"},
	"JavaScript": {"js"},
	"TypeScript": {"ts"},
	"Kubernetes": {"k8s"},
	"React":      {"react.js", "reactjs"},
	"Vue":        {"vue.js", "vuejs"},
	"Node.js":    {"nodejs"},
}

// Matcher expands keywords through a synonym table and finds them in text.
type Matcher struct {
	aliases map[string][]string // canonical -> aliases
	reverse map[string]string   // lower-cased alias or canonical -> canonical
}

// NewMatcher builds a matcher from the built-in variants plus synonyms,
// a map of canonical name to aliases. Later entries extend earlier ones.
func NewMatcher(synonyms map[string][]string) *Matcher {
	m := &Matcher{
		aliases: make(map[string][]string),
		reverse: make(map[string]string),
	}
	m.add(builtinAliases)
	m.add(synonyms)
	return m
}

func (m *Matcher) add(synonyms map[string][]string) {
	canonicals := make([]string, 0, len(synonyms))
	for c := range synonyms {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	for _, key := range canonicals {
		canonical := strings.TrimSpace(key)
		if canonical == "" {
			continue
		}
		if prev, ok := m.reverse[strings.ToLower(canonical)]; ok {
			canonical = prev
		}
		m.reverse[strings.ToLower(canonical)] = canonical
		for _, alias := range synonyms[key] {
			alias = strings.TrimSpace(alias)
			if alias == "" || containsFold(m.aliases[canonical], alias) {
				continue
			}
			m.aliases[canonical] = append(m.aliases[canonical], alias)
			m.reverse[strings.ToLower(alias)] = canonical
		}
	}
}

// Canonical returns the canonical form of keyword, or keyword trimmed when
// it has no known variants.
func (m *Matcher) Canonical(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if c, ok := m.reverse[strings.ToLower(keyword)]; ok {
		return c
	}
	return keyword
}

// Expand returns each keyword's canonical form followed by its aliases,
// de-duplicated case-insensitively in first-seen order.
func (m *Matcher) Expand(keywords []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		canonical := m.Canonical(kw)
		for _, v := range append([]string{canonical}, m.aliases[canonical]...) {
			key := strings.ToLower(v)
			if !seen[key] {
				seen[key] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Matches reports whether any variant of keyword occurs in text.
func (m *Matcher) Matches(text, keyword string) bool {
	for _, v := range m.Expand([]string{keyword}) {
		if Contains(text, v) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether text contains one of the already expanded keywords.
func MatchesAny(text string, expanded []string) bool {
	for _, kw := range expanded {
		if Contains(text, kw) {
			return true
		}
	}
	return false
}

// Contains reports whether keyword occurs in text as a whole word, ignoring
// case and runs of whitespace. A word boundary is any rune that is not a
// letter or digit, so "go" matches "Go," but not "Google".
func Contains(text, keyword string) bool {
	t, k := normalize(text), normalize(keyword)
	if t == "" || k == "" {
		return false
	}
	for start := 0; start <= len(t)-len(k); {
		i := strings.Index(t[start:], k)
		if i < 0 {
			return false
		}
		i += start
		if boundaryBefore(t, i) && boundaryAfter(t, i+len(k)) {
			return true
		}
		start = i + 1
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
