// Package formatting composes the styled text runs shared by section renderers:
// keyword emphasis, named bullets and multi-field header lines, plus the inline
// text helpers they rely on.
package formatting

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonDigitRe   = regexp.MustCompile(`\D+`)
	schemeRe     = regexp.MustCompile(`(?i)^https?://`)
	wwwRe        = regexp.MustCompile(`(?i)^www\.`)
)

// DateSeparator joins the two ends of a date span.
const DateSeparator = " – "

// Present is the canonical label for an open-ended date.
const Present = "Present"

// CleanInline replaces bullet glyphs with spaces and collapses whitespace.
func CleanInline(text string) string {
	s := strings.ReplaceAll(text, "•", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeBullet cleans a bullet and strips a single terminal period.
func NormalizeBullet(text string) string {
	s := CleanInline(text)
	if strings.HasSuffix(s, ".") {
		s = strings.TrimRight(s[:len(s)-1], " ")
	}
	return s
}

// NormalizePresent maps "now", "current", "to date" and friends to Present.
func NormalizePresent(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "now", "present", "current", "to date", "today":
		return Present
	}
	return v
}

// DateSpan formats "Start – End". A lone start is open-ended; a lone end is
// printed on its own.
func DateSpan(start, end string) string {
	s, e := NormalizePresent(start), NormalizePresent(end)
	switch {
	case s != "" && e != "":
		return s + DateSeparator + e
	case s != "":
		return s + DateSeparator + Present
	default:
		return e
	}
}

// FormatPhone renders 10-digit and +1 11-digit numbers as (AAA) BBB-CCCC.
// Other inputs are returned trimmed.
func FormatPhone(phone string) string {
	p := strings.TrimSpace(phone)
	digits := nonDigitRe.ReplaceAllString(p, "")
	switch {
	case len(digits) == 11 && digits[0] == '1':
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	case len(digits) == 10:
		return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:]
	}
	return p
}

// FormatLink strips the scheme, a leading "www." and trailing slashes.
func FormatLink(url string) string {
	u := strings.TrimSpace(url)
	if u == "" {
		return ""
	}
	u = schemeRe.ReplaceAllString(u, "")
	u = wwwRe.ReplaceAllString(u, "")
	return strings.TrimRight(u, "/")
}

// JoinNonEmpty joins the trimmed non-empty parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// SplitSentences splits prose on periods, dropping empty pieces.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range strings.Split(strings.ReplaceAll(text, "\n", " "), ".") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. A word starts after any non-letter, so "skills_groups" becomes
// "Skills_Groups".
func TitleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			sb.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return sb.String()
}
