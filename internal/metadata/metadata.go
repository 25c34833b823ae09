// Package metadata derives document core properties from a candidate record.
package metadata

import (
	"strings"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/location"
	"github.com/jonathan/resume-docx/internal/types"
)

const (
	// DefaultTitle is used when the candidate has no name or contact details.
	DefaultTitle = "Resume"
	// Subject is written to every rendered document.
	Subject = "Resume"
)

// Report describes the properties that were set.
type Report struct {
	Title     string
	Author    string
	Keywords  []string
	Locations []string
}

// Compose fills doc.Core from the candidate. Each property is derived on its
// own, so a missing value only leaves that property empty. Experience
// locations are canonicalized through locs before de-duplication.
func Compose(doc *docx.Document, c *types.Candidate, page types.StyleConfig, locs *location.Map) Report {
	var rep Report
	if doc == nil {
		return rep
	}
	if c == nil {
		c = &types.Candidate{}
	}

	name := c.ContactField("name")
	email := c.ContactField("email")
	phone := c.ContactField("phone")
	loc := c.ContactField("location")

	contactLine := joinPresent(" | ", email, phone, loc)
	rep.Title = joinPresent(" - ", name, contactLine)
	if rep.Title == "" {
		rep.Title = DefaultTitle
	}
	doc.Core.Title = rep.Title
	doc.Core.Subject = Subject

	if name != "" {
		rep.Author = name
		doc.Core.Author = name
	}

	for _, k := range []string{name, email, phone, loc} {
		if k != "" {
			rep.Keywords = append(rep.Keywords, k)
		}
	}
	if page.IncludeLocations() {
		rep.Locations = ExperienceLocations(c, locs)
		rep.Keywords = append(rep.Keywords, rep.Locations...)
		if len(rep.Locations) > 0 {
			doc.Core.Category = strings.Join(rep.Locations, "; ")
		}
	}
	doc.Core.Keywords = strings.Join(rep.Keywords, "; ")
	return rep
}

// ExperienceLocations returns the distinct non-empty experience locations in
// first-seen order.
func ExperienceLocations(c *types.Candidate, locs *location.Map) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, role := range c.Experience {
		l := locs.Canonical(role.Location)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func joinPresent(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
