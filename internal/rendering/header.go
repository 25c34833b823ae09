package rendering

import (
	"github.com/jonathan/resume-docx/internal/formatting"
	"github.com/jonathan/resume-docx/internal/types"
)

// contactParts returns email, phone, location and the links of the contact
// line, formatted for display and with empty values dropped.
func contactParts(c *types.Candidate) []string {
	var parts []string
	add := func(v string) {
		if v != "" {
			parts = append(parts, v)
		}
	}
	add(c.ContactField("email"))
	add(formatting.FormatPhone(c.ContactField("phone")))
	add(c.ContactField("location"))
	for _, f := range []string{"website", "linkedin", "github"} {
		add(formatting.FormatLink(c.ContactField(f)))
	}
	for _, l := range c.ContactLinks() {
		add(formatting.FormatLink(l))
	}
	return parts
}

// ContactLine is the single-column header's contact line.
func ContactLine(c *types.Candidate) string {
	return formatting.JoinNonEmpty(" | ", contactParts(c)...)
}

// sidebarContactLine puts the phone first, as the sidebar header does.
func sidebarContactLine(c *types.Candidate) string {
	return formatting.JoinNonEmpty(" | ",
		formatting.FormatPhone(c.ContactField("phone")),
		c.ContactField("email"),
		c.ContactField("location"),
	)
}
