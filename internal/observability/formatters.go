// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-docx/internal/overlay"
	"github.com/jonathan/resume-docx/internal/ranking"
	"github.com/jonathan/resume-docx/internal/rendering"
	"github.com/jonathan/resume-docx/internal/templating"
	"github.com/jonathan/resume-docx/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRenderResult outputs the layout, section list and degraded-path
// reports of a finished render.
func (p *Printer) PrintRenderResult(profile, path string, res *rendering.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	if profile != "" {
		sb.WriteString(fmt.Sprintf("Profile:  %s\n", profile))
	}
	sb.WriteString(fmt.Sprintf("Output:   %s\n", path))
	sb.WriteString(fmt.Sprintf("Layout:   %s\n", res.Layout))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", res.Metadata.Title))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Sections rendered (%d):\n", len(res.Rendered)))
	for _, key := range res.Rendered {
		sb.WriteString(fmt.Sprintf("  • %s\n", key))
	}
	if len(res.Omitted) > 0 {
		sb.WriteString(fmt.Sprintf("Omitted: %s\n", strings.Join(res.Omitted, ", ")))
	}

	if len(res.Style.Skipped) > 0 {
		sb.WriteString("\nStyle fields skipped:\n")
		count := min(len(res.Style.Skipped), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", res.Style.Skipped[i]))
		}
		if len(res.Style.Skipped) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(res.Style.Skipped)-maxItemsToShow))
		}
	}
	if len(res.Metadata.Locations) > 0 {
		sb.WriteString(fmt.Sprintf("\nLocations: %s\n", strings.Join(res.Metadata.Locations, "; ")))
	}

	p.printBox("RENDERED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOverlayReport outputs which overlay concerns applied for a profile.
func (p *Printer) PrintOverlayReport(rep overlay.Report) {
	if len(rep.Outcomes) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Profile:  %s\n", rep.Profile))
	sb.WriteString(fmt.Sprintf("Applied:  %d of %d\n\n", len(rep.Applied()), len(rep.Outcomes)))
	for _, o := range rep.Outcomes {
		mark := "·"
		if o.Applied {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, o))
	}

	p.printBox("PROFILE OVERLAYS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTailoring outputs the experience roles ranked against the keywords.
func (p *Printer) PrintTailoring(rep ranking.Report) {
	if len(rep.Roles) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(rep.Keywords, ", ")))
	sb.WriteString(fmt.Sprintf("Kept:     %d of %d roles\n\n", rep.Kept(), len(rep.Roles)))
	for _, role := range rep.Roles {
		mark := "·"
		if role.Kept {
			mark = "✓"
		}
		name := role.Title
		if role.Company != "" {
			name += " @ " + role.Company
		}
		sb.WriteString(fmt.Sprintf("%s %s (score %d)\n", mark, name, role.Score))
		if role.Notes != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", role.Notes))
		}
	}

	p.printBox("TAILORED EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStructure outputs a section order and its titles.
func (p *Printer) PrintStructure(source string, st *types.Structure) {
	if st == nil {
		return
	}

	var sb strings.Builder
	if source != "" {
		sb.WriteString(fmt.Sprintf("Source:   %s\n\n", source))
	}
	if len(st.Order) == 0 {
		sb.WriteString("No recognised section headings")
	}
	for i, key := range st.Order {
		title := st.Title(key)
		if title != "" && title != key {
			sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, key, title))
		} else {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, key))
		}
	}

	p.printBox("SECTION STRUCTURE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplate outputs the sections and layout of a template descriptor.
func (p *Printer) PrintTemplate(path string, tpl types.Template) {
	var sb strings.Builder
	if path == "" {
		path = "(built-in default)"
	}
	sb.WriteString(fmt.Sprintf("Template: %s\n", path))
	sb.WriteString(fmt.Sprintf("Layout:   %s\n", tpl.Layout.Kind()))
	if tpl.Page.Compact {
		sb.WriteString("Page:     compact\n")
	}
	sb.WriteString("\n")

	for _, sec := range tpl.Sections {
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", sec.Key, templating.SectionTitle(sec)))
	}

	p.printBox("TEMPLATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs a one-line-per-profile digest of a batch render.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(paths map[string]string, failed map[string]error) {
	if len(paths) == 0 && len(failed) == 0 {
		return
	}
	for _, profile := range sortedKeys(paths) {
		fmt.Fprintf(p.out, "✅ %s → %s\n", displayProfile(profile), paths[profile])
	}
	for _, profile := range sortedKeys(failed) {
		fmt.Fprintf(p.out, "❌ %s: %v\n", displayProfile(profile), failed[profile])
	}
}

func displayProfile(profile string) string {
	if profile == "" {
		return "(base)"
	}
	return profile
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
