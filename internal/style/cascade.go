package style

import (
	"fmt"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/types"
)

// Skip is one page-style field that could not be applied.
type Skip struct {
	Field  string
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s", s.Field, s.Reason)
}

// Report lists what ApplyPageStyle did. Nothing in it is an error: skipped
// fields simply keep the backend's defaults.
type Report struct {
	Compact bool
	Applied []string
	Skipped []Skip
}

func (r *Report) applied(field string) { r.Applied = append(r.Applied, field) }

func (r *Report) skip(field, format string, args ...interface{}) {
	r.Skipped = append(r.Skipped, Skip{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// ApplyPageStyle applies compact page settings to doc. It is a no-op unless
// cfg.Compact is set, and it never fails: each field is applied on its own
// and anything that cannot be applied is recorded in the report.
func ApplyPageStyle(doc *docx.Document, cfg types.StyleConfig) Report {
	rep := Report{Compact: cfg.Compact}
	if !cfg.Compact || doc == nil {
		return rep
	}

	if cfg.MarginsIn >= 0 {
		m := cfg.MarginsIn
		doc.Section.TopMarginIn = m
		doc.Section.BottomMarginIn = m
		doc.Section.LeftMarginIn = m
		doc.Section.RightMarginIn = m
		rep.applied("margins_in")
	} else {
		rep.skip("margins_in", "negative margin %.2f", cfg.MarginsIn)
	}

	if st, err := doc.Styles.Get(docx.StyleNormal); err != nil {
		rep.skip("body_pt", "%v", err)
	} else if cfg.BodyPt > 0 {
		st.Font.SizePt = cfg.BodyPt
		rep.applied("body_pt")
	}

	if st, err := doc.Styles.Get(docx.StyleHeading1); err != nil {
		rep.skip("h1_pt", "%v", err)
	} else {
		if cfg.H1Pt > 0 {
			st.Font.SizePt = cfg.H1Pt
			rep.applied("h1_pt")
		}
		st.Font.Bold = true
		if fg, ok := headingForeground(cfg, &rep); ok {
			st.Font.Color = fg.Hex()
			rep.applied("h1_color")
		}
	}

	if st, err := doc.Styles.Get(docx.StyleTitle); err != nil {
		rep.skip("title_pt", "%v", err)
	} else {
		if cfg.TitlePt > 0 {
			st.Font.SizePt = cfg.TitlePt
			rep.applied("title_pt")
		}
		st.Font.Bold = true
		if cfg.TitleColor != "" {
			if c, ok := ParseHexColor(cfg.TitleColor); ok {
				st.Font.Color = c.Hex()
				rep.applied("title_color")
			} else {
				rep.skip("title_color", "invalid colour %q", cfg.TitleColor)
			}
		}
	}

	return rep
}

// headingForeground resolves the heading text colour. An explicit colour wins;
// otherwise a parseable background picks white or black by luminance.
func headingForeground(cfg types.StyleConfig, rep *Report) (RGB, bool) {
	if raw := cfg.HeadingFg(); raw != "" {
		if c, ok := ParseHexColor(raw); ok {
			return c, true
		}
		rep.skip("h1_color", "invalid colour %q", raw)
	}
	raw := cfg.HeadingBackground()
	if raw == "" {
		return RGB{}, false
	}
	bg, ok := ParseHexColor(raw)
	if !ok {
		rep.skip("h1_bg", "invalid colour %q", raw)
		return RGB{}, false
	}
	return AutoContrast(bg), true
}

// HeadingShading returns the backend fill for section headings, or "".
// It applies whether or not the page is compact.
func HeadingShading(cfg types.StyleConfig) string {
	return Pick(cfg.HeadingBackground())
}
