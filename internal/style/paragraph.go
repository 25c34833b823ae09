package style

import "github.com/jonathan/resume-docx/internal/docx"

func pt(v float64) *float64 { return &v }

// Tight sets explicit paragraph spacing with single line spacing.
func Tight(p *docx.Paragraph, beforePt, afterPt float64) {
	p.SpaceBeforePt = pt(beforePt)
	p.SpaceAfterPt = pt(afterPt)
	p.LineSpacing = pt(1.0)
}

// FlushLeft removes indentation and aligns left.
func FlushLeft(p *docx.Paragraph) {
	p.LeftIndentPt = pt(0)
	p.FirstLineIndentPt = pt(0)
	p.Alignment = docx.AlignLeft
}

// Center aligns the paragraph to the centre with no indentation.
func Center(p *docx.Paragraph) {
	p.LeftIndentPt = pt(0)
	p.FirstLineIndentPt = pt(0)
	p.Alignment = docx.AlignCenter
}

// Indent sets the left indent in points.
func Indent(p *docx.Paragraph, leftPt float64) {
	p.LeftIndentPt = pt(leftPt)
}

// CompactBullet strips list indentation and spacing from a bullet paragraph.
func CompactBullet(p *docx.Paragraph) {
	p.LeftIndentPt = pt(0)
	p.FirstLineIndentPt = pt(0)
	p.SpaceBeforePt = pt(0)
	p.SpaceAfterPt = pt(0)
	p.LineSpacing = pt(1.0)
}

// Shade fills the paragraph background. It reports false for an invalid colour.
func Shade(p *docx.Paragraph, color string) bool {
	c, ok := ParseHexColor(color)
	if !ok {
		return false
	}
	p.Shading = c.Hex()
	return true
}

// ColorRun sets the run colour when color parses.
func ColorRun(r *docx.Run, color string) {
	if c, ok := ParseHexColor(color); ok {
		r.Color = c.Hex()
	}
}

// SizeRun sets the run size when sizePt is positive.
func SizeRun(r *docx.Run, sizePt float64) {
	if sizePt > 0 {
		r.SizePt = sizePt
	}
}
