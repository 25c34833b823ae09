package structure

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/jonathan/resume-docx/internal/dataio"
	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/types"
)

// Fetcher retrieves the HTML of a published reference document.
type Fetcher interface {
	HTML(ctx context.Context, url string) (string, error)
}

// FromHeadings keys each heading through the synonym table. The first
// heading matching a key fixes its position and title; headings matching no
// key are ignored. The result always carries a non-nil order.
func FromHeadings(headings []string) *types.Structure {
	st := &types.Structure{Order: []string{}, Titles: map[string]string{}}
	for _, h := range headings {
		title := strings.Join(strings.Fields(h), " ")
		key, ok := MatchSectionKey(title)
		if !ok {
			continue
		}
		if _, seen := st.Titles[key]; seen {
			continue
		}
		st.Order = append(st.Order, key)
		st.Titles[key] = title
	}
	return st
}

// FromDocx infers a structure from the heading paragraphs of a document package.
func FromDocx(path string) (*types.Structure, error) {
	pkg, err := docx.OpenFile(path)
	if err != nil {
		return nil, &InferError{Source: path, Message: "failed to open document", Cause: err}
	}
	var headings []string
	for _, p := range pkg.Headings() {
		headings = append(headings, p.Text)
	}
	return FromHeadings(headings), nil
}

// FromHTML infers a structure from the h1-h3 elements of an HTML page.
func FromHTML(source, html string) (*types.Structure, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &InferError{Source: source, Message: "failed to parse HTML", Cause: err}
	}
	var headings []string
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, s.Text())
	})
	return FromHeadings(headings), nil
}

// FromMarkdown infers a structure from ATX and setext headings up to level 3.
func FromMarkdown(source []byte) *types.Structure {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	document := md.Parser().Parse(text.NewReader(source))

	var headings []string
	_ = ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level <= 3 {
			headings = append(headings, inlineText(h, source))
		}
		return ast.WalkSkipChildren, nil
	})
	return FromHeadings(headings)
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(inlineText(c, source))
		}
	}
	return sb.String()
}

// InferURL fetches a published reference page and infers from its headings.
func InferURL(ctx context.Context, f Fetcher, url string) (*types.Structure, error) {
	html, err := f.HTML(ctx, url)
	if err != nil {
		return nil, &InferError{Source: url, Message: "failed to fetch reference page", Cause: err}
	}
	return FromHTML(url, html)
}

// IsURL reports whether source names an http(s) resource.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsDescriptor reports whether path names an already-keyed structure file.
func IsDescriptor(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// InferFile infers a structure from a local reference document, dispatching
// on its extension. Anything that is not HTML or Markdown is read as a
// document package.
func InferFile(path string) (*types.Structure, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		data, err := dataio.ReadFile(path)
		if err != nil {
			return nil, &InferError{Source: path, Message: "failed to read reference page", Cause: err}
		}
		return FromHTML(path, string(data))
	case ".md", ".markdown":
		data, err := dataio.ReadFile(path)
		if err != nil {
			return nil, &InferError{Source: path, Message: "failed to read reference markdown", Cause: err}
		}
		return FromMarkdown(data), nil
	default:
		return FromDocx(path)
	}
}

// Infer infers a structure from a file path or URL. f may be nil when
// source is a local file.
func Infer(ctx context.Context, f Fetcher, source string) (*types.Structure, error) {
	if IsURL(source) {
		if f == nil {
			return nil, &InferError{Source: source, Message: "no fetcher configured for URL sources"}
		}
		return InferURL(ctx, f, source)
	}
	return InferFile(source)
}
