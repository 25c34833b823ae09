package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParagraphText is a paragraph recovered from an existing package.
type ParagraphText struct {
	// Style is the display name of the paragraph style ("Heading 1", "Title", ...).
	Style   string
	Text    string
	InTable bool
}

// IsHeading reports whether the paragraph uses a Title or Heading style.
func (p ParagraphText) IsHeading() bool {
	s := strings.ToLower(p.Style)
	return s == "title" || strings.HasPrefix(s, "heading")
}

// Package is the readable content of an existing document package.
type Package struct {
	Paragraphs []ParagraphText
	Header     []ParagraphText
	Core       CoreProperties
}

// OpenFile reads a document package from disk.
func OpenFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PackageError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return Open(data)
}

// Open reads a document package from memory.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &PackageError{Message: "not a zip package", Cause: err}
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	styleNames := map[string]string{}
	if f, ok := files["word/styles.xml"]; ok {
		raw, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		styleNames = parseStyleNames(raw)
	}

	docFile, ok := files["word/document.xml"]
	if !ok {
		return nil, &PackageError{Message: "missing word/document.xml"}
	}
	raw, err := readZipFile(docFile)
	if err != nil {
		return nil, err
	}

	pkg := &Package{}
	pkg.Paragraphs, err = parseParagraphs(raw, styleNames)
	if err != nil {
		return nil, &PackageError{Message: "failed to parse document body", Cause: err}
	}

	if f, ok := files["word/header1.xml"]; ok {
		raw, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		if pkg.Header, err = parseParagraphs(raw, styleNames); err != nil {
			return nil, &PackageError{Message: "failed to parse page header", Cause: err}
		}
	}

	if f, ok := files["docProps/core.xml"]; ok {
		raw, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		pkg.Core = parseCore(raw)
	}

	return pkg, nil
}

// Headings returns the paragraphs that use a heading style.
func (p *Package) Headings() []ParagraphText {
	var out []ParagraphText
	for _, para := range p.Paragraphs {
		if para.IsHeading() {
			out = append(out, para)
		}
	}
	return out
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, &PackageError{Message: fmt.Sprintf("failed to open part %s", f.Name), Cause: err}
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &PackageError{Message: fmt.Sprintf("failed to read part %s", f.Name), Cause: err}
	}
	return data, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func parseStyleNames(raw []byte) map[string]string {
	names := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var currentID string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch el.Name.Local {
		case "style":
			currentID = attr(el, "styleId")
		case "name":
			if currentID != "" {
				names[currentID] = displayStyleName(attr(el, "val"))
			}
		}
	}
	return names
}

// displayStyleName undoes the lower-casing Word applies to built-in heading names.
func displayStyleName(name string) string {
	if strings.HasPrefix(name, "heading ") {
		return "H" + name[1:]
	}
	return name
}

func parseParagraphs(raw []byte, styleNames map[string]string) ([]ParagraphText, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		out       []ParagraphText
		current   *ParagraphText
		text      strings.Builder
		inText    bool
		tblDepth  int
		paraDepth int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tbl":
				tblDepth++
			case "p":
				paraDepth++
				if paraDepth == 1 {
					current = &ParagraphText{InTable: tblDepth > 0}
					text.Reset()
				}
			case "pStyle":
				if current != nil {
					id := attr(el, "val")
					if name, ok := styleNames[id]; ok {
						current.Style = name
					} else {
						current.Style = id
					}
				}
			case "t":
				inText = true
			case "tab":
				if current != nil {
					text.WriteString("\t")
				}
			case "br":
				if current != nil {
					text.WriteString("\n")
				}
			}
		case xml.CharData:
			if inText && current != nil {
				text.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				paraDepth--
				if paraDepth == 0 && current != nil {
					current.Text = text.String()
					if current.Style == "" {
						current.Style = StyleNormal
					}
					out = append(out, *current)
					current = nil
				}
			case "tbl":
				tblDepth--
			}
		}
	}
	return out, nil
}

func parseCore(raw []byte) CoreProperties {
	var cp CoreProperties
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var field *string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "title":
				field = &cp.Title
			case "subject":
				field = &cp.Subject
			case "creator":
				field = &cp.Author
			case "keywords":
				field = &cp.Keywords
			case "category":
				field = &cp.Category
			default:
				field = nil
			}
		case xml.CharData:
			if field != nil {
				*field += string(el)
			}
		case xml.EndElement:
			field = nil
		}
	}
	return cp
}
