package rendering

import (
	"path/filepath"
	"strings"
)

// DefaultFileName is the document name used under an output directory.
const DefaultFileName = "resume.docx"

// CheckOutputPath rejects outputs the renderer cannot produce.
func CheckOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &RenderError{Message: "no output path"}
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &RenderError{Message: "PDF output is not supported; render a .docx and convert it separately"}
	}
	return nil
}

// OutputPath resolves where a render is written. An explicit out wins;
// otherwise the document goes to <outDir>/<profile>/resume.docx, or
// <outDir>/resume.docx without a profile.
func OutputPath(out, outDir, profile string) (string, error) {
	path := strings.TrimSpace(out)
	if path == "" {
		if outDir == "" {
			outDir = "out"
		}
		if profile != "" {
			path = filepath.Join(outDir, profile, DefaultFileName)
		} else {
			path = filepath.Join(outDir, DefaultFileName)
		}
	}
	if err := CheckOutputPath(path); err != nil {
		return "", err
	}
	return path, nil
}
