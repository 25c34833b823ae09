// Package schemas embeds the JSON Schema documents describing the renderer's
// input files.
package schemas

import (
	"embed"
	"io/fs"
	"sort"
)

// Embedded schema names.
const (
	Candidate = "candidate.schema.json"
	Template  = "template.schema.json"
	Structure = "structure.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the raw schema document called name.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists every embedded schema in sorted order.
func Names() []string {
	names, _ := fs.Glob(files, "*.schema.json")
	sort.Strings(names)
	return names
}
