package watch

import (
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-docx/internal/overlay"
	"github.com/jonathan/resume-docx/internal/pipeline"
	"github.com/jonathan/resume-docx/internal/structure"
)

// InputsFor lists everything a pipeline run reads: the candidate, template,
// location map and structure files, plus the overlay and structure
// directories of each profile.
func InputsFor(opts pipeline.RunOptions) Inputs {
	in := Inputs{}
	for _, f := range []string{opts.DataPath, opts.TemplatePath, opts.LocationsPath} {
		if strings.TrimSpace(f) != "" {
			in.Files = append(in.Files, f)
		}
	}
	if opts.StructureFrom != "" && !structure.IsURL(opts.StructureFrom) {
		in.Files = append(in.Files, opts.StructureFrom)
	}

	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = overlay.DefaultConfigDir
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "out"
	}

	hasProfile := false
	for _, p := range opts.Profiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		hasProfile = true
		in.Dirs = append(in.Dirs, filepath.Join(configDir, "profiles", p))
		if opts.StructureFrom == "" {
			in.Dirs = append(in.Dirs, filepath.Join(outDir, p))
		}
	}
	if hasProfile {
		// Legacy flat overlays and flat structure files.
		in.Dirs = append(in.Dirs, configDir)
		if opts.StructureFrom == "" {
			in.Dirs = append(in.Dirs, outDir)
		}
	}
	return in
}
