package templating

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/dataio"
	"github.com/jonathan/resume-docx/internal/formatting"
	"github.com/jonathan/resume-docx/internal/types"
)

// Default returns the template used when no template file is given.
func Default() types.Template {
	tpl := types.NewTemplate()
	for _, key := range []string{
		types.SectionSummary,
		types.SectionSkills,
		types.SectionExperience,
		types.SectionEducation,
	} {
		tpl.Sections = append(tpl.Sections, types.SectionConfig{Key: key, Title: formatting.TitleCase(key)})
	}
	return tpl
}

// Load reads a YAML, JSON or JSONC template. An empty path yields Default.
// Malformed fields never fail the load: they fall back to defaults and are
// listed in the template's DecodeSkips.
func Load(path string, logger *zap.Logger) (types.Template, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := dataio.ReadFile(path)
	if err != nil {
		return types.Template{}, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	tpl, err := Parse(data, dataio.FormatFor(path))
	if err != nil {
		return types.Template{}, &LoadError{
			Message: fmt.Sprintf("failed to decode template %s", path),
			Cause:   err,
		}
	}
	for _, s := range tpl.DecodeSkips() {
		logger.Warn("template field dropped",
			zap.String("path", path),
			zap.String("field", s.Field),
			zap.Int("line", s.Line),
			zap.NamedError("reason", s.Err))
	}
	return tpl, nil
}

// Parse decodes and normalizes a template document.
func Parse(data []byte, format dataio.Format) (types.Template, error) {
	tpl := types.NewTemplate()
	if err := dataio.Unmarshal(data, format, &tpl); err != nil {
		return types.Template{}, err
	}
	Normalize(&tpl)
	return tpl, nil
}

// Normalize repairs a decoded template in place: fields failing validation
// are reset to their defaults, sections without a key or with a repeated key
// are dropped, and missing titles default to the title-cased key.
func Normalize(tpl *types.Template) {
	tpl.AddSkips(repair(tpl)...)

	seen := make(map[string]bool, len(tpl.Sections))
	kept := tpl.Sections[:0]
	for i, sec := range tpl.Sections {
		field := fmt.Sprintf("sections[%d].key", i)
		switch {
		case sec.Key == "":
			tpl.AddSkips(types.FieldSkip{Field: field, Err: fmt.Errorf("section has no key")})
			continue
		case seen[sec.Key]:
			tpl.AddSkips(types.FieldSkip{Field: field, Err: fmt.Errorf("duplicate section key %q", sec.Key)})
			continue
		}
		seen[sec.Key] = true
		sec.Title = SectionTitle(sec)
		kept = append(kept, sec)
	}
	tpl.Sections = kept
}

// SectionTitle returns the display title of a section, defaulting to the
// title-cased key.
func SectionTitle(sec types.SectionConfig) string {
	if t := strings.TrimSpace(sec.Title); t != "" {
		return t
	}
	return formatting.TitleCase(sec.Key)
}
