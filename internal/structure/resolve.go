package structure

import (
	"strings"

	"github.com/jonathan/resume-docx/internal/types"
)

// Resolve returns the sections to render. Without a structure order it is
// the template's section list verbatim. With one, the output follows the
// order exactly: a key uses the template's config when the template has it,
// otherwise a minimal config titled from the structure; keys with neither
// are dropped, as are repeats.
func Resolve(tpl types.Template, st *types.Structure) []types.SectionConfig {
	if !st.HasOrder() {
		return tpl.Sections
	}

	byKey := make(map[string]types.SectionConfig, len(tpl.Sections))
	for _, sec := range tpl.Sections {
		if _, dup := byKey[sec.Key]; !dup {
			byKey[sec.Key] = sec
		}
	}

	out := make([]types.SectionConfig, 0, len(st.Order))
	seen := make(map[string]bool, len(st.Order))
	for _, key := range st.Order {
		key = strings.TrimSpace(key)
		if key == "" || seen[key] {
			continue
		}
		if sec, ok := byKey[key]; ok {
			out = append(out, sec)
			seen[key] = true
			continue
		}
		if title := st.Title(key); title != "" {
			out = append(out, types.SectionConfig{Key: key, Title: title})
			seen[key] = true
		}
	}
	return out
}
