package templating

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-docx/internal/dataio"
)

// Seed is the criteria string passed with --seed. Keywords feed emphasis;
// the remaining criteria are carried for reporting.
type Seed struct {
	Keywords []string
	Criteria map[string]string
}

// ParseSeed accepts a JSON object or comma-separated key=value pairs.
// A keywords value is split on ';', '|' or whitespace. Invalid JSON and
// parts without '=' are ignored, so ParseSeed never fails.
func ParseSeed(raw string) Seed {
	seed := Seed{Criteria: map[string]string{}}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return seed
	}
	if strings.HasPrefix(raw, "{") {
		var obj map[string]interface{}
		if err := dataio.Unmarshal([]byte(raw), dataio.FormatJSON, &obj); err != nil {
			return seed
		}
		for k, v := range obj {
			if k == "keywords" {
				seed.Keywords = keywordsFrom(v)
				continue
			}
			seed.Criteria[k] = fmt.Sprint(v)
		}
		return seed
	}

	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		v = strings.TrimSpace(v)
		if k == "keywords" {
			seed.Keywords = splitKeywords(v)
			continue
		}
		seed.Criteria[k] = v
	}
	return seed
}

func keywordsFrom(v interface{}) []string {
	switch kw := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(kw))
		for _, k := range kw {
			if s := strings.TrimSpace(fmt.Sprint(k)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return splitKeywords(kw)
	}
	return nil
}

func splitKeywords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '|' || r == ' ' || r == '\t'
	})
}

// MergeKeywords concatenates keyword lists, dropping blanks and repeats while
// keeping first-seen order.
func MergeKeywords(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, k := range list {
			k = strings.TrimSpace(k)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
