package formatting

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-docx/internal/docx"
	"github.com/jonathan/resume-docx/internal/style"
)

// Separator sits between the parts of a header line.
const Separator = " — "

// Emphasize splits text into runs, bolding every case-insensitive occurrence
// of any keyword. At each position the first keyword in list order wins.
// Concatenating the run texts always gives back text unchanged.
func Emphasize(text string, keywords []string) []docx.Run {
	var runs []docx.Run
	plainStart := 0
	for i := 0; i < len(text); {
		n := matchAt(text[i:], keywords)
		if n == 0 {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		if plainStart < i {
			runs = append(runs, docx.Run{Text: text[plainStart:i]})
		}
		runs = append(runs, docx.Run{Text: text[i : i+n], Bold: true})
		i += n
		plainStart = i
	}
	if plainStart < len(text) {
		runs = append(runs, docx.Run{Text: text[plainStart:]})
	}
	return runs
}

// matchAt returns the byte length of the first keyword matching at the start
// of s, or 0.
func matchAt(s string, keywords []string) int {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if n := foldPrefix(s, kw); n > 0 {
			return n
		}
	}
	return 0
}

// foldPrefix reports how many bytes of s match prefix under simple case
// folding, or 0 when s does not start with prefix.
func foldPrefix(s, prefix string) int {
	i := 0
	for _, pr := range prefix {
		if i >= len(s) {
			return 0
		}
		sr, size := utf8.DecodeRuneInString(s[i:])
		if sr != pr && !strings.EqualFold(string(sr), string(pr)) {
			return 0
		}
		i += size
	}
	return i
}

// PlainText concatenates the text of runs.
func PlainText(runs []docx.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// NamedBullet composes "name<sep>detail" with the name bolded. An empty sep
// means ": ". Without a detail only the name is emitted.
func NamedBullet(name, detail, sep, nameColor string) []docx.Run {
	if sep == "" {
		sep = ": "
	}
	name, detail = strings.TrimSpace(name), strings.TrimSpace(detail)

	var runs []docx.Run
	if name != "" {
		r := docx.Run{Text: name, Bold: true}
		style.ColorRun(&r, nameColor)
		runs = append(runs, r)
	}
	if detail != "" {
		if name != "" {
			runs = append(runs, docx.Run{Text: sep})
		}
		runs = append(runs, docx.Run{Text: detail})
	}
	return runs
}

// HeaderFields are the parts of an entry header line.
type HeaderFields struct {
	Title    string
	Org      string
	Location string
	Span     string
}

// HeaderStyle carries the per-field styling of a header line. Colours may be
// written with or without '#'.
type HeaderStyle struct {
	ItemColor        string
	LocationColor    string
	DurationColor    string
	MetaPt           float64
	LocationBrackets bool
	DurationBrackets bool
}

// DefaultHeaderStyle brackets both location and span.
func DefaultHeaderStyle() HeaderStyle {
	return HeaderStyle{LocationBrackets: true, DurationBrackets: true}
}

// HeaderLine composes "Title at Org — [Location] — (Span)". Empty fields are
// omitted together with their separators, so all-empty input yields no runs.
func HeaderLine(f HeaderFields, hs HeaderStyle) []docx.Run {
	title := strings.TrimSpace(f.Title)
	org := strings.TrimSpace(f.Org)
	loc := strings.TrimSpace(f.Location)
	span := strings.TrimSpace(f.Span)

	item := style.Pick(hs.ItemColor)
	locColor := style.Pick(hs.LocationColor, hs.ItemColor)
	durColor := style.Pick(hs.DurationColor, hs.LocationColor, hs.ItemColor)

	var runs []docx.Run
	if title != "" {
		runs = append(runs, docx.Run{Text: title, Bold: true, Color: item})
	}
	if org != "" {
		if title != "" {
			runs = append(runs, docx.Run{Text: " at "})
		}
		runs = append(runs, docx.Run{Text: org, Bold: true, Color: item})
	}
	if loc != "" {
		runs = appendMeta(runs, loc, hs.LocationBrackets, "[", "]",
			docx.Run{Italic: true, Color: locColor, SizePt: hs.MetaPt})
	}
	if span != "" {
		runs = appendMeta(runs, span, hs.DurationBrackets, "(", ")",
			docx.Run{Color: durColor, SizePt: hs.MetaPt})
	}
	return runs
}

func appendMeta(runs []docx.Run, text string, brackets bool, open, closing string, props docx.Run) []docx.Run {
	if len(runs) > 0 {
		runs = append(runs, docx.Run{Text: Separator})
	}
	if brackets {
		runs = append(runs, docx.Run{Text: open})
	}
	props.Text = text
	if props.SizePt < 0 {
		props.SizePt = 0
	}
	runs = append(runs, props)
	if brackets {
		runs = append(runs, docx.Run{Text: closing})
	}
	return runs
}
