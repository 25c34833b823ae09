package docx

import "strings"

// Font holds the character properties a style can define.
type Font struct {
	SizePt float64
	Bold   bool
	Italic bool
	// Color is a six digit hex value without '#'.
	Color string
}

// Style is a named paragraph style.
type Style struct {
	Name    string
	BasedOn string
	Font    Font
	// SpaceBeforePt and SpaceAfterPt are style-level paragraph spacing.
	SpaceBeforePt float64
	SpaceAfterPt  float64
	LeftIndentPt  float64
	HangingPt     float64
	// Outline is the outline level for headings, -1 for body styles.
	Outline int
}

// ID returns the style identifier used inside the package (spaces removed).
func (s *Style) ID() string {
	return StyleID(s.Name)
}

// StyleID converts a display name to its package style identifier.
func StyleID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// Styles is an ordered, name-addressed style table.
type Styles struct {
	order  []string
	byName map[string]*Style
}

// DefaultStyles returns the style set every new document starts with.
func DefaultStyles() *Styles {
	s := &Styles{byName: make(map[string]*Style)}
	s.Add(&Style{Name: StyleNormal, Font: Font{SizePt: 11}, SpaceAfterPt: 8, Outline: -1})
	s.Add(&Style{Name: StyleTitle, BasedOn: StyleNormal, Font: Font{SizePt: 26, Color: "17365D"}, SpaceAfterPt: 15, Outline: -1})
	s.Add(&Style{Name: StyleHeading1, BasedOn: StyleNormal, Font: Font{SizePt: 14, Bold: true, Color: "365F91"}, SpaceBeforePt: 24, Outline: 0})
	s.Add(&Style{Name: StyleHeading2, BasedOn: StyleNormal, Font: Font{SizePt: 13, Bold: true, Color: "4F81BD"}, SpaceBeforePt: 10, Outline: 1})
	s.Add(&Style{Name: StyleHeading3, BasedOn: StyleNormal, Font: Font{SizePt: 11, Bold: true, Color: "4F81BD"}, SpaceBeforePt: 10, Outline: 2})
	s.Add(&Style{Name: StyleListBullet, BasedOn: StyleNormal, LeftIndentPt: 18, HangingPt: 18, Outline: -1})
	return s
}

// Add inserts or replaces a style.
func (s *Styles) Add(st *Style) {
	if s.byName == nil {
		s.byName = make(map[string]*Style)
	}
	if _, exists := s.byName[st.Name]; !exists {
		s.order = append(s.order, st.Name)
	}
	s.byName[st.Name] = st
}

// Get returns the named style or a *StyleNotFoundError.
func (s *Styles) Get(name string) (*Style, error) {
	if s != nil {
		if st, ok := s.byName[name]; ok {
			return st, nil
		}
	}
	return nil, &StyleNotFoundError{Name: name}
}

// Has reports whether the named style exists.
func (s *Styles) Has(name string) bool {
	_, err := s.Get(name)
	return err == nil
}

// Remove deletes the named style if present.
func (s *Styles) Remove(name string) {
	if s == nil {
		return
	}
	if _, ok := s.byName[name]; !ok {
		return
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns the styles in insertion order.
func (s *Styles) All() []*Style {
	if s == nil {
		return nil
	}
	out := make([]*Style, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.byName[n])
	}
	return out
}
