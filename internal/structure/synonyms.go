package structure

import (
	"strings"

	"github.com/jonathan/resume-docx/internal/types"
)

// sectionSynonyms maps lower-cased heading text to a canonical key.
var sectionSynonyms = map[string]string{
	"summary":                 types.SectionSummary,
	"professional summary":    types.SectionSummary,
	"profile":                 types.SectionSummary,
	"about":                   types.SectionSummary,
	"skills":                  types.SectionSkills,
	"technical skills":        types.SectionSkills,
	"technologies":            types.SectionTechnologies,
	"technology":              types.SectionTechnologies,
	"tools":                   types.SectionTechnologies,
	"experience":              types.SectionExperience,
	"work history":            types.SectionExperience,
	"work experience":         types.SectionExperience,
	"employment":              types.SectionExperience,
	"education":               types.SectionEducation,
	"academics":               types.SectionEducation,
	"interests":               types.SectionInterests,
	"languages":               types.SectionLanguages,
	"coursework":              types.SectionCoursework,
	"certifications":          types.SectionCertifications,
	"presentations":           types.SectionPresentations,
	"talks":                   types.SectionPresentations,
	"teaching":                types.SectionTeaching,
	"teaching experience":     types.SectionTeaching,
	"professional experience": types.SectionExperience,
}

// MatchSectionKey maps free heading text to a canonical section key. The
// match is exact after trimming and lower-casing.
func MatchSectionKey(title string) (string, bool) {
	key, ok := sectionSynonyms[strings.ToLower(strings.TrimSpace(title))]
	return key, ok
}
