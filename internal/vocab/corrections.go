package vocab

import (
	"regexp"
	"strings"
)

// Correction is a pure term transform tried on lookup miss. Corrections run
// in configuration order against the original input term; the first corrected
// form that hits the lookup table wins.
type Correction func(term string) string

var (
	icdCodeRe  = regexp.MustCompile(`[a-zA-Z]\d{1,2}\.\d{1,2}`)
	icdGroupRe = regexp.MustCompile(`[a-zA-Z]\d{1,2}`)
)

// RemoveSlash strips the behavior-code slash from ICD-O style codes
// ("8140/3" -> "81403").
func RemoveSlash(term string) string {
	return strings.ReplaceAll(term, "/", "")
}

// InsertSlash re-inserts a slash before the final character ("81403" ->
// "8140/3"). Empty input yields the empty string.
func InsertSlash(term string) string {
	if len(term) < 1 {
		return ""
	}
	return term[:len(term)-1] + "/" + term[len(term)-1:]
}

// ICDCode extracts a full ICD10 code of the form C00.00, or "" when the term
// holds none.
func ICDCode(term string) string {
	return icdCodeRe.FindString(term)
}

// ICDGroup extracts the higher (less specific) ICD group, e.g. C92, for terms
// where a full code match is not possible.
func ICDGroup(term string) string {
	return icdGroupRe.FindString(term)
}

// AppendLanguage maps bare language names onto their SNOMED display form,
// e.g. "greek" -> "greek language".
func AppendLanguage(term string) string {
	return strings.ToLower(strings.TrimSpace(term)) + " language"
}

var correctionsByName = map[string]Correction{
	"remove_slash":    RemoveSlash,
	"insert_slash":    InsertSlash,
	"icd_code":        ICDCode,
	"icd_group":       ICDGroup,
	"append_language": AppendLanguage,
}

// CorrectionByName resolves a declarative correction name (as used in lookup
// definition files) to its function.
func CorrectionByName(name string) (Correction, bool) {
	c, ok := correctionsByName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}
