package loader

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/presalesly/presalesly/internal/model"
)

// Describe picks the description for lang. An exact language code match
// wins; otherwise BCP 47 matching is used, so "en-US" finds "EN".
func Describe(descriptions []model.Description, lang string) (string, bool) {
	i := DescriptionIndex(descriptions, lang)
	if i < 0 {
		return "", false
	}
	return descriptions[i].Description, true
}

// DescriptionIndex returns the index Describe would use, or -1.
func DescriptionIndex(descriptions []model.Description, lang string) int {
	for i, d := range descriptions {
		if strings.EqualFold(d.LanguageCode, lang) {
			return i
		}
	}

	want, err := language.Parse(lang)
	if err != nil {
		return -1
	}
	tags := make([]language.Tag, 0, len(descriptions))
	idx := make([]int, 0, len(descriptions))
	for i, d := range descriptions {
		t, err := language.Parse(d.LanguageCode)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		idx = append(idx, i)
	}
	if len(tags) == 0 {
		return -1
	}
	_, i, conf := language.NewMatcher(tags).Match(want)
	if conf < language.High {
		return -1
	}
	return idx[i]
}
