// Package speech готовит текст и описания событий к озвучиванию.
package speech

import (
	"regexp"
	"strings"
)

// Маркеры пауз. Вызывающий код вставляет их в текст, ToSSML превращает их в
// теги break.
const (
	StrongPause = "{{pause}}"
	MediumPause = "{{pause:medium}}"
)

var (
	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	breaks = strings.NewReplacer(
		MediumPause, `<break strength="medium"/>`,
		StrongPause, `<break strength="strong"/>`,
	)
	spaces = regexp.MustCompile(`\s+`)
)

// ToSSML оборачивает текст в speak. Маркеры раскрываются после экранирования,
// иначе теги break тоже экранируются.
func ToSSML(text string) string {
	text = breaks.Replace(xmlEscaper.Replace(text))
	return "<speak>" + strings.TrimSpace(spaces.ReplaceAllString(text, " ")) + "</speak>"
}
