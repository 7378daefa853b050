package speech

import (
	"errors"
	"golang.org/x/net/html"
	"io"
	"regexp"
	"strings"
)

// ErrMalformedMarkup — в описании нет ни одного абзаца.
var ErrMalformedMarkup = errors.New("description has no paragraphs")

const hostedBy = " hosted by "

var (
	attribution = regexp.MustCompile(`\s*~\s*`)
	// соседние цифры отсекаем вручную: в RE2 нет lookaround
	dottedClock = regexp.MustCompile(`(^|\D)(\d{2})\.(\d{2})(\D|$)`)
)

// TrimPolicy задаёт, сколько служебных абзацев отбросить в начале и в конце
// описания. У каждой группы свои шапки и подвалы, поэтому это настройка.
type TrimPolicy struct {
	Head int
	Tail int
}

// StripDescription превращает HTML-описание события в текст для озвучивания.
// Абзацы склеиваются через StrongPause, переносы строк внутри абзаца
// становятся MediumPause. Пустой результат ошибкой не считается.
//
// Результат — обычный текст с раскодированными сущностями. Повторный прогон
// html.EscapeString(result), обёрнутого в <p>, с нулевой политикой даёт тот же
// текст.
func StripDescription(markup string, policy TrimPolicy) (string, error) {
	paragraphs := splitParagraphs(markup)
	if len(paragraphs) == 0 {
		return "", ErrMalformedMarkup
	}

	head, tail := max(policy.Head, 0), max(policy.Tail, 0)
	if head+tail >= len(paragraphs) {
		return "", nil
	}
	paragraphs = paragraphs[head : len(paragraphs)-tail]

	spoken := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = normalizeParagraph(p); p != "" {
			spoken = append(spoken, p)
		}
	}

	return strings.Join(spoken, " "+StrongPause+" "), nil
}

func normalizeParagraph(p string) string {
	p = attribution.ReplaceAllString(p, hostedBy)
	// совпадения делят разделитель, поэтому "19.30/20.30" требует второго прохода
	for {
		next := dottedClock.ReplaceAllString(p, "${1}${2}:${3}${4}")
		if next == p {
			break
		}
		p = next
	}
	return strings.TrimSpace(spaces.ReplaceAllString(p, " "))
}

// splitParagraphs возвращает текст каждого <p> с раскодированными сущностями,
// <br> заменяется на MediumPause. Текст вне абзацев игнорируется.
func splitParagraphs(markup string) []string {
	var (
		paragraphs []string
		current    strings.Builder
		inside     bool
	)

	closeParagraph := func() {
		if inside {
			paragraphs = append(paragraphs, current.String())
			current.Reset()
			inside = false
		}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return nil
			}
			closeParagraph()
			return paragraphs
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p":
				closeParagraph()
				inside = true
				if tt == html.SelfClosingTagToken {
					closeParagraph()
				}
			case "br":
				if inside {
					current.WriteString(" " + MediumPause + " ")
				}
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "p" {
				closeParagraph()
			}
		case html.TextToken:
			if inside {
				current.Write(z.Text())
			}
		}
	}
}
