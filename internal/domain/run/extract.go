package run

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
)

var (
	// "answer: X", "answer is x.", "Answer - (X)", "answer: **x**".
	// An upper-case letter is accepted after any marker. A lower-case one must
	// be closed by punctuation or end the text, or follow a colon, so prose
	// such as "the answer is a tricky one" is not read as A.
	markerPattern = regexp.MustCompile(
		`(?i:\banswer)(?:` +
			`(?i:\s+is)?\s*[:\-]?\s*[(\[*"']*(?:([A-D])(?:[^A-Za-z0-9]|$)|([a-d])(?:[)\]*"'.,;:!?]|\s*$))` +
			`|\s*:\s*[(\[*"']*([a-d])(?:[^A-Za-z0-9]|$))`,
	)

	// A lone A-D surrounded by non-word characters.
	tokenPattern = regexp.MustCompile(`\b([A-D])\b`)
)

// ExtractAnswer reduces a free-text model response to one option label.
//
// Reasoning blocks (<think>...</think>) are dropped first. An explicit answer
// marker wins over a reply made of a single letter, which wins over the first
// standalone upper-case letter in prose.
// Unparseable is returned when neither is present.
func ExtractAnswer(response string) exam.Label {
	text := stripReasoning(response)

	if m := markerPattern.FindStringSubmatch(text); m != nil {
		for _, g := range m[1:] {
			if l, ok := exam.ParseLabel(g); ok {
				return l
			}
		}
	}

	if l, ok := soleLetter(text); ok {
		return l
	}

	if m := tokenPattern.FindStringSubmatch(text); m != nil {
		return exam.Label(m[1])
	}

	return Unparseable
}

// soleLetter accepts a reply that is nothing but one option letter of
// either case, e.g. "b", "(C)" or "d.".
func soleLetter(text string) (exam.Label, bool) {
	trimmed := strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	if len(trimmed) != 1 {
		return "", false
	}
	return exam.ParseLabel(trimmed)
}

// stripReasoning removes <think>...</think> sections. An unterminated block
// swallows the rest of the text.
func stripReasoning(raw string) string {
	const (
		openTag  = "<think>"
		closeTag = "</think>"
	)

	lower := strings.ToLower(raw)
	if !strings.Contains(lower, openTag) {
		return raw
	}

	var b strings.Builder
	cursor := 0
	for cursor < len(raw) {
		start := strings.Index(lower[cursor:], openTag)
		if start < 0 {
			b.WriteString(raw[cursor:])
			break
		}
		start += cursor
		b.WriteString(raw[cursor:start])

		end := strings.Index(lower[start+len(openTag):], closeTag)
		if end < 0 {
			break
		}
		cursor = start + len(openTag) + end + len(closeTag)
	}
	return b.String()
}

// Grade compares an extracted label to the correct one.
func Grade(extracted, correct exam.Label) bool {
	if extracted == Unparseable {
		return false
	}
	return strings.EqualFold(string(extracted), string(correct))
}
