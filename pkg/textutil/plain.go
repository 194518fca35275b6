// Package textutil normalizes model output into plain glossary text.
package textutil

import (
	"regexp"
	"strings"
)

var (
	reHeading   = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	reBullet    = regexp.MustCompile(`(?m)^\s*[-*]\s+`)
	reBoldStars = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reBoldUnder = regexp.MustCompile(`__(.*?)__`)
	reItalStars = regexp.MustCompile(`\*(.*?)\*`)
	reItalUnder = regexp.MustCompile(`_(.*?)_`)
	reCode      = regexp.MustCompile("`{1,3}([^`]+)`{1,3}")
	reLink      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reTableRow  = regexp.MustCompile(`(?m)^\|.*\|$`)
	reBlankRuns = regexp.MustCompile(`\n{3,}`)
	reLineBreak = regexp.MustCompile(`[\r\n]+`)
)

// ToPlain strips markdown decoration (headings, bullets, emphasis, code
// spans, links, table pipes) so the explanation reads as plain prose.
func ToPlain(text string) string {
	if text == "" {
		return ""
	}
	out := reHeading.ReplaceAllString(text, "")
	out = reBullet.ReplaceAllString(out, "")
	out = reBoldStars.ReplaceAllString(out, "$1")
	out = reBoldUnder.ReplaceAllString(out, "$1")
	out = reItalStars.ReplaceAllString(out, "$1")
	out = reItalUnder.ReplaceAllString(out, "$1")
	out = reCode.ReplaceAllString(out, "$1")
	out = reLink.ReplaceAllString(out, "$1")
	out = reTableRow.ReplaceAllStringFunc(out, func(m string) string {
		return strings.TrimSpace(strings.ReplaceAll(m, "|", " "))
	})
	out = reBlankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// sentence terminators recognized for both Japanese and Latin prose.
var terminators = []string{"。", "！", "？", ".", "!", "?"}

const maxSentenceRunes = 140

// ToOneSentence collapses the text to a single line and keeps everything
// up to the first sentence terminator. Text with no terminator is
// truncated to a readable length instead.
func ToOneSentence(text string) string {
	if text == "" {
		return ""
	}
	t := strings.TrimSpace(reLineBreak.ReplaceAllString(text, " "))

	cut := -1
	end := 0
	for _, p := range terminators {
		if idx := strings.Index(t, p); idx != -1 {
			if cut == -1 || idx < cut {
				cut = idx
				end = idx + len(p)
			}
		}
	}
	if cut != -1 {
		return strings.TrimSpace(t[:end])
	}

	runes := []rune(t)
	if len(runes) > maxSentenceRunes {
		return strings.TrimSpace(string(runes[:maxSentenceRunes]))
	}
	return t
}
