package dialogue

import (
	"regexp"
	"strings"
)

var (
	stageDirection = regexp.MustCompile(`\[[^\]]*\]`)
	boldRun        = regexp.MustCompile(`\*\*[^*]*\*\*`)
	italicRun      = regexp.MustCompile(`\*([^*]*)\*`)
	headerMarker   = regexp.MustCompile(`(?m)^\s*#+\s*`)
)

// CleanForSpeech strips markup that would be read aloud verbatim:
// bracketed stage directions and bold runs are dropped, italics are
// unwrapped, markdown header markers are removed (the header text itself
// is kept and spoken), and whitespace is collapsed to single spaces.
func CleanForSpeech(text string) string {
	text = stageDirection.ReplaceAllString(text, "")
	text = boldRun.ReplaceAllString(text, "")
	text = italicRun.ReplaceAllString(text, "$1")
	text = headerMarker.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
