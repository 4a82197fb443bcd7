package script

import "strings"

// parseResponse splits a sectioned completion into title, Korean title, and
// script body. Models occasionally skip the header lines; absent sections
// fall back to defaults rather than failing the generation.
func parseResponse(text string) *Script {
	s := &Script{
		Title:       "Generated Script",
		KoreanTitle: "",
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "ENGLISH TITLE:"); ok {
			if t := strings.TrimSpace(after); t != "" {
				s.Title = t
			}
		} else if after, ok := strings.CutPrefix(trimmed, "KOREAN TITLE:"); ok {
			s.KoreanTitle = strings.TrimSpace(after)
		}
	}

	if idx := strings.Index(text, "SCRIPT:"); idx != -1 {
		s.Text = strings.TrimSpace(text[idx+len("SCRIPT:"):])
	} else {
		s.Text = strings.TrimSpace(text)
	}
	return s
}
