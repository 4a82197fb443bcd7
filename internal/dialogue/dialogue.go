// Package dialogue extracts ordered speaker turns from two-party
// dialogue scripts and prepares utterance text for speech synthesis.
package dialogue

import "strings"

// Role names one side of a two-party dialogue.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
	RoleA     Role = "a"
	RoleB     Role = "b"
)

// Kind selects the speaker-marker vocabulary of a dialogue script.
type Kind string

const (
	KindPodcast Kind = "podcast" // Host:/Guest: lines
	KindDialog  Kind = "dialog"  // A:/B: lines
)

// Turn is one speaker's utterance. Order is the zero-based position in
// the source text and is the correctness invariant downstream: clips are
// synthesized and concatenated strictly in Order.
type Turn struct {
	Role  Role   `json:"role"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// Roles returns the two roles of a kind, first speaker first.
func Roles(kind Kind) [2]Role {
	if kind == KindDialog {
		return [2]Role{RoleA, RoleB}
	}
	return [2]Role{RoleHost, RoleGuest}
}

// Alternate marker names seen in generated scripts. Matched against the
// text left of the first colon, on word boundaries: a marker like
// "Narrator:" must not match role "a" just because it contains the letter.
var synonyms = map[Role][]string{
	RoleHost:  {"host", "presenter", "interviewer"},
	RoleGuest: {"guest", "interviewee", "speaker"},
	RoleA:     {"a", "person a", "speaker a"},
	RoleB:     {"b", "person b", "speaker b"},
}

// ExtractTurns scans line-oriented dialogue text and returns the ordered
// turns. Lines whose leading "role:" marker matches the kind's vocabulary
// become turns; everything else (stage directions, setting lines, blank
// lines) is dropped. If no line matches, the whole cleaned text becomes a
// single turn for the first role so the caller can still voice something.
func ExtractTurns(text string, kind Kind) []Turn {
	roles := Roles(kind)

	var turns []Turn
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		role, utterance, ok := splitMarker(line, roles)
		if !ok {
			continue
		}
		cleaned := CleanForSpeech(utterance)
		if cleaned == "" {
			continue
		}
		turns = append(turns, Turn{Role: role, Text: cleaned, Order: len(turns)})
	}

	if len(turns) == 0 {
		if cleaned := CleanForSpeech(text); cleaned != "" {
			turns = append(turns, Turn{Role: roles[0], Text: cleaned, Order: 0})
		}
	}
	return turns
}

// splitMarker matches a leading speaker marker. Exact "role:" prefixes
// win; otherwise the text before the first colon is checked against the
// role synonyms.
func splitMarker(line string, roles [2]Role) (Role, string, bool) {
	lower := strings.ToLower(line)
	for _, role := range roles {
		prefix := string(role) + ":"
		if strings.HasPrefix(lower, prefix) {
			return role, line[len(prefix):], true
		}
	}

	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	marker := strings.ToLower(strings.TrimSpace(line[:idx]))
	for _, role := range roles {
		for _, syn := range synonyms[role] {
			if matchesWord(marker, syn) {
				return role, line[idx+1:], true
			}
		}
	}
	return "", "", false
}

// matchesWord reports whether syn occurs in marker as whole words.
func matchesWord(marker, syn string) bool {
	if marker == syn {
		return true
	}
	padded := " " + strings.Join(strings.Fields(marker), " ") + " "
	return strings.Contains(padded, " "+syn+" ")
}
