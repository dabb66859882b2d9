package convert

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	dotLeaders  = regexp.MustCompile(`(?:\s*\.){3,}\s*|…+`)
	spaceRuns   = regexp.MustCompile(`[ \t\x{00A0}]+`)
	trailingNum = regexp.MustCompile(`\s+\d+$`)
)

// normalizeText applies NFC and replaces non-breaking spaces, keeping tabs.
func normalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u202f", " ")
	return strings.TrimSpace(s)
}

// normalizeDotLeaders turns ToC leaders ("Title ........ 12", "Title\t12") into single spaces.
func normalizeDotLeaders(s string) string {
	s = strings.ReplaceAll(s, "•", " ")
	s = strings.ReplaceAll(s, "·", " ")
	s = dotLeaders.ReplaceAllString(s, " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// collapseSpaces turns tabs and space runs into single spaces.
func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}

func stripTrailingPage(s string) string {
	return trailingNum.ReplaceAllString(s, "")
}

func trimRunes(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return ""
	}
	return string(r[:len(r)-n])
}

func runeLen(s string) int { return len([]rune(s)) }
