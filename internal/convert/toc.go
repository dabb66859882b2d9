package convert

import (
	"regexp"
	"strings"
)

// ToC lines: "1. Натуральные числа 3" and "1.2. Задачи на движение 15".
var (
	tocSectionRe    = regexp.MustCompile(`^(\d+)\.\s+(.*?)\s*\d*$`)
	tocSubsectionRe = regexp.MustCompile(`^(\d+\.\d+)\.\s+(.*?)\s*\d*$`)
)

// ParseToC reads the table of contents that follows the marker paragraph.
// Entries end at the first empty paragraph. Sections are numbered from 1.
func ParseToC(paras []Paragraph, marker string) []Section {
	if marker == "" {
		marker = defaultToCMarker
	}
	var (
		out        []Section
		found      bool
		lastMainID int
	)
	for _, p := range paras {
		text := strings.TrimSpace(p.Text)
		if !found {
			if strings.EqualFold(text, marker) {
				found = true
			}
			continue
		}
		if text == "" {
			break
		}
		if s, ok := matchToC(normalizeDotLeaders(text)); ok {
			s.ID = len(out) + 1
			if s.Depth == 1 {
				lastMainID = s.ID
			} else {
				s.Parent = lastMainID
			}
			out = append(out, s)
		}
	}
	return out
}

func matchToC(line string) (Section, bool) {
	if m := tocSectionRe.FindStringSubmatch(line); m != nil {
		title := strings.TrimSpace(m[2])
		return Section{Number: m[1], Title: title, Name: m[1] + "." + title, Depth: 1}, true
	}
	if m := tocSubsectionRe.FindStringSubmatch(line); m != nil {
		title := strings.TrimSpace(m[2])
		return Section{Number: m[1], Title: title, Name: m[1] + "." + title, Depth: 2}, true
	}
	return Section{}, false
}
