package convert

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoAnswers is returned when the answers marker is not in the document.
var ErrNoAnswers = errors.New("answers section not found")

var (
	answerNumRe   = regexp.MustCompile(`(\d+)\.`)
	answerItemRe  = regexp.MustCompile(`^([а-яё]\)|\d+\))?\s*([^;.]*[;.]?)`)
	answerTrailRe = regexp.MustCompile(`[.,;]$`)
)

// ParseAnswers reads the "answers and hints" section and returns answers keyed
// by problem id ("12." or "12.а"). A later answer for the same id wins.
func ParseAnswers(paras []Paragraph, profile Profile) (map[string]string, error) {
	profile = profile.withDefaults()
	lines := make([]string, len(paras))
	for i, p := range paras {
		lines[i] = p.Text
	}
	full := strings.Join(lines, "\n")

	start := strings.Index(full, profile.AnswersMarker)
	if start < 0 {
		return nil, ErrNoAnswers
	}
	section := full[start:]
	if end := strings.Index(section, profile.ToCMarker); end >= 0 {
		section = section[:end]
	}

	out := make(map[string]string)
	for _, b := range answerBlocks(section) {
		for _, item := range strings.Split(b.content, ";") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			m := answerItemRe.FindStringSubmatch(item)
			if m == nil {
				continue
			}
			id := b.main + "."
			if m[1] != "" {
				id += strings.TrimSuffix(m[1], ")")
			}
			answer := strings.TrimSpace(answerTrailRe.ReplaceAllString(strings.TrimSpace(m[2]), ""))
			if answer == "" {
				continue
			}
			out[id] = answer
		}
	}
	return out, nil
}

type answerBlock struct {
	main    string
	content string
}

// answerBlocks splits the section at every "<digits>." token; each block's
// content runs up to the next token.
func answerBlocks(section string) []answerBlock {
	idx := answerNumRe.FindAllStringSubmatchIndex(section, -1)
	out := make([]answerBlock, 0, len(idx))
	for i, m := range idx {
		end := len(section)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		out = append(out, answerBlock{
			main:    section[m[2]:m[3]],
			content: strings.TrimSpace(section[m[1]:end]),
		})
	}
	return out
}

// ApplyAnswers fills Answer on each problem and returns how many were found.
// Problems with no answer get the missing placeholder.
func ApplyAnswers(problems []Problem, answers map[string]string, missing string) int {
	found := 0
	for i := range problems {
		if a, ok := answers[problems[i].ID]; ok {
			problems[i].Answer = a
			found++
			continue
		}
		problems[i].Answer = missing
	}
	return found
}
