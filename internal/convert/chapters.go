package convert

import (
	"regexp"
	"strings"
)

var (
	headingNumRe   = regexp.MustCompile(`^(\d+\.(?:\d+\.?)?)\s*(.*)$`)
	numberSpacesRe = regexp.MustCompile(`(\d+\.\d*\.?)\s+`)
)

// chapterMatcher resolves body headings to table-of-contents ids.
type chapterMatcher struct {
	byName    map[string]int
	byNumber  map[string][]Section
	trimChars int
}

func newChapterMatcher(sections []Section, trimChars int) *chapterMatcher {
	m := &chapterMatcher{
		byName:    make(map[string]int, len(sections)),
		byNumber:  make(map[string][]Section),
		trimChars: trimChars,
	}
	for _, s := range sections {
		m.byName[s.Name] = s.ID
		num := canonicalNumber(s.Number)
		m.byNumber[num] = append(m.byNumber[num], s)
	}
	return m
}

// headingKey rewrites "1.2. Задачи на движение  15" as "1.2.Задачи на движение".
func headingKey(text string) string {
	text = collapseSpaces(text)
	text = numberSpacesRe.ReplaceAllString(text, "$1")
	return stripTrailingPage(text)
}

// canonicalNumber makes "1", "1." and "1.2" comparable as "1." and "1.2.".
func canonicalNumber(n string) string {
	n = strings.TrimSpace(n)
	if !strings.HasSuffix(n, ".") {
		n += "."
	}
	return n
}

// Match returns the section id for a heading paragraph. Tabs count as
// spaces, so "1.2.\tЗадачи" matches like "1.2. Задачи".
func (m *chapterMatcher) Match(text string) (int, bool) {
	if len(m.byName) == 0 {
		return 0, false
	}
	text = collapseSpaces(text)
	if !headingNumRe.MatchString(text) {
		return 0, false
	}
	key := headingKey(text)
	if id, ok := m.byName[key]; ok {
		return id, true
	}
	if id, ok := m.byName[strings.TrimRight(key, ".")]; ok {
		return id, true
	}

	parts := headingNumRe.FindStringSubmatch(text)
	if parts == nil {
		return 0, false
	}
	title := strings.ToLower(strings.TrimRight(stripTrailingPage(parts[2]), ". "))
	if title == "" {
		return 0, false
	}
	for _, s := range m.byNumber[canonicalNumber(parts[1])] {
		if fuzzySuffixEqual(title, strings.ToLower(strings.TrimRight(s.Title, ". ")), m.trimChars) {
			return s.ID, true
		}
	}
	return 0, false
}

// fuzzySuffixEqual reports whether a and b agree once at most n trailing
// runes are dropped from either side.
func fuzzySuffixEqual(a, b string, n int) bool {
	if a == b {
		return true
	}
	return suffixTrimmedPrefix(a, b, n) || suffixTrimmedPrefix(b, a, n)
}

func suffixTrimmedPrefix(short, long string, n int) bool {
	const minRunes = 3
	for k := 0; k <= n; k++ {
		s := trimRunes(short, k)
		if runeLen(s) < minRunes {
			return false
		}
		if strings.HasPrefix(long, s) && runeLen(long)-runeLen(s) <= n {
			return true
		}
	}
	return false
}
