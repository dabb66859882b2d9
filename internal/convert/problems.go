package convert

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Difficulty markers. The source sometimes carries a degree sign (or the
// look-alike ordinal indicator) where the printed book has a star.
const (
	starMarker   = "*"
	difficultSet = "*°º"
)

var (
	mainNumRe     = regexp.MustCompile(`^(\d+)\s*\.+$`)
	bareMainNumRe = regexp.MustCompile(`^(\d+)$`)
	mainWithSubRe = regexp.MustCompile(`(?i)^(\d+)\.\s*([а-яёa-z\d]{1,2})\)\.?$`)
	subNumRe      = regexp.MustCompile(`(?i)^([а-яёa-z\d]{1,2})\)\.?$`)
)

type problemParser struct {
	profile  Profile
	chapters *chapterMatcher
	log      *zap.Logger

	mainNum    string
	mainMarked bool
	chapter    int
	last       int
	out        []Problem
	seen       map[string]bool
}

// ParseProblems walks the body of the book up to the answers section and
// rebuilds problem / sub-problem / chapter numbering from tab-separated lines.
func ParseProblems(paras []Paragraph, sections []Section, profile Profile, log *zap.Logger) []Problem {
	if log == nil {
		log = zap.NewNop()
	}
	profile = profile.withDefaults()
	p := &problemParser{
		profile:  profile,
		chapters: newChapterMatcher(sections, profile.TrimChars),
		log:      log,
		last:     -1,
		seen:     make(map[string]bool),
	}
	for _, para := range paras {
		if strings.Contains(para.Text, profile.AnswersMarker) {
			break
		}
		p.line(para)
	}
	return p.out
}

func (p *problemParser) line(para Paragraph) {
	text := strings.TrimSpace(para.Text)
	if text == "" {
		return
	}
	if p.isSkipPhrase(text) {
		p.last = -1
		return
	}
	if id, ok := p.chapters.Match(text); ok {
		p.chapter = id
		p.last = -1
		p.mainNum = ""
		p.mainMarked = false
		p.log.Debug("chapter", zap.Int("paragraph", para.Index), zap.Int("section_id", id))
		return
	}

	numPart, rest, hasTab := strings.Cut(text, "\t")
	if !hasTab {
		p.continuation(para.Index, text)
		return
	}
	numPart = strings.TrimSpace(numPart)
	segs := splitTabs(rest)
	if len(segs) == 0 {
		p.log.Debug("number without text", zap.Int("paragraph", para.Index), zap.String("number", numPart))
		return
	}

	if strings.Contains(numPart, ".") {
		p.mainLine(para.Index, text, numPart, segs)
		return
	}
	p.subLine(para.Index, text, numPart, segs)
}

func (p *problemParser) mainLine(idx int, text, numPart string, segs []string) {
	raw, marked := stripMarkers(numPart)

	// "12.а)\tтекст": number and first sub-part share a cell.
	if m := mainWithSubRe.FindStringSubmatch(raw); m != nil {
		p.mainNum, p.mainMarked = m[1]+".", marked
		p.pairs(idx, append([]string{m[2] + ")"}, segs...), false)
		return
	}

	m := mainNumRe.FindStringSubmatch(strings.ReplaceAll(raw, " ", ""))
	if m == nil {
		p.log.Debug("not a problem number", zap.Int("paragraph", idx), zap.String("number", numPart))
		p.continuation(idx, text)
		return
	}
	p.mainNum, p.mainMarked = m[1]+".", marked

	if isSubNumber(segs[0]) {
		p.pairs(idx, segs, false)
		return
	}
	p.emit(p.mainNum, strings.Join(segs, " "), marked)
}

// subLine handles a number cell without a dot: "б)\tтекст" or "3\tтекст".
// Both are parts of the current problem; a bare number seen before any
// problem starts one.
func (p *problemParser) subLine(idx int, text, numPart string, segs []string) {
	if bareMainNumRe.MatchString(strings.TrimSpace(stripMarkersOnly(numPart))) {
		if p.mainNum == "" {
			p.mainLine(idx, text, numPart+".", segs)
			return
		}
		sub, marked := cleanSubNumber(numPart)
		p.emit(p.mainNum+sub, segs[0], marked || p.mainMarked)
		p.pairs(idx, segs[1:], true)
		return
	}
	if !isSubNumber(numPart) {
		p.continuation(idx, text)
		return
	}
	if p.mainNum == "" {
		p.log.Warn("sub-problem before any problem number", zap.Int("paragraph", idx), zap.String("number", numPart))
		return
	}
	p.pairs(idx, append([]string{numPart}, segs...), true)
}

// pairs emits "label, text, label, text, ..." sequences under the current main number.
// A text segment with no label in front of it is appended to the previous row;
// a label with no text after it is dropped.
func (p *problemParser) pairs(idx int, segs []string, fromSub bool) {
	for i := 0; i < len(segs); {
		if !isSubNumber(segs[i]) {
			p.log.Debug("ambiguous tab split", zap.Int("paragraph", idx), zap.String("segment", segs[i]), zap.Bool("sub_line", fromSub))
			p.appendLast(segs[i])
			i++
			continue
		}
		if i+1 == len(segs) || isSubNumber(segs[i+1]) {
			p.log.Warn("sub-problem without text", zap.Int("paragraph", idx),
				zap.String("id", p.mainNum), zap.String("label", segs[i]))
			i++
			continue
		}
		sub, marked := cleanSubNumber(segs[i])
		p.emit(p.mainNum+sub, segs[i+1], marked || p.mainMarked)
		i += 2
	}
}

func (p *problemParser) emit(id, text string, marked bool) {
	text = collapseSpaces(text)
	level := 1
	if marked {
		text = starMarker + text
		level = 2
	}
	if p.seen[id] {
		p.log.Warn("duplicate problem id", zap.String("id", id))
	}
	p.seen[id] = true
	p.out = append(p.out, Problem{
		ID:        id,
		Text:      text,
		Paragraph: p.chapter,
		Classes:   p.profile.Classes,
		TopicID:   p.profile.TopicID,
		Level:     level,
	})
	p.last = len(p.out) - 1
}

// continuation merges a paragraph without its own number into the previous problem.
func (p *problemParser) continuation(idx int, text string) {
	if !p.profile.MergeContinuations || p.last < 0 {
		p.log.Debug("skip unnumbered paragraph", zap.Int("paragraph", idx))
		return
	}
	p.appendLast(text)
}

func (p *problemParser) appendLast(text string) {
	text = collapseSpaces(text)
	if p.last < 0 || text == "" {
		return
	}
	prev := &p.out[p.last]
	if prev.Text == "" {
		prev.Text = text
		return
	}
	prev.Text += " " + text
}

func (p *problemParser) isSkipPhrase(text string) bool {
	t := strings.TrimRight(stripTrailingPage(collapseSpaces(text)), ". ")
	for _, s := range p.profile.SkipPhrases {
		if strings.EqualFold(t, s) {
			return true
		}
	}
	return false
}

func splitTabs(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, "\t") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// stripMarkers removes difficulty markers and reports whether any were present.
func stripMarkers(s string) (string, bool) {
	clean := stripMarkersOnly(s)
	return strings.TrimSpace(clean), clean != s
}

func stripMarkersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(difficultSet, r) {
			return -1
		}
		return r
	}, s)
}

func isSubNumber(s string) bool {
	clean, _ := stripMarkers(s)
	return subNumRe.MatchString(clean)
}

// cleanSubNumber turns "б)", "б*)" or "б)." into "б".
func cleanSubNumber(s string) (string, bool) {
	clean, marked := stripMarkers(s)
	clean = strings.TrimRight(clean, ".")
	clean = strings.TrimSuffix(clean, ")")
	return strings.TrimSpace(clean), marked
}
