package convert

import (
	"fmt"
	"math"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"
)

const (
	// Gaps are measured in multiples of the font size.
	pdfSpaceGap = 0.2
	pdfTabGap   = 2.0
	pdfLineTol  = 0.5
)

// readPDF rebuilds text lines from positioned glyphs; each line is a Paragraph.
func readPDF(path string) (paras []Paragraph, err error) {
	doc, err := rpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	// rsc.io/pdf panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, ln := range pdfLines(p.Content().Text) {
			paras = append(paras, Paragraph{Index: len(paras), Text: normalizeText(ln)})
		}
	}
	return paras, nil
}

// pdfLines groups glyph runs by baseline, top to bottom, and joins them left to right.
func pdfLines(texts []rpdf.Text) []string {
	if len(texts) == 0 {
		return nil
	}
	ts := make([]rpdf.Text, len(texts))
	copy(ts, texts)
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].Y > ts[j].Y })

	var groups [][]rpdf.Text
	for _, t := range ts {
		if n := len(groups); n > 0 && sameLine(groups[n-1][0], t) {
			groups[n-1] = append(groups[n-1], t)
			continue
		}
		groups = append(groups, []rpdf.Text{t})
	}

	out := make([]string, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].X < g[j].X })
		out = append(out, joinRuns(g))
	}
	return out
}

func joinRuns(g []rpdf.Text) string {
	var b strings.Builder
	b.WriteString(g[0].S)
	prev := g[0]
	for _, t := range g[1:] {
		size := math.Max(t.FontSize, 1)
		gap := t.X - (prev.X + prev.W)
		switch {
		case gap > pdfTabGap*size:
			b.WriteByte('\t')
		case gap > pdfSpaceGap*size && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " "):
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prev = t
	}
	return b.String()
}

func sameLine(a, b rpdf.Text) bool {
	size := math.Max(math.Max(a.FontSize, b.FontSize), 1)
	return math.Abs(a.Y-b.Y) < pdfLineTol*size
}
