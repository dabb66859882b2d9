package classify

import (
	"regexp"
	"strings"
)

type substitution struct {
	re   *regexp.Regexp
	with string
}

// Applied in order inside each formula.
var formulaSubs = []substitution{
	{regexp.MustCompile(`\\frac`), " / "},
	{regexp.MustCompile(`\\cdot`), " · "},
	{regexp.MustCompile(`\\times`), " × "},
	{regexp.MustCompile(`\\div`), " ÷ "},
	{regexp.MustCompile(`\\leq`), " ≤ "},
	{regexp.MustCompile(`\\geq`), " ≥ "},
	{regexp.MustCompile(`\\neq`), " ≠ "},
	{regexp.MustCompile(`\\approx`), " ≈ "},
	{regexp.MustCompile(`\\rightarrow`), " → "},
	{regexp.MustCompile(`\\leftarrow`), " ← "},
	{regexp.MustCompile(`\\leftrightarrow`), " ↔ "},
	{regexp.MustCompile(`\\partial`), " ∂ "},
	{regexp.MustCompile(`\\infty`), " ∞ "},
	{regexp.MustCompile(`\\pi`), " π "},
	{regexp.MustCompile(`\\int`), " <INT> "},
	{regexp.MustCompile(`\\sum`), " <SUM> "},
	{regexp.MustCompile(`\\lim`), " <LIM> "},
	{regexp.MustCompile(`\\sqrt`), " <SQRT> "},
	{regexp.MustCompile(`[{}^_\\]`), " "},
	{regexp.MustCompile(`\s+`), " "},
}

var (
	formulaRes = []*regexp.Regexp{
		regexp.MustCompile(`\\\((.*?)\\\)`),
		regexp.MustCompile(`\\\[(.*?)\\\]`),
		regexp.MustCompile(`\$(.*?)\$`),
	}
	wsRe = regexp.MustCompile(`\s+`)
)

// PreprocessLaTeX rewrites inline formulas into plain symbols and lower-cases
// the text, the way the classifier was trained.
func PreprocessLaTeX(text string) string {
	for _, re := range formulaRes {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			sub := re.FindStringSubmatch(m)
			formula := sub[1]
			for _, s := range formulaSubs {
				formula = s.re.ReplaceAllLiteralString(formula, s.with)
			}
			return " " + strings.TrimSpace(formula) + " "
		})
	}
	return strings.ToLower(strings.TrimSpace(wsRe.ReplaceAllString(text, " ")))
}
