package convert

import (
	"archive/zip"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// documentXML renders lines as w:p elements; '\t' becomes a w:tab run.
func documentXML(lines ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="` + wordNS + `"><w:body>`)
	for _, line := range lines {
		b.WriteString("<w:p>")
		for i, part := range strings.Split(line, "\t") {
			if i > 0 {
				b.WriteString("<w:r><w:tab/></w:r>")
			}
			if part == "" {
				continue
			}
			b.WriteString(`<w:r><w:t xml:space="preserve">`)
			_ = xml.EscapeText(&b, []byte(part))
			b.WriteString("</w:t></w:r>")
		}
		b.WriteString("</w:p>")
	}
	b.WriteString("</w:body></w:document>")
	return b.String()
}

// writeDocx builds a minimal .docx in a temp dir.
func writeDocx(t *testing.T, lines ...string) string {
	t.Helper()
	return writeZip(t, "book.docx", map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   documentXML(lines...),
	})
}

func writeZip(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for n, body := range files {
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func paragraphs(lines ...string) []Paragraph {
	out := make([]Paragraph, len(lines))
	for i, l := range lines {
		out[i] = Paragraph{Index: i, Text: l}
	}
	return out
}

// sampleBook is a small book laid out like the real one: body, answers, then
// the table of contents at the end.
var sampleBook = []string{
	"1. Натуральные числа",
	"1.1. Сложение и вычитание",
	"1.\tНайдите сумму чисел 2 и 3.",
	"2*.\tа)\tТекст а\tб)\tТекст б",
	"в)\tТекст в",
	"Продолжение текста.",
	"Натуральные числа",
	"Висячий текст",
	"3 .\tБез точки",
	"1.2.\tЗадачи на движение",
	"4.\tПоезд идёт 60 км/ч.",
	"Ответы и советы",
	"1. Пять. 2. а) 7; б) 8; в) девять. 4. 120 км.",
	"",
	"Оглавление",
	"1. Натуральные числа 3",
	"1.1. Сложение и вычитание 5",
	"1.2. Задачи на движение 9",
}
