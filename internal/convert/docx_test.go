package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentXML(t *testing.T) {
	doc := `<w:document xmlns:w="` + wordNS + `"><w:body>` +
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>12.</w:t></w:r><w:r><w:tab/></w:r>` +
		`<w:r><w:t xml:space="preserve">Текст </w:t></w:r><w:r><w:t>задачи</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>a</w:t><w:br/><w:t>b</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>x&#160;y</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := parseDocumentXML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "12.\tТекст задачи", got[0].Text)
	assert.Equal(t, "a b", got[1].Text)
	assert.Equal(t, "", got[2].Text)
	assert.Equal(t, "x y", got[3].Text)
	for i, p := range got {
		assert.Equal(t, i, p.Index)
	}
}

func TestParseDocumentXMLMalformed(t *testing.T) {
	_, err := parseDocumentXML(strings.NewReader(`<w:document><w:body><w:p>`))
	require.Error(t, err)
}

func TestReadDocx(t *testing.T) {
	path := writeDocx(t, "1.\tПервая", "Вторая строка")

	got, err := ReadParagraphs(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1.\tПервая", got[0].Text)
	assert.Equal(t, "Вторая строка", got[1].Text)
}

func TestReadDocxWithoutDocument(t *testing.T) {
	path := writeZip(t, "empty.docx", map[string]string{"word/styles.xml": "<styles/>"})

	_, err := ReadParagraphs(path)
	require.ErrorIs(t, err, ErrNotDocx)
}

func TestValidateSource(t *testing.T) {
	t.Run("docx ok", func(t *testing.T) {
		require.NoError(t, ValidateSource(writeDocx(t, "x")))
	})
	t.Run("missing file", func(t *testing.T) {
		require.Error(t, ValidateSource("/nonexistent/book.docx"))
	})
	t.Run("directory", func(t *testing.T) {
		require.Error(t, ValidateSource(t.TempDir()))
	})
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeZip(t, "book.odt", map[string]string{"content.xml": "<x/>"})
		require.ErrorIs(t, ValidateSource(path), ErrUnsupportedSource)
	})
}
