package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docFooter = `</w:body></w:document>`

func TestExtractText_Paragraphs(t *testing.T) {
	data := buildDocx(t, docHeader+
		`<w:p><w:r><w:t>Capítulo 1</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Contextualizando o tema.</w:t></w:r></w:p>`+
		docFooter)

	text, err := ExtractText(data)
	require.NoError(t, err)
	assert.Equal(t, "Capítulo 1\nContextualizando o tema.", text)
}

func TestExtractText_SplitRuns(t *testing.T) {
	data := buildDocx(t, docHeader+
		`<w:p><w:r><w:t>Acesse </w:t></w:r><w:r><w:t>https://example.com</w:t></w:r></w:p>`+
		docFooter)

	text, err := ExtractText(data)
	require.NoError(t, err)
	assert.Equal(t, "Acesse https://example.com", text)
}

func TestExtractText_TabsAndBreaks(t *testing.T) {
	data := buildDocx(t, docHeader+
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`+
		docFooter)

	text, err := ExtractText(data)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc", text)
}

func TestExtractText_IgnoresNonTextElements(t *testing.T) {
	data := buildDocx(t, docHeader+
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Título</w:t></w:r></w:p>`+
		docFooter)

	text, err := ExtractText(data)
	require.NoError(t, err)
	assert.Equal(t, "Título", text)
}

func TestExtractText_NFCNormalization(t *testing.T) {
	// Combining cedilla and tilde must normalize to the precomposed forms.
	decomposed := "educac\u0327a\u0303o"
	data := buildDocx(t, docHeader+
		`<w:p><w:r><w:t>`+decomposed+`</w:t></w:r></w:p>`+
		docFooter)

	text, err := ExtractText(data)
	require.NoError(t, err)
	assert.Equal(t, "educa\u00e7\u00e3o", text)
}

func TestExtractText_NotAZip(t *testing.T) {
	_, err := ExtractText([]byte("plain old text, maybe a legacy .doc"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractText_ZipWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = ExtractText(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
