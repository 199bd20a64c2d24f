// Package docx extracts plain text from Word documents. Only the OOXML
// container format (.docx) is supported; the legacy binary .doc format is
// rejected as an input error.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedFormat marks inputs that are not OOXML containers.
var ErrUnsupportedFormat = eris.New("docx: unsupported document format")

const documentEntry = "word/document.xml"

// ExtractText reads the main document part of a .docx payload and returns
// its text, one paragraph per line, NFC-normalized.
func ExtractText(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(ErrUnsupportedFormat, err.Error())
	}

	var doc *zip.File
	for _, f := range r.File {
		if f.Name == documentEntry {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", eris.Wrap(ErrUnsupportedFormat, "missing "+documentEntry)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", eris.Wrap(err, "docx: open document part")
	}
	defer rc.Close()

	text, err := extractParagraphs(rc)
	if err != nil {
		return "", eris.Wrap(err, "docx: parse document part")
	}
	return norm.NFC.String(text), nil
}

// extractParagraphs walks the WordprocessingML stream, collecting the text
// of <w:t> runs and breaking lines at paragraph ends. Tabs and explicit
// line breaks inside a run become whitespace.
func extractParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var b strings.Builder
	var para strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				line := strings.TrimRight(para.String(), " \t")
				para.Reset()
				if line != "" || b.Len() > 0 {
					b.WriteString(line)
					b.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	if para.Len() > 0 {
		b.WriteString(para.String())
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
