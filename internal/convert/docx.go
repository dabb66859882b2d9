package convert

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotDocx is returned when the archive has no word/document.xml.
var ErrNotDocx = errors.New("not a docx document")

// readDocx returns one Paragraph per w:p of word/document.xml.
// w:tab becomes '\t' so number/text columns survive.
func readDocx(path string) ([]Paragraph, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotDocx)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

func parseDocumentXML(r io.Reader) ([]Paragraph, error) {
	dec := xml.NewDecoder(r)
	var (
		out    []Paragraph
		cur    strings.Builder
		inPara bool
		inText bool
		depth  int // nested w:p inside text boxes
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					inPara = true
					cur.Reset()
				}
				depth++
			case "t":
				inText = inPara
			case "tab":
				// w:tab also appears as a tab-stop definition inside w:pPr/w:tabs.
				if inPara && !isTabStop(t) {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					cur.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				depth--
				if depth == 0 && inPara {
					inPara = false
					out = append(out, Paragraph{Index: len(out), Text: normalizeText(cur.String())})
				}
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return out, nil
}

// isTabStop reports whether a w:tab element is a tab-stop definition (it has w:pos).
func isTabStop(t xml.StartElement) bool {
	for _, a := range t.Attr {
		if a.Name.Local == "pos" {
			return true
		}
	}
	return false
}
