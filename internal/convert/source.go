package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedSource is returned for files that are neither .docx nor .pdf.
var ErrUnsupportedSource = errors.New("unsupported source document")

// ReadParagraphs loads the source document as an ordered list of paragraphs.
func ReadParagraphs(path string) ([]Paragraph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return readDocx(path)
	case ".pdf":
		return readPDF(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedSource)
	}
}

// ValidateSource checks that path is a regular file of a supported type.
func ValidateSource(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx", ".pdf":
		return nil
	}
	return fmt.Errorf("%s: %w", path, ErrUnsupportedSource)
}
