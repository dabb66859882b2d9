package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/taskbook/internal/convert"
)

// LoadProfile reads a book profile. Fields missing from the file keep their
// values from convert.DefaultProfile; an empty path returns the default.
func LoadProfile(path string) (convert.Profile, error) {
	p := convert.DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// WriteProfile writes p as YAML, for use as a starting point for a new book.
func WriteProfile(path string, p convert.Profile) error {
	var buf bytes.Buffer
	buf.WriteString("# taskbook book profile\n# skip_phrases are section headings that never start a problem\n\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
