// Package source holds the file-based collaborators feeding the
// pipeline: the baseline LaTeX resume, the serialized candidate
// profile, the job description text, and the .tex output writer.
// All content is treated as opaque text, never parsed.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadBaselineResume reads the baseline LaTeX resume.
func ReadBaselineResume(path string) (string, error) {
	return readText(path, "baseline resume")
}

// ReadProfile reads the serialized candidate profile. The content is
// passed through verbatim into the prompt.
func ReadProfile(path string) (string, error) {
	return readText(path, "candidate profile")
}

// ReadJobText reads the job description from a local file. Scraping a
// job board is out of scope; callers supply the text on disk.
func ReadJobText(path string) (string, error) {
	return readText(path, "job description")
}

func readText(path, what string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s %s: %w", what, path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteTex saves a generated document to path, appending the .tex
// extension when missing. An existing file is overwritten.
func WriteTex(path, document string) error {
	if filepath.Ext(path) != ".tex" {
		path += ".tex"
	}
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return fmt.Errorf("write tex file %s: %w", path, err)
	}
	return nil
}
