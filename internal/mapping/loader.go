package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFile loads a descriptor file; .json files are read as JSON, anything
// else as YAML.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor file %s: %w", path, err)
	}

	var f *File
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err = ParseJSON(data)
	} else {
		f, err = Parse(data)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f.Path = path

	return f, nil
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor YAML: %w", err)
	}

	return finish(&f)
}

// ParseJSON parses JSON data into a File.
func ParseJSON(data []byte) (*File, error) {
	var f File

	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor JSON: %w", err)
	}

	return finish(&f)
}

func finish(f *File) (*File, error) {
	applyDefaults(f)

	if f.Version != CurrentVersion {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedVersion, f.Version)
	}

	return f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}

	if f.Package == "" {
		return
	}

	for i := range f.Classes {
		if f.Classes[i].Package == "" {
			f.Classes[i].Package = f.Package
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to path as YAML.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write descriptor file %s: %w", path, err)
	}

	return nil
}

// Glob expands doublestar patterns relative to root into a sorted,
// de-duplicated list of file paths. A pattern matching nothing is an error.
func Glob(root string, patterns ...string) ([]string, error) {
	fsys := os.DirFS(root)

	var out []string

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matches no files", pattern)
		}

		for _, m := range matches {
			out = append(out, filepath.Join(root, filepath.FromSlash(m)))
		}
	}

	slices.Sort(out)

	return slices.Compact(out), nil
}

// LoadGlob loads every file matched by patterns.
func LoadGlob(root string, patterns ...string) ([]*File, error) {
	paths, err := Glob(root, patterns...)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(paths))

	for _, path := range paths {
		f, err := LoadFile(path)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	return files, nil
}
