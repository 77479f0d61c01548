package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// GeneratedFile represents a rendered Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "person.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// WriteRejected writes source the compiler rejected to a sidecar file, so it
// can be inspected next to the diagnostics. Best-effort: an empty directory
// disables it.
func WriteRejected(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}
	// Keep it a .go file so editors can syntax highlight it.
	name := strings.TrimSuffix(filename, ".go") + ".rejected.go"

	return os.WriteFile(filepath.Join(outDir, name), content, filePerm)
}
