// Package output assembles rendered lines into documents and delivers
// them to their destinations: an accumulated string, a live writer, or a
// saved file.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ydayan/ftd/internal/types"
)

const (
	// rootLineSuffix marks the root directory line.
	rootLineSuffix = "/"
	// lineSeparator terminates every emitted line, including the last.
	lineSeparator = "\n"

	// DefaultSaveSuffix names the default output file next to the root.
	DefaultSaveSuffix = "_tree.txt"

	// tallyLineFormat reports accepted entry counts after a buffered render.
	tallyLineFormat = "%d directories, %d files"

	// savedFilePermissions restricts the saved document to the owner.
	savedFilePermissions = 0o600

	// errorSaveFormat reports a failed document save.
	errorSaveFormat = "saving tree to %s: %w"
)

// RootLine renders the heading line for a root directory.
func RootLine(rootPath string) string {
	return filepath.Base(filepath.Clean(rootPath)) + rootLineSuffix
}

// BuildDocument concatenates the optional title, the root line, and every
// entry line into the buffered document. Each line, including the last,
// ends with a newline so streamed and buffered content stay byte identical.
func BuildDocument(title string, rootLine string, lines []string) string {
	var builder strings.Builder
	if title != "" {
		builder.WriteString(title)
		builder.WriteString(lineSeparator)
	}
	builder.WriteString(rootLine)
	builder.WriteString(lineSeparator)
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteString(lineSeparator)
	}
	return builder.String()
}

// LineWriter returns an emit function that forwards each line, newline
// terminated, to writer as soon as it is produced.
func LineWriter(writer io.Writer) func(line string) error {
	return func(line string) error {
		_, writeError := io.WriteString(writer, line+lineSeparator)
		return writeError
	}
}

// DefaultSavePath places the saved document next to the root directory.
func DefaultSavePath(rootPath string) string {
	cleanRoot := filepath.Clean(rootPath)
	return filepath.Join(filepath.Dir(cleanRoot), filepath.Base(cleanRoot)+DefaultSaveSuffix)
}

// SaveDocument writes the document to destinationPath.
func SaveDocument(destinationPath string, document string) error {
	if writeError := os.WriteFile(destinationPath, []byte(document), savedFilePermissions); writeError != nil {
		return fmt.Errorf(errorSaveFormat, destinationPath, writeError)
	}
	return nil
}

// FormatTallyLine renders the entry-count report for a buffered render.
func FormatTallyLine(tally types.EntryTally) string {
	return fmt.Sprintf(tallyLineFormat, tally.Directories, tally.Files)
}
