// Package render implements the traversal and line-emission core: the
// recursive depth-first walk that filters, orders, and renders directory
// entries with connector glyphs and prefix continuation tracking.
package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ydayan/ftd/internal/filter"
	"github.com/ydayan/ftd/internal/sortkey"
	"github.com/ydayan/ftd/internal/types"
)

const (
	// markerPermissionDenied is emitted in place of an unreadable subtree.
	markerPermissionDenied = "[Permission Denied]"
	// markerReadError is emitted when a subdirectory listing fails for any other reason.
	markerReadError = "[Error reading directory]"

	// errorReadRootFormat reports a listing failure at the root, which aborts the render.
	errorReadRootFormat = "reading root directory %s: %w"
	// errorNotADirectoryFormat reports a root path that is not a directory.
	errorNotADirectoryFormat = "%w: %s"
	// errorStatRootFormat reports a root path that cannot be inspected.
	errorStatRootFormat = "inspecting root directory %s: %w"

	// warningSkipSubdirFormat describes a subtree replaced by a marker line.
	warningSkipSubdirFormat = "skipping subdirectory %s: %v"
)

// ErrNotADirectory indicates the configured root path is not a directory.
var ErrNotADirectory = errors.New("the path is not a directory")

// ErrMissingComparator indicates sorting was requested without a comparator.
var ErrMissingComparator = errors.New("sort comparator must be resolved before rendering")

// ErrInvalidIndent indicates a non-positive indent width.
var ErrInvalidIndent = errors.New("indent width must be positive")

// EmitFunc receives one rendered line. Returning an error stops the walk.
type EmitFunc func(line string) error

// Config aggregates everything one render invocation needs. It is built
// once, validated eagerly by New, and read-only during traversal.
type Config struct {
	// RootPath is the directory whose subtree is rendered.
	RootPath string
	// DirectoryFilter and FileFilter accept or reject entry names per axis.
	// A nil predicate accepts everything.
	DirectoryFilter filter.Predicate
	FileFilter      filter.Predicate
	// Less orders entry names within each sublist. Required unless
	// SkipSorting is set.
	Less sortkey.Comparator
	// SkipSorting preserves the lister's enumeration order and disables Reverse.
	SkipSorting bool
	// FilesFirst emits the filtered files of a level before its directories.
	FilesFirst bool
	// Reverse inverts the sorted order of each sublist.
	Reverse bool
	// Style supplies the four connector glyphs.
	Style types.ConnectorStyle
	// IndentWidth is the glyph width of one continuation column. Zero
	// selects types.DefaultIndentWidth.
	IndentWidth int
	// Lister enumerates directory levels. Nil selects the os.ReadDir lister.
	Lister DirectoryLister
	// Warn receives diagnostics about skipped subtrees. Nil discards them.
	Warn func(message string)
}

// Renderer walks a directory subtree and produces connector-prefixed
// lines. A Renderer carries no cross-walk state besides its tally; each
// Walk re-reads the filesystem from scratch.
type Renderer struct {
	config Config
	tally  types.EntryTally
}

// New validates the configuration and returns a Renderer. Configuration
// problems are reported here, before any traversal starts, so a failed
// construction never produces partial output.
func New(config Config) (*Renderer, error) {
	if config.IndentWidth == 0 {
		config.IndentWidth = types.DefaultIndentWidth
	}
	if config.IndentWidth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndent, config.IndentWidth)
	}
	if config.Less == nil && !config.SkipSorting {
		return nil, ErrMissingComparator
	}
	if config.DirectoryFilter == nil {
		config.DirectoryFilter = func(string) bool { return true }
	}
	if config.FileFilter == nil {
		config.FileFilter = func(string) bool { return true }
	}
	if config.Warn == nil {
		config.Warn = func(string) {}
	}
	if config.Lister == nil {
		config.Lister = NewOSDirectoryLister()
		rootInfo, rootStatError := os.Stat(config.RootPath)
		if rootStatError != nil {
			return nil, fmt.Errorf(errorStatRootFormat, config.RootPath, rootStatError)
		}
		if !rootInfo.IsDir() {
			return nil, fmt.Errorf(errorNotADirectoryFormat, ErrNotADirectory, config.RootPath)
		}
	}
	return &Renderer{config: config}, nil
}

// Walk traverses the subtree depth-first and passes each rendered line to
// emit, in order. A listing failure at the root aborts the walk with an
// error and no lines; failures below the root are contained to their
// subtree and rendered as a marker line.
func (renderer *Renderer) Walk(emit EmitFunc) error {
	renderer.tally = types.EntryTally{}
	acceptedEntries, rootListError := renderer.listAccepted(renderer.config.RootPath)
	if rootListError != nil {
		return fmt.Errorf(errorReadRootFormat, renderer.config.RootPath, rootListError)
	}
	return renderer.walkLevel(renderer.config.RootPath, "", acceptedEntries, emit)
}

// Render runs a buffered walk and returns every line.
func (renderer *Renderer) Render() ([]string, error) {
	var lines []string
	walkError := renderer.Walk(func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}
	return lines, nil
}

// Tally returns the directory and file counts of the most recent walk.
func (renderer *Renderer) Tally() types.EntryTally {
	return renderer.tally
}

// listAccepted enumerates one directory level, applies both predicates,
// sorts each sublist, and returns the combined emission order. Filtering
// happens strictly before sorting, so sort cost reflects only accepted
// entries.
func (renderer *Renderer) listAccepted(directoryPath string) ([]types.DirectoryEntry, error) {
	entries, listError := renderer.config.Lister.List(directoryPath)
	if listError != nil {
		return nil, listError
	}

	var directories []types.DirectoryEntry
	var files []types.DirectoryEntry
	for _, entry := range entries {
		if entry.IsDirectory {
			if renderer.config.DirectoryFilter(entry.Name) {
				directories = append(directories, entry)
			}
			continue
		}
		if renderer.config.FileFilter(entry.Name) {
			files = append(files, entry)
		}
	}

	renderer.orderEntries(directories)
	renderer.orderEntries(files)

	if renderer.config.FilesFirst {
		return append(files, directories...), nil
	}
	return append(directories, files...), nil
}

// orderEntries sorts one sublist in place. Directories and files are
// ordered independently and never interleaved.
func (renderer *Renderer) orderEntries(entries []types.DirectoryEntry) {
	if renderer.config.SkipSorting {
		return
	}
	sort.SliceStable(entries, func(firstIndex, secondIndex int) bool {
		return renderer.config.Less(entries[firstIndex].Name, entries[secondIndex].Name)
	})
	if renderer.config.Reverse {
		for left, right := 0, len(entries)-1; left < right; left, right = left+1, right-1 {
			entries[left], entries[right] = entries[right], entries[left]
		}
	}
}

// walkLevel emits the lines for one directory level and recurses into
// accepted subdirectories. The last entry of the combined order, not of
// its own sublist, receives the end connector and a blank continuation.
func (renderer *Renderer) walkLevel(directoryPath string, prefix string, entries []types.DirectoryEntry, emit EmitFunc) error {
	for entryIndex, entry := range entries {
		isLastEntry := entryIndex == len(entries)-1

		connector := renderer.config.Style.Branch
		if isLastEntry {
			connector = renderer.config.Style.End
		}
		if emitError := emit(prefix + connector + entry.Name); emitError != nil {
			return emitError
		}

		if !entry.IsDirectory {
			renderer.tally.Files++
			continue
		}
		renderer.tally.Directories++

		childPrefix := prefix + renderer.continuation(isLastEntry)
		childPath := filepath.Join(directoryPath, entry.Name)
		childEntries, childListError := renderer.listAccepted(childPath)
		if childListError != nil {
			renderer.config.Warn(fmt.Sprintf(warningSkipSubdirFormat, childPath, childListError))
			marker := markerForListError(childListError)
			if emitError := emit(childPrefix + renderer.config.Style.End + marker); emitError != nil {
				return emitError
			}
			continue
		}
		if walkError := renderer.walkLevel(childPath, childPrefix, childEntries, emit); walkError != nil {
			return walkError
		}
	}
	return nil
}

// continuation builds one indent-wide column: a vertical bar leading
// spaces while an ancestor still has pending siblings, spaces only once
// the subtree belongs to a last entry.
func (renderer *Renderer) continuation(isLastEntry bool) string {
	if isLastEntry {
		return strings.Repeat(renderer.config.Style.Space, renderer.config.IndentWidth)
	}
	return renderer.config.Style.Vertical + strings.Repeat(renderer.config.Style.Space, renderer.config.IndentWidth-1)
}

// markerForListError picks the in-tree marker for a contained listing failure.
func markerForListError(listError error) string {
	if errors.Is(listError, fs.ErrPermission) {
		return markerPermissionDenied
	}
	return markerReadError
}
