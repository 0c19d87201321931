package render_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ydayan/ftd/internal/filter"
	"github.com/ydayan/ftd/internal/render"
	"github.com/ydayan/ftd/internal/sortkey"
	"github.com/ydayan/ftd/internal/style"
	"github.com/ydayan/ftd/internal/types"
)

// fakeLister serves canned directory levels and injected failures.
type fakeLister struct {
	levels     map[string][]types.DirectoryEntry
	listErrors map[string]error
}

func (lister fakeLister) List(directoryPath string) ([]types.DirectoryEntry, error) {
	if listError, failing := lister.listErrors[directoryPath]; failing {
		return nil, listError
	}
	entries, known := lister.levels[directoryPath]
	if !known {
		return nil, fs.ErrNotExist
	}
	return entries, nil
}

func classicStyle(t *testing.T) types.ConnectorStyle {
	t.Helper()
	connectorStyle, lookupError := style.NewRegistry().Get(types.StyleClassic)
	if lookupError != nil {
		t.Fatalf("classic style lookup failed: %v", lookupError)
	}
	return connectorStyle
}

func naturalComparator(t *testing.T) sortkey.Comparator {
	t.Helper()
	comparator, resolveError := sortkey.Resolve(types.SortPolicyNatural, nil)
	if resolveError != nil {
		t.Fatalf("resolving natural comparator failed: %v", resolveError)
	}
	return comparator
}

func newRenderer(t *testing.T, config render.Config) *render.Renderer {
	t.Helper()
	renderer, newError := render.New(config)
	if newError != nil {
		t.Fatalf("New returned error: %v", newError)
	}
	return renderer
}

func assertLines(t *testing.T, actual []string, expected []string) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Fatalf("rendered %d lines %q, expected %d lines %q", len(actual), actual, len(expected), expected)
	}
	for lineIndex := range expected {
		if actual[lineIndex] != expected[lineIndex] {
			t.Fatalf("line %d = %q, expected %q (all lines: %q)", lineIndex, actual[lineIndex], expected[lineIndex], actual)
		}
	}
}

// sampleRoot builds the fixture tree used by several tests:
//
//	root/a.txt  root/b.txt  root/sub/ (empty)
func sampleRoot(t *testing.T) string {
	t.Helper()
	rootPath := t.TempDir()
	for _, fileName := range []string{"a.txt", "b.txt"} {
		if writeError := os.WriteFile(filepath.Join(rootPath, fileName), []byte(fileName), 0o600); writeError != nil {
			t.Fatalf("writing fixture file %s: %v", fileName, writeError)
		}
	}
	if mkdirError := os.Mkdir(filepath.Join(rootPath, "sub"), 0o750); mkdirError != nil {
		t.Fatalf("creating fixture directory: %v", mkdirError)
	}
	return rootPath
}

func TestRenderIgnoredFileScenario(t *testing.T) {
	rootPath := sampleRoot(t)
	renderer := newRenderer(t, render.Config{
		RootPath:    rootPath,
		FileFilter:  filter.BuildPredicate(nil, []string{"b.txt"}),
		Less:        naturalComparator(t),
		FilesFirst:  true,
		Style:       classicStyle(t),
		IndentWidth: 2,
	})

	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	assertLines(t, lines, []string{"├── a.txt", "└── sub"})

	tally := renderer.Tally()
	if tally.Directories != 1 || tally.Files != 1 {
		t.Errorf("tally = %+v, expected 1 directory and 1 file", tally)
	}
}

func TestRenderDirectoriesBeforeFilesByDefault(t *testing.T) {
	rootPath := sampleRoot(t)
	renderer := newRenderer(t, render.Config{
		RootPath:    rootPath,
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	})

	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	assertLines(t, lines, []string{"├── sub", "├── a.txt", "└── b.txt"})
}

func TestRenderNestedPrefixContinuation(t *testing.T) {
	rootPath := t.TempDir()
	nestedPath := filepath.Join(rootPath, "outer", "inner")
	if mkdirError := os.MkdirAll(nestedPath, 0o750); mkdirError != nil {
		t.Fatalf("creating nested fixture: %v", mkdirError)
	}
	if writeError := os.WriteFile(filepath.Join(nestedPath, "leaf.txt"), nil, 0o600); writeError != nil {
		t.Fatalf("writing leaf fixture: %v", writeError)
	}
	if writeError := os.WriteFile(filepath.Join(rootPath, "last.txt"), nil, 0o600); writeError != nil {
		t.Fatalf("writing sibling fixture: %v", writeError)
	}

	renderer := newRenderer(t, render.Config{
		RootPath:    rootPath,
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}

	// outer is not last at the root level, so its descendants continue the
	// vertical bar; inner is last within outer, so leaf.txt sits under blanks.
	assertLines(t, lines, []string{
		"├── outer",
		"│ └── inner",
		"│   └── leaf.txt",
		"└── last.txt",
	})
}

func TestRenderReverseLexicographic(t *testing.T) {
	rootPath := t.TempDir()
	for _, fileName := range []string{"b", "a", "c"} {
		if writeError := os.WriteFile(filepath.Join(rootPath, fileName), nil, 0o600); writeError != nil {
			t.Fatalf("writing fixture file %s: %v", fileName, writeError)
		}
	}
	comparator, resolveError := sortkey.Resolve(types.SortPolicyLex, nil)
	if resolveError != nil {
		t.Fatalf("resolving lex comparator failed: %v", resolveError)
	}

	renderer := newRenderer(t, render.Config{
		RootPath:    rootPath,
		Less:        comparator,
		Reverse:     true,
		Style:       classicStyle(t),
		IndentWidth: 2,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	assertLines(t, lines, []string{"├── c", "├── b", "└── a"})
}

func TestRenderFilesFirstKeepsSublistOrder(t *testing.T) {
	lister := fakeLister{levels: map[string][]types.DirectoryEntry{
		"root": {
			{Name: "zdir", IsDirectory: true},
			{Name: "adir", IsDirectory: true},
			{Name: "zfile", IsDirectory: false},
			{Name: "afile", IsDirectory: false},
		},
		filepath.Join("root", "adir"): {},
		filepath.Join("root", "zdir"): {},
	}}
	renderer := newRenderer(t, render.Config{
		RootPath:    "root",
		Less:        naturalComparator(t),
		FilesFirst:  true,
		Style:       classicStyle(t),
		IndentWidth: 2,
		Lister:      lister,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	assertLines(t, lines, []string{"├── afile", "├── zfile", "├── adir", "└── zdir"})
}

func TestRenderSkipSortingPreservesListerOrder(t *testing.T) {
	lister := fakeLister{levels: map[string][]types.DirectoryEntry{
		"root": {
			{Name: "charlie", IsDirectory: false},
			{Name: "alpha", IsDirectory: false},
			{Name: "bravo", IsDirectory: false},
		},
	}}
	renderer := newRenderer(t, render.Config{
		RootPath:    "root",
		SkipSorting: true,
		Reverse:     true,
		Style:       classicStyle(t),
		IndentWidth: 2,
		Lister:      lister,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	// Reverse is part of the sorting step, so skip-sorting disables it too.
	assertLines(t, lines, []string{"├── charlie", "├── alpha", "└── bravo"})
}

func TestRenderPermissionDeniedMarker(t *testing.T) {
	lister := fakeLister{
		levels: map[string][]types.DirectoryEntry{
			"root": {
				{Name: "locked", IsDirectory: true},
				{Name: "open.txt", IsDirectory: false},
			},
		},
		listErrors: map[string]error{
			filepath.Join("root", "locked"): fs.ErrPermission,
		},
	}
	var warnings []string
	renderer := newRenderer(t, render.Config{
		RootPath:    "root",
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
		Lister:      lister,
		Warn:        func(message string) { warnings = append(warnings, message) },
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	assertLines(t, lines, []string{
		"├── locked",
		"│ └── [Permission Denied]",
		"└── open.txt",
	})
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %q", warnings)
	}
}

func TestRenderGenericReadErrorMarker(t *testing.T) {
	lister := fakeLister{
		levels: map[string][]types.DirectoryEntry{
			"root": {{Name: "vanished", IsDirectory: true}},
		},
		listErrors: map[string]error{
			filepath.Join("root", "vanished"): errors.New("device offline"),
		},
	}
	renderer := newRenderer(t, render.Config{
		RootPath:    "root",
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
		Lister:      lister,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	assertLines(t, lines, []string{
		"└── vanished",
		"  └── [Error reading directory]",
	})
}

func TestRenderRootListingFailureAborts(t *testing.T) {
	lister := fakeLister{listErrors: map[string]error{"root": fs.ErrPermission}}
	renderer := newRenderer(t, render.Config{
		RootPath:    "root",
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
		Lister:      lister,
	})
	lines, renderError := renderer.Render()
	if renderError == nil {
		t.Fatalf("expected root listing failure, got lines %q", lines)
	}
	if !errors.Is(renderError, fs.ErrPermission) {
		t.Errorf("root failure should wrap the cause, got %v", renderError)
	}
}

func TestNewRejectsNonDirectoryRoot(t *testing.T) {
	rootPath := t.TempDir()
	filePath := filepath.Join(rootPath, "plain.txt")
	if writeError := os.WriteFile(filePath, nil, 0o600); writeError != nil {
		t.Fatalf("writing fixture file: %v", writeError)
	}
	_, newError := render.New(render.Config{
		RootPath:    filePath,
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	})
	if !errors.Is(newError, render.ErrNotADirectory) {
		t.Fatalf("expected ErrNotADirectory, got %v", newError)
	}
}

func TestNewRejectsMissingComparator(t *testing.T) {
	_, newError := render.New(render.Config{
		RootPath: "root",
		Style:    types.ConnectorStyle{Branch: "- ", End: "= ", Space: " ", Vertical: "|"},
		Lister:   fakeLister{},
	})
	if !errors.Is(newError, render.ErrMissingComparator) {
		t.Fatalf("expected ErrMissingComparator, got %v", newError)
	}
}

func TestNewRejectsNegativeIndent(t *testing.T) {
	_, newError := render.New(render.Config{
		RootPath:    "root",
		SkipSorting: true,
		IndentWidth: -1,
		Lister:      fakeLister{},
	})
	if !errors.Is(newError, render.ErrInvalidIndent) {
		t.Fatalf("expected ErrInvalidIndent, got %v", newError)
	}
}

func TestExactlyOneEndConnectorPerLevel(t *testing.T) {
	rootPath := sampleRoot(t)
	if writeError := os.WriteFile(filepath.Join(rootPath, "sub", "nested.txt"), nil, 0o600); writeError != nil {
		t.Fatalf("writing nested fixture: %v", writeError)
	}
	renderer := newRenderer(t, render.Config{
		RootPath:    rootPath,
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}

	endConnectorsByPrefix := make(map[string]int)
	linesByPrefix := make(map[string]int)
	for _, line := range lines {
		connectorIndex := strings.IndexAny(line, "├└")
		if connectorIndex < 0 {
			t.Fatalf("line %q carries no connector", line)
		}
		prefix := line[:connectorIndex]
		linesByPrefix[prefix]++
		if strings.HasPrefix(line[connectorIndex:], "└") {
			endConnectorsByPrefix[prefix]++
		}
	}
	for prefix, lineCount := range linesByPrefix {
		if lineCount > 0 && endConnectorsByPrefix[prefix] != 1 {
			t.Errorf("prefix %q has %d end connectors across %d lines", prefix, endConnectorsByPrefix[prefix], lineCount)
		}
	}
}

func TestStreamMatchesBufferedOutput(t *testing.T) {
	rootPath := sampleRoot(t)
	if writeError := os.WriteFile(filepath.Join(rootPath, "sub", "nested.txt"), nil, 0o600); writeError != nil {
		t.Fatalf("writing nested fixture: %v", writeError)
	}
	configuration := render.Config{
		RootPath:    rootPath,
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	}

	bufferedLines, renderError := newRenderer(t, configuration).Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}

	var streamedLines []string
	streamError := render.Stream(context.Background(), newRenderer(t, configuration), func(line string) error {
		streamedLines = append(streamedLines, line)
		return nil
	})
	if streamError != nil {
		t.Fatalf("Stream returned error: %v", streamError)
	}

	assertLines(t, streamedLines, bufferedLines)
}

func TestStreamConsumerErrorStopsWalk(t *testing.T) {
	rootPath := sampleRoot(t)
	consumeFailure := errors.New("sink full")
	emitted := 0
	streamError := render.Stream(context.Background(), newRenderer(t, render.Config{
		RootPath:    rootPath,
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	}), func(string) error {
		emitted++
		return consumeFailure
	})
	if !errors.Is(streamError, consumeFailure) {
		t.Fatalf("expected consumer error, got %v", streamError)
	}
	if emitted != 1 {
		t.Errorf("consumer ran %d times after failing, expected 1", emitted)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	rootPath := sampleRoot(t)
	renderer := newRenderer(t, render.Config{
		RootPath:    rootPath,
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	})
	firstLines, firstError := renderer.Render()
	if firstError != nil {
		t.Fatalf("first Render returned error: %v", firstError)
	}
	secondLines, secondError := renderer.Render()
	if secondError != nil {
		t.Fatalf("second Render returned error: %v", secondError)
	}
	assertLines(t, secondLines, firstLines)

	tally := renderer.Tally()
	if tally.Directories != 1 || tally.Files != 2 {
		t.Errorf("tally after repeat render = %+v, expected fresh counts", tally)
	}
}

func TestEmptyFilteredDirectoryDoesNotRecurse(t *testing.T) {
	rootPath := t.TempDir()
	hiddenPath := filepath.Join(rootPath, "sub", "hidden.txt")
	if mkdirError := os.MkdirAll(filepath.Dir(hiddenPath), 0o750); mkdirError != nil {
		t.Fatalf("creating fixture directory: %v", mkdirError)
	}
	if writeError := os.WriteFile(hiddenPath, nil, 0o600); writeError != nil {
		t.Fatalf("writing fixture file: %v", writeError)
	}

	renderer := newRenderer(t, render.Config{
		RootPath:    rootPath,
		FileFilter:  filter.BuildPredicate(nil, []string{"*.txt"}),
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 2,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	// sub itself passes the directory filter and earns its line; its only
	// child is filtered away, so nothing renders beneath it.
	assertLines(t, lines, []string{"└── sub"})
}

func TestIndentWidthWidensContinuation(t *testing.T) {
	lister := fakeLister{levels: map[string][]types.DirectoryEntry{
		"root":                        {{Name: "only", IsDirectory: true}},
		filepath.Join("root", "only"): {{Name: "leaf", IsDirectory: false}},
	}}
	renderer := newRenderer(t, render.Config{
		RootPath:    "root",
		Less:        naturalComparator(t),
		Style:       classicStyle(t),
		IndentWidth: 4,
		Lister:      lister,
	})
	lines, renderError := renderer.Render()
	if renderError != nil {
		t.Fatalf("Render returned error: %v", renderError)
	}
	assertLines(t, lines, []string{"└── only", "    └── leaf"})
}
