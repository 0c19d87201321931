package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ydayan/ftd/internal/output"
	"github.com/ydayan/ftd/internal/types"
)

func TestRootLine(t *testing.T) {
	testCases := []struct {
		name     string
		rootPath string
		expected string
	}{
		{name: "plain_directory", rootPath: "/tmp/project", expected: "project/"},
		{name: "trailing_separator", rootPath: "/tmp/project/", expected: "project/"},
		{name: "relative_path", rootPath: "project", expected: "project/"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := output.RootLine(testCase.rootPath)
			if actual != testCase.expected {
				t.Errorf("RootLine(%q) = %q, expected %q", testCase.rootPath, actual, testCase.expected)
			}
		})
	}
}

func TestBuildDocument(t *testing.T) {
	document := output.BuildDocument("", "root/", []string{"├── a.txt", "└── sub"})
	expected := "root/\n├── a.txt\n└── sub\n"
	if document != expected {
		t.Errorf("BuildDocument = %q, expected %q", document, expected)
	}
}

func TestBuildDocumentWithTitle(t *testing.T) {
	document := output.BuildDocument("Project layout", "root/", []string{"└── a.txt"})
	expected := "Project layout\nroot/\n└── a.txt\n"
	if document != expected {
		t.Errorf("BuildDocument = %q, expected %q", document, expected)
	}
}

func TestLineWriterMatchesDocument(t *testing.T) {
	lines := []string{"├── a.txt", "└── sub"}
	var streamed bytes.Buffer
	writeLine := output.LineWriter(&streamed)
	writeLine("root/")
	for _, line := range lines {
		if writeError := writeLine(line); writeError != nil {
			t.Fatalf("LineWriter returned error: %v", writeError)
		}
	}
	if streamed.String() != output.BuildDocument("", "root/", lines) {
		t.Errorf("streamed %q differs from buffered document", streamed.String())
	}
}

func TestDefaultSavePath(t *testing.T) {
	savePath := output.DefaultSavePath(filepath.Join("/tmp", "project"))
	expected := filepath.Join("/tmp", "project_tree.txt")
	if savePath != expected {
		t.Errorf("DefaultSavePath = %q, expected %q", savePath, expected)
	}
}

func TestSaveDocumentRoundTrip(t *testing.T) {
	destinationPath := filepath.Join(t.TempDir(), "tree.txt")
	document := "root/\n└── a.txt\n"
	if saveError := output.SaveDocument(destinationPath, document); saveError != nil {
		t.Fatalf("SaveDocument returned error: %v", saveError)
	}
	savedContent, readError := os.ReadFile(destinationPath)
	if readError != nil {
		t.Fatalf("reading saved document: %v", readError)
	}
	if string(savedContent) != document {
		t.Errorf("saved content %q, expected %q", savedContent, document)
	}
}

func TestSaveDocumentUnwritableDestination(t *testing.T) {
	destinationPath := filepath.Join(t.TempDir(), "missing", "tree.txt")
	if saveError := output.SaveDocument(destinationPath, "root/\n"); saveError == nil {
		t.Fatalf("expected error saving into a missing directory")
	}
}

func TestFormatTallyLine(t *testing.T) {
	line := output.FormatTallyLine(types.EntryTally{Directories: 3, Files: 11})
	if line != "3 directories, 11 files" {
		t.Errorf("FormatTallyLine = %q", line)
	}
}
