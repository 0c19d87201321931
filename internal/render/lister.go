package render

import (
	"os"

	"github.com/ydayan/ftd/internal/types"
)

// DirectoryLister yields the entries of a single directory level. The
// renderer calls it once per visited directory and never caches results
// across levels.
type DirectoryLister interface {
	List(directoryPath string) ([]types.DirectoryEntry, error)
}

// osDirectoryLister lists directories through os.ReadDir. The listing is
// read eagerly, so an early-terminating consumer leaves no handle open.
type osDirectoryLister struct{}

// NewOSDirectoryLister returns the filesystem-backed lister used by default.
func NewOSDirectoryLister() DirectoryLister {
	return osDirectoryLister{}
}

func (osDirectoryLister) List(directoryPath string) ([]types.DirectoryEntry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, readDirectoryError
	}
	entries := make([]types.DirectoryEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entries = append(entries, types.DirectoryEntry{
			Name:        directoryEntry.Name(),
			IsDirectory: directoryEntry.IsDir(),
		})
	}
	return entries, nil
}
