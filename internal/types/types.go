// Package types defines shared data structures used across the ftd tool.
package types

// DirectoryEntry describes one item yielded by a directory listing.
// Entries are ephemeral: a fresh slice is produced for every directory visit.
type DirectoryEntry struct {
	Name        string
	IsDirectory bool
}

// ConnectorStyle is the four-glyph set used to draw tree structure.
// Branch and End prefix an entry line; Vertical and Space build the
// continuation columns passed into subtree recursion. A style is never
// mutated once handed to a render.
type ConnectorStyle struct {
	Branch   string
	End      string
	Space    string
	Vertical string
}

// EntryTally counts directories and files accepted during one traversal.
type EntryTally struct {
	Directories int
	Files       int
}

// Sort policy names recognized by the sort key resolver.
const (
	SortPolicyNatural = "natural"
	SortPolicyLex     = "lex"
	SortPolicyCustom  = "custom"
)

// Built-in connector style names shipped by the style registry.
const (
	StyleClassic = "classic"
	StyleDash    = "dash"
	StyleArrow   = "arrow"
	StylePlus    = "plus"
)

// DefaultIndentWidth is the glyph width of one continuation column.
const DefaultIndentWidth = 2
