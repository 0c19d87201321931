// Package config loads the optional JSON settings file and merges it
// with explicitly provided command line values.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const (
	// configFileType pins the settings file format viper should expect.
	configFileType = "json"

	// errorStatConfigFormat reports an unreadable settings path.
	errorStatConfigFormat = "inspecting configuration %s: %w"
	// errorConfigIsDirectoryFormat reports a settings path that is a directory.
	errorConfigIsDirectoryFormat = "configuration path %s is a directory"
	// errorReadConfigFormat reports a settings file that cannot be parsed.
	errorReadConfigFormat = "reading configuration from %s: %w"
	// errorDecodeConfigFormat reports a settings file that cannot be decoded.
	errorDecodeConfigFormat = "decoding configuration from %s: %w"
)

// StyleSettings declares one additional connector style in the settings
// file, registered before the first render.
type StyleSettings struct {
	Branch   string `mapstructure:"branch"`
	End      string `mapstructure:"end"`
	Space    string `mapstructure:"space"`
	Vertical string `mapstructure:"vertical"`
}

// Settings mirrors the recognized configuration surface. Pointer fields
// distinguish "unset" from an explicit false or zero, so merging layers
// never lets a default clobber a configured value.
type Settings struct {
	RootDir      string                   `mapstructure:"root_dir"`
	SavePath     string                   `mapstructure:"filepath"`
	IgnoreDirs   []string                 `mapstructure:"ignore_dirs"`
	IgnoreFiles  []string                 `mapstructure:"ignore_files"`
	IncludeDirs  []string                 `mapstructure:"include_dirs"`
	IncludeFiles []string                 `mapstructure:"include_files"`
	Style        string                   `mapstructure:"style"`
	Indent       *int                     `mapstructure:"indent"`
	FilesFirst   *bool                    `mapstructure:"files_first"`
	SkipSorting  *bool                    `mapstructure:"skip_sorting"`
	SortKey      string                   `mapstructure:"sort_key"`
	Reverse      *bool                    `mapstructure:"reverse"`
	NoSave       *bool                    `mapstructure:"no_save"`
	Printout     *bool                    `mapstructure:"printout"`
	Stream       *bool                    `mapstructure:"stream"`
	EntryCount   *bool                    `mapstructure:"entry_count"`
	Title        string                   `mapstructure:"title"`
	Copy         *bool                    `mapstructure:"copy"`
	Styles       map[string]StyleSettings `mapstructure:"styles"`
}

// LoadSettings reads the JSON settings file at path. An empty path yields
// zero settings; a missing file is an error because the path was
// explicitly requested.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return Settings{}, nil
	}
	info, statError := os.Stat(path)
	if statError != nil {
		return Settings{}, fmt.Errorf(errorStatConfigFormat, path, statError)
	}
	if info.IsDir() {
		return Settings{}, fmt.Errorf(errorConfigIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType(configFileType)
	if readError := reader.ReadInConfig(); readError != nil {
		return Settings{}, fmt.Errorf(errorReadConfigFormat, path, readError)
	}
	var settings Settings
	if decodeError := reader.Unmarshal(&settings); decodeError != nil {
		return Settings{}, fmt.Errorf(errorDecodeConfigFormat, path, decodeError)
	}
	return settings, nil
}

// Merge overlays override onto the receiver and returns the combination.
// Only fields the override actually sets replace the base values, so
// command line defaults never override the settings file.
func (settings Settings) Merge(override Settings) Settings {
	result := settings
	if override.RootDir != "" {
		result.RootDir = override.RootDir
	}
	if override.SavePath != "" {
		result.SavePath = override.SavePath
	}
	if override.IgnoreDirs != nil {
		result.IgnoreDirs = append([]string(nil), override.IgnoreDirs...)
	}
	if override.IgnoreFiles != nil {
		result.IgnoreFiles = append([]string(nil), override.IgnoreFiles...)
	}
	if override.IncludeDirs != nil {
		result.IncludeDirs = append([]string(nil), override.IncludeDirs...)
	}
	if override.IncludeFiles != nil {
		result.IncludeFiles = append([]string(nil), override.IncludeFiles...)
	}
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.Indent != nil {
		result.Indent = cloneInt(override.Indent)
	}
	if override.FilesFirst != nil {
		result.FilesFirst = cloneBool(override.FilesFirst)
	}
	if override.SkipSorting != nil {
		result.SkipSorting = cloneBool(override.SkipSorting)
	}
	if override.SortKey != "" {
		result.SortKey = override.SortKey
	}
	if override.Reverse != nil {
		result.Reverse = cloneBool(override.Reverse)
	}
	if override.NoSave != nil {
		result.NoSave = cloneBool(override.NoSave)
	}
	if override.Printout != nil {
		result.Printout = cloneBool(override.Printout)
	}
	if override.Stream != nil {
		result.Stream = cloneBool(override.Stream)
	}
	if override.EntryCount != nil {
		result.EntryCount = cloneBool(override.EntryCount)
	}
	if override.Title != "" {
		result.Title = override.Title
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if len(override.Styles) > 0 {
		merged := make(map[string]StyleSettings, len(settings.Styles)+len(override.Styles))
		for styleName, styleSettings := range settings.Styles {
			merged[styleName] = styleSettings
		}
		for styleName, styleSettings := range override.Styles {
			merged[styleName] = styleSettings
		}
		result.Styles = merged
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
