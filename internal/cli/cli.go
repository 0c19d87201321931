// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ydayan/ftd/internal/config"
	"github.com/ydayan/ftd/internal/filter"
	"github.com/ydayan/ftd/internal/output"
	"github.com/ydayan/ftd/internal/render"
	"github.com/ydayan/ftd/internal/services/clipboard"
	"github.com/ydayan/ftd/internal/sortkey"
	"github.com/ydayan/ftd/internal/style"
	"github.com/ydayan/ftd/internal/types"
	"github.com/ydayan/ftd/internal/utils"
)

const (
	configFlagName       = "cfg"
	rootDirFlagName      = "root-dir"
	savePathFlagName     = "filepath"
	ignoreDirsFlagName   = "ignore-dirs"
	ignoreFilesFlagName  = "ignore-files"
	includeDirsFlagName  = "include-dirs"
	includeFilesFlagName = "include-files"
	styleFlagName        = "style"
	indentFlagName       = "indent"
	filesFirstFlagName   = "files-first"
	skipSortingFlagName  = "skip-sorting"
	sortKeyFlagName      = "sort-key"
	reverseFlagName      = "reverse"
	noSaveFlagName       = "no-save"
	printoutFlagName     = "printout"
	streamFlagName       = "stream"
	entryCountFlagName   = "entry-count"
	titleFlagName        = "title"
	copyFlagName         = "copy"
	versionFlagName      = "version"

	rootDirFlagShorthand  = "r"
	savePathFlagShorthand = "o"
	styleFlagShorthand    = "s"
	indentFlagShorthand   = "i"
	filesFirstShorthand   = "f"
	printoutFlagShorthand = "p"
	versionFlagShorthand  = "v"

	configFlagDescription       = "path to JSON config file"
	rootDirFlagDescription      = "root directory to display"
	savePathFlagDescription     = "output file path"
	ignoreDirsFlagDescription   = "directory names or patterns to ignore"
	ignoreFilesFlagDescription  = "file names or patterns to ignore"
	includeDirsFlagDescription  = "directory names or patterns to include exclusively"
	includeFilesFlagDescription = "file names or patterns to include exclusively"
	styleFlagDescription        = "tree connector style"
	indentFlagDescription       = "indent width per level"
	filesFirstFlagDescription   = "list files before directories"
	skipSortingFlagDescription  = "disable sorting"
	sortKeyFlagDescription      = "sort key (natural or lex; custom is API-only)"
	reverseFlagDescription      = "reverse sort order"
	noSaveFlagDescription       = "do not save to file"
	printoutFlagDescription     = "print tree to stdout"
	streamFlagDescription       = "stream each line to stdout without buffering"
	entryCountFlagDescription   = "report directory and file counts"
	titleFlagDescription        = "title line prepended to the output"
	copyFlagDescription         = "copy the rendered tree to the clipboard"
	versionFlagDescription      = "display application version"

	rootUse              = "ftd"
	rootShortDescription = "display a filtered file tree"
	rootLongDescription  = `ftd renders a directory subtree as an indented connector-glyph diagram.
Inclusion and exclusion patterns filter directories and files independently;
entries are ordered by a natural or lexicographic sort key. The tree is saved
to a file by default, printed with --printout, or streamed with --stream.`
	rootUsageExample = `  # Print the current directory tree without saving it
  ftd --printout --no-save

  # Render /srv/project with four-space indentation in the arrow style
  ftd -r /srv/project -s arrow -i 4

  # Stream a tree that hides build artifacts
  ftd --stream --ignore-dirs .git,dist --ignore-files "*.tmp"`

	versionTemplate = "ftd version: %s\n"

	warningClipboardFormat         = "clipboard copy failed: %v"
	warningSaveSkippedInStreamMode = "stream mode skips saving, entry counts, and clipboard copy"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// flagValues stores every command line value for one invocation.
type flagValues struct {
	configPath   string
	rootDir      string
	savePath     string
	ignoreDirs   []string
	ignoreFiles  []string
	includeDirs  []string
	includeFiles []string
	styleName    string
	indentWidth  int
	filesFirst   bool
	skipSorting  bool
	sortKeyName  string
	reverse      bool
	noSave       bool
	printout     bool
	stream       bool
	entryCount   bool
	title        string
	copyOutput   bool
}

// Execute runs the ftd application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var values flagValues
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return run(command, values, logger)
		},
	}

	rootCommand.Flags().StringVar(&values.configPath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().StringVarP(&values.rootDir, rootDirFlagName, rootDirFlagShorthand, "", rootDirFlagDescription)
	rootCommand.Flags().StringVarP(&values.savePath, savePathFlagName, savePathFlagShorthand, "", savePathFlagDescription)
	rootCommand.Flags().StringSliceVar(&values.ignoreDirs, ignoreDirsFlagName, nil, ignoreDirsFlagDescription)
	rootCommand.Flags().StringSliceVar(&values.ignoreFiles, ignoreFilesFlagName, nil, ignoreFilesFlagDescription)
	rootCommand.Flags().StringSliceVar(&values.includeDirs, includeDirsFlagName, nil, includeDirsFlagDescription)
	rootCommand.Flags().StringSliceVar(&values.includeFiles, includeFilesFlagName, nil, includeFilesFlagDescription)
	rootCommand.Flags().StringVarP(&values.styleName, styleFlagName, styleFlagShorthand, types.StyleClassic, styleFlagDescription)
	rootCommand.Flags().IntVarP(&values.indentWidth, indentFlagName, indentFlagShorthand, types.DefaultIndentWidth, indentFlagDescription)
	rootCommand.Flags().BoolVarP(&values.filesFirst, filesFirstFlagName, filesFirstShorthand, false, filesFirstFlagDescription)
	rootCommand.Flags().BoolVar(&values.skipSorting, skipSortingFlagName, false, skipSortingFlagDescription)
	rootCommand.Flags().StringVar(&values.sortKeyName, sortKeyFlagName, types.SortPolicyNatural, sortKeyFlagDescription)
	rootCommand.Flags().BoolVar(&values.reverse, reverseFlagName, false, reverseFlagDescription)
	rootCommand.Flags().BoolVar(&values.noSave, noSaveFlagName, false, noSaveFlagDescription)
	rootCommand.Flags().BoolVarP(&values.printout, printoutFlagName, printoutFlagShorthand, false, printoutFlagDescription)
	rootCommand.Flags().BoolVar(&values.stream, streamFlagName, false, streamFlagDescription)
	rootCommand.Flags().BoolVar(&values.entryCount, entryCountFlagName, false, entryCountFlagDescription)
	rootCommand.Flags().StringVar(&values.title, titleFlagName, "", titleFlagDescription)
	rootCommand.Flags().BoolVar(&values.copyOutput, copyFlagName, false, copyFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&showVersion, versionFlagName, versionFlagShorthand, false, versionFlagDescription)

	return rootCommand
}

// settingsFromFlags converts explicitly set flags into a settings
// overlay. Untouched flags stay unset so their defaults never override
// the configuration file.
func settingsFromFlags(flags *pflag.FlagSet, values flagValues) config.Settings {
	var override config.Settings
	if flags.Changed(rootDirFlagName) {
		override.RootDir = values.rootDir
	}
	if flags.Changed(savePathFlagName) {
		override.SavePath = values.savePath
	}
	if flags.Changed(ignoreDirsFlagName) {
		override.IgnoreDirs = values.ignoreDirs
	}
	if flags.Changed(ignoreFilesFlagName) {
		override.IgnoreFiles = values.ignoreFiles
	}
	if flags.Changed(includeDirsFlagName) {
		override.IncludeDirs = values.includeDirs
	}
	if flags.Changed(includeFilesFlagName) {
		override.IncludeFiles = values.includeFiles
	}
	if flags.Changed(styleFlagName) {
		override.Style = values.styleName
	}
	if flags.Changed(indentFlagName) {
		override.Indent = &values.indentWidth
	}
	if flags.Changed(filesFirstFlagName) {
		override.FilesFirst = &values.filesFirst
	}
	if flags.Changed(skipSortingFlagName) {
		override.SkipSorting = &values.skipSorting
	}
	if flags.Changed(sortKeyFlagName) {
		override.SortKey = values.sortKeyName
	}
	if flags.Changed(reverseFlagName) {
		override.Reverse = &values.reverse
	}
	if flags.Changed(noSaveFlagName) {
		override.NoSave = &values.noSave
	}
	if flags.Changed(printoutFlagName) {
		override.Printout = &values.printout
	}
	if flags.Changed(streamFlagName) {
		override.Stream = &values.stream
	}
	if flags.Changed(entryCountFlagName) {
		override.EntryCount = &values.entryCount
	}
	if flags.Changed(titleFlagName) {
		override.Title = values.title
	}
	if flags.Changed(copyFlagName) {
		override.Copy = &values.copyOutput
	}
	return override
}

// renderPlan is the fully resolved configuration for one invocation.
type renderPlan struct {
	rootDir     string
	savePath    string
	saveEnabled bool
	printout    bool
	stream      bool
	entryCount  bool
	copyOutput  bool
	title       string
	renderer    *render.Renderer
}

// buildRenderPlan merges the settings layers, applies defaults, and
// eagerly resolves every strategy the renderer needs. All configuration
// errors surface here, before any traversal starts.
func buildRenderPlan(settings config.Settings, logger *zap.Logger) (*renderPlan, error) {
	rootDir := settings.RootDir
	if rootDir == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return nil, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
		}
		rootDir = workingDirectory
	}

	styleRegistry := style.NewRegistry()
	for styleName, styleSettings := range settings.Styles {
		styleRegistry.Register(styleName, types.ConnectorStyle{
			Branch:   styleSettings.Branch,
			End:      styleSettings.End,
			Space:    styleSettings.Space,
			Vertical: styleSettings.Vertical,
		})
	}

	styleName := settings.Style
	if styleName == "" {
		styleName = types.StyleClassic
	}
	connectorStyle, styleLookupError := styleRegistry.Get(styleName)
	if styleLookupError != nil {
		return nil, styleLookupError
	}

	sortKeyName := settings.SortKey
	if sortKeyName == "" {
		sortKeyName = types.SortPolicyNatural
	}
	skipSorting := settings.SkipSorting != nil && *settings.SkipSorting
	var comparator sortkey.Comparator
	if !skipSorting {
		resolvedComparator, resolveError := sortkey.Resolve(sortKeyName, nil)
		if resolveError != nil {
			return nil, resolveError
		}
		comparator = resolvedComparator
	}

	indentWidth := types.DefaultIndentWidth
	if settings.Indent != nil {
		indentWidth = *settings.Indent
		if indentWidth <= 0 {
			return nil, fmt.Errorf("%w: %d", render.ErrInvalidIndent, indentWidth)
		}
	}

	renderer, rendererError := render.New(render.Config{
		RootPath:        rootDir,
		DirectoryFilter: filter.BuildPredicate(settings.IncludeDirs, settings.IgnoreDirs),
		FileFilter:      filter.BuildPredicate(settings.IncludeFiles, settings.IgnoreFiles),
		Less:            comparator,
		SkipSorting:     skipSorting,
		FilesFirst:      settings.FilesFirst != nil && *settings.FilesFirst,
		Reverse:         settings.Reverse != nil && *settings.Reverse,
		Style:           connectorStyle,
		IndentWidth:     indentWidth,
		Warn:            func(message string) { logger.Warn(message) },
	})
	if rendererError != nil {
		return nil, rendererError
	}

	savePath := settings.SavePath
	if savePath == "" {
		savePath = output.DefaultSavePath(rootDir)
	}

	return &renderPlan{
		rootDir:     rootDir,
		savePath:    savePath,
		saveEnabled: settings.NoSave == nil || !*settings.NoSave,
		printout:    settings.Printout != nil && *settings.Printout,
		stream:      settings.Stream != nil && *settings.Stream,
		entryCount:  settings.EntryCount != nil && *settings.EntryCount,
		copyOutput:  settings.Copy != nil && *settings.Copy,
		title:       settings.Title,
		renderer:    renderer,
	}, nil
}

// run loads configuration, resolves the plan, and executes the render in
// the requested emission mode.
func run(command *cobra.Command, values flagValues, logger *zap.Logger) error {
	fileSettings, loadError := config.LoadSettings(values.configPath)
	if loadError != nil {
		return loadError
	}
	settings := fileSettings.Merge(settingsFromFlags(command.Flags(), values))

	plan, planError := buildRenderPlan(settings, logger)
	if planError != nil {
		return planError
	}

	if plan.stream {
		return runStream(command, plan, logger)
	}
	return runBuffered(command, plan, logger)
}

// runStream forwards the title, root line, and every rendered line to
// stdout as they are produced. Saving, clipboard copy, and entry counts
// are buffered-mode side effects and are skipped here.
func runStream(command *cobra.Command, plan *renderPlan, logger *zap.Logger) error {
	if plan.entryCount || plan.copyOutput {
		logger.Warn(warningSaveSkippedInStreamMode)
	}
	writeLine := output.LineWriter(command.OutOrStdout())
	if plan.title != "" {
		if writeError := writeLine(plan.title); writeError != nil {
			return writeError
		}
	}
	if writeError := writeLine(output.RootLine(plan.rootDir)); writeError != nil {
		return writeError
	}
	return render.Stream(command.Context(), plan.renderer, writeLine)
}

// runBuffered accumulates the document, then prints, saves, counts, and
// copies it as requested.
func runBuffered(command *cobra.Command, plan *renderPlan, logger *zap.Logger) error {
	lines, renderError := plan.renderer.Render()
	if renderError != nil {
		return renderError
	}
	document := output.BuildDocument(plan.title, output.RootLine(plan.rootDir), lines)

	if plan.printout {
		fmt.Fprint(command.OutOrStdout(), document)
	}
	if plan.saveEnabled {
		if saveError := output.SaveDocument(plan.savePath, document); saveError != nil {
			return saveError
		}
	}
	if plan.entryCount {
		fmt.Fprintln(command.OutOrStdout(), output.FormatTallyLine(plan.renderer.Tally()))
	}
	if plan.copyOutput {
		if copyError := clipboard.NewService().Copy(document); copyError != nil {
			logger.Warn(fmt.Sprintf(warningClipboardFormat, copyError))
		}
	}
	return nil
}
