package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// errUsage marks flag parsing failures so they map to ExitUsage.
var errUsage = errors.New("usage error")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// engineFlags selects and tunes the Markdown engine.
type engineFlags struct {
	name           string
	highlight      bool
	highlightStyle string
}

// styleFlags holds CSS-related flags.
type styleFlags struct {
	style     string // name, path, or CSS text
	css       string // extra CSS file appended after the style
	assetPath string
	noStyle   bool
}

// documentFlags holds document assembly flags.
type documentFlags struct {
	title        string
	fragment     bool
	noParagraphs bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	engine   engineFlags
	style    styleFlags
	document documentFlags
}

// lineFlags holds flags for the line command.
type lineFlags struct {
	trace bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addEngineFlags adds engine flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVar(&f.name, "engine", "", "markdown engine: line, goldmark")
	fs.BoolVar(&f.highlight, "highlight", false, "syntax-highlight fenced code blocks")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for highlighting")
}

// addStyleFlags adds styling flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable the base style")
}

// addDocumentFlags adds document assembly flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from first header)")
	fs.BoolVar(&f.fragment, "fragment", false, "emit the body only, without <html> wrapper")
	fs.BoolVar(&f.noParagraphs, "no-paragraphs", false, "disable <p> wrapping and paragraph breaks")
}

// newConvertFlagSet registers every convert flag on a fresh FlagSet.
// Shared by parsing and completion so both see the same flags.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	addStyleFlags(fs, &f.style)
	addDocumentFlags(fs, &f.document)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	return f, fs.Args(), nil
}

// parseLineFlags parses line command flags and returns positional args.
// Markdown text often starts with "-" (list items, rules), so only the
// leading arguments that name a line flag are parsed; the rest is text.
func parseLineFlags(args []string, stderr io.Writer) (*lineFlags, []string, error) {
	fs := flag.NewFlagSet("line", flag.ContinueOnError)
	f := &lineFlags{}
	fs.BoolVarP(&f.trace, "verbose", "v", false, "print the line after each stage")
	fs.SetOutput(stderr)
	fs.Usage = func() { printLineUsage(stderr) }

	n := leadingLineFlags(args)
	if err := fs.Parse(args[:n]); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	return f, append(fs.Args(), args[n:]...), nil
}

// leadingLineFlags returns how many leading args are line flags, counting
// a "--" terminator.
func leadingLineFlags(args []string) int {
	for i, a := range args {
		switch a {
		case "-v", "--verbose", "-h", "--help":
		case "--":
			return i + 1
		default:
			return i
		}
	}
	return len(args)
}
