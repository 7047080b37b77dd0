package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-md2html/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert markdown files to HTML")
	fmt.Fprintln(w, "  line        Compile a single line of markdown")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Engine:")
	fmt.Fprintln(w, "      --engine <s>            Markdown engine: line (default), goldmark")
	fmt.Fprintln(w, "      --highlight             Syntax-highlight fenced code blocks")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style (default: github)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>             Document title (\"\" = auto from first header)")
	fmt.Fprintln(w, "      --fragment              Emit the body only, without <html> wrapper")
	fmt.Fprintln(w, "      --no-paragraphs         Disable <p> wrapping and paragraph breaks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintf(w, "      --style <s>             Style name (%s) or CSS file path\n", strings.Join(assets.ListStyles(), ", "))
	fmt.Fprintln(w, "      --css <path>            Extra CSS file appended after the style")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom asset directory (styles/<name>.css)")
	fmt.Fprintln(w, "      --no-style              Disable the base style")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show detailed timing")
}

// printLineUsage prints usage for the line command.
func printLineUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html line [flags] <text>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile one line of markdown and print the HTML fragment.")
	fmt.Fprintln(w, "Without text, every line read from stdin is compiled.")
	fmt.Fprintln(w, "Flags are only read before the text; use -- when the text itself")
	fmt.Fprintln(w, "is \"-v\" or \"--verbose\".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -v, --verbose    Print the line after each compiler stage")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  md2html line \"**bold** text\"")
	fmt.Fprintln(w, "  md2html line -v \"- item with ~~old~~ words\"")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "line":
		printLineUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command: %s", errUsage, args[0])
	}
	return nil
}
