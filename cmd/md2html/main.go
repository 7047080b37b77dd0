package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	setupMaxprocs(hasVerboseFlag(os.Args[1:]), os.Stderr)
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// setupMaxprocs tunes GOMAXPROCS to the container CPU quota, logging the
// decision only in verbose mode.
func setupMaxprocs(verbose bool, w io.Writer) {
	// maxprocs.Set only fails on an invalid GOMAXPROCS env value, in which
	// case the runtime default stays in effect.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// hasVerboseFlag reports whether -v or --verbose appears before a "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}

// runMain dispatches the command in args and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]

	var err error
	switch {
	case cmd == "convert":
		err = runConvert(ctx, rest, env)
	case cmd == "line":
		err = runLine(rest, env)
	case cmd == "version" || cmd == "--version":
		fmt.Fprintf(env.Stdout, "md2html %s\n", Version)
	case cmd == "help" || cmd == "-h" || cmd == "--help":
		err = runHelp(rest, env)
	case cmd == "completion":
		err = runCompletion(rest, env)
	case looksLikeMarkdown(cmd):
		// Shorthand: md2html notes.md [flags]
		err = runConvert(ctx, args[1:], env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
	}
	return exitCodeFor(err)
}

// isCommand reports whether name is a known command.
func isCommand(name string) bool {
	switch name {
	case "convert", "line", "version", "help", "completion":
		return true
	}
	return false
}

// looksLikeMarkdown reports whether arg is a markdown path given without a command.
func looksLikeMarkdown(arg string) bool {
	return !isCommand(arg) && fileutil.IsMarkdown(arg)
}
