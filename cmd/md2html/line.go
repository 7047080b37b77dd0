package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	md2html "github.com/alnah/go-md2html"
)

// maxLineSize bounds a single stdin line for the line command.
const maxLineSize = 1 << 20

// runLine compiles the text given as arguments, or every stdin line.
func runLine(args []string, env *Environment) error {
	flags, positional, err := parseLineFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if len(positional) > 0 {
		writeLine(env.Stdout, strings.Join(positional, " "), flags.trace)
		return nil
	}

	scanner := bufio.NewScanner(env.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		writeLine(env.Stdout, strings.TrimSuffix(scanner.Text(), "\r"), flags.trace)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
	}
	return nil
}

// writeLine prints the compiled line, preceded by each stage when tracing.
func writeLine(w io.Writer, line string, trace bool) {
	if !trace {
		fmt.Fprintln(w, md2html.CompileLine(line))
		return
	}

	fmt.Fprintf(w, "%-18s %s\n", "input", line)
	for _, step := range md2html.TraceLine(line) {
		marker := " "
		if step.Changed {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-16s %s\n", marker, step.Stage, step.Line)
	}
}
