package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
)

// stdinArg selects standard input as the conversion source.
const stdinArg = "-"

// runConvert orchestrates the convert command.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// CLI wins over config.
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	extraCSS, err := readCSSFile(flags.style.css)
	if err != nil {
		return err
	}

	params := &conversionParams{
		css:      extraCSS,
		title:    cfg.Document.Title,
		fragment: cfg.Document.Fragment,
	}
	opts := converterOptions(cfg)

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	if inputPath == stdinArg {
		return convertStdin(ctx, flags.output, params, opts, env)
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	poolSize := min(md2html.ResolvePoolSize(cfg.Workers), len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	converterPool := md2html.NewConverterPool(poolSize, opts...)
	defer converterPool.Close()

	start := env.Now()
	results := convertBatch(ctx, &poolAdapter{pool: converterPool}, files, params)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Total: %v\n", env.Now().Sub(start))
	}
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}

	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.engine.name != "" {
		cfg.Engine = flags.engine.name
	}
	if flags.engine.highlight {
		cfg.Highlight.Enabled = true
	}
	if flags.engine.highlightStyle != "" {
		cfg.Highlight.Style = flags.engine.highlightStyle
	}
	if flags.style.style != "" {
		cfg.CSS.Style = flags.style.style
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}
	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if flags.document.fragment {
		cfg.Document.Fragment = true
	}
	if flags.document.noParagraphs {
		cfg.Document.Paragraphs = false
	}
	if flags.style.noStyle {
		cfg.CSS.Disabled = true
	}
}

// converterOptions translates config into library options.
func converterOptions(cfg *config.Config) []md2html.Option {
	opts := []md2html.Option{
		md2html.WithEngine(cfg.Engine),
		md2html.WithParagraphs(cfg.Document.Paragraphs),
		md2html.WithHighlight(cfg.Highlight.Enabled),
		md2html.WithHighlightStyle(cfg.Highlight.Style),
	}

	switch {
	case cfg.CSS.Disabled:
		opts = append(opts, md2html.WithStyle(""))
	case cfg.CSS.Style != "":
		opts = append(opts, md2html.WithStyle(cfg.CSS.Style))
	}

	if cfg.Assets.BasePath != "" {
		opts = append(opts, md2html.WithAssetPath(cfg.Assets.BasePath))
	}

	return opts
}

// readCSSFile loads the --css file. An empty path yields no CSS.
func readCSSFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
	}
	return string(content), nil
}

// resolveInputPath returns the positional input, else the configured default.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the --output flag, else the configured default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// convertStdin converts standard input and writes the result to output,
// or to stdout when output is empty or "-".
func convertStdin(ctx context.Context, output string, params *conversionParams, opts []md2html.Option, env *Environment) error {
	raw, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
	}

	content, err := md2html.DecodeMarkdown(raw)
	if err != nil {
		return err
	}

	conv, err := md2html.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	result, err := conv.Convert(ctx, md2html.Input{
		Markdown: content,
		CSS:      params.css,
		Title:    params.title,
		Fragment: params.fragment,
	})
	if err != nil {
		return err
	}

	if output == "" || output == stdinArg {
		if _, err := env.Stdout.Write(result.HTML); err != nil {
			return fmt.Errorf("%w: stdout: %w", ErrWriteHTML, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(output), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(output, result.HTML, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteHTML, err)
	}
	return nil
}
