package main

// Notes:
// - runConvert: we test end-to-end conversions against temp directories,
//   through the real converter pool, for single files, directories and stdin.
// - convertBatch: we use a mock Pool to check ordering, setup failures and
//   cancellation without the real engine.
// - We do not test signal-driven cancellation of a running batch; that path
//   is the same ctx.Err() check covered by the cancelled-context case.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock pool and converter
// ---------------------------------------------------------------------------

// mockConverter records every input and returns a fixed document.
type mockConverter struct {
	mu     sync.Mutex
	inputs []md2html.Input
	err    error
}

func (m *mockConverter) Convert(_ context.Context, input md2html.Input) (*md2html.ConvertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	return &md2html.ConvertResult{HTML: []byte("<p>" + input.Title + "</p>")}, nil
}

// mockPool hands out the same converter to every worker.
type mockPool struct {
	conv       CLIConverter
	acquireErr error
	size       int

	mu       sync.Mutex
	released int
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

// readFile reads path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertContains fails when any of wants is missing from got.
func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q in:\n%s", want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert - End-to-end conversions
// ---------------------------------------------------------------------------

func TestRunConvert_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeMarkdown(t, dir, "doc.md", "# Title\n\nSome **bold** and ~~old~~ text\n")

	env, stdout, stderr := newTestEnv("")
	if err := runConvert(context.Background(), []string{input}, env); err != nil {
		t.Fatalf("runConvert() error = %v\nstderr: %s", err, stderr.String())
	}

	html := readFile(t, filepath.Join(dir, "doc.html"))
	assertContains(t, html,
		"<!DOCTYPE html>",
		"<title>Title</title>",
		"<style>",
		"<h1> Title</h1>",
		"<b>bold</b>",
		"<ins>old</ins>",
	)
	assertContains(t, stdout.String(), "Created "+filepath.Join(dir, "doc.html"))
}

func TestRunConvert_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeMarkdown(t, dir, "in/a.md", "# A\n")
	writeMarkdown(t, dir, "in/sub/b.markdown", "# B\n")
	writeMarkdown(t, dir, "in/skip.txt", "ignored")
	outDir := filepath.Join(dir, "out")

	env, stdout, stderr := newTestEnv("")
	args := []string{filepath.Join(dir, "in"), "-o", outDir, "-w", "2"}
	if err := runConvert(context.Background(), args, env); err != nil {
		t.Fatalf("runConvert() error = %v\nstderr: %s", err, stderr.String())
	}

	assertContains(t, readFile(t, filepath.Join(outDir, "a.html")), "<h1> A</h1>")
	assertContains(t, readFile(t, filepath.Join(outDir, "sub", "b.html")), "<h1> B</h1>")
	assertContains(t, stdout.String(), "2 succeeded, 0 failed")

	if _, err := os.Stat(filepath.Join(outDir, "skip.html")); !os.IsNotExist(err) {
		t.Errorf("non-markdown file should not be converted, stat err = %v", err)
	}
}

func TestRunConvert_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		extraArgs   func(dir string) []string
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "title falls back to file name",
			content:     "no header here\n",
			wantContain: []string{"<title>doc</title>"},
		},
		{
			name:        "empty file converts",
			content:     "",
			wantContain: []string{"<title>doc</title>", "<body>"},
		},
		{
			name:        "explicit title",
			content:     "# Header\n",
			extraArgs:   func(string) []string { return []string{"--title", "Chosen"} },
			wantContain: []string{"<title>Chosen</title>"},
		},
		{
			name:        "fragment",
			content:     "# Header\n",
			extraArgs:   func(string) []string { return []string{"--fragment"} },
			wantContain: []string{"<h1> Header</h1>"},
			wantAbsent:  []string{"<!DOCTYPE html>", "<style>"},
		},
		{
			name:        "no style",
			content:     "# Header\n",
			extraArgs:   func(string) []string { return []string{"--no-style"} },
			wantContain: []string{"<!DOCTYPE html>"},
			wantAbsent:  []string{"<style>"},
		},
		{
			name:    "extra css file",
			content: "# Header\n",
			extraArgs: func(dir string) []string {
				path := filepath.Join(dir, "extra.css")
				_ = os.WriteFile(path, []byte("h1{color:teal}"), 0o644)
				return []string{"--no-style", "--css", path}
			},
			wantContain: []string{"<style>", "h1{color:teal}"},
		},
		{
			name:        "no paragraphs",
			content:     "one\n\ntwo\n",
			extraArgs:   func(string) []string { return []string{"--fragment", "--no-paragraphs"} },
			wantAbsent:  []string{"<p>"},
			wantContain: []string{"one\n"},
		},
		{
			name:        "paragraphs by default",
			content:     "one\n\ntwo\n",
			extraArgs:   func(string) []string { return []string{"--fragment"} },
			wantContain: []string{"<p>one</p>\n\n<p>two</p>"},
		},
		{
			name:        "goldmark engine",
			content:     "# Header\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
			extraArgs:   func(string) []string { return []string{"--engine", "goldmark", "--fragment"} },
			wantContain: []string{"<table>", "id=\"header\""},
		},
		{
			name:        "config file",
			content:     "# Header\n",
			extraArgs: func(dir string) []string {
				path := filepath.Join(dir, "cfg.yaml")
				_ = os.WriteFile(path, []byte("document:\n  title: From Config\n"), 0o644)
				return []string{"-c", path}
			},
			wantContain: []string{"<title>From Config</title>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			input := writeMarkdown(t, dir, "doc.md", tt.content)
			args := []string{input, "-q"}
			if tt.extraArgs != nil {
				args = append(args, tt.extraArgs(dir)...)
			}

			env, stdout, stderr := newTestEnv("")
			if err := runConvert(context.Background(), args, env); err != nil {
				t.Fatalf("runConvert(%v) error = %v\nstderr: %s", args, err, stderr.String())
			}
			if stdout.Len() != 0 {
				t.Errorf("quiet mode wrote to stdout: %q", stdout.String())
			}

			html := readFile(t, filepath.Join(dir, "doc.html"))
			assertContains(t, html, tt.wantContain...)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(html, absent) {
					t.Errorf("output should not contain %q:\n%s", absent, html)
				}
			}
		})
	}
}

func TestRunConvert_ImagesOutsideSourceDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeMarkdown(t, dir, "src/doc.md", "![diagram](img/flow.png)\n")
	outDir := filepath.Join(dir, "site")

	env, _, stderr := newTestEnv("")
	if err := runConvert(context.Background(), []string{input, "-o", outDir, "--fragment"}, env); err != nil {
		t.Fatalf("runConvert() error = %v\nstderr: %s", err, stderr.String())
	}

	html := readFile(t, filepath.Join(outDir, "doc.html"))
	assertContains(t, html, `src="file://`, "img/flow.png")
}

func TestRunConvert_UnknownStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeMarkdown(t, dir, "doc.md", "# Header\n")

	env, _, stderr := newTestEnv("")
	err := runConvert(context.Background(), []string{input, "--style", "nosuch"}, env)
	if !errors.Is(err, md2html.ErrStyleNotFound) {
		t.Fatalf("runConvert() error = %v, want ErrStyleNotFound", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exitCodeFor() = %d, want %d", exitCodeFor(err), ExitUsage)
	}
	assertContains(t, stderr.String(), "FAILED "+input)
}

func TestRunConvert_Stdin(t *testing.T) {
	t.Parallel()

	t.Run("fragment to stdout", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := newTestEnv("Hello *world*\n")
		if err := runConvert(context.Background(), []string{"-", "--fragment"}, env); err != nil {
			t.Fatalf("runConvert() error = %v\nstderr: %s", err, stderr.String())
		}
		assertContains(t, stdout.String(), "Hello <i>world</i>")
		if strings.Contains(stdout.String(), "<html") {
			t.Errorf("fragment should not be wrapped:\n%s", stdout.String())
		}
	})

	t.Run("document to file", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "nested", "page.html")
		env, stdout, stderr := newTestEnv("`a<b`\n")
		args := []string{"-", "-o", output, "--title", "Page"}
		if err := runConvert(context.Background(), args, env); err != nil {
			t.Fatalf("runConvert() error = %v\nstderr: %s", err, stderr.String())
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout should be empty when writing a file, got %q", stdout.String())
		}
		assertContains(t, readFile(t, output), "<title>Page</title>", "<code>a&lt;b</code>")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := newTestEnv("")
		if err := runConvert(context.Background(), []string{"-", "--fragment"}, env); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if stdout.Len() != 0 {
			t.Errorf("empty input should give an empty fragment, got %q", stdout.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags / TestConverterOptions - Flag and config layering
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Engine = config.EngineGoldmark
		cfg.CSS.Style = "dark"

		flags := &convertFlags{workers: 3}
		flags.engine.name = config.EngineLine
		flags.engine.highlight = true
		flags.engine.highlightStyle = "monokai"
		flags.style.style = "plain"
		flags.style.assetPath = "/srv/assets"
		flags.document.title = "T"
		flags.document.fragment = true
		flags.document.noParagraphs = true
		flags.style.noStyle = true

		mergeFlags(flags, cfg)

		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
		if cfg.Engine != config.EngineLine {
			t.Errorf("Engine = %q, want %q", cfg.Engine, config.EngineLine)
		}
		if !cfg.Highlight.Enabled || cfg.Highlight.Style != "monokai" {
			t.Errorf("Highlight = %+v, want enabled monokai", cfg.Highlight)
		}
		if cfg.CSS.Style != "plain" || !cfg.CSS.Disabled {
			t.Errorf("CSS = %+v, want style plain, disabled", cfg.CSS)
		}
		if cfg.Assets.BasePath != "/srv/assets" {
			t.Errorf("Assets.BasePath = %q", cfg.Assets.BasePath)
		}
		if cfg.Document.Title != "T" || !cfg.Document.Fragment || cfg.Document.Paragraphs {
			t.Errorf("Document = %+v", cfg.Document)
		}
	})

	t.Run("zero flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Engine = config.EngineGoldmark
		cfg.Workers = 5
		cfg.Document.Title = "Kept"

		mergeFlags(&convertFlags{}, cfg)

		if cfg.Engine != config.EngineGoldmark || cfg.Workers != 5 || cfg.Document.Title != "Kept" {
			t.Errorf("config changed by empty flags: %+v", cfg)
		}
		if !cfg.Document.Paragraphs {
			t.Error("Paragraphs should stay enabled")
		}
	})
}

func TestConverterOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   int
	}{
		{name: "defaults", mutate: func(*config.Config) {}, want: 4},
		{name: "style", mutate: func(c *config.Config) { c.CSS.Style = "dark" }, want: 5},
		{name: "disabled wins over style", mutate: func(c *config.Config) { c.CSS.Style = "dark"; c.CSS.Disabled = true }, want: 5},
		{name: "asset path", mutate: func(c *config.Config) { c.Assets.BasePath = "/a" }, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if got := len(converterOptions(cfg)); got != tt.want {
				t.Errorf("len(converterOptions()) = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("options build a working converter", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.CSS.Disabled = true
		conv, err := md2html.NewConverter(converterOptions(cfg)...)
		if err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}
		defer conv.Close()

		result, err := conv.Convert(context.Background(), md2html.Input{Markdown: "# Hi\n"})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if strings.Contains(string(result.HTML), "<style>") {
			t.Errorf("disabled style should inject no CSS:\n%s", result.HTML)
		}
	})
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if _, err := resolveInputPath(nil, cfg); !errors.Is(err, ErrNoInput) {
		t.Errorf("resolveInputPath(nil) error = %v, want ErrNoInput", err)
	}

	cfg.Input.DefaultDir = "docs"
	if got, _ := resolveInputPath(nil, cfg); got != "docs" {
		t.Errorf("resolveInputPath(nil) = %q, want docs", got)
	}
	if got, _ := resolveInputPath([]string{"a.md"}, cfg); got != "a.md" {
		t.Errorf("resolveInputPath([a.md]) = %q, want a.md", got)
	}
}

func TestResolveOutputDir(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Output.DefaultDir = "public"

	if got := resolveOutputDir("", cfg); got != "public" {
		t.Errorf("resolveOutputDir(\"\") = %q, want public", got)
	}
	if got := resolveOutputDir("out", cfg); got != "out" {
		t.Errorf("resolveOutputDir(out) = %q, want out", got)
	}
}

// ---------------------------------------------------------------------------
// TestDocumentTitle / TestImageSourceDir - Per-file input fields
// ---------------------------------------------------------------------------

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		explicit string
		content  string
		path     string
		want     string
	}{
		{name: "explicit wins", explicit: "Given", content: "# Header", path: "a.md", want: "Given"},
		{name: "header left to converter", content: "# Header", path: "a.md", want: ""},
		{name: "file name fallback", content: "text", path: "dir/notes.markdown", want: "notes"},
		{name: "header in fence ignored", content: "```\n# no\n```", path: "x/y.md", want: "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := documentTitle(tt.explicit, tt.content, tt.path); got != tt.want {
				t.Errorf("documentTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageSourceDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file FileToConvert
		want string
	}{
		{
			name: "same directory",
			file: FileToConvert{InputPath: "docs/a.md", OutputPath: "docs/a.html"},
			want: "",
		},
		{
			name: "different directory",
			file: FileToConvert{InputPath: "docs/a.md", OutputPath: "public/a.html"},
			want: "docs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := imageSourceDir(tt.file); got != tt.want {
				t.Errorf("imageSourceDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Concurrent batch processing
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty file list", func(t *testing.T) {
		t.Parallel()

		if got := convertBatch(context.Background(), &mockPool{size: 2}, nil, &conversionParams{}); got != nil {
			t.Errorf("convertBatch(nil) = %v, want nil", got)
		}
	})

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []FileToConvert
		for _, name := range []string{"one", "two", "three", "four"} {
			in := writeMarkdown(t, dir, name+".md", "text\n")
			files = append(files, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, name+".html")})
		}

		conv := &mockConverter{}
		pool := &mockPool{conv: conv, size: 3}
		results := convertBatch(context.Background(), pool, files, &conversionParams{})

		if len(results) != len(files) {
			t.Fatalf("got %d results, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("result %d error = %v", i, r.Err)
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("result %d InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
			name := strings.TrimSuffix(filepath.Base(files[i].InputPath), ".md")
			if got := readFile(t, files[i].OutputPath); got != "<p>"+name+"</p>" {
				t.Errorf("output %d = %q, want title %q", i, got, name)
			}
		}
		if pool.released != 3 {
			t.Errorf("released = %d, want 3 (one per worker)", pool.released)
		}
	})

	t.Run("acquire failure marks every file", func(t *testing.T) {
		t.Parallel()

		files := []FileToConvert{{InputPath: "a.md"}, {InputPath: "b.md"}}
		pool := &mockPool{acquireErr: md2html.ErrStyleNotFound, size: 2}
		results := convertBatch(context.Background(), pool, files, &conversionParams{})

		for i, r := range results {
			if !errors.Is(r.Err, ErrConverterSetup) || !errors.Is(r.Err, md2html.ErrStyleNotFound) {
				t.Errorf("result %d error = %v, want ErrConverterSetup wrapping ErrStyleNotFound", i, r.Err)
			}
		}
	})

	t.Run("cancelled context skips files", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		conv := &mockConverter{}
		files := []FileToConvert{{InputPath: "a.md"}, {InputPath: "b.md"}}
		results := convertBatch(ctx, &mockPool{conv: conv, size: 1}, files, &conversionParams{})

		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
			}
		}
		if len(conv.inputs) != 0 {
			t.Errorf("converter called %d times, want 0", len(conv.inputs))
		}
	})

	t.Run("read and convert errors", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeMarkdown(t, dir, "ok.md", "text\n")
		files := []FileToConvert{
			{InputPath: filepath.Join(dir, "missing.md"), OutputPath: filepath.Join(dir, "missing.html")},
			{InputPath: in, OutputPath: filepath.Join(dir, "ok.html")},
		}

		conv := &mockConverter{err: md2html.ErrHTMLConversion}
		results := convertBatch(context.Background(), &mockPool{conv: conv, size: 1}, files, &conversionParams{})

		if !errors.Is(results[0].Err, ErrReadMarkdown) {
			t.Errorf("results[0] error = %v, want ErrReadMarkdown", results[0].Err)
		}
		if !errors.Is(results[1].Err, md2html.ErrHTMLConversion) {
			t.Errorf("results[1] error = %v, want ErrHTMLConversion", results[1].Err)
		}
	})

	t.Run("params reach the converter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeMarkdown(t, dir, "a.md", "# H\n")
		files := []FileToConvert{{InputPath: in, OutputPath: filepath.Join(dir, "out", "a.html")}}

		conv := &mockConverter{}
		params := &conversionParams{css: "p{}", title: "T", fragment: true}
		convertBatch(context.Background(), &mockPool{conv: conv, size: 1}, files, params)

		if len(conv.inputs) != 1 {
			t.Fatalf("converter called %d times, want 1", len(conv.inputs))
		}
		got := conv.inputs[0]
		if got.CSS != "p{}" || got.Title != "T" || !got.Fragment || got.Markdown != "# H\n" {
			t.Errorf("Input = %+v", got)
		}
		if got.SourceDir != dir {
			t.Errorf("SourceDir = %q, want %q", got.SourceDir, dir)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResults - Result reporting
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputPath: "a.html", Duration: 1500 * time.Microsecond},
		{InputPath: "b.md", Err: ErrReadMarkdown},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		wantStdout []string
		wantEmpty  bool
	}{
		{name: "normal", wantStdout: []string{"Created a.html", "1 succeeded, 1 failed"}},
		{name: "verbose", verbose: true, wantStdout: []string{"a.md -> a.html (2ms)"}},
		{name: "quiet", quiet: true, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv("")
			failed := printResultsWithWriter(results, tt.quiet, tt.verbose, env)

			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			assertContains(t, stderr.String(), "FAILED b.md")
			if tt.wantEmpty && stdout.Len() != 0 {
				t.Errorf("stdout should be empty, got %q", stdout.String())
			}
			assertContains(t, stdout.String(), tt.wantStdout...)
		})
	}
}

func TestFirstError(t *testing.T) {
	t.Parallel()

	if err := firstError([]ConversionResult{{}, {}}); err != nil {
		t.Errorf("firstError() = %v, want nil", err)
	}

	want := errors.New("second")
	results := []ConversionResult{{}, {Err: want}, {Err: errors.New("third")}}
	if err := firstError(results); err != want {
		t.Errorf("firstError() = %v, want %v", err, want)
	}
}
