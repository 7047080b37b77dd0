package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/pipeline"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrReadMarkdown   = errors.New("failed to read markdown file")
	ErrWriteHTML      = errors.New("failed to write HTML file")
	ErrConverterSetup = errors.New("failed to initialize converter")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input md2html.Input) (*md2html.ConvertResult, error)
}

var _ CLIConverter = (*md2html.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// poolAdapter adapts *md2html.ConverterPool to Pool.
type poolAdapter struct {
	pool *md2html.ConverterPool
}

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	return a.pool.Acquire()
}

// Release panics on a converter the pool did not hand out; that is a
// programming error, not a runtime condition.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*md2html.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// conversionParams groups parameters shared across the batch.
type conversionParams struct {
	css      string // extra CSS from --css
	title    string
	fragment bool
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently; results keep the input order.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %w", ErrConverterSetup, err),
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one file and writes the HTML next to its output path.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	raw, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}

	content, err := md2html.DecodeMarkdown(raw)
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", err))
	}

	convResult, err := conv.Convert(ctx, md2html.Input{
		Markdown:  content,
		SourceDir: imageSourceDir(f),
		CSS:       params.css,
		Title:     documentTitle(params.title, content, f.InputPath),
		Fragment:  params.fragment,
	})
	if err != nil {
		return fail(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, convResult.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteHTML, err))
	}

	result.Duration = time.Since(start)
	return result
}

// imageSourceDir returns the directory relative images resolve against, or ""
// when the output sits next to the input and relative paths stay valid.
func imageSourceDir(f FileToConvert) string {
	inDir, errIn := filepath.Abs(filepath.Dir(f.InputPath))
	outDir, errOut := filepath.Abs(filepath.Dir(f.OutputPath))
	if errIn == nil && errOut == nil && inDir == outDir {
		return ""
	}
	return filepath.Dir(f.InputPath)
}

// documentTitle picks the title: explicit value, then the first header
// (resolved by the converter), then the file name.
func documentTitle(explicit, content, inputPath string) string {
	if explicit != "" {
		return explicit
	}
	if pipeline.FirstHeading(content) != "" {
		return ""
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results and returns the failure count.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// firstError returns the first failed result's error, for exit code mapping.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
