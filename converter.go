package md2html

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/pipeline"
)

var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.LinePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.LineEngine)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkEngine)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// Converter orchestrates the Markdown-to-HTML pipeline.
// A Converter holds no per-document state and is safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	styleLoader   assets.StyleLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
}

// NewConverter creates a Converter. Without options it uses the line engine,
// paragraph wrapping and the embedded default style.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			engine:     EngineLine,
			styleInput: assets.DefaultStyleName,
			paragraphs: true,
		},
		styleLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.LinePreprocessor{},
		cssInjector:  &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, c.cfg.workers)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.styleLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	// Tests inject their own converter.
	if c.htmlConverter == nil {
		engine, err := pipeline.NewEngine(c.cfg.engine, pipeline.EngineConfig{
			Workers:        c.cfg.workers,
			Paragraphs:     c.cfg.paragraphs,
			Highlight:      c.cfg.highlight,
			HighlightStyle: c.cfg.highlightStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEngine, err)
		}
		c.htmlConverter = engine
	}

	if c.cfg.highlight {
		css, err := pipeline.NewHighlighter(c.cfg.highlightStyle).CSS()
		if err != nil {
			return nil, fmt.Errorf("generating highlight CSS: %w", err)
		}
		c.cfg.highlightCSS = css
	}

	return c, nil
}

// Convert runs the pipeline on input and returns the generated HTML.
// Recovers from internal panics so they surface as errors.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	if input.SourceDir != "" {
		htmlContent, err = c.rewriteImages(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting image paths: %w", err)
		}
	}

	if input.Fragment {
		return &ConvertResult{HTML: []byte(htmlContent)}, nil
	}

	title := input.Title
	if title == "" {
		title = pipeline.FirstHeading(mdContent)
	}
	if title == "" {
		title = pipeline.DefaultTitle
	}

	htmlContent = pipeline.WrapDocument(htmlContent, title)
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.documentCSS(input.CSS))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &ConvertResult{HTML: []byte(htmlContent), Title: title}, nil
}

// Close releases converter resources. The current engines hold none.
func (c *Converter) Close() error {
	return nil
}

// documentCSS joins base style, highlight classes and per-document CSS.
// User CSS comes last so it can override.
func (c *Converter) documentCSS(userCSS string) string {
	parts := make([]string, 0, 3)
	for _, css := range []string{c.cfg.resolvedStyle, c.cfg.highlightCSS, userCSS} {
		if strings.TrimSpace(css) != "" {
			parts = append(parts, strings.TrimRight(css, "\n"))
		}
	}
	return strings.Join(parts, "\n")
}

// resolveStyle turns the style input (name, path, or CSS content) into CSS.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.styleLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// rewriteImages resolves relative image sources with the engine's own
// rewriter when it has one. Other engines must emit well-formed HTML.
func (c *Converter) rewriteImages(htmlContent, sourceDir string) (string, error) {
	if r, ok := c.htmlConverter.(pipeline.ImageRewriter); ok {
		return r.RewriteImageSources(htmlContent, sourceDir)
	}
	return pipeline.RewriteImageSources(htmlContent, sourceDir)
}

