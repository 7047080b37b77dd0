package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Engine names accepted by NewEngine.
const (
	EngineLine     = "line"
	EngineGoldmark = "goldmark"
)

// Sentinel errors for engines.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrUnknownEngine  = errors.New("unknown engine")
)

// HTMLConverter converts a Markdown document to an HTML fragment.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// EngineConfig holds settings shared by all engines.
type EngineConfig struct {
	Workers        int
	Paragraphs     bool
	Highlight      bool
	HighlightStyle string
}

// NewEngine returns the engine registered under name. An empty name selects
// the line engine.
func NewEngine(name string, cfg EngineConfig) (HTMLConverter, error) {
	switch name {
	case "", EngineLine:
		lc := LineEngineConfig{Workers: cfg.Workers, Paragraphs: cfg.Paragraphs}
		if cfg.Highlight {
			lc.Highlighter = NewHighlighter(cfg.HighlightStyle)
		}
		return NewLineEngine(lc), nil
	case EngineGoldmark:
		return NewGoldmarkEngine(cfg.Highlight, cfg.HighlightStyle), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// GoldmarkEngine renders full CommonMark with GFM extensions. It serves
// documents that need more than the line dialect.
type GoldmarkEngine struct {
	md goldmark.Markdown
}

// NewGoldmarkEngine creates a GoldmarkEngine, optionally highlighting fenced
// code with the named chroma style.
func NewGoldmarkEngine(highlight bool, highlightStyle string) *GoldmarkEngine {
	extensions := []goldmark.Extender{extension.GFM}
	if highlight {
		if highlightStyle == "" {
			highlightStyle = DefaultHighlightStyle
		}
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(highlightStyle),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	return &GoldmarkEngine{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller returns early on cancellation.
func (g *GoldmarkEngine) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := g.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Compile-time interface checks.
var (
	_ HTMLConverter = (*LineEngine)(nil)
	_ HTMLConverter = (*GoldmarkEngine)(nil)
)
