package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// Highlighter renders fenced code blocks with chroma.
// Output uses CSS classes; CSS returns the matching stylesheet.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter creates a Highlighter for the named chroma style.
// Unknown style names fall back to chroma's default style.
func NewHighlighter(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight renders code as a <pre> block for the given language.
// Returns false when the language is unknown or rendering fails, in which
// case the caller falls back to plain escaped output.
func (h *Highlighter) Highlight(code, lang string) (string, bool) {
	if lang == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", false
	}
	return buf.String(), true
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *Highlighter) CSS() (string, error) {
	var buf strings.Builder
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", err
	}
	return buf.String(), nil
}
