package md2html

// Engine names accepted by WithEngine.
const (
	EngineLine     = "line"
	EngineGoldmark = "goldmark"
)

// Input holds the per-document parameters of a conversion.
type Input struct {
	Markdown  string // required
	SourceDir string // resolves relative image paths; empty leaves them as written
	CSS       string // appended after the converter style
	Title     string // overrides the first heading as document title
	Fragment  bool   // return the compiled body without <html> wrapper or CSS
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML  []byte
	Title string // empty for fragments
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	engine         string
	styleInput     string
	resolvedStyle  string
	highlightCSS   string
	assetPath      string
	workers        int
	highlight      bool
	highlightStyle string
	paragraphs     bool
}

// WithEngine selects the Markdown engine: EngineLine (default) or EngineGoldmark.
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithStyle sets the base CSS. The value may be an embedded or custom style
// name, a path to a CSS file, or CSS text. An empty value disables the base
// style.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles/ subdirectory overrides the
// embedded styles.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithWorkers bounds the goroutines compiling lines of one document.
// Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.cfg.workers = n
	}
}

// WithHighlight enables syntax highlighting of fenced code blocks.
func WithHighlight(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.highlight = enabled
	}
}

// WithHighlightStyle sets the chroma style used for highlighting.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithParagraphs toggles <p> wrapping and blank-line paragraph breaks in
// the line engine. Enabled by default.
func WithParagraphs(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.paragraphs = enabled
	}
}
