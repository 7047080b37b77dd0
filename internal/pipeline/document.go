package pipeline

import (
	"context"
	"runtime"
	"strings"
	"sync"
)

// Document markup emitted around compiled lines.
const (
	paragraphOpen  = "<p>"
	paragraphClose = "</p>"
	codeBlockClose = "</code></pre>"
)

// parallelThreshold is the number of text lines below which compilation
// stays on the calling goroutine.
const parallelThreshold = 64

// codeBlockEscaper escapes text inside fenced blocks.
var codeBlockEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Line is one source line and the separator that ended it ("\n", "\r\n",
// or "" for the last line).
type Line struct {
	Text string
	Sep  string
}

// SplitLines splits content into lines, keeping each separator so that
// joining Text+Sep reproduces the input exactly.
func SplitLines(content string) []Line {
	var lines []Line
	for len(content) > 0 {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, Line{Text: content})
			break
		}
		text, sep := content[:i], "\n"
		if strings.HasSuffix(text, "\r") {
			text, sep = text[:len(text)-1], "\r\n"
		}
		lines = append(lines, Line{Text: text, Sep: sep})
		content = content[i+1:]
	}
	return lines
}

// LineEngineConfig configures a LineEngine.
type LineEngineConfig struct {
	Workers     int          // 0 = GOMAXPROCS
	Paragraphs  bool         // wrap each run of text lines in <p>; headers and fenced blocks stay outside
	Highlighter *Highlighter // nil = fenced code is escaped, not highlighted
}

// LineEngine converts a document by running CompileLine on every line
// outside code fences. Lines are independent, so they are compiled
// concurrently; only fence tracking walks the document in order.
type LineEngine struct {
	cfg LineEngineConfig
}

// NewLineEngine creates a LineEngine.
func NewLineEngine(cfg LineEngineConfig) *LineEngine {
	return &LineEngine{cfg: cfg}
}

// ToHTML converts Markdown content to an HTML fragment.
func (e *LineEngine) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines := SplitLines(content)
	if len(lines) == 0 {
		return "", nil
	}

	out := make([]string, len(lines))
	drop := make([]bool, len(lines))
	kinds := make([]lineKind, len(lines))
	var pending []int

	var tracker FenceTracker
	blockStart, blockLang := -1, ""

	for i, l := range lines {
		kind := tracker.classify(l.Text)
		kinds[i] = kind
		switch kind {
		case kindText:
			pending = append(pending, i)
		case kindFenceOpen:
			blockStart, blockLang = i, tracker.Lang()
			out[i] = codeBlockOpen(blockLang)
		case kindCode:
			out[i] = codeBlockEscaper.Replace(l.Text)
		case kindFenceClose:
			out[i] = codeBlockClose
			e.highlightBlock(lines, out, drop, blockStart, i, blockLang)
			blockStart = -1
		}
	}

	unterminated := tracker.InFence()
	highlightedTail := false
	if unterminated {
		highlightedTail = e.highlightBlock(lines, out, drop, blockStart, len(lines), blockLang)
	}

	if err := e.compileLines(ctx, lines, pending, out); err != nil {
		return "", err
	}
	if e.cfg.Paragraphs {
		markParagraphs(lines, kinds, out)
	}

	var b strings.Builder
	b.Grow(len(content) * 5 / 4)
	for i, l := range lines {
		if drop[i] {
			continue
		}
		b.WriteString(out[i])
		b.WriteString(l.Sep)
	}

	if unterminated && !highlightedTail {
		if lines[len(lines)-1].Sep == "" {
			b.WriteString("\n")
		}
		b.WriteString(codeBlockClose)
	}

	return b.String(), nil
}

// markParagraphs wraps each run of plain text lines in <p>...</p>. Blank
// lines, headers and fenced blocks end the current paragraph, so block
// elements never nest inside one.
func markParagraphs(lines []Line, kinds []lineKind, out []string) {
	first, last := -1, -1
	closeParagraph := func() {
		if first < 0 {
			return
		}
		out[first] = paragraphOpen + out[first]
		out[last] += paragraphClose
		first = -1
	}

	for i, kind := range kinds {
		if kind == kindText && !isHeaderLine(lines[i].Text) {
			if first < 0 {
				first = i
			}
			last = i
			continue
		}
		closeParagraph()
	}
	closeParagraph()
}

// isHeaderLine reports whether the header stage turns line into <hN>.
func isHeaderLine(line string) bool {
	return strings.HasPrefix(line, "#")
}

// compileLines fills out[idx] with CompileLine for every pending index.
func (e *LineEngine) compileLines(ctx context.Context, lines []Line, pending []int, out []string) error {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pending) {
		workers = len(pending)
	}

	if workers <= 1 || len(pending) < parallelThreshold {
		for _, idx := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[idx] = CompileLine(lines[idx].Text)
		}
		return nil
	}

	jobs := make(chan int, len(pending))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				out[idx] = CompileLine(lines[idx].Text)
			}
		}()
	}

	for _, idx := range pending {
		jobs <- idx
	}
	close(jobs)

	wg.Wait()
	return ctx.Err()
}

// highlightBlock replaces the escaped block between the fence at start and
// the fence at end (exclusive; end may be len(lines)) with chroma output.
// The block is left escaped when highlighting is off or fails, and the
// result reports whether chroma output was used.
func (e *LineEngine) highlightBlock(lines []Line, out []string, drop []bool, start, end int, lang string) bool {
	if e.cfg.Highlighter == nil || start < 0 {
		return false
	}

	var code strings.Builder
	for _, l := range lines[start+1 : end] {
		code.WriteString(l.Text)
		code.WriteString("\n")
	}

	highlighted, ok := e.cfg.Highlighter.Highlight(code.String(), lang)
	if !ok {
		return false
	}

	out[start] = strings.TrimSuffix(highlighted, "\n")
	for i := start + 1; i < end; i++ {
		drop[i] = true
	}
	if end < len(lines) {
		drop[end] = true
		// Keep the closing fence's separator so the next line starts fresh.
		lines[start].Sep = lines[end].Sep
	} else {
		// Unterminated: end with whatever ended the document.
		lines[start].Sep = lines[end-1].Sep
	}
	return true
}

// codeBlockOpen returns the opening markup for a fenced block.
func codeBlockOpen(lang string) string {
	if lang == "" {
		return "<pre><code>"
	}
	return `<pre><code class="language-` + codeBlockEscaper.Replace(lang) + `">`
}
