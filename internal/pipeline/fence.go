package pipeline

import "strings"

// lineKind classifies a source line for the document driver.
type lineKind int

const (
	kindText lineKind = iota
	kindBlank
	kindFenceOpen
	kindFenceClose
	kindCode
)

// FenceTracker follows code fence state across the lines of one document.
// The zero value starts outside any fence.
type FenceTracker struct {
	open bool
	lang string
}

// InFence reports whether the tracker is inside a fenced block.
func (f *FenceTracker) InFence() bool {
	return f.open
}

// Lang returns the info string of the open fence, if any.
func (f *FenceTracker) Lang() string {
	return f.lang
}

// classify advances the tracker by one line and returns how the line must
// be rendered. Fence markers may be indented by spaces or tabs.
func (f *FenceTracker) classify(line string) lineKind {
	trimmed := strings.TrimLeft(line, " \t")
	if IsFenceLine(trimmed) {
		if f.open {
			f.open = false
			f.lang = ""
			return kindFenceClose
		}
		f.open = true
		f.lang = fenceLang(trimmed)
		return kindFenceOpen
	}

	if f.open {
		return kindCode
	}
	if strings.TrimSpace(line) == "" {
		return kindBlank
	}
	return kindText
}

// fenceLang extracts the first word of a fence info string.
func fenceLang(fenceLine string) string {
	info := strings.TrimSpace(strings.TrimLeft(fenceLine, "`"))
	if i := strings.IndexAny(info, " \t{"); i >= 0 {
		info = info[:i]
	}
	return info
}
