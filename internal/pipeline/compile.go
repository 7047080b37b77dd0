package pipeline

// spanTransform rewrites one Markdown span construct within a line.
type spanTransform func(line string) string

// stage is a named span transform.
type stage struct {
	name      string
	transform spanTransform
}

// stages is the line compiler. The order matters: bold consumes doubled
// delimiters before italic sees single ones, and images run before links.
var stages = [...]stage{
	{"header", compileHeader},
	{"bold-star", compileBoldStars},
	{"bold-underscore", compileBoldUnderscores},
	{"italic-star", compileItalicStar},
	{"italic-underscore", compileItalicUnderscore},
	{"strikethrough", compileStrikethrough},
	{"inline-code", compileInlineCode},
	{"image", compileImages},
	{"link", compileLinks},
}

// CompileLine converts the Markdown spans of a single line to HTML.
// It never fails: unmatched delimiters are returned literally.
func CompileLine(line string) string {
	for _, s := range stages {
		line = s.transform(line)
	}
	return line
}

// StageOutput records the line as it left one stage.
type StageOutput struct {
	Stage   string
	Line    string
	Changed bool
}

// TraceLine compiles a line like CompileLine and records every stage.
// The last entry's Line equals CompileLine(line).
func TraceLine(line string) []StageOutput {
	out := make([]StageOutput, 0, len(stages))
	for _, s := range stages {
		next := s.transform(line)
		out = append(out, StageOutput{Stage: s.name, Line: next, Changed: next != line})
		line = next
	}
	return out
}
