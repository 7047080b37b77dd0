package pipeline

import "strings"

// fenceMarker opens or closes a multi-line code block.
const fenceMarker = "```"

// codeEscaper escapes angle brackets only; '&' is left alone.
var codeEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// IsFenceLine reports whether the line starts with a code fence marker.
func IsFenceLine(line string) bool {
	return strings.HasPrefix(line, fenceMarker)
}

// compileInlineCode wraps `code` spans in <code> tags, escaping their
// content. Fence lines pass through whole and a mid-line ``` is literal.
func compileInlineCode(line string) string {
	if IsFenceLine(line) || strings.IndexByte(line, '`') < 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 16)

	i := 0
	for i < len(line) {
		if line[i] != '`' {
			b.WriteByte(line[i])
			i++
			continue
		}

		if strings.HasPrefix(line[i:], fenceMarker) {
			b.WriteString(fenceMarker)
			i += len(fenceMarker)
			continue
		}

		end := strings.IndexByte(line[i+1:], '`')
		if end < 0 {
			b.WriteByte('`')
			i++
			continue
		}

		closing := i + 1 + end
		b.WriteString("<code>")
		b.WriteString(codeEscaper.Replace(line[i+1 : closing]))
		b.WriteString("</code>")
		i = closing + 1
	}

	return b.String()
}
