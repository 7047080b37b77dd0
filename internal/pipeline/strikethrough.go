package pipeline

import "strings"

const strikeDelim = "~~"

// compileStrikethrough transforms ~~text~~ to <ins>text</ins>.
// The closing pair is searched after the two-character opener and must fit
// entirely inside the line.
func compileStrikethrough(line string) string {
	if !strings.Contains(line, strikeDelim) {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 8)

	i := 0
	for i < len(line) {
		if strings.HasPrefix(line[i:], strikeDelim) {
			start := i + len(strikeDelim)
			if end := strings.Index(line[start:], strikeDelim); end >= 0 {
				closing := start + end
				b.WriteString("<ins>")
				b.WriteString(line[start:closing])
				b.WriteString("</ins>")
				i = closing + len(strikeDelim)
				continue
			}
		}
		b.WriteByte(line[i])
		i++
	}

	return b.String()
}
