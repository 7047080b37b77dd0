package pipeline

import (
	"regexp"
	"strings"
)

// Bold spans need at least one character of content, so "****" never opens.
var (
	boldStarPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderscorePattern = regexp.MustCompile(`__(.+?)__`)
)

// compileBoldStars transforms **text** to <b>text</b>.
func compileBoldStars(line string) string {
	return boldStarPattern.ReplaceAllString(line, "<b>${1}</b>")
}

// compileBoldUnderscores transforms __text__ to <b>text</b>.
func compileBoldUnderscores(line string) string {
	return boldUnderscorePattern.ReplaceAllString(line, "<b>${1}</b>")
}

// compileItalicStar transforms *text* to <i>text</i>.
func compileItalicStar(line string) string {
	return compileItalic(line, '*')
}

// compileItalicUnderscore transforms _text_ to <i>text</i>.
func compileItalicUnderscore(line string) string {
	return compileItalic(line, '_')
}

// compileItalic pairs each delimiter with the next identical one, left to
// right. Adjacent delimiters yield an empty <i></i>; a delimiter without a
// partner is kept as-is.
func compileItalic(line string, delim byte) string {
	if strings.IndexByte(line, delim) < 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 8)

	i := 0
	for i < len(line) {
		if line[i] != delim {
			b.WriteByte(line[i])
			i++
			continue
		}

		end := strings.IndexByte(line[i+1:], delim)
		if end < 0 {
			b.WriteByte(line[i])
			i++
			continue
		}

		closing := i + 1 + end
		b.WriteString("<i>")
		b.WriteString(line[i+1 : closing])
		b.WriteString("</i>")
		i = closing + 1
	}

	return b.String()
}
