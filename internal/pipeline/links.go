package pipeline

import (
	"regexp"
	"strings"
)

// imagePattern matches ![alt](url); alt stops at ']' and url at ')'.
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)

// compileImages transforms ![alt](url) to an <img> element.
// Must run before compileLinks, which would otherwise consume the [alt](url)
// suffix and strand the '!'.
func compileImages(line string) string {
	if !strings.Contains(line, "![") {
		return line
	}
	return imagePattern.ReplaceAllString(line, `<img src="${2}" alt="${1}" />`)
}

// compileLinks transforms [text](url) to <a href="url">text</a>.
// The '(' must directly follow the ']'. The first span that fails to match
// stops the scan, leaving the remainder of the line untouched.
func compileLinks(line string) string {
	if strings.IndexByte(line, '[') < 0 {
		return line
	}

	var b strings.Builder
	rest := line
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			break
		}

		closeRel := strings.IndexByte(rest[open:], ']')
		if closeRel < 0 {
			break
		}
		closeBracket := open + closeRel

		parenOpen := closeBracket + 1
		if parenOpen >= len(rest) || rest[parenOpen] != '(' {
			break
		}

		parenRel := strings.IndexByte(rest[parenOpen:], ')')
		if parenRel < 0 {
			break
		}
		parenClose := parenOpen + parenRel

		b.WriteString(rest[:open])
		b.WriteString(`<a href="`)
		b.WriteString(rest[parenOpen+1 : parenClose])
		b.WriteString(`">`)
		b.WriteString(rest[open+1 : closeBracket])
		b.WriteString("</a>")
		rest = rest[parenClose+1:]
	}

	b.WriteString(rest)
	return b.String()
}
