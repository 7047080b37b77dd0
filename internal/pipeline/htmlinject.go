package pipeline

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// DefaultTitle is used when a document has no title.
const DefaultTitle = "Document"

// documentTemplate wraps a compiled fragment in a complete HTML5 document.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// WrapDocument embeds fragment in an HTML5 document with an escaped title.
func WrapDocument(fragment, title string) string {
	if title == "" {
		title = DefaultTitle
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), strings.TrimSuffix(fragment, "\n"))
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body> when there
// is no head, or in front of the content otherwise.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>\n" + sanitizeCSS(cssContent) + "\n</style>\n"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS keeps CSS from closing the <style> element early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// FirstHeading returns the text of the first ATX header in content, used
// as the document title when none is given.
func FirstHeading(content string) string {
	var tracker FenceTracker
	for _, l := range SplitLines(content) {
		if tracker.classify(l.Text) != kindText || !strings.HasPrefix(l.Text, "#") {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(l.Text, "#"))
	}
	return ""
}
