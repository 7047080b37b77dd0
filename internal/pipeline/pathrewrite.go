package pipeline

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ImageRewriter is implemented by engines that know how to rewrite image
// sources in their own output.
type ImageRewriter interface {
	RewriteImageSources(htmlContent, sourceDir string) (string, error)
}

var (
	_ ImageRewriter = (*LineEngine)(nil)
	_ ImageRewriter = (*GoldmarkEngine)(nil)
)

// compiledImageSrc matches the opening of the tag emitted by the image stage.
var compiledImageSrc = regexp.MustCompile(`<img src="([^"]*)"`)

// RewriteImageSources rewrites the images CompileLine produced.
func (e *LineEngine) RewriteImageSources(htmlContent, sourceDir string) (string, error) {
	return RewriteCompiledImageSources(htmlContent, sourceDir)
}

// RewriteImageSources rewrites images in goldmark's well-formed output.
func (g *GoldmarkEngine) RewriteImageSources(htmlContent, sourceDir string) (string, error) {
	return RewriteImageSources(htmlContent, sourceDir)
}

// RewriteCompiledImageSources is RewriteImageSources for line engine output.
// That output is not well-formed HTML (text is never sanitized), so only
// the src value of each <img src="..."> tag is replaced and every other
// byte is kept.
func RewriteCompiledImageSources(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(htmlContent, "<img") {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	return compiledImageSrc.ReplaceAllStringFunc(htmlContent, func(tag string) string {
		src := compiledImageSrc.FindStringSubmatch(tag)[1]
		resolved, ok := resolveImageSource(src, absSourceDir)
		if !ok {
			return tag
		}
		return `<img src="` + resolved + `"`
	}), nil
}

// RewriteImageSources resolves relative img[src] values against sourceDir
// and turns them into file:// URLs, so a document written elsewhere still
// finds its images. URLs, anchors, absolute paths and paths escaping
// sourceDir are left alone. An empty sourceDir returns htmlContent as-is.
//
// The fragment is re-rendered by the HTML parser, so attribute quoting and
// void elements come out in its canonical form. Input must be well-formed;
// use RewriteCompiledImageSources for line engine output.
func RewriteImageSources(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(htmlContent, "<img") {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteImages(n, absSourceDir)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteImages walks the tree and rewrites every img src in place.
func rewriteImages(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" {
				continue
			}
			if resolved, ok := resolveImageSource(attr.Val, sourceDir); ok {
				n.Attr[i].Val = resolved
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, sourceDir)
	}
}

// resolveImageSource returns the file:// URL for a relative src inside
// sourceDir, or false when src must be left alone.
func resolveImageSource(src, sourceDir string) (string, bool) {
	if !isRelativePath(src) {
		return "", false
	}
	absPath := filepath.Join(sourceDir, filepath.FromSlash(src))
	if !isPathUnderDir(absPath, sourceDir) {
		return "", false
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}).String(), true
}

// isRelativePath reports whether src names a local, relative file.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") {
		return false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(src) && !strings.HasPrefix(src, "/")
}

// isPathUnderDir checks that absPath stays inside dir.
func isPathUnderDir(absPath, dir string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(absPath))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
