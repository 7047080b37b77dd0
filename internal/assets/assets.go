// Package assets provides the CSS styles injected into generated HTML
// documents.
//
// Styles come from two places:
//
//	StyleLoader (interface)
//	    ├── EmbeddedLoader    built-in styles compiled into the binary
//	    ├── FilesystemLoader  {basePath}/styles/{name}.css on disk
//	    └── AssetResolver     filesystem first, embedded as fallback
//
// Style names are bare identifiers: no extension, no path separators.
package assets

// DefaultStyleName is the built-in style used when none is configured.
const DefaultStyleName = "default"

// StyleLoader loads a CSS style by name (without the .css extension).
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// ListStyles returns the names of the embedded styles, sorted.
func ListStyles() []string {
	return defaultLoader.ListStyles()
}
