package assets

import "errors"

// AssetResolver loads styles from a custom directory first and falls back
// to the embedded set when the style is not there.
type AssetResolver struct {
	custom   StyleLoader // nil without a custom base path
	embedded StyleLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath
// means embedded styles only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a style, custom directory first.
// Validation and read errors from the custom loader are not masked by the fallback.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	content, err := r.custom.LoadStyle(name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}

	return r.embedded.LoadStyle(name)
}

// HasCustomLoader reports whether a custom base path is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ StyleLoader = (*AssetResolver)(nil)
