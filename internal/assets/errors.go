package assets

import "errors"

var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName indicates the name contains path separators or dots.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the asset directory is missing or unreadable.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error while reading a style file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates a resolved path escaped the base directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
