// Package fileutil provides file, path and text-decoding helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Sentinel errors for file utility operations.
var (
	ErrDecode       = errors.New("cannot decode text")
	ErrEmptyPath    = errors.New("path cannot be empty")
	ErrPathIsFolder = errors.New("path is a directory")
)

// markdownExtensions lists the extensions treated as Markdown input.
var markdownExtensions = []string{".md", ".markdown"}

// DecodeText converts raw input bytes to a UTF-8 string.
// A UTF-8 BOM is stripped; UTF-16 LE/BE input is recognized by its BOM.
// Input without a BOM is read as UTF-8, invalid sequences becoming U+FFFD.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(out), nil
}

// WriteFileAtomic writes content next to path in a temp file, then renames it
// into place so readers never observe a partially written file.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPathIsFolder, path)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "C:\styles\x.css" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsCSS returns true if the string looks like CSS content rather than a name.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsMarkdown reports whether path has a Markdown extension (case-insensitive).
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range markdownExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
