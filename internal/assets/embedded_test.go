package assets

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name    string
		style   string
		wantErr error
	}{
		{name: "default style", style: "default"},
		{name: "plain style", style: "plain"},
		{name: "dark style", style: "dark"},
		{name: "unknown style", style: "nonexistent-xyz", wantErr: ErrStyleNotFound},
		{name: "empty name", style: "", wantErr: ErrInvalidAssetName},
		{name: "traversal", style: "../secret", wantErr: ErrInvalidAssetName},
		{name: "extension given", style: "default.css", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.style, err)
			}
			if !strings.Contains(got, "body") {
				t.Errorf("LoadStyle(%q) should contain a body rule", tt.style)
			}
		})
	}
}

func TestListStyles(t *testing.T) {
	t.Parallel()

	got := ListStyles()
	for _, want := range []string{"dark", "default", "plain"} {
		if !slices.Contains(got, want) {
			t.Errorf("ListStyles() = %v, missing %q", got, want)
		}
	}
	if !slices.IsSorted(got) {
		t.Errorf("ListStyles() = %v, want sorted", got)
	}
}

func TestLoadStyle_DefaultName(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle(DefaultStyleName) error = %v", err)
	}
}
