package domain

import (
	"strings"
	"testing"
)

func TestNewDocumentProfile_TruncatesPreview(t *testing.T) {
	long := strings.Repeat("a", MaxPreviewLength+200)

	profile := NewDocumentProfile("notes/test.md", "Test", nil, nil, long)

	if len([]rune(profile.Preview)) != MaxPreviewLength {
		t.Errorf("expected preview truncated to %d runes, got %d",
			MaxPreviewLength, len([]rune(profile.Preview)))
	}
}

func TestNewDocumentProfile_ShortPreviewUnchanged(t *testing.T) {
	profile := NewDocumentProfile("notes/test.md", "Test", nil, nil, "  short preview  ")

	if profile.Preview != "short preview" {
		t.Errorf("expected trimmed preview, got %q", profile.Preview)
	}
}

func TestFolderProfile_DisplayName(t *testing.T) {
	tests := []struct {
		name   string
		folder FolderProfile
		want   string
	}{
		{"explicit name", FolderProfile{Path: "Work/Projects", Name: "Projects"}, "Projects"},
		{"last path segment", FolderProfile{Path: "Work/Projects"}, "Projects"},
		{"root folder", FolderProfile{Path: "Inbox"}, "Inbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.folder.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
