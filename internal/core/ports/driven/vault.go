package driven

import (
	"context"
)

// FolderEntry is one folder discovered in the vault
type FolderEntry struct {
	Path      string   // Vault-relative path, unique key
	Name      string   // Display name (last path segment)
	NotePaths []string // Vault-relative paths of member notes
}

// Vault provides read-only access to the host document store.
// Write and move operations are out of scope.
type Vault interface {
	// ReadFile returns the content of a note by vault-relative path.
	// Returns domain.ErrNotFound when the path does not exist.
	ReadFile(ctx context.Context, path string) (string, error)

	// ListFolders enumerates all folders and their member notes
	ListFolders(ctx context.Context) ([]FolderEntry, error)

	// ListFolder returns the member note paths of a single folder.
	// Returns domain.ErrNotFound when the folder does not exist.
	ListFolder(ctx context.Context, path string) ([]string, error)
}
