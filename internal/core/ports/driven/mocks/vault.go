package mocks

import (
	"context"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// MockVault is a mock implementation of Vault for testing
type MockVault struct {
	Files   map[string]string
	Folders []driven.FolderEntry

	ReadFileFn    func(ctx context.Context, path string) (string, error)
	ListFoldersFn func(ctx context.Context) ([]driven.FolderEntry, error)
	ListFolderFn  func(ctx context.Context, path string) ([]string, error)
}

func NewMockVault() *MockVault {
	return &MockVault{
		Files: make(map[string]string),
	}
}

func (m *MockVault) ReadFile(ctx context.Context, path string) (string, error) {
	if m.ReadFileFn != nil {
		return m.ReadFileFn(ctx, path)
	}
	if content, ok := m.Files[path]; ok {
		return content, nil
	}
	return "", domain.ErrNotFound
}

func (m *MockVault) ListFolders(ctx context.Context) ([]driven.FolderEntry, error) {
	if m.ListFoldersFn != nil {
		return m.ListFoldersFn(ctx)
	}
	return m.Folders, nil
}

func (m *MockVault) ListFolder(ctx context.Context, path string) ([]string, error) {
	if m.ListFolderFn != nil {
		return m.ListFolderFn(ctx, path)
	}
	for _, f := range m.Folders {
		if f.Path == path {
			return f.NotePaths, nil
		}
	}
	return nil, domain.ErrNotFound
}
