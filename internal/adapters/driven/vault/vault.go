package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Vault = (*Vault)(nil)

// DefaultIgnorePatterns hides tool state and templates from folder
// scans. Patterns are doublestar globs over vault-relative paths.
var DefaultIgnorePatterns = []string{
	".obsidian/**",
	".trash/**",
	".git/**",
	"templates/**",
}

// Vault is a read-only view of a notes directory. All paths in and out
// are vault-relative with forward slashes.
type Vault struct {
	root    string
	ignores []string
}

// Config holds configuration for a filesystem Vault.
type Config struct {
	// Root is the vault directory
	Root string

	// IgnorePatterns are doublestar globs excluded from folder scans.
	// Nil means DefaultIgnorePatterns; an empty non-nil slice disables
	// ignoring.
	IgnorePatterns []string
}

// New creates a read-only filesystem Vault
func New(cfg Config) (*Vault, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: vault root is required", domain.ErrConfiguration)
	}

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: vault root %s is not a directory", domain.ErrConfiguration, cfg.Root)
	}

	ignores := cfg.IgnorePatterns
	if ignores == nil {
		ignores = DefaultIgnorePatterns
	}
	for _, pattern := range ignores {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: invalid ignore pattern %q", domain.ErrConfiguration, pattern)
		}
	}

	return &Vault{root: cfg.Root, ignores: ignores}, nil
}

// ReadFile returns the content of one note
func (v *Vault) ReadFile(_ context.Context, path string) (string, error) {
	rel, err := v.safeJoin(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(rel)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// ListFolders walks the vault and returns one entry per folder that
// holds at least one markdown note, the root included as "".
func (v *Vault) ListFolders(ctx context.Context) ([]driven.FolderEntry, error) {
	byFolder := make(map[string][]string)

	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(v.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if v.ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(rel), ".md") {
			return nil
		}

		folder := filepath.ToSlash(filepath.Dir(rel))
		if folder == "." {
			folder = ""
		}
		byFolder[folder] = append(byFolder[folder], rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}

	entries := make([]driven.FolderEntry, 0, len(byFolder))
	for folder, notes := range byFolder {
		sort.Strings(notes)
		entries = append(entries, driven.FolderEntry{
			Path:      folder,
			Name:      folderName(folder),
			NotePaths: notes,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// ListFolder returns the markdown notes directly inside one folder
func (v *Vault) ListFolder(ctx context.Context, path string) ([]string, error) {
	entries, err := v.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Path == path {
			return entry.NotePaths, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
}

// ignored reports whether a vault-relative path matches any ignore
// pattern.
func (v *Vault) ignored(rel string) bool {
	for _, pattern := range v.ignores {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// safeJoin resolves a vault-relative path and rejects escapes
func (v *Vault) safeJoin(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: path %q escapes the vault", domain.ErrValidation, path)
	}
	return filepath.Join(v.root, clean), nil
}

func folderName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
