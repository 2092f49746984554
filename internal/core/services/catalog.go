package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Catalog assembles document and folder profiles from the read-only
// vault. Folder profiles are rebuilt on each scan; centroids and
// coherence are left to the profile builder.
type Catalog struct {
	vault  driven.Vault
	logger *slog.Logger
}

// NewCatalog creates a new Catalog.
func NewCatalog(vault driven.Vault, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{vault: vault, logger: logger}
}

// DocumentProfile builds an immutable profile for one note.
func (c *Catalog) DocumentProfile(ctx context.Context, path string) (*domain.DocumentProfile, error) {
	content, err := c.vault.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	body := stripFrontmatter(content)

	return domain.NewDocumentProfile(
		path,
		extractTitle(content, path),
		extractTags(content),
		extractHeadings(body),
		previewText(body),
	), nil
}

// FolderProfiles scans the vault and builds one profile per folder.
// Results are sorted by path for deterministic prompts.
func (c *Catalog) FolderProfiles(ctx context.Context) ([]*domain.FolderProfile, error) {
	entries, err := c.vault.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	folders := make([]*domain.FolderProfile, 0, len(entries))
	for _, entry := range entries {
		folders = append(folders, c.folderProfile(ctx, entry))
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Path < folders[j].Path })
	return folders, nil
}

func (c *Catalog) folderProfile(ctx context.Context, entry driven.FolderEntry) *domain.FolderProfile {
	profile := &domain.FolderProfile{
		Path:        entry.Path,
		Name:        entry.Name,
		MemberCount: len(entry.NotePaths),
		MemberIDs:   entry.NotePaths,
	}

	// A bounded sample of member titles gives the judgment service a
	// sense of what already lives in the folder.
	for _, notePath := range entry.NotePaths {
		if len(profile.SampleTitles) >= domain.MaxSampleTitles {
			break
		}
		content, err := c.vault.ReadFile(ctx, notePath)
		if err != nil {
			c.logger.Debug("skipping unreadable note", "path", notePath, "error", err)
			continue
		}
		profile.SampleTitles = append(profile.SampleTitles, extractTitle(content, notePath))
	}

	return profile
}

var (
	frontmatterRe = regexp.MustCompile(`(?s)\A---\n.*?\n---\n?`)
	headingRe     = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	inlineTagRe   = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}/_-]+)`)
	fmTagsRe      = regexp.MustCompile(`(?m)^tags:\s*\[([^\]]*)\]`)
	fmTitleRe     = regexp.MustCompile(`(?m)^title:\s*"?([^"\n]+)"?\s*$`)
	codeBlockRe   = regexp.MustCompile("(?s)```[^`]*```")
)

// stripFrontmatter removes a leading YAML frontmatter block.
func stripFrontmatter(content string) string {
	return frontmatterRe.ReplaceAllString(content, "")
}

// extractTitle prefers the frontmatter title, then the first H1, then
// the filename.
func extractTitle(content, path string) string {
	if m := fmTitleRe.FindStringSubmatch(content); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}

	for _, line := range strings.Split(stripFrontmatter(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	filename := filepath.Base(path)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// extractTags collects frontmatter and inline tags, de-duplicated.
// The tag set carries no meaningful order.
func extractTags(content string) []string {
	seen := make(map[string]struct{})
	var tags []string

	add := func(tag string) {
		tag = strings.TrimSpace(strings.Trim(tag, `"'`))
		tag = strings.TrimPrefix(tag, "#")
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if m := fmTagsRe.FindStringSubmatch(content); m != nil {
		for _, tag := range strings.Split(m[1], ",") {
			add(tag)
		}
	}

	for _, m := range inlineTagRe.FindAllStringSubmatch(stripFrontmatter(content), -1) {
		add(m[1])
	}

	return tags
}

// extractHeadings returns headings in document order.
func extractHeadings(body string) []string {
	body = codeBlockRe.ReplaceAllString(body, "")

	var headings []string
	for _, m := range headingRe.FindAllStringSubmatch(body, -1) {
		if h := strings.TrimSpace(m[2]); h != "" {
			headings = append(headings, h)
		}
	}
	return headings
}

// previewText flattens the body into a plain-text preview.
func previewText(body string) string {
	body = codeBlockRe.ReplaceAllString(body, "")

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#>- "))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return domain.TruncatePreview(strings.Join(lines, " "))
}
