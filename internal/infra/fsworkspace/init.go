// Package fsworkspace scaffolds a new course workspace on disk from embedded
// templates.
package fsworkspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

type Initializer struct {
	resolver *domain.PlaceholderResolver
}

type Option func(*Initializer)

// WithResolver overrides the placeholder resolver used on template content.
func WithResolver(r *domain.PlaceholderResolver) Option {
	return func(i *Initializer) {
		if r != nil {
			i.resolver = r
		}
	}
}

func NewInitializer(opts ...Option) *Initializer {
	i := &Initializer{resolver: domain.NewPlaceholderResolver()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init creates the workspace directories, keeps .gitignore honest, and
// writes the starter course from templates. Existing files are preserved
// unless force is set. Template content is placeholder-resolved, so the new
// course.yaml and starter lesson carry the requested title.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	title := strings.TrimSpace(spec.Title)
	if title == "" {
		title = "New Course"
	}
	vars := domain.Vars{"title": title}

	dirs := []string{
		filepath.Join(root, "units"),
		filepath.Join(root, "data"),
		filepath.Join(root, "reports"),
		filepath.Join(root, ".docent", "logs"),
	}

	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}

	if err := ensureGitignore(root); err != nil {
		return err
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, filepath.FromSlash(rel))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}

		resolved, err := i.resolver.Resolve(string(b), vars)
		if err != nil {
			return &domain.OpError{
				Op:   "fsworkspace.init",
				Kind: domain.KindInvalidContent,
				Path: rel,
				Err:  fmt.Errorf("template: %w", err),
			}
		}

		return os.WriteFile(dst, []byte(resolved), 0o644)
	})
}

func ensureGitignore(root string) error {
	const header = "# Docent"
	entries := []string{
		"reports/",
		".docent/",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
