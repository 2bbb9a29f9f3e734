package ports

import "github.com/docentkit/docent/internal/domain"

// DocumentParser turns Markdown source (frontmatter already stripped) into
// the domain document model.
type DocumentParser interface {
	Parse(src []byte) (domain.Document, error)
}
