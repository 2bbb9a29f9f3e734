package ports

// SnippetChecker validates that a fenced code block is syntactically
// well-formed for one language. A nil error means the snippet parses.
type SnippetChecker interface {
	Lang() string
	Check(src string) error
}
