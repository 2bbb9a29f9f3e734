package ports

// WorkspaceLocator finds a Docent workspace root starting from an arbitrary
// directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}
