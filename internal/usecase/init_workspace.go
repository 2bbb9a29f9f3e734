package usecase

import (
	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(root, title string, force bool) error {
	return uc.initializer.Init(domain.WorkspaceSpec{Root: root, Title: title}, force)
}
