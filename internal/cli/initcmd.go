package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docentkit/docent/internal/infra/fsworkspace"
	"github.com/docentkit/docent/internal/usecase"
)

func initCmd() *cobra.Command {
	var course string
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new course workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", dir, err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(abs, course, force); err != nil {
				return err
			}

			fmt.Printf("Workspace ready at %s\n", abs)
			fmt.Println("Next: edit course.yaml, then run `docent verify`.")
			return nil
		},
	}

	c.Flags().StringVar(&course, "course", "", "Course title for the new workspace")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing template files")

	return c
}
