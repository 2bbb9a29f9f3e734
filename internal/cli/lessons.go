package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func lessonsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "lessons",
		Short: "Work with the lessons of a course",
	}

	c.AddCommand(lessonsListCmd())
	return c
}

func lessonsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lessons in manifest order",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			course, err := ws.courses.LoadCourse(ws.root)
			if err != nil {
				return err
			}

			fmt.Printf("Course: %s\n", course.Title)
			fmt.Printf("Root:   %s\n", ws.root)

			for _, u := range course.Units {
				fmt.Printf("\n%s\n", u.Name)
				for _, l := range u.Lessons {
					fmt.Printf("  %d. %s  (%s)\n", l.Number, l.Title, l.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
