package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func readCmd() *cobra.Command {
	var workspace string
	var raw bool
	var width int

	c := &cobra.Command{
		Use:   "read <lesson>",
		Short: "Render a lesson in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			ref, err := resolveLessonArg(ws, args[0])
			if err != nil {
				return err
			}

			lesson, err := ws.lessons.LoadLesson(ws.root, ref)
			if err != nil {
				return err
			}

			if raw {
				_, err := os.Stdout.Write(lesson.Raw)
				return err
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("renderer: %w", err)
			}

			out, err := r.Render(string(lesson.Body))
			if err != nil {
				return fmt.Errorf("render %s: %w", ref.Path, err)
			}

			fmt.Print(out)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().BoolVar(&raw, "raw", false, "Print the lesson file as-is, frontmatter included")
	c.Flags().IntVar(&width, "width", 100, "Wrap width for rendered output")

	return c
}
