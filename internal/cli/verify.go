package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/infra/httpclient"
	"github.com/docentkit/docent/internal/infra/linkprobe"
	"github.com/docentkit/docent/internal/usecase"
)

func verifyCmd() *cobra.Command {
	var workspace string
	var lesson string
	var probe bool
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "verify",
		Short: "Verify course content: structure, links, snippets, data checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			// The manifest default applies unless the flag was given
			// explicitly, so --probe=false can switch probing off.
			if !cmd.Flags().Changed("probe") {
				probe = ws.cfg.Probe.Enabled
			}

			var opts []usecase.VerifyOption
			if probe {
				cfg := httpclient.DefaultConfig()
				if ws.cfg.Probe.TimeoutMS > 0 {
					cfg.Timeout = time.Duration(ws.cfg.Probe.TimeoutMS) * time.Millisecond
				}
				opts = append(opts, usecase.WithProber(linkprobe.New(httpclient.New(cfg))))
			}

			uc := usecase.NewVerifyCourse(ws.courses, ws.lessons, opts...)
			rep, err := uc.Execute(cmd.Context(), ws.root, lesson)
			if err != nil {
				return err
			}

			var reportID string
			var saveErr error
			if !noSave {
				reportID, saveErr = ws.store.SaveReport(rep)
			}

			if err := printReport(os.Stdout, rep, reportID, format); err != nil {
				return err
			}
			if saveErr != nil {
				return saveErr
			}

			if n := rep.FailureCount(); n > 0 {
				return fmt.Errorf("verification failed (%d failing check(s))", n)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&lesson, "lesson", "l", "", "Verify a single lesson (number, slug, dir, or path)")
	c.Flags().BoolVar(&probe, "probe", false, "Probe external links over HTTP")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save a report artifact under reports/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	return c
}

func printReport(w io.Writer, rep domain.Report, reportID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		// Include reportID (optional) as a wrapper to avoid changing the
		// domain model.
		payload := map[string]any{
			"report_id": reportID,
			"report":    rep,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyReport(w, rep, reportID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyReport(w io.Writer, rep domain.Report, reportID string) {
	total := rep.EndedAt.Sub(rep.StartedAt)
	if rep.StartedAt.IsZero() || rep.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Course:   %s\n", rep.CourseTitle)
	fmt.Fprintf(w, "Root:     %s\n", rep.Root)
	fmt.Fprintf(w, "Probe:    %v\n", rep.Probe)
	fmt.Fprintf(w, "Duration: %s\n", total)
	if reportID != "" {
		fmt.Fprintf(w, "Report:   %s\n", reportID)
	}
	fmt.Fprintln(w)

	for _, lr := range rep.Lessons {
		mark := "✓"
		if lr.Failed() {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s — %s (%d checks)\n", mark, lr.Ref.Slug(), lr.Ref.Title, len(lr.Results))

		if lr.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", lr.Error.Message, lr.Error.Kind)
		}

		// Passing checks stay quiet; everything else gets a line.
		for _, cr := range lr.Results {
			switch {
			case cr.Skipped:
				fmt.Fprintf(w, "  - %s: skipped — %s\n", cr.Check, cr.Message)
			case cr.Passed:
				continue
			case cr.Level == domain.LevelWarning:
				fmt.Fprintf(w, "  ! %s: %s (%s)\n", cr.Check, cr.Message, cr.Target)
			default:
				fmt.Fprintf(w, "  ✗ %s: %s (%s)\n", cr.Check, cr.Message, cr.Target)
			}
		}
	}

	passed, failed, warned, skipped := rep.Counts()
	fmt.Fprintf(w, "\nchecks: %d passed, %d failed, %d warnings, %d skipped\n",
		passed, failed, warned, skipped)
}
