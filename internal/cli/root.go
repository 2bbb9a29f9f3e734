// Package cli wires the docent commands. The bare command launches the TUI;
// subcommands cover scripted use (verify in CI, listing, reading, init).
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docentkit/docent/internal/infra/fsworkspace"
	"github.com/docentkit/docent/internal/infra/logger"
	"github.com/docentkit/docent/internal/infra/workspacefinder"
	"github.com/docentkit/docent/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "docent",
		Short:        "Docent — file-based courseware, verified",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			finder := workspacefinder.NewFinder()

			logRoot := wd
			if root, ferr := finder.FindRoot(wd); ferr == nil && root != "" {
				logRoot = root
			}

			cleanup, _ := logger.Setup(logger.Config{
				Root:  logRoot,
				Debug: debug,
			})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}

			deps := tui.Deps{
				WorkspaceLocator:     finder,
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Logger:               logger.L(),
				Debug:                debug,
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .docent/logs/docent.log")

	cmd.AddCommand(verifyCmd())
	cmd.AddCommand(lessonsCmd())
	cmd.AddCommand(readCmd())
	cmd.AddCommand(initCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
