package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/infra/courseloader"
	"github.com/docentkit/docent/internal/infra/httpclient"
	"github.com/docentkit/docent/internal/infra/linkprobe"
	"github.com/docentkit/docent/internal/infra/markdown"
	"github.com/docentkit/docent/internal/infra/reportstore"
	"github.com/docentkit/docent/internal/infra/workspacefinder"
	"github.com/docentkit/docent/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadLessons(root string) tea.Cmd {
	return func() tea.Msg {
		loader := courseloader.NewLoader()
		refs, err := loader.ListLessons(root)
		return lessonsLoadedMsg{root: root, refs: refs, err: err}
	}
}

// cmdRenderLesson loads one lesson and renders its body for the terminal.
// width is the wrap width the reader viewport can show.
func cmdRenderLesson(root string, ref domain.LessonRef, width int) tea.Cmd {
	return func() tea.Msg {
		loader := courseloader.NewLessonLoader(markdown.NewParser())
		lesson, err := loader.LoadLesson(root, ref)
		if err != nil {
			return lessonRenderedMsg{ref: ref, err: err}
		}

		if width < 20 {
			width = 20
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return lessonRenderedMsg{ref: ref, err: fmt.Errorf("renderer: %w", err)}
		}

		out, err := r.Render(string(lesson.Body))
		if err != nil {
			return lessonRenderedMsg{ref: ref, err: fmt.Errorf("render %s: %w", ref.Path, err)}
		}

		return lessonRenderedMsg{ref: ref, content: out, err: nil}
	}
}

func listenVerify(ch <-chan verifyDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return verifyDoneMsg{err: errors.New("verify channel closed")}
		}
		return msg
	}
}

// startVerifyAsync runs a verification in its own goroutine and returns a
// command that waits for the result. lessonKey narrows the run to one lesson
// (no report artifact); a whole-course run saves one.
func startVerifyAsync(
	workspaceRoot, lessonKey string,
	log *slog.Logger,
	debug bool,
) (chan verifyDoneMsg, tea.Cmd) {
	ch := make(chan verifyDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		log.Info("verify.start",
			"workspace", workspaceRoot,
			"lesson", lessonKey,
			"debug", debug,
		)

		cfg, err := workspacefinder.LoadConfig(workspaceRoot)
		if err != nil {
			log.Error("verify.load_config.failed", "err", err)
			ch <- verifyDoneMsg{lessonKey: lessonKey, err: err}
			return
		}

		var opts []usecase.VerifyOption
		if cfg.Probe.Enabled && lessonKey == "" {
			hc := httpclient.DefaultConfig()
			if cfg.Probe.TimeoutMS > 0 {
				hc.Timeout = time.Duration(cfg.Probe.TimeoutMS) * time.Millisecond
			}
			opts = append(opts, usecase.WithProber(linkprobe.New(httpclient.New(hc))))
		}

		courses := courseloader.NewLoader()
		lessons := courseloader.NewLessonLoader(markdown.NewParser())

		uc := usecase.NewVerifyCourse(courses, lessons, opts...)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		rep, execErr := uc.Execute(ctx, workspaceRoot, lessonKey)

		var id string
		if execErr == nil && lessonKey == "" {
			store := reportstore.NewJSONStore(workspaceRoot, cfg, reportstore.WithIndex(true))
			var saveErr error
			if id, saveErr = store.SaveReport(rep); saveErr != nil {
				log.Error("verify.save.failed", "err", saveErr)
			}
		}

		if execErr != nil {
			log.Error("verify.failed", "err", execErr)
		} else {
			passed, failed, warned, skipped := rep.Counts()
			log.Info("verify.ok",
				"saved_id", id,
				"passed", passed,
				"failed", failed,
				"warnings", warned,
				"skipped", skipped,
			)
		}

		for _, lr := range rep.Lessons {
			if lr.Error != nil {
				log.Warn("lesson.error",
					"lesson", lr.Ref.Slug(),
					"kind", string(lr.Error.Kind),
					"message", lr.Error.Message,
				)
			} else if debug {
				log.Debug("lesson.checked",
					"lesson", lr.Ref.Slug(),
					"checks", len(lr.Results),
					"failed", lr.Failed(),
				)
			}
		}

		ch <- verifyDoneMsg{lessonKey: lessonKey, report: rep, id: id, err: execErr}
	}()

	return ch, listenVerify(ch)
}
