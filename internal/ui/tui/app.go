// Package tui is the interactive face of docent: a home menu, the lesson
// browser, a reader, and a verify screen, in one bubbletea program.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docentkit/docent/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenLessons
	screenReader
	screenVerify
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type lessonItem struct {
	ref domain.LessonRef
}

func (l lessonItem) Title() string       { return fmt.Sprintf("%d. %s", l.ref.Number, l.ref.Title) }
func (l lessonItem) Description() string { return l.ref.Path }
func (l lessonItem) FilterValue() string { return l.ref.Title }

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	menu    list.Model
	lessons list.Model
	reader  viewport.Model

	readerRef   domain.LessonRef
	overlay     bool
	overlayText string

	verifying bool
	report    *domain.Report
	reportID  string

	cwd            string
	workspaceFound bool
	workspaceRoot  string

	toast string

	width  int
	height int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{"Lessons", "Browse the course and read lessons in the terminal"},
		menuItem{"Verify", "Run structure, link, snippet, and data checks"},
		menuItem{"Quit", "Exit Docent"},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Docent"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)

	lessons := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	lessons.Title = "Lessons"
	lessons.SetShowStatusBar(false)
	lessons.SetFilteringEnabled(true)
	lessons.SetShowHelp(false)

	m := model{
		theme:   t,
		deps:    deps,
		scr:     screenHome,
		menu:    menu,
		lessons: lessons,
		reader:  viewport.New(0, 0),
	}

	wd, err := os.Getwd()
	if err == nil {
		m.cwd = wd
		if deps.WorkspaceLocator != nil {
			root, findErr := deps.WorkspaceLocator.FindRoot(wd)
			if findErr == nil {
				m.workspaceFound = true
				m.workspaceRoot = root
			}
		}
	}

	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		m.lessons.SetSize(msg.Width-4, msg.Height-10)

		rw, rh := msg.Width-8, msg.Height-10
		if rw < 1 {
			rw = 1
		}
		if rh < 1 {
			rh = 1
		}
		m.reader.Width = rw
		m.reader.Height = rh
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.scr {
		case screenHome:
			switch msg.String() {
			case "q":
				return m, tea.Quit

			case "i":
				if !m.workspaceFound && m.cwd != "" {
					m.toast = "Creating workspace…"
					return m, cmdInitWorkspaceHere(m.deps, m.cwd)
				}

			case "enter":
				it, ok := m.menu.SelectedItem().(menuItem)
				if !ok {
					return m, nil
				}
				return m.openMenuItem(it)
			}

		case screenLessons:
			if m.lessons.FilterState() != list.Filtering {
				switch msg.String() {
				case "q", "esc", "b":
					m.scr = screenHome
					m.toast = ""
					return m, nil

				case "enter":
					it, ok := m.lessons.SelectedItem().(lessonItem)
					if !ok {
						return m, nil
					}
					m.readerRef = it.ref
					m.overlay = false
					m.overlayText = ""
					m.toast = "Loading " + it.ref.Slug() + "…"
					return m, cmdRenderLesson(m.workspaceRoot, it.ref, m.readerWidth())
				}
			}

		case screenReader:
			switch msg.String() {
			case "q":
				m.scr = screenHome
				m.overlay = false
				m.toast = ""
				return m, nil

			case "esc", "b":
				if m.overlay {
					m.overlay = false
					return m, nil
				}
				m.scr = screenLessons
				m.toast = ""
				return m, nil

			case "v":
				return m.toggleOverlay()
			}

		case screenVerify:
			switch msg.String() {
			case "q", "esc", "b":
				m.scr = screenHome
				m.toast = ""
				return m, nil

			case "r":
				if !m.verifying && m.workspaceFound {
					m.verifying = true
					m.report = nil
					m.reportID = ""
					_, cmd := startVerifyAsync(m.workspaceRoot, "", m.deps.Logger, m.deps.Debug)
					return m, cmd
				}
			}
		}

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		if msg.err != nil && !msg.found {
			m.toast = userMessage(msg.err)
		}
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace created at " + clampString(msg.root, 80)
		return m, cmdRefreshWorkspace(m.deps)

	case lessonsLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, ref := range msg.refs {
			items = append(items, lessonItem{ref: ref})
		}
		cmd := m.lessons.SetItems(items)
		m.scr = screenLessons
		m.toast = ""
		return m, cmd

	case lessonRenderedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.reader.SetContent(msg.content)
		m.reader.GotoTop()
		m.readerRef = msg.ref
		m.scr = screenReader
		m.toast = ""
		return m, nil

	case verifyDoneMsg:
		return m.applyVerifyResult(msg)
	}

	switch m.scr {
	case screenHome:
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	case screenLessons:
		var cmd tea.Cmd
		m.lessons, cmd = m.lessons.Update(msg)
		return m, cmd
	case screenReader:
		var cmd tea.Cmd
		m.reader, cmd = m.reader.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) openMenuItem(it menuItem) (tea.Model, tea.Cmd) {
	switch it.title {
	case "Quit":
		return m, tea.Quit

	case "Lessons":
		if !m.workspaceFound {
			m.toast = "Workspace not found. Press i to create one here."
			return m, nil
		}
		m.toast = "Loading lessons…"
		return m, cmdLoadLessons(m.workspaceRoot)

	case "Verify":
		if !m.workspaceFound {
			m.toast = "Workspace not found. Press i to create one here."
			return m, nil
		}
		if m.verifying {
			m.scr = screenVerify
			return m, nil
		}
		m.verifying = true
		m.report = nil
		m.reportID = ""
		m.toast = ""
		m.scr = screenVerify
		_, cmd := startVerifyAsync(m.workspaceRoot, "", m.deps.Logger, m.deps.Debug)
		return m, cmd
	}
	return m, nil
}

// toggleOverlay shows the per-lesson check results over the reader. The
// first open triggers a single-lesson verify; later opens reuse the result.
func (m model) toggleOverlay() (tea.Model, tea.Cmd) {
	if m.overlay {
		m.overlay = false
		return m, nil
	}
	m.overlay = true
	if m.overlayText == "" && !m.verifying {
		m.verifying = true
		_, cmd := startVerifyAsync(m.workspaceRoot, m.readerRef.Slug(), m.deps.Logger, m.deps.Debug)
		return m, cmd
	}
	return m, nil
}

func (m model) applyVerifyResult(msg verifyDoneMsg) (tea.Model, tea.Cmd) {
	m.verifying = false

	if msg.err != nil {
		m.toast = userMessage(msg.err)
		return m, nil
	}

	if msg.lessonKey != "" {
		if len(msg.report.Lessons) == 0 {
			m.overlayText = "No results."
			return m, nil
		}
		m.overlayText = renderLessonChecks(msg.report.Lessons[0])
		return m, nil
	}

	m.report = &msg.report
	m.reportID = msg.id
	if m.scr != screenVerify {
		m.toast = fmt.Sprintf("Verification finished: %d failing check(s)", msg.report.FailureCount())
	}
	return m, nil
}

// readerWidth is the wrap width for glamour; it leaves room for the frame
// and stays readable on wide terminals.
func (m model) readerWidth() int {
	w := m.width - 12
	if w > 100 {
		w = 100
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Docent") + "\n" +
		m.theme.Subtitle.Render("File-based courseware, verified — browse, read, and check lessons") + "\n"

	var workspaceBanner string
	if m.workspaceFound {
		workspaceBanner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		workspaceBanner = m.theme.Card.Render(
			"⚠ No workspace found.\n\nPress i to scaffold a course here, or run `docent init`.",
		)
	}

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Help.Render(clampString(m.toast, 120))
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • q quit")
		return wrap.Render(header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(m.menu.View()) + toast + "\n" + help)

	case screenLessons:
		help := m.theme.Help.Render("↑/↓ navigate • enter read • / search • esc back")
		return wrap.Render(header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(m.lessons.View()) + toast + "\n" + help)

	case screenReader:
		title := m.theme.Title.Render(fmt.Sprintf("%d. %s", m.readerRef.Number, m.readerRef.Title)) +
			"  " + m.theme.Subtitle.Render(m.readerRef.Path)

		body := m.reader.View()
		if m.overlay {
			overlayText := m.overlayText
			if overlayText == "" {
				overlayText = "Verifying lesson…"
			}
			body = m.theme.Card.Render(overlayText)
		}

		help := m.theme.Help.Render("↑/↓ scroll • v checks • esc back • q home")
		return wrap.Render(title + "\n\n" + body + toast + "\n" + help)

	case screenVerify:
		var bodyText string
		switch {
		case m.verifying:
			bodyText = "Verifying course…"
		case m.report != nil:
			bodyText = renderReportSummary(*m.report, m.reportID)
		default:
			bodyText = "No verification has run yet. Press r to start one."
		}
		help := m.theme.Help.Render("r re-run • esc back • q home")
		return wrap.Render(header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(bodyText) + toast + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
