package main

import (
	"context"
	"fmt"
	"strings"

	"codequest/cmd/codequest/ui"
	"codequest/internal/challenge"
	"codequest/internal/game"
	"codequest/internal/logging"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play interactively in the terminal",
	Long: `Open the quest board for a character. Pick a challenge, write the
solution in the editor and submit it with ctrl+s.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		hero, err := a.hero(heroName)
		if err != nil {
			return err
		}
		logging.UI("Starting play session for %s", hero.Name)
		p := tea.NewProgram(newPlayModel(commandContext(cmd), a, hero),
			tea.WithAltScreen(),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		_, err = p.Run()
		return err
	})
}

type screen int

const (
	screenMenu screen = iota
	screenChallenge
	screenResult
	screenTutorial
)

// challengeItem is a quest board entry.
type challengeItem struct {
	info challenge.Info
	done bool
}

func (i challengeItem) Title() string {
	if i.done {
		return "✓ " + i.info.Name
	}
	return i.info.Name
}

func (i challengeItem) Description() string {
	return fmt.Sprintf("%s · %s · %d XP", i.info.Difficulty, i.info.Area, i.info.XPReward)
}

func (i challengeItem) FilterValue() string { return i.info.Name + " " + i.info.ID }

// verifiedMsg carries a verified submission back to the model.
type verifiedMsg struct {
	rep    report
	source string
}

// playModel is the bubbletea model of the play session.
type playModel struct {
	ctx  context.Context
	app  *app
	hero *game.Character

	screen  screen
	menu    list.Model
	editor  textarea.Model
	view    viewport.Model
	spinner spinner.Model

	current   *challenge.Challenge
	hintLevel int
	page      int
	running   bool
	status    string

	width, height int
	// wrapWidth is the width the Markdown renderer was built for.
	wrapWidth int
	ready     bool
}

const (
	headerHeight = 2
	footerHeight = 2
	editorHeight = 12
)

func newPlayModel(ctx context.Context, a *app, hero *game.Character) playModel {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Quest Board"
	menu.SetShowHelp(false)

	editor := textarea.New()
	editor.Placeholder = "Write your solution here..."
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.SetHeight(editorHeight)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(a.styles.Theme.Accent)

	m := playModel{
		ctx:     ctx,
		app:     a,
		hero:    hero,
		menu:    menu,
		editor:  editor,
		view:    viewport.New(0, 0),
		spinner: sp,
	}
	m.refreshMenu()
	return m
}

// refreshMenu lists the challenges the hero can reach.
func (m *playModel) refreshMenu() {
	var items []list.Item
	for _, ch := range m.app.available(m.hero) {
		info := ch.Info()
		items = append(items, challengeItem{info: info, done: m.hero.HasCompleted(info.ID)})
	}
	m.menu.SetItems(items)
}

func (m playModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenChallenge:
			return m.updateChallenge(msg)
		case screenResult:
			return m.updateResult(msg)
		case screenTutorial:
			return m.updateTutorial(msg)
		}

	case verifiedMsg:
		m.running = false
		rep, err := m.app.settle(m.ctx, msg.rep, m.hero, msg.source)
		if err != nil {
			m.status = m.app.styles.Error.Render(err.Error())
			return m, nil
		}
		m.status = ""
		m.view.SetContent(renderReport(m.app.styles, rep))
		m.view.GotoTop()
		m.screen = screenResult
		m.resize(m.width, m.height)
		if rep.Progress != nil {
			m.refreshMenu()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.screen == screenChallenge {
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m *playModel) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	bodyHeight := max(1, height-headerHeight-footerHeight)
	m.menu.SetSize(width, bodyHeight)
	m.editor.SetWidth(max(10, width-2))
	m.view.Width = width
	m.view.Height = bodyHeight
	if m.screen == screenChallenge {
		m.view.Height = max(1, bodyHeight-editorHeight-1)
	}

	if width != m.wrapWidth {
		if r, err := ui.NewRenderer(m.app.styles.Theme, width-4); err == nil {
			m.app.renderer = r
			m.wrapWidth = width
		}
	}
	switch {
	case m.screen == screenChallenge && m.current != nil:
		m.view.SetContent(ui.RenderMarkdown(m.app.renderer, challengeMarkdown(m.current)))
	case m.screen == screenTutorial:
		pages := game.Tutorial()
		m.view.SetContent(ui.RenderMarkdown(m.app.renderer, pages[m.page].Markdown(m.page+1, len(pages))))
		m.view.GotoTop()
	}
}

func (m playModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.screen = screenTutorial
			m.page = 0
			m.resize(m.width, m.height)
			return m, nil
		case "enter":
			item, ok := m.menu.SelectedItem().(challengeItem)
			if !ok {
				return m, nil
			}
			return m.open(item.info.ID)
		}
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// open switches to the challenge screen for id.
func (m playModel) open(id string) (tea.Model, tea.Cmd) {
	ch, err := m.app.lookup(id)
	if err != nil {
		m.status = m.app.styles.Error.Render(err.Error())
		return m, nil
	}
	if m.current == nil || m.current.ID() != id {
		m.editor.SetValue(ch.Info().Template)
		m.hintLevel = 0
	}
	m.current = ch
	m.screen = screenChallenge
	m.status = ""
	m.resize(m.width, m.height)
	logging.UI("Opened challenge %s", id)
	return m, m.editor.Focus()
}

func (m playModel) updateChallenge(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor.Blur()
		m.screen = screenMenu
		m.status = ""
		m.resize(m.width, m.height)
		return m, nil
	case "ctrl+s":
		if m.running {
			return m, nil
		}
		m.running = true
		m.status = ""
		return m, tea.Batch(m.submit(m.editor.Value()), m.spinner.Tick)
	case "ctrl+t":
		m.status = m.app.styles.Info.Render(m.current.Hint(m.hintLevel))
		m.hintLevel++
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// submit verifies source off the update loop. Only one submission runs at a
// time, which keeps the challenge counters single-threaded. Rewards are
// applied when the verifiedMsg arrives.
func (m playModel) submit(source string) tea.Cmd {
	ctx, ch, a := m.ctx, m.current, m.app
	return func() tea.Msg {
		return verifiedMsg{rep: a.verify(ctx, ch, source), source: source}
	}
}

func (m playModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "e":
		return m.open(m.current.ID())
	case "m", "q":
		m.screen = screenMenu
		m.resize(m.width, m.height)
		return m, nil
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m playModel) updateTutorial(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "right", "n", "enter":
		if m.page < len(game.Tutorial())-1 {
			m.page++
			m.resize(m.width, m.height)
		}
		return m, nil
	case "left", "p":
		if m.page > 0 {
			m.page--
			m.resize(m.width, m.height)
		}
		return m, nil
	case "esc", "q":
		m.screen = screenMenu
		m.resize(m.width, m.height)
		return m, nil
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m playModel) View() string {
	if !m.ready {
		return "Preparing your quest..."
	}
	s := m.app.styles

	header := s.Header.Render(fmt.Sprintf("%s · Level %d %s · %d/%d XP",
		m.hero.Name, m.hero.Level, m.hero.Class, m.hero.Experience, m.hero.XPToNextLevel()))

	var body, help string
	switch m.screen {
	case screenMenu:
		body = m.menu.View()
		help = "enter: open · /: filter · ?: tutorial · q: quit"
	case screenChallenge:
		body = lipgloss.JoinVertical(lipgloss.Left, m.view.View(), s.RenderDivider(m.width), m.editor.View())
		help = "ctrl+s: submit · ctrl+t: hint · pgup/pgdown: scroll · esc: quest board"
	case screenResult:
		body = m.view.View()
		help = "e: edit again · m: quest board · ↑/↓: scroll"
	case screenTutorial:
		body = m.view.View()
		help = "→/n: next page · ←/p: previous page · esc: quest board"
	}

	status := m.status
	if m.running {
		status = m.spinner.View() + " Running your solution..."
	}
	footer := s.Footer.Render(strings.TrimSpace(status + "\n" + help))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
